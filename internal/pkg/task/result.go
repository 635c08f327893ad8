package task

import (
	"strings"

	"github.com/keboola/go-orchestrator/internal/pkg/utils/errors"
)

// Result is the value returned by a task operation.
// Use OkResult or ErrResult to create it.
type Result struct {
	result  string
	error   error
	outputs map[string]any
}

func OkResult(msg string) Result {
	if strings.TrimSpace(msg) == "" {
		panic(errors.New("message cannot be empty"))
	}
	return Result{result: msg}
}

func ErrResult(err error) Result {
	if err == nil {
		panic(errors.New("error cannot be nil"))
	}
	return Result{error: err}
}

func (r Result) Result() string {
	return r.result
}

func (r Result) Error() error {
	return r.error
}

func (r Result) IsError() bool {
	return r.error != nil
}

func (r Result) Outputs() map[string]any {
	return r.outputs
}

// WithOutput adds some task operation output.
func (r Result) WithOutput(k string, v any) Result {
	if r.error == nil && r.result == "" {
		panic(errors.New(`result struct is empty, use task.OkResult(msg) or task.ErrResult(err) function first`))
	}

	// Clone map
	original := r.outputs
	r.outputs = make(map[string]any)
	for key, value := range original {
		r.outputs[key] = value
	}

	// Add new key
	r.outputs[k] = v
	return r
}
