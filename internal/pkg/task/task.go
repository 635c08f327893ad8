// Package task defines the data model of the orchestration engine:
// the task definition with its operation, and the result of one run.
package task

import (
	"context"
	"time"

	"github.com/keboola/go-orchestrator/internal/pkg/log"
	"github.com/keboola/go-orchestrator/internal/pkg/utils/errors"
	"github.com/keboola/go-orchestrator/internal/pkg/validator"
)

// Fn is a task operation, it must respect the context cancellation.
type Fn func(ctx context.Context, logger log.Logger) Result

// Definition describes one named unit of work within a submission.
// It is created by the caller and immutable thereafter.
type Definition struct {
	// Name must be unique within a submission.
	Name string `json:"name" validate:"required"`
	// Operation produces the task result, it runs at most once per run.
	Operation Fn `json:"-" validate:"required"`
	// DependsOn lists names of tasks that must reach a terminal outcome first.
	DependsOn []string `json:"dependsOn,omitempty"`
	// Priority orders simultaneously ready tasks, higher runs earlier.
	Priority int `json:"priority,omitempty"`
	// Timeout bounds the operation duration, zero means the orchestrator default.
	Timeout time.Duration `json:"timeout,omitempty"`
	// AffinityKey routes tasks sharing the key to the same lane, default is the task name.
	AffinityKey string `json:"affinityKey,omitempty"`
}

func (d Definition) Validate(ctx context.Context) error {
	return validator.Validate(ctx, d)
}

// ValidateDefinitions checks each definition, structural checks
// (duplicates, unknown dependencies, cycles) are done by the graph package.
func ValidateDefinitions(ctx context.Context, defs []Definition) error {
	errs := errors.NewMultiError()
	for i, def := range defs {
		if err := def.Validate(ctx); err != nil {
			if def.Name == "" {
				errs.AppendWithPrefixf(err, `invalid definition "%d"`, i)
			} else {
				errs.AppendWithPrefixf(err, `invalid definition "%s"`, def.Name)
			}
		}
	}
	return errs.ErrorOrNil()
}
