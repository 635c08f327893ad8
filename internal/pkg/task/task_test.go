package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keboola/go-orchestrator/internal/pkg/log"
	"github.com/keboola/go-orchestrator/internal/pkg/task"
	"github.com/keboola/go-orchestrator/internal/pkg/utils/errors"
)

func noop(ctx context.Context, logger log.Logger) task.Result {
	return task.OkResult("done")
}

func TestDefinition_Validate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	require.NoError(t, task.Definition{Name: "foo", Operation: noop}.Validate(ctx))
	require.Error(t, task.Definition{Operation: noop}.Validate(ctx))
	require.Error(t, task.Definition{Name: "foo"}.Validate(ctx))
}

func TestValidateDefinitions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	err := task.ValidateDefinitions(ctx, []task.Definition{
		{Name: "ok", Operation: noop},
		{Name: "no-operation"},
		{Operation: noop},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid definition "no-operation"`)
	assert.Contains(t, err.Error(), `invalid definition "2"`)
}

func TestResult_Ok(t *testing.T) {
	t.Parallel()

	r := task.OkResult("all good").WithOutput("count", 3)
	assert.False(t, r.IsError())
	assert.Equal(t, "all good", r.Result())
	assert.Equal(t, map[string]any{"count": 3}, r.Outputs())
}

func TestResult_Error(t *testing.T) {
	t.Parallel()

	err := errors.New("some error")
	r := task.ErrResult(err)
	assert.True(t, r.IsError())
	assert.Equal(t, err, r.Error())
}

func TestResult_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { task.OkResult(" ") })
	assert.Panics(t, func() { task.ErrResult(nil) })
	assert.Panics(t, func() { (task.Result{}).WithOutput("k", "v") })
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	assert.True(t, task.OutcomeFailed.IsExecutionFailure())
	assert.True(t, task.OutcomeTimedOut.IsExecutionFailure())
	assert.False(t, task.OutcomeSuccess.IsExecutionFailure())
	assert.False(t, task.OutcomeCircuitOpen.IsExecutionFailure())

	r := task.RunResult{Name: "foo", Outcome: task.OutcomeDependencySkipped}
	assert.False(t, r.IsSuccessful())
	assert.False(t, r.IsFailed())
	assert.False(t, r.WasInvoked())
}

func TestRunResult_Predicates(t *testing.T) {
	t.Parallel()

	// Predicates must be callable on non-addressable values, for example map entries.
	byName := map[string]task.RunResult{
		"ok":      {Name: "ok", Outcome: task.OutcomeSuccess, StartedAt: time.Now()},
		"skipped": {Name: "skipped", Outcome: task.OutcomeDependencySkipped},
	}
	assert.True(t, byName["ok"].IsSuccessful())
	assert.True(t, byName["ok"].WasInvoked())
	assert.False(t, byName["ok"].IsFailed())
	assert.False(t, byName["skipped"].WasInvoked())
}
