package orchestrator

import (
	"context"
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/keboola/go-orchestrator/internal/pkg/log"
	"github.com/keboola/go-orchestrator/internal/pkg/task"
	"github.com/keboola/go-orchestrator/internal/pkg/task/balancer"
	"github.com/keboola/go-orchestrator/internal/pkg/task/breaker"
	"github.com/keboola/go-orchestrator/internal/pkg/utils/errors"
)

// breakerFor returns the breaker of the task scope,
// or nil when breakers are disabled or no scope matches.
func (o *Orchestrator) breakerFor(name string) *breaker.Breaker {
	if !o.config.Breaker.Enabled {
		return nil
	}
	return o.breakers.For(name)
}

// runTask executes one dispatched task and produces its terminal result.
//
// The operation runs in an own goroutine, so a task that exceeds its timeout
// or a cancelled run is finalized immediately. The permit and the lane slot
// are held until the operation actually returns, the concurrency bound covers
// overtime operations too.
func (o *Orchestrator) runTask(ctx context.Context, logger log.Logger, def task.Definition, lane *balancer.Lane) task.RunResult {
	ctx, span := o.telemetry.Tracer().Start(ctx, "orchestrator.task", trace.WithAttributes(
		attribute.String("task.name", def.Name),
		attribute.String("task.lane", lane.Name()),
	))

	timeout := def.Timeout
	if timeout == 0 {
		timeout = o.config.DefaultTimeout
	}

	var workCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		workCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		workCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	startedAt := o.clock.Now()
	logger.Infof(`started task`)

	resultCh := make(chan task.Result, 1)
	go func() {
		defer o.limiter.Release()
		defer o.balancer.Release(lane)
		resultCh <- o.invoke(workCtx, def, logger)
	}()

	var res task.Result
	var outcome task.Outcome
	select {
	case res = <-resultCh:
		outcome = classify(ctx, res)
	case <-workCtx.Done():
		if ctx.Err() != nil {
			outcome = task.OutcomeCancelled
			res = task.ErrResult(errors.New("task cancelled"))
		} else {
			outcome = task.OutcomeTimedOut
			res = task.ErrResult(errors.Errorf(`task exceeded the timeout "%s"`, timeout))
		}
	}

	finishedAt := o.clock.Now()
	duration := finishedAt.Sub(startedAt)

	out := task.RunResult{
		Name:       def.Name,
		Outcome:    outcome,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Duration:   duration,
	}

	var err error
	if outcome == task.OutcomeSuccess {
		out.Result = res.Result()
		out.Outputs = res.Outputs()
		logger.Infof(`task succeeded (%s): %s`, duration, out.Result)
	} else {
		err = res.Error()
		out.Error = err.Error()
		logger.Warnf(`task %s (%s): %s`, outcome, duration, out.Error)
	}

	span.SetAttributes(attribute.String("task.outcome", outcome.String()))
	span.End(&err)
	return out
}

// invoke calls the task operation, a panic is converted to an error result.
func (o *Orchestrator) invoke(ctx context.Context, def task.Definition, logger log.Logger) (out task.Result) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			err := errors.Errorf("panic: %v, stacktrace: %s", panicErr, string(debug.Stack()))
			logger.Errorf(`task panic: %s`, err)
			out = task.ErrResult(err)
		}
	}()
	return def.Operation(ctx, logger)
}

// classify maps an operation result to the terminal outcome.
func classify(ctx context.Context, res task.Result) task.Outcome {
	if !res.IsError() {
		return task.OutcomeSuccess
	}
	err := res.Error()
	switch {
	case ctx.Err() != nil:
		return task.OutcomeCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return task.OutcomeTimedOut
	default:
		return task.OutcomeFailed
	}
}
