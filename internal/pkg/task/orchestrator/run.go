package orchestrator

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/keboola/go-orchestrator/internal/pkg/idgenerator"
	"github.com/keboola/go-orchestrator/internal/pkg/log"
	"github.com/keboola/go-orchestrator/internal/pkg/task"
	"github.com/keboola/go-orchestrator/internal/pkg/task/graph"
	"github.com/keboola/go-orchestrator/internal/pkg/task/metrics"
	"github.com/keboola/go-orchestrator/internal/pkg/task/scheduler"
)

// run owns the graph, the ready set and the bookkeeping of one submission.
// All fields are mutated by the coordinator goroutine only, workers communicate
// through the completions channel.
type run struct {
	o       *Orchestrator
	id      string
	logger  log.Logger
	graph   *graph.Graph
	ready   *scheduler.ReadySet
	options runOptions

	// out is the results channel returned to the caller.
	out chan task.RunResult
	// completions receives worker results, the buffer fits the whole submission,
	// so a worker never blocks on it.
	completions chan task.RunResult

	dispatched map[string]bool
	finalized  map[string]bool
	remaining  int
	completed  int
	cancelled  bool
	// abandoned is set when the consumer stopped draining after a cancellation,
	// remaining results are then finalized without delivery.
	abandoned bool
}

func (o *Orchestrator) start(ctx context.Context, defs []task.Definition, options runOptions) (chan task.RunResult, error) {
	if err := task.ValidateDefinitions(ctx, defs); err != nil {
		return nil, err
	}

	g, err := graph.New(defs)
	if err != nil {
		return nil, err
	}

	buffer := o.config.StreamBuffer
	if options.bufferAll {
		buffer = g.Len()
	}

	r := &run{
		o:           o,
		id:          idgenerator.RunID(),
		graph:       g,
		ready:       scheduler.New(o.config.Strategy),
		options:     options,
		out:         make(chan task.RunResult, buffer),
		completions: make(chan task.RunResult, g.Len()),
		dispatched:  make(map[string]bool, g.Len()),
		finalized:   make(map[string]bool, g.Len()),
		remaining:   g.Len(),
	}
	r.logger = o.logger.AddPrefix(fmt.Sprintf("[run-%s]", r.id))

	go r.loop(ctx)
	return r.out, nil
}

// loop is the coordinator goroutine.
func (r *run) loop(ctx context.Context) {
	var runErr error
	ctx, span := r.o.telemetry.Tracer().Start(ctx, "orchestrator.run", trace.WithAttributes(
		attribute.String("run.id", r.id),
		attribute.Int("run.tasks", r.graph.Len()),
	))
	defer close(r.out)
	defer span.End(&runErr)

	r.logger.Infof(`started run with "%d" tasks`, r.graph.Len())

	for _, def := range r.graph.Ready() {
		r.ready.Push(def, r.graph.Tier(def.Name))
	}

	for r.remaining > 0 {
		if r.cancelled {
			// Only in-flight tasks remain, wait for them
			r.handleResult(ctx, <-r.completions)
			continue
		}

		r.dispatch(ctx)
		if r.remaining == 0 {
			break
		}

		select {
		case result := <-r.completions:
			r.handleResult(ctx, result)
		case <-ctx.Done():
			r.cancel(ctx)
		}
	}

	if r.cancelled {
		runErr = ctx.Err()
	}
	r.logger.Infof(`run finished, "%d" tasks processed`, r.completed)
}

// dispatch starts ready tasks while a permit is immediately available,
// so the scheduling strategy decides the order, not the semaphore wakeup.
func (r *run) dispatch(ctx context.Context) {
	for r.ready.Len() > 0 {
		if !r.o.limiter.TryAcquire() {
			return
		}

		def, _ := r.ready.Pop()

		if b := r.o.breakerFor(def.Name); b != nil && !b.Allow() {
			// Short-circuit, the operation is not invoked, no failure is counted
			r.o.limiter.Release()
			r.logger.Warnf(`task "%s" short-circuited by the circuit breaker`, def.Name)
			r.handleResult(ctx, task.RunResult{
				Name:       def.Name,
				Outcome:    task.OutcomeCircuitOpen,
				Error:      "circuit breaker is open",
				FinishedAt: r.o.clock.Now(),
			})
			continue
		}

		lane := r.o.balancer.Pick(def)
		r.dispatched[def.Name] = true

		logger := r.logger.AddPrefix(fmt.Sprintf("[%s]", def.Name))
		b := r.o.breakerFor(def.Name)
		go func() {
			result := r.o.runTask(ctx, logger, def, lane)
			if b != nil {
				switch {
				case result.Outcome == task.OutcomeSuccess:
					b.RecordSuccess()
				case result.Outcome.IsExecutionFailure():
					b.RecordFailure()
				default:
					// No verdict, give the half-open trial token back
					b.RecordCancellation()
				}
			}
			r.completions <- result
		}()
	}
}

// handleResult finalizes one task: updates the graph, emits the result
// and applies the fail-fast cascade.
func (r *run) handleResult(ctx context.Context, result task.RunResult) {
	r.finalized[result.Name] = true
	newlyReady := r.graph.MarkDone(result.Name)
	r.emit(ctx, result)

	// Skip all transitive dependents of an unsuccessful task.
	// Skipped tasks don't cascade on their own, their dependents
	// are a subset of the originator's transitive dependents.
	cascade := r.o.config.FailFast &&
		!r.cancelled &&
		result.Outcome != task.OutcomeSuccess &&
		result.Outcome != task.OutcomeDependencySkipped
	if cascade {
		for _, name := range r.graph.TransitiveDependents(result.Name) {
			if !r.finalized[name] && !r.dispatched[name] {
				r.handleResult(ctx, task.RunResult{
					Name:       name,
					Outcome:    task.OutcomeDependencySkipped,
					Error:      fmt.Sprintf(`dependency "%s" did not succeed`, result.Name),
					FinishedAt: r.o.clock.Now(),
				})
			}
		}
	}

	for _, def := range newlyReady {
		if !r.finalized[def.Name] {
			r.ready.Push(def, r.graph.Tier(def.Name))
		}
	}
}

// emit records the attempt, updates the bookkeeping and delivers the result
// to the consumer. The send blocks when the channel buffer is full, that is
// the backpressure: the consumer must drain the channel until it is closed.
// A consumer that cancelled the run is allowed to walk away, then the results
// are finalized without delivery, the run must always finish and every
// attempt must reach the collector.
func (r *run) emit(ctx context.Context, result task.RunResult) {
	r.o.collector.Record(ctx, metrics.Attempt{
		Name:    result.Name,
		Outcome: result.Outcome,
		Elapsed: result.Duration,
		At:      result.FinishedAt,
	})

	r.completed++
	r.remaining--
	if r.options.progress != nil {
		r.options.progress(r.completed, r.graph.Len(), result.Name)
	}

	if r.abandoned {
		return
	}

	select {
	case r.out <- result:
	default:
		// The buffer is full, wait for the consumer,
		// but give up once the run is cancelled.
		select {
		case r.out <- result:
		case <-ctx.Done():
			r.abandoned = true
			r.logger.Infof(`consumer stopped draining, "%d" results not delivered`, r.remaining+1)
		}
	}
}

// cancel finalizes all not yet dispatched tasks, in-flight tasks
// are stopped by the context and complete on their own.
func (r *run) cancel(ctx context.Context) {
	r.cancelled = true
	r.logger.Infof(`run cancelled, waiting for in-flight tasks`)
	for _, name := range r.graph.Names() {
		if !r.finalized[name] && !r.dispatched[name] {
			r.handleResult(ctx, task.RunResult{
				Name:       name,
				Outcome:    task.OutcomeCancelled,
				Error:      "run cancelled",
				FinishedAt: r.o.clock.Now(),
			})
		}
	}
}
