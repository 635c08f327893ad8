// Package orchestrator runs a submission of interdependent tasks to completion.
//
// A run validates the submission up front, resolves the dependency graph and
// executes the tasks under the configured concurrency limit, scheduling
// strategy, load balancing and circuit breakers. Exactly one terminal result
// is produced per submitted definition.
//
// The orchestrator is constructed explicitly and passed around as a handle,
// there is no global instance.
package orchestrator

import (
	"context"
	"sort"

	"github.com/jonboulle/clockwork"

	"github.com/keboola/go-orchestrator/internal/pkg/log"
	"github.com/keboola/go-orchestrator/internal/pkg/task"
	"github.com/keboola/go-orchestrator/internal/pkg/task/balancer"
	"github.com/keboola/go-orchestrator/internal/pkg/task/breaker"
	"github.com/keboola/go-orchestrator/internal/pkg/task/limiter"
	"github.com/keboola/go-orchestrator/internal/pkg/task/metrics"
	"github.com/keboola/go-orchestrator/internal/pkg/telemetry"
)

type dependencies interface {
	Clock() clockwork.Clock
	Logger() log.Logger
	Telemetry() telemetry.Telemetry
}

type Orchestrator struct {
	config    Config
	clock     clockwork.Clock
	logger    log.Logger
	telemetry telemetry.Telemetry
	collector *metrics.Collector
	breakers  *breaker.Registry
	limiter   *limiter.Limiter
	balancer  *balancer.Balancer
}

// ProgressFn is invoked after each terminal result, see WithProgress.
type ProgressFn func(completed, total int, name string)

type Option func(*runOptions)

type runOptions struct {
	progress ProgressFn
	// bufferAll sizes the results channel to the whole submission,
	// a batch caller drains it only after the run finished.
	bufferAll bool
}

func WithProgress(fn ProgressFn) Option {
	return func(o *runOptions) {
		o.progress = fn
	}
}

func New(d dependencies, config Config) (*Orchestrator, error) {
	if err := config.Validate(context.Background()); err != nil {
		return nil, err
	}

	logger := d.Logger().AddPrefix("[orchestrator]")

	bal, err := balancer.New(config.Balancing, config.lanes())
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		config:    config,
		clock:     d.Clock(),
		logger:    logger,
		telemetry: d.Telemetry(),
		collector: metrics.NewCollector(config.Metrics, d.Telemetry()),
		limiter:   limiter.New(config.MaxConcurrentTasks),
		balancer:  bal,
	}
	o.breakers = breaker.NewRegistry(config.Breaker, o.clock, func(t breaker.Transition) {
		scope := t.Scope
		if scope == "" {
			scope = "global"
		}
		logger.Warnf(`circuit breaker "%s" changed state: %s -> %s`, scope, t.From, t.To)
	})
	return o, nil
}

// Collector returns the telemetry collector of the orchestrator,
// the records accumulate over all runs.
func (o *Orchestrator) Collector() *metrics.Collector {
	return o.collector
}

// Health combines the collector thresholds with the circuit breaker states.
func (o *Orchestrator) Health() metrics.Health {
	return o.collector.Health(o.breakers.AnyOpen())
}

// ProcessBatch runs the submission to completion and returns all results
// in submission order. Task failures are reported in the results, the error
// return covers invalid submissions only.
func (o *Orchestrator) ProcessBatch(ctx context.Context, defs []task.Definition, opts ...Option) ([]task.RunResult, error) {
	options := runOptions{bufferAll: true}
	for _, opt := range opts {
		opt(&options)
	}

	results, err := o.start(ctx, defs, options)
	if err != nil {
		return nil, err
	}

	out := make([]task.RunResult, 0, len(defs))
	for result := range results {
		out = append(out, result)
	}

	// Order by submission
	index := make(map[string]int, len(defs))
	for i, def := range defs {
		index[def.Name] = i
	}
	sort.SliceStable(out, func(i, j int) bool {
		return index[out[i].Name] < index[out[j].Name]
	})
	return out, nil
}

// ProcessStream runs the submission and emits results in completion order.
// The channel is bounded, a slow consumer slows the run down.
// It is closed when every submitted task reached a terminal outcome.
// A consumer that cancelled the context may stop draining, the run then
// finishes on its own and the remaining results are dropped,
// they stay visible in the Collector.
func (o *Orchestrator) ProcessStream(ctx context.Context, defs []task.Definition) (<-chan task.RunResult, error) {
	return o.start(ctx, defs, runOptions{})
}
