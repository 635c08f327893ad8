package orchestrator

import (
	"context"
	"time"

	"github.com/keboola/go-orchestrator/internal/pkg/task/balancer"
	"github.com/keboola/go-orchestrator/internal/pkg/task/breaker"
	"github.com/keboola/go-orchestrator/internal/pkg/task/metrics"
	"github.com/keboola/go-orchestrator/internal/pkg/task/scheduler"
	"github.com/keboola/go-orchestrator/internal/pkg/validator"
)

type Config struct {
	// MaxConcurrentTasks bounds the number of simultaneously executing operations.
	MaxConcurrentTasks int `json:"maxConcurrentTasks" validate:"required,min=1"`
	// Strategy orders the ready set, see the scheduler package.
	Strategy scheduler.Strategy `json:"strategy" validate:"required,oneof=fifo lifo priority dependencyAware"`
	// Balancing routes tasks across the Lanes, see the balancer package.
	Balancing balancer.Strategy `json:"balancing" validate:"required,oneof=roundRobin leastLoaded weightedRoundRobin taskAffinity"`
	// Lanes are the execution lanes, if empty a single default lane is used.
	Lanes []balancer.LaneConfig `json:"lanes,omitempty" validate:"omitempty,dive"`
	// Breaker configures the per-scope circuit breakers.
	Breaker breaker.Config `json:"breaker"`
	// Metrics configures the telemetry collector health thresholds.
	Metrics metrics.Config `json:"metrics"`
	// DefaultTimeout applies to tasks without an own timeout, 0 means no timeout.
	DefaultTimeout time.Duration `json:"defaultTimeout" validate:"min=0"`
	// FailFast skips all transitive dependents of an unsuccessful task.
	// If disabled, a dependent runs as soon as its dependencies are resolved,
	// successfully or not.
	FailFast bool `json:"failFast"`
	// StreamBuffer is the capacity of the stream results channel.
	// A small buffer keeps the backpressure, the run pace follows the consumer.
	StreamBuffer int `json:"streamBuffer" validate:"required,min=1"`
}

func NewConfig() Config {
	return Config{
		MaxConcurrentTasks: 4,
		Strategy:           scheduler.StrategyFIFO,
		Balancing:          balancer.StrategyRoundRobin,
		Breaker:            breaker.NewConfig(),
		Metrics:            metrics.NewConfig(),
		DefaultTimeout:     0,
		FailFast:           true,
		StreamBuffer:       1,
	}
}

func (c Config) Validate(ctx context.Context) error {
	return validator.Validate(ctx, c)
}

// lanes returns the configured lanes, or the default single lane.
func (c Config) lanes() []balancer.LaneConfig {
	if len(c.Lanes) > 0 {
		return c.Lanes
	}
	return []balancer.LaneConfig{{Name: "default", Capacity: c.MaxConcurrentTasks}}
}
