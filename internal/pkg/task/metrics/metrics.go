// Package metrics collects per-attempt task telemetry and derives aggregates.
package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/keboola/go-orchestrator/internal/pkg/task"
	"github.com/keboola/go-orchestrator/internal/pkg/telemetry"
)

// Attempt is one telemetry record, short-circuited and skipped attempts are recorded too.
type Attempt struct {
	Name    string
	Outcome task.Outcome
	Elapsed time.Duration
	At      time.Time
}

type Config struct {
	// MinSuccessRate is the health floor, see Collector.Health.
	MinSuccessRate float64 `json:"minSuccessRate" validate:"min=0,max=1"`
	// MaxMeanDuration is the health ceiling, 0 means no limit.
	MaxMeanDuration time.Duration `json:"maxMeanDuration" validate:"min=0"`
}

func NewConfig() Config {
	return Config{
		MinSuccessRate:  0.9,
		MaxMeanDuration: 0,
	}
}

// Collector appends one Attempt per execution attempt and computes aggregates on demand.
type Collector struct {
	config Config

	lock     *sync.Mutex
	attempts []Attempt

	durationHist metric.Float64Histogram
	outcomeCount metric.Int64Counter
}

// Summary is a read-only aggregate derived from the recorded attempts.
// Duration aggregates are computed over attempts that actually executed,
// so short-circuited and skipped attempts don't skew them.
type Summary struct {
	Total       int           `json:"total"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	SuccessRate float64       `json:"successRate"`
	Mean        time.Duration `json:"mean"`
	P50         time.Duration `json:"p50"`
	P95         time.Duration `json:"p95"`
	P99         time.Duration `json:"p99"`
	// Throughput is the number of executed attempts per second of the observed window.
	Throughput float64 `json:"throughput"`
	Fastest    string  `json:"fastest"`
	Slowest    string  `json:"slowest"`
}

type Health struct {
	Healthy bool   `json:"healthy"`
	Reason  string `json:"reason"`
}

func NewCollector(config Config, tel telemetry.Telemetry) *Collector {
	meter := tel.Meter()
	return &Collector{
		config:       config,
		lock:         &sync.Mutex{},
		durationHist: telemetry.Histogram(meter, "orchestrator.task.duration", "Task execution duration.", "ms"),
		outcomeCount: telemetry.IntCounter(meter, "orchestrator.task.outcome", "Task attempts by outcome.", "1"),
	}
}

func (c *Collector) Record(ctx context.Context, attempt Attempt) {
	c.outcomeCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("task", attempt.Name),
		attribute.String("outcome", string(attempt.Outcome)),
	))
	if executed(attempt) {
		c.durationHist.Record(ctx, float64(attempt.Elapsed)/float64(time.Millisecond), metric.WithAttributes(
			attribute.String("task", attempt.Name),
		))
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	c.attempts = append(c.attempts, attempt)
}

// Summary computes the aggregates from the recorded attempts.
// The method is side-effect-free, repeated calls without new records return identical values.
func (c *Collector) Summary() Summary {
	c.lock.Lock()
	defer c.lock.Unlock()
	return newSummary(c.attempts)
}

// Health reports whether the recorded attempts satisfy the configured floor and ceiling.
// An open circuit breaker on any scope makes the result unhealthy.
func (c *Collector) Health(breakerOpen bool) Health {
	if breakerOpen {
		return Health{Healthy: false, Reason: "a circuit breaker is open"}
	}

	summary := c.Summary()
	if summary.Total > 0 && summary.SuccessRate < c.config.MinSuccessRate {
		return Health{Healthy: false, Reason: "success rate is below the configured minimum"}
	}
	if c.config.MaxMeanDuration > 0 && summary.Mean > c.config.MaxMeanDuration {
		return Health{Healthy: false, Reason: "mean task duration is above the configured maximum"}
	}
	return Health{Healthy: true, Reason: "ok"}
}

// executed reports whether the attempt invoked the task operation.
func executed(attempt Attempt) bool {
	switch attempt.Outcome {
	case task.OutcomeCircuitOpen, task.OutcomeDependencySkipped:
		return false
	default:
		return attempt.Elapsed > 0
	}
}
