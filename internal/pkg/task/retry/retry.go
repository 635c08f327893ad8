// Package retry decorates a task operation with exponential backoff retries.
//
// The orchestrator itself never retries, retries are an explicit caller
// decision: wrap the operation before adding it to a submission.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/keboola/go-orchestrator/internal/pkg/log"
	"github.com/keboola/go-orchestrator/internal/pkg/task"
)

type Option func(*options)

type options struct {
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	maxRetries      uint64
	randomization   float64
}

func WithInitialInterval(v time.Duration) Option {
	return func(o *options) { o.initialInterval = v }
}

func WithMaxInterval(v time.Duration) Option {
	return func(o *options) { o.maxInterval = v }
}

// WithMaxElapsedTime stops retrying after the total time, 0 means no limit.
func WithMaxElapsedTime(v time.Duration) Option {
	return func(o *options) { o.maxElapsedTime = v }
}

func WithMaxRetries(v uint64) Option {
	return func(o *options) { o.maxRetries = v }
}

func WithRandomizationFactor(v float64) Option {
	return func(o *options) { o.randomization = v }
}

// Wrap returns an operation that invokes fn repeatedly until it succeeds,
// the retries are exhausted or the context is cancelled.
// The result of the last attempt is returned.
func Wrap(fn task.Fn, opts ...Option) task.Fn {
	o := options{
		initialInterval: 100 * time.Millisecond,
		maxInterval:     5 * time.Second,
		maxElapsedTime:  0, // don't stop
		maxRetries:      3,
		randomization:   0.2,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return func(ctx context.Context, logger log.Logger) task.Result {
		var out task.Result
		attempt := func() error {
			out = fn(ctx, logger)
			return out.Error()
		}
		notify := func(err error, delay time.Duration) {
			logger.Warnf(`attempt failed, next in "%s": %s`, delay, err)
		}

		// The last result is kept even when the retries are exhausted,
		// the returned error is already part of it
		_ = backoff.RetryNotify(attempt, newBackoff(ctx, o), notify)
		return out
	}
}

func newBackoff(ctx context.Context, o options) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.RandomizationFactor = o.randomization
	b.InitialInterval = o.initialInterval
	b.Multiplier = 2
	b.MaxInterval = o.maxInterval
	b.MaxElapsedTime = o.maxElapsedTime
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, o.maxRetries), ctx)
}
