// Package limiter bounds the number of concurrently executing task operations.
package limiter

import (
	"context"

	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"

	"github.com/keboola/go-orchestrator/internal/pkg/utils/errors"
)

// Limiter is a counting permit pool.
// A permit must be acquired before a task operation is invoked
// and released unconditionally on the task's terminal outcome.
type Limiter struct {
	capacity int
	sem      *semaphore.Weighted
	inFlight *atomic.Int64
}

func New(capacity int) *Limiter {
	if capacity < 1 {
		panic(errors.Errorf(`limiter capacity must be positive, given "%d"`, capacity))
	}
	return &Limiter{
		capacity: capacity,
		sem:      semaphore.NewWeighted(int64(capacity)),
		inFlight: atomic.NewInt64(0),
	}
}

// TryAcquire acquires a permit without blocking, it reports whether it succeeded.
func (l *Limiter) TryAcquire() bool {
	if !l.sem.TryAcquire(1) {
		return false
	}
	l.inFlight.Inc()
	return true
}

// Acquire blocks until a permit is available or the context is cancelled.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	l.inFlight.Inc()
	return nil
}

func (l *Limiter) Release() {
	l.inFlight.Dec()
	l.sem.Release(1)
}

func (l *Limiter) InFlight() int64 {
	return l.inFlight.Load()
}

func (l *Limiter) Capacity() int {
	return l.capacity
}
