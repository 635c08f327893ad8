package limiter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/keboola/go-orchestrator/internal/pkg/task/limiter"
)

func TestLimiter_Bound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	const capacity = 3
	const workers = 20
	l := limiter.New(capacity)

	current := atomic.NewInt64(0)
	maxObserved := atomic.NewInt64(0)

	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, l.Acquire(ctx))
			defer l.Release()

			value := current.Inc()
			for {
				max := maxObserved.Load()
				if value <= max || maxObserved.CompareAndSwap(max, value) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			current.Dec()
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, maxObserved.Load(), int64(capacity))
	assert.Equal(t, int64(0), l.InFlight())
}

func TestLimiter_AcquireCancelled(t *testing.T) {
	t.Parallel()

	l := limiter.New(1)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, l.Acquire(ctx))
	assert.Equal(t, int64(1), l.InFlight())

	l.Release()
	assert.Equal(t, int64(0), l.InFlight())
}

func TestLimiter_TryAcquire(t *testing.T) {
	t.Parallel()

	l := limiter.New(2)
	assert.True(t, l.TryAcquire())
	assert.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire())
	assert.Equal(t, int64(2), l.InFlight())

	l.Release()
	assert.True(t, l.TryAcquire())
}

func TestLimiter_InvalidCapacity(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { limiter.New(0) })
}
