package breaker_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keboola/go-orchestrator/internal/pkg/task/breaker"
	"github.com/keboola/go-orchestrator/internal/pkg/validator"
)

func newTestRegistry(t *testing.T, config breaker.Config, transitions *[]breaker.Transition) (*breaker.Registry, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	listener := func(transition breaker.Transition) {
		if transitions != nil {
			*transitions = append(*transitions, transition)
		}
	}
	return breaker.NewRegistry(config, clock, listener), clock
}

func testConfig() breaker.Config {
	config := breaker.NewConfig()
	config.FailureThreshold = 3
	config.RecoveryTimeout = 10 * time.Second
	config.HalfOpenTrialCount = 2
	return config
}

func TestConfig_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Disabled breakers don't require the thresholds
	require.NoError(t, validator.Validate(ctx, breaker.Config{Enabled: false}))

	// Enabled breakers do
	err := validator.Validate(ctx, breaker.Config{Enabled: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failureThreshold")
	assert.Contains(t, err.Error(), "recoveryTimeout")
	assert.Contains(t, err.Error(), "halfOpenTrialCount")

	require.NoError(t, validator.Validate(ctx, breaker.NewConfig()))
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()
	registry, _ := newTestRegistry(t, testConfig(), nil)
	b := registry.For("some.task")

	assert.Equal(t, breaker.StateClosed, b.State())
	for i := 0; i < 3; i++ {
		assert.True(t, b.Allow())
		b.RecordFailure()
	}
	assert.Equal(t, breaker.StateOpen, b.State())
	assert.False(t, b.Allow())
	assert.True(t, registry.AnyOpen())
}

func TestBreaker_SuccessResetsCounter(t *testing.T) {
	t.Parallel()
	registry, _ := newTestRegistry(t, testConfig(), nil)
	b := registry.For("some.task")

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()
	assert.Equal(t, breaker.StateClosed, b.State())
	b.RecordFailure()
	assert.Equal(t, breaker.StateOpen, b.State())
}

func TestBreaker_HalfOpenAfterRecoveryTimeout(t *testing.T) {
	t.Parallel()
	registry, clock := newTestRegistry(t, testConfig(), nil)
	b := registry.For("some.task")

	for i := 0; i < 3; i++ {
		b.RecordFailure()
	}
	assert.False(t, b.Allow())

	clock.Advance(10 * time.Second)
	assert.Equal(t, breaker.StateHalfOpen, b.State())

	// Exactly HalfOpenTrialCount trial calls are allowed
	assert.True(t, b.Allow())
	assert.True(t, b.Allow())
	assert.False(t, b.Allow())
}

func TestBreaker_HalfOpenClosesOnTrialSuccesses(t *testing.T) {
	t.Parallel()
	registry, clock := newTestRegistry(t, testConfig(), nil)
	b := registry.For("some.task")

	for i := 0; i < 3; i++ {
		b.RecordFailure()
	}
	clock.Advance(10 * time.Second)

	assert.True(t, b.Allow())
	b.RecordSuccess()
	assert.Equal(t, breaker.StateHalfOpen, b.State())
	assert.True(t, b.Allow())
	b.RecordSuccess()
	assert.Equal(t, breaker.StateClosed, b.State())

	// Failure counter is reset after closing
	b.RecordFailure()
	b.RecordFailure()
	assert.Equal(t, breaker.StateClosed, b.State())
}

func TestBreaker_HalfOpenCancellationReturnsTrial(t *testing.T) {
	t.Parallel()
	registry, clock := newTestRegistry(t, testConfig(), nil)
	b := registry.For("some.task")

	for i := 0; i < 3; i++ {
		b.RecordFailure()
	}
	clock.Advance(10 * time.Second)

	// Both trial tokens are taken, further calls are rejected
	assert.True(t, b.Allow())
	assert.True(t, b.Allow())
	assert.False(t, b.Allow())

	// A cancelled call gives its token back instead of stranding the breaker
	b.RecordCancellation()
	assert.True(t, b.Allow())
	assert.False(t, b.Allow())

	b.RecordSuccess()
	b.RecordSuccess()
	assert.Equal(t, breaker.StateClosed, b.State())

	// With no outstanding trial the call is a no-op
	b.RecordCancellation()
	assert.Equal(t, breaker.StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreaker_HalfOpenReopensOnTrialFailure(t *testing.T) {
	t.Parallel()
	registry, clock := newTestRegistry(t, testConfig(), nil)
	b := registry.For("some.task")

	for i := 0; i < 3; i++ {
		b.RecordFailure()
	}
	clock.Advance(10 * time.Second)

	assert.True(t, b.Allow())
	b.RecordSuccess()
	assert.True(t, b.Allow())
	b.RecordFailure()
	assert.Equal(t, breaker.StateOpen, b.State())
	assert.False(t, b.Allow())

	// A new recovery cycle starts
	clock.Advance(10 * time.Second)
	assert.Equal(t, breaker.StateHalfOpen, b.State())
	assert.True(t, b.Allow())
}

func TestBreaker_Transitions(t *testing.T) {
	t.Parallel()
	var transitions []breaker.Transition
	registry, clock := newTestRegistry(t, testConfig(), &transitions)
	b := registry.For("some.task")

	for i := 0; i < 3; i++ {
		b.RecordFailure()
	}
	clock.Advance(10 * time.Second)
	b.State()
	b.Allow()
	b.RecordSuccess()
	b.Allow()
	b.RecordSuccess()

	var steps []string
	for _, transition := range transitions {
		steps = append(steps, string(transition.From)+"->"+string(transition.To))
	}
	assert.Equal(t, []string{"closed->open", "open->halfOpen", "halfOpen->closed"}, steps)
}

func TestRegistry_Scopes(t *testing.T) {
	t.Parallel()
	config := testConfig()
	config.Scopes = []string{"db.", "http."}
	registry, _ := newTestRegistry(t, config, nil)

	dbBreaker := registry.For("db.users.load")
	httpBreaker := registry.For("http.fetch")
	assert.NotNil(t, dbBreaker)
	assert.NotNil(t, httpBreaker)
	assert.NotSame(t, dbBreaker, httpBreaker)
	assert.Same(t, dbBreaker, registry.For("db.orders.load"))

	// No scope matches
	assert.Nil(t, registry.For("other.task"))

	// Scopes are isolated
	for i := 0; i < 3; i++ {
		dbBreaker.RecordFailure()
	}
	assert.Equal(t, breaker.StateOpen, dbBreaker.State())
	assert.Equal(t, breaker.StateClosed, httpBreaker.State())
}

func TestRegistry_GlobalScope(t *testing.T) {
	t.Parallel()
	registry, _ := newTestRegistry(t, testConfig(), nil)
	assert.Same(t, registry.For("a"), registry.For("b"))
}
