// Package breaker implements a per-scope circuit breaker.
//
// The breaker short-circuits calls of a repeatedly failing scope for a cooldown
// period, then it allows a limited number of trial calls before closing again.
package breaker

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type State string

const (
	// StateClosed - calls are allowed, failures are counted.
	StateClosed State = "closed"
	// StateOpen - calls are short-circuited.
	StateOpen State = "open"
	// StateHalfOpen - a limited number of trial calls is allowed.
	StateHalfOpen State = "halfOpen"
)

// Transition is a breaker state change, it is reported to the TransitionListener.
type Transition struct {
	Scope string    `json:"scope"`
	From  State     `json:"from"`
	To    State     `json:"to"`
	At    time.Time `json:"at"`
}

type TransitionListener func(Transition)

// Breaker is the state machine of one scope.
//
// State transitions within one cycle are monotonic:
// Closed -> Open -> HalfOpen -> Closed or back to Open,
// the breaker never closes without a half-open trial.
type Breaker struct {
	scope    string
	config   Config
	clock    clockwork.Clock
	listener TransitionListener

	lock                *sync.Mutex
	state               State
	consecutiveFailures int
	openedAt            time.Time
	trialsStarted       int
	trialSuccesses      int
}

func newBreaker(scope string, config Config, clock clockwork.Clock, listener TransitionListener) *Breaker {
	return &Breaker{
		scope:    scope,
		config:   config,
		clock:    clock,
		listener: listener,
		lock:     &sync.Mutex{},
		state:    StateClosed,
	}
}

func (b *Breaker) Scope() string {
	return b.scope
}

func (b *Breaker) State() State {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.stateLocked()
}

// Allow reports whether a call may proceed.
// A disallowed call must be finalized as short-circuited:
// no operation invocation, no permit, no failure counted.
func (b *Breaker) Allow() bool {
	b.lock.Lock()
	defer b.lock.Unlock()

	switch b.stateLocked() {
	case StateClosed:
		return true
	case StateHalfOpen:
		if b.trialsStarted < b.config.HalfOpenTrialCount {
			b.trialsStarted++
			return true
		}
		return false
	default:
		return false
	}
}

// RecordSuccess records the outcome of an allowed call.
func (b *Breaker) RecordSuccess() {
	b.lock.Lock()
	defer b.lock.Unlock()

	switch b.stateLocked() {
	case StateHalfOpen:
		b.trialSuccesses++
		if b.trialSuccesses >= b.config.HalfOpenTrialCount {
			b.transitionLocked(StateClosed)
		}
	case StateClosed:
		b.consecutiveFailures = 0
	default:
		// StateOpen - outcome of a call admitted before the breaker opened, ignored
	}
}

// RecordFailure records the outcome of an allowed call.
func (b *Breaker) RecordFailure() {
	b.lock.Lock()
	defer b.lock.Unlock()

	switch b.stateLocked() {
	case StateHalfOpen:
		// Any trial failure reopens immediately
		b.transitionLocked(StateOpen)
	case StateClosed:
		b.consecutiveFailures++
		if b.consecutiveFailures >= b.config.FailureThreshold {
			b.transitionLocked(StateOpen)
		}
	default:
		// StateOpen - outcome of a call admitted before the breaker opened, ignored
	}
}

// RecordCancellation returns the trial token consumed by Allow when the call
// ended without a verdict, for example a cancelled run. Without the return
// the half-open trial budget would leak and the breaker could get stuck
// rejecting every call in the half-open state.
func (b *Breaker) RecordCancellation() {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.stateLocked() == StateHalfOpen && b.trialsStarted > b.trialSuccesses {
		b.trialsStarted--
	}
}

// stateLocked resolves the automatic Open -> HalfOpen transition lazily,
// when the recovery timeout elapsed.
func (b *Breaker) stateLocked() State {
	if b.state == StateOpen && b.clock.Since(b.openedAt) >= b.config.RecoveryTimeout {
		b.transitionLocked(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) transitionLocked(to State) {
	from := b.state
	b.state = to

	switch to {
	case StateOpen:
		b.openedAt = b.clock.Now()
	case StateClosed:
		b.consecutiveFailures = 0
	}
	b.trialsStarted = 0
	b.trialSuccesses = 0

	if b.listener != nil {
		b.listener(Transition{Scope: b.scope, From: from, To: to, At: b.clock.Now()})
	}
}
