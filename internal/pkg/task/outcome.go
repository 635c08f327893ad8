package task

// Outcome is the terminal state of a task within one run.
type Outcome string

const (
	// OutcomeSuccess - the operation finished without an error.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailed - the operation returned an error or panicked.
	OutcomeFailed Outcome = "failed"
	// OutcomeTimedOut - the operation did not finish within the task timeout.
	OutcomeTimedOut Outcome = "timedOut"
	// OutcomeCancelled - the run was cancelled before or during the operation.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeCircuitOpen - the call was short-circuited by an open circuit breaker,
	// the operation was not invoked.
	OutcomeCircuitOpen Outcome = "circuitOpen"
	// OutcomeDependencySkipped - an ancestor failed under the fail-fast policy,
	// the operation was not invoked.
	OutcomeDependencySkipped Outcome = "dependencySkipped"
)

func (o Outcome) String() string {
	return string(o)
}

// IsExecutionFailure reports outcomes counted as failures by the circuit breaker.
func (o Outcome) IsExecutionFailure() bool {
	return o == OutcomeFailed || o == OutcomeTimedOut
}
