package task

import (
	"time"
)

// RunResult is the terminal record of one task within one run.
// Exactly one RunResult is produced per submitted Definition.
type RunResult struct {
	Name       string         `json:"name"`
	Outcome    Outcome        `json:"outcome"`
	Result     string         `json:"result,omitempty"`
	Outputs    map[string]any `json:"outputs,omitempty"`
	Error      string         `json:"error,omitempty"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Duration   time.Duration  `json:"duration"`
}

func (r RunResult) IsSuccessful() bool {
	return r.Outcome == OutcomeSuccess
}

func (r RunResult) IsFailed() bool {
	return r.Outcome == OutcomeFailed || r.Outcome == OutcomeTimedOut
}

// WasInvoked returns false if the operation never started,
// for example a short-circuited or skipped task.
func (r RunResult) WasInvoked() bool {
	return !r.StartedAt.IsZero()
}
