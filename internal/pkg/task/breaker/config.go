package breaker

import (
	"time"
)

// Config of the circuit breakers. The thresholds are required only when the
// breakers are enabled, Config{} with Enabled=false is a valid configuration.
type Config struct {
	Enabled bool `json:"enabled"`
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold int `json:"failureThreshold" validate:"required_if=Enabled true,omitempty,min=1"`
	// RecoveryTimeout is the cooldown after which an open breaker allows trial calls.
	RecoveryTimeout time.Duration `json:"recoveryTimeout" validate:"required_if=Enabled true,omitempty,min=1"`
	// HalfOpenTrialCount is the number of real calls allowed in the half-open state,
	// all must succeed to close the breaker, any failure reopens it.
	HalfOpenTrialCount int `json:"halfOpenTrialCount" validate:"required_if=Enabled true,omitempty,min=1"`
	// Scopes are task name prefixes, each prefix gets an own breaker.
	// If empty, one global scope is used for all tasks.
	Scopes []string `json:"scopes,omitempty"`
}

func NewConfig() Config {
	return Config{
		Enabled:            true,
		FailureThreshold:   5,
		RecoveryTimeout:    30 * time.Second,
		HalfOpenTrialCount: 3,
	}
}
