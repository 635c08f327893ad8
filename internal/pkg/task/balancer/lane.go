package balancer

import (
	"go.uber.org/atomic"
)

// Lane is a named slot group for task execution.
type Lane struct {
	name     string
	capacity int
	inFlight *atomic.Int64

	// currentWeight is the smooth weighted round robin state, guarded by the Balancer lock.
	currentWeight int
}

func newLane(config LaneConfig) *Lane {
	return &Lane{
		name:     config.Name,
		capacity: config.Capacity,
		inFlight: atomic.NewInt64(0),
	}
}

func (l *Lane) Name() string {
	return l.name
}

func (l *Lane) Capacity() int {
	return l.capacity
}

// InFlight returns the number of tasks routed to the lane and not yet finished.
func (l *Lane) InFlight() int64 {
	return l.inFlight.Load()
}
