// Package balancer routes ready tasks across execution lanes.
//
// With a single lane the routing degenerates to the plain concurrency limiter,
// see the limiter package.
package balancer

import (
	"sync"

	"github.com/lafikl/consistent"

	"github.com/keboola/go-orchestrator/internal/pkg/task"
	"github.com/keboola/go-orchestrator/internal/pkg/utils/errors"
)

type Strategy string

const (
	// StrategyRoundRobin routes tasks to lanes cyclically.
	StrategyRoundRobin Strategy = "roundRobin"
	// StrategyLeastLoaded routes a task to the lane with the fewest in-flight tasks.
	StrategyLeastLoaded Strategy = "leastLoaded"
	// StrategyWeightedRoundRobin routes proportionally to the lane capacity.
	StrategyWeightedRoundRobin Strategy = "weightedRoundRobin"
	// StrategyTaskAffinity routes tasks sharing an affinity key to the same lane.
	// The assignment uses the hash ring pattern, so it is stable
	// for any number of lanes.
	StrategyTaskAffinity Strategy = "taskAffinity"
)

// NewStrategy creates Strategy from string.
func NewStrategy(value string) (Strategy, error) {
	strategy := Strategy(value)
	switch strategy {
	case StrategyRoundRobin, StrategyLeastLoaded, StrategyWeightedRoundRobin, StrategyTaskAffinity:
		return strategy, nil
	default:
		return StrategyRoundRobin, errors.Errorf(`load balancing strategy must be one of "roundRobin", "leastLoaded", "weightedRoundRobin", "taskAffinity", given "%s"`, value)
	}
}

type LaneConfig struct {
	Name string `json:"name" validate:"required"`
	// Capacity is the lane weight for the weighted round robin strategy.
	Capacity int `json:"capacity" validate:"min=1"`
}

type Balancer struct {
	strategy      Strategy
	lanes         []*Lane
	lanesByName   map[string]*Lane
	totalCapacity int

	lock *sync.Mutex
	next int // round robin position
	ring *consistent.Consistent
}

func New(strategy Strategy, configs []LaneConfig) (*Balancer, error) {
	if len(configs) == 0 {
		return nil, errors.New("at least one lane must be configured")
	}

	b := &Balancer{
		strategy:    strategy,
		lanesByName: make(map[string]*Lane, len(configs)),
		lock:        &sync.Mutex{},
		ring:        consistent.New(),
	}
	for _, config := range configs {
		if _, found := b.lanesByName[config.Name]; found {
			return nil, errors.Errorf(`duplicate lane name "%s"`, config.Name)
		}
		lane := newLane(config)
		b.lanes = append(b.lanes, lane)
		b.lanesByName[lane.Name()] = lane
		b.totalCapacity += lane.Capacity()
		b.ring.Add(lane.Name())
	}
	return b, nil
}

func (b *Balancer) Lanes() []*Lane {
	out := make([]*Lane, len(b.lanes))
	copy(out, b.lanes)
	return out
}

// Pick routes the task to a lane and increments the lane in-flight counter,
// Release must be called on the task's terminal outcome.
func (b *Balancer) Pick(def task.Definition) *Lane {
	b.lock.Lock()
	defer b.lock.Unlock()

	var lane *Lane
	switch b.strategy {
	case StrategyLeastLoaded:
		lane = b.leastLoaded()
	case StrategyWeightedRoundRobin:
		lane = b.weightedRoundRobin()
	case StrategyTaskAffinity:
		lane = b.affinity(def)
	default:
		lane = b.lanes[b.next%len(b.lanes)]
		b.next++
	}

	lane.inFlight.Inc()
	return lane
}

func (b *Balancer) Release(lane *Lane) {
	lane.inFlight.Dec()
}

func (b *Balancer) leastLoaded() *Lane {
	out := b.lanes[0]
	for _, lane := range b.lanes[1:] {
		if lane.InFlight() < out.InFlight() {
			out = lane
		}
	}
	return out
}

// weightedRoundRobin implements the smooth weighted round robin algorithm,
// each lane is picked proportionally to its capacity, without bursts.
func (b *Balancer) weightedRoundRobin() *Lane {
	var out *Lane
	for _, lane := range b.lanes {
		lane.currentWeight += lane.Capacity()
		if out == nil || lane.currentWeight > out.currentWeight {
			out = lane
		}
	}
	out.currentWeight -= b.totalCapacity
	return out
}

func (b *Balancer) affinity(def task.Definition) *Lane {
	key := def.AffinityKey
	if key == "" {
		key = def.Name
	}

	// Error is not expected, the ring is never empty
	name, err := b.ring.Get(key)
	if err != nil {
		panic(err)
	}
	return b.lanesByName[name]
}
