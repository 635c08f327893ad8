// Package scheduler maintains the ready set and picks the next task to dispatch.
//
// The ready set is owned by the orchestrator coordinator, so it is not synchronized.
package scheduler

import (
	"container/heap"

	"github.com/keboola/go-orchestrator/internal/pkg/task"
	"github.com/keboola/go-orchestrator/internal/pkg/utils/errors"
)

type Strategy string

const (
	// StrategyFIFO picks tasks in insertion order.
	StrategyFIFO Strategy = "fifo"
	// StrategyLIFO picks tasks in reverse insertion order.
	StrategyLIFO Strategy = "lifo"
	// StrategyPriority picks the highest priority first, insertion order breaks ties.
	StrategyPriority Strategy = "priority"
	// StrategyDependencyAware picks the lowest topological tier first,
	// within a tier it falls back to StrategyPriority.
	StrategyDependencyAware Strategy = "dependencyAware"
)

// NewStrategy creates Strategy from string.
func NewStrategy(value string) (Strategy, error) {
	strategy := Strategy(value)
	switch strategy {
	case StrategyFIFO, StrategyLIFO, StrategyPriority, StrategyDependencyAware:
		return strategy, nil
	default:
		return StrategyFIFO, errors.Errorf(`scheduling strategy must be one of "fifo", "lifo", "priority", "dependencyAware", given "%s"`, value)
	}
}

type item struct {
	def  task.Definition
	tier int
	seq  int // insertion sequence, unique
}

// ReadySet holds tasks whose dependencies are all resolved
// and which have not been dispatched yet.
type ReadySet struct {
	strategy Strategy
	seq      int
	heap     *itemHeap
}

func New(strategy Strategy) *ReadySet {
	s := &ReadySet{strategy: strategy, heap: &itemHeap{}}
	s.heap.less = s.less
	return s
}

func (s *ReadySet) Len() int {
	return s.heap.Len()
}

// Push adds a ready task, tier is the topological depth from the graph.
func (s *ReadySet) Push(def task.Definition, tier int) {
	heap.Push(s.heap, item{def: def, tier: tier, seq: s.seq})
	s.seq++
}

// Pop removes and returns the next task per the active strategy.
func (s *ReadySet) Pop() (task.Definition, bool) {
	if s.heap.Len() == 0 {
		return task.Definition{}, false
	}
	popped := heap.Pop(s.heap).(item)
	return popped.def, true
}

func (s *ReadySet) less(a, b item) bool {
	switch s.strategy {
	case StrategyLIFO:
		return a.seq > b.seq
	case StrategyPriority:
		if a.def.Priority != b.def.Priority {
			return a.def.Priority > b.def.Priority
		}
		return a.seq < b.seq
	case StrategyDependencyAware:
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.def.Priority != b.def.Priority {
			return a.def.Priority > b.def.Priority
		}
		return a.seq < b.seq
	default: // StrategyFIFO
		return a.seq < b.seq
	}
}

type itemHeap struct {
	items []item
	less  func(a, b item) bool
}

func (h *itemHeap) Len() int {
	return len(h.items)
}

func (h *itemHeap) Less(i, j int) bool {
	return h.less(h.items[i], h.items[j])
}

func (h *itemHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *itemHeap) Push(x any) {
	h.items = append(h.items, x.(item))
}

func (h *itemHeap) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}
