package breaker

import (
	"github.com/jonboulle/clockwork"

	"github.com/keboola/go-orchestrator/internal/pkg/prefixtree"
)

// Registry resolves a task name to the breaker of its scope.
// A scope is a task name prefix, the longest matching prefix wins.
// Without configured scopes all tasks share one global breaker.
type Registry struct {
	breakers []*Breaker
	tree     *prefixtree.Tree[*Breaker]
}

func NewRegistry(config Config, clock clockwork.Clock, listener TransitionListener) *Registry {
	scopes := config.Scopes
	if len(scopes) == 0 {
		// Global scope, it matches every task name
		scopes = []string{""}
	}

	r := &Registry{tree: prefixtree.New[*Breaker]()}
	for _, scope := range scopes {
		b := newBreaker(scope, config, clock, listener)
		r.breakers = append(r.breakers, b)
		r.tree.Insert(scope, b)
	}
	return r
}

// For returns the breaker of the task scope,
// or nil if no configured scope matches the task name.
func (r *Registry) For(taskName string) *Breaker {
	_, b, found := r.tree.LongestPrefix(taskName)
	if !found {
		return nil
	}
	return b
}

// AnyOpen reports whether some scope is currently open, used by the health check.
func (r *Registry) AnyOpen() bool {
	for _, b := range r.breakers {
		if b.State() == StateOpen {
			return true
		}
	}
	return false
}
