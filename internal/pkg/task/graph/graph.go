// Package graph resolves the dependency graph of a task submission.
//
// The graph is validated up front: duplicate names, unknown dependencies
// and cycles reject the whole submission before any task runs.
// After validation the graph tracks readiness, MarkDone is called by the
// orchestrator coordinator only, so no locking is needed here.
package graph

import (
	"sort"

	"github.com/keboola/go-orchestrator/internal/pkg/task"
	"github.com/keboola/go-orchestrator/internal/pkg/utils/errors"
)

type node struct {
	def        task.Definition
	index      int      // submission order
	tier       int      // topological depth, 0 = no dependencies
	remaining  int      // remaining dependency count
	dependents []string // tasks that depend on this one
	done       bool
}

type Graph struct {
	order []string
	nodes map[string]*node
}

// New validates the definitions and builds the readiness structure.
func New(defs []task.Definition) (*Graph, error) {
	g := &Graph{nodes: make(map[string]*node, len(defs))}

	// Check duplicates
	errs := errors.NewMultiError()
	for i, def := range defs {
		if _, found := g.nodes[def.Name]; found {
			errs.Append(&DuplicateTaskError{Name: def.Name})
			continue
		}
		g.order = append(g.order, def.Name)
		g.nodes[def.Name] = &node{def: def, index: i, remaining: len(def.DependsOn)}
	}

	// Check dependency references, build adjacency dependency -> dependents
	for _, name := range g.order {
		n := g.nodes[name]
		for _, dep := range n.def.DependsOn {
			depNode, found := g.nodes[dep]
			if !found {
				errs.Append(&UnknownDependencyError{Task: name, Dependency: dep})
				continue
			}
			depNode.dependents = append(depNode.dependents, name)
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	// Check cycles, compute topological tiers, Kahn's algorithm
	if err := g.resolveTiers(); err != nil {
		return nil, err
	}

	return g, nil
}

func (g *Graph) Len() int {
	return len(g.order)
}

// Names returns all task names in submission order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

func (g *Graph) Definition(name string) (task.Definition, bool) {
	n, found := g.nodes[name]
	if !found {
		return task.Definition{}, false
	}
	return n.def, true
}

// Tier returns the topological depth of the task, 0 for tasks without dependencies.
func (g *Graph) Tier(name string) int {
	return g.nodes[name].tier
}

// Ready returns tasks with no unresolved dependencies, in submission order.
func (g *Graph) Ready() []task.Definition {
	var out []task.Definition
	for _, name := range g.order {
		if n := g.nodes[name]; !n.done && n.remaining == 0 {
			out = append(out, n.def)
		}
	}
	return out
}

// MarkDone records the terminal outcome of the task
// and returns dependents that became ready, in submission order.
func (g *Graph) MarkDone(name string) []task.Definition {
	n, found := g.nodes[name]
	if !found {
		panic(errors.Errorf(`task "%s" not found in the graph`, name))
	}
	if n.done {
		panic(errors.Errorf(`task "%s" is already done`, name))
	}
	n.done = true

	var out []task.Definition
	for _, dependent := range n.dependents {
		d := g.nodes[dependent]
		d.remaining--
		if d.remaining == 0 {
			out = append(out, d.def)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return g.nodes[out[i].Name].index < g.nodes[out[j].Name].index
	})
	return out
}

// TransitiveDependents returns all tasks reachable via dependency edges
// from the task, in submission order.
func (g *Graph) TransitiveDependents(name string) []string {
	visited := make(map[string]bool)
	queue := append([]string(nil), g.nodes[name].dependents...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		queue = append(queue, g.nodes[current].dependents...)
	}

	var out []string
	for _, n := range g.order {
		if visited[n] {
			out = append(out, n)
		}
	}
	return out
}

// resolveTiers runs iterative in-degree reduction.
// If some node is never released, the graph contains a cycle.
func (g *Graph) resolveTiers() error {
	remaining := make(map[string]int, len(g.order))
	var queue []string
	for _, name := range g.order {
		n := g.nodes[name]
		remaining[name] = n.remaining
		if n.remaining == 0 {
			queue = append(queue, name)
		}
	}

	processed := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		processed++
		n := g.nodes[current]
		for _, dependent := range n.dependents {
			d := g.nodes[dependent]
			if tier := n.tier + 1; tier > d.tier {
				d.tier = tier
			}
			remaining[dependent]--
			if remaining[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if processed < len(g.order) {
		return &CycleError{Tasks: g.findCycle(remaining)}
	}
	return nil
}

// findCycle extracts one cycle path as a stable witness, DFS over unprocessed nodes.
func (g *Graph) findCycle(remaining map[string]int) []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var path []string
	var cycle []string

	var visit func(name string) bool
	visit = func(name string) bool {
		color[name] = gray
		path = append(path, name)
		for _, dependent := range g.nodes[name].dependents {
			if remaining[dependent] == 0 {
				continue // not part of any cycle
			}
			switch color[dependent] {
			case white:
				if visit(dependent) {
					return true
				}
			case gray:
				// Found a back edge, cut the path at the cycle start
				for i, p := range path {
					if p == dependent {
						cycle = append(append([]string(nil), path[i:]...), dependent)
						return true
					}
				}
			}
		}
		color[name] = black
		path = path[:len(path)-1]
		return false
	}

	for _, name := range g.order {
		if remaining[name] > 0 && color[name] == white {
			if visit(name) {
				return cycle
			}
		}
	}
	return nil
}
