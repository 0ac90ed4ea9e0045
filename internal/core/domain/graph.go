// Package domain contains the core domain model for the target graph.
package domain

import (
	"iter"
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is the prerequisite graph of targets.
type Graph struct {
	targets        map[InternedString]Target
	executionOrder []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		targets: make(map[InternedString]Target),
	}
}

// AddTarget adds a target to the graph.
// It returns an error if a target with the same name already exists.
func (g *Graph) AddTarget(t *Target) error {
	if _, exists := g.targets[t.Name]; exists {
		return zerr.With(ErrTargetAlreadyExists, "target", t.Name.String())
	}
	g.targets[t.Name] = *t
	return nil
}

// Get returns the target with the given name.
func (g *Graph) Get(name string) (Target, error) {
	t, ok := g.targets[NewInternedString(name)]
	if !ok {
		return Target{}, zerr.With(ErrTargetNotFound, "target", name)
	}
	return t, nil
}

// TargetCount returns the number of targets in the graph.
func (g *Graph) TargetCount() int {
	return len(g.targets)
}

// Names returns all target names in sorted order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.targets))
	for name := range g.targets {
		names = append(names, name.String())
	}
	sort.Strings(names)
	return names
}

// Validate checks for missing prerequisites and cycles using a depth-first
// topological sort, and populates the execution order. Prerequisites are
// visited in declared order so that a target's prerequisites run fully, and
// in order, before the target itself. Roots are visited in name order to
// keep the overall order deterministic.
func (g *Graph) Validate() error {
	g.executionOrder = make([]InternedString, 0, len(g.targets))
	visited := make(map[InternedString]int, len(g.targets)) // 0 unvisited, 1 visiting, 2 done
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		target, exists := g.targets[u]
		if !exists {
			return zerr.With(ErrMissingPrerequisite, "prerequisite", u.String())
		}

		for _, pre := range target.Prerequisites {
			switch visited[pre] {
			case 1:
				return g.cycleError(path, pre)
			case 0:
				if err := visit(pre); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	names := make([]InternedString, 0, len(g.targets))
	for name := range g.targets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].String() < names[j].String() })

	for _, name := range names {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// cycleError builds an ErrCycleDetected carrying the cycle path as metadata.
func (g *Graph) cycleError(path []InternedString, pre InternedString) error {
	start := 0
	for i, node := range path {
		if node == pre {
			start = i
			break
		}
	}

	var b strings.Builder
	for i := start; i < len(path); i++ {
		b.WriteString(path[i].String())
		b.WriteString(" -> ")
	}
	b.WriteString(pre.String())
	return zerr.With(ErrCycleDetected, "cycle", b.String())
}

// Subgraph returns a new graph restricted to the prerequisite closure of the
// requested targets. The receiver must have been validated.
func (g *Graph) Subgraph(requested []string) (*Graph, error) {
	keep := make(map[InternedString]bool)

	var mark func(name InternedString) error
	mark = func(name InternedString) error {
		if keep[name] {
			return nil
		}
		target, exists := g.targets[name]
		if !exists {
			return zerr.With(ErrTargetNotFound, "target", name.String())
		}
		keep[name] = true
		for _, pre := range target.Prerequisites {
			if err := mark(pre); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range requested {
		if err := mark(NewInternedString(name)); err != nil {
			return nil, err
		}
	}

	sub := NewGraph()
	for name := range keep {
		t := g.targets[name]
		if err := sub.AddTarget(&t); err != nil {
			return nil, err
		}
	}
	// Preserve the parent's execution order for the kept targets.
	for _, name := range g.executionOrder {
		if keep[name] {
			sub.executionOrder = append(sub.executionOrder, name)
		}
	}
	return sub, nil
}

// Walk returns an iterator that yields targets in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Target] {
	return func(yield func(Target) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.targets[name]) {
				return
			}
		}
	}
}

// Dependents returns the names of targets that list name as a prerequisite.
func (g *Graph) Dependents(name InternedString) []InternedString {
	var deps []InternedString
	for _, other := range g.executionOrder {
		for _, pre := range g.targets[other].Prerequisites {
			if pre == name {
				deps = append(deps, other)
				break
			}
		}
	}
	return deps
}
