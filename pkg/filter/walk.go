package filter

import (
	"github.com/matzehuels/stackscope/pkg/dag"
	"github.com/matzehuels/stackscope/pkg/selector"
)

// nodeSet is a membership set over graph arena indices.
type nodeSet []bool

func newNodeSet(n int) nodeSet { return make(nodeSet, n) }

func (s nodeSet) has(i int) bool { return s[i] }
func (s nodeSet) add(i int)      { s[i] = true }

func (s nodeSet) addAll(other nodeSet) {
	for i, ok := range other {
		if ok {
			s[i] = true
		}
	}
}

func (s nodeSet) remove(other nodeSet) {
	for i, ok := range other {
		if ok {
			s[i] = false
		}
	}
}

func (s nodeSet) members() []int {
	var out []int
	for i, ok := range s {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// walk adds everything reachable from entries through next. Entries are
// added themselves only when includeRoot is set; a node already in the set
// is never expanded again.
func (s nodeSet) walk(entries []int, next func(int) []int, includeRoot bool) {
	var stack []int
	for _, e := range entries {
		if s.has(e) {
			continue
		}
		if includeRoot {
			s.add(e)
		}
		stack = append(stack, next(e)...)
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if s.has(n) {
				continue
			}
			s.add(n)
			stack = append(stack, next(n)...)
		}
	}
}

// walkState accumulates the projects picked by one group of selectors.
type walkState struct {
	g    *dag.Graph
	mask dag.KindMask

	dependencies           nodeSet
	dependents             nodeSet
	dependentsDependencies nodeSet
	cherryPicked           nodeSet
}

func newWalkState(g *dag.Graph, mask dag.KindMask) *walkState {
	n := g.Len()
	return &walkState{
		g:                      g,
		mask:                   mask,
		dependencies:           newNodeSet(n),
		dependents:             newNodeSet(n),
		dependentsDependencies: newNodeSet(n),
		cherryPicked:           newNodeSet(n),
	}
}

func (w *walkState) forward(i int) []int { return w.g.Dependencies(i, w.mask) }
func (w *walkState) reverse(i int) []int { return w.g.Dependents(i, w.mask) }

// pick applies the closure flags of s to entries.
func (w *walkState) pick(s selector.Selector, entries []int) {
	if s.IncludeDependencies {
		w.dependencies.walk(entries, w.forward, !s.ExcludeSelf)
	}
	if s.IncludeDependents {
		w.dependents.walk(entries, w.reverse, !s.ExcludeSelf)
	}
	if s.IncludeDependencies && s.IncludeDependents {
		w.dependentsDependencies.walk(w.dependents.members(), w.forward, true)
	}
	if !s.IncludeDependencies && !s.IncludeDependents {
		for _, e := range entries {
			w.cherryPicked.add(e)
		}
	}
}

func (w *walkState) selected() nodeSet {
	out := newNodeSet(w.g.Len())
	out.addAll(w.dependencies)
	out.addAll(w.dependents)
	out.addAll(w.dependentsDependencies)
	out.addAll(w.cherryPicked)
	return out
}
