// Package sequence orders selected projects into batches that can run in
// parallel.
//
// Every project in a chunk depends only on projects from earlier chunks, so
// a task runner may execute one chunk at a time with full parallelism inside
// the chunk. Dependency cycles cannot be ordered this way; [Sequence] then
// reports them, marks the result unsafe and still places every project in
// some chunk.
package sequence

import (
	"sort"

	"github.com/matzehuels/stackscope/pkg/dag"
)

// Result is the outcome of [Sequence]. All IDs are project directories.
type Result struct {
	// Chunks lists the batches in execution order, each sorted by ID.
	Chunks [][]string

	// Safe is false when a cycle forced some projects to run before all of
	// their dependencies.
	Safe bool

	// Cycles holds the strongly connected components with more than one
	// project, each sorted by ID.
	Cycles [][]string
}

// Sequence orders the selected nodes of g, dependencies first, following
// edges of the kinds in mask. Edges to unselected nodes are ignored. A nil
// selection sequences the whole graph.
//
// When no node is free of pending dependencies, the cycles that wait on
// nothing outside themselves form the next chunk.
func Sequence(g *dag.Graph, selected []int, mask dag.KindMask) Result {
	in := make([]bool, g.Len())
	if selected == nil {
		for i := range in {
			in[i] = true
		}
	} else {
		for _, i := range selected {
			if i >= 0 && i < g.Len() {
				in[i] = true
			}
		}
	}

	pending := make([]int, g.Len())
	var remaining []int
	for i := range in {
		if !in[i] {
			continue
		}
		remaining = append(remaining, i)
		for _, d := range g.Dependencies(i, mask) {
			if in[d] {
				pending[i]++
			}
		}
	}

	res := Result{Safe: true}
	done := make([]bool, g.Len())
	for len(remaining) > 0 {
		var chunk, rest []int
		for _, i := range remaining {
			if pending[i] == 0 {
				chunk = append(chunk, i)
			}
		}
		if len(chunk) == 0 {
			sccs := components(g, in, done, mask)
			if res.Safe {
				res.Safe = false
				res.Cycles = cyclesOf(g, sccs)
			}
			chunk = closedComponents(g, sccs, in, done, mask)
		}

		for _, i := range chunk {
			done[i] = true
		}
		for _, i := range chunk {
			for _, d := range g.Dependents(i, mask) {
				if in[d] && !done[d] {
					pending[d]--
				}
			}
		}
		for _, i := range remaining {
			if !done[i] {
				rest = append(rest, i)
			}
		}
		res.Chunks = append(res.Chunks, sortedIDs(g, chunk))
		remaining = rest
	}
	return res
}

// components returns the strongly connected components of the nodes still
// to be sequenced (Tarjan's algorithm).
func components(g *dag.Graph, in, done []bool, mask dag.KindMask) [][]int {
	n := g.Len()
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var (
		stack []int
		next  int
		sccs  [][]int
	)

	var connect func(v int)
	connect = func(v int) {
		index[v], low[v] = next, next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.Dependencies(v, mask) {
			if !in[w] || done[w] {
				continue
			}
			switch {
			case index[w] < 0:
				connect(w)
				low[v] = min(low[v], low[w])
			case onStack[w]:
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] != index[v] {
			return
		}
		var scc []int
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		sccs = append(sccs, scc)
	}

	for v := range n {
		if in[v] && !done[v] && index[v] < 0 {
			connect(v)
		}
	}
	return sccs
}

func cyclesOf(g *dag.Graph, sccs [][]int) [][]string {
	var cycles [][]string
	for _, scc := range sccs {
		if len(scc) > 1 {
			cycles = append(cycles, sortedIDs(g, scc))
		}
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

// closedComponents returns the members of every cycle whose pending
// dependencies all lie inside the cycle itself.
func closedComponents(g *dag.Graph, sccs [][]int, in, done []bool, mask dag.KindMask) []int {
	member := make([]int, g.Len())
	for c, scc := range sccs {
		for _, v := range scc {
			member[v] = c
		}
	}

	var out []int
	for c, scc := range sccs {
		if len(scc) < 2 {
			continue
		}
		closed := true
		for _, v := range scc {
			for _, d := range g.Dependencies(v, mask) {
				if in[d] && !done[d] && member[d] != c {
					closed = false
				}
			}
		}
		if closed {
			out = append(out, scc...)
		}
	}
	return out
}

func sortedIDs(g *dag.Graph, nodes []int) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = g.ID(n)
	}
	sort.Strings(ids)
	return ids
}
