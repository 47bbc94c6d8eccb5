package dag

import (
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/matzehuels/stackscope/pkg/workspace"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the project has an
	// empty directory. Every node is identified by its project directory.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a project with the
	// same directory is already part of the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source index
	// is outside the arena.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target index
	// is outside the arena.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGraphFrozen is returned by [Graph.AddNode] and [Graph.AddEdge] once the
	// reverse adjacency has been built. Graphs are immutable after their
	// first reverse query.
	ErrGraphFrozen = errors.New("graph is frozen")
)

// KindMask selects the dependency kinds a traversal follows.
type KindMask uint8

const (
	// AllKinds follows every dependency kind.
	AllKinds = KindMask(1<<workspace.DepRuntime | 1<<workspace.DepOptional | 1<<workspace.DepDev | 1<<workspace.DepPeer)

	// ProdKinds follows runtime and optional dependencies only. It is the
	// view used by production-only selectors.
	ProdKinds = KindMask(1<<workspace.DepRuntime | 1<<workspace.DepOptional)
)

// Has reports whether the mask includes kind.
func (m KindMask) Has(kind workspace.DepKind) bool { return m&(1<<kind) != 0 }

// Edge is an outgoing dependency of a node. To is an arena index.
type Edge struct {
	To   int
	Kind workspace.DepKind
}

// Node is one project in the arena together with its outgoing edges.
type Node struct {
	ID      string
	Project *workspace.Project
	edges   []Edge
}

// Graph is an arena of workspace projects connected by kind-tagged
// dependency edges. Nodes are addressed by their arena index; [Graph.Index]
// maps a project directory back to its index.
//
// The zero value is not usable; create graphs with [New].
// Building a graph is not safe for concurrent use. Once built, all query
// methods may be called from multiple goroutines.
type Graph struct {
	nodes []Node
	index map[string]int
	edges int

	revOnce sync.Once
	frozen  bool
	rev     [][]Edge // rev[i] holds edges pointing at i; Edge.To is the source
}

// New creates an empty graph with room for capacity nodes.
func New(capacity int) *Graph {
	return &Graph{
		nodes: make([]Node, 0, capacity),
		index: make(map[string]int, capacity),
	}
}

// AddNode appends p to the arena and returns its index.
// Returns [ErrInvalidNodeID] if p.Dir is empty or [ErrDuplicateNodeID] if a
// project with the same directory was already added.
func (g *Graph) AddNode(p *workspace.Project) (int, error) {
	if g.frozen {
		return -1, ErrGraphFrozen
	}
	if p == nil || p.Dir == "" {
		return -1, ErrInvalidNodeID
	}
	if _, ok := g.index[p.Dir]; ok {
		return -1, ErrDuplicateNodeID
	}
	i := len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: p.Dir, Project: p})
	g.index[p.Dir] = i
	return i, nil
}

// AddEdge records that from depends on to with the given kind.
//
// Self-edges are ignored. Adding an existing (from, to) pair again keeps a
// single edge carrying the higher-precedence kind.
func (g *Graph) AddEdge(from, to int, kind workspace.DepKind) error {
	if g.frozen {
		return ErrGraphFrozen
	}
	if from < 0 || from >= len(g.nodes) {
		return ErrUnknownSourceNode
	}
	if to < 0 || to >= len(g.nodes) {
		return ErrUnknownTargetNode
	}
	if from == to {
		return nil
	}
	n := &g.nodes[from]
	for i := range n.edges {
		if n.edges[i].To == to {
			if kind < n.edges[i].Kind {
				n.edges[i].Kind = kind
			}
			return nil
		}
	}
	n.edges = append(n.edges, Edge{To: to, Kind: kind})
	g.edges++
	return nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of distinct dependency edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Index returns the arena index of the project with directory id.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// ID returns the project directory of node i.
func (g *Graph) ID(i int) string { return g.nodes[i].ID }

// Node returns node i.
func (g *Graph) Node(i int) *Node { return &g.nodes[i] }

// Project returns the project of node i.
func (g *Graph) Project(i int) *workspace.Project { return g.nodes[i].Project }

// IDs returns every node ID in arena order.
func (g *Graph) IDs() []string {
	ids := make([]string, len(g.nodes))
	for i := range g.nodes {
		ids[i] = g.nodes[i].ID
	}
	return ids
}

// Edges returns the outgoing edges of node i. The slice must not be modified.
func (g *Graph) Edges(i int) []Edge { return g.nodes[i].edges }

// DependentEdges returns the edges pointing at node i, with Edge.To set to
// the dependent's index. The reverse adjacency is built on first use.
func (g *Graph) DependentEdges(i int) []Edge {
	g.revOnce.Do(g.buildReverse)
	return g.rev[i]
}

// Dependencies returns the indices node i depends on through kinds in mask.
func (g *Graph) Dependencies(i int, mask KindMask) []int {
	return filterEdges(g.Edges(i), mask)
}

// Dependents returns the indices depending on node i through kinds in mask.
func (g *Graph) Dependents(i int, mask KindMask) []int {
	return filterEdges(g.DependentEdges(i), mask)
}

func filterEdges(edges []Edge, mask KindMask) []int {
	out := make([]int, 0, len(edges))
	for _, e := range edges {
		if mask.Has(e.Kind) {
			out = append(out, e.To)
		}
	}
	return out
}

func (g *Graph) buildReverse() {
	g.frozen = true
	g.rev = make([][]Edge, len(g.nodes))
	for from := range g.nodes {
		for _, e := range g.nodes[from].edges {
			g.rev[e.To] = append(g.rev[e.To], Edge{To: from, Kind: e.Kind})
		}
	}
}

// Subgraph returns a new graph holding the given nodes, in arena order, and
// the edges whose endpoints are both included. Unknown indices are ignored.
func (g *Graph) Subgraph(indices []int) *Graph {
	keep := make([]int, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(g.nodes) {
			keep = append(keep, i)
		}
	}
	slices.Sort(keep)
	keep = slices.Compact(keep)

	sub := New(len(keep))
	remap := make(map[int]int, len(keep))
	for _, i := range keep {
		j, _ := sub.AddNode(g.nodes[i].Project)
		remap[i] = j
	}
	for _, i := range keep {
		for _, e := range g.nodes[i].edges {
			if to, ok := remap[e.To]; ok {
				_ = sub.AddEdge(remap[i], to, e.Kind)
			}
		}
	}
	return sub
}

// Adjacency returns, for every node ID, the sorted IDs of its dependencies
// through kinds in mask.
func (g *Graph) Adjacency(mask KindMask) map[string][]string {
	out := make(map[string][]string, len(g.nodes))
	for i := range g.nodes {
		deps := make([]string, 0, len(g.nodes[i].edges))
		for _, e := range g.nodes[i].edges {
			if mask.Has(e.Kind) {
				deps = append(deps, g.nodes[e.To].ID)
			}
		}
		sort.Strings(deps)
		out[g.nodes[i].ID] = deps
	}
	return out
}

// Validate checks structural integrity: every edge endpoint exists, no
// self-edges and no duplicate pairs.
func (g *Graph) Validate() error {
	for from := range g.nodes {
		seen := make(map[int]bool, len(g.nodes[from].edges))
		for _, e := range g.nodes[from].edges {
			if e.To < 0 || e.To >= len(g.nodes) || e.To == from || seen[e.To] {
				return ErrInvalidEdgeEndpoint
			}
			seen[e.To] = true
		}
	}
	return nil
}
