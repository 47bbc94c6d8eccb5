// Package dag provides the arena-backed dependency graph of a workspace.
//
// # Overview
//
// Every workspace project becomes one [Node] in a flat arena. Nodes are
// addressed by their index; [Graph.Index] maps a project directory back to
// its index. Each node stores its outgoing dependency edges as index lists,
// so traversals never chase pointers or hash IDs on the hot path.
//
// Despite the package name the graph may contain cycles: workspaces with
// mutually dependent projects are legal and every traversal in stackscope
// tolerates them.
//
// # Basic Usage
//
// Create a graph with [New], add projects with [Graph.AddNode] and
// dependencies with [Graph.AddEdge]:
//
//	g := dag.New(2)
//	app, _ := g.AddNode(&workspace.Project{Dir: "/repo/app"})
//	lib, _ := g.AddNode(&workspace.Project{Dir: "/repo/lib"})
//	g.AddEdge(app, lib, workspace.DepRuntime)
//
// # Edge Kinds
//
// Each [Edge] carries the [workspace.DepKind] of the manifest section that
// declared it. Queries take a [KindMask], so one graph answers both the
// general view ([AllKinds]) and the production view ([ProdKinds]). Re-adding
// an edge keeps the higher-precedence kind, matching how manifests merge
// dependency sections.
//
// # Reverse Adjacency
//
// Dependents are answered from a reverse index built lazily on the first
// call to [Graph.DependentEdges] or [Graph.Dependents]. Building it freezes
// the graph: later mutations return [ErrGraphFrozen].
//
// # Concurrency
//
// Building a graph is not safe for concurrent use. Once built, every query
// method may be called from multiple goroutines; the reverse index is
// created under a [sync.Once].
package dag
