package dag

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stackscope/pkg/workspace"
)

func project(dir string) *workspace.Project {
	return &workspace.Project{Dir: dir, Manifest: workspace.Manifest{Name: dir}}
}

func buildGraph(t *testing.T, dirs []string, edges [][3]int) *Graph {
	t.Helper()
	g := New(len(dirs))
	for _, d := range dirs {
		if _, err := g.AddNode(project(d)); err != nil {
			t.Fatalf("AddNode(%s) error: %v", d, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1], workspace.DepKind(e[2])); err != nil {
			t.Fatalf("AddEdge(%v) error: %v", e, err)
		}
	}
	return g
}

func TestAddNodeErrors(t *testing.T) {
	g := New(0)
	if _, err := g.AddNode(project("/a")); err != nil {
		t.Fatalf("AddNode() error: %v", err)
	}

	tests := []struct {
		name string
		p    *workspace.Project
		want error
	}{
		{"nil project", nil, ErrInvalidNodeID},
		{"empty dir", &workspace.Project{}, ErrInvalidNodeID},
		{"duplicate", project("/a"), ErrDuplicateNodeID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.AddNode(tt.p); !errors.Is(err, tt.want) {
				t.Errorf("AddNode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAddEdge(t *testing.T) {
	g := buildGraph(t, []string{"/a", "/b"}, nil)

	if err := g.AddEdge(0, 5, workspace.DepRuntime); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge() to unknown = %v, want %v", err, ErrUnknownTargetNode)
	}
	if err := g.AddEdge(-1, 0, workspace.DepRuntime); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge() from unknown = %v, want %v", err, ErrUnknownSourceNode)
	}

	_ = g.AddEdge(0, 0, workspace.DepRuntime)
	if g.EdgeCount() != 0 {
		t.Errorf("self-edge stored: EdgeCount() = %d, want 0", g.EdgeCount())
	}

	_ = g.AddEdge(0, 1, workspace.DepDev)
	_ = g.AddEdge(0, 1, workspace.DepOptional)
	_ = g.AddEdge(0, 1, workspace.DepPeer)
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if got := g.Edges(0)[0].Kind; got != workspace.DepOptional {
		t.Errorf("edge kind = %v, want %v", got, workspace.DepOptional)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestDependentsMask(t *testing.T) {
	// a -runtime-> c, b -dev-> c, d -optional-> c
	g := buildGraph(t, []string{"/a", "/b", "/c", "/d"}, [][3]int{
		{0, 2, int(workspace.DepRuntime)},
		{1, 2, int(workspace.DepDev)},
		{3, 2, int(workspace.DepOptional)},
	})

	if diff := cmp.Diff([]int{0, 1, 3}, g.Dependents(2, AllKinds)); diff != "" {
		t.Errorf("Dependents(AllKinds) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 3}, g.Dependents(2, ProdKinds)); diff != "" {
		t.Errorf("Dependents(ProdKinds) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2}, g.Dependencies(1, KindMask(1<<workspace.DepDev))); diff != "" {
		t.Errorf("Dependencies(dev) mismatch (-want +got):\n%s", diff)
	}
	if got := g.Dependencies(1, ProdKinds); len(got) != 0 {
		t.Errorf("Dependencies(ProdKinds) = %v, want none", got)
	}
}

func TestFrozenAfterReverse(t *testing.T) {
	g := buildGraph(t, []string{"/a", "/b"}, [][3]int{{0, 1, 0}})
	_ = g.DependentEdges(1)

	if err := g.AddEdge(1, 0, workspace.DepRuntime); !errors.Is(err, ErrGraphFrozen) {
		t.Errorf("AddEdge() after reverse = %v, want %v", err, ErrGraphFrozen)
	}
	if _, err := g.AddNode(project("/c")); !errors.Is(err, ErrGraphFrozen) {
		t.Errorf("AddNode() after reverse = %v, want %v", err, ErrGraphFrozen)
	}
}

func TestConcurrentReverse(t *testing.T) {
	g := buildGraph(t, []string{"/a", "/b", "/c"}, [][3]int{{0, 2, 0}, {1, 2, 0}})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if n := len(g.Dependents(2, AllKinds)); n != 2 {
				t.Errorf("Dependents() len = %d, want 2", n)
			}
		}()
	}
	wg.Wait()
}

func TestSubgraph(t *testing.T) {
	// a -> b -> c, a -> c
	g := buildGraph(t, []string{"/a", "/b", "/c"}, [][3]int{
		{0, 1, int(workspace.DepRuntime)},
		{1, 2, int(workspace.DepDev)},
		{0, 2, int(workspace.DepPeer)},
	})

	sub := g.Subgraph([]int{2, 0, 0, 9})
	if diff := cmp.Diff([]string{"/a", "/c"}, sub.IDs()); diff != "" {
		t.Errorf("Subgraph IDs mismatch (-want +got):\n%s", diff)
	}
	want := map[string][]string{"/a": {"/c"}, "/c": {}}
	if diff := cmp.Diff(want, sub.Adjacency(AllKinds)); diff != "" {
		t.Errorf("Subgraph adjacency mismatch (-want +got):\n%s", diff)
	}
	if got := sub.Edges(0)[0].Kind; got != workspace.DepPeer {
		t.Errorf("Subgraph edge kind = %v, want %v", got, workspace.DepPeer)
	}
}

func TestAdjacency(t *testing.T) {
	g := buildGraph(t, []string{"/a", "/b", "/c"}, [][3]int{
		{0, 2, int(workspace.DepRuntime)},
		{0, 1, int(workspace.DepDev)},
	})

	want := map[string][]string{"/a": {"/b", "/c"}, "/b": {}, "/c": {}}
	if diff := cmp.Diff(want, g.Adjacency(AllKinds)); diff != "" {
		t.Errorf("Adjacency(AllKinds) mismatch (-want +got):\n%s", diff)
	}
	if got := g.Adjacency(ProdKinds)["/a"]; len(got) != 1 || got[0] != "/c" {
		t.Errorf("Adjacency(ProdKinds)[/a] = %v, want [/c]", got)
	}
}

func TestIndex(t *testing.T) {
	g := buildGraph(t, []string{"/a", "/b"}, nil)
	if i, ok := g.Index("/b"); !ok || i != 1 {
		t.Errorf("Index(/b) = %d, %v; want 1, true", i, ok)
	}
	if _, ok := g.Index("/missing"); ok {
		t.Error("Index(/missing) should not be found")
	}
	if g.Project(0).Name() != "/a" {
		t.Errorf("Project(0).Name() = %q", g.Project(0).Name())
	}
}
