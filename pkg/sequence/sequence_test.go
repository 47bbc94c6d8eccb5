package sequence

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stackscope/pkg/dag"
	"github.com/matzehuels/stackscope/pkg/workspace"
)

// build creates a graph over ids where edges[i] = {from, to}.
func build(t *testing.T, ids []string, edges [][2]string, kind workspace.DepKind) *dag.Graph {
	t.Helper()
	g := dag.New(len(ids))
	for _, id := range ids {
		if _, err := g.AddNode(&workspace.Project{Dir: id}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		from, _ := g.Index(e[0])
		to, _ := g.Index(e[1])
		if err := g.AddEdge(from, to, kind); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestSequenceChunks(t *testing.T) {
	g := build(t, []string{"app", "ui", "core", "util", "docs"}, [][2]string{
		{"app", "ui"},
		{"app", "core"},
		{"ui", "core"},
		{"core", "util"},
	}, workspace.DepRuntime)

	got := Sequence(g, nil, dag.AllKinds)

	want := Result{
		Chunks: [][]string{{"docs", "util"}, {"core"}, {"ui"}, {"app"}},
		Safe:   true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sequence() mismatch (-want +got):\n%s", diff)
	}
}

func TestSequenceIgnoresUnselected(t *testing.T) {
	g := build(t, []string{"a", "b", "c"}, [][2]string{
		{"a", "b"},
		{"b", "c"},
	}, workspace.DepRuntime)

	got := Sequence(g, []int{0, 2}, dag.AllKinds)

	want := Result{Chunks: [][]string{{"a", "c"}}, Safe: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sequence() mismatch (-want +got):\n%s", diff)
	}
}

func TestSequenceMask(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}}, workspace.DepDev)

	all := Sequence(g, nil, dag.AllKinds)
	if diff := cmp.Diff([][]string{{"b"}, {"a"}}, all.Chunks); diff != "" {
		t.Errorf("AllKinds chunks mismatch (-want +got):\n%s", diff)
	}

	prod := Sequence(g, nil, dag.ProdKinds)
	if diff := cmp.Diff([][]string{{"a", "b"}}, prod.Chunks); diff != "" {
		t.Errorf("ProdKinds chunks mismatch (-want +got):\n%s", diff)
	}
}

func TestSequenceCycle(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "d"}, [][2]string{
		{"a", "b"},
		{"b", "a"},
		{"c", "a"},
		{"a", "d"},
	}, workspace.DepRuntime)

	got := Sequence(g, nil, dag.AllKinds)

	want := Result{
		Chunks: [][]string{{"d"}, {"a", "b"}, {"c"}},
		Safe:   false,
		Cycles: [][]string{{"a", "b"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sequence() mismatch (-want +got):\n%s", diff)
	}
}

func TestSequenceCoversEveryNode(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "x", "y"}, [][2]string{
		{"a", "b"},
		{"b", "c"},
		{"c", "a"},
		{"x", "y"},
		{"y", "x"},
		{"x", "a"},
	}, workspace.DepRuntime)

	got := Sequence(g, nil, dag.AllKinds)
	if got.Safe {
		t.Error("Safe = true, want false")
	}
	wantCycles := [][]string{{"a", "b", "c"}, {"x", "y"}}
	if diff := cmp.Diff(wantCycles, got.Cycles); diff != "" {
		t.Errorf("Cycles mismatch (-want +got):\n%s", diff)
	}

	seen := map[string]int{}
	for _, chunk := range got.Chunks {
		for _, id := range chunk {
			seen[id]++
		}
	}
	for _, id := range g.IDs() {
		if seen[id] != 1 {
			t.Errorf("%s sequenced %d times, want once", id, seen[id])
		}
	}
}

func TestSequenceEmpty(t *testing.T) {
	got := Sequence(dag.New(0), nil, dag.AllKinds)
	if !got.Safe || len(got.Chunks) != 0 || len(got.Cycles) != 0 {
		t.Errorf("Sequence(empty) = %+v", got)
	}
}
