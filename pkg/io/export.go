package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stackscope/pkg/dag"
	"github.com/matzehuels/stackscope/pkg/workspace"
)

var kindFromString = map[string]workspace.DepKind{}

func init() {
	for _, k := range workspace.Kinds {
		kindFromString[k.Short()] = k
	}
}

type graph struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
}

// WriteJSON encodes a graph as JSON and writes it to w.
// Nodes appear in arena order, edges grouped by their source node.
// The output can be read back with [ReadJSON].
func WriteJSON(g *dag.Graph, w io.Writer) error {
	out := graph{
		Nodes: make([]node, g.Len()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}

	for i := range g.Len() {
		p := g.Project(i)
		out.Nodes[i] = node{ID: g.ID(i), Name: p.Name(), Version: p.Version()}
		for _, e := range g.Edges(i) {
			out.Edges = append(out.Edges, edge{From: g.ID(i), To: g.ID(e.To), Kind: e.Kind.Short()})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *dag.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
