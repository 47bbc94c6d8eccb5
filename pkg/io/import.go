package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stackscope/pkg/dag"
	"github.com/matzehuels/stackscope/pkg/workspace"
)

// ReadJSON decodes a graph written by [WriteJSON].
//
// Each node becomes a project with the node ID as its directory. Edges
// must reference known node IDs; a missing kind means a runtime
// dependency. Errors name the offending node or edge and wrap the
// underlying [dag] error.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*dag.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := dag.New(len(data.Nodes))
	for _, n := range data.Nodes {
		p := &workspace.Project{
			Dir:      n.ID,
			Manifest: workspace.Manifest{Name: n.Name, Version: n.Version},
		}
		if _, err := g.AddNode(p); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		kind := workspace.DepRuntime
		if e.Kind != "" {
			k, ok := kindFromString[e.Kind]
			if !ok {
				return nil, fmt.Errorf("edge %s->%s: unknown kind %q", e.From, e.To, e.Kind)
			}
			kind = k
		}
		from, ok := g.Index(e.From)
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, dag.ErrUnknownSourceNode)
		}
		to, ok := g.Index(e.To)
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, dag.ErrUnknownTargetNode)
		}
		if err := g.AddEdge(from, to, kind); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}

	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*dag.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
