package deps

import (
	"fmt"
	"sort"

	"github.com/matzehuels/stackscope/pkg/dag"
	"github.com/matzehuels/stackscope/pkg/workspace"
)

type declared struct {
	spec string
	kind workspace.DepKind
}

// mergeDependencies collapses the manifest sections into one specifier per
// dependency name. Higher-precedence sections override lower ones.
func mergeDependencies(m *workspace.Manifest, ignoreDevDeps bool) map[string]declared {
	merged := make(map[string]declared)
	for i := len(workspace.Kinds) - 1; i >= 0; i-- {
		kind := workspace.Kinds[i]
		if ignoreDevDeps && (kind == workspace.DepDev || kind == workspace.DepPeer) {
			continue
		}
		for name, spec := range m.DependenciesOf(kind) {
			merged[name] = declared{spec: spec, kind: kind}
		}
	}
	return merged
}

// BuildGraph connects projects through the dependencies they declare on each
// other. Nodes are added in input order, so graph indices equal slice indices.
//
// The returned graph is never mutated afterwards; building again with other
// options yields an independent graph.
func BuildGraph(projects []*workspace.Project, opts BuildOptions) (*BuildResult, error) {
	opts = opts.WithDefaults()

	g := dag.New(len(projects))
	for _, p := range projects {
		if _, err := g.AddNode(p); err != nil {
			return nil, fmt.Errorf("add project %s: %w", p.Dir, err)
		}
	}

	resolver := NewResolver(NewCatalog(projects), opts.Ranges, opts.LinkWorkspacePackages)
	res := &BuildResult{Graph: g}

	for from, p := range projects {
		merged := mergeDependencies(&p.Manifest, opts.IgnoreDevDeps)
		names := make([]string, 0, len(merged))
		for name := range merged {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			d := merged[name]
			m := resolver.Resolve(p, name, d.spec)
			switch m.Status {
			case Resolved:
				if err := g.AddEdge(from, m.Index, d.kind); err != nil {
					return nil, fmt.Errorf("link %s to %s: %w", p.Dir, name, err)
				}
			case NoMatch:
				opts.Logger("%s: %s@%s matches no workspace project", p.Dir, m.Name, m.Range)
				res.Unmatched = append(res.Unmatched, Unmatched{
					Name:    m.Name,
					Range:   m.Range,
					Project: p.Dir,
				})
			}
		}
	}

	return res, nil
}
