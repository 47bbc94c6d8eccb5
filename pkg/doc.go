// Package pkg provides the core libraries for stackscope workspace selection.
//
// # Overview
//
// Stackscope reads a JavaScript monorepo, connects its workspace packages
// through the dependencies they declare on each other and selects packages
// with pnpm-style --filter expressions. The pkg directory is organized as
// follows:
//
//  1. [workspace] - Project discovery and package.json parsing
//  2. [deps] - Specifier resolution and graph building
//  3. [dag] - The kind-tagged dependency graph
//  4. [selector] - Parsing of filter expressions
//  5. [changes] - Mapping files changed since a git ref to projects
//  6. [filter] - Applying selectors to the graph
//  7. [sequence] - Ordering a selection into parallel batches
//  8. [io], [render] - Graph export and Graphviz rendering
//
// # Architecture
//
// The typical data flow through stackscope:
//
//	package.json files
//	         ↓
//	    [workspace] package (discover projects)
//	         ↓
//	    [deps] package (resolve specifiers, build the graph)
//	         ↓
//	    [filter] package (apply selectors) ← [selector], [changes]
//	         ↓
//	    [sequence] / [io] / [render]
//
// # Quick Start
//
//	projects, err := workspace.Find(root, nil)
//	if err != nil {
//	    return err
//	}
//	selectors, err := selector.ParseAll([]string{"@acme/web..."}, nil, root)
//	if err != nil {
//	    return err
//	}
//	res, err := filter.FilterPackages(ctx, projects, selectors, filter.Options{
//	    WorkspaceDir:          root,
//	    LinkWorkspacePackages: true,
//	})
//	if err != nil {
//	    return err
//	}
//	order := sequence.Sequence(res.AllProjects, res.Indices, dag.AllKinds)
//
// # Supporting Packages
//
// [config] loads stackscope.toml, [errors] defines the coded errors returned
// across the module, [observability] exposes hooks for graph and filter
// events, [cache] stores git diffs between runs and [buildinfo] carries
// version information.
//
// [workspace]: https://pkg.go.dev/github.com/matzehuels/stackscope/pkg/workspace
// [deps]: https://pkg.go.dev/github.com/matzehuels/stackscope/pkg/deps
// [dag]: https://pkg.go.dev/github.com/matzehuels/stackscope/pkg/dag
// [selector]: https://pkg.go.dev/github.com/matzehuels/stackscope/pkg/selector
// [changes]: https://pkg.go.dev/github.com/matzehuels/stackscope/pkg/changes
// [filter]: https://pkg.go.dev/github.com/matzehuels/stackscope/pkg/filter
// [sequence]: https://pkg.go.dev/github.com/matzehuels/stackscope/pkg/sequence
// [io]: https://pkg.go.dev/github.com/matzehuels/stackscope/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/stackscope/pkg/render
// [config]: https://pkg.go.dev/github.com/matzehuels/stackscope/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/stackscope/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/stackscope/pkg/observability
// [cache]: https://pkg.go.dev/github.com/matzehuels/stackscope/pkg/cache
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/stackscope/pkg/buildinfo
package pkg
