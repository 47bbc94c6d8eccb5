// Package deps builds the dependency graph between workspace projects.
//
// # Overview
//
// Every project declares dependencies by name and specifier in its manifest.
// Some of those names refer to sibling projects of the same workspace; this
// package decides which ones and connects them in a [dag.Graph].
//
// # Specifiers
//
// [Resolver] classifies each specifier in order, first match wins:
//
//  1. workspace: references ("workspace:*", "workspace:^1.0.0",
//     "workspace:alias@*", "workspace:../path")
//  2. Directory references ("../lib", "file:./lib", "~/src/lib")
//  3. Version and range specifiers ("1.2.3", "^1.0.0", ">=2 <3")
//
// Everything else (dist-tags, URLs, git references) never links a sibling.
// Range specifiers that name siblings but match none of their versions are
// reported as [Unmatched] diagnostics.
//
// # Ranges
//
// Range matching goes through the [RangeResolver] interface. The default
// [SemverRanges] implementation parses constraints with Masterminds semver
// and memoizes them in a bounded LRU cache shared by all lookups.
//
// # Building
//
// [BuildGraph] merges the dependency sections of each manifest with the
// precedence runtime > optional > dev > peer, resolves every winning
// specifier once and tags the resulting edge with the winning kind:
//
//	res, err := deps.BuildGraph(projects, deps.BuildOptions{
//	    LinkWorkspacePackages: true,
//	})
//	for _, u := range res.Unmatched {
//	    log.Printf("%s: %s@%s matches no workspace project", u.Project, u.Name, u.Range)
//	}
//
// [dag.Graph]: github.com/matzehuels/stackscope/pkg/dag
package deps
