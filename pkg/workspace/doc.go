// Package workspace models the projects of a monorepo and discovers them on disk.
//
// # Overview
//
// A workspace is a directory tree containing several packages, each with its
// own package.json. A [Project] pairs the absolute directory of such a package
// with the parts of its [Manifest] that drive dependency graph construction:
// name, version and the four dependency sections.
//
// # Dependency Kinds
//
// [DepKind] records which manifest section declared a dependency. The kinds
// are ordered by precedence (runtime, optional, dev, peer) so that graph
// builders can pick one winning specifier per dependency name.
//
// # Discovery
//
// [Find] walks the workspace root and returns every project whose directory
// matches the configured doublestar patterns:
//
//	projects, err := workspace.Find("/repo", []string{"packages/*", "apps/**", "!apps/legacy"})
//
// node_modules, bower_components and .git directories are never visited.
package workspace
