package filter

import (
	"context"

	"github.com/matzehuels/stackscope/pkg/changes"
	"github.com/matzehuels/stackscope/pkg/dag"
	"github.com/matzehuels/stackscope/pkg/deps"
)

// ChangedPackagesProvider finds the projects touched since a git ref.
// [changes.Provider] is the default implementation.
type ChangedPackagesProvider interface {
	// ChangedPackages returns, among pkgDirs, the projects with changed
	// source files and the projects whose changes only affect tests.
	ChangedPackages(ctx context.Context, pkgDirs []string, ref string, opts changes.Options) (changed, testOnly []string, err error)
}

// Options configures [FilterPackages] and [FilterGraph].
type Options struct {
	// WorkspaceDir scopes diff selectors that carry no {dir}.
	WorkspaceDir string

	// LinkWorkspacePackages lets plain version ranges link sibling projects.
	// When false only workspace: specifiers create edges.
	LinkWorkspacePackages bool

	// DirGlobFiltering matches {dir} selectors as globs against project
	// directories instead of by subdirectory containment.
	DirGlobFiltering bool

	TestPattern               []string // Changed files that only affect tests
	ChangedFilesIgnorePattern []string // Changed files to disregard

	// FailIfNoMatch reports selectors without entry projects as an
	// UNMATCHED_FILTER error.
	FailIfNoMatch bool

	Changes ChangedPackagesProvider // Diff selector backend (default: git)
	Ranges  deps.RangeResolver      // Version range matching (default: semver)
	Logger  func(string, ...any)    // Debug callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Changes == nil {
		opts.Changes = changes.NewProvider()
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

func (o Options) changesOptions(dir string) changes.Options {
	if dir == "" {
		dir = o.WorkspaceDir
	}
	return changes.Options{
		WorkspaceDir:              dir,
		TestPattern:               o.TestPattern,
		ChangedFilesIgnorePattern: o.ChangedFilesIgnorePattern,
	}
}

// Result is the outcome of [FilterPackages].
type Result struct {
	// Selected holds the selected projects and the edges between them.
	Selected *dag.Graph

	// AllProjects is the full workspace graph. Indices holds the arena
	// indices of the selected projects within it, in ascending order.
	AllProjects *dag.Graph
	Indices     []int

	// Unmatched lists the name pattern or directory of every selector
	// that matched no project.
	Unmatched []string

	// UnresolvedSpecifiers lists version ranges naming sibling projects
	// that matched none of them.
	UnresolvedSpecifiers []deps.Unmatched
}
