package deps

import "github.com/matzehuels/stackscope/pkg/dag"

// DefaultRangeCacheSize bounds the number of parsed range constraints kept
// by [NewSemverRanges] when no size is given.
const DefaultRangeCacheSize = 1024

// BuildOptions configures graph construction.
type BuildOptions struct {
	IgnoreDevDeps         bool                 // Skip devDependencies and peerDependencies
	LinkWorkspacePackages bool                 // Let plain ranges link siblings (false: only workspace: specs)
	Ranges                RangeResolver        // Version range matching (default: SemverRanges)
	Logger                func(string, ...any) // Diagnostics callback (optional)
}

// WithDefaults returns a copy of BuildOptions with zero values replaced by defaults.
func (o BuildOptions) WithDefaults() BuildOptions {
	opts := o
	if opts.Ranges == nil {
		opts.Ranges = NewSemverRanges(DefaultRangeCacheSize)
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Unmatched describes a version or range specifier that named sibling
// projects but matched none of them. It is a diagnostic, not an error.
type Unmatched struct {
	Name    string // Dependency name as declared (after workspace: aliasing)
	Range   string // Specifier that failed to match
	Project string // Directory of the declaring project
}

// BuildResult is the outcome of [BuildGraph].
type BuildResult struct {
	Graph     *dag.Graph
	Unmatched []Unmatched
}
