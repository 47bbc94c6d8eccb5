// Package filter selects workspace projects with package selectors.
//
// Each selector first resolves to a set of entry projects: the projects
// changed since a git ref, the projects under a directory, the projects
// whose name matches a glob, or the intersection of a directory and a name.
// The closure flags then extend the entries with their dependencies, their
// dependents, or both.
//
// Include selectors are unioned, exclude selectors are unioned, and the
// result is the difference of the two, so the order of selectors never
// matters. Production-only selectors walk runtime and optional edges only;
// the other selectors walk every edge. Both groups share one graph and their
// results are unioned.
//
// Selectors that find no entry projects are reported in [Result.Unmatched].
// That is a diagnostic unless [Options.FailIfNoMatch] is set.
package filter

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackscope/pkg/dag"
	"github.com/matzehuels/stackscope/pkg/deps"
	"github.com/matzehuels/stackscope/pkg/errors"
	"github.com/matzehuels/stackscope/pkg/observability"
	"github.com/matzehuels/stackscope/pkg/selector"
	"github.com/matzehuels/stackscope/pkg/workspace"
)

// FilterPackages builds the dependency graph of projects and selects the
// projects matched by selectors. Without selectors every project is selected.
//
// When opts.FailIfNoMatch is set and a selector matched nothing, the
// complete result is returned together with an UNMATCHED_FILTER error.
func FilterPackages(ctx context.Context, projects []*workspace.Project, selectors []selector.Selector, opts Options) (*Result, error) {
	opts = opts.WithDefaults()
	hooks := observability.Filter()
	start := time.Now()

	built, err := deps.BuildGraph(projects, deps.BuildOptions{
		LinkWorkspacePackages: opts.LinkWorkspacePackages,
		Ranges:                opts.Ranges,
		Logger:                opts.Logger,
	})
	if err != nil {
		hooks.OnFilterComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	g := built.Graph
	hooks.OnGraphBuilt(ctx, g.Len(), g.EdgeCount(), len(built.Unmatched), time.Since(start))

	indices, unmatched, err := FilterGraph(ctx, g, selectors, opts)
	if err != nil && !errors.Is(err, errors.ErrCodeUnmatchedFilter) {
		hooks.OnFilterComplete(ctx, 0, len(unmatched), time.Since(start), err)
		return nil, err
	}

	res := &Result{
		Selected:             g.Subgraph(indices),
		AllProjects:          g,
		Indices:              indices,
		Unmatched:            unmatched,
		UnresolvedSpecifiers: built.Unmatched,
	}
	hooks.OnFilterComplete(ctx, len(indices), len(unmatched), time.Since(start), err)
	return res, err
}

// FilterGraph selects nodes of g with selectors and returns their arena
// indices in ascending order, along with the tokens of selectors that
// matched nothing. Without selectors every node is selected.
//
// Diff selectors are resolved concurrently through opts.Changes; the first
// provider error is returned as is.
func FilterGraph(ctx context.Context, g *dag.Graph, selectors []selector.Selector, opts Options) ([]int, []string, error) {
	opts = opts.WithDefaults()
	if len(selectors) == 0 {
		return allIndices(g), nil, nil
	}
	for _, s := range selectors {
		if !s.HasName() && !s.HasParentDir() && !s.HasDiff() {
			return nil, nil, errors.New(errors.ErrCodeInvalidSelector, "unsupported package selector: %q", s.Raw)
		}
	}

	diffs, err := resolveDiffs(ctx, g, selectors, opts)
	if err != nil {
		return nil, nil, err
	}

	f := &filterer{ctx: ctx, g: g, opts: opts, diffs: diffs}
	var general, prod []int
	for i, s := range selectors {
		if s.FollowProdDepsOnly {
			prod = append(prod, i)
		} else {
			general = append(general, i)
		}
	}

	selected := newNodeSet(g.Len())
	if len(prod) > 0 {
		selected.addAll(f.group(selectors, prod, dag.ProdKinds))
	}
	if len(general) > 0 {
		selected.addAll(f.group(selectors, general, dag.AllKinds))
	}

	indices := selected.members()
	if indices == nil {
		indices = []int{}
	}
	if opts.FailIfNoMatch && len(f.unmatched) > 0 {
		return indices, f.unmatched, errors.New(errors.ErrCodeUnmatchedFilter,
			"no projects matched the filters: %s", strings.Join(f.unmatched, ", "))
	}
	return indices, f.unmatched, nil
}

// diffEntries holds the projects a diff selector resolved to.
type diffEntries struct {
	changed  []int
	testOnly []int
}

// resolveDiffs asks the changes provider about every diff selector at once.
// The result is indexed like selectors; non-diff selectors get nil.
func resolveDiffs(ctx context.Context, g *dag.Graph, selectors []selector.Selector, opts Options) ([]*diffEntries, error) {
	out := make([]*diffEntries, len(selectors))
	ids := g.IDs()
	hooks := observability.Changes()

	eg, ctx := errgroup.WithContext(ctx)
	for i, s := range selectors {
		if !s.HasDiff() {
			continue
		}
		var dir string
		if s.HasParentDir() {
			dir = s.ParentDir
		}
		eg.Go(func() error {
			start := time.Now()
			changed, testOnly, err := opts.Changes.ChangedPackages(ctx, ids, s.Diff, opts.changesOptions(dir))
			hooks.OnDiffResolved(ctx, s.Diff, len(changed), len(testOnly), time.Since(start), err)
			if err != nil {
				return err
			}
			out[i] = &diffEntries{
				changed:  indicesOf(g, changed),
				testOnly: indicesOf(g, testOnly),
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func indicesOf(g *dag.Graph, ids []string) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if i, ok := g.Index(id); ok {
			out = append(out, i)
		}
	}
	return out
}

type filterer struct {
	ctx       context.Context
	g         *dag.Graph
	opts      Options
	diffs     []*diffEntries
	unmatched []string
}

// group selects with the selectors at idx, walking edges in mask.
func (f *filterer) group(selectors []selector.Selector, idx []int, mask dag.KindMask) nodeSet {
	include := newWalkState(f.g, mask)
	exclude := newWalkState(f.g, mask)
	hasInclude := false

	for _, i := range idx {
		s := selectors[i]
		w := include
		if s.Exclude {
			w = exclude
		} else {
			hasInclude = true
		}
		f.apply(w, s, f.diffs[i])
	}

	var selected nodeSet
	if hasInclude {
		selected = include.selected()
	} else {
		selected = newNodeSet(f.g.Len())
		for i := range selected {
			selected[i] = true
		}
	}
	selected.remove(exclude.selected())
	return selected
}

// apply resolves the entry projects of s and walks them into w.
func (f *filterer) apply(w *walkState, s selector.Selector, diff *diffEntries) {
	var entries []int
	resolved := false

	switch {
	case diff != nil:
		// Test-only changes never pull in dependents.
		testSel := s
		testSel.IncludeDependents = false
		w.pick(testSel, diff.testOnly)
		entries, resolved = diff.changed, true
	case s.HasParentDir():
		entries, resolved = matchDirs(f.g, s.ParentDir, f.opts.DirGlobFiltering), true
	}

	if s.HasName() {
		candidates := entries
		if !resolved {
			candidates = allIndices(f.g)
		}
		entries = matchNames(f.g, candidates, s.NamePattern)
	}

	observability.Filter().OnSelectorResolved(f.ctx, s.Raw, len(entries))
	f.opts.Logger("selector %q matched %d projects", s.Raw, len(entries))

	if len(entries) == 0 {
		if s.HasName() {
			f.unmatched = append(f.unmatched, s.NamePattern)
		}
		if s.HasParentDir() {
			f.unmatched = append(f.unmatched, s.ParentDir)
		}
	}
	w.pick(s, entries)
}
