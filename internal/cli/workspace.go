package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackscope/pkg/cache"
	"github.com/matzehuels/stackscope/pkg/changes"
	"github.com/matzehuels/stackscope/pkg/config"
	"github.com/matzehuels/stackscope/pkg/dag"
	"github.com/matzehuels/stackscope/pkg/errors"
	"github.com/matzehuels/stackscope/pkg/filter"
	"github.com/matzehuels/stackscope/pkg/selector"
	"github.com/matzehuels/stackscope/pkg/workspace"
)

// filterFlags holds the selection flags shared by list, graph and sequence.
type filterFlags struct {
	dir           string   // directory to start the workspace search from
	filters       []string // --filter selectors
	prodFilters   []string // --filter-prod selectors
	testPattern   []string // overrides test-pattern
	ignorePattern []string // overrides changed-files-ignore-pattern
	link          bool     // overrides link-workspace-packages
	dirGlob       bool     // overrides dir-glob-filtering
	failNoMatch   bool     // overrides fail-if-no-match
	prod          bool     // follow runtime and optional edges only in output
	noCache       bool     // recompute git diffs instead of reading the cache
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.dir, "dir", "C", ".", "directory inside the workspace")
	fs.StringArrayVarP(&f.filters, "filter", "F", nil, "package selector (repeatable)")
	fs.StringArrayVar(&f.prodFilters, "filter-prod", nil, "package selector following production dependencies only (repeatable)")
	fs.StringArrayVar(&f.testPattern, "test-pattern", nil, "glob of changed files that only affect tests (repeatable)")
	fs.StringArrayVar(&f.ignorePattern, "changed-files-ignore-pattern", nil, "glob of changed files to ignore (repeatable)")
	fs.BoolVar(&f.link, "link-workspace-packages", true, "let semver ranges link workspace packages")
	fs.BoolVar(&f.dirGlob, "dir-glob-filtering", false, "match {dir} selectors as globs")
	fs.BoolVar(&f.failNoMatch, "fail-if-no-match", false, "fail when a selector matches no package")
	fs.BoolVar(&f.prod, "prod", false, "only follow dependencies and optionalDependencies")
	fs.BoolVar(&f.noCache, "no-cache", false, "do not cache git diffs between commits")
}

// changesProvider returns the git-backed provider for diff selectors.
func (f *filterFlags) changesProvider() *changes.Provider {
	var c cache.Cache = cache.NewNullCache()
	if !f.noCache {
		if dir, err := cache.DefaultDir(); err == nil {
			c = cache.NewFileCache(dir)
		}
	}
	return &changes.Provider{Lister: changes.GitLister{Cache: c}}
}

// mask returns the edge kinds commands follow when rendering or sequencing.
func (f *filterFlags) mask() dag.KindMask {
	if f.prod {
		return dag.ProdKinds
	}
	return dag.AllKinds
}

// selection is a filtered workspace ready for output.
type selection struct {
	cfg    config.Config
	result *filter.Result
}

// applyOverrides copies explicitly set flags over the file configuration.
func (f *filterFlags) applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("link-workspace-packages") {
		cfg.LinkWorkspacePackages = f.link
	}
	if fs.Changed("dir-glob-filtering") {
		cfg.DirGlobFiltering = f.dirGlob
	}
	if fs.Changed("fail-if-no-match") {
		cfg.FailIfNoMatch = f.failNoMatch
	}
	if len(f.testPattern) > 0 {
		cfg.TestPattern = f.testPattern
	}
	if len(f.ignorePattern) > 0 {
		cfg.ChangedFilesIgnorePattern = f.ignorePattern
	}
}

// selectProjects discovers the workspace around f.dir and applies the
// selectors. Unmatched selectors and unresolved specifiers are reported on
// the command's error stream.
func (f *filterFlags) selectProjects(ctx context.Context, cmd *cobra.Command) (*selection, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	prefix, err := filepath.Abs(f.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", f.dir)
	}
	root, err := config.FindRoot(prefix)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	f.applyOverrides(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.File != "" {
		logger.Debug("loaded config", "file", cfg.File)
	}

	patterns, err := cfg.WorkspacePatterns()
	if err != nil {
		return nil, err
	}
	projects, err := workspace.Find(root, patterns)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered projects", "root", root, "count", len(projects))

	selectors, err := selector.ParseAll(f.filters, f.prodFilters, prefix)
	if err != nil {
		return nil, err
	}

	var spin *Spinner
	if hasDiff(selectors) {
		spin = newSpinner(ctx, cmd.ErrOrStderr(), "Diffing against git...")
		spin.Start()
	}
	res, err := filter.FilterPackages(ctx, projects, selectors, filter.Options{
		WorkspaceDir:              root,
		LinkWorkspacePackages:     cfg.LinkWorkspacePackages,
		DirGlobFiltering:          cfg.DirGlobFiltering,
		TestPattern:               cfg.TestPattern,
		ChangedFilesIgnorePattern: cfg.ChangedFilesIgnorePattern,
		FailIfNoMatch:             cfg.FailIfNoMatch,
		Changes:                   f.changesProvider(),
		Logger:                    logger.Debugf,
	})
	if spin != nil {
		spin.Stop()
	}
	if res != nil {
		reportDiagnostics(cmd.ErrOrStderr(), root, res)
	}
	if err != nil {
		return nil, err
	}

	prog.done(fmt.Sprintf("Selected %d of %d projects", res.Selected.Len(), res.AllProjects.Len()))
	return &selection{cfg: cfg, result: res}, nil
}

func hasDiff(selectors []selector.Selector) bool {
	for _, s := range selectors {
		if s.HasDiff() {
			return true
		}
	}
	return false
}

func reportDiagnostics(w io.Writer, root string, res *filter.Result) {
	for _, token := range res.Unmatched {
		printWarning(w, "No projects matched the filter %q", token)
	}
	for _, u := range res.UnresolvedSpecifiers {
		printDetail(w, "%s: %s@%s matches no workspace package", relDir(root, u.Project), u.Name, u.Range)
	}
}

// relDir renders dir relative to root, falling back to dir itself.
func relDir(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return dir
	}
	return filepath.ToSlash(rel)
}
