// Package changes maps the files changed since a git ref to workspace projects.
//
// [Provider.ChangedPackages] splits the affected projects in two groups:
// projects with at least one changed source file, and projects whose only
// changes match the configured test patterns. Filters select the first group
// together with its dependents and the second group on its own, because a
// test-only change cannot break anything that depends on the project.
package changes

import (
	"context"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/stackscope/pkg/errors"
)

// Options scopes and classifies changed files.
type Options struct {
	WorkspaceDir              string   // Only changes below this directory count
	TestPattern               []string // Globs of files that only affect tests
	ChangedFilesIgnorePattern []string // Globs of files to disregard
}

type changeType int

const (
	changeNone changeType = iota
	changeTest
	changeSource
)

// Provider computes changed projects from a [Lister].
type Provider struct {
	Lister Lister
}

// NewProvider returns a provider reading changes from git.
func NewProvider() *Provider {
	return &Provider{Lister: GitLister{}}
}

// ChangedPackages returns, among pkgDirs, the projects with changed source
// files and the projects whose changes all match opts.TestPattern. Globs are
// matched against repository-relative, slash-separated paths. Both slices
// keep the order of pkgDirs.
func (p *Provider) ChangedPackages(ctx context.Context, pkgDirs []string, ref string, opts Options) (changed, testOnly []string, err error) {
	if err := errors.ValidateGitRef(ref); err != nil {
		return nil, nil, err
	}
	root, files, err := p.Lister.ChangedFiles(ctx, opts.WorkspaceDir, ref)
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, nil, err
		}
		return nil, nil, errors.Wrap(errors.ErrCodeChangedFiles, err, "list changes since %s", ref)
	}

	types := make(map[string]changeType, len(pkgDirs))
	for _, d := range pkgDirs {
		types[filepath.Clean(d)] = changeNone
	}

	for _, f := range files {
		if matchAny(opts.ChangedFilesIgnorePattern, f) {
			continue
		}
		kind := changeSource
		if matchAny(opts.TestPattern, f) {
			kind = changeTest
		}
		pkg, ok := owningPackage(filepath.Join(root, filepath.FromSlash(path.Dir(f))), types)
		if !ok {
			continue
		}
		if kind > types[pkg] {
			types[pkg] = kind
		}
	}

	for _, d := range pkgDirs {
		switch types[filepath.Clean(d)] {
		case changeSource:
			changed = append(changed, d)
		case changeTest:
			testOnly = append(testOnly, d)
		}
	}
	return changed, testOnly, nil
}

// owningPackage walks up from dir to the nearest project directory.
func owningPackage(dir string, pkgs map[string]changeType) (string, bool) {
	for {
		if _, ok := pkgs[dir]; ok {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func matchAny(globs []string, name string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, name); ok {
			return true
		}
	}
	return false
}
