package workspace

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/stackscope/pkg/errors"
)

// DefaultPatterns are used when neither the config file nor the root
// manifest lists workspace packages: the root plus every nested project.
var DefaultPatterns = []string{".", "**"}

// skippedDirs are never descended into while discovering projects.
var skippedDirs = map[string]bool{
	"node_modules":     true,
	"bower_components": true,
	".git":             true,
}

// Find discovers the workspace projects under root whose directories match
// patterns. Patterns are doublestar globs relative to root naming project
// directories; a leading "!" excludes matches. An empty pattern list means
// [DefaultPatterns].
//
// The returned projects are sorted by directory. Manifests that fail to parse
// abort discovery with an INVALID_MANIFEST error.
func Find(root string, patterns []string) ([]*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve workspace root %s", root)
	}
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	includes, excludes, err := compilePatterns(patterns)
	if err != nil {
		return nil, err
	}

	var projects []*Project
	err = fs.WalkDir(os.DirFS(abs), ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel != "." && skippedDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() != ManifestFile || !matchAny(includes, rel) || matchAny(excludes, rel) {
			return nil
		}

		p, err := LoadProject(filepath.Join(abs, filepath.FromSlash(path.Dir(rel))))
		if err != nil {
			return err
		}
		projects = append(projects, p)
		return nil
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "scan workspace %s", abs)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Dir < projects[j].Dir })
	return projects, nil
}

// compilePatterns turns directory globs into globs over manifest paths.
func compilePatterns(patterns []string) (includes, excludes []string, err error) {
	for _, p := range patterns {
		if err := errors.ValidateWorkspacePattern(p); err != nil {
			return nil, nil, err
		}
		neg := strings.HasPrefix(p, "!")
		glob := manifestGlob(strings.TrimPrefix(p, "!"))
		if !doublestar.ValidatePattern(glob) {
			return nil, nil, errors.New(errors.ErrCodeInvalidConfig, "invalid workspace pattern %q", p)
		}
		if neg {
			excludes = append(excludes, glob)
		} else {
			includes = append(includes, glob)
		}
	}
	return includes, excludes, nil
}

func manifestGlob(dirPattern string) string {
	return path.Join(path.Clean(strings.TrimSuffix(dirPattern, "/")), ManifestFile)
}

func matchAny(globs []string, name string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, name); ok {
			return true
		}
	}
	return false
}
