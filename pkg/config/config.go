// Package config loads the stackscope.toml workspace configuration.
//
// The file lives at the workspace root and mirrors the filtering settings
// that can also be passed on the command line:
//
//	packages = ["packages/*", "apps/*", "!apps/legacy"]
//	link-workspace-packages = true
//	dir-glob-filtering = false
//	test-pattern = ["**/test/**", "**/*.test.ts"]
//	changed-files-ignore-pattern = ["**/*.md"]
//	fail-if-no-match = false
//
// A missing file is not an error: [Load] returns [Default] for the directory.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackscope/pkg/errors"
	"github.com/matzehuels/stackscope/pkg/workspace"
)

// FileName is the configuration file looked up at the workspace root.
const FileName = "stackscope.toml"

// Config holds workspace-wide filtering settings.
type Config struct {
	// Packages are the workspace project globs. Empty means the root
	// package.json "workspaces" field, then [workspace.DefaultPatterns].
	Packages []string `toml:"packages"`

	// LinkWorkspacePackages lets plain semver ranges resolve to sibling
	// projects. When false only workspace: specifiers link siblings.
	LinkWorkspacePackages bool `toml:"link-workspace-packages"`

	// DirGlobFiltering treats {dir} selectors as globs instead of
	// subdirectory prefixes.
	DirGlobFiltering bool `toml:"dir-glob-filtering"`

	// TestPattern marks changed files that only affect tests.
	TestPattern []string `toml:"test-pattern"`

	// ChangedFilesIgnorePattern drops changed files before they are mapped
	// to projects.
	ChangedFilesIgnorePattern []string `toml:"changed-files-ignore-pattern"`

	// FailIfNoMatch makes selectors that select nothing an error.
	FailIfNoMatch bool `toml:"fail-if-no-match"`

	// Root is the directory the configuration applies to. Not read from the file.
	Root string `toml:"-"`

	// File is the path the configuration was read from, empty for defaults.
	File string `toml:"-"`
}

// Default returns the configuration used when no file is present.
func Default(root string) Config {
	return Config{
		LinkWorkspacePackages: true,
		Root:                  root,
	}
}

// Load reads FileName from root. Keys absent from the file keep their
// defaults; unknown keys are rejected.
func Load(root string) (Config, error) {
	cfg := Default(root)
	path := filepath.Join(root, FileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Root = root
	cfg.File = path
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the glob settings.
func (c *Config) Validate() error {
	for _, p := range c.Packages {
		if err := errors.ValidateWorkspacePattern(p); err != nil {
			return err
		}
	}
	for _, group := range [][]string{c.TestPattern, c.ChangedFilesIgnorePattern} {
		for _, p := range group {
			if strings.TrimSpace(p) == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "empty file pattern")
			}
		}
	}
	return nil
}

// WorkspacePatterns returns the project globs to discover: the configured
// packages, else the root manifest's "workspaces" field, else nil so that
// discovery falls back to its defaults.
func (c *Config) WorkspacePatterns() ([]string, error) {
	if len(c.Packages) > 0 {
		return c.Packages, nil
	}
	m, err := workspace.ReadManifest(filepath.Join(c.Root, workspace.ManifestFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(m.Workspaces) == 0 {
		return nil, nil
	}
	// The root itself is always part of the workspace.
	return append([]string{"."}, m.Workspaces...), nil
}

// FindRoot walks up from start and returns the nearest directory that
// either contains FileName or has a package.json declaring "workspaces".
// The nearest marker wins, so a workspace nested inside another repository
// is not swallowed by a configuration file further up. The error has code
// WORKSPACE_NOT_FOUND when no marker is found.
func FindRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", start)
	}

	for dir := abs; ; {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir, nil
		}
		if declaresWorkspaces(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.New(errors.ErrCodeWorkspaceNotFound, "no %s or workspace package.json above %s", FileName, abs)
}

func declaresWorkspaces(dir string) bool {
	m, err := workspace.ReadManifest(filepath.Join(dir, workspace.ManifestFile))
	return err == nil && len(m.Workspaces) > 0
}
