package deps

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matzehuels/stackscope/pkg/workspace"
)

const (
	workspacePrefix = "workspace:"
	filePrefix      = "file:"
)

// Status is the outcome of resolving one dependency specifier.
type Status int

const (
	// Unresolved means the specifier does not refer to a sibling project.
	Unresolved Status = iota
	// Resolved means the specifier links a sibling project.
	Resolved
	// NoMatch means the specifier names siblings but none satisfies it.
	NoMatch
)

// Catalog indexes workspace projects by manifest name and by directory.
// Indices refer to positions in the slice given to [NewCatalog].
type Catalog struct {
	projects []*workspace.Project
	byName   map[string][]int
	byDir    map[string]int
}

// NewCatalog indexes projects. Several projects may share a name.
func NewCatalog(projects []*workspace.Project) *Catalog {
	c := &Catalog{
		projects: projects,
		byName:   make(map[string][]int),
		byDir:    make(map[string]int, len(projects)),
	}
	for i, p := range projects {
		if name := p.Manifest.Name; name != "" {
			c.byName[name] = append(c.byName[name], i)
		}
		c.byDir[filepath.Clean(p.Dir)] = i
	}
	return c
}

// Named returns the indices of projects whose manifest name is name.
func (c *Catalog) Named(name string) []int { return c.byName[name] }

// Resolver maps dependency specifiers to sibling projects of a [Catalog].
type Resolver struct {
	catalog *Catalog
	ranges  RangeResolver
	link    bool
}

// NewResolver creates a resolver. When linkWorkspacePackages is false only
// workspace: specifiers may link siblings by version.
func NewResolver(catalog *Catalog, ranges RangeResolver, linkWorkspacePackages bool) *Resolver {
	if ranges == nil {
		ranges = NewSemverRanges(DefaultRangeCacheSize)
	}
	return &Resolver{catalog: catalog, ranges: ranges, link: linkWorkspacePackages}
}

// Match is the outcome of resolving one specifier. Name and Range are the
// dependency name and specifier actually matched, which differ from the
// declared ones for workspace: specs.
type Match struct {
	Index  int
	Name   string
	Range  string
	Status Status
}

// Resolve resolves the dependency name@spec declared by owner. Index is the
// catalog index of the linked sibling when Status is [Resolved].
func (r *Resolver) Resolve(owner *workspace.Project, name, spec string) Match {
	isWorkspace := strings.HasPrefix(spec, workspacePrefix)
	if isWorkspace {
		name, spec = workspaceTarget(name, strings.TrimPrefix(spec, workspacePrefix))
	}
	m := Match{Index: -1, Name: name, Range: spec, Status: Unresolved}

	if dir, ok := directorySpec(spec); ok {
		if i, ok := r.resolveDir(owner.Dir, dir); ok {
			m.Index, m.Status = i, Resolved
		}
		return m
	}

	if !r.ranges.Valid(spec) {
		return m
	}

	candidates := r.catalog.Named(name)
	if len(candidates) == 0 {
		return m
	}
	if !r.link && !isWorkspace {
		m.Status = NoMatch
		return m
	}

	versions := make([]string, 0, len(candidates))
	owners := make(map[string]int, len(candidates))
	for _, i := range candidates {
		v := r.catalog.projects[i].Manifest.Version
		if v == "" {
			continue
		}
		if _, seen := owners[v]; !seen {
			owners[v] = i
			versions = append(versions, v)
		}
	}

	if isWorkspace && len(versions) == 0 {
		m.Index, m.Status = candidates[0], Resolved
		return m
	}
	if i, ok := owners[spec]; ok {
		m.Index, m.Status = i, Resolved
		return m
	}
	if v, ok := r.ranges.MaxSatisfying(spec, versions); ok {
		m.Index, m.Status = owners[v], Resolved
		return m
	}
	m.Status = NoMatch
	return m
}

// workspaceAlias matches "alias@range" bodies of workspace: specifiers.
var workspaceAlias = regexp.MustCompile(`^(?:([^._/][^@]*)@)?(.*)$`)

// workspaceTarget turns the body of a workspace: specifier into the
// dependency name and range it refers to.
func workspaceTarget(name, body string) (string, string) {
	m := workspaceAlias.FindStringSubmatch(body)
	if m[1] != "" {
		name = m[1]
	}
	version := m[2]
	switch version {
	case "", "*", "^", "~":
		version = "*"
	}
	return name, version
}

var driveLetter = regexp.MustCompile(`^[A-Za-z]:`)

// directorySpec reports whether spec points at a local directory and
// returns the path part. Tarballs are files, not directories.
func directorySpec(spec string) (string, bool) {
	path, hasFile := strings.CutPrefix(spec, filePrefix)
	isPath := strings.HasPrefix(path, ".") ||
		strings.HasPrefix(path, "/") ||
		strings.HasPrefix(path, "\\") ||
		strings.HasPrefix(path, "~/") ||
		driveLetter.MatchString(path)
	if !isPath && !hasFile {
		return "", false
	}
	if path == "" {
		return "", false
	}

	lower := strings.ToLower(path)
	for _, ext := range []string{".tgz", ".tar.gz", ".tar"} {
		if strings.HasSuffix(lower, ext) {
			return "", false
		}
	}
	return path, true
}

func (r *Resolver) resolveDir(ownerDir, path string) (int, bool) {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return -1, false
		}
		path = filepath.Join(home, rest)
	}
	target := filepath.FromSlash(path)
	if !filepath.IsAbs(target) && !driveLetter.MatchString(target) {
		target = filepath.Join(ownerDir, target)
	}
	target = filepath.Clean(target)

	if i, ok := r.catalog.byDir[target]; ok {
		return i, true
	}

	// Directory spellings can differ on case-insensitive filesystems.
	for i, p := range r.catalog.projects {
		if rel, err := filepath.Rel(p.Dir, target); err == nil && rel == "." {
			return i, true
		}
		if strings.EqualFold(filepath.Clean(p.Dir), target) {
			return i, true
		}
	}
	return -1, false
}
