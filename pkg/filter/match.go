package filter

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/stackscope/pkg/dag"
)

// nameMatcher compiles a name glob. "*" matches any run of characters,
// including "/", so "@acme/*" and "*-plugin" both work on scoped names.
func nameMatcher(pattern string) *regexp.Regexp {
	expr := strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*")
	return regexp.MustCompile("^" + expr + "$")
}

// matchNames returns the candidates whose manifest name matches pattern.
// A bare name that matches nothing is retried once as "@*/name"; the retry
// counts only when it finds exactly one project.
func matchNames(g *dag.Graph, candidates []int, pattern string) []int {
	re := nameMatcher(pattern)
	var out []int
	for _, i := range candidates {
		name := g.Project(i).Name()
		if name != "" && re.MatchString(name) {
			out = append(out, i)
		}
	}
	if len(out) == 0 && !strings.HasPrefix(pattern, "@") && !strings.Contains(pattern, "/") {
		scoped := matchNames(g, candidates, "@*/"+pattern)
		if len(scoped) == 1 {
			return scoped
		}
		return nil
	}
	return out
}

// matchDirs returns the projects located in dir. With glob set, dir is a
// doublestar pattern matched against each project directory.
func matchDirs(g *dag.Graph, dir string, glob bool) []int {
	var out []int
	pattern := filepath.ToSlash(dir)
	for i := range g.Len() {
		id := g.ID(i)
		var ok bool
		if glob {
			ok, _ = doublestar.Match(pattern, filepath.ToSlash(id))
		} else {
			ok = isSubdir(dir, id)
		}
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// isSubdir reports whether dir equals parent or lies below it.
func isSubdir(parent, dir string) bool {
	rel, err := filepath.Rel(parent, dir)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func allIndices(g *dag.Graph) []int {
	out := make([]int, g.Len())
	for i := range out {
		out[i] = i
	}
	return out
}
