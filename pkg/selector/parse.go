package selector

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matzehuels/stackscope/pkg/errors"
)

// Parse parses one selector. Directories in the selector are resolved
// against prefix, which should be absolute (usually the working directory).
//
// A core that does not fit the grammar is read as a directory when it looks
// like a path ("./x", "../x", "/x", "C:\x"), otherwise as a bare name
// pattern. Cores that contain brace or bracket characters but do not fit the
// grammar are rejected with an INVALID_SELECTOR error.
func Parse(raw, prefix string) (Selector, error) {
	s := Selector{Raw: raw}
	body := raw

	if rest, ok := strings.CutPrefix(body, "!"); ok {
		s.Exclude = true
		body = rest
	}
	if rest, ok := strings.CutSuffix(body, "..."); ok {
		s.IncludeDependencies = true
		body = rest
		if rest, ok := strings.CutSuffix(body, "^"); ok {
			s.ExcludeSelf = true
			body = rest
		}
	}
	if rest, ok := strings.CutPrefix(body, "..."); ok {
		s.IncludeDependents = true
		body = rest
		if rest, ok := strings.CutPrefix(body, "^"); ok {
			s.ExcludeSelf = true
			body = rest
		}
	}
	// "^foo..." is the same as "foo^...".
	if s.IncludeDependencies && !s.IncludeDependents {
		if rest, ok := strings.CutPrefix(body, "^"); ok {
			s.ExcludeSelf = true
			body = rest
		}
	}

	if body == "" {
		return Selector{}, errors.New(errors.ErrCodeInvalidSelector, "unsupported package selector: %q", raw)
	}

	if c, ok := tokenize(body); ok {
		if c.present&hasName != 0 {
			s = s.WithName(c.name)
		}
		if c.present&hasDir != 0 {
			s = s.WithParentDir(joinDir(prefix, c.dir))
		}
		if c.present&hasDiff != 0 {
			if err := errors.ValidateGitRef(c.ref); err != nil {
				return Selector{}, errors.Wrap(errors.ErrCodeInvalidSelector, err, "unsupported package selector: %q", raw)
			}
			s = s.WithDiff(c.ref)
		}
		return s, nil
	}

	if isLocation(body) {
		return s.WithParentDir(joinDir(prefix, body)), nil
	}
	if !strings.ContainsAny(body, "{}[]") {
		return s.WithName(body), nil
	}
	return Selector{}, errors.New(errors.ErrCodeInvalidSelector, "unsupported package selector: %q", raw)
}

// ParseAll parses the general selectors followed by the production-only ones.
func ParseAll(filters, prodFilters []string, prefix string) ([]Selector, error) {
	out := make([]Selector, 0, len(filters)+len(prodFilters))
	for _, raw := range filters {
		s, err := Parse(raw, prefix)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	for _, raw := range prodFilters {
		s, err := Parse(raw, prefix)
		if err != nil {
			return nil, err
		}
		s.FollowProdDepsOnly = true
		out = append(out, s)
	}
	return out, nil
}

type core struct {
	name, dir, ref string
	present        uint8
}

// tokenize splits a selector core into name, {dir} and [ref] parts.
//
// A name is a run without brace or bracket characters that does not start
// with '.'. When a name is possible it is tried first, then the core is read
// as starting with {dir} or [ref].
func tokenize(s string) (core, bool) {
	if s[0] != '.' {
		end := len(s)
		if i := strings.IndexAny(s, "{}[]"); i >= 0 {
			end = i
		}
		if c, ok := tokenizeTail(s[end:]); ok && end > 0 {
			c.name = s[:end]
			c.present |= hasName
			return c, true
		}
	}
	return tokenizeTail(s)
}

func tokenizeTail(s string) (core, bool) {
	var c core
	if strings.HasPrefix(s, "{") {
		j := strings.IndexByte(s[1:], '}')
		if j <= 0 {
			return core{}, false
		}
		c.dir = s[1 : j+1]
		c.present |= hasDir
		s = s[j+2:]
	}
	if strings.HasPrefix(s, "[") {
		if len(s) < 3 || !strings.HasSuffix(s, "]") {
			return core{}, false
		}
		inner := s[1 : len(s)-1]
		if strings.Contains(inner, "]") {
			return core{}, false
		}
		c.ref = inner
		c.present |= hasDiff
		s = ""
	}
	return c, s == ""
}

var driveLetter = regexp.MustCompile(`^[A-Za-z]:`)

func isLocation(s string) bool {
	switch s {
	case ".", "..":
		return true
	}
	for _, p := range []string{"./", ".\\", "../", "..\\", "/"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return driveLetter.MatchString(s)
}

func joinDir(prefix, dir string) string {
	if filepath.IsAbs(dir) || driveLetter.MatchString(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(prefix, filepath.FromSlash(dir))
}
