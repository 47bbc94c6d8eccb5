package deps

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// RangeResolver decides which versions satisfy a specifier.
type RangeResolver interface {
	// Valid reports whether spec is a semver version or range.
	Valid(spec string) bool
	// MaxSatisfying returns the highest of versions satisfying spec.
	MaxSatisfying(spec string, versions []string) (string, bool)
}

// SemverRanges is the default [RangeResolver]. Parsed constraints are kept in
// a bounded LRU cache; it is safe for concurrent use.
type SemverRanges struct {
	cache *lru.Cache[string, parsedRange]
}

type parsedRange struct {
	constraint *semver.Constraints
	valid      bool
}

// NewSemverRanges creates a resolver caching up to size parsed constraints.
func NewSemverRanges(size int) *SemverRanges {
	if size <= 0 {
		size = DefaultRangeCacheSize
	}
	cache, err := lru.New[string, parsedRange](size)
	if err != nil {
		panic(err) // only fails for non-positive sizes
	}
	return &SemverRanges{cache: cache}
}

// Valid reports whether spec parses as a version or a range. An empty spec
// is the "any version" range.
func (r *SemverRanges) Valid(spec string) bool {
	if isAnyRange(spec) {
		return true
	}
	if _, err := semver.NewVersion(spec); err == nil {
		return true
	}
	return r.parse(spec).valid
}

// MaxSatisfying returns the highest version satisfying spec. The "any
// version" ranges ("", "*", "^", "~") also accept prereleases.
func (r *SemverRanges) MaxSatisfying(spec string, versions []string) (string, bool) {
	var check func(*semver.Version) bool
	if isAnyRange(spec) {
		check = func(*semver.Version) bool { return true }
	} else {
		p := r.parse(spec)
		if !p.valid {
			return "", false
		}
		check = p.constraint.Check
	}

	var best *semver.Version
	bestRaw := ""
	for _, raw := range versions {
		v, err := semver.NewVersion(raw)
		if err != nil || !check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestRaw = v, raw
		}
	}
	return bestRaw, best != nil
}

func (r *SemverRanges) parse(spec string) parsedRange {
	if p, ok := r.cache.Get(spec); ok {
		return p
	}
	c, err := semver.NewConstraint(spec)
	p := parsedRange{constraint: c, valid: err == nil}
	r.cache.Add(spec, p)
	return p
}

func isAnyRange(spec string) bool {
	switch strings.TrimSpace(spec) {
	case "", "*", "^", "~":
		return true
	}
	return false
}
