// Package selector parses the package selector language used by --filter.
//
// # Grammar
//
//	selector := ["!"] ["..." ["^"]] core [["^"] "..."]
//	core     := [name] ["{" dir "}"] ["[" ref "]"]
//
// A leading "!" excludes the matched projects. A trailing "..." adds the
// dependencies of the matched projects, a leading "..." adds their
// dependents; a "^" next to the dots leaves the matched projects themselves
// out. The core selects entry projects by name glob, by directory and by
// the files changed since a git ref:
//
//	foo                 the project named foo
//	@acme/*             every project in the @acme scope
//	foo...              foo and everything it depends on
//	...foo              foo and everything that depends on it
//	^foo...             only the dependencies of foo
//	{packages/*}        projects under packages/
//	./apps/web          projects under apps/web (relative to the prefix)
//	[origin/main]       projects changed since origin/main
//	...{apps}[HEAD~1]   changed projects under apps and their dependents
//	!foo                everything except foo
package selector

import "strings"

// Kind tells which entry strategies a selector combines.
type Kind int

const (
	KindName     Kind = iota // name pattern only
	KindPath                 // parent directory only
	KindDiff                 // changed since a ref only
	KindCombined             // more than one of the above
)

func (k Kind) String() string {
	switch k {
	case KindName:
		return "name"
	case KindPath:
		return "path"
	case KindDiff:
		return "diff"
	case KindCombined:
		return "combined"
	}
	return "unknown"
}

// entry presence bits
const (
	hasName uint8 = 1 << iota
	hasDir
	hasDiff
)

// Selector is one parsed filter expression.
type Selector struct {
	Raw  string
	Kind Kind

	NamePattern string
	ParentDir   string // absolute, cleaned
	Diff        string // git ref

	Exclude             bool
	ExcludeSelf         bool
	IncludeDependencies bool
	IncludeDependents   bool
	FollowProdDepsOnly  bool

	present uint8
}

// HasName reports whether the selector matches by name pattern.
func (s Selector) HasName() bool { return s.present&hasName != 0 }

// HasParentDir reports whether the selector matches by directory.
func (s Selector) HasParentDir() bool { return s.present&hasDir != 0 }

// HasDiff reports whether the selector matches by changed files.
func (s Selector) HasDiff() bool { return s.present&hasDiff != 0 }

// WithName returns a copy of s matching by name pattern.
func (s Selector) WithName(pattern string) Selector {
	s.NamePattern = pattern
	s.present |= hasName
	s.Kind = kindOf(s.present)
	return s
}

// WithParentDir returns a copy of s matching by directory.
func (s Selector) WithParentDir(dir string) Selector {
	s.ParentDir = dir
	s.present |= hasDir
	s.Kind = kindOf(s.present)
	return s
}

// WithDiff returns a copy of s matching by changes since ref.
func (s Selector) WithDiff(ref string) Selector {
	s.Diff = ref
	s.present |= hasDiff
	s.Kind = kindOf(s.present)
	return s
}

func kindOf(present uint8) Kind {
	switch present {
	case hasName:
		return KindName
	case hasDir:
		return KindPath
	case hasDiff:
		return KindDiff
	}
	return KindCombined
}

// String renders the selector back in the filter syntax.
func (s Selector) String() string {
	var b strings.Builder
	if s.Exclude {
		b.WriteString("!")
	}
	if s.IncludeDependents {
		b.WriteString("...")
		if s.ExcludeSelf {
			b.WriteString("^")
		}
	}
	if s.HasName() {
		b.WriteString(s.NamePattern)
	}
	if s.HasParentDir() {
		b.WriteString("{" + s.ParentDir + "}")
	}
	if s.HasDiff() {
		b.WriteString("[" + s.Diff + "]")
	}
	if s.IncludeDependencies {
		if s.ExcludeSelf && !s.IncludeDependents {
			b.WriteString("^")
		}
		b.WriteString("...")
	}
	return b.String()
}
