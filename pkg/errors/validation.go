package errors

import (
	"strings"
	"unicode"
)

// ValidateProjectName validates a manifest package name for safety.
// It rejects names that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No control characters
//   - No parent directory segments (".." between slashes) or "//"
//   - No null bytes
//   - Maximum length of 214 characters (the npm limit)
//
// An empty name is valid: workspace roots are frequently unnamed.
func ValidateProjectName(name string) error {
	if name == "" {
		return nil
	}

	if len(name) > 214 {
		return New(ErrCodeInvalidManifest, "package name too long (max 214 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidManifest, "package name contains invalid control characters")
		}
	}

	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidManifest, "package name %q contains a parent directory segment", name)
		}
	}

	dangerousPatterns := []string{
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidManifest, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateWorkspacePattern validates a workspace package glob.
//
// Validation rules:
//   - Pattern cannot be empty
//   - No null bytes or control characters
//   - No absolute paths (must be relative to the workspace root)
//   - No path traversal segments (..)
//   - No backslashes (patterns always use forward slashes)
//
// A single leading "!" marks an exclusion and is not part of the checked path.
func ValidateWorkspacePattern(pattern string) error {
	p := strings.TrimPrefix(pattern, "!")
	if p == "" {
		return New(ErrCodeInvalidConfig, "workspace pattern cannot be empty")
	}

	for _, r := range p {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "workspace pattern %q contains invalid characters", pattern)
		}
	}

	if strings.HasPrefix(p, "/") {
		return New(ErrCodeInvalidConfig, "workspace pattern %q must be relative", pattern)
	}

	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidConfig, "workspace pattern %q cannot leave the workspace root", pattern)
		}
	}

	if strings.Contains(p, "\\") {
		return New(ErrCodeInvalidConfig, "workspace pattern %q cannot contain backslashes", pattern)
	}

	return nil
}

// ValidateGitRef validates a revision passed to a diff selector.
// It rejects refs that git itself would refuse or could read as options.
// Revision ranges ("a..b", "a...b") are rejected too: a diff selector names a
// single commit that the working tree is compared against.
func ValidateGitRef(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidSelector, "git ref cannot be empty")
	}

	if strings.HasPrefix(ref, "-") {
		return New(ErrCodeInvalidSelector, "git ref %q cannot start with '-'", ref)
	}

	for _, r := range ref {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidSelector, "git ref %q contains invalid characters", ref)
		}
	}

	if strings.Contains(ref, "..") {
		return New(ErrCodeInvalidSelector, "git ref %q cannot contain '..': revision ranges are not supported, name a single commit", ref)
	}

	return nil
}
