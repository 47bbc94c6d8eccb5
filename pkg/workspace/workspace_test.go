package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stackscope/pkg/errors"
)

func writeManifest(t *testing.T, root, rel, content string) string {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestParseManifest(t *testing.T) {
	data := []byte(`{
		"name": "@acme/app",
		"version": "1.2.0",
		"dependencies": {"@acme/lib": "workspace:*"},
		"devDependencies": {"@acme/tools": "^1.0.0"},
		"optionalDependencies": {"fsevents": "^2.0.0"},
		"peerDependencies": {"react": ">=18"}
	}`)

	m, err := ParseManifest(data, "package.json")
	if err != nil {
		t.Fatalf("ParseManifest() error: %v", err)
	}

	if m.Name != "@acme/app" || m.Version != "1.2.0" {
		t.Errorf("name/version = %s@%s, want @acme/app@1.2.0", m.Name, m.Version)
	}

	tests := []struct {
		kind DepKind
		name string
		want string
	}{
		{DepRuntime, "@acme/lib", "workspace:*"},
		{DepDev, "@acme/tools", "^1.0.0"},
		{DepOptional, "fsevents", "^2.0.0"},
		{DepPeer, "react", ">=18"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := m.DependenciesOf(tt.kind)[tt.name]; got != tt.want {
				t.Errorf("DependenciesOf(%s)[%s] = %q, want %q", tt.kind, tt.name, got, tt.want)
			}
		})
	}
}

func TestParseManifestWorkspaces(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{"array", `{"workspaces": ["packages/*", "apps/*"]}`, []string{"packages/*", "apps/*"}},
		{"object", `{"workspaces": {"packages": ["libs/**"]}}`, []string{"libs/**"}},
		{"absent", `{"name": "root"}`, nil},
		{"null", `{"workspaces": null}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseManifest([]byte(tt.data), "package.json")
			if err != nil {
				t.Fatalf("ParseManifest() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, m.Workspaces); diff != "" {
				t.Errorf("Workspaces mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"name": `},
		{"traversal name", `{"name": "../evil"}`},
		{"bad workspaces", `{"workspaces": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.data), "package.json")
			if !errors.Is(err, errors.ErrCodeInvalidManifest) {
				t.Errorf("ParseManifest() error = %v, want %s", err, errors.ErrCodeInvalidManifest)
			}
		})
	}
}

func TestLoadProject(t *testing.T) {
	root := t.TempDir()
	dir := writeManifest(t, root, "lib", `{"name": "lib", "version": "0.1.0"}`)

	p, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject() error: %v", err)
	}
	if p.ID() != dir {
		t.Errorf("ID() = %q, want %q", p.ID(), dir)
	}
	if p.String() != "lib@0.1.0" {
		t.Errorf("String() = %q, want lib@0.1.0", p.String())
	}

	if _, err := LoadProject(filepath.Join(root, "missing")); err == nil {
		t.Error("LoadProject() on missing dir should fail")
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, ".", `{"name": "root", "private": true}`)
	writeManifest(t, root, "packages/a", `{"name": "a"}`)
	writeManifest(t, root, "packages/b", `{"name": "b"}`)
	writeManifest(t, root, "packages/legacy", `{"name": "legacy"}`)
	writeManifest(t, root, "apps/web/site", `{"name": "site"}`)
	writeManifest(t, root, "packages/a/node_modules/dep", `{"name": "dep"}`)
	writeManifest(t, root, "tools/x", `{"name": "x"}`)

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "defaults",
			patterns: nil,
			want:     []string{"root", "site", "a", "b", "legacy", "x"},
		},
		{
			name:     "single level",
			patterns: []string{"packages/*"},
			want:     []string{"a", "b", "legacy"},
		},
		{
			name:     "negation",
			patterns: []string{"packages/*", "!packages/legacy"},
			want:     []string{"a", "b"},
		},
		{
			name:     "recursive with root",
			patterns: []string{".", "apps/**"},
			want:     []string{"root", "site"},
		},
		{
			name:     "trailing slash",
			patterns: []string{"tools/x/"},
			want:     []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects, err := Find(root, tt.patterns)
			if err != nil {
				t.Fatalf("Find() error: %v", err)
			}
			var got []string
			for _, p := range projects {
				got = append(got, p.Name())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Find() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindRejectsBadPatterns(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, ".", `{"name": "root"}`)

	for _, p := range []string{"../outside", "/abs", "packages/[", ""} {
		if _, err := Find(root, []string{p}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Find(%q) error = %v, want %s", p, err, errors.ErrCodeInvalidConfig)
		}
	}
}

func TestFindInvalidManifest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "broken", `{`)

	_, err := Find(root, []string{"*"})
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("Find() error = %v, want %s", err, errors.ErrCodeInvalidManifest)
	}
}

func TestFindAcceptsDottedNames(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "packages/a", `{"name": "a..b", "version": "1.0.0"}`)
	writeManifest(t, root, "packages/c", `{"name": "@scope/c..d"}`)

	projects, err := Find(root, []string{"packages/*"})
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	var names []string
	for _, p := range projects {
		names = append(names, p.Name())
	}
	if diff := cmp.Diff([]string{"a..b", "@scope/c..d"}, names); diff != "" {
		t.Errorf("Find() names mismatch (-want +got):\n%s", diff)
	}
}
