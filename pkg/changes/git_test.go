package changes

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stackscope/pkg/cache"
	"github.com/matzehuels/stackscope/pkg/errors"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func commitAll(t *testing.T, wt *git.Worktree, msg string) plumbing.Hash {
	t.Helper()
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("add: %v", err)
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}

// initRepo creates a repository with two committed projects and returns the
// hash of the first commit.
func initRepo(t *testing.T) (string, *git.Worktree, plumbing.Hash) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	writeFile(t, dir, "packages/a/index.js", "a1")
	writeFile(t, dir, "packages/b/index.js", "b1")
	base := commitAll(t, wt, "init")
	return dir, wt, base
}

func TestGitListerChangedFiles(t *testing.T) {
	dir, wt, base := initRepo(t)

	writeFile(t, dir, "packages/a/index.js", "a2")
	commitAll(t, wt, "change a")
	writeFile(t, dir, "packages/b/new.txt", "untracked")
	writeFile(t, dir, "packages/c/c.js", "untracked")

	root, files, err := GitLister{}.ChangedFiles(context.Background(), dir, base.String())
	if err != nil {
		t.Fatalf("ChangedFiles() error: %v", err)
	}
	if root != dir {
		t.Errorf("root = %q, want %q", root, dir)
	}
	want := []string{"packages/a/index.js", "packages/b/new.txt", "packages/c/c.js"}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("ChangedFiles() mismatch (-want +got):\n%s", diff)
	}
}

func TestGitListerScopedToDir(t *testing.T) {
	dir, wt, _ := initRepo(t)

	writeFile(t, dir, "packages/a/index.js", "a2")
	writeFile(t, dir, "packages/b/index.js", "b2")
	commitAll(t, wt, "change both")

	_, files, err := GitLister{}.ChangedFiles(context.Background(), filepath.Join(dir, "packages", "b"), "HEAD~1")
	if err != nil {
		t.Fatalf("ChangedFiles() error: %v", err)
	}
	if diff := cmp.Diff([]string{"packages/b/index.js"}, files); diff != "" {
		t.Errorf("ChangedFiles() mismatch (-want +got):\n%s", diff)
	}
}

func TestGitListerCachesCommittedDiff(t *testing.T) {
	dir, wt, base := initRepo(t)
	writeFile(t, dir, "packages/a/index.js", "a2")
	head := commitAll(t, wt, "change a")

	ctx := context.Background()
	c := cache.NewFileCache(t.TempDir())
	lister := GitLister{Cache: c}

	if _, _, err := lister.ChangedFiles(ctx, dir, base.String()); err != nil {
		t.Fatalf("ChangedFiles() error: %v", err)
	}
	data, ok, err := c.Get(ctx, cache.Key("treediff", base.String(), head.String()))
	if err != nil || !ok {
		t.Fatalf("committed diff not cached: ok %v, err %v", ok, err)
	}
	if string(data) != `["packages/a/index.js"]` {
		t.Errorf("cached diff = %s", data)
	}

	// Worktree changes are never served from the cache.
	writeFile(t, dir, "packages/b/index.js", "b2")
	_, files, err := lister.ChangedFiles(ctx, dir, base.String())
	if err != nil {
		t.Fatalf("ChangedFiles() error: %v", err)
	}
	want := []string{"packages/a/index.js", "packages/b/index.js"}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("ChangedFiles() mismatch (-want +got):\n%s", diff)
	}
}

func TestGitListerUnknownRef(t *testing.T) {
	dir, _, _ := initRepo(t)

	_, _, err := GitLister{}.ChangedFiles(context.Background(), dir, "does-not-exist")
	if !errors.Is(err, errors.ErrCodeChangedFiles) {
		t.Errorf("ChangedFiles() error = %v, want %s", err, errors.ErrCodeChangedFiles)
	}
}

func TestProviderWithGit(t *testing.T) {
	dir, wt, base := initRepo(t)

	writeFile(t, dir, "packages/b/index.js", "b2")
	commitAll(t, wt, "change b")

	a := filepath.Join(dir, "packages", "a")
	b := filepath.Join(dir, "packages", "b")
	changed, testOnly, err := NewProvider().ChangedPackages(context.Background(), []string{a, b}, base.String(), Options{
		WorkspaceDir: dir,
	})
	if err != nil {
		t.Fatalf("ChangedPackages() error: %v", err)
	}
	if diff := cmp.Diff([]string{b}, changed); diff != "" {
		t.Errorf("changed mismatch (-want +got):\n%s", diff)
	}
	if len(testOnly) != 0 {
		t.Errorf("testOnly = %v, want none", testOnly)
	}
}
