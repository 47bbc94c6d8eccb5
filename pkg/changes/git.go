package changes

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/matzehuels/stackscope/pkg/cache"
	"github.com/matzehuels/stackscope/pkg/errors"
)

// Lister lists the files changed since a git ref.
type Lister interface {
	// ChangedFiles returns the repository root and the slash-separated,
	// root-relative paths changed below dir since ref.
	ChangedFiles(ctx context.Context, dir, ref string) (root string, files []string, err error)
}

// GitLister reads changes straight from the repository containing dir.
//
// The result matches `git diff --name-only <ref> -- <dir>` plus untracked
// files: everything committed since ref, staged or modified in the worktree,
// or not yet tracked.
//
// The committed part only depends on the two commit hashes, so it is kept in
// Cache when one is set. Worktree status is always read fresh.
type GitLister struct {
	Cache cache.Cache
}

// ChangedFiles implements [Lister].
func (l GitLister) ChangedFiles(ctx context.Context, dir, ref string) (string, []string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeChangedFiles, err, "open repository at %s", dir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeChangedFiles, err, "open worktree at %s", dir)
	}
	root := wt.Filesystem.Root()

	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeChangedFiles, err, "resolve %s", ref)
	}
	head, err := repo.Head()
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeChangedFiles, err, "resolve HEAD")
	}

	committed, err := l.committedChanges(ctx, repo, *hash, head.Hash())
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeChangedFiles, err, "diff %s..HEAD", ref)
	}
	set := make(map[string]struct{}, len(committed))
	for _, f := range committed {
		set[f] = struct{}{}
	}

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	status, err := wt.Status()
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeChangedFiles, err, "read worktree status")
	}
	for file, s := range status {
		if s.Staging == git.Unmodified && s.Worktree == git.Unmodified {
			continue
		}
		set[file] = struct{}{}
	}

	scope, err := scopeOf(root, dir)
	if err != nil {
		return "", nil, err
	}
	files := make([]string, 0, len(set))
	for f := range set {
		if scope == "" || f == scope || strings.HasPrefix(f, scope+"/") {
			files = append(files, f)
		}
	}
	sort.Strings(files)
	return root, files, nil
}

// committedChanges lists the paths that differ between the trees of base
// and head.
func (l GitLister) committedChanges(ctx context.Context, repo *git.Repository, base, head plumbing.Hash) ([]string, error) {
	key := cache.Key("treediff", base.String(), head.String())
	if l.Cache != nil {
		if data, ok, err := l.Cache.Get(ctx, key); err == nil && ok {
			var files []string
			if json.Unmarshal(data, &files) == nil {
				return files, nil
			}
		}
	}

	baseTree, err := commitTree(repo, base)
	if err != nil {
		return nil, err
	}
	headTree, err := commitTree(repo, head)
	if err != nil {
		return nil, err
	}
	changes, err := baseTree.DiffContext(ctx, headTree)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(changes))
	files := make([]string, 0, len(changes))
	for _, c := range changes {
		for _, name := range []string{c.From.Name, c.To.Name} {
			if _, dup := seen[name]; name != "" && !dup {
				seen[name] = struct{}{}
				files = append(files, name)
			}
		}
	}
	sort.Strings(files)

	if l.Cache != nil {
		if data, err := json.Marshal(files); err == nil {
			// A failed write only costs a recomputation next time.
			_ = l.Cache.Set(ctx, key, data, 0)
		}
	}
	return files, nil
}

func commitTree(repo *git.Repository, hash plumbing.Hash) (*object.Tree, error) {
	commit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, err
	}
	return commit.Tree()
}

// scopeOf returns dir relative to root in slash form, empty for the root itself.
func scopeOf(root, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", dir)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New(errors.ErrCodeInvalidPath, "%s is outside repository %s", dir, root)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}
