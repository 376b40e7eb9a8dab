package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// GitRepo is a throwaway working copy with deterministic commit times.
type GitRepo struct {
	Dir  string
	Repo *git.Repository

	t    *testing.T
	base time.Time
	n    int
}

// NewGitRepo initialises a repository in dir.
func NewGitRepo(t *testing.T, dir string) *GitRepo {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &GitRepo{
		Dir:  dir,
		Repo: repo,
		t:    t,
		base: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

// Commit adds a file and commits it with message, one minute after the
// previous commit.
func (r *GitRepo) Commit(message string) plumbing.Hash {
	r.t.Helper()
	r.n++

	wt, err := r.Repo.Worktree()
	require.NoError(r.t, err)

	name := fmt.Sprintf("f%d.txt", r.n)
	require.NoError(r.t, os.WriteFile(filepath.Join(r.Dir, name), []byte(message), 0o644))
	_, err = wt.Add(name)
	require.NoError(r.t, err)

	sig := &object.Signature{Name: "Dev", Email: "dev@example.com", When: r.base.Add(time.Duration(r.n) * time.Minute)}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(r.t, err)
	return hash
}

// Tag creates a lightweight tag.
func (r *GitRepo) Tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.Repo.CreateTag(name, hash, nil)
	require.NoError(r.t, err)
}

// SHA returns a 40-character hash made of c, for readable fixtures.
func SHA(c byte) string {
	b := make([]byte, 40)
	for i := range b {
		b[i] = c
	}
	return string(b)
}
