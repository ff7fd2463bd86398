package gitdates

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, wt *git.Worktree, root, rel, body string, when time.Time) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	_, err := wt.Add(rel)
	require.NoError(t, err)
	_, err = wt.Commit("update "+rel, &git.CommitOptions{Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: when}})
	require.NoError(t, err)
}

func TestOpen_RecordsNewestCommitPerFile(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	t1 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	commitFile(t, wt, root, "content/a.md", "a1", t1)
	commitFile(t, wt, root, "content/b.md", "b1", t2)
	commitFile(t, wt, root, "content/a.md", "a2", t3)

	idx, err := Open(context.Background(), filepath.Join(root, "content"), 0)
	require.NoError(t, err)
	require.Equal(t, 2, idx.Len())

	got, ok := idx.LastModified(filepath.Join(root, "content", "a.md"))
	require.True(t, ok)
	require.True(t, got.Equal(t3))

	got, ok = idx.LastModified(filepath.Join(root, "content", "b.md"))
	require.True(t, ok)
	require.True(t, got.Equal(t2))

	_, ok = idx.LastModified(filepath.Join(root, "content", "untracked.md"))
	require.False(t, ok)
}

func TestOpen_NotARepository_Errors(t *testing.T) {
	_, err := Open(context.Background(), t.TempDir(), 0)
	require.Error(t, err)
}

func TestOpen_EmptyRepository_NoTimes(t *testing.T) {
	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)

	idx, err := Open(context.Background(), root, 0)
	require.NoError(t, err)
	require.Equal(t, 0, idx.Len())
}

func TestLastModified_NilIndex(t *testing.T) {
	var idx *Index
	_, ok := idx.LastModified("/x")
	require.False(t, ok)
}
