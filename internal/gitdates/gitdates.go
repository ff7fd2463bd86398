// Package gitdates derives page modification times from git history.
package gitdates

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// DefaultMaxCommits bounds how far back the history walk goes.
const DefaultMaxCommits = 5000

var errStop = errors.New("stop iteration")

// Index maps repository-relative paths to the time of the newest commit that
// touched them.
type Index struct {
	root  string
	times map[string]time.Time
}

// Open indexes the repository containing dir by walking history back from
// HEAD. maxCommits <= 0 selects DefaultMaxCommits.
func Open(ctx context.Context, dir string, maxCommits int) (*Index, error) {
	if maxCommits <= 0 {
		maxCommits = DefaultMaxCommits
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "open git repository").
			WithContext("path", dir).Build()
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "open git worktree").
			WithContext("path", dir).Build()
	}
	idx := &Index{root: wt.Filesystem.Root(), times: map[string]time.Time{}}

	ref, err := repo.Head()
	if err != nil {
		// An empty repository has no history to offer.
		return idx, nil
	}
	cIter, err := repo.Log(&git.LogOptions{From: ref.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read git log").Build()
	}
	defer cIter.Close()

	count := 0
	err = cIter.ForEach(func(c *object.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if count >= maxCommits {
			return errStop
		}
		count++
		idx.record(c)
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "walk git history").Build()
	}

	slog.Debug("Indexed git history", slog.Int("commits", count), slog.Int("files", len(idx.times)), logfields.Path(idx.root))
	return idx, nil
}

func (idx *Index) record(c *object.Commit) {
	tree, err := c.Tree()
	if err != nil {
		return
	}
	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, pErr := c.Parent(0)
		if pErr != nil {
			return
		}
		if parentTree, err = parent.Tree(); err != nil {
			return
		}
	}
	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return
	}
	when := c.Committer.When
	for _, ch := range changes {
		name := ch.To.Name
		if name == "" {
			continue // deletion
		}
		if prev, seen := idx.times[name]; !seen || when.After(prev) {
			idx.times[name] = when
		}
	}
}

// LastModified returns the newest commit time for a file on disk.
func (idx *Index) LastModified(absPath string) (time.Time, bool) {
	if idx == nil {
		return time.Time{}, false
	}
	rel, err := filepath.Rel(idx.root, absPath)
	if err != nil {
		return time.Time{}, false
	}
	t, ok := idx.times[filepath.ToSlash(rel)]
	return t, ok
}

// Len is the number of indexed paths.
func (idx *Index) Len() int { return len(idx.times) }
