package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Resolver resolves revisions and commit ranges with go-git.
type Resolver struct {
	repo *git.Repository
	opts ResolveOptions
}

// NewResolver opens the repository at opts.RepoPath. Subdirectories of a
// working tree are accepted.
func NewResolver(opts ResolveOptions) (*Resolver, error) {
	repo, err := git.PlainOpenWithOptions(opts.RepoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", opts.RepoPath, err)
	}
	return &Resolver{repo: repo, opts: opts}, nil
}

// ResolveCommit resolves spec to a commit id.
func (r *Resolver) ResolveCommit(_ context.Context, spec string) (CommitID, error) {
	c, err := r.commit(spec)
	if err != nil {
		return "", err
	}
	return CommitID(c.Hash.String()), nil
}

// ResolveRange walks first parents from bad until it reaches good or one of
// good's ancestors.
func (r *Resolver) ResolveRange(ctx context.Context, good, bad string) (CommitRange, error) {
	goodCommit, err := r.commit(good)
	if err != nil {
		return CommitRange{}, err
	}
	badCommit, err := r.commit(bad)
	if err != nil {
		return CommitRange{}, err
	}

	hidden := newAncestry(goodCommit)
	defer hidden.close()

	var ids []CommitID
	c := badCommit
	for {
		if err := ctx.Err(); err != nil {
			return CommitRange{}, err
		}
		isHidden, err := hidden.contains(c)
		if err != nil {
			return CommitRange{}, fmt.Errorf("failed to read ancestry of %s: %w", good, err)
		}
		if isHidden {
			break
		}
		ids = append(ids, CommitID(c.Hash.String()))

		if c.NumParents() == 0 {
			break
		}
		parent, err := c.Parent(0)
		if err != nil {
			return CommitRange{}, fmt.Errorf("failed to read first parent of %s: %w", c.Hash, err)
		}
		c = parent
	}

	return NewCommitRange(ids...), nil
}

// commit resolves spec and peels annotated tags down to their commit.
func (r *Resolver) commit(spec string) (*object.Commit, error) {
	rev := strings.TrimSpace(spec)
	if rev == "" {
		return nil, &ResolutionError{Spec: spec, Err: errors.New("empty revision")}
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, &ResolutionError{Spec: spec, Err: err}
	}

	c, err := r.repo.CommitObject(*hash)
	if err == nil {
		return c, nil
	}

	tag, tagErr := r.repo.TagObject(*hash)
	if tagErr != nil {
		return nil, &ResolutionError{Spec: spec, Err: err}
	}
	c, err = tag.Commit()
	if err != nil {
		return nil, &ResolutionError{Spec: spec, Err: err}
	}
	return c, nil
}

// ancestrySlop is how many commits older than a candidate are read past it
// before the candidate is declared outside the ancestry. It absorbs small
// committer clock skews, like the slop of `git rev-list`.
const ancestrySlop = 5

// ancestry is the set of commits reachable from a root commit, read lazily
// newest first. Only the part of history newer than the commits asked about
// is ever visited.
type ancestry struct {
	iter object.CommitIter
	seen map[plumbing.Hash]struct{}
	done bool
}

func newAncestry(root *object.Commit) *ancestry {
	return &ancestry{
		iter: object.NewCommitIterCTime(root, nil, nil),
		seen: make(map[plumbing.Hash]struct{}),
	}
}

// contains reports whether c is reachable from the root.
func (a *ancestry) contains(c *object.Commit) (bool, error) {
	if _, ok := a.seen[c.Hash]; ok {
		return true, nil
	}

	older := 0
	for !a.done && older < ancestrySlop {
		next, err := a.iter.Next()
		if errors.Is(err, io.EOF) {
			a.done = true
			break
		}
		if err != nil {
			return false, err
		}
		a.seen[next.Hash] = struct{}{}
		if next.Hash == c.Hash {
			return true, nil
		}
		if next.Committer.When.Before(c.Committer.When) {
			older++
		} else {
			older = 0
		}
	}
	return false, nil
}

func (a *ancestry) close() {
	a.iter.Close()
}

// RemoteURLs returns the fetch URLs of the repository's remotes, keyed by
// remote name. The first configured URL of each remote is used.
func RemoteURLs(repoPath string) (map[string]string, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", repoPath, err)
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}

	urls := make(map[string]string, len(remotes))
	for _, remote := range remotes {
		cfg := remote.Config()
		if len(cfg.URLs) == 0 {
			continue
		}
		urls[cfg.Name] = cfg.URLs[0]
	}
	return urls, nil
}
