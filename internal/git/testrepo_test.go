package git

import (
	"context"
	"fmt"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// testRepo writes commit objects straight into a repository's storage so
// that tests control parent order exactly.
type testRepo struct {
	t     fataler
	dir   string
	repo  *gogit.Repository
	tree  plumbing.Hash
	clock time.Time
	n     int
}

// fataler is satisfied by *testing.T and *rapid.T.
type fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

// newTestRepo creates an on-disk repository in a temporary directory.
func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	return initTestRepo(t, dir, repo)
}

// newMemoryRepo creates an in-memory repository, used by property tests.
func newMemoryRepo(t fataler) *testRepo {
	repo, err := gogit.Init(memory.NewStorage(), nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return initTestRepo(t, "", repo)
}

func initTestRepo(t fataler, dir string, repo *gogit.Repository) *testRepo {
	r := &testRepo{
		t:     t,
		dir:   dir,
		repo:  repo,
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	obj := repo.Storer.NewEncodedObject()
	if err := (&object.Tree{}).Encode(obj); err != nil {
		t.Fatalf("encode tree: %v", err)
	}
	tree, err := repo.Storer.SetEncodedObject(obj)
	if err != nil {
		t.Fatalf("store tree: %v", err)
	}
	r.tree = tree
	return r
}

// commit stores a commit with the given parents (first parent first) and
// returns its hash.
func (r *testRepo) commit(msg string, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()

	r.n++
	r.clock = r.clock.Add(time.Minute)
	sig := object.Signature{Name: "Test", Email: "test@example.com", When: r.clock}

	c := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      fmt.Sprintf("%s (%d)\n", msg, r.n),
		TreeHash:     r.tree,
		ParentHashes: parents,
	}

	obj := r.repo.Storer.NewEncodedObject()
	if err := c.Encode(obj); err != nil {
		r.t.Fatalf("encode commit: %v", err)
	}
	h, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		r.t.Fatalf("store commit: %v", err)
	}
	return h
}

// branch points refs/heads/<name> at h and HEAD at that branch.
func (r *testRepo) branch(name string, h plumbing.Hash) {
	r.t.Helper()

	ref := plumbing.NewBranchReferenceName(name)
	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(ref, h)); err != nil {
		r.t.Fatalf("SetReference(%s): %v", ref, err)
	}
	if err := r.repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, ref)); err != nil {
		r.t.Fatalf("SetReference(HEAD): %v", err)
	}
}

// chain commits n commits in a line after parent (or a root commit when
// parent is zero) and returns them in creation order.
func (r *testRepo) chain(n int, parent plumbing.Hash) []plumbing.Hash {
	r.t.Helper()

	hashes := make([]plumbing.Hash, 0, n)
	for i := 0; i < n; i++ {
		var h plumbing.Hash
		if parent.IsZero() {
			h = r.commit(fmt.Sprintf("c%d", i+1))
		} else {
			h = r.commit(fmt.Sprintf("c%d", i+1), parent)
		}
		hashes = append(hashes, h)
		parent = h
	}
	return hashes
}

func (r *testRepo) resolver() *Resolver {
	return &Resolver{repo: r.repo, opts: ResolveOptions{RepoPath: r.dir}}
}

func ids(hashes ...plumbing.Hash) []CommitID {
	out := make([]CommitID, len(hashes))
	for i, h := range hashes {
		out[i] = CommitID(h.String())
	}
	return out
}

func mustRange(t fataler, r RangeResolver, good, bad plumbing.Hash) CommitRange {
	t.Helper()
	rng, err := r.ResolveRange(context.Background(), good.String(), bad.String())
	if err != nil {
		t.Fatalf("ResolveRange(%s, %s): %v", good, bad, err)
	}
	return rng
}
