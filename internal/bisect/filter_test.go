package bisect

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/masmgr/git-assist/internal/git"
	"github.com/masmgr/git-assist/internal/host"
)

func TestFilter_KeepsPullRequestsTouchingRange(t *testing.T) {
	rng := linearRange()
	resolver := git.NewMockResolver(rng, nil)

	prs := []host.PullRequest{
		pr("1", sha("c2"), sha("c4")),
		pr("2", sha("c6"), sha("c7")),
	}

	got := Filter(context.Background(), resolver, prs, rng, nil)
	assert.Equal(t, []host.PullRequest{prs[0]}, got)
}

func TestFilter_BothCommitsMustExist(t *testing.T) {
	rng := linearRange()
	resolver := git.NewMockResolver(rng, nil)
	resolver.Commits[sha("c1")] = git.CommitID(sha("c1"))

	tests := []struct {
		name string
		pr   host.PullRequest
		want bool
	}{
		{name: "BaseInRange", pr: pr("1", sha("c3"), sha("c1")), want: true},
		{name: "MergeInRange", pr: pr("2", sha("c1"), sha("c5")), want: true},
		{name: "GoodIsOutside", pr: pr("3", sha("c1"), sha("c1")), want: false},
		{name: "UnknownMerge", pr: pr("4", sha("c3"), sha("ff")), want: false},
		{name: "UnknownBase", pr: pr("5", sha("ee"), sha("c4")), want: false},
		{name: "NeitherResolves", pr: pr("6", sha("aa"), sha("bb")), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(context.Background(), resolver, []host.PullRequest{tt.pr}, rng, nil)
			assert.Equal(t, tt.want, len(got) == 1)
		})
	}
}

func TestFilter_PreservesOrderAndInput(t *testing.T) {
	rng := linearRange()
	resolver := git.NewMockResolver(rng, nil)

	prs := []host.PullRequest{
		pr("9", sha("c5"), sha("c5")),
		pr("3", sha("aa"), sha("bb")),
		pr("1", sha("c2"), sha("c3")),
	}
	before := append([]host.PullRequest(nil), prs...)

	got := Filter(context.Background(), resolver, prs, rng, nil)

	assert.Equal(t, []host.PullRequest{prs[0], prs[2]}, got)
	assert.Equal(t, before, prs)
}

func TestFilter_EmptyRange(t *testing.T) {
	rng := git.NewCommitRange()
	resolver := git.NewMockResolver(linearRange(), nil)

	got := Filter(context.Background(), resolver, []host.PullRequest{pr("1", sha("c2"), sha("c4"))}, rng, nil)
	assert.Empty(t, got)
}

func TestFilter_LogsUnknownCommits(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	rng := linearRange()
	Filter(context.Background(), git.NewMockResolver(rng, nil),
		[]host.PullRequest{pr("2", sha("c6"), sha("c7"))}, rng, logger)

	entries := hook.AllEntries()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, logrus.DebugLevel, entries[0].Level)
		assert.Equal(t, "2", entries[0].Data["pr"])
		assert.Equal(t, sha("c6"), entries[0].Data["sha"])
	}
}

type batchResolver struct {
	*git.MockResolver
	batchCalls  int
	singleCalls int
	batchErr    error
}

func (b *batchResolver) ResolveCommits(_ context.Context, specs []string) (map[string]git.CommitID, error) {
	b.batchCalls++
	if b.batchErr != nil {
		return nil, b.batchErr
	}
	out := make(map[string]git.CommitID)
	for _, s := range specs {
		if id, ok := b.Commits[s]; ok {
			out[s] = id
		}
	}
	return out, nil
}

func (b *batchResolver) ResolveCommit(ctx context.Context, spec string) (git.CommitID, error) {
	b.singleCalls++
	return b.MockResolver.ResolveCommit(ctx, spec)
}

func TestFilter_UsesBatchResolver(t *testing.T) {
	rng := linearRange()
	resolver := &batchResolver{MockResolver: git.NewMockResolver(rng, nil)}

	prs := []host.PullRequest{
		pr("1", sha("c2"), sha("c4")),
		pr("2", sha("c3"), sha("ff")),
		pr("3", sha("c5"), sha("c5")),
	}
	got := Filter(context.Background(), resolver, prs, rng, nil)

	assert.Equal(t, 1, resolver.batchCalls)
	assert.Equal(t, 0, resolver.singleCalls)
	assert.Equal(t, []host.PullRequest{prs[0], prs[2]}, got)
}

func TestFilter_BatchFailureFallsBack(t *testing.T) {
	rng := linearRange()
	resolver := &batchResolver{MockResolver: git.NewMockResolver(rng, nil), batchErr: errors.New("cat-file died")}

	prs := []host.PullRequest{pr("1", sha("c2"), sha("c4"))}
	got := Filter(context.Background(), resolver, prs, rng, nil)

	assert.Equal(t, prs, got)
	assert.Equal(t, 2, resolver.singleCalls)
}
