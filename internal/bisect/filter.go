package bisect

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/masmgr/git-assist/internal/git"
	"github.com/masmgr/git-assist/internal/host"
)

// Filter returns the pull requests whose base or merge commit lies inside
// rng, in their original order. Both commits must exist in the local
// repository; a pull request with an unknown base or merge sha is dropped,
// since `bisect skip` would fail on it. prs is not modified.
//
// Resolvers implementing git.BatchResolver resolve all shas in one call.
func Filter(ctx context.Context, resolver git.CommitResolver, prs []host.PullRequest, rng git.CommitRange, log logrus.FieldLogger) []host.PullRequest {
	if log == nil {
		log = logrus.StandardLogger()
	}
	lookup := newCommitLookup(ctx, resolver, prs, log)

	kept := make([]host.PullRequest, 0, len(prs))
	for _, pr := range prs {
		base, ok := lookup.resolve(ctx, pr.ID, pr.BaseSHA)
		if !ok {
			continue
		}
		merge, ok := lookup.resolve(ctx, pr.ID, pr.MergeSHA)
		if !ok {
			continue
		}
		if rng.Contains(base) || rng.Contains(merge) {
			kept = append(kept, pr)
		}
	}
	return kept
}

// commitLookup answers sha lookups from a batch result when one is
// available and from the resolver otherwise.
type commitLookup struct {
	resolver git.CommitResolver
	batch    map[string]git.CommitID
	log      logrus.FieldLogger
}

func newCommitLookup(ctx context.Context, resolver git.CommitResolver, prs []host.PullRequest, log logrus.FieldLogger) *commitLookup {
	l := &commitLookup{resolver: resolver, log: log}

	br, ok := resolver.(git.BatchResolver)
	if !ok || len(prs) == 0 {
		return l
	}
	shas := make([]string, 0, 2*len(prs))
	for _, pr := range prs {
		shas = append(shas, pr.BaseSHA, pr.MergeSHA)
	}
	batch, err := br.ResolveCommits(ctx, shas)
	if err != nil {
		log.Debugf("Batch lookup failed, resolving commits one by one: %v", err)
		return l
	}
	l.batch = batch
	return l
}

func (l *commitLookup) resolve(ctx context.Context, id, sha string) (git.CommitID, bool) {
	if l.batch != nil {
		if commit, ok := l.batch[sha]; ok {
			return commit, true
		}
		l.ignore(id, sha, "not found in local repository")
		return "", false
	}

	commit, err := l.resolver.ResolveCommit(ctx, sha)
	if err != nil {
		l.ignore(id, sha, err)
		return "", false
	}
	return commit, true
}

func (l *commitLookup) ignore(id, sha string, reason any) {
	l.log.WithFields(logrus.Fields{
		"pr":  id,
		"sha": sha,
	}).Debugf("Ignoring pull request with unknown commit: %v", reason)
}
