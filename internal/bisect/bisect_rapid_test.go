package bisect

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"pgregory.net/rapid"

	"github.com/masmgr/git-assist/internal/git"
	"github.com/masmgr/git-assist/internal/host"
)

func TestFilter_Property(t *testing.T) {
	logger, _ := test.NewNullLogger()

	rapid.Check(t, func(t *rapid.T) {
		universe := rapid.IntRange(1, 30).Draw(t, "universe")
		known := make([]git.CommitID, universe)
		for i := range known {
			known[i] = git.CommitID(fmt.Sprintf("%040x", i+1))
		}

		var inRange []git.CommitID
		for i, id := range known {
			if rapid.Bool().Draw(t, fmt.Sprintf("in%d", i)) {
				inRange = append(inRange, id)
			}
		}
		rng := git.NewCommitRange(inRange...)

		resolver := git.NewMockResolver(rng, nil)
		for _, id := range known {
			resolver.Commits[id.String()] = id
		}

		// Drawing universe yields a commit the resolver does not know.
		pick := rapid.IntRange(0, universe)
		drawSHA := func(label string) string {
			n := pick.Draw(t, label)
			if n == universe {
				return fmt.Sprintf("%040x", 0xdead)
			}
			return known[n].String()
		}

		n := rapid.IntRange(0, 20).Draw(t, "prs")
		prs := make([]host.PullRequest, n)
		for i := range prs {
			prs[i] = host.PullRequest{ID: fmt.Sprint(i), BaseSHA: drawSHA(fmt.Sprintf("base%d", i)), MergeSHA: drawSHA(fmt.Sprintf("merge%d", i))}
		}
		before := append([]host.PullRequest(nil), prs...)

		got := Filter(context.Background(), resolver, prs, rng, logger)

		isKnown := func(s string) bool {
			_, ok := resolver.Commits[s]
			return ok
		}
		var want []host.PullRequest
		for _, p := range prs {
			if !isKnown(p.BaseSHA) || !isKnown(p.MergeSHA) {
				continue
			}
			if rng.Contains(git.CommitID(p.BaseSHA)) || rng.Contains(git.CommitID(p.MergeSHA)) {
				want = append(want, p)
			}
		}
		if len(got) != len(want) {
			t.Fatalf("kept %d pull requests, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("got[%d] = %+v, want %+v", i, got[i], want[i])
			}
		}
		for i := range prs {
			if prs[i] != before[i] {
				t.Fatalf("input modified at %d", i)
			}
		}
	})
}

func TestPlan_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 50).Draw(t, "n")
		prs := make([]host.PullRequest, n)
		for i := range prs {
			prs[i] = host.PullRequest{
				ID:       fmt.Sprint(i),
				BaseSHA:  rapid.StringMatching(`[0-9a-f]{40}`).Draw(t, "base"),
				MergeSHA: rapid.StringMatching(`[0-9a-f]{40}`).Draw(t, "merge"),
			}
		}

		got := Plan(prs)
		if len(got) != len(prs) {
			t.Fatalf("len(Plan) = %d, want %d", len(got), len(prs))
		}
		for i, inst := range got {
			if inst.PullRequest.ID != prs[i].ID {
				t.Fatalf("order changed at %d", i)
			}
			want := prs[i].BaseSHA + ".." + prs[i].MergeSHA + "^"
			if inst.Arg() != want {
				t.Fatalf("Arg() = %q, want %q", inst.Arg(), want)
			}
		}
	})
}
