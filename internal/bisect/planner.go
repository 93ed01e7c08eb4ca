package bisect

import (
	"github.com/masmgr/git-assist/internal/host"
	"github.com/masmgr/git-assist/internal/output"
)

// SkipInstruction marks the commits reachable from the first parent of a
// pull request's merge commit but not from its base commit.
type SkipInstruction struct {
	PullRequest host.PullRequest
	Base        string
	Merge       string
}

// Arg returns the revision range `<base>..<merge>^`.
func (s SkipInstruction) Arg() string {
	return s.Base + ".." + s.Merge + "^"
}

// Args returns the arguments passed to the git executable.
func (s SkipInstruction) Args() []string {
	return []string{"bisect", "skip", s.Arg()}
}

// Plan turns each pull request into one instruction, keeping the order.
func Plan(prs []host.PullRequest) []SkipInstruction {
	out := make([]SkipInstruction, len(prs))
	for i, pr := range prs {
		out[i] = SkipInstruction{
			PullRequest: pr,
			Base:        pr.BaseSHA,
			Merge:       pr.MergeSHA,
		}
	}
	return out
}

func planEntry(tool string, s SkipInstruction) output.PlanEntry {
	return output.PlanEntry{
		ID:       s.PullRequest.ID,
		Title:    s.PullRequest.Title,
		BaseSHA:  s.Base,
		MergeSHA: s.Merge,
		Command:  append([]string{tool}, s.Args()...),
	}
}
