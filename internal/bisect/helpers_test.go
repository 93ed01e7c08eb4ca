package bisect

import (
	"context"
	"strings"
	"time"

	"github.com/masmgr/git-assist/internal/git"
	"github.com/masmgr/git-assist/internal/host"
)

// sha returns a 40 character id made of the repeated label.
func sha(label string) string {
	return strings.Repeat(label, 40/len(label))[:40]
}

func pr(id, base, merge string) host.PullRequest {
	return host.PullRequest{
		ID:        id,
		Title:     "PR " + id,
		BaseSHA:   base,
		MergeSHA:  merge,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// linearRange is the range good=c1 bad=c5 of the history c1-c2-c3-c4-c5.
func linearRange() git.CommitRange {
	return git.NewCommitRange(
		git.CommitID(sha("c5")), git.CommitID(sha("c4")),
		git.CommitID(sha("c3")), git.CommitID(sha("c2")),
	)
}

type call struct {
	dir  string
	name string
	args []string
}

type recordingRunner struct {
	calls []call
	codes []int
	errs  []error
}

func (r *recordingRunner) Run(_ context.Context, dir, name string, args ...string) (int, error) {
	i := len(r.calls)
	r.calls = append(r.calls, call{dir: dir, name: name, args: args})
	var code int
	var err error
	if i < len(r.codes) {
		code = r.codes[i]
	}
	if i < len(r.errs) {
		err = r.errs[i]
	}
	return code, err
}
