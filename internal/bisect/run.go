package bisect

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/masmgr/git-assist/internal/git"
	"github.com/masmgr/git-assist/internal/host"
	"github.com/masmgr/git-assist/internal/output"
)

// Dependencies are the collaborators of SkipPullRequests.
type Dependencies struct {
	Resolver git.RangeResolver
	Source   host.PullRequestSource

	Runner CommandRunner
	Writer output.PlanWriter
	Out    io.Writer
	Color  bool
	Log    logrus.FieldLogger
}

// SkipPullRequests resolves the good..bad range, fetches the merged pull
// requests, keeps those touching the range and skips them. It returns the
// exit code of the last `bisect skip` run.
func SkipPullRequests(ctx context.Context, cfg Config, deps Dependencies) (int, error) {
	log := deps.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	log.Infof("Resolving commit range %s..%s ...", cfg.Good, cfg.Bad)
	rng, err := deps.Resolver.ResolveRange(ctx, cfg.Good, cfg.Bad)
	if err != nil {
		return 1, err
	}
	log.WithField("commits", rng.Len()).Debug("Resolved commit range")

	log.Infof("Requesting pull requests of %s ...", cfg.RepositoryURL.FullName())
	prs, err := deps.Source.FetchMergedPullRequests(ctx, cfg.RepositoryURL)
	if err != nil {
		return 1, err
	}
	log.WithField("pullRequests", len(prs)).Debug("Fetched merged pull requests")

	log.Info("Filtering pull requests ...")
	matching := Filter(ctx, deps.Resolver, prs, rng, log)
	if err := ctx.Err(); err != nil {
		return 1, fmt.Errorf("filter pull requests: %w", err)
	}
	log.WithField("pullRequests", len(matching)).Info("Pull requests inside the range")

	exec := &Executor{
		Tool:       cfg.tool(),
		Dir:        cfg.WorkingDirectory,
		DryRun:     cfg.DryRun,
		Runner:     deps.Runner,
		Writer:     deps.Writer,
		Out:        deps.Out,
		Color:      deps.Color,
		Log:        log,
		Repository: cfg.RepositoryURL.String(),
		Good:       cfg.Good,
		Bad:        cfg.Bad,
	}
	return exec.Execute(ctx, Plan(matching))
}
