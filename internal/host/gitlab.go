//go:build !nogitlab

package host

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/xanzy/go-gitlab"
)

// GitLabSource lists merged merge requests through the GitLab REST API.
type GitLabSource struct {
	client  *gitlab.Client
	perPage int
	log     logrus.FieldLogger
}

func newGitLabSource(opts Options) (PullRequestSource, error) {
	return NewGitLabSource(opts)
}

// NewGitLabSource creates a GitLab client. baseURL is the instance URL
// (empty for gitlab.com). The client's built-in retries are disabled. A
// token is sent as PRIVATE-TOKEN, or as a bearer token when opts.OAuth.
func NewGitLabSource(opts Options) (*GitLabSource, error) {
	if opts.App != nil {
		return nil, errors.New("GitHub App authentication is not available for GitLab")
	}

	clientOpts := []gitlab.ClientOptionFunc{gitlab.WithoutRetries()}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, gitlab.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, gitlab.WithHTTPClient(opts.HTTPClient))
	}

	newClient := gitlab.NewClient
	if opts.OAuth {
		newClient = gitlab.NewOAuthClient
	}
	client, err := newClient(opts.Token, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create GitLab client: %w", err)
	}

	return &GitLabSource{
		client:  client,
		perPage: opts.perPage(),
		log:     opts.log(),
	}, nil
}

// FetchMergedPullRequests lists merged merge requests oldest first. The list
// endpoint carries no diff refs, so each merge request is read once more for
// its base sha. Squash merges report their commit as squash_commit_sha.
func (s *GitLabSource) FetchMergedPullRequests(ctx context.Context, repo RepositoryURL) ([]PullRequest, error) {
	pid := repo.FullName()
	fail := func(err error) error {
		return &FetchError{Provider: KindGitLab, Repository: pid, Err: err}
	}

	opts := &gitlab.ListProjectMergeRequestsOptions{
		ListOptions: gitlab.ListOptions{PerPage: s.perPage},
		State:       gitlab.Ptr("merged"),
		OrderBy:     gitlab.Ptr("created_at"),
		Sort:        gitlab.Ptr("asc"),
	}

	var all []PullRequest
	page := 1
	for {
		mrs, resp, err := s.client.MergeRequests.ListProjectMergeRequests(pid, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fail(fmt.Errorf("listing merge requests (page %d): %w", page, err))
		}

		s.log.WithFields(logrus.Fields{
			"repo":  pid,
			"page":  page,
			"count": len(mrs),
		}).Debug("fetched merge request page")

		for _, mr := range mrs {
			if mr.State != "merged" {
				continue
			}

			mergeSHA := mr.MergeCommitSHA
			if mergeSHA == "" {
				mergeSHA = mr.SquashCommitSHA
			}
			if mergeSHA == "" {
				return nil, fail(fmt.Errorf("could not find merge commit sha of merge request !%d", mr.IID))
			}

			full, _, err := s.client.MergeRequests.GetMergeRequest(pid, mr.IID, nil, gitlab.WithContext(ctx))
			if err != nil {
				return nil, fail(fmt.Errorf("reading merge request !%d: %w", mr.IID, err))
			}
			baseSHA := full.DiffRefs.BaseSha
			if baseSHA == "" {
				return nil, fail(fmt.Errorf("merge request !%d has no base commit sha", mr.IID))
			}

			pr := PullRequest{
				ID:       strconv.Itoa(mr.IID),
				Title:    mr.Title,
				BaseSHA:  baseSHA,
				MergeSHA: mergeSHA,
			}
			if mr.CreatedAt != nil {
				pr.CreatedAt = *mr.CreatedAt
			}
			if mr.MergedAt != nil {
				pr.MergedAt = *mr.MergedAt
			}
			all = append(all, pr)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		page = resp.NextPage
	}

	return normalize(all), nil
}
