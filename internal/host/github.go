//go:build !nogithub

package host

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v82/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// GitHubSource lists merged pull requests through the GitHub REST API.
type GitHubSource struct {
	client     *gh.Client
	httpClient *http.Client
	baseURL    *url.URL
	app        *githubAppSigner
	perPage    int
	log        logrus.FieldLogger
}

func newGitHubSource(opts Options) (PullRequestSource, error) {
	return NewGitHubSource(opts)
}

// NewGitHubSource creates a GitHub client. A token is sent as an OAuth2
// bearer token through an oauth2.StaticTokenSource transport. With
// opts.App the client authenticates as the app installation of the
// repository when fetching.
func NewGitHubSource(opts Options) (*GitHubSource, error) {
	s := &GitHubSource{
		httpClient: opts.HTTPClient,
		perPage:    opts.perPage(),
		log:        opts.log(),
	}

	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parsing GitHub API base URL: %w", err)
		}
		s.baseURL = u
	}

	if opts.App != nil {
		app, err := newGitHubAppSigner(*opts.App)
		if err != nil {
			return nil, err
		}
		s.app = app
	}

	s.client = s.newClient(opts.Token)
	return s, nil
}

// BaseURL returns the API endpoint requests are sent to.
func (s *GitHubSource) BaseURL() string {
	return s.client.BaseURL.String()
}

// newClient returns a client sending token, or an anonymous one.
func (s *GitHubSource) newClient(token string) *gh.Client {
	httpClient := s.httpClient
	if token != "" {
		ctx := context.Background()
		if httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	client := gh.NewClient(httpClient)
	if s.baseURL != nil {
		client.BaseURL = s.baseURL
	}
	return client
}

// FetchMergedPullRequests lists closed pull requests oldest first and keeps
// the merged ones. A merged pull request without a base or merge commit sha
// fails the whole fetch.
func (s *GitHubSource) FetchMergedPullRequests(ctx context.Context, repo RepositoryURL) ([]PullRequest, error) {
	fail := func(err error) error {
		return &FetchError{Provider: KindGitHub, Repository: repo.FullName(), Err: err}
	}

	client := s.client
	if s.app != nil {
		var err error
		if client, err = s.installationClient(ctx, repo); err != nil {
			return nil, fail(err)
		}
	}

	opts := &gh.PullRequestListOptions{
		State:     "closed",
		Sort:      "created",
		Direction: "asc",
		ListOptions: gh.ListOptions{
			PerPage: s.perPage,
		},
	}

	var all []PullRequest
	page := 1
	for {
		prs, resp, err := client.PullRequests.List(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, fail(fmt.Errorf("listing pull requests (page %d): %w", page, err))
		}

		s.log.WithFields(logrus.Fields{
			"repo":  repo.FullName(),
			"page":  page,
			"count": len(prs),
		}).Debug("fetched pull request page")

		for _, pr := range prs {
			// Closed without merge.
			if pr.MergedAt == nil {
				continue
			}

			number := pr.GetNumber()
			baseSHA := pr.GetBase().GetSHA()
			if baseSHA == "" {
				return nil, fail(fmt.Errorf("pull request #%d has no base commit sha", number))
			}
			mergeSHA := pr.GetMergeCommitSHA()
			if mergeSHA == "" {
				return nil, fail(fmt.Errorf("could not find merge commit sha of pull request #%d", number))
			}

			all = append(all, PullRequest{
				ID:        strconv.Itoa(number),
				Title:     pr.GetTitle(),
				BaseSHA:   baseSHA,
				MergeSHA:  mergeSHA,
				CreatedAt: pr.GetCreatedAt().Time,
				MergedAt:  pr.GetMergedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		page = resp.NextPage
	}

	return normalize(all), nil
}
