package host

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPerPage is the page size requested from provider APIs.
const DefaultPerPage = 100

// PullRequest is a merged pull request (GitLab: merge request) with both
// commit references present.
type PullRequest struct {
	ID        string
	Title     string // empty when the provider reports none
	BaseSHA   string
	MergeSHA  string
	CreatedAt time.Time
	MergedAt  time.Time
}

// PullRequestSource fetches every merged pull request of a repository,
// ascending by creation time. Pages are followed until exhausted. Either
// the complete list is returned, or a *FetchError.
type PullRequestSource interface {
	FetchMergedPullRequests(ctx context.Context, repo RepositoryURL) ([]PullRequest, error)
}

// Options configures a provider client.
type Options struct {
	// Token authenticates API requests. Empty means anonymous access.
	Token string
	// OAuth marks Token as an OAuth access token. GitLab sends those as
	// bearer tokens; GitHub sends every token that way.
	OAuth bool
	// App authenticates as the GitHub App installation of the repository
	// instead of with Token. GitHub only.
	App *GitHubApp
	// BaseURL overrides the API endpoint, e.g.
	// "https://ghe.example.com/api/v3/" or "https://gitlab.example.com".
	BaseURL string
	// PerPage is the requested page size. Defaults to DefaultPerPage.
	PerPage int
	// HTTPClient is the base transport. Defaults to http.DefaultClient.
	HTTPClient *http.Client
	Log        logrus.FieldLogger
}

// GitHubApp identifies a GitHub App.
type GitHubApp struct {
	AppID      int64
	PrivateKey []byte // PEM encoded RSA key
}

func (o Options) perPage() int {
	if o.PerPage <= 0 {
		return DefaultPerPage
	}
	return o.PerPage
}

func (o Options) log() logrus.FieldLogger {
	if o.Log == nil {
		return logrus.StandardLogger()
	}
	return o.Log
}

// New returns the source for kind. Providers left out of the build return
// an *UnavailableProviderError.
func New(kind Kind, opts Options) (PullRequestSource, error) {
	switch kind {
	case KindGitHub:
		return newGitHubSource(opts)
	case KindGitLab:
		return newGitLabSource(opts)
	default:
		return nil, &UnsupportedHostError{Host: kind.String()}
	}
}

// normalize orders prs by creation time and drops repeated ids, keeping the
// first occurrence. Pages can overlap when records are added while paging.
func normalize(prs []PullRequest) []PullRequest {
	seen := make(map[string]struct{}, len(prs))
	out := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		if _, ok := seen[pr.ID]; ok {
			continue
		}
		seen[pr.ID] = struct{}{}
		out = append(out, pr)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
