package host

import "context"

// MockSource is a test double for PullRequestSource.
type MockSource struct {
	PullRequests []PullRequest
	Error        error
	Calls        int
}

// FetchMergedPullRequests returns the predefined pull requests or error.
func (m *MockSource) FetchMergedPullRequests(_ context.Context, _ RepositoryURL) ([]PullRequest, error) {
	m.Calls++
	if m.Error != nil {
		return nil, m.Error
	}
	return m.PullRequests, nil
}

// Compile-time interface conformance check.
var _ PullRequestSource = (*MockSource)(nil)
