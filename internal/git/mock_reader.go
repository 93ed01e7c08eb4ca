package git

import (
	"context"
	"fmt"
)

// MockResolver is a test double for Resolver.
// It allows tests to provide a predefined range and commit table without needing a real Git repository.
type MockResolver struct {
	Range   CommitRange
	Commits map[string]CommitID
	Error   error
}

// NewMockResolver creates a MockResolver. Every id in the range also
// resolves to itself.
func NewMockResolver(r CommitRange, err error) *MockResolver {
	commits := make(map[string]CommitID, r.Len())
	for _, id := range r.IDs() {
		commits[id.String()] = id
	}
	return &MockResolver{Range: r, Commits: commits, Error: err}
}

// ResolveCommit looks spec up in Commits.
func (m *MockResolver) ResolveCommit(_ context.Context, spec string) (CommitID, error) {
	if id, ok := m.Commits[spec]; ok {
		return id, nil
	}
	return "", &ResolutionError{Spec: spec, Err: fmt.Errorf("unknown commit")}
}

// ResolveRange returns the predefined range or error.
func (m *MockResolver) ResolveRange(_ context.Context, _, _ string) (CommitRange, error) {
	return m.Range, m.Error
}
