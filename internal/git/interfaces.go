package git

import "context"

// CommitResolver resolves a revision specifier (ref, abbreviated or full hash,
// `HEAD~2`, ...) to a commit in the local repository.
type CommitResolver interface {
	ResolveCommit(ctx context.Context, spec string) (CommitID, error)
}

// RangeResolver computes the first-parent range between a good and a bad revision.
// This abstraction allows for easier testing and the git CLI backend.
type RangeResolver interface {
	CommitResolver

	// ResolveRange returns the commits reachable from bad along first parents,
	// excluding good and all of its ancestors. bad itself is included.
	ResolveRange(ctx context.Context, good, bad string) (CommitRange, error)
}

// BatchResolver resolves many revisions at once. Revisions that do not name a
// commit are absent from the result; that is not an error.
type BatchResolver interface {
	ResolveCommits(ctx context.Context, specs []string) (map[string]CommitID, error)
}

// Compile-time interface conformance checks.
var (
	_ BatchResolver = (*CLIResolver)(nil)
	_ RangeResolver = (*Resolver)(nil)
	_ RangeResolver = (*CLIResolver)(nil)
	_ RangeResolver = (*MockResolver)(nil)
)

// NewRangeResolver opens the repository with the backend named in opts.
func NewRangeResolver(opts ResolveOptions) (RangeResolver, error) {
	switch opts.Backend {
	case BackendGitCLI:
		return NewCLIResolver(opts)
	case BackendGoGit, "":
		return NewResolver(opts)
	default:
		return nil, &UnknownBackendError{Backend: string(opts.Backend)}
	}
}
