//go:build nogitlab

package host

func newGitLabSource(Options) (PullRequestSource, error) {
	return nil, &UnavailableProviderError{Provider: KindGitLab, BuildTag: "nogitlab"}
}
