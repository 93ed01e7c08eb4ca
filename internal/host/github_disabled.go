//go:build nogithub

package host

func newGitHubSource(Options) (PullRequestSource, error) {
	return nil, &UnavailableProviderError{Provider: KindGitHub, BuildTag: "nogithub"}
}
