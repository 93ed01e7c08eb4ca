package host

import (
	"fmt"
	"strings"
)

// Kind identifies a supported hosting provider.
type Kind int

const (
	KindGitHub Kind = iota
	KindGitLab
)

// Well-known public hosts.
const (
	GitHubHost = "github.com"
	GitLabHost = "gitlab.com"
)

// String returns the provider name used in configuration files.
func (k Kind) String() string {
	switch k {
	case KindGitHub:
		return "github"
	case KindGitLab:
		return "gitlab"
	default:
		return "unknown"
	}
}

// ParseKind parses a provider name as written in configuration.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "github":
		return KindGitHub, nil
	case "gitlab":
		return KindGitLab, nil
	default:
		return 0, fmt.Errorf("unknown provider %q (expected github or gitlab)", s)
	}
}

// KindFor maps the host of u to a provider. overrides maps additional hosts
// (GitHub Enterprise, self-hosted GitLab) to a provider and takes
// precedence over the built-in hosts.
func KindFor(u RepositoryURL, overrides map[string]Kind) (Kind, error) {
	h := strings.ToLower(u.Host)
	if k, ok := overrides[h]; ok {
		return k, nil
	}

	switch h {
	case GitHubHost, "www." + GitHubHost:
		return KindGitHub, nil
	case GitLabHost, "www." + GitLabHost:
		return KindGitLab, nil
	default:
		return 0, &UnsupportedHostError{Host: u.Host}
	}
}

// DefaultAPIURL returns the API endpoint of a self-hosted instance at
// hostname. It is empty for the public hosts, whose clients already default
// to the public API.
func DefaultAPIURL(k Kind, hostname string) string {
	h := strings.ToLower(strings.TrimSpace(hostname))
	switch {
	case h == "":
		return ""
	case k == KindGitHub && (h == GitHubHost || h == "www."+GitHubHost):
		return ""
	case k == KindGitLab && (h == GitLabHost || h == "www."+GitLabHost):
		return ""
	case k == KindGitHub:
		return "https://" + h + "/api/v3/"
	case k == KindGitLab:
		return "https://" + h
	default:
		return ""
	}
}
