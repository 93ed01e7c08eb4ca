// Package host fetches merged pull requests from code hosting providers.
//
// Providers form a closed set (see Kind). A repository URL is mapped to
// exactly one provider by KindFor before anything is fetched.
package host

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// RepositoryURL is a remote URL together with its parsed parts.
type RepositoryURL struct {
	Raw   string
	Host  string // lower-cased, without port
	Owner string // may contain "/" for nested GitLab groups
	Name  string
}

// FullName returns "owner/name".
func (u RepositoryURL) FullName() string {
	return u.Owner + "/" + u.Name
}

func (u RepositoryURL) String() string {
	return u.Raw
}

// ParseRepositoryURL accepts https, http, ssh and git URLs as well as the
// scp-like "git@host:owner/repo.git" form.
func ParseRepositoryURL(raw string) (RepositoryURL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return RepositoryURL{}, fmt.Errorf("parse repository url: empty url")
	}

	ep, err := transport.NewEndpoint(trimmed)
	if err != nil {
		return RepositoryURL{}, fmt.Errorf("parse repository url %q: %w", raw, err)
	}
	if ep.Protocol == "file" || ep.Host == "" {
		return RepositoryURL{}, fmt.Errorf("parse repository url %q: no host found", raw)
	}

	path := strings.Trim(ep.Path, "/")
	path = strings.TrimSuffix(path, ".git")
	path = strings.TrimSuffix(path, "/")

	idx := strings.LastIndex(path, "/")
	if idx <= 0 || idx == len(path)-1 {
		return RepositoryURL{}, fmt.Errorf("parse repository url %q: expected <owner>/<repository> path, got %q", raw, ep.Path)
	}

	return RepositoryURL{
		Raw:   trimmed,
		Host:  strings.ToLower(ep.Host),
		Owner: path[:idx],
		Name:  path[idx+1:],
	}, nil
}
