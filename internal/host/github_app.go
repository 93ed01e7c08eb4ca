//go:build !nogithub

package host

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gh "github.com/google/go-github/v82/github"
)

// githubAppSigner issues the JWTs a GitHub App authenticates with.
type githubAppSigner struct {
	appID int64
	key   *rsa.PrivateKey
	now   func() time.Time
}

func newGitHubAppSigner(app GitHubApp) (*githubAppSigner, error) {
	if app.AppID <= 0 {
		return nil, errors.New("GitHub App id must be a positive number")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(app.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("parsing GitHub App private key: %w", err)
	}
	return &githubAppSigner{appID: app.AppID, key: key, now: time.Now}, nil
}

// token returns an RS256 JWT issued by the app. GitHub accepts at most ten
// minutes between iat and exp; iat lies a minute in the past.
func (a *githubAppSigner) token() (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatInt(a.appID, 10),
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(a.key)
}

// installationClient exchanges an app JWT for an access token of the app
// installation on repo.
func (s *GitHubSource) installationClient(ctx context.Context, repo RepositoryURL) (*gh.Client, error) {
	signed, err := s.app.token()
	if err != nil {
		return nil, fmt.Errorf("signing GitHub App token: %w", err)
	}
	appClient := s.newClient(signed)

	inst, _, err := appClient.Apps.FindRepositoryInstallation(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("finding GitHub App installation: %w", err)
	}
	tok, _, err := appClient.Apps.CreateInstallationToken(ctx, inst.GetID(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating installation token: %w", err)
	}

	s.log.WithField("installation", inst.GetID()).Debug("authenticated as GitHub App installation")
	return s.newClient(tok.GetToken()), nil
}
