package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/masmgr/git-assist/config"
	"github.com/masmgr/git-assist/internal/host"
)

// credentials authenticate provider API requests. The zero value is
// anonymous access.
type credentials struct {
	Token string
	OAuth bool
	App   *host.GitHubApp
}

func (c credentials) anonymous() bool {
	return c.Token == "" && c.App == nil
}

// tokenEnvVars returns the environment variables tried for kind, most
// specific first.
func tokenEnvVars(kind host.Kind, h config.HostConfig) []string {
	var vars []string
	if h.TokenEnv != "" {
		vars = append(vars, h.TokenEnv)
	}
	switch kind {
	case host.KindGitHub:
		vars = append(vars, "GITHUB_TOKEN", "GH_TOKEN")
	case host.KindGitLab:
		vars = append(vars, "GITLAB_TOKEN")
	}
	return vars
}

// resolveToken picks the API token: the flag, then the environment.
func resolveToken(flag string, kind host.Kind, h config.HostConfig, lookupEnv func(string) (string, bool)) string {
	if t := strings.TrimSpace(flag); t != "" {
		return t
	}
	for _, name := range tokenEnvVars(kind, h) {
		if v, ok := lookupEnv(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// resolveCredentials picks GitHub App credentials when an app id or key is
// given, and a token otherwise.
func resolveCredentials(opts skipOptions, kind host.Kind, h config.HostConfig, lookupEnv func(string) (string, bool)) (credentials, error) {
	if opts.AppID != 0 || opts.AppKeyFile != "" {
		if kind != host.KindGitHub {
			return credentials{}, fmt.Errorf("GitHub App authentication is not available for %s", kind)
		}
		if opts.AppID <= 0 || opts.AppKeyFile == "" {
			return credentials{}, errors.New("GitHub App authentication needs both --github-app-id and --github-app-key")
		}
		app, err := loadGitHubApp(opts.AppID, opts.AppKeyFile)
		if err != nil {
			return credentials{}, err
		}
		return credentials{App: app}, nil
	}

	return credentials{
		Token: resolveToken(opts.Token, kind, h, lookupEnv),
		OAuth: opts.OAuth,
	}, nil
}

func loadGitHubApp(appID int64, keyFile string) (*host.GitHubApp, error) {
	path, err := expandDirectory(strings.TrimSpace(keyFile))
	if err != nil {
		return nil, err
	}
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read GitHub App private key: %w", err)
	}
	return &host.GitHubApp{AppID: appID, PrivateKey: key}, nil
}

func parseAppID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid GitHub App id %q", s)
	}
	return id, nil
}
