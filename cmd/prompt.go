package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/sirupsen/logrus"

	"github.com/masmgr/git-assist/internal/git"
	"github.com/masmgr/git-assist/internal/host"
)

const customURLChoice = "Custom url ..."

// Prompter asks the user for missing values.
type Prompter interface {
	Select(label string, items []string) (int, error)
	Input(label string) (string, error)
	Secret(label string) (string, error)
}

type promptuiPrompter struct{}

func (promptuiPrompter) Select(label string, items []string) (int, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
	}
	i, _, err := prompt.Run()
	return i, err
}

func (promptuiPrompter) Input(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: notBlank,
	}
	return prompt.Run()
}

func (promptuiPrompter) Secret(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}
	return prompt.Run()
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value must not be empty")
	}
	return nil
}

// selectRemoteURL offers the remotes of the repository plus a free-form
// entry. A remote whose name cannot be read is skipped with a warning.
func selectRemoteURL(prompter Prompter, dir string, log logrus.FieldLogger) (string, error) {
	if prompter == nil {
		return "", errors.New("missing --remote-url")
	}

	remotes, err := git.RemoteURLs(dir)
	if err != nil {
		log.Warnf("Failed to list remotes: %v", err)
	}

	names := make([]string, 0, len(remotes))
	for name := range remotes {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]string, 0, len(names)+1)
	for _, name := range names {
		items = append(items, fmt.Sprintf("%s (%s)", remotes[name], name))
	}
	items = append(items, customURLChoice)

	i, err := prompter.Select("Remote url", items)
	if err != nil {
		return "", err
	}
	if i >= 0 && i < len(names) {
		return remotes[names[i]], nil
	}
	return prompter.Input("Remote url")
}

// authMethod is an authentication choice offered by promptCredentials.
type authMethod int

const (
	authNone authMethod = iota
	authPersonalToken
	authGitHubApp
	authOAuthToken
	authUserToken
)

// authMethods lists the methods a provider accepts. Password (basic)
// authentication is not offered; neither provider accepts it for the API.
func authMethods(kind host.Kind) []authMethod {
	if kind == host.KindGitHub {
		return []authMethod{authNone, authPersonalToken, authGitHubApp, authOAuthToken, authUserToken}
	}
	return []authMethod{authNone, authPersonalToken, authOAuthToken}
}

func (m authMethod) label(kind host.Kind) string {
	name := providerTitle(kind)
	switch m {
	case authPersonalToken:
		return fmt.Sprintf("Authenticate using a %s personal access token", name)
	case authGitHubApp:
		return "Authenticate as a GitHub App installation"
	case authOAuthToken:
		return fmt.Sprintf("Authenticate using a %s OAuth access token", name)
	case authUserToken:
		return "Authenticate using a GitHub App user access token"
	default:
		return "No authentication"
	}
}

func promptCredentials(prompter Prompter, kind host.Kind) (credentials, error) {
	methods := authMethods(kind)
	items := make([]string, len(methods))
	for i, m := range methods {
		items[i] = m.label(kind)
	}

	i, err := prompter.Select("Authenticate?", items)
	if err != nil {
		return credentials{}, err
	}
	if i < 0 || i >= len(methods) {
		return credentials{}, nil
	}

	switch methods[i] {
	case authPersonalToken:
		token, err := prompter.Secret("Personal token")
		return credentials{Token: strings.TrimSpace(token)}, err
	case authOAuthToken:
		token, err := prompter.Secret("OAuth token")
		return credentials{Token: strings.TrimSpace(token), OAuth: true}, err
	case authUserToken:
		token, err := prompter.Secret("User access token")
		return credentials{Token: strings.TrimSpace(token), OAuth: true}, err
	case authGitHubApp:
		rawID, err := prompter.Input("GitHub App id")
		if err != nil {
			return credentials{}, err
		}
		id, err := parseAppID(rawID)
		if err != nil {
			return credentials{}, err
		}
		keyFile, err := prompter.Input("Private key file")
		if err != nil {
			return credentials{}, err
		}
		app, err := loadGitHubApp(id, keyFile)
		if err != nil {
			return credentials{}, err
		}
		return credentials{App: app}, nil
	default:
		return credentials{}, nil
	}
}

func providerTitle(kind host.Kind) string {
	switch kind {
	case host.KindGitHub:
		return "GitHub"
	case host.KindGitLab:
		return "GitLab"
	default:
		return kind.String()
	}
}
