package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/git-assist/config"
	"github.com/masmgr/git-assist/internal/bisect"
	"github.com/masmgr/git-assist/internal/git"
	"github.com/masmgr/git-assist/internal/host"
	"github.com/masmgr/git-assist/internal/output"
)

// SkipRun holds everything a skip-pull-requests invocation needs.
type SkipRun struct {
	Config bisect.Config
	Deps   bisect.Dependencies

	outFile *os.File
}

// Close releases the output file, if any.
func (r *SkipRun) Close() error {
	if r.outFile == nil {
		return nil
	}
	return r.outFile.Close()
}

// skipOptions are the raw skip-pull-requests inputs after flag parsing.
type skipOptions struct {
	RemoteURL  string
	Directory  string
	Good       string
	Bad        string
	DryRun     bool
	Format     string
	Output     string
	Token      string
	OAuth      bool
	AppID      int64
	AppKeyFile string
	NoInput    bool
}

func skipOptionsFromFlags(c *cli.Context) skipOptions {
	return skipOptions{
		RemoteURL:  c.String("remote-url"),
		Directory:  c.String("directory"),
		Good:       c.String("good"),
		Bad:        c.String("bad"),
		DryRun:     c.Bool("dry-run"),
		Format:     c.String("format"),
		Output:     c.String("output"),
		Token:      c.String("token"),
		OAuth:      c.Bool("oauth"),
		AppID:      c.Int64("github-app-id"),
		AppKeyFile: c.String("github-app-key"),
		NoInput:    c.Bool("no-input"),
	}
}

// NewSkipRun creates a run from CLI flags, prompting for what is missing.
// It loads configuration, opens the repository and selects the provider.
func NewSkipRun(c *cli.Context, log logrus.FieldLogger, prompter Prompter) (*SkipRun, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return newSkipRun(cfg, skipOptionsFromFlags(c), log, prompter, os.LookupEnv)
}

func newSkipRun(cfg *config.Config, opts skipOptions, log logrus.FieldLogger, prompter Prompter, lookupEnv func(string) (string, bool)) (*SkipRun, error) {
	if opts.NoInput {
		prompter = nil
	}

	format, err := output.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	dir, err := expandDirectory(opts.Directory)
	if err != nil {
		return nil, err
	}

	log.Infof("Opening git repository %s ...", dir)
	resolver, err := git.NewRangeResolver(git.ResolveOptions{
		RepoPath: dir,
		Backend:  git.Backend(cfg.Bisect.Backend),
		GitPath:  cfg.Bisect.Tool,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	rawURL := strings.TrimSpace(opts.RemoteURL)
	if rawURL == "" {
		if rawURL, err = selectRemoteURL(prompter, dir, log); err != nil {
			return nil, err
		}
	}
	repoURL, err := host.ParseRepositoryURL(rawURL)
	if err != nil {
		return nil, err
	}

	overrides, err := cfg.Overrides()
	if err != nil {
		return nil, err
	}
	kind, err := host.KindFor(repoURL, overrides)
	if err != nil {
		return nil, err
	}

	good, err := valueOrPrompt(prompter, opts.Good, "Known good commit", "--good")
	if err != nil {
		return nil, err
	}
	bad, err := valueOrPrompt(prompter, opts.Bad, "Known bad commit", "--bad")
	if err != nil {
		return nil, err
	}

	hostCfg, _ := cfg.Host(repoURL.Host)
	creds, err := resolveCredentials(opts, kind, hostCfg, lookupEnv)
	if err != nil {
		return nil, err
	}
	if creds.anonymous() && prompter != nil {
		if creds, err = promptCredentials(prompter, kind); err != nil {
			return nil, err
		}
	}
	if creds.anonymous() {
		log.Warnf("No %s token configured, requests are anonymous and rate limited", kind)
	}

	source, err := host.New(kind, host.Options{
		Token:   creds.Token,
		OAuth:   creds.OAuth,
		App:     creds.App,
		BaseURL: apiURL(kind, repoURL.Host, hostCfg),
		PerPage: cfg.Fetch.PerPage,
		Log:     log,
	})
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stdout
	run := &SkipRun{}
	if opts.DryRun && opts.Output != "" {
		w, f, err := output.OpenOutputWriter(opts.Output)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		out, run.outFile = w, f
	}

	run.Config = bisect.Config{
		RepositoryURL:    repoURL,
		WorkingDirectory: dir,
		Good:             good,
		Bad:              bad,
		DryRun:           opts.DryRun,
		Tool:             cfg.Bisect.Tool,
	}
	useColor := !color.NoColor && run.outFile == nil
	run.Deps = bisect.Dependencies{
		Resolver: resolver,
		Source:   source,
		Writer:   output.NewPlanWriter(format, useColor),
		Out:      out,
		Color:    useColor,
		Log:      log,
	}
	return run, nil
}

// apiURL is the configured API endpoint of a host, or the conventional one
// for a self-hosted instance when none is configured.
func apiURL(kind host.Kind, hostname string, hostCfg config.HostConfig) string {
	if u := strings.TrimSpace(hostCfg.APIURL); u != "" {
		return u
	}
	return host.DefaultAPIURL(kind, hostname)
}

// expandDirectory resolves the --directory flag. Empty means the current
// directory. A leading ~ is the home directory.
func expandDirectory(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") || strings.HasPrefix(dir, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand %s: %w", dir, err)
		}
		dir = filepath.Join(home, dir[1:])
	}
	return filepath.Clean(dir), nil
}

func valueOrPrompt(prompter Prompter, value, label, flag string) (string, error) {
	value = strings.TrimSpace(value)
	if value != "" {
		return value, nil
	}
	if prompter == nil {
		return "", fmt.Errorf("missing %s", flag)
	}
	v, err := prompter.Input(label)
	if err != nil {
		return "", err
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", errors.New(flag + " must not be empty")
	}
	return v, nil
}
