package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/git-assist/internal/bisect"
)

// BisectCmd groups the git bisect helpers.
func BisectCmd() *cli.Command {
	return &cli.Command{
		Name:  "bisect",
		Usage: "Helpers for git bisect sessions",
		Subcommands: []*cli.Command{
			SkipPullRequestsCmd(),
		},
	}
}

// SkipPullRequestsCmd creates the skip-pull-requests command.
func SkipPullRequestsCmd() *cli.Command {
	return &cli.Command{
		Name:  "skip-pull-requests",
		Usage: "Skip the commits of every merged pull request inside the bisect range",
		Description: "Fetches the merged pull requests of the remote repository and runs " +
			"`git bisect skip <base>..<merge>^` for each one whose base or merge commit " +
			"lies between the good and the bad revision, so bisect only stops on mainline commits.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "remote-url",
				Usage: "URL of the repository on GitHub or GitLab (default: pick from the remotes)",
			},
			&cli.StringFlag{
				Name:    "directory",
				Aliases: []string{"C"},
				Usage:   "Path to the local repository (default: current directory)",
			},
			&cli.StringFlag{
				Name:  "good",
				Usage: "Known good revision",
			},
			&cli.StringFlag{
				Name:  "bad",
				Usage: "Known bad revision",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the skip commands instead of running them",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Dry-run output format (console, json, markdown)",
				Value:   "console",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Dry-run output file path (default: stdout)",
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "API token (default: GITHUB_TOKEN or GITLAB_TOKEN)",
				EnvVars: []string{"GIT_ASSIST_TOKEN"},
			},
			&cli.BoolFlag{
				Name:  "oauth",
				Usage: "The token is an OAuth or user access token",
			},
			&cli.Int64Flag{
				Name:    "github-app-id",
				Usage:   "Authenticate as the installation of this GitHub App",
				EnvVars: []string{"GITHUB_APP_ID"},
			},
			&cli.StringFlag{
				Name:    "github-app-key",
				Usage:   "PEM private key file of the GitHub App",
				EnvVars: []string{"GITHUB_APP_PRIVATE_KEY_PATH"},
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Git backend used to read the local repository (go-git, git)",
			},
			&cli.StringFlag{
				Name:  "tool",
				Usage: "Git executable used for `bisect skip` (default: git)",
			},
			&cli.BoolFlag{
				Name:  "no-input",
				Usage: "Fail instead of prompting for missing values",
			},
		},
		Action: func(c *cli.Context) error {
			log := newLogger(c.Count("verbose"), c.App.ErrWriter)

			run, err := NewSkipRun(c, log, promptuiPrompter{})
			if err != nil {
				return err
			}
			defer run.Close()

			code, err := bisect.SkipPullRequests(c.Context, run.Config, run.Deps)
			if err != nil {
				return err
			}
			if code != 0 {
				return cli.Exit("", code)
			}
			return nil
		},
	}
}
