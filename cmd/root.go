package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/git-assist/config"
	"github.com/masmgr/git-assist/internal/bisect"
)

// App creates the CLI application.
func App() *cli.App {
	verbosity := 0
	return &cli.App{
		Name:                   "git-assist",
		Usage:                  "Helpers for everyday git workflows",
		Version:                "0.1.0",
		UseShortOptionHandling: true,
		Commands: []*cli.Command{
			BisectCmd(),
			ConfigCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Increase log verbosity (-v info, -vv debug, -vvv trace)",
				Count:   &verbosity,
			},
		},
	}
}

// loadConfig loads configuration from file or defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Apply overrides from CLI
	if backend := c.String("backend"); backend != "" {
		cfg.Bisect.Backend = backend
	}
	if tool := c.String("tool"); tool != "" {
		cfg.Bisect.Tool = tool
	}

	return cfg, nil
}

// exitCode maps an error returned by a command to the process status. A
// failed `bisect skip` keeps the status of the subprocess.
func exitCode(err error) int {
	var execErr *bisect.ExecutionError
	if errors.As(err, &execErr) && execErr.ExitCode > 0 {
		return execErr.ExitCode
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) && coder.ExitCode() != 0 {
		return coder.ExitCode()
	}
	return 1
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "Error: %v\n", msg)
		}
		os.Exit(exitCode(err))
	}
}
