// Package bisect narrows a git bisect session by skipping every commit that
// only exists inside a merged pull request.
package bisect

import "github.com/masmgr/git-assist/internal/host"

// DefaultTool is the executable invoked for `bisect skip`.
const DefaultTool = "git"

// Config holds the inputs of one skip-pull-requests run.
type Config struct {
	RepositoryURL    host.RepositoryURL
	WorkingDirectory string
	Good             string
	Bad              string
	DryRun           bool
	// Tool is the git executable. Empty means DefaultTool.
	Tool string
}

func (c Config) tool() string {
	if c.Tool == "" {
		return DefaultTool
	}
	return c.Tool
}
