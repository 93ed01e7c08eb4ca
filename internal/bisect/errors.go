package bisect

import (
	"fmt"
	"strings"
)

// ExecutionError reports a `bisect skip` invocation that could not be
// started or exited nonzero. Instructions after it were not run.
type ExecutionError struct {
	Args []string
	// ExitCode is the subprocess status, or -1 when it never started.
	ExitCode int
	Err      error
}

func (e *ExecutionError) Error() string {
	cmd := strings.Join(e.Args, " ")
	if e.ExitCode < 0 {
		return fmt.Sprintf("failed to run %q: %v", cmd, e.Err)
	}
	return fmt.Sprintf("%q exited with status %d", cmd, e.ExitCode)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
