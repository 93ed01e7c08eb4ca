package bisect

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"

	"github.com/masmgr/git-assist/internal/output"
)

// CommandRunner runs one subprocess to completion and reports its exit code.
// A nil error with a nonzero code is allowed. A code of -1 means the process
// never started.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (int, error)
}

// ExecRunner runs commands through os/exec, forwarding their output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes name with args inside dir.
func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), err
	}
	return -1, err
}

// Executor prints or runs skip instructions.
type Executor struct {
	Tool   string
	Dir    string
	DryRun bool

	// Runner defaults to ExecRunner.
	Runner CommandRunner
	// Writer renders the dry-run plan. Defaults to the console writer.
	Writer output.PlanWriter
	// Out receives the plan and the live-run headers. Defaults to stdout.
	Out io.Writer
	// Color enables the colored pull request header on live runs.
	Color bool
	Log   logrus.FieldLogger

	// Plan metadata shown by the json and markdown writers.
	Repository string
	Good       string
	Bad        string
}

// Execute prints the plan on dry runs. Otherwise it runs the instructions in
// order and stops at the first one that fails. The returned code is the exit
// status of the last subprocess, zero when none ran.
func (e *Executor) Execute(ctx context.Context, instructions []SkipInstruction) (int, error) {
	tool := e.Tool
	if tool == "" {
		tool = DefaultTool
	}
	out := e.Out
	if out == nil {
		out = os.Stdout
	}

	if e.DryRun {
		return 0, e.writePlan(out, tool, instructions)
	}

	runner := e.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	log := e.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	header := &output.ConsolePlanWriter{Color: e.Color}

	code := 0
	for _, inst := range instructions {
		if err := ctx.Err(); err != nil {
			return code, err
		}
		entry := planEntry(tool, inst)
		if err := header.WriteHeader(out, entry); err != nil {
			return code, err
		}
		log.Debugf("Running %s", entry.CommandLine())

		var err error
		code, err = runner.Run(ctx, e.Dir, tool, inst.Args()...)
		if err != nil || code != 0 {
			if err == nil {
				err = errors.New("nonzero exit status")
			}
			return code, &ExecutionError{Args: entry.Command, ExitCode: code, Err: err}
		}
	}
	return code, nil
}

func (e *Executor) writePlan(out io.Writer, tool string, instructions []SkipInstruction) error {
	plan := &output.Plan{
		Repository: e.Repository,
		Good:       e.Good,
		Bad:        e.Bad,
		Entries:    make([]output.PlanEntry, len(instructions)),
	}
	for i, inst := range instructions {
		plan.Entries[i] = planEntry(tool, inst)
	}

	w := e.Writer
	if w == nil {
		w = &output.ConsolePlanWriter{}
	}
	return w.Write(out, plan)
}
