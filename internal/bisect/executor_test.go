package bisect

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masmgr/git-assist/internal/host"
	"github.com/masmgr/git-assist/internal/output"
)

func instructions() []SkipInstruction {
	return Plan([]host.PullRequest{
		pr("1", sha("c2"), sha("c4")),
		pr("2", sha("c3"), sha("c5")),
		pr("3", sha("c4"), sha("c5")),
	})
}

func TestExecutor_DryRunPrintsPlan(t *testing.T) {
	var out bytes.Buffer
	runner := &recordingRunner{}
	e := &Executor{Tool: "git", DryRun: true, Runner: runner, Out: &out}

	inst := Plan([]host.PullRequest{pr("1", sha("c2"), sha("c4"))})
	inst[0].PullRequest.Title = "Add widgets"

	code, err := e.Execute(context.Background(), inst)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, runner.calls)

	want := "# Pull request #1: \"Add widgets\"\n" +
		"git bisect skip " + sha("c2") + ".." + sha("c4") + "^\n"
	assert.Equal(t, want, out.String())
}

func TestExecutor_DryRunUsesWriter(t *testing.T) {
	var out bytes.Buffer
	e := &Executor{DryRun: true, Out: &out, Writer: &output.JSONPlanWriter{}, Good: "v1", Bad: "main"}

	_, err := e.Execute(context.Background(), instructions())
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"total": 3`)
	assert.Contains(t, out.String(), `"good": "v1"`)
}

func TestExecutor_DryRunCustomTool(t *testing.T) {
	var out bytes.Buffer
	e := &Executor{Tool: "/usr/local/bin/git", DryRun: true, Out: &out}

	_, err := e.Execute(context.Background(), instructions()[:1])
	require.NoError(t, err)
	assert.Contains(t, out.String(), "/usr/local/bin/git bisect skip ")
}

func TestExecutor_LiveRunsSequentially(t *testing.T) {
	var out bytes.Buffer
	runner := &recordingRunner{}
	e := &Executor{Dir: "/work/repo", Runner: runner, Out: &out}

	code, err := e.Execute(context.Background(), instructions())
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	require.Len(t, runner.calls, 3)
	for i, inst := range instructions() {
		assert.Equal(t, "/work/repo", runner.calls[i].dir)
		assert.Equal(t, "git", runner.calls[i].name)
		assert.Equal(t, inst.Args(), runner.calls[i].args)
	}
	assert.Contains(t, out.String(), "# Pull request #1: \"PR 1\"\n")
	assert.Contains(t, out.String(), "# Pull request #3: \"PR 3\"\n")
}

func TestExecutor_LiveStopsAtFirstFailure(t *testing.T) {
	runner := &recordingRunner{codes: []int{0, 128, 0}, errs: []error{nil, errors.New("exit status 128")}}
	e := &Executor{Runner: runner, Out: &bytes.Buffer{}}

	code, err := e.Execute(context.Background(), instructions())
	assert.Equal(t, 128, code)
	assert.Len(t, runner.calls, 2)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, 128, execErr.ExitCode)
	assert.Equal(t, append([]string{"git"}, instructions()[1].Args()...), execErr.Args)
}

func TestExecutor_LiveNonzeroWithoutError(t *testing.T) {
	runner := &recordingRunner{codes: []int{2}}
	e := &Executor{Runner: runner, Out: &bytes.Buffer{}}

	code, err := e.Execute(context.Background(), instructions())
	assert.Equal(t, 2, code)
	assert.Len(t, runner.calls, 1)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, 2, execErr.ExitCode)
}

func TestExecutor_LiveSpawnFailure(t *testing.T) {
	spawnErr := errors.New("executable file not found")
	runner := &recordingRunner{codes: []int{-1}, errs: []error{spawnErr}}
	e := &Executor{Runner: runner, Out: &bytes.Buffer{}}

	_, err := e.Execute(context.Background(), instructions())

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, -1, execErr.ExitCode)
	assert.ErrorIs(t, err, spawnErr)
	assert.Contains(t, err.Error(), "failed to run")
}

func TestExecutor_LiveEmptyPlan(t *testing.T) {
	runner := &recordingRunner{}
	code, err := (&Executor{Runner: runner, Out: &bytes.Buffer{}}).Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, runner.calls)
}

func TestExecutor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &recordingRunner{}
	_, err := (&Executor{Runner: runner, Out: &bytes.Buffer{}}).Execute(ctx, instructions())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, runner.calls)
}

func TestExecRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()

	t.Run("Success", func(t *testing.T) {
		var stdout bytes.Buffer
		code, err := ExecRunner{Stdout: &stdout}.Run(context.Background(), dir, "sh", "-c", "pwd")
		require.NoError(t, err)
		assert.Equal(t, 0, code)
		assert.NotEmpty(t, stdout.String())
	})

	t.Run("ExitCode", func(t *testing.T) {
		code, err := ExecRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}.Run(context.Background(), dir, "sh", "-c", "exit 3")
		require.Error(t, err)
		assert.Equal(t, 3, code)
	})

	t.Run("NotFound", func(t *testing.T) {
		code, err := ExecRunner{}.Run(context.Background(), dir, "definitely-not-a-command-xyz")
		require.Error(t, err)
		assert.Equal(t, -1, code)
	})
}
