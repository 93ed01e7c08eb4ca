package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// CLIResolver resolves revisions and ranges by running the git executable.
// It gives the same answers as `git bisect` itself, including for
// repositories go-git cannot read (e.g. some packed formats or extensions).
type CLIResolver struct {
	opts ResolveOptions
}

// NewCLIResolver checks that the git executable exists and that opts.RepoPath
// is inside a repository.
func NewCLIResolver(opts ResolveOptions) (*CLIResolver, error) {
	if opts.GitPath == "" {
		opts.GitPath = "git"
	}
	if _, err := exec.LookPath(opts.GitPath); err != nil {
		return nil, fmt.Errorf("git executable not found: %w", err)
	}

	r := &CLIResolver{opts: opts}
	if _, err := r.run(context.Background(), "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", opts.RepoPath, err)
	}
	return r, nil
}

// ResolveCommit resolves spec with `git rev-parse --verify`.
func (r *CLIResolver) ResolveCommit(ctx context.Context, spec string) (CommitID, error) {
	rev := strings.TrimSpace(spec)
	if rev == "" {
		return "", &ResolutionError{Spec: spec, Err: errors.New("empty revision")}
	}
	// Keep specs from being read as options.
	if strings.HasPrefix(rev, "-") {
		return "", &ResolutionError{Spec: spec, Err: errors.New("revision must not start with '-'")}
	}

	out, err := r.run(ctx, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil {
		return "", &ResolutionError{Spec: spec, Err: err}
	}

	sha := strings.TrimSpace(string(out))
	if !isFullHex(sha) {
		return "", &ResolutionError{Spec: spec, Err: fmt.Errorf("unexpected rev-parse output %q", sha)}
	}
	return CommitID(strings.ToLower(sha)), nil
}

// ResolveRange runs `git rev-list --first-parent ^good bad`.
func (r *CLIResolver) ResolveRange(ctx context.Context, good, bad string) (CommitRange, error) {
	goodID, err := r.ResolveCommit(ctx, good)
	if err != nil {
		return CommitRange{}, err
	}
	badID, err := r.ResolveCommit(ctx, bad)
	if err != nil {
		return CommitRange{}, err
	}

	out, err := r.run(ctx, "rev-list", "--first-parent", "^"+goodID.String(), badID.String())
	if err != nil {
		return CommitRange{}, fmt.Errorf("git rev-list failed: %w", err)
	}

	ids, err := parseRevList(out)
	if err != nil {
		return CommitRange{}, err
	}
	return NewCommitRange(ids...), nil
}

// ResolveCommits resolves specs with a single `git cat-file --batch-check`
// process instead of one rev-parse per spec.
func (r *CLIResolver) ResolveCommits(ctx context.Context, specs []string) (map[string]CommitID, error) {
	var stdin bytes.Buffer
	var queried []string
	for _, spec := range specs {
		rev := strings.TrimSpace(spec)
		// One request per line; names with whitespace cannot be expressed.
		if rev == "" || strings.ContainsAny(rev, " \t\r\n") {
			continue
		}
		fmt.Fprintf(&stdin, "%s^{commit}\n", rev)
		queried = append(queried, spec)
	}

	resolved := make(map[string]CommitID, len(queried))
	if len(queried) == 0 {
		return resolved, nil
	}

	out, err := r.runInput(ctx, &stdin, "cat-file", "--batch-check=%(objectname) %(objecttype)")
	if err != nil {
		return nil, fmt.Errorf("git cat-file failed: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) != len(queried) {
		return nil, fmt.Errorf("git cat-file returned %d lines for %d revisions", len(lines), len(queried))
	}
	for i, line := range lines {
		fields := strings.Fields(line)
		// Unknown names are answered with "<name> missing" or "<name> ambiguous".
		if len(fields) != 2 || fields[1] != "commit" || !isFullHex(fields[0]) {
			continue
		}
		resolved[queried[i]] = CommitID(strings.ToLower(fields[0]))
	}
	return resolved, nil
}

func (r *CLIResolver) run(ctx context.Context, args ...string) ([]byte, error) {
	return r.runInput(ctx, nil, args...)
}

func (r *CLIResolver) runInput(ctx context.Context, stdin io.Reader, args ...string) ([]byte, error) {
	full := append([]string{"-C", r.opts.RepoPath}, args...)
	cmd := exec.CommandContext(ctx, r.opts.GitPath, full...)
	cmd.Stdin = stdin

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// parseRevList reads one object name per line.
func parseRevList(out []byte) ([]CommitID, error) {
	var ids []CommitID
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !isFullHex(line) {
			return nil, fmt.Errorf("unexpected rev-list line %q", line)
		}
		ids = append(ids, CommitID(strings.ToLower(line)))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
