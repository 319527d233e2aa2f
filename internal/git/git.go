// Package git wraps the git command line for use by Grove tasks.
//
// All commands run through an Executor interface so that tests can mock
// git without spawning processes. The concrete CLIExecutor shells out via
// os/exec. Concurrent invocations with distinct working directories are
// independent; Grove never runs two commands in the same clone at once.
package git

import (
	"bytes"
	"os"
	"os/exec"
	"strings"

	"github.com/grovekit/grove/internal/errors"
)

// Executor abstracts git command execution for testability.
type Executor interface {
	// Run executes git with the given arguments and returns combined output.
	Run(dir string, args ...string) ([]byte, error)

	// RunVerbose executes git with output streamed to the terminal.
	RunVerbose(dir string, args ...string) error

	// Capture executes git and returns the exit code and trimmed stdout.
	// The exit code is -1 when the process could not be started.
	Capture(dir string, args ...string) (int, string)
}

// CLIExecutor executes git commands using os/exec.
type CLIExecutor struct{}

// NewCLIExecutor creates a new CLI executor.
func NewCLIExecutor() *CLIExecutor {
	return &CLIExecutor{}
}

// Run executes git and returns combined output.
func (e *CLIExecutor) Run(dir string, args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// RunVerbose executes git with stdout and stderr inherited from the
// current process. Used in sequential mode where live command output is
// part of the user experience.
func (e *CLIExecutor) RunVerbose(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Capture executes git and returns the exit code plus trimmed stdout.
// Stderr is discarded; callers that need diagnostics should use Run.
func (e *CLIExecutor) Capture(dir string, args ...string) (int, string) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err := cmd.Run()
	out := strings.TrimSpace(stdout.String())
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), out
		}
		return -1, out
	}
	return 0, out
}

// Client provides the git operations Grove needs, on top of an Executor.
type Client struct {
	exec Executor
}

// NewClient creates a Client backed by the real git CLI.
func NewClient() *Client {
	return &Client{exec: NewCLIExecutor()}
}

// NewClientWithExecutor creates a Client with a custom executor.
// This is primarily useful for testing.
func NewClientWithExecutor(exec Executor) *Client {
	return &Client{exec: exec}
}

// Run executes a git command in dir. When verbose is true the command's
// output streams to the terminal; otherwise output is captured and only
// surfaces on failure, attached to the returned error.
func (c *Client) Run(dir string, verbose bool, args ...string) error {
	if verbose {
		if err := c.exec.RunVerbose(dir, args...); err != nil {
			return errors.NewGitError("git "+strings.Join(args, " ")+" failed", err).
				WithRepository(dir)
		}
		return nil
	}

	output, err := c.exec.Run(dir, args...)
	if err != nil {
		return errors.NewGitError("git "+strings.Join(args, " ")+" failed", err).
			WithRepository(dir).
			WithGitOutput(string(output))
	}
	return nil
}

// Capture executes a git command and returns the exit code and trimmed
// stdout, without treating a non-zero exit as an error.
func (c *Client) Capture(dir string, args ...string) (int, string) {
	return c.exec.Capture(dir, args...)
}

// CaptureChecked executes a git command and returns its trimmed stdout,
// failing when the command exits non-zero.
func (c *Client) CaptureChecked(dir string, args ...string) (string, error) {
	rc, out := c.exec.Capture(dir, args...)
	if rc != 0 {
		return out, errors.NewGitError("git "+strings.Join(args, " ")+" failed", nil).
			WithRepository(dir).
			WithGitOutput(out)
	}
	return out, nil
}

// CurrentBranch returns the branch HEAD is on. It returns ErrDetachedHead
// when HEAD does not point at any branch.
func (c *Client) CurrentBranch(dir string) (string, error) {
	rc, out := c.exec.Capture(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if rc != 0 {
		return "", errors.NewGitError("failed to read current branch", nil).
			WithRepository(dir)
	}
	if out == "HEAD" {
		return "", errors.NewGitError("failed to read current branch", errors.ErrDetachedHead).
			WithRepository(dir)
	}
	return out, nil
}

// IsDirty reports whether the working tree has uncommitted modifications,
// staged changes, or untracked files.
func (c *Client) IsDirty(dir string) (bool, error) {
	output, err := c.exec.Run(dir, "status", "--porcelain")
	if err != nil {
		return false, errors.NewGitError("failed to check git status", err).
			WithRepository(dir).
			WithGitOutput(string(output))
	}
	return len(strings.TrimSpace(string(output))) > 0, nil
}

// RevParse resolves a ref to its full commit hash.
func (c *Client) RevParse(dir, ref string) (string, error) {
	rc, out := c.exec.Capture(dir, "rev-parse", ref)
	if rc != 0 {
		return "", errors.NewGitError("failed to resolve ref "+ref, nil).
			WithRepository(dir)
	}
	return out, nil
}

// IsRepo reports whether dir is inside a git working tree.
func (c *Client) IsRepo(dir string) bool {
	rc, out := c.exec.Capture(dir, "rev-parse", "--is-inside-work-tree")
	return rc == 0 && out == "true"
}
