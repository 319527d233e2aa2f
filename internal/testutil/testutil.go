// Package testutil provides git fixtures for Grove tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// SkipIfNoGit skips the test if git is not installed.
func SkipIfNoGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH, skipping test")
	}
}

// SetupBareRemote creates a bare repository seeded with one commit on
// master, and returns its path. It is suitable as a clone URL.
func SetupBareRemote(t *testing.T) string {
	t.Helper()

	bareDir := filepath.Join(t.TempDir(), "remote.git")
	if err := runGit("", "init", "--bare", "-b", "master", bareDir); err != nil {
		t.Fatalf("failed to init bare repo: %v", err)
	}

	// Seed through a throwaway clone: bare repos can't commit directly.
	seedDir := filepath.Join(t.TempDir(), "seed")
	if err := runGit("", "clone", bareDir, seedDir); err != nil {
		t.Fatalf("failed to clone bare repo: %v", err)
	}
	CommitFile(t, seedDir, "README.md", "# Test Repository\n", "Initial commit")
	Push(t, seedDir, "origin", "master")

	return bareDir
}

// SetupClone creates a bare remote and a working clone of it, and
// returns both paths.
func SetupClone(t *testing.T) (cloneDir, remoteDir string) {
	t.Helper()

	remoteDir = SetupBareRemote(t)
	cloneDir = filepath.Join(t.TempDir(), "clone")
	if err := runGit("", "clone", remoteDir, cloneDir); err != nil {
		t.Fatalf("failed to clone remote: %v", err)
	}
	return cloneDir, remoteDir
}

// Clone clones remoteDir into a fresh temporary directory and returns
// the clone's path.
func Clone(t *testing.T, remoteDir string) string {
	t.Helper()

	cloneDir := filepath.Join(t.TempDir(), "clone")
	if err := runGit("", "clone", remoteDir, cloneDir); err != nil {
		t.Fatalf("failed to clone %s: %v", remoteDir, err)
	}
	return cloneDir
}

// CommitFile creates or updates a file and commits it.
func CommitFile(t *testing.T, repoDir, path, content, message string) {
	t.Helper()

	fullPath := filepath.Join(repoDir, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	if err := runGit(repoDir, "add", path); err != nil {
		t.Fatalf("failed to stage file %s: %v", path, err)
	}
	if err := runGit(repoDir, "commit", "-m", message); err != nil {
		t.Fatalf("failed to commit file %s: %v", path, err)
	}
}

// Push pushes a branch to a remote.
func Push(t *testing.T, repoDir, remote, branch string) {
	t.Helper()

	if err := runGit(repoDir, "push", "-u", remote, branch); err != nil {
		t.Fatalf("failed to push %s to %s: %v", branch, remote, err)
	}
}

// Tag creates an annotated tag on HEAD.
func Tag(t *testing.T, repoDir, name string) {
	t.Helper()

	if err := runGit(repoDir, "tag", "-a", name, "-m", name); err != nil {
		t.Fatalf("failed to tag %s: %v", name, err)
	}
}

// CheckoutNewBranch creates and switches to a branch.
func CheckoutNewBranch(t *testing.T, repoDir, branch string) {
	t.Helper()

	if err := runGit(repoDir, "checkout", "-b", branch); err != nil {
		t.Fatalf("failed to checkout branch %s: %v", branch, err)
	}
}

// Checkout switches to an existing ref, possibly leaving HEAD detached.
func Checkout(t *testing.T, repoDir, ref string) {
	t.Helper()

	if err := runGit(repoDir, "checkout", ref); err != nil {
		t.Fatalf("failed to checkout %s: %v", ref, err)
	}
}

// HeadSHA returns the full sha1 of HEAD.
func HeadSHA(t *testing.T, repoDir string) string {
	t.Helper()

	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = repoDir
	output, err := cmd.Output()
	if err != nil {
		t.Fatalf("failed to resolve HEAD: %v", err)
	}
	return strings.TrimSpace(string(output))
}

// CurrentBranch returns the current branch name.
func CurrentBranch(t *testing.T, repoDir string) string {
	t.Helper()

	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = repoDir
	output, err := cmd.Output()
	if err != nil {
		t.Fatalf("failed to get current branch: %v", err)
	}
	return strings.TrimSpace(string(output))
}

// runGit runs a git command in the specified directory.
func runGit(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Grove Test",
		"GIT_AUTHOR_EMAIL=test@grovekit.dev",
		"GIT_COMMITTER_NAME=Grove Test",
		"GIT_COMMITTER_EMAIL=test@grovekit.dev",
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &gitError{args: args, output: output, err: err}
	}
	return nil
}

type gitError struct {
	args   []string
	output []byte
	err    error
}

func (e *gitError) Error() string {
	return "git " + strings.Join(e.args, " ") + ": " + e.err.Error() + "\n" + string(e.output)
}

func (e *gitError) Unwrap() error {
	return e.err
}
