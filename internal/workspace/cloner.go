package workspace

import (
	"os"
	"path/filepath"

	"github.com/grovekit/grove/internal/errors"
	"github.com/grovekit/grove/internal/executor"
	"github.com/grovekit/grove/internal/git"
	"github.com/grovekit/grove/internal/manifest"
	"github.com/grovekit/grove/internal/ui"
)

// Cloner clones the repositories of the manifest that are not yet on
// disk. Repositories that already exist as git clones are skipped; a
// dest occupied by something that is not a git repository is an error.
type Cloner struct {
	executor.Base
	workspacePath string
	git           *git.Client
}

// NewCloner creates a Cloner for the given workspace root.
func NewCloner(out *ui.Printer, gitClient *git.Client, workspacePath string) *Cloner {
	return &Cloner{
		Base:          executor.NewBase(out),
		workspacePath: workspacePath,
		git:           gitClient,
	}
}

// DescribeItem returns the repository dest.
func (c *Cloner) DescribeItem(repo manifest.Repo) string {
	return repo.Dest
}

// DescribeStart returns the parallel-mode start progress fragment.
func (c *Cloner) DescribeStart(repo manifest.Repo) string {
	return "Cloning " + repo.Dest
}

// DescribeEnd returns the parallel-mode end progress fragment.
func (c *Cloner) DescribeEnd(repo manifest.Repo) string {
	return ui.Green("ok") + " " + repo.Dest
}

// Process clones one repository if it is missing.
func (c *Cloner) Process(index, count int, repo manifest.Repo) executor.Outcome {
	repoPath := repoPathFor(c.workspacePath, repo)

	if c.git.IsRepo(repoPath) {
		return executor.Empty()
	}
	if info, err := os.Stat(repoPath); err == nil && info.IsDir() {
		entries, _ := os.ReadDir(repoPath)
		if len(entries) > 0 {
			return executor.FromError(errors.NewGitError("destination is not empty", errors.ErrRepoExists).
				WithRepository(repoPath))
		}
	}

	c.InfoCount(index, count, "Cloning", repo.Dest)
	if err := os.MkdirAll(filepath.Dir(repoPath), 0755); err != nil {
		return executor.FromError(err)
	}

	origin := repo.Origin()
	args := []string{"clone", origin.URL, "--origin", origin.Name}
	switch {
	case repo.Tag != "":
		args = append(args, "--branch", repo.Tag)
	case repo.SHA1 == "":
		args = append(args, "--branch", repo.Branch)
	}
	args = append(args, repoPath)

	if err := c.git.Run(c.workspacePath, c.Verbose(), args...); err != nil {
		return executor.FromError(err)
	}

	// A pinned commit can't be passed to clone; reset to it afterwards.
	if repo.SHA1 != "" {
		if err := c.git.Run(repoPath, c.Verbose(), "reset", "--hard", repo.SHA1); err != nil {
			return executor.FromError(err)
		}
	}

	return executor.FromSummary("Cloned " + repo.Dest)
}
