package workspace

import (
	"strings"

	"github.com/grovekit/grove/internal/executor"
	"github.com/grovekit/grove/internal/git"
	"github.com/grovekit/grove/internal/manifest"
	"github.com/grovekit/grove/internal/ui"
)

// StatusReporter inspects each clone and produces a one-line status:
// current branch or commit, dirty marker, and a note when the clone is
// not on the branch the manifest expects.
type StatusReporter struct {
	executor.Base
	workspacePath string
	git           *git.Client
}

// NewStatusReporter creates a StatusReporter for the given workspace root.
func NewStatusReporter(out *ui.Printer, gitClient *git.Client, workspacePath string) *StatusReporter {
	return &StatusReporter{
		Base:          executor.NewBase(out),
		workspacePath: workspacePath,
		git:           gitClient,
	}
}

// DescribeItem returns the repository dest.
func (s *StatusReporter) DescribeItem(repo manifest.Repo) string {
	return repo.Dest
}

// DescribeStart returns the parallel-mode start progress fragment.
func (s *StatusReporter) DescribeStart(repo manifest.Repo) string {
	return "Checking " + repo.Dest
}

// DescribeEnd returns the parallel-mode end progress fragment.
func (s *StatusReporter) DescribeEnd(repo manifest.Repo) string {
	return ui.Green("ok") + " " + repo.Dest
}

// Process builds the status line for one repository.
func (s *StatusReporter) Process(index, count int, repo manifest.Repo) executor.Outcome {
	repoPath := s.repoPath(repo)
	if !s.git.IsRepo(repoPath) {
		return executor.FromSummary(repo.Dest + " " + ui.Red("[missing]"))
	}

	parts := []string{repo.Dest}

	branch, err := s.git.CurrentBranch(repoPath)
	switch {
	case err == nil:
		parts = append(parts, ui.Green(branch))
		if _, pinned := repo.Ref(); !pinned && branch != repo.Branch {
			parts = append(parts, ui.Red("(expects "+repo.Branch+")"))
		}
	default:
		sha, shaErr := s.git.RevParse(repoPath, "HEAD")
		if shaErr != nil {
			return executor.FromError(shaErr)
		}
		parts = append(parts, ui.Green(shortSHA(sha)))
	}

	dirty, err := s.git.IsDirty(repoPath)
	if err != nil {
		return executor.FromError(err)
	}
	if dirty {
		parts = append(parts, ui.Red("(dirty)"))
	}

	return executor.FromSummary(strings.Join(parts, " "))
}

func (s *StatusReporter) repoPath(repo manifest.Repo) string {
	return repoPathFor(s.workspacePath, repo)
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
