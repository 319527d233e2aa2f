package workspace

import (
	"fmt"
	"strings"

	"github.com/grovekit/grove/internal/errors"
	"github.com/grovekit/grove/internal/executor"
	"github.com/grovekit/grove/internal/git"
	"github.com/grovekit/grove/internal/manifest"
	"github.com/grovekit/grove/internal/ui"
)

// IncorrectBranchError reports a repository whose local branch does not
// match the branch declared in the manifest. The syncer records it on
// the outcome but still attempts the fast-forward, so the user can fix
// branches without re-running the fetch.
type IncorrectBranchError struct {
	Dest     string
	Actual   string
	Expected string
}

func (e *IncorrectBranchError) Error() string {
	return fmt.Sprintf("not on the correct branch: current branch '%s' does not match expected branch '%s'",
		e.Actual, e.Expected)
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	// Force passes --force to git fetch so moved tags update.
	Force bool
	// RemoteName restricts fetches to the manifest remote with this
	// name. Empty fetches all of a repository's remotes.
	RemoteName string
	// NumJobs is the worker count; 0 runs sequentially.
	NumJobs int
}

// Syncer reconciles each repository clone with the revision declared in
// the manifest: fetch, then either reset to a pinned ref or fast-forward
// the tracked branch, then update submodules.
type Syncer struct {
	executor.Base
	workspacePath string
	git           *git.Client
	force         bool
	remoteName    string
}

// NewSyncer creates a Syncer for the given workspace root.
func NewSyncer(out *ui.Printer, gitClient *git.Client, workspacePath string, opts SyncOptions) *Syncer {
	return &Syncer{
		Base:          executor.NewBase(out),
		workspacePath: workspacePath,
		git:           gitClient,
		force:         opts.Force,
		remoteName:    opts.RemoteName,
	}
}

// DescribeItem returns the repository dest, the key of its outcome.
func (s *Syncer) DescribeItem(repo manifest.Repo) string {
	return repo.Dest
}

// DescribeStart returns the parallel-mode start progress fragment.
func (s *Syncer) DescribeStart(repo manifest.Repo) string {
	return "Syncing " + repo.Dest
}

// DescribeEnd returns the parallel-mode end progress fragment.
func (s *Syncer) DescribeEnd(repo manifest.Repo) string {
	return ui.Green("ok") + " " + repo.Dest
}

// Process synchronizes one repository.
//
// Always starts with git fetch, then either resets the clone to the
// pinned tag or sha1 (refusing if the working tree is dirty), or merges
// the local branch with its upstream (fast-forward only). A branch
// mismatch is recorded on the outcome but does not stop the pipeline;
// every other failure short-circuits.
func (s *Syncer) Process(index, count int, repo manifest.Repo) executor.Outcome {
	var outcome executor.Outcome
	var summaryLines []string

	s.InfoCount(index, count, "Synchronizing", repo.Dest)

	if err := s.fetch(repo); err != nil {
		return executor.FromError(err)
	}

	if ref, pinned := repo.Ref(); pinned {
		s.Info3("Resetting to", ref)
		if err := s.syncToRef(repo, ref); err != nil {
			return executor.FromError(err)
		}
		summaryLines = append(summaryLines, "Reset to "+ref)
	} else {
		s.Info3("Updating branch")
		current, err := s.git.CurrentBranch(s.repoPath(repo))
		if err != nil {
			return executor.FromError(errors.ErrDetachedHead)
		}
		if current != repo.Branch {
			outcome.Err = &IncorrectBranchError{
				Dest:     repo.Dest,
				Actual:   current,
				Expected: repo.Branch,
			}
		}
		mergeLines, err := s.syncToBranch(repo)
		if err != nil {
			outcome.Err = err
			outcome.Summary = strings.Join(summaryLines, "\n")
			return outcome
		}
		summaryLines = append(summaryLines, mergeLines...)
	}

	if err := s.updateSubmodules(repo); err != nil {
		outcome.Err = err
	}

	outcome.Summary = strings.Join(summaryLines, "\n")
	return outcome
}

func (s *Syncer) repoPath(repo manifest.Repo) string {
	return repoPathFor(s.workspacePath, repo)
}

// pickRemotes returns the remotes to fetch: the one matching the
// configured remote name, or all manifest remotes in order.
func (s *Syncer) pickRemotes(repo manifest.Repo) ([]manifest.Remote, error) {
	if s.remoteName == "" {
		return repo.Remotes, nil
	}
	for _, remote := range repo.Remotes {
		if remote.Name == s.remoteName {
			return []manifest.Remote{remote}, nil
		}
	}
	return nil, fmt.Errorf("Remote %s not found for repository %s", s.remoteName, repo.Dest)
}

func (s *Syncer) fetch(repo manifest.Repo) error {
	repoPath := s.repoPath(repo)
	remotes, err := s.pickRemotes(repo)
	if err != nil {
		return err
	}
	for _, remote := range remotes {
		s.Info3("Fetching", remote.Name)
		args := []string{"fetch", "--tags", "--prune", remote.Name}
		if s.force {
			args = append(args, "--force")
		}
		if err := s.git.Run(repoPath, s.Verbose(), args...); err != nil {
			return fmt.Errorf("fetch from '%s' failed: %w", remote.Name, err)
		}
	}
	return nil
}

// syncToRef hard-resets the clone to the pinned ref. A dirty working
// tree refuses the reset rather than destroy uncommitted work.
func (s *Syncer) syncToRef(repo manifest.Repo, ref string) error {
	repoPath := s.repoPath(repo)
	dirty, err := s.git.IsDirty(repoPath)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("%s is dirty, skipping", repoPath)
	}
	if err := s.git.Run(repoPath, s.Verbose(), "reset", "--hard", ref); err != nil {
		return fmt.Errorf("updating ref failed: %w", err)
	}
	return nil
}

// syncToBranch fast-forwards the local branch to its upstream. In
// sequential mode the merge streams live output. In parallel mode an
// up-to-date branch is detected first so nothing is printed for it;
// otherwise the captured merge output becomes a summary block headed by
// the dest and an underline of dashes.
func (s *Syncer) syncToBranch(repo manifest.Repo) ([]string, error) {
	repoPath := s.repoPath(repo)
	if s.Parallel() {
		rc, out := s.git.Capture(repoPath, "log", "--oneline", "HEAD..@{upstream}")
		if rc == 0 && out == "" {
			return nil, nil
		}
		out, err := s.git.CaptureChecked(repoPath, "merge", "--ff-only", "@{upstream}")
		if err != nil {
			return nil, fmt.Errorf("updating branch failed: %w", err)
		}
		return []string{repo.Dest, strings.Repeat("-", len(repo.Dest)), out}, nil
	}

	if err := s.git.Run(repoPath, true, "merge", "--ff-only", "@{upstream}"); err != nil {
		return nil, fmt.Errorf("updating branch failed: %w", err)
	}
	return nil, nil
}

func (s *Syncer) updateSubmodules(repo manifest.Repo) error {
	return s.git.Run(s.repoPath(repo), s.Verbose(), "submodule", "update", "--init", "--recursive")
}
