package workspace

import (
	"fmt"

	"github.com/grovekit/grove/internal/executor"
	"github.com/grovekit/grove/internal/git"
	"github.com/grovekit/grove/internal/manifest"
	"github.com/grovekit/grove/internal/ui"
)

// RemoteSetter reconciles each clone's git remotes with the manifest:
// missing remotes are added, remotes pointing at a stale URL are
// updated, matching remotes are left alone.
type RemoteSetter struct {
	executor.Base
	workspacePath string
	git           *git.Client
}

// NewRemoteSetter creates a RemoteSetter for the given workspace root.
func NewRemoteSetter(out *ui.Printer, gitClient *git.Client, workspacePath string) *RemoteSetter {
	return &RemoteSetter{
		Base:          executor.NewBase(out),
		workspacePath: workspacePath,
		git:           gitClient,
	}
}

// DescribeItem returns the repository dest.
func (r *RemoteSetter) DescribeItem(repo manifest.Repo) string {
	return repo.Dest
}

// DescribeStart returns the parallel-mode start progress fragment.
func (r *RemoteSetter) DescribeStart(repo manifest.Repo) string {
	return "Configuring remotes " + repo.Dest
}

// DescribeEnd returns the parallel-mode end progress fragment.
func (r *RemoteSetter) DescribeEnd(repo manifest.Repo) string {
	return ui.Green("ok") + " " + repo.Dest
}

// Process configures the remotes of one repository. The outcome summary
// lists every remote that was added or updated; a repository whose
// remotes already match yields an empty outcome.
func (r *RemoteSetter) Process(index, count int, repo manifest.Repo) executor.Outcome {
	var lines []string
	for _, remote := range repo.Remotes {
		existingURL, found := r.remoteURL(repo, remote.Name)
		switch {
		case !found:
			if err := r.addRemote(repo, remote); err != nil {
				return executor.Outcome{Summary: joinLines(lines), Err: err}
			}
			lines = append(lines, fmt.Sprintf("%s: Add remote %s (%s)",
				repo.Dest, ui.Bold(remote.Name), remote.URL))
		case existingURL != remote.URL:
			if err := r.setRemoteURL(repo, remote); err != nil {
				return executor.Outcome{Summary: joinLines(lines), Err: err}
			}
			lines = append(lines, fmt.Sprintf("%s: Update remote %s to new url: (%s)",
				repo.Dest, ui.Bold(remote.Name), remote.URL))
		}
	}
	return executor.FromLines(lines)
}

func (r *RemoteSetter) repoPath(repo manifest.Repo) string {
	return repoPathFor(r.workspacePath, repo)
}

// remoteURL returns the URL the clone currently has for the named
// remote, and whether that remote exists at all.
func (r *RemoteSetter) remoteURL(repo manifest.Repo, name string) (string, bool) {
	rc, url := r.git.Capture(r.repoPath(repo), "remote", "get-url", name)
	if rc != 0 {
		return "", false
	}
	return url, true
}

func (r *RemoteSetter) addRemote(repo manifest.Repo, remote manifest.Remote) error {
	r.Info3(repo.Dest+":", "Add remote", remote.Name, "("+remote.URL+")")
	return r.git.Run(r.repoPath(repo), r.Verbose(), "remote", "add", remote.Name, remote.URL)
}

func (r *RemoteSetter) setRemoteURL(repo manifest.Repo, remote manifest.Remote) error {
	r.Info3(repo.Dest+":", "Update remote", remote.Name, "to new url:", "("+remote.URL+")")
	return r.git.Run(r.repoPath(repo), r.Verbose(), "remote", "set-url", remote.Name, remote.URL)
}

func joinLines(lines []string) string {
	return executor.FromLines(lines).Summary
}
