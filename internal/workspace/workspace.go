// Package workspace ties the manifest, configuration and git tasks
// together: it locates the workspace root, loads its state, and runs
// the clone, remote-configuration and synchronization batches.
package workspace

import (
	"os"
	"path/filepath"

	"github.com/grovekit/grove/internal/config"
	"github.com/grovekit/grove/internal/errors"
	"github.com/grovekit/grove/internal/executor"
	"github.com/grovekit/grove/internal/git"
	"github.com/grovekit/grove/internal/logging"
	"github.com/grovekit/grove/internal/manifest"
	"github.com/grovekit/grove/internal/ui"
)

// manifestCloneDir is where the manifest repository lives inside the
// workspace state directory.
const manifestCloneDir = "manifest"

// Workspace is an open Grove workspace.
type Workspace struct {
	Root     string
	Config   *config.Config
	Manifest *manifest.Manifest

	git *git.Client
	out *ui.Printer
	log *logging.Logger
}

// Find walks up from startDir looking for a directory containing
// .grove, and returns the workspace root.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		info, err := os.Stat(filepath.Join(dir, config.Dir))
		if err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.NewConfigError("no workspace found (missing "+config.Dir+" directory)",
				errors.ErrWorkspaceNotFound)
		}
		dir = parent
	}
}

// Open loads the workspace rooted at root: its configuration must
// already be loaded (the CLI layer reads it with viper) and its
// manifest clone must exist.
func Open(root string, cfg *config.Config, out *ui.Printer, log *logging.Logger) (*Workspace, error) {
	m, err := manifest.Load(manifestPath(root))
	if err != nil {
		return nil, err
	}
	return &Workspace{
		Root:     root,
		Config:   cfg,
		Manifest: m,
		git:      git.NewClient(),
		out:      out,
		log:      log,
	}, nil
}

// Init creates a workspace at root: it clones the manifest repository
// into .grove/manifest and writes the workspace config file.
func Init(root, manifestURL, branch string, cfg *config.Config, out *ui.Printer, log *logging.Logger) (*Workspace, error) {
	stateDir := filepath.Join(root, config.Dir)
	cloneDir := filepath.Join(stateDir, manifestCloneDir)
	if _, err := os.Stat(cloneDir); err == nil {
		return nil, errors.NewConfigError("workspace already initialized", errors.ErrRepoExists)
	}
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, err
	}

	gitClient := git.NewClient()
	out.Info2("Cloning manifest from", manifestURL)
	if err := gitClient.Run(stateDir, true, "clone", manifestURL, "--branch", branch, cloneDir); err != nil {
		return nil, err
	}

	if err := writeConfig(root, manifestURL, branch); err != nil {
		return nil, err
	}

	return Open(root, cfg, out, log)
}

// UpdateManifest brings the manifest clone up to date with its origin
// before a sync, so the run uses the latest declared revisions.
func (w *Workspace) UpdateManifest() error {
	cloneDir := filepath.Join(w.Root, config.Dir, manifestCloneDir)
	w.out.Info2("Updating manifest")
	if err := w.git.Run(cloneDir, false, "fetch", "--tags", "--prune", "origin"); err != nil {
		return err
	}
	branch := w.Config.Manifest.Branch
	if err := w.git.Run(cloneDir, false, "reset", "--hard", "origin/"+branch); err != nil {
		return err
	}

	m, err := manifest.Load(manifestPath(w.Root))
	if err != nil {
		return err
	}
	w.Manifest = m
	return nil
}

// CloneMissing clones every manifest repository that is not on disk yet.
func (w *Workspace) CloneMissing(numJobs int) error {
	w.log.Info("cloning missing repositories", "repos", len(w.Manifest.Repos), "num_jobs", numJobs)
	cloner := NewCloner(w.out, w.git, w.Root)
	collection := executor.ProcessItems(w.Manifest.Repos, cloner, numJobs, w.out)
	return collection.HandleResult(w.out, "Failed to clone missing repositories", "")
}

// ConfigureRemotes reconciles every clone's remotes with the manifest.
func (w *Workspace) ConfigureRemotes(numJobs int) error {
	w.log.Info("configuring remotes", "repos", len(w.Manifest.Repos), "num_jobs", numJobs)
	setter := NewRemoteSetter(w.out, w.git, w.Root)
	collection := executor.ProcessItems(w.Manifest.Repos, setter, numJobs, w.out)
	return collection.HandleResult(w.out, "Failed to configure remotes", "")
}

// Sync reconciles every clone with the revision the manifest declares.
func (w *Workspace) Sync(opts SyncOptions) error {
	w.log.Info("synchronizing workspace",
		"repos", len(w.Manifest.Repos),
		"num_jobs", opts.NumJobs,
		"force", opts.Force,
		"remote", opts.RemoteName,
	)
	syncer := NewSyncer(w.out, w.git, w.Root, opts)
	collection := executor.ProcessItems(w.Manifest.Repos, syncer, opts.NumJobs, w.out)
	for _, itemErr := range collection.Errors {
		w.log.WithRepo(itemErr.Item).Error("sync failed", "error", itemErr.Err.Error())
	}
	return collection.HandleResult(w.out, "Failed to synchronize workspace", "")
}

// Status prints a one-line status for every manifest repository.
func (w *Workspace) Status(numJobs int) error {
	reporter := NewStatusReporter(w.out, w.git, w.Root)
	collection := executor.ProcessItems(w.Manifest.Repos, reporter, numJobs, w.out)
	return collection.HandleResult(w.out, "Failed to read status", "Workspace status:")
}

// repoPathFor resolves a manifest dest (always slash-separated) to its
// on-disk path under the workspace root.
func repoPathFor(root string, repo manifest.Repo) string {
	return filepath.Join(root, filepath.FromSlash(repo.Dest))
}

func manifestPath(root string) string {
	return filepath.Join(root, config.Dir, manifestCloneDir, manifest.FileName)
}

// writeConfig persists the minimal workspace config created by init.
func writeConfig(root, manifestURL, branch string) error {
	content := "manifest:\n  url: " + manifestURL + "\n  branch: " + branch + "\n"
	return os.WriteFile(config.Path(root), []byte(content), 0644)
}
