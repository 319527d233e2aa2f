package cmd

import (
	"github.com/grovekit/grove/internal/workspace"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the workspace with the manifest",
	Long: `Synchronize every repository of the workspace with the manifest:
update the manifest clone, clone missing repositories, reconcile remotes,
then fetch and fast-forward (or reset, for pinned revisions) each clone.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().IntP("jobs", "j", -1, "number of parallel jobs (0 runs sequentially)")
	syncCmd.Flags().Bool("force", false, "pass --force to git fetch")
	syncCmd.Flags().StringP("remote", "r", "", "only fetch from this remote")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ws, log, err := openWorkspace()
	if err != nil {
		return err
	}
	defer log.Close()

	opts := workspace.SyncOptions{
		Force:      ws.Config.Sync.Force,
		RemoteName: ws.Config.Sync.RemoteName,
		NumJobs:    ws.Config.Sync.NumJobs,
	}
	if cmd.Flags().Changed("jobs") {
		opts.NumJobs, _ = cmd.Flags().GetInt("jobs")
	}
	if cmd.Flags().Changed("force") {
		opts.Force, _ = cmd.Flags().GetBool("force")
	}
	if cmd.Flags().Changed("remote") {
		opts.RemoteName, _ = cmd.Flags().GetString("remote")
	}

	if err := ws.UpdateManifest(); err != nil {
		return err
	}
	if err := ws.CloneMissing(opts.NumJobs); err != nil {
		return err
	}
	if err := ws.ConfigureRemotes(opts.NumJobs); err != nil {
		return err
	}
	return ws.Sync(opts)
}
