package cmd

import (
	"github.com/spf13/cobra"
)

var configureRemotesCmd = &cobra.Command{
	Use:   "configure-remotes",
	Short: "Reconcile each clone's remotes with the manifest",
	Long: `Reconcile each repository's git remotes with the manifest:
missing remotes are added and remotes pointing at a stale URL are
updated. Remotes not listed in the manifest are left alone.`,
	RunE: runConfigureRemotes,
}

func init() {
	configureRemotesCmd.Flags().IntP("jobs", "j", 0, "number of parallel jobs (0 runs sequentially)")
	rootCmd.AddCommand(configureRemotesCmd)
}

func runConfigureRemotes(cmd *cobra.Command, args []string) error {
	ws, log, err := openWorkspace()
	if err != nil {
		return err
	}
	defer log.Close()

	numJobs, _ := cmd.Flags().GetInt("jobs")
	return ws.ConfigureRemotes(numJobs)
}
