package cmd

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of every repository",
	Long: `Display a one-line status for every repository of the workspace:
current branch or commit, whether the working tree is dirty, and whether
the clone is on the branch the manifest expects.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntP("jobs", "j", 0, "number of parallel jobs (0 runs sequentially)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ws, log, err := openWorkspace()
	if err != nil {
		return err
	}
	defer log.Close()

	numJobs, _ := cmd.Flags().GetInt("jobs")
	return ws.Status(numJobs)
}
