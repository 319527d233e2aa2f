package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grovekit/grove/internal/config"
	"github.com/grovekit/grove/internal/logging"
	"github.com/grovekit/grove/internal/ui"
	"github.com/grovekit/grove/internal/workspace"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var initCmd = &cobra.Command{
	Use:   "init MANIFEST_URL",
	Short: "Initialize a new workspace",
	Long: `Initialize a new workspace in the current directory.
This clones the manifest repository into .grove/manifest and clones
every repository it lists.`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("branch", config.DefaultManifestBranch, "manifest branch to track")
	initCmd.Flags().IntP("jobs", "j", 0, "number of parallel jobs (0 runs sequentially)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	manifestURL := args[0]
	branch, _ := cmd.Flags().GetString("branch")
	numJobs, _ := cmd.Flags().GetInt("jobs")

	root := viper.GetString("workspace")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		root = cwd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Manifest.URL = manifestURL
	cfg.Manifest.Branch = branch

	log, err := logging.NewLogger(filepath.Join(root, config.Dir), cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer log.Close()

	out := ui.New()
	out.Info(ui.Bold("Initializing workspace in"), root)

	ws, err := workspace.Init(root, manifestURL, branch, cfg, out, log)
	if err != nil {
		return fmt.Errorf("failed to initialize workspace: %w", err)
	}
	if err := ws.CloneMissing(numJobs); err != nil {
		return err
	}
	if err := ws.ConfigureRemotes(numJobs); err != nil {
		return err
	}

	out.Info(ui.Green("Workspace initialized"))
	return nil
}
