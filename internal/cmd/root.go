package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/grovekit/grove/internal/config"
	"github.com/grovekit/grove/internal/errors"
	"github.com/grovekit/grove/internal/logging"
	"github.com/grovekit/grove/internal/ui"
	"github.com/grovekit/grove/internal/workspace"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "grove",
	Short: "Manage groups of git repositories",
	Long: `Grove keeps a group of git repositories in sync with a manifest:
a repository containing a manifest.yml that lists every repository of
the workspace, where to clone it from and which revision to track.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("workspace", "w", "", "workspace path (default is discovered from the current directory)")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
}

func initConfig() {
	config.SetDefaults()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("GROVE")
	// GROVE_SYNC_NUM_JOBS overrides sync.num_jobs, and so on.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// findRoot locates the workspace root: the --workspace flag when given,
// otherwise walking up from the current directory.
func findRoot() (string, error) {
	if flagRoot := viper.GetString("workspace"); flagRoot != "" {
		return filepath.Abs(flagRoot)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return workspace.Find(cwd)
}

// openWorkspace loads the workspace the command operates on: config file,
// debug log and manifest. The caller must Close the returned logger.
func openWorkspace() (*workspace.Workspace, *logging.Logger, error) {
	root, err := findRoot()
	if err != nil {
		return nil, nil, err
	}

	viper.SetConfigFile(config.Path(root))
	if err := viper.ReadInConfig(); err != nil {
		// A workspace without a config file runs on defaults.
		if !errors.Is(err, os.ErrNotExist) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, nil, err
			}
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logging.NewLogger(filepath.Join(root, config.Dir), cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}

	ws, err := workspace.Open(root, cfg, ui.New(), log)
	if err != nil {
		log.Close()
		return nil, nil, err
	}
	return ws, log, nil
}
