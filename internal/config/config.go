// Package config defines the Grove workspace configuration, loaded with
// viper from .grove/config.yml with GROVE_* environment overrides.
package config

import (
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Dir is the workspace state directory, relative to the workspace root.
const Dir = ".grove"

// FileName is the config file name inside Dir.
const FileName = "config.yml"

// DefaultManifestBranch is the manifest branch followed when none is
// configured.
const DefaultManifestBranch = "master"

// Config represents the complete Grove configuration
type Config struct {
	Manifest ManifestConfig `mapstructure:"manifest"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ManifestConfig records where the workspace's manifest comes from
type ManifestConfig struct {
	// URL is the git URL the manifest repository was cloned from
	URL string `mapstructure:"url"`
	// Branch is the manifest repository branch to follow (default: "master")
	Branch string `mapstructure:"branch"`
}

// SyncConfig controls synchronization behavior
type SyncConfig struct {
	// NumJobs is the default worker count for sync operations.
	// 0 runs repositories sequentially with verbose output.
	NumJobs int `mapstructure:"num_jobs"`
	// RemoteName restricts fetches to the remote with this name.
	// Empty fetches every remote declared in the manifest.
	RemoteName string `mapstructure:"remote_name"`
	// Force passes --force to git fetch, allowing moved tags to update
	Force bool `mapstructure:"force"`
}

// LoggingConfig controls the debug log
type LoggingConfig struct {
	// Level is the log level: DEBUG, INFO, WARN or ERROR
	Level string `mapstructure:"level"`
}

// SetDefaults registers default values with viper. Called before any
// config file is read so defaults apply even without one.
func SetDefaults() {
	viper.SetDefault("manifest.branch", DefaultManifestBranch)
	viper.SetDefault("sync.num_jobs", defaultNumJobs())
	viper.SetDefault("sync.remote_name", "")
	viper.SetDefault("sync.force", false)
	viper.SetDefault("logging.level", "INFO")
}

// defaultNumJobs picks a parallelism width matching the machine, capped
// so that a large workspace does not open unbounded network connections.
func defaultNumJobs() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	return n
}

// Load unmarshals the current viper state into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// Path returns the config file path for a workspace root.
func Path(root string) string {
	return filepath.Join(root, Dir, FileName)
}
