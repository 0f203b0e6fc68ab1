// Package main implements the resume_builder CLI: it serves the editing API
// and works on the stored draft directly.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/logging"
)

var (
	configPath   string
	storeFlag    string
	storeDirFlag string
	logLevelFlag string

	// appConfig and logger are set before any subcommand runs.
	appConfig config.Config
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "resume_builder",
	Short: "Résumé builder",
	Long: "Resume Builder edits a single résumé draft, previews it with the modern or classic template " +
		"and exports it as a one-page PDF.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadAppConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Draft store: memory, file, redis, postgres or mysql")
	rootCmd.PersistentFlags().StringVar(&storeDirFlag, "store-dir", "", "Directory for the file store")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn or error")
}

// loadAppConfig layers defaults, the config file, the environment and flags.
func loadAppConfig(cmd *cobra.Command, _ []string) error {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store = storeFlag
	}
	if flags.Changed("store-dir") {
		cfg.StoreDir = storeDirFlag
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevelFlag
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return err
	}

	appConfig = merged
	logger = logging.SetupDefault(cmd.ErrOrStderr(), merged.LogLevel, merged.LogFormat)
	logger.Debug("configuration loaded", "store", merged.Store, "draft_key", merged.DraftKey)
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
