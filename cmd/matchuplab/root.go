package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"nba-matchup-lab/internal/config"
	"nba-matchup-lab/internal/observability"
)

// version is stamped into traces; overridden with -ldflags "-X main.version=...".
var version = "dev"

// global flags.
var (
	configPath  string
	storageMode string
	verbose     bool
)

// loaded by PersistentPreRunE for every subcommand.
var (
	cfg             *config.Config
	logger          *slog.Logger
	shutdownTracing func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "matchuplab",
	Short: "NBA matchup feature lab",
	Long: `Builds leakage-safe home-vs-visitor feature tables from per-team NBA game logs
and evaluates a logistic win-probability model on them.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config (default $"+config.FileEnvVar+")")
	rootCmd.PersistentFlags().StringVar(&storageMode, "storage", "", "storage mode: memory, postgres or sqlite (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose phase logging")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(demoCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if storageMode != "" {
		cfg.Storage.Mode = storageMode
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	level := cfg.Logging.Level
	if verbose && level != "debug" {
		level = "info"
	}
	logger = observability.NewLogger(os.Stderr, level, cfg.Logging.Format)
	slog.SetDefault(logger)

	if cfg.Tracing.Enabled {
		shutdownTracing, err = observability.InitTracing(os.Stderr, version)
		if err != nil {
			return err
		}
	}

	logger.Debug("configuration loaded", "command", cmd.Name(), "storage", cfg.Storage.Mode)
	return nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	if shutdownTracing == nil {
		return nil
	}
	if err := shutdownTracing(context.WithoutCancel(cmd.Context())); err != nil {
		return fmt.Errorf("flush traces: %w", err)
	}
	return nil
}

// seasonsOr returns flagged seasons, or fallback when none were given.
func seasonsOr(flagged, fallback []string) []string {
	if len(flagged) > 0 {
		return flagged
	}
	return fallback
}
