package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/cli"
	"github.com/aretw0/tally/internal/config"
	"github.com/aretw0/tally/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "tally",
	Short:         "Tally records line coverage and serves an admin surface for it",
	Long:          `Tally merges line coverage into a pluggable store, renders an HTML report into object storage and exposes a small admin dispatcher to drive both.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands). Unset flags leave the
	// TALLY_* environment values in place.
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().String("store", "", "Coverage store: memory, redis or sqlite")
	rootCmd.PersistentFlags().String("report-backend", "", "Report storage: file, s3 or memory")
	rootCmd.PersistentFlags().StringSlice("profile", nil, "Go cover profile to ingest on collect (repeatable)")
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	cfg.Version = tally.Version

	flags := cmd.Flags()
	override := func(name string, target *string) {
		if flags.Changed(name) {
			*target, _ = flags.GetString(name)
		}
	}
	override("log-level", &cfg.LogLevel)
	override("log-format", &cfg.LogFormat)
	override("store", &cfg.Store.Backend)
	override("report-backend", &cfg.ReportBackend)
	override("port", &cfg.Port)
	override("mount", &cfg.Mount)
	if flags.Changed("profile") {
		cfg.ProfilePaths, _ = flags.GetStringSlice("profile")
	}
	return cfg, nil
}

// createLogger configures the application logger from the config.
func createLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(os.Stderr, level, cfg.LogFormat), nil
}

// withApp builds the application for one command invocation and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *cli.App) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := createLogger(cfg)
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx := cli.NewSignalContext(parent)
	defer ctx.Cancel()

	app, err := cli.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	app.Out = cmd.OutOrStdout()
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close backends", "err", err)
		}
	}()

	return fn(ctx, app)
}
