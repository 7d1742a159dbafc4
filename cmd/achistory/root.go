package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"netcentric/achistory/pkg/cli"
	"netcentric/achistory/pkg/config"
	"netcentric/achistory/pkg/repository"
	"netcentric/achistory/pkg/telemetry"
	"netcentric/achistory/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
	backend  string
)

var rootCmd = &cobra.Command{
	Use:   "achistory",
	Short: "achistory - installation history for access control configuration",
	Long: `achistory stores the outcome of access control installation runs as history
entries in a content repository and renders them for review.

Entries are kept newest first below /var/statistics/achistory. After every
write the history is pruned to the configured number of entries.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and ACHISTORY_* variables when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "override repository backend (memory, pebble, redis, sqlite)")
}

// app holds what a command needs to work on the repository.
type app struct {
	cfg       *config.Config
	telemetry *telemetry.Telemetry
	session   repository.Session
}

// newApp loads the configuration, sets up telemetry and opens a repository
// session.
func newApp(ctx context.Context) (*app, error) {
	err := config.Initialize(cfgFile,
		config.WithBackend(backend),
		config.WithLogLevel(logLevel),
	)
	if err != nil {
		return nil, cli.WrapConfigError(err)
	}
	cfg := config.GetConfig()

	tel, err := telemetry.New(&cfg.Telemetry)
	if err != nil {
		return nil, cli.WrapConfigError(err)
	}

	ctx = logging.WithBackend(ctx, cfg.Repository.Backend)
	session, err := repository.Open(ctx, &cfg.Repository)
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, fmt.Errorf("failed to open %s repository: %w", cfg.Repository.Backend, err)
	}

	return &app{cfg: cfg, telemetry: tel, session: session}, nil
}

// Close closes the session and flushes telemetry.
func (a *app) Close(ctx context.Context) {
	logger := a.telemetry.Logger()
	if err := a.session.Close(); err != nil {
		logger.Warn("failed to close repository session", "error", err)
	}
	if err := a.telemetry.Shutdown(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("failed to flush telemetry", "error", err)
	}
}
