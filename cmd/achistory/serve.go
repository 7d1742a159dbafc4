package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"netcentric/achistory/pkg/cli"
	"netcentric/achistory/pkg/config"
	"netcentric/achistory/pkg/history/retention"
	"netcentric/achistory/pkg/repository"
	"netcentric/achistory/pkg/server"
	"netcentric/achistory/pkg/telemetry/health"
)

var serveFlags struct {
	listenAddress   string
	shutdownTimeout time.Duration
	runNow          bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve metrics and health endpoints and prune on a schedule",
	Long: `Run until interrupted, keeping one repository session open.

The HTTP listener serves:
  /metrics   Prometheus metrics (path configurable)
  /health    liveness
  /ready     readiness, checks the repository and the last scheduled prune
  /version   build information

With history.prune_schedule set, the history is pruned on that cron schedule.
When started with --config, changes to the file are picked up without a
restart: the retention count applies to the next run and a changed schedule
replaces the current one.

Examples:
  achistory serve --config /etc/achistory/config.yaml
  achistory serve --listen 0.0.0.0:9464 --prune-now`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().DurationVar(&serveFlags.shutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	serveCmd.Flags().BoolVar(&serveFlags.runNow, "prune-now", false, "prune once at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	logger := slog.Default().With("component", "serve")
	collector := a.telemetry.Metrics()

	listenAddress := a.cfg.Telemetry.Metrics.ListenAddress
	if serveFlags.listenAddress != "" {
		listenAddress = serveFlags.listenAddress
	}

	pruner := retention.NewPruner(&retention.Config{
		Metrics: collector,
		Tracer:  a.telemetry.Tracer(),
	})
	scheduler := retention.NewScheduler(pruner, retention.SchedulerConfig{
		Schedule: a.cfg.History.PruneSchedule,
		Open: func(ctx context.Context) (repository.Session, error) {
			return repository.Shared(a.session), nil
		},
		Keep: func() int {
			return config.GetConfig().History.NrOfHistoriesToSave
		},
		Metrics: collector,
	})
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewConfigError("history.prune_schedule", err.Error())
	}
	defer scheduler.Stop()

	if serveFlags.runNow {
		if err := scheduler.RunOnce(ctx); err != nil {
			logger.Warn("startup pruning failed", "error", err)
		}
	}

	if cfgFile != "" {
		watcher, err := config.NewWatcher(cfgFile, func(cfg *config.Config) {
			applyReload(ctx, logger, scheduler, cfg)
		})
		if err != nil {
			logger.Warn("config hot reload disabled", "error", err)
		} else {
			go func() {
				if err := watcher.Run(ctx); err != nil {
					logger.Error("config watcher stopped", "error", err)
				}
			}()
		}
	}

	checker := health.New(5 * time.Second)
	checker.RegisterCheck("repository", func(ctx context.Context) error {
		_, err := a.session.HasNode(ctx, repository.RootPath)
		return err
	})
	checker.RegisterCheck("scheduler", func(ctx context.Context) error {
		return scheduler.LastError()
	})

	mux := http.NewServeMux()
	if a.cfg.Telemetry.Metrics.Enabled {
		mux.Handle(a.cfg.Telemetry.Metrics.Path, collector.Handler())
	}
	health.Register(mux, checker, Version, GitCommit, BuildDate)

	srv := server.New(server.Config{
		ListenAddress:   listenAddress,
		ShutdownTimeout: serveFlags.shutdownTimeout,
	}, mux)

	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	out := cmd.OutOrStdout()
	select {
	case <-srv.Started():
	case err := <-done:
		return cli.NewCommandError("serve", err)
	}

	fmt.Fprintf(out, "✓ Serving on %s (backend %s)\n", srv.Addr(), a.cfg.Repository.Backend)
	if next := scheduler.NextRun(); next != nil {
		fmt.Fprintf(out, "✓ Next scheduled prune: %s\n", next.Format(time.RFC3339))
	}

	if err := <-done; err != nil {
		return cli.NewCommandError("serve", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

// applyReload moves the scheduler to the schedule of a reloaded
// configuration. The retention count is read by the scheduler on each run.
func applyReload(ctx context.Context, logger *slog.Logger, scheduler *retention.Scheduler, cfg *config.Config) {
	schedule := cfg.History.PruneSchedule

	if !scheduler.IsRunning() {
		if schedule != "" {
			logger.Warn("prune schedule added while the scheduler is disabled, restart to apply",
				"schedule", schedule,
			)
		}
		return
	}

	if err := scheduler.Reschedule(ctx, schedule); err != nil {
		logger.Error("failed to apply reloaded prune schedule", "schedule", schedule, "error", err)
	}
}
