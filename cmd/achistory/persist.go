package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"netcentric/achistory/pkg/cli"
	"netcentric/achistory/pkg/history"
	"netcentric/achistory/pkg/history/recorder"
	"netcentric/achistory/pkg/telemetry/tracing"
)

var persistFlags struct {
	logFile          string
	verboseLogFile   string
	success          bool
	executionTime    time.Duration
	installationDate string
	packageName      string
	configFiles      []string
	origin           string
	keep             int
}

var persistCmd = &cobra.Command{
	Use:   "persist",
	Short: "Store the outcome of an installation run",
	Long: `Store the outcome of an installation run as a new history entry.

Every line of --log becomes a message of the entry. Lines of --verbose-log are
added to the verbose log only. Use "-" to read the messages from stdin.

After writing, the history is pruned to --keep entries (the configured
history.nr_of_histories_to_save by default) and the new entry is moved to the
top.

A TRACEPARENT environment variable makes the run part of the caller's trace.

Examples:
  # Record a successful run triggered by the scheduler
  achistory persist --log run.log --success --execution-time 2.5s --origin scheduler

  # Record a run started by installing a content package
  achistory persist --log - --package my-acls-1.0.zip --config-file /apps/a/acls.yaml < run.log`,
	RunE: runPersist,
}

func init() {
	rootCmd.AddCommand(persistCmd)

	persistCmd.Flags().StringVar(&persistFlags.logFile, "log", "", `message log file, "-" for stdin`)
	persistCmd.Flags().StringVar(&persistFlags.verboseLogFile, "verbose-log", "", "file with additional verbose-only messages")
	persistCmd.Flags().BoolVar(&persistFlags.success, "success", false, "the run completed without errors")
	persistCmd.Flags().DurationVar(&persistFlags.executionTime, "execution-time", 0, "duration of the run")
	persistCmd.Flags().StringVar(&persistFlags.installationDate, "installation-date", "", "start of the run, RFC3339 (default: now)")
	persistCmd.Flags().StringVar(&persistFlags.packageName, "package", "", "content package that triggered the run")
	persistCmd.Flags().StringSliceVar(&persistFlags.configFiles, "config-file", nil, "applied configuration file (repeatable)")
	persistCmd.Flags().StringVar(&persistFlags.origin, "origin", "api", "what triggered the run: api, scheduler, jmx, webconsole")
	persistCmd.Flags().IntVar(&persistFlags.keep, "keep", -1, "number of entries to keep (default: from config)")
}

func runPersist(cmd *cobra.Command, args []string) error {
	origin, err := history.ParseOrigin(persistFlags.origin)
	if err != nil {
		return cli.NewConfigError("origin", err.Error())
	}

	log := history.NewInstallationLog(origin)
	log.Success = persistFlags.success
	log.ExecutionTime = persistFlags.executionTime
	log.PackageName = persistFlags.packageName
	log.ConfigFiles = persistFlags.configFiles

	if persistFlags.installationDate != "" {
		date, err := time.Parse(time.RFC3339, persistFlags.installationDate)
		if err != nil {
			return cli.NewConfigError("installation-date", err.Error())
		}
		log.InstallationDate = date
	}

	if err := readMessages(cmd.InOrStdin(), persistFlags.logFile, log.AddMessage); err != nil {
		return cli.NewCommandError("persist", err)
	}
	if err := readMessages(cmd.InOrStdin(), persistFlags.verboseLogFile, log.AddVerboseMessage); err != nil {
		return cli.NewCommandError("persist", err)
	}

	ctx := tracing.ExtractFromEnv(cmd.Context())
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	keep := persistFlags.keep
	if keep < 0 {
		keep = a.cfg.History.NrOfHistoriesToSave
	}

	rec := recorder.New(recorder.Config{
		Metrics: a.telemetry.Metrics(),
		Tracer:  a.telemetry.Tracer(),
	})
	handle, err := rec.Persist(ctx, a.session, log, keep)
	if err != nil {
		return cli.NewCommandError("persist", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), handle.Path)
	return nil
}

// readMessages calls add for every line of the named file. An empty name
// reads nothing and "-" reads stdin.
func readMessages(stdin io.Reader, name string, add func(string)) error {
	if name == "" {
		return nil
	}

	r := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	return nil
}
