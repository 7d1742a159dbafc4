package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"netcentric/achistory/pkg/cli"
	"netcentric/achistory/pkg/history/retention"
)

var pruneFlags struct {
	keep int
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest history entries",
	Long: `Delete all but the newest history entries. Entries are ordered by their
timestamp property.

Examples:
  # Apply the configured retention count
  achistory prune

  # Keep only the newest entry
  achistory prune --keep 1`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().IntVar(&pruneFlags.keep, "keep", -1, "number of entries to keep (default: from config)")
}

func runPrune(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	keep := pruneFlags.keep
	if keep < 0 {
		keep = a.cfg.History.NrOfHistoriesToSave
	}

	pruner := retention.NewPruner(&retention.Config{
		Metrics: a.telemetry.Metrics(),
		Tracer:  a.telemetry.Tracer(),
	})
	deleted, err := pruner.Prune(ctx, a.session, keep)
	if err != nil {
		return cli.NewCommandError("prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d history entries, keeping at most %d\n", deleted, keep)
	return nil
}
