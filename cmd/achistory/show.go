package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"netcentric/achistory/pkg/history/report"
)

var showFlags struct {
	verbose bool
	html    bool
}

var showCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show the log of a history entry",
	Long: `Show the installation date, messages, execution time and outcome of one
history entry. NAME is the entry name as printed by "achistory list" or its
full path.

Errors while reading the entry are printed inline after whatever could be
read.

Examples:
  achistory show history_1709634600000_via_api
  achistory show history_1709634600000_via_api --verbose --html`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeEntryNames,
	RunE:              runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&showFlags.verbose, "verbose", false, "include verbose messages")
	showCmd.Flags().BoolVar(&showFlags.html, "html", false, "render HTML instead of text")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	formatter := report.NewFormatter(report.Config{
		Metrics: a.telemetry.Metrics(),
		Tracer:  a.telemetry.Tracer(),
	})

	var out string
	if showFlags.html {
		out = formatter.RenderHTML(ctx, a.session, args[0], showFlags.verbose)
	} else {
		out = formatter.RenderText(ctx, a.session, args[0], showFlags.verbose)
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
