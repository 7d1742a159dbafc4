package main

import (
	"github.com/spf13/cobra"

	"netcentric/achistory/pkg/cli"
	"netcentric/achistory/pkg/history"
	"netcentric/achistory/pkg/history/report"
)

var listFlags struct {
	format string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored history entries",
	Long: `List stored history entries, newest first.

Text output prints one numbered line per entry:

  1. /var/statistics/achistory/history_1709634600000_via_api (Tue Mar 05 10:30:00 UTC 2024) (ok)

JSON output prints the decoded entry properties.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listFlags.format, "format", "text", "output format: text, json")
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(listFlags.format)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	var data interface{}
	if format == cli.FormatJSON {
		entries, err := history.LoadEntries(ctx, a.session)
		if err != nil {
			return cli.NewCommandError("list", err)
		}
		data = entries
	} else {
		lines, err := report.ListEntries(ctx, a.session)
		if err != nil {
			return cli.NewCommandError("list", err)
		}
		data = lines
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), data)
}
