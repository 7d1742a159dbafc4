package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"netcentric/achistory/pkg/cli"
	"netcentric/achistory/pkg/history/export"
)

var exportFlags struct {
	format string
	output string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export history entry metadata",
	Long: `Export the properties of all history entries in container order. Log file
contents are not exported.

Examples:
  achistory export --format json
  achistory export --format csv --output history.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFlags.format, "format", export.FormatJSON, "export format: json, csv")
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	exp, err := export.New(exportFlags.format)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	var w io.Writer = cmd.OutOrStdout()
	if exportFlags.output != "" {
		f, err := os.Create(exportFlags.output)
		if err != nil {
			return cli.NewCommandError("export", err)
		}
		defer f.Close()
		w = f
	}

	n, err := export.Repository(ctx, a.session, exp, w)
	if err != nil {
		return cli.NewCommandError("export", err)
	}

	a.telemetry.Logger().Info("history exported", "entries", n, "format", exp.Format())
	return nil
}
