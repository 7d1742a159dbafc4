/*
Package cli provides command-line helpers for the achistory command.

Output Formatting:

Command results are printed as plain text lines or as JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, entries); err != nil {
		return err
	}

Signal Handling:

Commands run with a context that is cancelled on SIGINT or SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

Errors:

ConfigError and CommandError give failures the command or configuration
field they belong to. ExitCode maps them to process exit codes.
*/
package cli
