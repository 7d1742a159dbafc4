// Package export writes history entry metadata for audit tooling.
//
// # Formats
//
//   - JSON: an array of entries, optionally pretty-printed
//   - CSV: one row per entry with an optional header row
//
// Both exporters accept a slice or a channel of entries:
//
//	exp, err := export.New("csv")
//	if err != nil {
//	    return err
//	}
//	n, err := export.Repository(ctx, session, exp, os.Stdout)
//
// Log file contents are not exported, only the entry properties.
//
// Failures while encoding or writing are returned as *history.ExportError.
package export
