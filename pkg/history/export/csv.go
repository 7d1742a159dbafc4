package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"netcentric/achistory/pkg/history"
)

// CSVExporter exports history entries as CSV, one row per entry.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

// Format returns "csv".
func (e *CSVExporter) Format() string {
	return FormatCSV
}

// Export writes entries to w in CSV format.
func (e *CSVExporter) Export(ctx context.Context, entries []*history.Entry, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(headerRow()); err != nil {
			return history.NewExportError(FormatCSV, len(entries), err)
		}
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.Write(entryToRow(entry)); err != nil {
			return history.NewExportError(FormatCSV, len(entries), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return history.NewExportError(FormatCSV, len(entries), err)
	}
	return nil
}

// ExportStream writes entries received on entriesCh to w in CSV format,
// flushing every 100 rows.
func (e *CSVExporter) ExportStream(ctx context.Context, entriesCh <-chan *history.Entry, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(headerRow()); err != nil {
			return history.NewExportError(FormatCSV, 0, err)
		}
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case entry, ok := <-entriesCh:
			if !ok {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return history.NewExportError(FormatCSV, count, err)
				}
				return nil
			}

			if err := writer.Write(entryToRow(entry)); err != nil {
				return history.NewExportError(FormatCSV, count, err)
			}

			count++
			if count%100 == 0 {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return history.NewExportError(FormatCSV, count, err)
				}
			}
		}
	}
}

func headerRow() []string {
	return []string{
		"name", "path", "installation_date", "timestamp",
		"success", "execution_time_ms", "installed_from", "origin", "legacy",
	}
}

func entryToRow(entry *history.Entry) []string {
	return []string{
		entry.Name,
		entry.Path,
		entry.InstallationDate,
		strconv.FormatInt(entry.Timestamp, 10),
		strconv.FormatBool(entry.Success),
		strconv.FormatInt(entry.ExecutionTime, 10),
		entry.InstalledFrom,
		entry.Origin,
		strconv.FormatBool(entry.Legacy),
	}
}
