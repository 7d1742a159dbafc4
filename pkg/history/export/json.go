package export

import (
	"context"
	"encoding/json"
	"io"

	"netcentric/achistory/pkg/history"
)

// JSONExporter exports history entries as a JSON array.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{
		Pretty: pretty,
	}
}

// Format returns "json".
func (e *JSONExporter) Format() string {
	return FormatJSON
}

// Export writes entries to w as a JSON array. No entries produce "[]".
func (e *JSONExporter) Export(ctx context.Context, entries []*history.Entry, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entries == nil {
		entries = []*history.Entry{}
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(entries, "", "  ")
	} else {
		data, err = json.Marshal(entries)
	}
	if err != nil {
		return history.NewExportError(FormatJSON, len(entries), err)
	}

	if _, err := w.Write(data); err != nil {
		return history.NewExportError(FormatJSON, len(entries), err)
	}
	return nil
}

// ExportStream writes entries received on entriesCh to w as a JSON array,
// one entry at a time. The array is closed once the channel is closed.
func (e *JSONExporter) ExportStream(ctx context.Context, entriesCh <-chan *history.Entry, w io.Writer) error {
	if _, err := w.Write([]byte("[")); err != nil {
		return history.NewExportError(FormatJSON, 0, err)
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case entry, ok := <-entriesCh:
			if !ok {
				if _, err := w.Write([]byte("]")); err != nil {
					return history.NewExportError(FormatJSON, count, err)
				}
				return nil
			}

			if count > 0 {
				sep := ","
				if e.Pretty {
					sep = ",\n"
				}
				if _, err := w.Write([]byte(sep)); err != nil {
					return history.NewExportError(FormatJSON, count, err)
				}
			}

			data, err := e.serializeEntry(entry)
			if err != nil {
				return history.NewExportError(FormatJSON, count, err)
			}
			if _, err := w.Write(data); err != nil {
				return history.NewExportError(FormatJSON, count, err)
			}

			count++
		}
	}
}

func (e *JSONExporter) serializeEntry(entry *history.Entry) ([]byte, error) {
	if e.Pretty {
		return json.MarshalIndent(entry, "  ", "  ")
	}
	return json.Marshal(entry)
}
