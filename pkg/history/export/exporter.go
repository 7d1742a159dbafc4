package export

import (
	"context"
	"fmt"
	"io"

	"netcentric/achistory/pkg/history"
	"netcentric/achistory/pkg/repository"
)

// Supported export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Exporter writes history entries in one format.
type Exporter interface {
	Format() string
	Export(ctx context.Context, entries []*history.Entry, w io.Writer) error
	ExportStream(ctx context.Context, entriesCh <-chan *history.Entry, w io.Writer) error
}

// New returns the exporter for format. JSON output is pretty-printed and
// CSV output carries a header row.
func New(format string) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(true), nil
	case FormatCSV:
		return NewCSVExporter(true), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (must be json or csv)", format)
	}
}

// Repository streams the entries of the history container to exp in
// container order and returns the number of entries written.
func Repository(ctx context.Context, s repository.Session, exp Exporter, w io.Writer) (int, error) {
	nodes, err := history.HistoryNodes(ctx, s)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	entriesCh := make(chan *history.Entry)
	decodeErr := make(chan error, 1)
	go func() {
		defer close(entriesCh)
		for _, node := range nodes {
			entry, err := history.EntryFromNode(node)
			if err != nil {
				decodeErr <- err
				return
			}
			select {
			case entriesCh <- entry:
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := exp.ExportStream(ctx, entriesCh, w); err != nil {
		return 0, err
	}

	select {
	case err := <-decodeErr:
		return 0, history.NewExportError(exp.Format(), len(nodes), err)
	default:
	}
	return len(nodes), nil
}
