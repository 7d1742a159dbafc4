package report

import (
	"context"
	"fmt"

	"netcentric/achistory/pkg/history"
	"netcentric/achistory/pkg/repository"
)

// ListEntries returns one summary line per history entry in container order,
// numbered from 1:
//
//	1. /var/statistics/achistory/history_1709634600000_via_api (Tue Mar 05 10:30:00 UTC 2024) (ok)
//
// Children of the container that are not history entries are skipped and do
// not take a number. A missing container yields no lines.
func ListEntries(ctx context.Context, s repository.Session) ([]string, error) {
	entries, err := history.LoadEntries(ctx, s)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(entries))
	for i, entry := range entries {
		lines = append(lines, FormatListLine(i+1, entry))
	}
	return lines, nil
}

// FormatListLine formats entry as the n-th line of ListEntries.
func FormatListLine(n int, entry *history.Entry) string {
	return fmt.Sprintf("%d. %s (%s) (%s)", n, entry.Path, entry.InstallationDate, entry.Status())
}
