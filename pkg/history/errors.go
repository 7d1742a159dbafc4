package history

import "fmt"

// RecordError represents a failure while persisting a history entry. The
// cause is the repository error as returned by the session.
type RecordError struct {
	Entry string // Entry name, empty if the failure came before naming
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("record error [entry=%s]: %v", e.Entry, e.Cause)
	}
	return fmt.Sprintf("record error: %v", e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RecordError) Unwrap() error {
	return e.Cause
}

// NewRecordError creates a new RecordError.
func NewRecordError(entry string, cause error) *RecordError {
	return &RecordError{
		Entry: entry,
		Cause: cause,
	}
}

// RetentionError represents a failure while pruning history entries.
// Deleted entries are not restored.
type RetentionError struct {
	Keep    int   // Configured retention count
	Deleted int   // Entries deleted before the failure
	Cause   error // Underlying error
}

// Error implements the error interface.
func (e *RetentionError) Error() string {
	return fmt.Sprintf("retention error [keep=%d, deleted=%d]: %v", e.Keep, e.Deleted, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RetentionError) Unwrap() error {
	return e.Cause
}

// NewRetentionError creates a new RetentionError.
func NewRetentionError(keep, deleted int, cause error) *RetentionError {
	return &RetentionError{
		Keep:    keep,
		Deleted: deleted,
		Cause:   cause,
	}
}

// RenderError represents a failure while rendering an entry.
type RenderError struct {
	Entry string // Entry name
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("render error [entry=%s]: %v", e.Entry, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a new RenderError.
func NewRenderError(entry string, cause error) *RenderError {
	return &RenderError{
		Entry: entry,
		Cause: cause,
	}
}

// ExportError represents a failure while exporting history entries.
type ExportError struct {
	Format     string // Export format ("json", "csv")
	EntryCount int    // Number of entries being exported
	Cause      error  // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, entry_count=%d]: %v", e.Format, e.EntryCount, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format string, entryCount int, cause error) *ExportError {
	return &ExportError{
		Format:     format,
		EntryCount: entryCount,
		Cause:      cause,
	}
}
