package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for the ID of one CLI invocation or
	// scheduled job run.
	RunIDKey contextKey = "run_id"

	// EntryKey is the context key for the history entry being processed.
	EntryKey contextKey = "entry"

	// OriginKey is the context key for the origin of an installation run.
	OriginKey contextKey = "origin"

	// BackendKey is the context key for the repository backend name.
	BackendKey contextKey = "backend"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithEntry adds a history entry name to the context.
func WithEntry(ctx context.Context, entry string) context.Context {
	return context.WithValue(ctx, EntryKey, entry)
}

// GetEntry retrieves the history entry name from the context.
func GetEntry(ctx context.Context) string {
	if entry, ok := ctx.Value(EntryKey).(string); ok {
		return entry
	}
	return ""
}

// WithOrigin adds an origin name to the context.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, OriginKey, origin)
}

// GetOrigin retrieves the origin name from the context.
func GetOrigin(ctx context.Context) string {
	if origin, ok := ctx.Value(OriginKey).(string); ok {
		return origin
	}
	return ""
}

// WithBackend adds a repository backend name to the context.
func WithBackend(ctx context.Context, backend string) context.Context {
	return context.WithValue(ctx, BackendKey, backend)
}

// GetBackend retrieves the repository backend name from the context.
func GetBackend(ctx context.Context) string {
	if backend, ok := ctx.Value(BackendKey).(string); ok {
		return backend
	}
	return ""
}

// extractContextFields extracts common fields from context for logging,
// including the trace and span IDs of an active OpenTelemetry span.
func extractContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	var fields []slog.Attr

	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, slog.String("run_id", runID))
	}
	if entry := GetEntry(ctx); entry != "" {
		fields = append(fields, slog.String("entry", entry))
	}
	if origin := GetOrigin(ctx); origin != "" {
		fields = append(fields, slog.String("origin", origin))
	}
	if backend := GetBackend(ctx); backend != "" {
		fields = append(fields, slog.String("backend", backend))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	return fields
}

// ContextHandler is a slog.Handler that adds the context fields to every
// record logged with a context (InfoContext, ErrorContext, ...).
type ContextHandler struct {
	next slog.Handler
}

// NewContextHandler wraps next.
func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if fields := extractContextFields(ctx); len(fields) > 0 {
		r = r.Clone()
		r.AddAttrs(fields...)
	}
	return h.next.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}
