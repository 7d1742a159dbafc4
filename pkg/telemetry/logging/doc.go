// Package logging provides structured logging for achistory.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON and text output
//   - Configurable log levels (debug, info, warn, error)
//   - Context fields added to every record logged with a context
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	logger.SetDefault()
//
//	ctx = logging.WithRunID(ctx, uuid.NewString())
//	ctx = logging.WithEntry(ctx, "history_1700000000123_via_api")
//	slog.InfoContext(ctx, "Saved history")  // includes run_id and entry
//
// Components log through slog.Default().With("component", ...), so the
// handler installed by SetDefault applies to them. When an OpenTelemetry
// span is active in the context, its trace_id and span_id are added too.
package logging
