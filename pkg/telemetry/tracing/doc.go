// Package tracing provides OpenTelemetry tracing for achistory.
//
// # Overview
//
// Persist, prune and render calls each open a span. Spans are exported over
// OTLP gRPC when tracing is enabled; otherwise a noop tracer is used and a
// nil *Tracer behaves the same way.
//
// # Trace Context Propagation
//
// A CLI run joins the trace of the installation that invoked it when the
// W3C traceparent is handed over in the environment:
//
//	TRACEPARENT=00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01 achistory persist ...
//
// The serve command extracts the same header from HTTP requests.
//
// # Sampling Strategies
//
//   - always: Sample all traces
//   - never: Sample no traces
//   - ratio: Sample a fraction of traces
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "history.persist")
//	defer span.End()
package tracing
