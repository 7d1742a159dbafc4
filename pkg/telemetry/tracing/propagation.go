package tracing

import (
	"context"
	"net/http"
	"os"
	"strings"

	"go.opentelemetry.io/otel/propagation"
)

// Environment variables carrying W3C trace context into a CLI run. The
// installation process sets them so that the stored history entry joins
// the trace of the run that produced it.
const (
	EnvTraceParent = "TRACEPARENT"
	EnvTraceState  = "TRACESTATE"
)

var propagator = propagation.NewCompositeTextMapPropagator(
	propagation.TraceContext{},
	propagation.Baggage{},
)

// Propagator returns the W3C Trace Context and Baggage propagator.
func Propagator() propagation.TextMapPropagator {
	return propagator
}

// ExtractFromMap extracts trace context from a string map.
func ExtractFromMap(ctx context.Context, carrier map[string]string) context.Context {
	return Propagator().Extract(ctx, propagation.MapCarrier(carrier))
}

// InjectToMap injects trace context into a string map.
func InjectToMap(ctx context.Context, carrier map[string]string) {
	Propagator().Inject(ctx, propagation.MapCarrier(carrier))
}

// ExtractFromEnv extracts trace context from TRACEPARENT and TRACESTATE.
// An absent or malformed TRACEPARENT leaves ctx unchanged.
func ExtractFromEnv(ctx context.Context) context.Context {
	traceparent := os.Getenv(EnvTraceParent)
	if !ValidateTraceParent(traceparent) {
		return ctx
	}

	carrier := map[string]string{"traceparent": traceparent}
	if tracestate := os.Getenv(EnvTraceState); tracestate != "" {
		carrier["tracestate"] = tracestate
	}
	return ExtractFromMap(ctx, carrier)
}

// HTTPMiddleware extracts trace context from incoming requests and echoes
// the trace and span IDs in the response headers.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := Propagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		if sc := SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			w.Header().Set("X-Trace-ID", sc.TraceID().String())
			w.Header().Set("X-Span-ID", sc.SpanID().String())
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ValidateTraceParent validates the traceparent header format:
// version-trace_id-parent_id-trace_flags, e.g.
// 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01.
func ValidateTraceParent(traceparent string) bool {
	parts := strings.Split(traceparent, "-")
	if len(parts) != 4 {
		return false
	}

	widths := []int{2, 32, 16, 2}
	for i, part := range parts {
		if len(part) != widths[i] || !isHexString(part) {
			return false
		}
	}

	// All-zero trace and parent IDs are invalid
	if parts[1] == strings.Repeat("0", 32) || parts[2] == strings.Repeat("0", 16) {
		return false
	}

	return true
}

// isHexString checks if a string contains only hexadecimal characters.
func isHexString(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
