package tracing

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"netcentric/achistory/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc/credentials/insecure"
)

// InstrumentationName is the name spans are created under.
const InstrumentationName = "netcentric/achistory"

// Tracer wraps the OpenTelemetry tracer used by the history components.
type Tracer struct {
	config   *config.TracingConfig
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	sampler  sdktrace.Sampler
	enabled  bool
}

// New creates a new Tracer with the given configuration. It sets up an OTLP
// gRPC exporter and installs the provider and propagator globally.
//
// If tracing is disabled in the config, a noop tracer is returned.
//
// The tracer must be shut down when no longer needed:
//
//	defer tracer.Shutdown(context.Background())
func New(cfg *config.TracingConfig) (*Tracer, error) {
	if cfg == nil {
		return nil, errors.New("tracing config is nil")
	}
	if !cfg.Enabled {
		return Noop(), nil
	}

	exporter, err := createOTLPExporter(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	return newWithProvider(cfg, sdktrace.WithBatcher(exporter))
}

// NewWithExporter creates an enabled Tracer that hands every finished span
// synchronously to exporter. It is meant for tests and for tools that
// collect spans in process.
func NewWithExporter(cfg *config.TracingConfig, exporter sdktrace.SpanExporter) (*Tracer, error) {
	if cfg == nil {
		return nil, errors.New("tracing config is nil")
	}
	if exporter == nil {
		return nil, errors.New("span exporter is nil")
	}
	return newWithProvider(cfg, sdktrace.WithSyncer(exporter))
}

// Noop returns a disabled Tracer whose spans record nothing.
func Noop() *Tracer {
	return &Tracer{
		config: &config.TracingConfig{},
		tracer: noop.NewTracerProvider().Tracer(InstrumentationName),
	}
}

func newWithProvider(cfg *config.TracingConfig, export sdktrace.TracerProviderOption) (*Tracer, error) {
	sampler, err := newSampler(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = config.DefaultTracingServiceName
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(buildVersion()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		export,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(Propagator())

	return &Tracer{
		config:   cfg,
		tracer:   provider.Tracer(InstrumentationName),
		provider: provider,
		sampler:  sampler,
		enabled:  true,
	}, nil
}

// Start creates a new span with the given name and options. The span is
// linked to the parent span from the context. A nil Tracer starts noop spans.
//
//	ctx, span := tracer.Start(ctx, "history.persist")
//	defer span.End()
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if t == nil || t.tracer == nil {
		return noop.NewTracerProvider().Tracer(InstrumentationName).Start(ctx, name, opts...)
	}
	return t.tracer.Start(ctx, name, opts...)
}

// Shutdown flushes any pending spans and shuts down the tracer.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || !t.enabled || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// Enabled returns whether tracing is enabled.
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// createOTLPExporter creates an OTLP gRPC exporter. The connection is made
// lazily, so an unreachable collector does not delay startup.
func createOTLPExporter(cfg *config.TracingConfig) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}

	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(cfg.Timeout))
	}

	client := otlptracegrpc.NewClient(opts...)
	exporter, err := otlptrace.New(context.Background(), client)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	return exporter, nil
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// SpanFromContext returns the current span from the context.
// If no span exists, a noop span is returned.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// TraceID returns the trace ID from the context as a string.
// Returns empty string if no trace context exists.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// SetError marks the span as failed and records the error.
func SetError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String("error.message", err.Error()),
	)
	span.RecordError(err)
}

// SetStatus sets the span status based on an error.
// If err is nil, status is set to OK, otherwise to Error.
func SetStatus(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
