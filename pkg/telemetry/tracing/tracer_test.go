package tracing

import (
	"context"
	"errors"
	"testing"
	"time"

	"netcentric/achistory/pkg/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestNew tests the creation of a new tracer
func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name: "disabled tracing",
			config: &config.TracingConfig{
				Enabled:     false,
				ServiceName: "test-service",
			},
		},
		{
			name: "enabled with ratio sampler",
			config: &config.TracingConfig{
				Enabled:     true,
				Sampler:     "ratio",
				SampleRatio: 0.5,
				Endpoint:    "localhost:4317",
				ServiceName: "test-service",
				Insecure:    true,
				Timeout:     time.Second,
			},
			wantEnabled: true,
		},
		{
			name: "enabled with invalid sampler",
			config: &config.TracingConfig{
				Enabled:  true,
				Sampler:  "sometimes",
				Endpoint: "localhost:4317",
				Insecure: true,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer tracer.Shutdown(context.Background())

			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}
		})
	}
}

// TestNewWithExporter tests that finished spans reach the exporter
func TestNewWithExporter(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(&config.TracingConfig{Enabled: true, Sampler: config.SamplerAlways}, exporter)
	if err != nil {
		t.Fatalf("NewWithExporter() failed: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	ctx, parent := tracer.Start(context.Background(), "history.persist")
	SetEntryAttributes(parent, "history_1_via_api", "/var/statistics/achistory/history_1_via_api")
	_, child := tracer.Start(ctx, "history.prune")
	SetRetentionAttributes(child, 5, 2)
	child.End()
	parent.End()

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name != "history.prune" || spans[1].Name != "history.persist" {
		t.Errorf("unexpected span order %q, %q", spans[0].Name, spans[1].Name)
	}
	if spans[0].Parent.SpanID() != spans[1].SpanContext.SpanID() {
		t.Error("expected prune span to be a child of persist span")
	}
	if !hasAttribute(spans[1].Attributes, AttrEntryName.String("history_1_via_api")) {
		t.Errorf("missing entry name attribute in %v", spans[1].Attributes)
	}
	if !hasAttribute(spans[0].Attributes, AttrDeleted.Int(2)) {
		t.Errorf("missing deleted attribute in %v", spans[0].Attributes)
	}
}

// TestNewWithExporter_NilArguments tests argument validation
func TestNewWithExporter_NilArguments(t *testing.T) {
	if _, err := NewWithExporter(nil, tracetest.NewInMemoryExporter()); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewWithExporter(&config.TracingConfig{}, nil); err == nil {
		t.Error("expected error for nil exporter")
	}
}

// TestTracer_NilAndNoop tests that nil and noop tracers start usable spans
func TestTracer_NilAndNoop(t *testing.T) {
	for name, tracer := range map[string]*Tracer{"nil": nil, "noop": Noop()} {
		t.Run(name, func(t *testing.T) {
			ctx, span := tracer.Start(context.Background(), "history.render")
			if span == nil {
				t.Fatal("Start() returned nil span")
			}
			span.End()

			if TraceID(ctx) != "" {
				t.Error("expected no trace ID from noop span")
			}
			if tracer.Enabled() {
				t.Error("expected disabled tracer")
			}
			if err := tracer.Shutdown(context.Background()); err != nil {
				t.Errorf("Shutdown() failed: %v", err)
			}
		})
	}
}

// TestSetErrorAndStatus tests error recording on spans
func TestSetErrorAndStatus(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(&config.TracingConfig{Enabled: true}, exporter)
	if err != nil {
		t.Fatalf("NewWithExporter() failed: %v", err)
	}

	_, span := tracer.Start(context.Background(), "failing")
	failure := errors.New("repository unavailable")
	SetError(span, failure)
	SetError(span, nil)
	SetStatus(span, failure)
	span.End()

	_, ok := tracer.Start(context.Background(), "succeeding")
	SetStatus(ok, nil)
	ok.End()

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status.Code)
	}
	if len(spans[0].Events) != 1 {
		t.Errorf("expected one recorded exception event, got %d", len(spans[0].Events))
	}
	if spans[1].Status.Code != codes.Ok {
		t.Errorf("expected ok status, got %v", spans[1].Status.Code)
	}
}

func hasAttribute(attrs []attribute.KeyValue, want attribute.KeyValue) bool {
	for _, attr := range attrs {
		if attr == want {
			return true
		}
	}
	return false
}
