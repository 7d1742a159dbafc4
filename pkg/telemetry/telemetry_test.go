package telemetry

import (
	"context"
	"testing"

	"netcentric/achistory/pkg/config"
)

// TestNew_Defaults tests building telemetry from the default configuration
func TestNew_Defaults(t *testing.T) {
	cfg := config.NewDefaultConfig()

	tel, err := New(&cfg.Telemetry)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer tel.Shutdown(context.Background())

	if tel.Logger() == nil || tel.Metrics() == nil || tel.Tracer() == nil {
		t.Fatal("expected all components to be set")
	}
	if tel.Tracer().Enabled() {
		t.Error("expected tracing to be disabled by default")
	}
	if tel.Metrics().Registry() == nil {
		t.Error("expected a metrics registry")
	}
}

// TestNew_InvalidLogging tests that logger errors are returned
func TestNew_InvalidLogging(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Telemetry.Logging.Level = "verbose"

	if _, err := New(&cfg.Telemetry); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}
