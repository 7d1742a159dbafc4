package telemetry

import (
	"context"
	"fmt"

	"netcentric/achistory/pkg/config"
	"netcentric/achistory/pkg/telemetry/logging"
	"netcentric/achistory/pkg/telemetry/metrics"
	"netcentric/achistory/pkg/telemetry/tracing"
)

// Telemetry bundles the logger, metrics collector and tracer built from
// one telemetry configuration section.
type Telemetry struct {
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// New builds all telemetry components and installs the logger as the slog
// default.
func New(cfg *config.TelemetryConfig) (*Telemetry, error) {
	logger, err := logging.New(logging.FromConfig(cfg.Logging))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.SetDefault()

	tracer, err := tracing.New(&cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	return &Telemetry{
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Metrics, nil),
		tracer:  tracer,
	}, nil
}

// Logger returns the structured logger.
func (t *Telemetry) Logger() *logging.Logger {
	return t.logger
}

// Metrics returns the Prometheus collector.
func (t *Telemetry) Metrics() *metrics.Collector {
	return t.metrics
}

// Tracer returns the OpenTelemetry tracer.
func (t *Telemetry) Tracer() *tracing.Tracer {
	return t.tracer
}

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.tracer.Shutdown(ctx)
}
