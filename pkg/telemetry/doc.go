// Package telemetry provides observability for achistory.
//
// # Components
//
//   - logging: structured logging through log/slog
//   - metrics: Prometheus metrics collection
//   - tracing: OpenTelemetry tracing
//   - health: liveness and readiness endpoints
//
// # Usage
//
//	cfg := config.GetConfig()
//	tel, err := telemetry.New(&cfg.Telemetry)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	rec := recorder.New(recorder.Config{
//	    Metrics: tel.Metrics(),
//	    Tracer:  tel.Tracer(),
//	})
package telemetry
