package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the handler that "achistory serve" mounts at
// MetricsConfig.Path. Scrapes are counted in
// promhttp_metric_handler_requests_total on the collector's own registry,
// and gathering errors are logged and counted without failing the scrape.
// A nil Collector serves 404, as a disabled metrics configuration does.
//
// Example:
//
//	collector := metrics.NewCollector(cfg, nil)
//	mux.Handle(cfg.Path, collector.Handler())
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}

	logger := slog.Default().With("component", "metrics")
	return promhttp.InstrumentMetricHandler(c.registry, promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
			ErrorHandling:     promhttp.ContinueOnError,
			Registry:          c.registry,
			EnableOpenMetrics: true,
		},
	))
}
