package metrics

import (
	"time"

	"netcentric/achistory/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// HistoryMetrics tracks writes, pruning and rendering of history entries.
//
// Metrics:
//   - achistory_history_entries_persisted_total: stored entries by origin and status
//   - achistory_history_persist_errors_total: failed persist calls by origin
//   - achistory_history_persist_duration_seconds: persist duration
//   - achistory_history_entries_pruned_total: entries removed by retention
//   - achistory_history_entries_retained: entries left after the last prune
//   - achistory_history_render_errors_total: renderings with an inline error
type HistoryMetrics struct {
	persistedTotal  *prometheus.CounterVec
	persistErrors   *prometheus.CounterVec
	persistDuration prometheus.Histogram
	prunedTotal     prometheus.Counter
	retained        prometheus.Gauge
	renderErrors    prometheus.Counter
}

// NewHistoryMetrics creates and registers history metrics with the provided registry.
func NewHistoryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HistoryMetrics {
	hm := &HistoryMetrics{
		persistedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "entries_persisted_total",
				Help:      "Total number of history entries written",
			},
			[]string{"origin", "status"},
		),

		persistErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "persist_errors_total",
				Help:      "Total number of history writes that failed in the repository",
			},
			[]string{"origin"},
		),

		persistDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "persist_duration_seconds",
				Help:      "Duration of writing, pruning and reordering one entry",
				Buckets:   cfg.DurationBuckets,
			},
		),

		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "entries_pruned_total",
				Help:      "Total number of history entries removed by retention",
			},
		),

		retained: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "entries_retained",
				Help:      "Number of history entries kept by the last prune",
			},
		),

		renderErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "render_errors_total",
				Help:      "Total number of log renderings that ended in an error",
			},
		),
	}

	registry.MustRegister(
		hm.persistedTotal,
		hm.persistErrors,
		hm.persistDuration,
		hm.prunedTotal,
		hm.retained,
		hm.renderErrors,
	)

	return hm
}

// RecordPersist records a stored entry and the time it took.
func (hm *HistoryMetrics) RecordPersist(origin, status string, duration time.Duration) {
	hm.persistedTotal.WithLabelValues(origin, status).Inc()
	hm.persistDuration.Observe(duration.Seconds())
}

// RecordPersistError records a failed write.
func (hm *HistoryMetrics) RecordPersistError(origin string) {
	hm.persistErrors.WithLabelValues(origin).Inc()
}

// RecordPruned adds deleted to the pruned counter.
func (hm *HistoryMetrics) RecordPruned(deleted int) {
	if deleted > 0 {
		hm.prunedTotal.Add(float64(deleted))
	}
}

// SetRetained sets the retained gauge.
func (hm *HistoryMetrics) SetRetained(count int) {
	hm.retained.Set(float64(count))
}

// RecordRenderError increments the render error counter.
func (hm *HistoryMetrics) RecordRenderError() {
	hm.renderErrors.Inc()
}
