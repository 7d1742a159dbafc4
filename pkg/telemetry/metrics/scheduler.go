package metrics

import (
	"time"

	"netcentric/achistory/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// SchedulerMetrics tracks scheduled prune runs.
//
// Metrics:
//   - achistory_history_scheduled_prune_runs_total: runs by result
//   - achistory_history_scheduled_prune_duration_seconds: run duration
//   - achistory_history_scheduled_prune_last_run_timestamp_seconds: last run time
type SchedulerMetrics struct {
	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram
	lastRun     prometheus.Gauge
}

// NewSchedulerMetrics creates and registers scheduler metrics with the provided registry.
func NewSchedulerMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SchedulerMetrics {
	sm := &SchedulerMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "scheduled_prune_runs_total",
				Help:      "Total number of scheduled prune runs",
			},
			[]string{"result"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "scheduled_prune_duration_seconds",
				Help:      "Duration of scheduled prune runs in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),

		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "scheduled_prune_last_run_timestamp_seconds",
				Help:      "Unix time of the last scheduled prune run",
			},
		),
	}

	registry.MustRegister(sm.runsTotal, sm.runDuration, sm.lastRun)

	return sm
}

// RecordRun records one run with its result label ("success" or "error").
func (sm *SchedulerMetrics) RecordRun(result string, duration time.Duration) {
	sm.runsTotal.WithLabelValues(result).Inc()
	sm.runDuration.Observe(duration.Seconds())
	sm.lastRun.SetToCurrentTime()
}
