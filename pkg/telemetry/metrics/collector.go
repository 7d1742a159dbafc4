package metrics

import (
	"time"

	"netcentric/achistory/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every Prometheus metric exported by achistory. Components
// receive a *Collector and call its Record methods; a nil *Collector and a
// disabled configuration both turn every method into a no-op.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	historyMetrics   *HistoryMetrics
	schedulerMetrics *SchedulerMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "achistory",
//		Subsystem: "history",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = config.DefaultDurationBuckets
	}

	return &Collector{
		config:           cfg,
		registry:         registry,
		historyMetrics:   NewHistoryMetrics(cfg, registry),
		schedulerMetrics: NewSchedulerMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordPersist records a stored history entry.
//
// Parameters:
//   - origin: origin suffix of the entry (e.g. "api", "scheduler", "hook")
//   - success: the installation outcome stored in the entry
//   - duration: time spent writing, pruning and reordering
func (c *Collector) RecordPersist(origin string, success bool, duration time.Duration) {
	if !c.enabled() {
		return
	}

	c.historyMetrics.RecordPersist(origin, statusLabel(success), duration)
}

// RecordPersistError records a persist call that failed in the repository.
func (c *Collector) RecordPersistError(origin string) {
	if !c.enabled() {
		return
	}

	c.historyMetrics.RecordPersistError(origin)
}

// RecordPruned records the number of entries removed by one prune run.
func (c *Collector) RecordPruned(deleted int) {
	if !c.enabled() {
		return
	}

	c.historyMetrics.RecordPruned(deleted)
}

// SetRetained sets the number of history entries left after pruning.
func (c *Collector) SetRetained(count int) {
	if !c.enabled() {
		return
	}

	c.historyMetrics.SetRetained(count)
}

// RecordRenderError records a log rendering that ended in an inline error.
func (c *Collector) RecordRenderError() {
	if !c.enabled() {
		return
	}

	c.historyMetrics.RecordRenderError()
}

// RecordScheduledRun records one run of the prune scheduler.
func (c *Collector) RecordScheduledRun(err error, duration time.Duration) {
	if !c.enabled() {
		return
	}

	result := "success"
	if err != nil {
		result = "error"
	}
	c.schedulerMetrics.RecordRun(result, duration)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func statusLabel(success bool) string {
	if success {
		return "ok"
	}
	return "failed"
}
