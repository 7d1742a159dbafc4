// Package metrics provides Prometheus metrics collection for achistory.
//
// # Overview
//
// The Collector registers two groups of metrics on its own registry:
//
//   - History metrics: entries persisted by origin and status, persist
//     duration and errors, entries pruned, entries retained, render errors
//   - Scheduler metrics: scheduled prune runs by result, their duration and
//     the time of the last run
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	collector.RecordPersist("api", true, 12*time.Millisecond)
//	collector.RecordPruned(3)
//	collector.SetRetained(5)
//
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// A nil *Collector is valid and records nothing, so callers that do not
// care about metrics can leave the field unset.
package metrics
