package retention

import (
	"context"
	"log/slog"
	"sort"

	"netcentric/achistory/pkg/history"
	"netcentric/achistory/pkg/repository"
	"netcentric/achistory/pkg/telemetry/metrics"
	"netcentric/achistory/pkg/telemetry/tracing"
)

// Config contains the collaborators of a Pruner. Both fields are optional.
type Config struct {
	// Metrics receives pruned and retained counts.
	Metrics *metrics.Collector

	// Tracer opens a "history.prune" span per call.
	Tracer *tracing.Tracer
}

// Pruner deletes history entries beyond a retention count.
type Pruner struct {
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	logger  *slog.Logger
}

// NewPruner creates a new retention pruner.
func NewPruner(config *Config) *Pruner {
	if config == nil {
		config = &Config{}
	}

	return &Pruner{
		metrics: config.Metrics,
		tracer:  config.Tracer,
		logger:  slog.Default().With("component", "history.retention"),
	}
}

// Prune keeps the keep newest history entries of the container and removes
// the rest. Entries are ranked by their timestamp property, newest first,
// with ties broken by name in descending order; container order plays no
// part. keep <= 0 removes every history entry. Children that are not
// history entries are left alone.
//
// Returns the number of entries removed. Removal stops at the first failure;
// entries removed before it stay removed and are counted in both the return
// value and the *history.RetentionError.
func (p *Pruner) Prune(ctx context.Context, s repository.Session, keep int) (int, error) {
	ctx, span := p.tracer.Start(ctx, "history.prune")
	defer span.End()

	if keep < 0 {
		keep = 0
	}

	nodes, err := history.HistoryNodes(ctx, s)
	if err != nil {
		err = history.NewRetentionError(keep, 0, err)
		tracing.SetError(span, err)
		return 0, err
	}

	if len(nodes) <= keep {
		p.logger.DebugContext(ctx, "history count within limit",
			"current", len(nodes),
			"keep", keep,
		)
		tracing.SetRetentionAttributes(span, keep, 0)
		p.metrics.SetRetained(len(nodes))
		return 0, nil
	}

	SortNewestFirst(nodes)

	deleted := 0
	for _, node := range nodes[keep:] {
		if err := s.RemoveNode(ctx, node.Path); err != nil {
			p.logger.ErrorContext(ctx, "failed to delete obsolete history node",
				"path", node.Path,
				"deleted_count", deleted,
				"error", err,
			)
			p.metrics.RecordPruned(deleted)
			err = history.NewRetentionError(keep, deleted, err)
			tracing.SetRetentionAttributes(span, keep, deleted)
			tracing.SetError(span, err)
			return deleted, err
		}
		p.logger.DebugContext(ctx, "deleted obsolete history node", "path", node.Path)
		deleted++
	}

	p.logger.InfoContext(ctx, "pruned history",
		"deleted_count", deleted,
		"keep", keep,
	)
	tracing.SetRetentionAttributes(span, keep, deleted)
	p.metrics.RecordPruned(deleted)
	p.metrics.SetRetained(len(nodes) - deleted)

	return deleted, nil
}

// SortNewestFirst sorts history entry nodes by timestamp, newest first.
// Entries with equal timestamps are ordered by name, descending, so the
// result does not depend on the input order.
func SortNewestFirst(nodes []*repository.Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		ti, tj := history.Timestamp(nodes[i]), history.Timestamp(nodes[j])
		if ti != tj {
			return ti > tj
		}
		return nodes[i].Name > nodes[j].Name
	})
}
