package recorder

import (
	"context"
	"log/slog"
	"time"

	"netcentric/achistory/pkg/history"
	"netcentric/achistory/pkg/history/retention"
	"netcentric/achistory/pkg/repository"
	"netcentric/achistory/pkg/telemetry/logging"
	"netcentric/achistory/pkg/telemetry/metrics"
	"netcentric/achistory/pkg/telemetry/tracing"
)

// Config contains the collaborators of a Recorder. All fields are optional.
type Config struct {
	// Metrics receives persist and prune observations.
	Metrics *metrics.Collector

	// Tracer opens a "history.persist" span per call.
	Tracer *tracing.Tracer

	// Clock returns the current time used to name entries.
	// Default: time.Now
	Clock func() time.Time
}

// Recorder persists installation logs as history entries.
type Recorder struct {
	pruner  *retention.Pruner
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	now     func() time.Time
	logger  *slog.Logger
}

// New creates a new Recorder.
func New(config Config) *Recorder {
	if config.Clock == nil {
		config.Clock = time.Now
	}

	return &Recorder{
		pruner:  retention.NewPruner(&retention.Config{Metrics: config.Metrics, Tracer: config.Tracer}),
		metrics: config.Metrics,
		tracer:  config.Tracer,
		now:     config.Clock,
		logger:  slog.Default().With("component", "history.recorder"),
	}
}

// Persist stores log as a new history entry, prunes the container down to
// keep entries and moves the new entry to the top of the container.
//
// The entry is named after the current time and the origin of the run. An
// entry that already exists under the same name is reused and overwritten.
// Repository failures are returned as *history.RecordError wrapping the
// session's *repository.StorageError. Write, prune and reorder are separate
// repository operations: a failure part way leaves the earlier steps
// applied.
func (r *Recorder) Persist(ctx context.Context, s repository.Session, log *history.InstallationLog, keep int) (*history.EntryHandle, error) {
	start := time.Now()
	name := history.EntryName(r.now(), log.Origin, log.PackageName)
	origin := history.OriginTag(name)
	path := history.EntryPath(name)

	ctx = logging.WithOrigin(logging.WithEntry(ctx, name), origin)
	ctx, span := r.tracer.Start(ctx, "history.persist")
	defer span.End()
	tracing.SetEntryAttributes(span, name, path)
	tracing.SetInstallationAttributes(span, origin, log.Success, log.ExecutionTime.Milliseconds())

	fail := func(err error) (*history.EntryHandle, error) {
		r.logger.ErrorContext(ctx, "failed to save history", "path", path, "error", err)
		r.metrics.RecordPersistError(origin)
		err = history.NewRecordError(name, err)
		tracing.SetError(span, err)
		tracing.SetStatus(span, err)
		return nil, err
	}

	container, err := history.ContainerNode(ctx, s)
	if err != nil {
		return fail(err)
	}

	node, err := repository.GetOrAddNode(ctx, s, path, history.NodeTypeUnstructured)
	if err != nil {
		return fail(err)
	}

	timestamp, err := writeMetadata(ctx, s, node.Path, log)
	if err != nil {
		return fail(err)
	}

	if _, err := repository.PutFile(ctx, s, node.Path, history.VerboseLogFileName, history.LogMimeType, []byte(log.VerboseMessageHistory())); err != nil {
		return fail(err)
	}
	if _, err := repository.PutFile(ctx, s, node.Path, history.LogFileName, history.LogMimeType, []byte(log.MessageHistory())); err != nil {
		return fail(err)
	}

	if _, err := r.pruner.Prune(ctx, s, keep); err != nil {
		return fail(err)
	}

	if err := r.moveToTop(ctx, s, container.Path, name); err != nil {
		return fail(err)
	}

	r.logger.InfoContext(ctx, "saved history", "path", node.Path)
	log.AddMessage("Saved history in node: " + node.Path)

	r.metrics.RecordPersist(origin, log.Success, time.Since(start))
	tracing.SetStatus(span, nil)

	return &history.EntryHandle{
		Name:      name,
		Path:      node.Path,
		Timestamp: timestamp,
	}, nil
}

type property struct {
	name  string
	value repository.Value
}

// writeMetadata sets the entry properties and returns the timestamp written.
func writeMetadata(ctx context.Context, s repository.Session, path string, log *history.InstallationLog) (int64, error) {
	timestamp := log.InstallationDate.UnixMilli()
	executionTime := log.ExecutionTime.Milliseconds()
	if executionTime < 0 {
		executionTime = 0
	}

	props := []property{
		{history.PropertyInstallationDate, repository.StringValue(history.FormatInstallationDate(log.InstallationDate))},
		{history.PropertySuccess, repository.BooleanValue(log.Success)},
		{history.PropertyExecutionTime, repository.LongValue(executionTime)},
		{history.PropertyTimestamp, repository.LongValue(timestamp)},
		{history.PropertyResourceType, repository.StringValue(history.ResourceType)},
	}
	if installedFrom, ok := history.InstalledFrom(log.PackageName, log.ConfigFiles); ok {
		props = append(props, property{history.PropertyInstalledFrom, repository.StringValue(installedFrom)})
	}

	for _, p := range props {
		if err := s.SetProperty(ctx, path, p.name, p.value); err != nil {
			return 0, err
		}
	}
	return timestamp, nil
}

// moveToTop orders the entry before the current first child of the
// container. Nothing is moved when the entry is already first or when
// pruning removed it.
func (r *Recorder) moveToTop(ctx context.Context, s repository.Session, containerPath, name string) error {
	children, err := s.ChildNodes(ctx, containerPath)
	if err != nil {
		return err
	}

	found := false
	for _, child := range children {
		if child.Name == name {
			found = true
			break
		}
	}
	if !found {
		r.logger.WarnContext(ctx, "new history entry was pruned right away, check the retention count",
			"entry", name,
		)
		return nil
	}

	if first := children[0].Name; first != name {
		return s.OrderBefore(ctx, containerPath, name, first)
	}
	return nil
}
