package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set on history spans.
const (
	AttrEntryName     = attribute.Key("achistory.entry.name")
	AttrEntryPath     = attribute.Key("achistory.entry.path")
	AttrOrigin        = attribute.Key("achistory.origin")
	AttrSuccess       = attribute.Key("achistory.success")
	AttrExecutionTime = attribute.Key("achistory.execution_time_ms")
	AttrKeep          = attribute.Key("achistory.retention.keep")
	AttrDeleted       = attribute.Key("achistory.retention.deleted")
	AttrVerbose       = attribute.Key("achistory.render.verbose")
)

// SetEntryAttributes sets the name and path of the entry a span works on.
func SetEntryAttributes(span trace.Span, name, path string) {
	span.SetAttributes(
		AttrEntryName.String(name),
		AttrEntryPath.String(path),
	)
}

// SetInstallationAttributes sets the outcome of the recorded installation.
func SetInstallationAttributes(span trace.Span, origin string, success bool, executionTimeMs int64) {
	span.SetAttributes(
		AttrOrigin.String(origin),
		AttrSuccess.Bool(success),
		AttrExecutionTime.Int64(executionTimeMs),
	)
}

// SetRetentionAttributes sets the retention count and the number of deleted entries.
func SetRetentionAttributes(span trace.Span, keep, deleted int) {
	span.SetAttributes(
		AttrKeep.Int(keep),
		AttrDeleted.Int(deleted),
	)
}
