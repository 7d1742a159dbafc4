package report

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"

	"netcentric/achistory/pkg/history"
	"netcentric/achistory/pkg/repository"
	"netcentric/achistory/pkg/telemetry/logging"
	"netcentric/achistory/pkg/telemetry/metrics"
	"netcentric/achistory/pkg/telemetry/tracing"
)

// Line breaks used by the text and HTML renderings.
const (
	TextLineBreak = "\n"
	HTMLLineBreak = "<br />"
)

// Config contains the collaborators of a Formatter. All fields are optional.
type Config struct {
	// Metrics counts renderings that ended in an error.
	Metrics *metrics.Collector

	// Tracer opens a "history.render" span per rendering.
	Tracer *tracing.Tracer
}

// Options control a single rendering.
type Options struct {
	// LineBreak separates the lines of the output.
	LineBreak string

	// Verbose selects the verbose log file instead of the normal one.
	Verbose bool

	// Escape HTML-escapes text read from the repository.
	Escape bool
}

// Formatter renders stored history entries for display.
type Formatter struct {
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	logger  *slog.Logger
}

// NewFormatter creates a new Formatter.
func NewFormatter(config Config) *Formatter {
	return &Formatter{
		metrics: config.Metrics,
		tracer:  config.Tracer,
		logger:  slog.Default().With("component", "history.report"),
	}
}

// RenderText renders the entry with "\n" line breaks.
func (f *Formatter) RenderText(ctx context.Context, s repository.Session, name string, verbose bool) string {
	return f.Render(ctx, s, name, Options{LineBreak: TextLineBreak, Verbose: verbose})
}

// RenderHTML renders the entry with "<br />" line breaks and escapes the
// stored text.
func (f *Formatter) RenderHTML(ctx context.Context, s repository.Session, name string, verbose bool) string {
	return f.Render(ctx, s, name, Options{LineBreak: HTMLLineBreak, Verbose: verbose, Escape: true})
}

// Render renders the entry called name. name is either an entry name or the
// absolute path of an entry, a direct child of the history container.
//
// Render never fails. When reading the entry fails, the output built so far
// is followed by a line "ERROR while retrieving log: <error>" and the error
// is logged.
func (f *Formatter) Render(ctx context.Context, s repository.Session, name string, opts Options) string {
	if opts.LineBreak == "" {
		opts.LineBreak = TextLineBreak
	}

	path, err := entryPath(name)

	ctx = logging.WithEntry(ctx, repository.Name(path))
	ctx, span := f.tracer.Start(ctx, "history.render")
	defer span.End()
	span.SetAttributes(tracing.AttrEntryPath.String(path), tracing.AttrVerbose.Bool(opts.Verbose))

	var sb strings.Builder
	if err == nil {
		err = f.render(ctx, s, path, opts, &sb)
	}
	if err != nil {
		err = history.NewRenderError(repository.Name(path), err)
		sb.WriteString(opts.LineBreak + "ERROR while retrieving log: " + err.Error())

		f.logger.ErrorContext(ctx, "failed to render history entry", "path", path, "error", err)
		f.metrics.RecordRenderError()
		tracing.SetError(span, err)
	}
	tracing.SetStatus(span, err)

	return sb.String()
}

func (f *Formatter) render(ctx context.Context, s repository.Session, path string, opts Options, sb *strings.Builder) error {
	node, err := s.GetNode(ctx, path)
	if err != nil {
		return err
	}

	text := func(str string) string {
		if opts.Escape {
			str = html.EscapeString(str)
		}
		return strings.ReplaceAll(str, "\n", opts.LineBreak)
	}

	date, err := requiredProperty(node, history.PropertyInstallationDate)
	if err != nil {
		return err
	}
	sb.WriteString("Installation triggered: " + text(date.String()))

	body, err := f.body(ctx, s, node, opts.Verbose)
	if err != nil {
		return err
	}
	sb.WriteString(opts.LineBreak + text(body))

	executionTime, err := requiredProperty(node, history.PropertyExecutionTime)
	if err != nil {
		return err
	}
	ms, err := executionTime.Int64()
	if err != nil {
		return fmt.Errorf("%s: %w", history.PropertyExecutionTime, err)
	}
	sb.WriteString(opts.LineBreak + "Execution time: " + strconv.FormatInt(ms, 10) + " ms")

	success, err := requiredProperty(node, history.PropertySuccess)
	if err != nil {
		return err
	}
	ok, err := success.Boolean()
	if err != nil {
		return fmt.Errorf("%s: %w", history.PropertySuccess, err)
	}
	sb.WriteString(opts.LineBreak + "Success: " + strconv.FormatBool(ok))

	return nil
}

// body returns the legacy messages property when present, otherwise the
// content of the selected log file.
func (f *Formatter) body(ctx context.Context, s repository.Session, node *repository.Node, verbose bool) (string, error) {
	if v, ok := node.Property(history.PropertyMessages); ok {
		return v.String(), nil
	}

	file := history.LogFileName
	if verbose {
		file = history.VerboseLogFileName
	}
	data, err := repository.ReadFile(ctx, s, repository.Join(node.Path, file))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// entryPath resolves name to the path of a history entry. Absolute paths
// outside the history container are rejected.
func entryPath(name string) (string, error) {
	if !strings.HasPrefix(name, "/") {
		if name == "" || name == "." || name == ".." || strings.Contains(name, "/") {
			return name, fmt.Errorf("%w: %q is not a history entry name", repository.ErrInvalidPath, name)
		}
		return history.EntryPath(name), nil
	}

	p, err := repository.CleanPath(name)
	if err != nil {
		return name, err
	}
	if repository.Parent(p) != history.ContainerPath {
		return p, fmt.Errorf("%w: %s is not below %s", repository.ErrInvalidPath, p, history.ContainerPath)
	}
	return p, nil
}

func requiredProperty(node *repository.Node, name string) (repository.Value, error) {
	v, ok := node.Property(name)
	if !ok {
		return repository.Value{}, fmt.Errorf("%s: %w", repository.Join(node.Path, name), repository.ErrPathNotFound)
	}
	return v, nil
}
