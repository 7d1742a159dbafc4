package report

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"netcentric/achistory/pkg/config"
	"netcentric/achistory/pkg/history"
	"netcentric/achistory/pkg/history/recorder"
	"netcentric/achistory/pkg/repository"
	"netcentric/achistory/pkg/telemetry/metrics"
)

var baseTime = time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)

func stepClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}

// persist stores a run with two normal and one verbose message.
func persist(t *testing.T, rec *recorder.Recorder, s repository.Session, date time.Time, success bool, keep int) *history.EntryHandle {
	t.Helper()

	log := history.NewInstallationLog(history.OriginAPI)
	log.InstallationDate = date
	log.Success = success
	log.ExecutionTime = 250 * time.Millisecond
	log.AddMessage("Applied <3> authorizables")
	log.AddVerboseMessage("Processing /content/a & /content/b")
	log.AddMessage("Done")

	handle, err := rec.Persist(context.Background(), s, log, keep)
	if err != nil {
		t.Fatalf("Persist() failed: %v", err)
	}
	return handle
}

// addLegacyEntry stores an entry that keeps its log in the messages property.
func addLegacyEntry(t *testing.T, s repository.Session, name, messages string) {
	t.Helper()
	ctx := context.Background()

	if _, err := history.ContainerNode(ctx, s); err != nil {
		t.Fatalf("ContainerNode() failed: %v", err)
	}
	path := history.EntryPath(name)
	if _, err := s.AddNode(ctx, path, history.NodeTypeUnstructured); err != nil {
		t.Fatalf("AddNode() failed: %v", err)
	}
	props := map[string]repository.Value{
		history.PropertyInstallationDate: repository.StringValue("Mon Jan 15 08:00:00 UTC 2018"),
		history.PropertySuccess:          repository.BooleanValue(true),
		history.PropertyExecutionTime:    repository.LongValue(42),
		history.PropertyTimestamp:        repository.LongValue(1516003200000),
		history.PropertyMessages:         repository.StringValue(messages),
	}
	for name, value := range props {
		if err := s.SetProperty(ctx, path, name, value); err != nil {
			t.Fatalf("SetProperty(%s) failed: %v", name, err)
		}
	}
}

func TestFormatter_Render(t *testing.T) {
	s := repository.NewMemorySession()
	defer s.Close()

	rec := recorder.New(recorder.Config{Clock: stepClock(baseTime, time.Second)})
	handle := persist(t, rec, s, baseTime, true, 5)

	f := NewFormatter(Config{})
	ctx := context.Background()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "text",
			got:  f.RenderText(ctx, s, handle.Name, false),
			want: "Installation triggered: Tue Mar 05 10:30:00 UTC 2024\n" +
				"Applied <3> authorizables\nDone\n" +
				"Execution time: 250 ms\n" +
				"Success: true",
		},
		{
			name: "text verbose",
			got:  f.RenderText(ctx, s, handle.Name, true),
			want: "Installation triggered: Tue Mar 05 10:30:00 UTC 2024\n" +
				"Applied <3> authorizables\nProcessing /content/a & /content/b\nDone\n" +
				"Execution time: 250 ms\n" +
				"Success: true",
		},
		{
			name: "html",
			got:  f.RenderHTML(ctx, s, handle.Name, false),
			want: "Installation triggered: Tue Mar 05 10:30:00 UTC 2024<br />" +
				"Applied &lt;3&gt; authorizables<br />Done<br />" +
				"Execution time: 250 ms<br />" +
				"Success: true",
		},
		{
			name: "html verbose",
			got:  f.RenderHTML(ctx, s, handle.Name, true),
			want: "Installation triggered: Tue Mar 05 10:30:00 UTC 2024<br />" +
				"Applied &lt;3&gt; authorizables<br />Processing /content/a &amp; /content/b<br />Done<br />" +
				"Execution time: 250 ms<br />" +
				"Success: true",
		},
		{
			name: "absolute path",
			got:  f.RenderText(ctx, s, handle.Path, false),
			want: "Installation triggered: Tue Mar 05 10:30:00 UTC 2024\n" +
				"Applied <3> authorizables\nDone\n" +
				"Execution time: 250 ms\n" +
				"Success: true",
		},
		{
			name: "custom line break without escaping",
			got:  f.Render(ctx, s, handle.Name, Options{LineBreak: " | "}),
			want: "Installation triggered: Tue Mar 05 10:30:00 UTC 2024 | " +
				"Applied <3> authorizables | Done | " +
				"Execution time: 250 ms | " +
				"Success: true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got:\n%q\nwant:\n%q", tt.got, tt.want)
			}
		})
	}
}

func TestFormatter_RenderLegacyEntry(t *testing.T) {
	s := repository.NewMemorySession()
	defer s.Close()

	addLegacyEntry(t, s, "history_1516003200000", "line one\nline two")

	f := NewFormatter(Config{})
	ctx := context.Background()

	want := "Installation triggered: Mon Jan 15 08:00:00 UTC 2018\nline one\nline two\nExecution time: 42 ms\nSuccess: true"

	// the verbose flag has no effect on legacy entries
	normal := f.RenderText(ctx, s, "history_1516003200000", false)
	verbose := f.RenderText(ctx, s, "history_1516003200000", true)
	if normal != want {
		t.Errorf("RenderText() = %q, want %q", normal, want)
	}
	if verbose != normal {
		t.Errorf("verbose rendering %q differs from %q", verbose, normal)
	}
}

func TestFormatter_RenderMissingEntry(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true}, registry)

	s := repository.NewMemorySession()
	defer s.Close()

	f := NewFormatter(Config{Metrics: collector})
	got := f.RenderHTML(context.Background(), s, "history_1_via_api", false)

	if !strings.HasPrefix(got, "<br />ERROR while retrieving log: ") {
		t.Errorf("expected inline error, got %q", got)
	}
	if !strings.Contains(got, repository.ErrPathNotFound.Error()) {
		t.Errorf("expected cause in output, got %q", got)
	}

	expected := `
# HELP achistory_history_render_errors_total Total number of log renderings that ended in an error
# TYPE achistory_history_render_errors_total counter
achistory_history_render_errors_total 1
`
	if err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "achistory_history_render_errors_total"); err != nil {
		t.Errorf("unexpected metric: %v", err)
	}
}

func TestFormatter_RenderOutsideContainer(t *testing.T) {
	s := repository.NewMemorySession()
	defer s.Close()
	ctx := context.Background()

	rec := recorder.New(recorder.Config{Clock: stepClock(baseTime, time.Second)})
	handle := persist(t, rec, s, baseTime, true, 5)

	f := NewFormatter(Config{})

	names := []string{
		"/var",
		history.StatisticsPath,
		history.ContainerPath,
		handle.Path + "/" + history.LogFileName,
		history.ContainerPath + "/../achistory",
		"..",
		handle.Name + "/" + history.LogFileName,
		"",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			got := f.RenderText(ctx, s, name, false)
			if !strings.HasPrefix(got, "\nERROR while retrieving log: ") {
				t.Errorf("expected only an inline error, got %q", got)
			}
			if !strings.Contains(got, repository.ErrInvalidPath.Error()) {
				t.Errorf("expected invalid path error, got %q", got)
			}
		})
	}

	// a clean path to an entry is still accepted
	if got := f.RenderText(ctx, s, history.ContainerPath+"/./"+handle.Name, false); !strings.HasSuffix(got, "Success: true") {
		t.Errorf("unexpected rendering %q", got)
	}
}

func TestFormatter_RenderPartialOutput(t *testing.T) {
	s := repository.NewMemorySession()
	defer s.Close()
	ctx := context.Background()

	rec := recorder.New(recorder.Config{Clock: stepClock(baseTime, time.Second)})
	handle := persist(t, rec, s, baseTime, false, 5)

	if err := s.RemoveNode(ctx, repository.Join(handle.Path, history.VerboseLogFileName)); err != nil {
		t.Fatalf("RemoveNode() failed: %v", err)
	}

	f := NewFormatter(Config{})

	got := f.RenderText(ctx, s, handle.Name, true)
	if !strings.HasPrefix(got, "Installation triggered: Tue Mar 05 10:30:00 UTC 2024\nERROR while retrieving log: ") {
		t.Errorf("expected header followed by error, got %q", got)
	}
	if strings.Contains(got, "Execution time") {
		t.Errorf("rendering must stop at the error, got %q", got)
	}

	// the normal log is still intact
	if got := f.RenderText(ctx, s, handle.Name, false); !strings.HasSuffix(got, "Success: false") {
		t.Errorf("unexpected rendering %q", got)
	}
}

func TestListEntries(t *testing.T) {
	s := repository.NewMemorySession()
	defer s.Close()
	ctx := context.Background()

	lines, err := ListEntries(ctx, s)
	if err != nil || len(lines) != 0 {
		t.Fatalf("ListEntries() on empty repository = %v, %v", lines, err)
	}

	rec := recorder.New(recorder.Config{Clock: stepClock(baseTime, time.Second)})

	var handles []*history.EntryHandle
	for i := 0; i < 3; i++ {
		handles = append(handles, persist(t, rec, s, baseTime.Add(time.Duration(i)*time.Minute), i != 1, 3))
	}

	lines, err = ListEntries(ctx, s)
	if err != nil {
		t.Fatalf("ListEntries() failed: %v", err)
	}
	want := []string{
		fmt.Sprintf("1. %s (Tue Mar 05 10:32:00 UTC 2024) (ok)", handles[2].Path),
		fmt.Sprintf("2. %s (Tue Mar 05 10:31:00 UTC 2024) (failed)", handles[1].Path),
		fmt.Sprintf("3. %s (Tue Mar 05 10:30:00 UTC 2024) (ok)", handles[0].Path),
	}
	assertLines(t, lines, want)

	// a non-entry child takes no number
	if _, err := s.AddNode(ctx, repository.Join(history.ContainerPath, "settings"), history.NodeTypeUnstructured); err != nil {
		t.Fatalf("AddNode() failed: %v", err)
	}

	// persisting with a lower retention count leaves the two newest
	handles = append(handles, persist(t, rec, s, baseTime.Add(3*time.Minute), true, 2))

	lines, err = ListEntries(ctx, s)
	if err != nil {
		t.Fatalf("ListEntries() failed: %v", err)
	}
	want = []string{
		fmt.Sprintf("1. %s (Tue Mar 05 10:33:00 UTC 2024) (ok)", handles[3].Path),
		fmt.Sprintf("2. %s (Tue Mar 05 10:32:00 UTC 2024) (ok)", handles[2].Path),
	}
	assertLines(t, lines, want)
}

func assertLines(t *testing.T, got, want []string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("got %d lines %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
