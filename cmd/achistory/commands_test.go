package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"netcentric/achistory/pkg/history"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// TestCommands_HistoryLifecycle drives persist, list, show, prune and export
// against one SQLite repository.
func TestCommands_HistoryLifecycle(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgPath, `
repository:
  backend: sqlite
  sqlite:
    path: `+filepath.Join(dir, "history.db")+`
    driver: sqlite
history:
  nr_of_histories_to_save: 2
telemetry:
  logging:
    level: error
  metrics:
    enabled: false
`)

	logPath := filepath.Join(dir, "run.log")
	writeFile(t, logPath, "Applied 3 authorizables\nApplied 12 ACEs\n")
	verbosePath := filepath.Join(dir, "run-verbose.log")
	writeFile(t, verbosePath, "Processing /content/site\n")

	dates := []string{"2024-03-05T10:30:00Z", "2024-03-05T10:31:00Z", "2024-03-05T10:32:00Z"}
	origins := []string{"scheduler", "jmx", "webconsole"}

	var paths []string
	for i := range dates {
		out, err := execute(t, "persist", "--config", cfgPath,
			"--log", logPath,
			"--verbose-log", verbosePath,
			"--success="+map[bool]string{true: "true", false: "false"}[i != 1],
			"--execution-time", "1500ms",
			"--installation-date", dates[i],
			"--origin", origins[i],
		)
		if err != nil {
			t.Fatalf("persist #%d failed: %v", i, err)
		}
		path := strings.TrimSpace(out)
		if !strings.HasPrefix(path, history.ContainerPath+"/history_") || !strings.HasSuffix(path, "_via_"+origins[i]) {
			t.Fatalf("unexpected entry path %q", path)
		}
		paths = append(paths, path)
	}

	// three written, two kept
	out, err := execute(t, "list", "--config", cfgPath)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := "1. " + paths[2] + " (Tue Mar 05 10:32:00 UTC 2024) (ok)\n" +
		"2. " + paths[1] + " (Tue Mar 05 10:31:00 UTC 2024) (failed)\n"
	if out != want {
		t.Errorf("list output:\n%s\nwant:\n%s", out, want)
	}

	out, err = execute(t, "list", "--config", cfgPath, "--format", "json")
	if err != nil {
		t.Fatalf("list --format json failed: %v", err)
	}
	var entries []*history.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(entries) != 2 || entries[0].Origin != "webconsole" || entries[0].ExecutionTime != 1500 {
		t.Errorf("unexpected entries %+v", entries)
	}

	out, err = execute(t, "__complete", "show", "--config", cfgPath, "history_")
	if err != nil {
		t.Fatalf("show completion failed: %v", err)
	}
	wantComplete := filepath.Base(paths[2]) + "\n" + filepath.Base(paths[1]) + "\n:36\n"
	if out != wantComplete {
		t.Errorf("show completion:\n%q\nwant:\n%q", out, wantComplete)
	}

	out, err = execute(t, "__complete", "show", "--config", cfgPath, history.ContainerPath+"/history_")
	if err != nil {
		t.Fatalf("show completion of paths failed: %v", err)
	}
	if !strings.HasPrefix(out, paths[2]+"\n"+paths[1]+"\n") {
		t.Errorf("unexpected path completion %q", out)
	}

	name := filepath.Base(paths[2])
	out, err = execute(t, "show", "--config", cfgPath, name, "--verbose")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	wantShow := "Installation triggered: Tue Mar 05 10:32:00 UTC 2024\n" +
		"Applied 3 authorizables\nApplied 12 ACEs\nProcessing /content/site\n" +
		"Execution time: 1500 ms\n" +
		"Success: true\n"
	if out != wantShow {
		t.Errorf("show output:\n%q\nwant:\n%q", out, wantShow)
	}

	exportPath := filepath.Join(dir, "history.csv")
	if _, err := execute(t, "export", "--config", cfgPath, "--format", "csv", "--output", exportPath); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 3 {
		t.Errorf("export has %d lines, want header plus 2", len(lines))
	}

	out, err = execute(t, "prune", "--config", cfgPath, "--keep", "1")
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if !strings.HasPrefix(out, "Deleted 1 history entries") {
		t.Errorf("unexpected prune output %q", out)
	}

	out, err = execute(t, "list", "--config", cfgPath, "--format", "text")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if out != "1. "+paths[2]+" (Tue Mar 05 10:32:00 UTC 2024) (ok)\n" {
		t.Errorf("unexpected list after prune %q", out)
	}
}

func TestCommands_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown origin", args: []string{"persist", "--origin", "cron"}},
		{name: "bad installation date", args: []string{"persist", "--origin", "api", "--installation-date", "yesterday"}},
		{name: "unknown list format", args: []string{"list", "--format", "xml"}},
		{name: "unknown export format", args: []string{"export", "--format", "xml"}},
		{name: "show without name", args: []string{"show"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}
