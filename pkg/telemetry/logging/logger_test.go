package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"netcentric/achistory/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid JSON config",
			config: Config{Level: "info", Format: "json"},
		},
		{
			name:   "valid text config",
			config: Config{Level: "debug", Format: "text"},
		},
		{
			name:   "empty config uses defaults",
			config: Config{},
		},
		{
			name:    "invalid log level",
			config:  Config{Level: "invalid", Format: "json"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  Config{Level: "info", Format: "invalid"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.config.Writer = &buf

			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.With("component", "history.recorder").Info("Saved history", "path", "/var/statistics/achistory/history_1_via_api")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
	}
	if record["msg"] != "Saved history" {
		t.Errorf("unexpected msg %v", record["msg"])
	}
	if record["component"] != "history.recorder" {
		t.Errorf("unexpected component %v", record["component"])
	}
	if record["path"] != "/var/statistics/achistory/history_1_via_api" {
		t.Errorf("unexpected path %v", record["path"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("expected debug and info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("expected warn and error, got %q", out)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.LoggingConfig{Level: "debug", Format: "json", AddSource: true})
	if cfg.Level != "debug" || cfg.Format != "json" || !cfg.AddSource {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestParseLevel(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "", "warning", "ERROR"} {
		if _, err := parseLevel(level); err != nil {
			t.Errorf("parseLevel(%q) failed: %v", level, err)
		}
	}
	if _, err := parseLevel("trace"); err == nil {
		t.Error("expected error for unknown level")
	}
}
