package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "achistory.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := writeConfig(t, `
repository:
  backend: "sqlite"
  sqlite:
    path: "./test.db"
    driver: "sqlite"
    busy_timeout: "10s"
    wal_mode: false

history:
  nr_of_histories_to_save: 10
  prune_schedule: "0 3 * * *"

telemetry:
  logging:
    level: "debug"
    format: "json"
`)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Repository.SQLite.Path != "./test.db" {
		t.Errorf("expected sqlite path %q, got %q", "./test.db", cfg.Repository.SQLite.Path)
	}
	if cfg.Repository.SQLite.Driver != "sqlite" {
		t.Errorf("expected driver sqlite, got %q", cfg.Repository.SQLite.Driver)
	}
	if cfg.Repository.SQLite.BusyTimeout != 10*time.Second {
		t.Errorf("expected busy timeout 10s, got %v", cfg.Repository.SQLite.BusyTimeout)
	}
	if cfg.Repository.SQLite.WALMode {
		t.Error("expected wal_mode false to be kept")
	}
	if cfg.History.NrOfHistoriesToSave != 10 {
		t.Errorf("expected 10 histories, got %d", cfg.History.NrOfHistoriesToSave)
	}
	if cfg.History.PruneSchedule != "0 3 * * *" {
		t.Errorf("unexpected prune schedule %q", cfg.History.PruneSchedule)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("unexpected logging config %+v", cfg.Telemetry.Logging)
	}

	// Defaults fill the rest.
	if cfg.Repository.SQLite.MaxOpenConns != DefaultSQLiteMaxOpenConns {
		t.Errorf("expected default max open conns, got %d", cfg.Repository.SQLite.MaxOpenConns)
	}
	if !cfg.Repository.Pebble.Sync {
		t.Error("expected pebble sync to default to true")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics to default to enabled")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Repository.Backend != DefaultRepositoryBackend {
		t.Errorf("expected backend %q, got %q", DefaultRepositoryBackend, cfg.Repository.Backend)
	}
	if cfg.History.NrOfHistoriesToSave != DefaultNrOfHistoriesToSave {
		t.Errorf("expected %d histories, got %d", DefaultNrOfHistoriesToSave, cfg.History.NrOfHistoriesToSave)
	}
	if !cfg.Repository.SQLite.WALMode {
		t.Error("expected wal mode to default to true")
	}
	if cfg.Telemetry.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("expected namespace %q, got %q", DefaultMetricsNamespace, cfg.Telemetry.Metrics.Namespace)
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) != len(DefaultDurationBuckets) {
		t.Errorf("expected default buckets, got %v", cfg.Telemetry.Metrics.DurationBuckets)
	}
}

func TestLoadConfig_ZeroRetentionKept(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "history:\n  nr_of_histories_to_save: 0\n"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.History.NrOfHistoriesToSave != 0 {
		t.Errorf("expected explicit 0 to be kept, got %d", cfg.History.NrOfHistoriesToSave)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "repository: [unclosed\n"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "repository:\n  backend: \"postgres\"\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Errors[0].Field != "repository.backend" {
		t.Errorf("unexpected field %q", verr.Errors[0].Field)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	configPath := writeConfig(t, `
repository:
  backend: "sqlite"
history:
  nr_of_histories_to_save: 5
`)

	t.Setenv("ACHISTORY_REPOSITORY_BACKEND", "pebble")
	t.Setenv("ACHISTORY_REPOSITORY_PEBBLE_PATH", "/tmp/pebble")
	t.Setenv("ACHISTORY_REPOSITORY_PEBBLE_SYNC", "false")
	t.Setenv("ACHISTORY_HISTORY_NR_OF_HISTORIES_TO_SAVE", "3")
	t.Setenv("ACHISTORY_TELEMETRY_LOGGING_LEVEL", "warn")
	t.Setenv("ACHISTORY_REPOSITORY_SQLITE_BUSY_TIMEOUT", "not-a-duration")

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Repository.Backend != "pebble" {
		t.Errorf("expected backend pebble, got %q", cfg.Repository.Backend)
	}
	if cfg.Repository.Pebble.Path != "/tmp/pebble" {
		t.Errorf("expected pebble path override, got %q", cfg.Repository.Pebble.Path)
	}
	if cfg.Repository.Pebble.Sync {
		t.Error("expected pebble sync override to false")
	}
	if cfg.History.NrOfHistoriesToSave != 3 {
		t.Errorf("expected 3 histories, got %d", cfg.History.NrOfHistoriesToSave)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("expected level warn, got %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Repository.SQLite.BusyTimeout != DefaultSQLiteBusyTimeout {
		t.Errorf("expected unparsable override to be ignored, got %v", cfg.Repository.SQLite.BusyTimeout)
	}
}

func TestLoadConfigWithEnvOverrides_NoFile(t *testing.T) {
	t.Setenv("ACHISTORY_REPOSITORY_BACKEND", "memory")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Repository.Backend != "memory" {
		t.Errorf("expected backend memory, got %q", cfg.Repository.Backend)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	t.Setenv("ACHISTORY_HISTORY_NR_OF_HISTORIES_TO_SAVE", "-1")

	if _, err := LoadConfigWithEnvOverrides(""); err == nil {
		t.Fatal("expected validation error after overrides")
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	first := *cfg
	ApplyDefaults(cfg)

	if cfg.Repository.SQLite.Path != first.Repository.SQLite.Path ||
		cfg.Telemetry.Tracing.Timeout != first.Telemetry.Tracing.Timeout ||
		len(cfg.Telemetry.Metrics.DurationBuckets) != len(first.Telemetry.Metrics.DurationBuckets) {
		t.Error("ApplyDefaults is not idempotent")
	}
}
