package config

import "time"

// Config is the root configuration structure for achistory.
// It contains the repository backend selection, the history retention
// settings and telemetry.
type Config struct {
	// Repository selects and configures the content repository backend.
	Repository RepositoryConfig `yaml:"repository"`

	// History contains retention settings for installation history entries.
	History HistoryConfig `yaml:"history"`

	// Telemetry contains configuration for logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RepositoryConfig contains configuration for the content repository.
type RepositoryConfig struct {
	// Backend is the repository backend type.
	// Options: "memory", "pebble", "redis", "sqlite"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite backend configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Pebble contains Pebble backend configuration.
	Pebble PebbleConfig `yaml:"pebble"`

	// Redis contains Redis backend configuration.
	Redis RedisConfig `yaml:"redis"`
}

// SQLiteConfig contains SQLite backend configuration.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/achistory.db"
	Path string `yaml:"path"`

	// Driver selects the database/sql driver.
	// Options: "sqlite3" (mattn/go-sqlite3, cgo), "sqlite" (modernc.org/sqlite, pure Go)
	// Default: "sqlite3"
	Driver string `yaml:"driver"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging mode.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// PebbleConfig contains Pebble backend configuration.
type PebbleConfig struct {
	// Path is the database directory.
	// Default: "data/achistory"
	Path string `yaml:"path"`

	// Sync forces a WAL fsync on every write.
	// Default: true
	Sync bool `yaml:"sync"`
}

// RedisConfig contains Redis backend configuration.
type RedisConfig struct {
	// Address is the Redis server address.
	// Default: "localhost:6379"
	Address string `yaml:"address"`

	// Password is the optional Redis password.
	Password string `yaml:"password"`

	// DB selects the Redis database.
	// Default: 0
	DB int `yaml:"db"`

	// Prefix namespaces all repository keys.
	// Default: "achistory"
	Prefix string `yaml:"prefix"`

	// DialTimeout bounds the initial connection check.
	// Default: 5s
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// HistoryConfig contains installation history settings.
type HistoryConfig struct {
	// NrOfHistoriesToSave is the number of newest history entries kept
	// after each write. 0 deletes all entries.
	// Default: 5
	NrOfHistoriesToSave int `yaml:"nr_of_histories_to_save"`

	// PruneSchedule is a cron expression for periodic pruning by the serve
	// command. Empty disables scheduled pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// ListenAddress is where the serve command exposes metrics.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Namespace is the metric name prefix.
	// Default: "achistory"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "history"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for persist duration (seconds).
	// Default: [0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// Tracing sampler strategies.
const (
	// SamplerAlways records every run.
	SamplerAlways = "always"

	// SamplerNever records no run unless the caller's trace is sampled.
	SamplerNever = "never"

	// SamplerRatio records SampleRatio of the runs.
	SamplerRatio = "ratio"

	// SamplerParent records a run only when it was started with a sampled
	// TRACEPARENT, e.g. persist called from a traced install hook.
	SamplerParent = "parent"
)

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio", "parent"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "achistory"
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout is the export timeout.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
