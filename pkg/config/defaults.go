package config

import "time"

// Default values for configuration fields.
const (
	// Repository defaults
	DefaultRepositoryBackend  = "sqlite"
	DefaultSQLitePath         = "data/achistory.db"
	DefaultSQLiteDriver       = "sqlite3"
	DefaultSQLiteMaxOpenConns = 10
	DefaultSQLiteMaxIdleConns = 5
	DefaultSQLiteWALMode      = true
	DefaultSQLiteBusyTimeout  = 5 * time.Second
	DefaultPebblePath         = "data/achistory"
	DefaultPebbleSync         = true
	DefaultRedisAddress       = "localhost:6379"
	DefaultRedisPrefix        = "achistory"
	DefaultRedisDialTimeout   = 5 * time.Second

	// History defaults
	DefaultNrOfHistoriesToSave = 5

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "text"
	DefaultMetricsEnabled       = true
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsListenAddress = "127.0.0.1:9464"
	DefaultMetricsNamespace     = "achistory"
	DefaultMetricsSubsystem     = "history"
	DefaultTracingSampler       = SamplerRatio
	DefaultTracingSamplingRate  = 0.1
	DefaultTracingServiceName   = "achistory"
	DefaultTracingInsecure      = true
	DefaultTracingTimeout       = 10 * time.Second
)

// DefaultDurationBuckets are the persist duration histogram buckets.
var DefaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// NewDefaultConfig returns a configuration with every field at its default.
// Boolean and numeric defaults that differ from the zero value can only be
// expressed here, so configuration files are decoded on top of it.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Repository: RepositoryConfig{
			SQLite: SQLiteConfig{WALMode: DefaultSQLiteWALMode},
			Pebble: PebbleConfig{Sync: DefaultPebbleSync},
		},
		History: HistoryConfig{
			NrOfHistoriesToSave: DefaultNrOfHistoriesToSave,
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Tracing: TracingConfig{Insecure: DefaultTracingInsecure},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Repository defaults
	if cfg.Repository.Backend == "" {
		cfg.Repository.Backend = DefaultRepositoryBackend
	}
	if cfg.Repository.SQLite.Path == "" {
		cfg.Repository.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Repository.SQLite.Driver == "" {
		cfg.Repository.SQLite.Driver = DefaultSQLiteDriver
	}
	if cfg.Repository.SQLite.MaxOpenConns == 0 {
		cfg.Repository.SQLite.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if cfg.Repository.SQLite.MaxIdleConns == 0 {
		cfg.Repository.SQLite.MaxIdleConns = DefaultSQLiteMaxIdleConns
	}
	if cfg.Repository.SQLite.BusyTimeout == 0 {
		cfg.Repository.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Repository.Pebble.Path == "" {
		cfg.Repository.Pebble.Path = DefaultPebblePath
	}
	if cfg.Repository.Redis.Address == "" {
		cfg.Repository.Redis.Address = DefaultRedisAddress
	}
	if cfg.Repository.Redis.Prefix == "" {
		cfg.Repository.Redis.Prefix = DefaultRedisPrefix
	}
	if cfg.Repository.Redis.DialTimeout == 0 {
		cfg.Repository.Redis.DialTimeout = DefaultRedisDialTimeout
	}

	// History defaults: a zero retention count is meaningful and is kept.

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSamplingRate
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
}
