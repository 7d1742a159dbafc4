package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix starts the name of every environment variable override.
const EnvPrefix = "ACHISTORY_"

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is decoded on top of the defaults, so omitted fields keep their
// default values. The result is validated.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration on top of the defaults without
// validating it.
func Parse(data []byte) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention ACHISTORY_SECTION_FIELD (e.g., ACHISTORY_REPOSITORY_BACKEND).
// Environment variables always take precedence over file-based configuration.
//
// An empty path skips the file and starts from the defaults.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = NewDefaultConfig()
	} else {
		var err error
		cfg, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format ACHISTORY_SECTION_FIELD. Values that
// cannot be parsed are ignored.
func applyEnvOverrides(cfg *Config) {
	// Repository overrides
	envString("REPOSITORY_BACKEND", &cfg.Repository.Backend)
	envString("REPOSITORY_SQLITE_PATH", &cfg.Repository.SQLite.Path)
	envString("REPOSITORY_SQLITE_DRIVER", &cfg.Repository.SQLite.Driver)
	envInt("REPOSITORY_SQLITE_MAX_OPEN_CONNS", &cfg.Repository.SQLite.MaxOpenConns)
	envInt("REPOSITORY_SQLITE_MAX_IDLE_CONNS", &cfg.Repository.SQLite.MaxIdleConns)
	envBool("REPOSITORY_SQLITE_WAL_MODE", &cfg.Repository.SQLite.WALMode)
	envDuration("REPOSITORY_SQLITE_BUSY_TIMEOUT", &cfg.Repository.SQLite.BusyTimeout)
	envString("REPOSITORY_PEBBLE_PATH", &cfg.Repository.Pebble.Path)
	envBool("REPOSITORY_PEBBLE_SYNC", &cfg.Repository.Pebble.Sync)
	envString("REPOSITORY_REDIS_ADDRESS", &cfg.Repository.Redis.Address)
	envString("REPOSITORY_REDIS_PASSWORD", &cfg.Repository.Redis.Password)
	envInt("REPOSITORY_REDIS_DB", &cfg.Repository.Redis.DB)
	envString("REPOSITORY_REDIS_PREFIX", &cfg.Repository.Redis.Prefix)

	// History overrides
	envInt("HISTORY_NR_OF_HISTORIES_TO_SAVE", &cfg.History.NrOfHistoriesToSave)
	envString("HISTORY_PRUNE_SCHEDULE", &cfg.History.PruneSchedule)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	envString("TELEMETRY_METRICS_LISTEN_ADDRESS", &cfg.Telemetry.Metrics.ListenAddress)
	envBool("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	envString("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	if val := os.Getenv(EnvPrefix + "TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

func envString(name string, dst *string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		*dst = val
	}
}

func envInt(name string, dst *int) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envBool(name string, dst *bool) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envDuration(name string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
