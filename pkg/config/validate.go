package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "repository.backend").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateRepository(&cfg.Repository)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateRepository validates repository configuration.
func validateRepository(cfg *RepositoryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory":
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "repository.sqlite.path",
				Message: "sqlite path is required when backend is sqlite",
			})
		}
		if cfg.SQLite.Driver != "sqlite3" && cfg.SQLite.Driver != "sqlite" {
			errs = append(errs, FieldError{
				Field:   "repository.sqlite.driver",
				Message: fmt.Sprintf("invalid sqlite driver %q: must be 'sqlite3' or 'sqlite'", cfg.SQLite.Driver),
			})
		}
		if cfg.SQLite.MaxOpenConns < 1 {
			errs = append(errs, FieldError{
				Field:   "repository.sqlite.max_open_conns",
				Message: "max open connections must be at least 1",
			})
		}
		if cfg.SQLite.MaxIdleConns < 0 {
			errs = append(errs, FieldError{
				Field:   "repository.sqlite.max_idle_conns",
				Message: "max idle connections must be non-negative",
			})
		}
		if cfg.SQLite.BusyTimeout < 0 {
			errs = append(errs, FieldError{
				Field:   "repository.sqlite.busy_timeout",
				Message: "busy timeout must be non-negative",
			})
		}
	case "pebble":
		if cfg.Pebble.Path == "" {
			errs = append(errs, FieldError{
				Field:   "repository.pebble.path",
				Message: "pebble path is required when backend is pebble",
			})
		}
	case "redis":
		if cfg.Redis.Address == "" {
			errs = append(errs, FieldError{
				Field:   "repository.redis.address",
				Message: "redis address is required when backend is redis",
			})
		}
		if cfg.Redis.DB < 0 {
			errs = append(errs, FieldError{
				Field:   "repository.redis.db",
				Message: "redis db must be non-negative",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "repository.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'memory', 'pebble', 'redis', or 'sqlite'", cfg.Backend),
		})
	}

	return errs
}

// validateHistory validates history configuration.
func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	if cfg.NrOfHistoriesToSave < 0 {
		errs = append(errs, FieldError{
			Field:   "history.nr_of_histories_to_save",
			Message: "number of histories to save must be non-negative",
		})
	}

	if cfg.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "history.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.PruneSchedule, err),
			})
		}
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	// Validate logging format
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	// Validate metrics path
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	// Validate tracing configuration
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	validSamplers := map[string]bool{SamplerAlways: true, SamplerNever: true, SamplerRatio: true, SamplerParent: true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', 'ratio', or 'parent'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}
