package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:   "memory backend",
			modify: func(c *Config) { c.Repository.Backend = "memory" },
		},
		{
			name:      "unknown backend",
			modify:    func(c *Config) { c.Repository.Backend = "postgres" },
			wantField: "repository.backend",
		},
		{
			name:      "unknown sqlite driver",
			modify:    func(c *Config) { c.Repository.SQLite.Driver = "pgx" },
			wantField: "repository.sqlite.driver",
		},
		{
			name: "sqlite driver ignored for pebble",
			modify: func(c *Config) {
				c.Repository.Backend = "pebble"
				c.Repository.SQLite.Driver = "pgx"
			},
		},
		{
			name: "pebble without path",
			modify: func(c *Config) {
				c.Repository.Backend = "pebble"
				c.Repository.Pebble.Path = ""
			},
			wantField: "repository.pebble.path",
		},
		{
			name: "redis without address",
			modify: func(c *Config) {
				c.Repository.Backend = "redis"
				c.Repository.Redis.Address = ""
			},
			wantField: "repository.redis.address",
		},
		{
			name:      "negative retention",
			modify:    func(c *Config) { c.History.NrOfHistoriesToSave = -1 },
			wantField: "history.nr_of_histories_to_save",
		},
		{
			name:   "zero retention",
			modify: func(c *Config) { c.History.NrOfHistoriesToSave = 0 },
		},
		{
			name:      "bad cron expression",
			modify:    func(c *Config) { c.History.PruneSchedule = "every day" },
			wantField: "history.prune_schedule",
		},
		{
			name:   "cron descriptor",
			modify: func(c *Config) { c.History.PruneSchedule = "@hourly" },
		},
		{
			name:      "bad log level",
			modify:    func(c *Config) { c.Telemetry.Logging.Level = "trace" },
			wantField: "telemetry.logging.level",
		},
		{
			name:      "bad log format",
			modify:    func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			wantField: "telemetry.logging.format",
		},
		{
			name:      "relative metrics path",
			modify:    func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			wantField: "telemetry.metrics.path",
		},
		{
			name:      "tracing without endpoint",
			modify:    func(c *Config) { c.Telemetry.Tracing.Enabled = true },
			wantField: "telemetry.tracing.endpoint",
		},
		{
			name:      "bad sampler",
			modify:    func(c *Config) { c.Telemetry.Tracing.Sampler = "sometimes" },
			wantField: "telemetry.tracing.sampler",
		},
		{
			name:      "sample ratio out of range",
			modify:    func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 },
			wantField: "telemetry.tracing.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.modify(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got %v", tt.wantField, verr.Errors)
			}
		})
	}
}

func TestValidationError_MultipleErrors(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Repository.Backend = "nope"
	cfg.Telemetry.Logging.Level = "nope"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "with 2 errors") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
