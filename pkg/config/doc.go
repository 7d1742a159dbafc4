// Package config provides configuration management for achistory.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("achistory.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("achistory.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention ACHISTORY_SECTION_FIELD.
// For example:
//
//   - ACHISTORY_REPOSITORY_BACKEND overrides repository.backend
//   - ACHISTORY_REPOSITORY_SQLITE_PATH overrides repository.sqlite.path
//   - ACHISTORY_HISTORY_NR_OF_HISTORIES_TO_SAVE overrides history.nr_of_histories_to_save
//   - ACHISTORY_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example
//
//	repository:
//	  backend: sqlite
//	  sqlite:
//	    path: /var/lib/achistory/achistory.db
//	    driver: sqlite
//
//	history:
//	  nr_of_histories_to_save: 5
//	  prune_schedule: "0 3 * * *"
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  metrics:
//	    enabled: true
//	    listen_address: 127.0.0.1:9464
//
// # Singleton and Reload
//
// Initialize stores the configuration in a process-wide singleton read with
// GetConfig. Values resolve in this order: defaults, the file, ACHISTORY_*
// environment variables, then the Override values passed to Initialize
// (WithBackend and WithLogLevel carry the CLI flags). ReloadConfig repeats
// the same resolution and replaces the singleton only if the result is
// valid, and a Watcher calls ReloadConfig whenever the file changes on disk.
package config
