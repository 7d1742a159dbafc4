package config

import (
	"fmt"
	"sync"
)

// Override adjusts a loaded configuration after the file and the
// ACHISTORY_* environment variables have been applied. The CLI passes its
// --backend and --log-level flags as overrides.
type Override func(*Config)

// WithBackend overrides repository.backend. A blank backend is ignored.
func WithBackend(backend string) Override {
	return func(cfg *Config) {
		if backend != "" {
			cfg.Repository.Backend = backend
		}
	}
}

// WithLogLevel overrides telemetry.logging.level. A blank level is ignored.
func WithLogLevel(level string) Override {
	return func(cfg *Config) {
		if level != "" {
			cfg.Telemetry.Logging.Level = level
		}
	}
}

var (
	// globalConfig holds the singleton configuration instance.
	globalConfig *Config

	// globalPath and globalOverrides are remembered by Initialize so a
	// reload resolves the configuration the same way.
	globalPath      string
	globalOverrides []Override

	// configMutex protects the variables above.
	configMutex sync.RWMutex

	// initOnce ensures configuration is initialized only once.
	initOnce sync.Once
)

// Initialize loads the file at path (defaults when empty), applies the
// ACHISTORY_* environment variables and then overrides, validates the
// result and stores it as the global configuration. Subsequent calls are
// ignored.
func Initialize(path string, overrides ...Override) error {
	var initErr error

	initOnce.Do(func() {
		cfg, err := resolve(path, overrides)
		if err != nil {
			initErr = err
			return
		}

		configMutex.Lock()
		globalConfig = cfg
		globalPath = path
		globalOverrides = overrides
		configMutex.Unlock()
	})

	return initErr
}

// resolve applies file, environment and overrides in that order.
func resolve(path string, overrides []Override) (*Config, error) {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, err
	}
	if len(overrides) == 0 {
		return cfg, nil
	}

	for _, override := range overrides {
		override(cfg)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after overrides: %w", err)
	}
	return cfg, nil
}

// GetConfig returns the global configuration instance.
// It returns nil if Initialize has not been called successfully.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// Path returns the file Initialize loaded, empty for defaults.
func Path() string {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalPath
}

// ReloadConfig reloads the configuration from path, reapplying the
// environment and the overrides given to Initialize, and returns it. The
// new configuration replaces the global instance only if it is valid, so a
// flag such as --backend keeps precedence over an edited file.
func ReloadConfig(path string) (*Config, error) {
	configMutex.RLock()
	overrides := globalOverrides
	configMutex.RUnlock()

	cfg, err := resolve(path, overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to reload configuration: %w", err)
	}

	configMutex.Lock()
	globalConfig = cfg
	configMutex.Unlock()

	return cfg, nil
}
