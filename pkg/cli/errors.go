package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfigError = 2
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// WrapConfigError creates a ConfigError for a failure to load configuration.
func WrapConfigError(err error) *ConfigError {
	return &ConfigError{
		Message: fmt.Sprintf("failed to load config: %v", err),
		Err:     err,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return ExitConfigError
	}
	return ExitFailure
}
