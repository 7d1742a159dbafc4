package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "with field",
			err:  NewConfigError("history.nr_of_histories_to_save", "must be >= 0"),
			want: "config error in history.nr_of_histories_to_save: must be >= 0",
		},
		{
			name: "without field",
			err:  WrapConfigError(errors.New("open config.yaml: no such file")),
			want: "config error: failed to load config: open config.yaml: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapConfigErrorUnwrap(t *testing.T) {
	cause := errors.New("invalid yaml")
	err := WrapConfigError(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the load error")
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("persist", underlyingErr)

	expected := "command persist failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "plain error", err: errors.New("boom"), want: ExitFailure},
		{name: "command error", err: NewCommandError("prune", errors.New("locked")), want: ExitFailure},
		{name: "config error", err: NewConfigError("repository.backend", "unknown"), want: ExitConfigError},
		{name: "wrapped config error", err: fmt.Errorf("startup: %w", WrapConfigError(errors.New("bad"))), want: ExitConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
