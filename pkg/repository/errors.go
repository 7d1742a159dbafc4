package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrPathNotFound is returned when a node does not exist.
	ErrPathNotFound = errors.New("path not found")

	// ErrItemExists is returned when adding a node whose name is taken.
	ErrItemExists = errors.New("item exists")

	// ErrInvalidPath is returned for relative, empty or malformed paths.
	ErrInvalidPath = errors.New("invalid path")

	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("session closed")
)

// StorageError represents a failure reported by a repository backend.
// Permission, lock, constraint and connectivity failures all surface as a
// StorageError wrapping the backend's own error.
type StorageError struct {
	Backend   string // Backend type ("memory", "pebble", "redis", "sqlite")
	Operation string // Operation that failed ("add_node", "remove_node", ...)
	Path      string // Path the operation was applied to
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("repository error [backend=%s, operation=%s, path=%s]: %v", e.Backend, e.Operation, e.Path, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation, path string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// IsNotFound reports whether err is or wraps ErrPathNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPathNotFound)
}
