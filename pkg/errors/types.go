// Package errors provides typed errors for the seek project.
//
// This package defines domain-specific error types that provide structured
// error information for the subsystems that can fail in a user-visible way
// (configuration, history storage, search dispatch). All error types
// implement the standard error interface and support errors.Is() and
// errors.As() from the standard library and cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrEmptyQuery is returned by the shell when the user submits no search term.
var ErrEmptyQuery = errors.New("search term is required")

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Field   string // Which config field has the issue
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
	}
	return "config error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with an underlying cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// StorageError represents a failure reading or writing persisted history.
type StorageError struct {
	Backend   string // "json" or "sqlite"
	Operation string // e.g., "load", "save"
	Path      string
	Message   string
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("history %s %s at %s failed: %s", e.Backend, e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("history %s %s failed: %s", e.Backend, e.Operation, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageErrorWithCause creates a new StorageError with an underlying cause.
func NewStorageErrorWithCause(backend, operation, path, message string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Path:      path,
		Message:   message,
		Cause:     cause,
	}
}

// SearchError represents errors resolving an engine or handing a URL to the browser.
type SearchError struct {
	Operation string // e.g., "resolve", "open"
	Engine    string
	Message   string
	Cause     error
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	if e.Engine != "" {
		return fmt.Sprintf("search %s for engine %s failed: %s", e.Operation, e.Engine, e.Message)
	}
	return fmt.Sprintf("search %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *SearchError) Unwrap() error {
	return e.Cause
}

// NewSearchError creates a new SearchError.
func NewSearchError(operation, engine, message string) *SearchError {
	return &SearchError{Operation: operation, Engine: engine, Message: message}
}

// WithCause adds an underlying cause to the SearchError.
func (e *SearchError) WithCause(cause error) *SearchError {
	e.Cause = cause
	return e
}

// IsConfigError checks if an error or any error in its chain is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsStorageError checks if an error or any error in its chain is a StorageError.
func IsStorageError(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr)
}

// IsSearchError checks if an error or any error in its chain is a SearchError.
func IsSearchError(err error) bool {
	var searchErr *SearchError
	return errors.As(err, &searchErr)
}

// Is and As are re-exported for the error chain checks in FormatUserError.
var (
	// Is reports whether any error in err's chain matches target.
	Is = errors.Is

	// As finds the first error in err's chain that matches target.
	As = errors.As
)
