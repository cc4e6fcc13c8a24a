// Package errors provides centralized error definitions and error handling utilities
// for tileboard. It defines sentinel errors, domain-specific error types with
// context wrapping, and classification helpers used by the bootstrap fetcher
// and the action dispatcher.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - FetchError: the bootstrap document could not be retrieved
//   - DecodeError: a document or element record could not be decoded
//   - UpdateError: an update action could not be applied to the registry
//
// # Usage
//
//	err := errors.NewFetchError("GET failed", cause).WithURL(url).WithAttempt(2)
//
//	if errors.Is(err, errors.ErrFetchFailed) { ... }
//	if errors.IsRetryable(err) { ... }
//
// # Propagation
//
// Errors never cross the renderer boundary. Bad nodes render as nothing and
// unknown actions are ignored; only bootstrap and update failures are
// reported to callers.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Bootstrap sentinel errors
var (
	// ErrFetchFailed indicates the bootstrap document could not be retrieved.
	ErrFetchFailed = New("fetch failed")
	// ErrMalformedDefinition indicates the bootstrap document is not valid JSON/YAML
	// or does not have the expected shape.
	ErrMalformedDefinition = New("malformed definition")
)

// Element and update sentinel errors
var (
	// ErrInvalidElement indicates an element record could not be decoded into its variant.
	ErrInvalidElement = New("invalid element")
	// ErrUnknownReference indicates an update targeted a key with no registry entry.
	ErrUnknownReference = New("unknown reference element")
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// TileboardError is the base interface for all tileboard errors.
type TileboardError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

func formatError(kind string, parts []string, message string, cause error) string {
	prefix := kind
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
	}
	if cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, message, cause)
	}
	return fmt.Sprintf("%s: %s", prefix, message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// FetchError represents a failed attempt to retrieve the bootstrap document.
// It always matches ErrFetchFailed.
//
// Example:
//
//	err := errors.NewFetchError("unexpected status", nil).WithURL(u).WithStatus(503)
//	fmt.Println(err) // "fetch error [url=..., status=503]: unexpected status"
type FetchError struct {
	baseError
	URL        string
	Attempt    int
	StatusCode int
}

// NewFetchError creates a new FetchError. Fetch errors are retryable unless
// marked otherwise.
func NewFetchError(message string, cause error) *FetchError {
	return &FetchError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  true,
			userFacing: true,
		},
	}
}

// WithURL adds the requested URL to the error context.
func (e *FetchError) WithURL(url string) *FetchError {
	e.URL = url
	return e
}

// WithAttempt records the 1-based attempt number that failed.
func (e *FetchError) WithAttempt(n int) *FetchError {
	e.Attempt = n
	return e
}

// WithStatus records the HTTP status code. 4xx statuses other than 408 and
// 429 are not retryable.
func (e *FetchError) WithStatus(code int) *FetchError {
	e.StatusCode = code
	if code >= 400 && code < 500 && code != 408 && code != 429 {
		e.retryable = false
	}
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *FetchError) WithRetryable(r bool) *FetchError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *FetchError) Error() string {
	var parts []string
	if e.URL != "" {
		parts = append(parts, fmt.Sprintf("url=%s", e.URL))
	}
	if e.Attempt > 0 {
		parts = append(parts, fmt.Sprintf("attempt=%d", e.Attempt))
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	return formatError("fetch error", parts, e.message, e.cause)
}

// Is matches ErrFetchFailed, any *FetchError, and the wrapped cause.
func (e *FetchError) Is(target error) bool {
	if target == ErrFetchFailed {
		return true
	}
	if _, ok := target.(*FetchError); ok {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// DecodeError represents a failure to decode a definition document or an
// element record. Path locates the offending record, e.g. "rootElement.elements[1]".
type DecodeError struct {
	baseError
	Path string
	Key  string
}

// NewDecodeError creates a new DecodeError. Decode errors are never retryable.
func NewDecodeError(message string, cause error) *DecodeError {
	return &DecodeError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithPath sets the location of the record that failed to decode.
func (e *DecodeError) WithPath(path string) *DecodeError {
	e.Path = path
	return e
}

// WithKey sets the elementKey of the record that failed to decode.
func (e *DecodeError) WithKey(key string) *DecodeError {
	e.Key = key
	return e
}

// Error returns the formatted error message.
func (e *DecodeError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	if e.Key != "" {
		parts = append(parts, fmt.Sprintf("key=%s", e.Key))
	}
	return formatError("decode error", parts, e.message, e.cause)
}

// Is matches ErrInvalidElement, any *DecodeError, and the wrapped cause.
func (e *DecodeError) Is(target error) bool {
	if target == ErrInvalidElement {
		return true
	}
	if _, ok := target.(*DecodeError); ok {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// UpdateError represents an update action that was not applied.
type UpdateError struct {
	baseError
	ButtonKey    string
	ReferenceKey string
}

// NewUpdateError creates a new UpdateError at warning severity.
func NewUpdateError(message string, cause error) *UpdateError {
	return &UpdateError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithButton sets the key of the button whose action failed.
func (e *UpdateError) WithButton(key string) *UpdateError {
	e.ButtonKey = key
	return e
}

// WithReference sets the key the action targeted.
func (e *UpdateError) WithReference(key string) *UpdateError {
	e.ReferenceKey = key
	return e
}

// Error returns the formatted error message.
func (e *UpdateError) Error() string {
	var parts []string
	if e.ButtonKey != "" {
		parts = append(parts, fmt.Sprintf("button=%s", e.ButtonKey))
	}
	if e.ReferenceKey != "" {
		parts = append(parts, fmt.Sprintf("ref=%s", e.ReferenceKey))
	}
	return formatError("update error", parts, e.message, e.cause)
}

// Is matches any *UpdateError and the wrapped cause.
func (e *UpdateError) Is(target error) bool {
	if _, ok := target.(*UpdateError); ok {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// -----------------------------------------------------------------------------
// Error Classification
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error is transient and the operation
// may succeed on retry. This checks for:
//   - Errors implementing TileboardError with IsRetryable() returning true
//   - Errors wrapping ErrTimeout
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var tbErr TileboardError
	if As(err, &tbErr) {
		return tbErr.IsRetryable()
	}

	return Is(err, ErrTimeout)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var tbErr TileboardError
	if As(err, &tbErr) {
		return tbErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement TileboardError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var tbErr TileboardError
	if As(err, &tbErr) {
		return tbErr.Severity()
	}
	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to load definition")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
