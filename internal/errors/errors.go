package errors

import (
	stderrors "errors"
	"fmt"
)

// APIError is the structured error type for the recommendation API.
// It provides rich context for error handling, logging, and response mapping.
type APIError struct {
	// Code is the unique error code (e.g., "ERR_401_INVALID_INPUT").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Store, Network, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with APIError.
func (e *APIError) Is(target error) bool {
	if t, ok := target.(*APIError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *APIError) WithDetail(key, value string) *APIError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new APIError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Retryable: isRetryableCode(code),
	}
}

// Wrap annotates an existing error with a code and message.
// Returns nil when err is nil.
func Wrap(err error, code string, message string) *APIError {
	if err == nil {
		return nil
	}
	ae := New(code, fmt.Sprintf("%s: %v", message, err))
	ae.Cause = err
	return ae
}

// InvalidInput creates a validation error for bad request input.
func InvalidInput(message string) *APIError {
	return New(ErrCodeInvalidInput, message)
}

// NotFound creates a not-found error for a missing entity.
func NotFound(kind, id string) *APIError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found: %s", kind, id)).
		WithDetail("kind", kind).
		WithDetail("id", id)
}

// ExternalService creates an error for a failed external-service call.
func ExternalService(message string, cause error) *APIError {
	ae := New(ErrCodeNetworkUnavailable, message)
	ae.Cause = cause
	return ae
}

// Internal creates an internal error.
func Internal(message string, cause error) *APIError {
	ae := New(ErrCodeInternal, message)
	ae.Cause = cause
	return ae
}

// IsRetryable checks if an error is retryable.
// Returns true if the error chain contains an APIError with Retryable set.
func IsRetryable(err error) bool {
	var ae *APIError
	if stderrors.As(err, &ae) {
		return ae.Retryable
	}
	return false
}

// GetCode extracts the error code from an APIError anywhere in the chain.
// Returns empty string if none is found.
func GetCode(err error) string {
	var ae *APIError
	if stderrors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// GetCategory extracts the category from an APIError anywhere in the chain.
// Returns empty string if none is found.
func GetCategory(err error) Category {
	var ae *APIError
	if stderrors.As(err, &ae) {
		return ae.Category
	}
	return ""
}
