// Package errors provides structured error handling for the recommendation API.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Store errors (history, graph)
//   - 3XX: Network errors (embedder, vector index)
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

import (
	stderrors "errors"
	"net/http"
)

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryStore indicates history or graph store errors.
	CategoryStore Category = "STORE"
	// CategoryNetwork indicates external-service network errors.
	CategoryNetwork Category = "NETWORK"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Store errors (200-299)
	ErrCodeNotFound     = "ERR_201_NOT_FOUND"
	ErrCodeHistorySave  = "ERR_202_HISTORY_SAVE"
	ErrCodeHistoryQuery = "ERR_203_HISTORY_QUERY"
	ErrCodeGraphQuery   = "ERR_204_GRAPH_QUERY"

	// Network errors (300-399)
	ErrCodeEmbeddingTimeout     = "ERR_301_EMBEDDING_TIMEOUT"
	ErrCodeEmbeddingFailed      = "ERR_302_EMBEDDING_FAILED"
	ErrCodeEmbeddingRateLimited = "ERR_303_EMBEDDING_RATE_LIMITED"
	ErrCodeEmbeddingAuth        = "ERR_304_EMBEDDING_AUTH"
	ErrCodeVectorIndex          = "ERR_305_VECTOR_INDEX"
	ErrCodeNetworkUnavailable   = "ERR_306_NETWORK_UNAVAILABLE"

	// Validation errors (400-499)
	ErrCodeInvalidInput      = "ERR_401_INVALID_INPUT"
	ErrCodeQueryEmpty        = "ERR_402_QUERY_EMPTY"
	ErrCodeQueryTooShort     = "ERR_403_QUERY_TOO_SHORT"
	ErrCodeQueryTooLong      = "ERR_404_QUERY_TOO_LONG"
	ErrCodeDimensionMismatch = "ERR_405_DIMENSION_MISMATCH"

	// Internal errors (500-599)
	ErrCodeInternal      = "ERR_501_INTERNAL"
	ErrCodeSerialization = "ERR_502_SERIALIZATION"
	ErrCodeSearchFailed  = "ERR_503_SEARCH_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_CONFIG_NOT_FOUND")
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryStore
	case '3':
		return CategoryNetwork
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	// Retryable network errors get warning severity
	if isRetryableCode(code) {
		return SeverityWarning
	}
	return SeverityError
}

// isRetryableCode checks if an error code represents a retryable error.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeEmbeddingTimeout, ErrCodeEmbeddingRateLimited, ErrCodeNetworkUnavailable:
		return true
	default:
		return false
	}
}

// HTTPStatus maps an error to the HTTP status code the API should return.
// Non-APIError values map to 500.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ae *APIError
	if !stderrors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch {
	case ae.Code == ErrCodeNotFound:
		return http.StatusNotFound
	case ae.Code == ErrCodeEmbeddingAuth:
		return http.StatusUnauthorized
	case ae.Category == CategoryValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
