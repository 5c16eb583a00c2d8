package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes catalog failures
type ErrorType string

const (
	// ErrTypeStatus indicates a non-2xx response
	ErrTypeStatus ErrorType = "status"

	// ErrTypeNetwork indicates the request never produced a response
	ErrTypeNetwork ErrorType = "network"

	// ErrTypeDecode indicates a body that is not a valid search response
	ErrTypeDecode ErrorType = "decode"

	// ErrTypeRateLimit indicates the pacing wait was aborted
	ErrTypeRateLimit ErrorType = "rate_limit"

	// ErrTypeConfiguration indicates an unusable client configuration
	ErrTypeConfiguration ErrorType = "configuration"
)

// CatalogError is returned by every failing Client call. None are retried.
type CatalogError struct {
	// Type categorizes the error
	Type ErrorType `json:"type"`

	// Message provides human-readable error description
	Message string `json:"message"`

	// StatusCode for ErrTypeStatus errors
	StatusCode int `json:"status_code,omitempty"`

	// Underlying error that caused this error
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *CatalogError) Error() string {
	parts := []string{fmt.Sprintf("catalog %s", e.Type)}

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *CatalogError) Unwrap() error {
	return e.Cause
}

// Is matches another *CatalogError of the same type
func (e *CatalogError) Is(target error) bool {
	var ce *CatalogError
	if errors.As(target, &ce) {
		return e.Type == ce.Type
	}
	return false
}

// NewError creates a catalog error
func NewError(errType ErrorType, message string) *CatalogError {
	return &CatalogError{Type: errType, Message: message}
}

// NewErrorWithCause creates a catalog error wrapping cause
func NewErrorWithCause(errType ErrorType, message string, cause error) *CatalogError {
	return &CatalogError{Type: errType, Message: message, Cause: cause}
}

// NewStatusError creates an error for an unexpected HTTP status
func NewStatusError(statusCode int, body string) *CatalogError {
	msg := "unexpected response"
	if body = strings.TrimSpace(body); body != "" {
		msg = fmt.Sprintf("unexpected response: %s", body)
	}
	return &CatalogError{Type: ErrTypeStatus, Message: msg, StatusCode: statusCode}
}

// TypeOf returns the catalog error type in err's chain, or "" if none
func TypeOf(err error) ErrorType {
	var ce *CatalogError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ""
}
