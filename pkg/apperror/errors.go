package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies failures of calls to the billing backend
type Kind string

const (
	KindTransport Kind = "transport"
	KindStatus    Kind = "status"
	KindMalformed Kind = "malformed"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Kind    Kind         `json:"kind,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Cause   error        `json:"-"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewTransportError reports that the backend could not be reached.
func NewTransportError(op string, cause error) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Message: op + " failed",
		Kind:    KindTransport,
		Cause:   cause,
	}
}

// NewStatusError reports a non-success HTTP status from the backend.
func NewStatusError(op string, status int) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Message: op + " failed",
		Kind:    KindStatus,
		Cause:   fmt.Errorf("backend returned status %d", status),
	}
}

// NewMalformedError reports a backend response of unexpected shape.
func NewMalformedError(op string, cause error) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Message: op + " failed",
		Kind:    KindMalformed,
		Cause:   cause,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// KindOf returns the upstream failure kind of err, or "" when it has none.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
