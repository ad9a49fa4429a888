package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeMissingColumn indicates a required input column is absent.
	// Fatal for the hierarchy index or record store build.
	ErrTypeMissingColumn ErrorType = "MISSING_COLUMN"
	// ErrTypeDateParse indicates a migration_month value failed to parse.
	// Fatal for the record store build.
	ErrTypeDateParse ErrorType = "DATE_PARSE"
	// ErrTypeEmptyResult indicates an aggregation produced no qualifying rows.
	// Non-fatal: an empty result set is a valid artifact.
	ErrTypeEmptyResult ErrorType = "EMPTY_RESULT"
	// ErrTypeConfig indicates invalid or unloadable configuration.
	ErrTypeConfig ErrorType = "CONFIG"
	// ErrTypeIO indicates a file system read/write failure.
	ErrTypeIO ErrorType = "IO"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new application error
func New(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// IsType reports whether err (or any error it wraps) is an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Helper constructors for the domain taxonomy

// NewMissingColumnError creates an error for an absent required column
func NewMissingColumnError(column string) *AppError {
	return New(ErrTypeMissingColumn, fmt.Sprintf("required column %q not found", column), nil)
}

// NewDateParseError creates an error for an unparseable month value
func NewDateParseError(value string, cause error) *AppError {
	return New(ErrTypeDateParse, fmt.Sprintf("cannot parse migration month %q", value), cause)
}

// NewEmptyResultError creates an error for an aggregation with no qualifying rows
func NewEmptyResultError(operation string) *AppError {
	return New(ErrTypeEmptyResult, fmt.Sprintf("%s produced no rows", operation), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return New(ErrTypeConfig, message, cause)
}

// NewIOError creates a file system error
func NewIOError(message string, cause error) *AppError {
	return New(ErrTypeIO, message, cause)
}
