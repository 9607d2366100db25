package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// AppError represents an application-specific error
type AppError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Cause     error  `json:"-"`
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
	Operation string `json:"operation,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(code, message string, cause error) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
		File:    file,
		Line:    line,
	}
}

// WithOperation adds operation context to the error
func (e *AppError) WithOperation(operation string) *AppError {
	e.Operation = operation
	return e
}

// WithDetails adds additional details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// Common error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeConfiguration = "CONFIGURATION_ERROR"
	ErrCodeDatabase      = "DATABASE_ERROR"
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeConflict      = "CONFLICT"
)

// Common error constructors

func NotFound(message string, cause error) *AppError {
	return NewAppError(ErrCodeNotFound, message, cause)
}

// Validation signals a lead record that violates a structural invariant.
// Always recoverable by the caller: fix the input and re-submit.
func Validation(message string, cause error) *AppError {
	return NewAppError(ErrCodeValidation, message, cause)
}

// Configuration signals an invalid scoring model set. Raised at load time,
// never per scoring call; a process should refuse to serve until resolved.
func Configuration(message string, cause error) *AppError {
	return NewAppError(ErrCodeConfiguration, message, cause)
}

func Database(message string, cause error) *AppError {
	return NewAppError(ErrCodeDatabase, message, cause)
}

func Internal(message string, cause error) *AppError {
	return NewAppError(ErrCodeInternal, message, cause)
}

func Conflict(message string, cause error) *AppError {
	return NewAppError(ErrCodeConflict, message, cause)
}

// code extracts the AppError code from err, if any.
func code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsValidation reports whether err carries the VALIDATION_ERROR code.
func IsValidation(err error) bool { return code(err) == ErrCodeValidation }

// IsConfiguration reports whether err carries the CONFIGURATION_ERROR code.
func IsConfiguration(err error) bool { return code(err) == ErrCodeConfiguration }

// IsNotFound reports whether err carries the NOT_FOUND code.
func IsNotFound(err error) bool { return code(err) == ErrCodeNotFound }
