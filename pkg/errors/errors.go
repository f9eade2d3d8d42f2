// Package errors provides structured error types for benchreport.
// Errors carry a code, a category, and key-value context so the CLI can
// report fatal failures with full diagnostic detail.
package errors

import (
	"fmt"
	"strings"
)

// Category classifies errors for consistent handling and display.
type Category string

const (
	CategoryConfig     Category = "config"     // Configuration loading/parsing errors
	CategoryArchive    Category = "archive"    // Archive extraction errors
	CategoryClassify   Category = "classify"   // Classification/organizing errors
	CategoryLayout     Category = "layout"     // Report layout/rendering errors
	CategoryIO         Category = "io"         // File/IO errors
	CategoryValidation Category = "validation" // Input validation errors
	CategoryInternal   Category = "internal"   // Internal/unexpected errors
)

// BenchError is a structured error with context.
// It implements the error interface and supports error wrapping.
type BenchError struct {
	// Code is a unique identifier for this error type (e.g., "SOURCE_NOT_FOUND")
	Code string

	// Category classifies this error for consistent handling
	Category Category

	// Message is the primary error message describing what went wrong
	Message string

	// Context provides additional key-value details about the error
	Context map[string]string

	// Cause is the underlying error that triggered this error (for wrapping)
	Cause error
}

// Error implements the error interface.
func (e *BenchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain inspection.
// This enables errors.Is() and errors.As() to work with BenchError.
func (e *BenchError) Unwrap() error {
	return e.Cause
}

// Is reports whether e matches target for errors.Is() checks.
// Two BenchErrors match if they have the same Code.
func (e *BenchError) Is(target error) bool {
	if t, ok := target.(*BenchError); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new BenchError with the given code, category, and message.
func New(code string, category Category, message string) *BenchError {
	return &BenchError{
		Code:     code,
		Category: category,
		Message:  message,
		Context:  make(map[string]string),
	}
}

// WithContext adds a context key-value pair and returns the error for chaining.
func (e *BenchError) WithContext(key, value string) *BenchError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithCause wraps an underlying error and returns the error for chaining.
func (e *BenchError) WithCause(cause error) *BenchError {
	e.Cause = cause
	return e
}

// ContextString returns a formatted string of all context entries.
func (e *BenchError) ContextString() string {
	if len(e.Context) == 0 {
		return ""
	}
	var parts []string
	for k, v := range e.Context {
		parts = append(parts, fmt.Sprintf("%s=%q", k, v))
	}
	return strings.Join(parts, ", ")
}

// Wrap wraps an existing error with a BenchError.
func Wrap(err error, code string, category Category, message string) *BenchError {
	return New(code, category, message).WithCause(err)
}

// AsBenchError attempts to convert an error to a BenchError.
// Returns the BenchError and true if successful, nil and false otherwise.
func AsBenchError(err error) (*BenchError, bool) {
	if err == nil {
		return nil, false
	}
	if be, ok := err.(*BenchError); ok {
		return be, true
	}
	return nil, false
}

// IsCategory checks if an error is a BenchError with the given category.
func IsCategory(err error, category Category) bool {
	if be, ok := AsBenchError(err); ok {
		return be.Category == category
	}
	return false
}

// IsCode checks if an error is a BenchError with the given code.
func IsCode(err error, code string) bool {
	if be, ok := AsBenchError(err); ok {
		return be.Code == code
	}
	return false
}

// -----------------------------------------------------------------------------
// Helper Constructors for Common Error Types
// -----------------------------------------------------------------------------

// ConfigError creates a new configuration error.
func ConfigError(code, message string) *BenchError {
	return New(code, CategoryConfig, message)
}

// ConfigErrorf creates a new configuration error with formatted message.
func ConfigErrorf(code, format string, args ...interface{}) *BenchError {
	return New(code, CategoryConfig, fmt.Sprintf(format, args...))
}

// ArchiveError creates a new archive extraction error.
func ArchiveError(code, message string) *BenchError {
	return New(code, CategoryArchive, message)
}

// ArchiveErrorf creates a new archive error with formatted message.
func ArchiveErrorf(code, format string, args ...interface{}) *BenchError {
	return New(code, CategoryArchive, fmt.Sprintf(format, args...))
}

// LayoutError creates a new report layout error.
func LayoutError(code, message string) *BenchError {
	return New(code, CategoryLayout, message)
}

// LayoutErrorf creates a new layout error with formatted message.
func LayoutErrorf(code, format string, args ...interface{}) *BenchError {
	return New(code, CategoryLayout, fmt.Sprintf(format, args...))
}

// IOError creates a new file/IO error.
func IOError(code, message string) *BenchError {
	return New(code, CategoryIO, message)
}

// IOErrorf creates a new IO error with formatted message.
func IOErrorf(code, format string, args ...interface{}) *BenchError {
	return New(code, CategoryIO, fmt.Sprintf(format, args...))
}

// ValidationError creates a new validation error.
func ValidationError(code, message string) *BenchError {
	return New(code, CategoryValidation, message)
}

// ValidationErrorf creates a new validation error with formatted message.
func ValidationErrorf(code, format string, args ...interface{}) *BenchError {
	return New(code, CategoryValidation, fmt.Sprintf(format, args...))
}

// InternalError creates a new internal/unexpected error.
func InternalError(code, message string) *BenchError {
	return New(code, CategoryInternal, message)
}

// -----------------------------------------------------------------------------
// Wrapping Helpers
// -----------------------------------------------------------------------------

// WrapConfig wraps an error as a configuration error.
func WrapConfig(err error, code, message string) *BenchError {
	return Wrap(err, code, CategoryConfig, message)
}

// WrapArchive wraps an error as an archive error.
func WrapArchive(err error, code, message string) *BenchError {
	return Wrap(err, code, CategoryArchive, message)
}

// WrapLayout wraps an error as a layout error.
func WrapLayout(err error, code, message string) *BenchError {
	return Wrap(err, code, CategoryLayout, message)
}

// WrapIO wraps an error as an IO error.
func WrapIO(err error, code, message string) *BenchError {
	return Wrap(err, code, CategoryIO, message)
}
