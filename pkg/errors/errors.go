// Package errors provides structured error types for the bootorder
// application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// The graph and schedule packages report failures with sentinel errors;
// [FromGraphError] translates them into coded errors at the boundary.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_COMPONENT, CYCLIC_GRAPH: Graph construction and ordering failures
//   - NOT_FOUND: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidManifest, "no components in %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidManifest) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "failed to store %s", id)
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/bootorder/pkg/dag"
	"github.com/matzehuels/bootorder/pkg/schedule"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidManifest  Code = "INVALID_MANIFEST"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidComponent Code = "INVALID_COMPONENT"
	ErrCodeInvalidDuration  Code = "INVALID_DURATION"
	ErrCodeTooLarge         Code = "REQUEST_TOO_LARGE"

	// Graph errors
	ErrCodeDuplicateComponent Code = "DUPLICATE_COMPONENT"
	ErrCodeUnknownComponent   Code = "UNKNOWN_COMPONENT"
	ErrCodeCyclicGraph        Code = "CYCLIC_GRAPH"
	ErrCodeUnresolvableCycle  Code = "UNRESOLVABLE_CYCLE"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// graphCodes maps core sentinels to codes. Order matters: ErrOrderMismatch
// may wrap ErrUnknownComponent and should win.
var graphCodes = []struct {
	sentinel error
	code     Code
}{
	{schedule.ErrOrderMismatch, ErrCodeInternal},
	{dag.ErrInvalidComponentID, ErrCodeInvalidComponent},
	{dag.ErrDuplicateComponent, ErrCodeDuplicateComponent},
	{dag.ErrUnknownComponent, ErrCodeUnknownComponent},
	{dag.ErrInvalidDuration, ErrCodeInvalidDuration},
	{dag.ErrCyclicGraph, ErrCodeCyclicGraph},
	{dag.ErrUnresolvableCycle, ErrCodeUnresolvableCycle},
}

// FromGraphError converts an error from the graph, transform or schedule
// packages into a coded *Error. Errors that already carry a code are
// returned unchanged; unrecognized errors become ErrCodeInternal. Returns
// nil for nil.
func FromGraphError(err error) error {
	if err == nil {
		return nil
	}
	if GetCode(err) != "" {
		return err
	}
	for _, gc := range graphCodes {
		if errors.Is(err, gc.sentinel) {
			return &Error{Code: gc.code, Message: err.Error(), Cause: err}
		}
	}
	return &Error{Code: ErrCodeInternal, Message: err.Error(), Cause: err}
}

// HTTPStatus returns the HTTP status code that best describes err.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidManifest, ErrCodeInvalidFormat,
		ErrCodeInvalidComponent, ErrCodeInvalidDuration,
		ErrCodeDuplicateComponent, ErrCodeUnknownComponent:
		return http.StatusBadRequest
	case ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeCyclicGraph:
		return http.StatusConflict
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
