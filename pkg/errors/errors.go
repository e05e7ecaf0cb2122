// Package errors provides structured error types for the archive builder.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP server and the
//     library entry points
//   - Machine-readable error codes for programmatic handling
//   - A nonzero process status per error category
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - CYCLE: The hard-prerequisite graph is not acyclic
//   - *_FAILED: A host read, host write or archive step failed
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPath, "artifact %q has no file name", p)
//	if errors.Is(err, errors.ErrCodeInvalidPath) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeReadFailed, origErr, "read %s", path)
//
//	os.Exit(errors.StatusCode(err))
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"
	ErrCodeCycle        Code = "CYCLE"

	// I/O errors
	ErrCodeReadFailed    Code = "READ_FAILED"
	ErrCodeWriteFailed   Code = "WRITE_FAILED"
	ErrCodeArchiveFailed Code = "ARCHIVE_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Process status codes returned by StatusCode.
const (
	StatusOK      = 0
	StatusFailure = 1
	StatusInput   = 2
	StatusRead    = 3
	StatusWrite   = 4
	StatusArchive = 5
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

// Status returns the process status for the error's code.
func (e *Error) Status() int {
	switch e.Code {
	case ErrCodeInvalidInput, ErrCodeInvalidPath, ErrCodeCycle:
		return StatusInput
	case ErrCodeReadFailed:
		return StatusRead
	case ErrCodeWriteFailed:
		return StatusWrite
	case ErrCodeArchiveFailed:
		return StatusArchive
	default:
		return StatusFailure
	}
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

// StatusCode maps err to a process exit status: 0 for nil, the category
// status for an *Error anywhere in the chain and 1 for anything else.
func StatusCode(err error) int {
	if err == nil {
		return StatusOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status()
	}
	return StatusFailure
}
