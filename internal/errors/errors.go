// Package errors provides structured error handling for scandiff
// operations. It defines error codes, typed errors for input and usage
// failures, and the mapping from failures to process exit codes.
package errors

import (
	"fmt"
)

// ErrorCode represents different types of errors that can occur.
type ErrorCode string

const (
	CodeUnknown ErrorCode = "UNKNOWN"

	// Input errors.
	CodeFileNotFound ErrorCode = "FILE_NOT_FOUND"
	CodeParse        ErrorCode = "PARSE"

	// Invocation errors.
	CodeUsage  ErrorCode = "USAGE"
	CodeFormat ErrorCode = "FORMAT"

	// Violated internal invariants.
	CodeInternal ErrorCode = "INTERNAL"
)

// Process exit codes. Equal and Different are outcomes, not errors; any
// error maps to ExitError.
const (
	ExitEqual     = 0
	ExitDifferent = 1
	ExitError     = 2
)

// InputError represents a failure to load one of the two input files.
type InputError struct {
	Code    ErrorCode
	Message string
	Path    string
	Cause   error
}

// Error implements the error interface.
func (e *InputError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s (file: %s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *InputError) Unwrap() error {
	return e.Cause
}

// NewInputError creates an input error for a specific file.
func NewInputError(code ErrorCode, message, path string) *InputError {
	return &InputError{Code: code, Message: message, Path: path}
}

// WrapInputError wraps an existing error as an input error.
func WrapInputError(code ErrorCode, message, path string, err error) *InputError {
	return &InputError{Code: code, Message: message, Path: path, Cause: err}
}

// UsageError represents an invalid invocation: wrong argument count or
// contradictory flags. It is fatal before any comparison runs.
type UsageError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewUsageError creates a usage error.
func NewUsageError(message string) *UsageError {
	return &UsageError{Code: CodeUsage, Message: message}
}

// NewFormatError creates a usage error for contradictory or unsupported
// output format selection.
func NewFormatError(message string) *UsageError {
	return &UsageError{Code: CodeFormat, Message: message}
}

// InternalError represents a violated invariant inside the diff engine.
// It is never swallowed; it propagates to the top level and maps to the
// error exit code instead of producing a partial diff.
type InternalError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *InternalError) Unwrap() error {
	return e.Cause
}

// WrapInternalError wraps an unexpected failure as an internal error.
func WrapInternalError(message string, err error) *InternalError {
	return &InternalError{Code: CodeInternal, Message: message, Cause: err}
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error if it has one.
func GetCode(err error) ErrorCode {
	switch e := err.(type) {
	case *InputError:
		return e.Code
	case *UsageError:
		return e.Code
	case *InternalError:
		return e.Code
	}
	return CodeUnknown
}

// ExitCode maps an error to the process exit code. A nil error is not an
// outcome decision; callers choose between ExitEqual and ExitDifferent
// from the comparison cost.
func ExitCode(err error) int {
	if err == nil {
		return ExitEqual
	}
	return ExitError
}
