// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Extraction errors (100-199): Embedded state location and decoding failures
//   - Normalization errors (200-299): Candle location and range filtering failures
//   - Configuration errors (300-399): Invalid indicator and client configuration
//   - Fetch errors (400-499): Page retrieval failures
//   - Store errors (500-599): Candle history store failures
//   - Watchlist errors (600-699): Watchlist load and persistence failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeStateNotFound, "no embedded state in document")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeCandlesNotFound, "no candle array for %s", isin)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeStateMalformed, "failed to decode payload", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeCandlesNotFound) { ... }
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// EmptyRangeError represents an error when range filtering leaves zero
// candles. It is non-fatal: callers may degrade to a stale snapshot or a
// "no data" message instead of failing the request.
type EmptyRangeError struct {
	From       time.Time // Inclusive lower bound of the requested window
	To         time.Time // Inclusive upper bound of the requested window
	Identifier string    // Optional: instrument context
	Message    string    // Human-readable message
}

// NewEmptyRangeError creates a new EmptyRangeError.
func NewEmptyRangeError(from, to time.Time, identifier, message string) *EmptyRangeError {
	return &EmptyRangeError{
		From:       from,
		To:         to,
		Identifier: identifier,
		Message:    message,
	}
}

// NewEmptyRangeErrorf creates a new EmptyRangeError with a formatted message.
func NewEmptyRangeErrorf(from, to time.Time, identifier, format string, args ...any) *EmptyRangeError {
	return &EmptyRangeError{
		From:       from,
		To:         to,
		Identifier: identifier,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *EmptyRangeError) Error() string {
	return e.Message
}

// IsEmptyRangeError checks if an error is an EmptyRangeError.
// It uses errors.As to check the error chain.
func IsEmptyRangeError(err error) bool {
	var emptyErr *EmptyRangeError

	return errors.As(err, &emptyErr)
}
