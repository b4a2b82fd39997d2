// Package errors provides standardized domain errors with codes for the Modship API.
//
// Usage:
//
//	// In services - return typed errors
//	if record.ContentPath == "" {
//	    return errors.Validation("new items must include a content archive")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrNotConnected) {
//	    // render a steady "not connected" state
//	}
//
//	// Or use the Code directly for switch statements
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeNotConnected:
//	        ...
//	    case errors.CodeValidation:
//	        ...
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	// CodeNotConnected means the Steam client is unavailable or the user is
	// not signed in. Recoverable and user-actionable, never fatal.
	CodeNotConnected Code = "NOT_CONNECTED"
	// CodeValidation means an upload record was rejected before any remote call.
	CodeValidation Code = "VALIDATION"
	// CodeRemote means a Workshop SDK call failed after a ready, authenticated client.
	CodeRemote Code = "REMOTE"
	// CodeCompressionInfeasible means a preview image cannot be reduced below
	// the Workshop size ceiling even at minimum quality and maximum downscale.
	CodeCompressionInfeasible Code = "COMPRESSION_INFEASIBLE"
	CodeNotFound              Code = "NOT_FOUND"
	CodeInternal              Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotConnected:
		return http.StatusServiceUnavailable
	case CodeValidation:
		return http.StatusBadRequest
	case CodeRemote:
		return http.StatusBadGateway
	case CodeCompressionInfeasible:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotConnected          = &Error{Code: CodeNotConnected, Message: "not connected to Steam"}
	ErrValidation            = &Error{Code: CodeValidation, Message: "validation error"}
	ErrRemote                = &Error{Code: CodeRemote, Message: "workshop operation failed"}
	ErrCompressionInfeasible = &Error{Code: CodeCompressionInfeasible, Message: "image cannot be compressed below the size limit"}
	ErrNotFound              = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInternal              = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// NotConnected creates a not connected error.
func NotConnected(msg string) *Error {
	return &Error{Code: CodeNotConnected, Message: msg}
}

// NotConnectedf creates a not connected error with formatted message.
func NotConnectedf(format string, args ...any) *Error {
	return &Error{Code: CodeNotConnected, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Remote creates a remote operation error.
func Remote(msg string) *Error {
	return &Error{Code: CodeRemote, Message: msg}
}

// Remotef creates a remote operation error with formatted message.
func Remotef(format string, args ...any) *Error {
	return &Error{Code: CodeRemote, Message: fmt.Sprintf(format, args...)}
}

// CompressionInfeasible creates a compression infeasible error.
func CompressionInfeasible(msg string) *Error {
	return &Error{Code: CodeCompressionInfeasible, Message: msg}
}

// CompressionInfeasiblef creates a compression infeasible error with formatted message.
func CompressionInfeasiblef(format string, args ...any) *Error {
	return &Error{Code: CodeCompressionInfeasible, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
