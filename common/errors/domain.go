// Package errors defines the domain error type raised by API handlers and the
// classification used to turn any error into a failure envelope.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// DomainError is an intentional, expected failure of an API operation. It
// carries the HTTP status code to answer with, a client-facing message and an
// optional body that is sent as the envelope's "error" value.
type DomainError struct {
	// Code is the HTTP status code, expected in the 400-599 range
	Code int
	// Message is the human-readable message sent to the client
	Message string
	// Body is an optional client-safe payload
	Body any

	cause error
}

// New creates a domain error with the given status code and message
func New(code int, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message
func Newf(code int, format string, args ...any) *DomainError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a domain error that keeps cause reachable through errors.Unwrap.
// The cause is never sent to the client.
func Wrap(cause error, code int, message string) *DomainError {
	return &DomainError{Code: code, Message: message, cause: cause}
}

// WithBody attaches a client-safe payload to the error
func (e *DomainError) WithBody(body any) *DomainError {
	e.Body = body
	return e
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Common error constructors

// BadRequest creates a 400 domain error
func BadRequest(message string) *DomainError {
	return New(http.StatusBadRequest, message)
}

// Unauthorized creates a 401 domain error
func Unauthorized(message string) *DomainError {
	return New(http.StatusUnauthorized, message)
}

// Forbidden creates a 403 domain error
func Forbidden(message string) *DomainError {
	return New(http.StatusForbidden, message)
}

// NotFound creates a 404 domain error
func NotFound(message string) *DomainError {
	return New(http.StatusNotFound, message)
}

// MethodNotAllowed creates a 405 domain error
func MethodNotAllowed(message string) *DomainError {
	return New(http.StatusMethodNotAllowed, message)
}

// Conflict creates a 409 domain error
func Conflict(message string) *DomainError {
	return New(http.StatusConflict, message)
}

// Unprocessable creates a 422 domain error
func Unprocessable(message string) *DomainError {
	return New(http.StatusUnprocessableEntity, message)
}

// TooManyRequests creates a 429 domain error
func TooManyRequests(message string) *DomainError {
	return New(http.StatusTooManyRequests, message)
}

// Internal creates a 500 domain error. Unlike an unclassified error it is
// treated as handled and is not reported as a fault.
func Internal(message string) *DomainError {
	return New(http.StatusInternalServerError, message)
}

// NotImplemented creates a 501 domain error
func NotImplemented(message string) *DomainError {
	return New(http.StatusNotImplemented, message)
}

// Re-exported helpers so callers don't need to import both errors packages

// Is reports whether any error in err's tree matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
