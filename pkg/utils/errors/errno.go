// Package errors provides the structured error system used across echomind.
//
// Every failure that crosses a component boundary is an *Errno: a stable
// numeric code, an HTTP status, a gRPC status and a human-readable message.
// Handlers render an Errno as the {message, details} failure envelope; the
// details field carries the wrapped cause so operators can tell which
// external dependency failed.
//
// Usage:
//
//	return errors.ErrRetrieval.WithCause(err)
//	return errors.ErrQueryRequired.WithMessage("query must not be empty")
package errors

import (
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

// Errno represents a structured error with code, status mappings and message.
type Errno struct {
	// Code is the stable numeric error code.
	Code int `json:"code"`

	// HTTP is the HTTP status code to return.
	HTTP int `json:"-"`

	// GRPCCode is the gRPC status code.
	GRPCCode codes.Code `json:"-"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// cause is the underlying error, surfaced via Details and Unwrap.
	cause error
}

// Error implements the error interface.
func (e *Errno) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("errno %d: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("errno %d: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Errno) Unwrap() error {
	return e.cause
}

// Details returns the underlying cause message, or "" when there is none.
func (e *Errno) Details() string {
	if e.cause == nil {
		return ""
	}
	return e.cause.Error()
}

// WithCause returns a copy of the Errno carrying the given cause.
func (e *Errno) WithCause(cause error) *Errno {
	clone := *e
	clone.cause = cause
	return &clone
}

// WithMessage returns a copy of the Errno with a custom message.
func (e *Errno) WithMessage(msg string) *Errno {
	clone := *e
	clone.Message = msg
	return &clone
}

// WithMessagef returns a copy of the Errno with a formatted message.
func (e *Errno) WithMessagef(format string, args ...interface{}) *Errno {
	clone := *e
	clone.Message = fmt.Sprintf(format, args...)
	return &clone
}

// HTTPStatus returns the HTTP status code, defaulting to 500.
func (e *Errno) HTTPStatus() int {
	if e.HTTP != 0 {
		return e.HTTP
	}
	return http.StatusInternalServerError
}

// Is matches errors by code so errors.Is works across WithCause/WithMessage
// copies of the same registered Errno.
func (e *Errno) Is(target error) bool {
	if t, ok := target.(*Errno); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new Errno.
func New(code, httpStatus int, grpcCode codes.Code, message string) *Errno {
	return &Errno{
		Code:     code,
		HTTP:     httpStatus,
		GRPCCode: grpcCode,
		Message:  message,
	}
}

// FromError coerces any error into an *Errno. Non-Errno errors become an
// internal error carrying the original as cause, so no failure detail is
// ever swallowed on the way to the response envelope.
func FromError(err error) *Errno {
	if err == nil {
		return nil
	}
	if errno, ok := err.(*Errno); ok {
		return errno
	}
	return ErrInternal.WithCause(err)
}
