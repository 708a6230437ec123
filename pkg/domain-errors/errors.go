// Package domainerrors defines the structured error taxonomy surfaced by
// services. Every error carries a Code that handlers translate to an HTTP
// status, and a human-readable message safe to return to callers.
//
// Stores and infrastructure return pkg/platform/sentinel errors; services
// translate those facts into domain errors at the boundary. Handlers never
// inspect sentinel errors directly.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport translation and callers
// that branch on failure category.
type Code string

const (
	// CodeValidation covers malformed or semantically invalid input
	// (end date before start date, missing required field).
	CodeValidation Code = "validation"

	// CodeInvalidInput covers inputs that fail parsing at trust
	// boundaries (malformed UUIDs, unknown enum values).
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest covers requests that cannot be decoded at all.
	CodeBadRequest Code = "bad_request"

	// CodeNotFound indicates the referenced entity does not exist.
	CodeNotFound Code = "not_found"

	// CodeConflict indicates the entity is in a state that forbids the
	// operation (not PENDING, stale stage view, overlapping dates).
	CodeConflict Code = "conflict"

	// CodeUnauthorized indicates a missing or unusable caller identity.
	CodeUnauthorized Code = "unauthorized"

	// CodeForbidden indicates the caller's roles do not cover the
	// operation (stage authority mismatch, non-owner delete).
	CodeForbidden Code = "forbidden"

	// CodeInvariantViolation indicates a domain invariant would be broken.
	// Constructors return it; services usually convert it to CodeValidation
	// or CodeConflict before it reaches a caller.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeTimeout indicates the operation was abandoned due to a
	// cancelled or expired context.
	CodeTimeout Code = "timeout"

	// CodeInternal covers unexpected infrastructure failures.
	CodeInternal Code = "internal"
)

// Error is the concrete domain error type. Compare with HasCode rather
// than type assertions so wrapping stays transparent.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. A nil err
// returns nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err or anything it wraps carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is a readability alias for HasCode used at call sites that branch
// on a single expected code.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// errors that did not originate in the domain layer.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-safe message from err. Non-domain errors
// yield a generic message so internals never leak to clients.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}

// ToHTTPStatus maps a domain code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvariantViolation:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
