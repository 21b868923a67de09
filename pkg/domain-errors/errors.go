// Package dErrors carries typed domain errors across layer boundaries.
// Services return these; the HTTP transport is the only place that maps
// codes to status lines, so the taxonomy lives in exactly one file.
package dErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the class of a domain error.
type Code string

const (
	CodeInvalidInput   Code = "invalid_input"
	CodeUnauthorized   Code = "unauthorized"
	CodeNoRole         Code = "no_role"
	CodeForbidden      Code = "forbidden"
	CodeNotFound       Code = "not_found"
	CodeNotProvisioned Code = "not_provisioned"
	CodeConflict       Code = "conflict"
	CodeUnavailable    Code = "unavailable"
	CodeInternal       Code = "internal"
)

// Error is a domain error with a stable machine-readable code and a
// human-readable message safe to return to callers.
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

// New creates a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause. The cause is
// preserved for logging but never serialized to callers.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// Is reports whether err carries the given domain code.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the domain code from err, defaulting to CodeInternal for
// errors that escaped without classification.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the safe message from err. Unclassified errors get a
// generic message so internals never leak to callers.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}

// ToHTTPStatus maps a domain code to an HTTP status.
//
// no_role and not_provisioned map to 401 on purpose: both are authentication
// outcomes, but their codes stay distinct so callers can tell a provisioning
// gap apart from bad credentials.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeNoRole, CodeNotProvisioned:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
