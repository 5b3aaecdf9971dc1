// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

/*
Package apperr defines the centralized error handling framework for Lurnia.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct carrying an HTTP status, a derived class label, and an
    operational flag separating expected failures from programming errors.
  - Classification: Status < 500 is labeled "fail", >= 500 is labeled "error".
  - Mapping: Explicit constructors for every failure category in the taxonomy.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// Class labels derived from the HTTP status code.
const (
	// StatusFail labels client errors (4xx).
	StatusFail = "fail"
	// StatusError labels server errors (5xx).
	StatusError = "error"
)

// AppError is the canonical error type for the Lurnia API.
//
// It carries an HTTP status code, a derived class label ("fail" for 4xx,
// "error" for 5xx), a client-safe message, and an operational flag.
//
// # Operational vs Programming Errors
//
// Operational errors are expected, safe-to-expose failures (validation,
// not-found, unauthorized). Programming errors are everything else: their
// message is masked in production and only surfaced in development mode.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// in production to avoid leaking internal implementation details.
type AppError struct {
	// Status is the derived class label: "fail" for 4xx, "error" for 5xx.
	Status string `json:"status"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Operational marks expected failures that are safe to expose verbatim.
	Operational bool `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for validation responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// New constructs an operational [AppError] with an explicit status code.
// The class label is derived from the status: "fail" below 500, "error" above.
func New(httpStatus int, message string) *AppError {
	return &AppError{
		Status:      classLabel(httpStatus),
		Message:     message,
		HTTPStatus:  httpStatus,
		Operational: true,
	}
}

// classLabel derives the envelope class label from an HTTP status code.
func classLabel(httpStatus int) string {
	if httpStatus >= 500 {
		return StatusError
	}
	return StatusFail
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Course") // Returns "Course not found"
func NotFound(resource string) *AppError {
	return New(http.StatusNotFound, resource+" not found")
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return New(http.StatusUnauthorized, msg)
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return New(http.StatusForbidden, msg)
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return New(http.StatusConflict, msg)
}

// Locked creates a 423 [AppError] for temporarily locked accounts.
//
// The distinct status code lets clients tell a lockout apart from a generic
// credential failure (401).
func Locked(msg string) *AppError {
	return New(http.StatusLocked, msg)
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	appError := New(http.StatusBadRequest, msg)
	appError.Details = details
	return appError
}

// RateLimited creates a 429 [AppError].
func RateLimited(msg string) *AppError {
	return New(http.StatusTooManyRequests, msg)
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
//
// It is the only constructor that produces a non-operational error: the cause
// is stored for logging but the client-facing message stays generic.
func Internal(cause error) *AppError {
	return &AppError{
		Status:      StatusError,
		Message:     "An unexpected error occurred",
		HTTPStatus:  http.StatusInternalServerError,
		Operational: false,
		Cause:       cause,
	}
}

// ServiceUnavailable creates a 503 [AppError] for maintenance mode.
func ServiceUnavailable(msg string) *AppError {
	return New(http.StatusServiceUnavailable, msg)
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
