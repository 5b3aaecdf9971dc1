// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtran/lurnia/internal/platform/apperr"
)

/*
TestNew_ClassLabel verifies the status label derivation: "fail" for 4xx,
"error" for 5xx.
*/
func TestNew_ClassLabel(t *testing.T) {
	tests := []struct {
		name       string
		httpStatus int
		wantStatus string
	}{
		{"bad_request", http.StatusBadRequest, apperr.StatusFail},
		{"not_found", http.StatusNotFound, apperr.StatusFail},
		{"locked", http.StatusLocked, apperr.StatusFail},
		{"internal", http.StatusInternalServerError, apperr.StatusError},
		{"unavailable", http.StatusServiceUnavailable, apperr.StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := apperr.New(tt.httpStatus, "boom")
			assert.Equal(t, tt.wantStatus, ae.Status)
			assert.Equal(t, tt.httpStatus, ae.HTTPStatus)
			assert.True(t, ae.Operational)
		})
	}
}

/*
TestConstructors verifies status codes and messages of the taxonomy constructors.
*/
func TestConstructors(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, apperr.NotFound("Course").HTTPStatus)
	assert.Equal(t, "Course not found", apperr.NotFound("Course").Message)
	assert.Equal(t, http.StatusUnauthorized, apperr.Unauthorized("no").HTTPStatus)
	assert.Equal(t, http.StatusForbidden, apperr.Forbidden("no").HTTPStatus)
	assert.Equal(t, http.StatusConflict, apperr.Conflict("dup").HTTPStatus)
	assert.Equal(t, http.StatusLocked, apperr.Locked("locked").HTTPStatus)
	assert.Equal(t, http.StatusTooManyRequests, apperr.RateLimited("slow").HTTPStatus)
	assert.Equal(t, http.StatusServiceUnavailable, apperr.ServiceUnavailable("brb").HTTPStatus)
}

/*
TestInternal verifies that unexpected errors are non-operational, keep the
cause for logging, and expose only a generic message.
*/
func TestInternal(t *testing.T) {
	cause := errors.New("connection refused")
	ae := apperr.Internal(cause)

	assert.False(t, ae.Operational)
	assert.Equal(t, http.StatusInternalServerError, ae.HTTPStatus)
	assert.Equal(t, "An unexpected error occurred", ae.Message)
	assert.NotContains(t, ae.Message, "connection refused")
	assert.ErrorIs(t, ae, cause)
}

/*
TestValidationError verifies per-field details are carried on the error.
*/
func TestValidationError(t *testing.T) {
	ae := apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: "email", Message: "Must be a valid email address"},
	)

	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "email", ae.Details[0].Field)
}

/*
TestAs verifies extraction through wrapped error chains.
*/
func TestAs(t *testing.T) {
	ae := apperr.NotFound("Lesson")
	wrapped := fmt.Errorf("service_layer_failed: %w", ae)

	extracted := apperr.As(wrapped)
	require.NotNil(t, extracted)
	assert.Equal(t, http.StatusNotFound, extracted.HTTPStatus)

	assert.Nil(t, apperr.As(errors.New("plain")))
	assert.True(t, apperr.IsAppError(wrapped))
	assert.False(t, apperr.IsAppError(errors.New("plain")))
}
