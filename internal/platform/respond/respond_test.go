// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtran/lurnia/internal/platform/apperr"
	"github.com/minhtran/lurnia/internal/platform/ctxutil"
	"github.com/minhtran/lurnia/internal/platform/respond"
	"github.com/minhtran/lurnia/pkg/pagination"
)

// errorBody decodes the raw error envelope for assertions on optional fields.
type errorBody struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Cause     string `json:"error"`
	Stack     string `json:"stack"`
	Details   []struct {
		Field string `json:"field"`
	} `json:"details"`
}

func doError(t *testing.T, err error, environment string) (*httptest.ResponseRecorder, errorBody) {
	t.Helper()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil)
	if environment != "" {
		request = request.WithContext(ctxutil.WithEnvironment(request.Context(), environment))
	}

	respond.Error(recorder, request, err)

	var body errorBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder, body
}

/*
TestError_Operational verifies the envelope for an expected client failure:
literal message, "fail" class, RFC 3339 timestamp, no diagnostics.
*/
func TestError_Operational(t *testing.T) {
	recorder, body := doError(t, apperr.NotFound("Course"), "production")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "fail", body.Status)
	assert.Equal(t, "Course not found", body.Message)
	assert.Empty(t, body.Cause)
	assert.Empty(t, body.Stack)

	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)
}

/*
TestError_Programming_Production verifies that a non-operational error is
masked in production: generic message, no cause, no stack.
*/
func TestError_Programming_Production(t *testing.T) {
	recorder, body := doError(t, apperr.Internal(errors.New("pq: connection refused")), "production")

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "An unexpected error occurred", body.Message)
	assert.Empty(t, body.Cause)
	assert.Empty(t, body.Stack)
}

/*
TestError_Programming_Development verifies the verbose development variant:
same generic message plus cause and stack trace.
*/
func TestError_Programming_Development(t *testing.T) {
	recorder, body := doError(t, apperr.Internal(errors.New("pq: connection refused")), "development")

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "pq: connection refused", body.Cause)
	assert.NotEmpty(t, body.Stack)
}

/*
TestError_UnknownError verifies that a plain Go error is promoted to a masked
non-operational 500.
*/
func TestError_UnknownError(t *testing.T) {
	recorder, body := doError(t, errors.New("some library exploded"), "production")

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "An unexpected error occurred", body.Message)
	assert.NotContains(t, recorder.Body.String(), "some library exploded")
}

/*
TestError_ValidationDetails verifies that per-field details survive into the
envelope.
*/
func TestError_ValidationDetails(t *testing.T) {
	err := apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: "email", Message: "Must be a valid email address"})

	recorder, body := doError(t, err, "production")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "email", body.Details[0].Field)
}

/*
TestSuccessEnvelopes verifies shape and status codes of the success helpers.
*/
func TestSuccessEnvelopes(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.OK(recorder, map[string]string{"hello": "world"})

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"status":"success","data":{"hello":"world"}}`, recorder.Body.String())
	})

	t.Run("created", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.Created(recorder, map[string]string{"id": "1"})

		assert.Equal(t, http.StatusCreated, recorder.Code)
	})

	t.Run("with_token", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.WithToken(recorder, http.StatusOK, map[string]string{"id": "1"}, "jwt-token")

		var envelope respond.SuccessEnvelope
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.Equal(t, "jwt-token", envelope.Token)
		assert.Equal(t, "success", envelope.Status)
	})

	t.Run("message", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.Message(recorder, "Logged out")

		assert.JSONEq(t, `{"status":"success","message":"Logged out","data":null}`, recorder.Body.String())
	})

	t.Run("paginated", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.Paginated(recorder, []int{1, 2, 3}, pagination.NewMeta(1, 20, 3))

		var envelope respond.PaginatedEnvelope
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.Equal(t, 3, envelope.Meta.Total)
		assert.Equal(t, 1, envelope.Meta.TotalPages)
	})

	t.Run("no_content", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respond.NoContent(recorder)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Empty(t, recorder.Body.String())
	})
}
