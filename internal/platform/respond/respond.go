// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses and is
// the single terminal stage of the error pipeline: handlers never format
// failure responses themselves, they raise an error and delegate here.
// Every response (success or error) follows a strict, predictable JSON
// envelope so frontend clients can parse data robustly.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/minhtran/lurnia/internal/platform/apperr"
	"github.com/minhtran/lurnia/internal/platform/ctxutil"
	"github.com/minhtran/lurnia/pkg/pagination"
)

// SuccessEnvelope is the JSON envelope for successful responses.
type SuccessEnvelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
	Token   string      `json:"token,omitempty"`
}

// PaginatedEnvelope is the JSON envelope for paginated list responses.
type PaginatedEnvelope struct {
	Status string          `json:"status"`
	Data   interface{}     `json:"data"`
	Meta   pagination.Meta `json:"meta"`
}

// ErrorEnvelope is the JSON envelope for 4xx/5xx responses.
//
// Cause and Stack are development-mode extras; production clients only ever
// see status, message, timestamp, and validation details.
type ErrorEnvelope struct {
	Status    string              `json:"status"`
	Message   string              `json:"message"`
	Timestamp string              `json:"timestamp"`
	Details   []apperr.FieldError `json:"details,omitempty"`
	Cause     string              `json:"error,omitempty"`
	Stack     string              `json:"stack,omitempty"`
}

// fallbackBody is the fixed envelope written when JSON encoding itself fails.
// The terminal stage must never panic or produce an empty body.
const fallbackBody = `{"status":"error","message":"An unexpected error occurred"}`

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		writer.WriteHeader(http.StatusInternalServerError)
		_, _ = writer.Write([]byte(fallbackBody))
		return
	}

	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(body)
}

// OK writes a 200 OK response with data wrapped in the standard success envelope.
func OK(writer http.ResponseWriter, data interface{}) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Status: "success", Data: data})
}

// Created writes a 201 Created response with data wrapped in the standard success envelope.
func Created(writer http.ResponseWriter, data interface{}) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Status: "success", Data: data})
}

// WithToken writes a success response that also carries a freshly issued
// bearer token at the envelope top level.
func WithToken(writer http.ResponseWriter, statusCode int, data interface{}, token string) {
	JSON(writer, statusCode, SuccessEnvelope{Status: "success", Data: data, Token: token})
}

// Message writes a 200 OK response with a human-readable message and no data.
func Message(writer http.ResponseWriter, message string) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Status: "success", Message: message, Data: nil})
}

// Paginated writes a 200 OK response with paginated data and a metadata block.
func Paginated(writer http.ResponseWriter, data interface{}, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Status: "success", Data: data, Meta: metadata})
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error converts any Go error into a standardized JSON API error response.
//
// # Flow
//
//  1. Non-[apperr.AppError] failures are wrapped as non-operational 500s.
//  2. Every error is logged exactly once with method, path, client IP, and
//     user agent before the response is shaped.
//  3. Operational errors expose their literal message. Non-operational errors
//     expose full detail plus a stack trace in development, and a fixed
//     generic message in production.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)
	isDevelopment := ctxutil.IsDevelopment(ctx)

	// ── 1. Operational Log ────────────────────────────────────────────────

	logLevel := slog.LevelWarn
	if appError.HTTPStatus >= 500 {
		logLevel = slog.LevelError
	}

	logAttrs := []any{
		slog.Int("status", appError.HTTPStatus),
		slog.String("class", appError.Status),
		slog.String("message", appError.Message),
		slog.String("method", request.Method),
		slog.String("path", request.URL.Path),
		slog.String("ip", clientIP(request)),
		slog.String("user_agent", request.UserAgent()),
	}
	if appError.Cause != nil {
		logAttrs = append(logAttrs, slog.String("cause", appError.Cause.Error()))
	}

	logger.Log(ctx, logLevel, "request_failed", logAttrs...)

	// ── 2. Response Shaping ───────────────────────────────────────────────

	envelope := ErrorEnvelope{
		Status:    appError.Status,
		Message:   appError.Message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Details:   appError.Details,
	}

	if !appError.Operational && isDevelopment {
		// Development mode: surface the full diagnostic detail.
		if appError.Cause != nil {
			envelope.Cause = appError.Cause.Error()
		}
		envelope.Stack = captureStack()
	}

	JSON(writer, appError.HTTPStatus, envelope)
}

// captureStack returns the current goroutine's stack trace.
func captureStack() string {
	buffer := make([]byte, 4096)
	length := runtime.Stack(buffer, false)
	return string(buffer[:length])
}

// clientIP returns the direct peer address without the port.
// Proxy-aware resolution lives in the middleware package; this is only a
// logging fallback, so the raw RemoteAddr is acceptable here.
func clientIP(request *http.Request) string {
	if forwarded := request.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return request.RemoteAddr
}
