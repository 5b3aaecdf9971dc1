// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// # Safety
//
// It is used to store and retrieve per-request values (identity, request ID,
// logger, pre-fetched resources). Using a private, unexported type for keys
// prevents collisions with third-party packages that might also use context
// for storage.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
//
// # Collision Prevention
//
// Even if another package uses "request_id" as a string key, it will not
// collide with this key type because Go's [context.Context] uses both the
// value AND the type for lookups.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyPrincipal is the context key for the authenticated identity ([*sec.Principal]).
	KeyPrincipal key = "principal"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"

	// KeyEnvironment is the context key for the runtime environment name.
	// The error pipeline reads it to choose between verbose and masked responses.
	KeyEnvironment key = "environment"

	// KeyCourse is the context key for a course pre-fetched by an
	// authorization check, attached so handlers avoid a second lookup.
	KeyCourse key = "course"

	// KeyEnrollment is the context key for an enrollment pre-fetched by an
	// authorization check.
	KeyEnrollment key = "enrollment"
)
