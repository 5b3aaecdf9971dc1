// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package auth

import (
	"context"
	"time"
)

// UserStore defines the data access contract for user accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation is PostgreSQL ([PostgresUserStore]); tests use
// an in-memory fake.
type UserStore interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email.
	//
	// Returns [apperr.NotFound] if no user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a brand-new user account to the storage.
	//
	// Returns [apperr.Conflict] if the email unique constraint fails.
	Create(ctx context.Context, user *User) error

	// UpdateProfile persists changes to mutable profile fields (FullName).
	// Passwords must be updated via [UpdatePassword].
	UpdateProfile(ctx context.Context, user *User) error

	// UpdatePassword replaces the password hash and stamps
	// password_changed_at, which invalidates every previously issued token.
	// Separate from [UpdateProfile] to prevent accidental overwrites during
	// unrelated profile updates.
	UpdatePassword(ctx context.Context, userID, newHash string, changedAt time.Time) error

	// TrackFailedLogin records a failed credential check: the new attempt
	// counter and, when the lockout threshold is reached, the lock expiry.
	TrackFailedLogin(ctx context.Context, userID string, attempts int, lockedUntil *time.Time) error

	// ResetLoginAttempts zeroes the attempt counter and clears any lock.
	// Called after every successful login and password reset.
	ResetLoginAttempts(ctx context.Context, userID string) error

	// MarkVerified flips the email-verified flag.
	MarkVerified(ctx context.Context, userID string) error

	// SetActive toggles the account's active flag (deactivation/reactivation).
	SetActive(ctx context.Context, userID string, active bool) error
}

// VolatileTokenStore defines the contract for storing short-lived one-time
// tokens (password reset, email verification).
//
// # Storage Model
//
// Only the SHA-256 digest of a token is ever stored, keyed by digest with a
// TTL. The plain token exists solely in the email delivered to the user.
type VolatileTokenStore interface {
	// Set stores a token digest associated with a userID for a limited duration.
	Set(ctx context.Context, tokenDigest string, userID string, ttl time.Duration) error

	// Get retrieves the userID associated with a token digest.
	//
	// Returns [apperr.NotFound] if the digest is absent or expired.
	Get(ctx context.Context, tokenDigest string) (string, error)

	// Delete removes a token digest after successful use.
	Delete(ctx context.Context, tokenDigest string) error
}
