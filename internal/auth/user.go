// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

// Package auth implements account identity and access management for Lurnia.
//
// # Architecture
//
//   - User: the account entity, the "Truth" of the identity system.
//   - Service: orchestrates registration, login, lockout, and password flows.
//   - Stores: abstracted interfaces for PostgreSQL (accounts) and Redis
//     (volatile reset/verification tokens).
//
// The package ensures that identity data remains consistent and secure
// throughout the platform's lifecycle.
package auth

import (
	"time"

	"github.com/minhtran/lurnia/internal/platform/sec"
)

// User represents a registered account on the Lurnia platform.
//
// # Rules
//   - Email is unique and validated.
//   - PasswordHash is generated via bcrypt exclusively by the Service and is
//     never serialized to a client-facing representation.
//   - LockedUntil, once set, is strictly in the future at set-time; it is
//     cleared on successful login or ignored after its own expiry.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	FullName     string    `json:"full_name"`
	Role         sec.Role  `json:"role"`
	Active       bool      `json:"active"`
	Verified     bool      `json:"verified"`

	// Lockout bookkeeping. Omitted from JSON: clients learn about lockout
	// through the 423 error envelope, not the profile payload.
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`

	// PasswordChangedAt invalidates every token issued before it.
	PasswordChangedAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LockedAt reports whether the account is locked at the given instant.
func (u *User) LockedAt(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// TokenStale reports whether a token issued at the given instant predates the
// account's last password change. Comparison is at second granularity because
// JWT iat claims carry unix seconds.
func (u *User) TokenStale(issuedAt time.Time) bool {
	return u.PasswordChangedAt != nil && issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// Principal builds the request-scoped identity projection for this account.
// It is an explicit field allow-list: the password hash has no path out.
func (u *User) Principal(tokenIssuedAt time.Time) *sec.Principal {
	return &sec.Principal{
		ID:            u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		Role:          u.Role,
		Verified:      u.Verified,
		TokenIssuedAt: tokenIssuedAt,
	}
}
