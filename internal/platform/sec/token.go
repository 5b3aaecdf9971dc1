// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

/*
Package sec provides cryptographic primitives and token management.

It isolates security-sensitive code (hashing, token signing) from the domain
logic and acts as an Infrastructure service injected into the application
layer via the [TokenCodec] interface.

Two codec variants exist:

  - [TokenService]: RS256-signed JWTs. The production default.
  - [MockCodec]: a plain delimited string with no integrity guarantee.
    Test-only; never a security boundary.
*/
package sec

import (
	"errors"
	"time"
)

// Sentinel failures shared by every [TokenCodec] implementation.
var (
	// ErrTokenInvalid is returned when a token is malformed or its
	// signature does not verify.
	ErrTokenInvalid = errors.New("sec: invalid token")

	// ErrTokenExpired is returned when a structurally valid token is past
	// its embedded expiry.
	ErrTokenExpired = errors.New("sec: token expired")
)

// AuthClaims is the identity payload recovered from a decoded token.
type AuthClaims struct {
	// UserID is the account the token is bound to.
	UserID string

	// Email is the account email at issue time.
	Email string

	// Role is the account role at issue time.
	Role string

	// IssuedAt is the instant the token was minted. The authentication
	// middleware compares it against the account's password-changed
	// timestamp to invalidate pre-rotation tokens.
	IssuedAt time.Time

	// ExpiresAt is the embedded expiry. Zero for codecs without one.
	ExpiresAt time.Time
}

// TokenCodec turns a user identity into an opaque bearer token and back.
type TokenCodec interface {
	// Issue mints a token bound to exactly one account.
	Issue(userID, email, role string, timeToLive time.Duration) (string, error)

	// Decode recovers the identity claims from a token.
	//
	// Returns [ErrTokenInvalid] if the structure or signature does not
	// verify, or [ErrTokenExpired] if the embedded expiry has passed.
	Decode(token string) (*AuthClaims, error)
}

// # Request Identity

// Principal is the request-scoped projection of an authenticated account.
//
// It is built by the authentication middleware from the stored account record
// and attached to the request context. It deliberately carries an explicit
// allow-list of fields — the password hash can never reach a response because
// it is never present here.
type Principal struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	Verified bool   `json:"verified"`

	// TokenIssuedAt is the iat of the bearer token that authenticated this
	// request, kept for audit logging.
	TokenIssuedAt time.Time `json:"-"`
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
