// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtran/lurnia/internal/platform/sec"
)

/*
TestMockCodec_RoundTrip verifies that an issued mock token decodes back to
the same identity.
*/
func TestMockCodec_RoundTrip(t *testing.T) {
	codec := sec.MockCodec{}

	token, err := codec.Issue("user-1", "a@b.com", "student", time.Hour)
	require.NoError(t, err)

	claims, err := codec.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "student", claims.Role)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt, 5*time.Second)
}

/*
TestMockCodec_IssueAt verifies that the explicit issued-at instant survives
the round trip at second granularity.
*/
func TestMockCodec_IssueAt(t *testing.T) {
	codec := sec.MockCodec{}
	issuedAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	claims, err := codec.Decode(codec.IssueAt("user-2", "instructor", issuedAt))
	require.NoError(t, err)

	assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, "instructor", claims.Role)
}

/*
TestMockCodec_Decode_Malformed verifies that every structural defect maps to
the invalid-token sentinel.
*/
func TestMockCodec_Decode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"wrong_prefix", "other:user-1:student-1700000000"},
		{"missing_segment", "lurnia:user-1"},
		{"extra_segment", "lurnia:user-1:student-1:more"},
		{"empty_user", "lurnia::student-1700000000"},
		{"no_iat_separator", "lurnia:user-1:student"},
		{"trailing_separator", "lurnia:user-1:student-"},
		{"non_numeric_iat", "lurnia:user-1:student-abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.MockCodec{}.Decode(tt.token)
			assert.ErrorIs(t, err, sec.ErrTokenInvalid)
		})
	}
}

// newTestTokenService builds an RS256 codec with a throwaway key pair.
func newTestTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenService(key, &key.PublicKey, "lurnia.app")
}

/*
TestTokenService_RoundTrip verifies signing and decoding of a JWT.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.Issue("user-9", "minh@lurnia.app", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := service.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, "user-9", claims.UserID)
	assert.Equal(t, "minh@lurnia.app", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

/*
TestTokenService_Expired verifies that an expired token maps to the expiry
sentinel, distinct from a generic invalid token.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.Issue("user-9", "minh@lurnia.app", "student", -time.Minute)
	require.NoError(t, err)

	_, err = service.Decode(token)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenService_WrongKey verifies that a token signed with a different key
is rejected as invalid.
*/
func TestTokenService_WrongKey(t *testing.T) {
	issuerService := newTestTokenService(t)
	verifierService := newTestTokenService(t)

	token, err := issuerService.Issue("user-9", "minh@lurnia.app", "student", time.Hour)
	require.NoError(t, err)

	_, err = verifierService.Decode(token)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)
}

/*
TestTokenService_Tampered verifies that altering the payload breaks the
signature check.
*/
func TestTokenService_Tampered(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.Issue("user-9", "minh@lurnia.app", "student", time.Hour)
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "AAAA"
	_, err = service.Decode(tampered)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)
}

/*
TestHashPassword verifies the bcrypt round trip and rejection of a wrong
password.
*/
func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("learn1ngrocks")
	require.NoError(t, err)
	assert.NotEqual(t, "learn1ngrocks", hash)

	assert.True(t, sec.CheckPasswordHash("learn1ngrocks", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-password", hash))
}

/*
TestGenerateSecureToken verifies length and uniqueness of random tokens.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	// 32 random bytes hex-encode to 64 characters.
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)

	// Digesting is deterministic.
	assert.Equal(t, sec.HashToken(first), sec.HashToken(first))
	assert.NotEqual(t, sec.HashToken(first), sec.HashToken(second))
}

/*
TestRole_OneOf verifies the allow-list role check used by route guards.
*/
func TestRole_OneOf(t *testing.T) {
	assert.True(t, sec.RoleAdmin.OneOf(sec.RoleInstructor, sec.RoleAdmin))
	assert.False(t, sec.RoleStudent.OneOf(sec.RoleInstructor, sec.RoleAdmin))
	assert.False(t, sec.RoleStudent.OneOf())
}

/*
TestRole_AtLeast verifies the role hierarchy ordering.
*/
func TestRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleStudent))
	assert.True(t, sec.RoleInstructor.AtLeast(sec.RoleInstructor))
	assert.False(t, sec.RoleStudent.AtLeast(sec.RoleInstructor))
}
