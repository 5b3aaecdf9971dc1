// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package sec

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// mockPrefix is the fixed literal segment every mock token starts with.
const mockPrefix = "lurnia"

// MockCodec is the unsigned [TokenCodec] variant.
//
// # NOT A SECURITY BOUNDARY
//
// Tokens are plain delimited strings ("lurnia:<id>:<role>-<iat>"): decoding is
// purely structural — split on a delimiter, check the fixed prefix, parse a
// trailing integer. There is no signature, no expiry, and no integrity
// guarantee; anyone can forge a token for any account. It exists so that
// middleware and handler tests can mint tokens without key material, and must
// never be wired into a deployed server.
type MockCodec struct{}

// compile-time interface check
var _ TokenCodec = (*MockCodec)(nil)

// Issue mints a forgeable plain-text token. The timeToLive is ignored because
// the format carries no expiry.
func (MockCodec) Issue(userID, _, role string, _ time.Duration) (string, error) {
	return fmt.Sprintf("%s:%s:%s-%d", mockPrefix, userID, role, time.Now().Unix()), nil
}

// IssueAt mints a token with an explicit issued-at instant. Tests use it to
// fabricate tokens that predate a password change.
func (MockCodec) IssueAt(userID, role string, issuedAt time.Time) string {
	return fmt.Sprintf("%s:%s:%s-%d", mockPrefix, userID, role, issuedAt.Unix())
}

// Decode parses the delimited structure. It can only fail with
// [ErrTokenInvalid]; the format has no expiry to check.
func (MockCodec) Decode(token string) (*AuthClaims, error) {
	segments := strings.Split(token, ":")
	if len(segments) != 3 || segments[0] != mockPrefix || segments[1] == "" {
		return nil, ErrTokenInvalid
	}

	// The last segment is "<role>-<unix-iat>".
	separator := strings.LastIndex(segments[2], "-")
	if separator <= 0 || separator == len(segments[2])-1 {
		return nil, ErrTokenInvalid
	}

	issuedUnix, err := strconv.ParseInt(segments[2][separator+1:], 10, 64)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return &AuthClaims{
		UserID:   segments[1],
		Role:     segments[2][:separator],
		IssuedAt: time.Unix(issuedUnix, 0),
	}, nil
}
