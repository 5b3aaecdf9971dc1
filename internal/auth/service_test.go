// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtran/lurnia/internal/auth"
	"github.com/minhtran/lurnia/internal/platform/apperr"
	"github.com/minhtran/lurnia/internal/platform/sec"
)

// # Test Fakes

// memoryUserStore is an in-memory [auth.UserStore].
type memoryUserStore struct {
	byID map[string]*auth.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{byID: make(map[string]*auth.User)}
}

func (store *memoryUserStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := store.byID[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	copied := *user
	return &copied, nil
}

func (store *memoryUserStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range store.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (store *memoryUserStore) Create(_ context.Context, user *auth.User) error {
	for _, existing := range store.byID {
		if existing.Email == user.Email {
			return apperr.Conflict("Account already exists")
		}
	}
	copied := *user
	store.byID[user.ID] = &copied
	return nil
}

func (store *memoryUserStore) UpdateProfile(_ context.Context, user *auth.User) error {
	existing, ok := store.byID[user.ID]
	if !ok {
		return apperr.NotFound("Account")
	}
	existing.FullName = user.FullName
	return nil
}

func (store *memoryUserStore) UpdatePassword(_ context.Context, userID, newHash string, changedAt time.Time) error {
	user, ok := store.byID[userID]
	if !ok {
		return apperr.NotFound("Account")
	}
	user.PasswordHash = newHash
	user.PasswordChangedAt = &changedAt
	return nil
}

func (store *memoryUserStore) TrackFailedLogin(_ context.Context, userID string, attempts int, lockedUntil *time.Time) error {
	user, ok := store.byID[userID]
	if !ok {
		return apperr.NotFound("Account")
	}
	user.FailedLoginAttempts = attempts
	user.LockedUntil = lockedUntil
	return nil
}

func (store *memoryUserStore) ResetLoginAttempts(_ context.Context, userID string) error {
	user, ok := store.byID[userID]
	if !ok {
		return apperr.NotFound("Account")
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	return nil
}

func (store *memoryUserStore) MarkVerified(_ context.Context, userID string) error {
	user, ok := store.byID[userID]
	if !ok {
		return apperr.NotFound("Account")
	}
	user.Verified = true
	return nil
}

func (store *memoryUserStore) SetActive(_ context.Context, userID string, active bool) error {
	user, ok := store.byID[userID]
	if !ok {
		return apperr.NotFound("Account")
	}
	user.Active = active
	return nil
}

// memoryTokenStore is an in-memory [auth.VolatileTokenStore]. TTLs are
// ignored; expiry is Redis's job, not the service's.
type memoryTokenStore struct {
	byDigest map[string]string
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{byDigest: make(map[string]string)}
}

func (store *memoryTokenStore) Set(_ context.Context, digest, userID string, _ time.Duration) error {
	store.byDigest[digest] = userID
	return nil
}

func (store *memoryTokenStore) Get(_ context.Context, digest string) (string, error) {
	userID, ok := store.byDigest[digest]
	if !ok {
		return "", apperr.NotFound("Token")
	}
	return userID, nil
}

func (store *memoryTokenStore) Delete(_ context.Context, digest string) error {
	delete(store.byDigest, digest)
	return nil
}

// captureNotifier records dispatched tokens instead of sending email.
type captureNotifier struct {
	verificationTokens []string
	resetTokens        []string
	failSend           bool
}

func (notifier *captureNotifier) SendVerificationEmail(_ context.Context, _, token string) error {
	if notifier.failSend {
		return assert.AnError
	}
	notifier.verificationTokens = append(notifier.verificationTokens, token)
	return nil
}

func (notifier *captureNotifier) SendPasswordResetEmail(_ context.Context, _, token string) error {
	if notifier.failSend {
		return assert.AnError
	}
	notifier.resetTokens = append(notifier.resetTokens, token)
	return nil
}

// # Fixture

type fixture struct {
	service  *auth.Service
	users    *memoryUserStore
	resets   *memoryTokenStore
	verifies *memoryTokenStore
	notifier *captureNotifier
	now      time.Time
}

func newFixture(t *testing.T, options ...auth.ServiceOption) *fixture {
	t.Helper()

	f := &fixture{
		users:    newMemoryUserStore(),
		resets:   newMemoryTokenStore(),
		verifies: newMemoryTokenStore(),
		notifier: &captureNotifier{},
		now:      time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC),
	}

	options = append(options, auth.WithClock(func() time.Time { return f.now }))
	f.service = auth.NewService(
		f.users, f.resets, f.verifies,
		sec.MockCodec{},
		f.notifier,
		slog.Default(),
		options...,
	)
	return f
}

func (f *fixture) register(t *testing.T, email, password string) *auth.User {
	t.Helper()
	result, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email:    email,
		Password: password,
		FullName: "Test Account",
	})
	require.NoError(t, err)
	return result.User
}

// # Registration

/*
TestRegister verifies the account defaults: student role, active, unverified,
hashed password, token issued, verification email dispatched.
*/
func TestRegister(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email:    "student@lurnia.app",
		Password: "learn1ngrocks",
		FullName: "New Student",
	})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleStudent, result.User.Role)
	assert.True(t, result.User.Active)
	assert.False(t, result.User.Verified)
	assert.NotEmpty(t, result.Token)
	assert.NotEqual(t, "learn1ngrocks", result.User.PasswordHash)
	assert.Len(t, f.notifier.verificationTokens, 1)
}

/*
TestRegister_DuplicateEmail verifies the uniqueness rule answers 409.
*/
func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "student@lurnia.app", "learn1ngrocks")

	_, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email:    "student@lurnia.app",
		Password: "0therpassword",
	})

	require.Error(t, err)
	assert.Equal(t, 409, apperr.As(err).HTTPStatus)
}

/*
TestRegister_NotifierFailure verifies that a failed verification dispatch does
not fail the registration itself.
*/
func TestRegister_NotifierFailure(t *testing.T) {
	f := newFixture(t)
	f.notifier.failSend = true

	result, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email:    "student@lurnia.app",
		Password: "learn1ngrocks",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

// # Login & Lockout

/*
TestLogin verifies the credential happy path.
*/
func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.register(t, "student@lurnia.app", "learn1ngrocks")

	result, err := f.service.Login(context.Background(), auth.LoginInput{
		Email:    "student@lurnia.app",
		Password: "learn1ngrocks",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

/*
TestLogin_GenericFailures verifies that unknown emails and wrong passwords
share the same generic 401.
*/
func TestLogin_GenericFailures(t *testing.T) {
	f := newFixture(t)
	f.register(t, "student@lurnia.app", "learn1ngrocks")

	_, unknownErr := f.service.Login(context.Background(), auth.LoginInput{
		Email: "nobody@lurnia.app", Password: "learn1ngrocks"})
	_, wrongErr := f.service.Login(context.Background(), auth.LoginInput{
		Email: "student@lurnia.app", Password: "wrong-password1"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.Equal(t, 401, apperr.As(wrongErr).HTTPStatus)
}

/*
TestLogin_Lockout verifies the lockout policy: the Nth consecutive failure
arms the lock, subsequent attempts answer 423 until the window expires.
*/
func TestLogin_Lockout(t *testing.T) {
	f := newFixture(t, auth.WithLockoutPolicy(auth.LockoutPolicy{
		MaxAttempts:  5,
		LockDuration: 2 * time.Hour,
	}))
	f.register(t, "student@lurnia.app", "learn1ngrocks")

	badLogin := auth.LoginInput{Email: "student@lurnia.app", Password: "wrong-password1"}

	// Failures 1-5 all answer the generic 401; the 5th arms the lock.
	for i := 0; i < 5; i++ {
		_, err := f.service.Login(context.Background(), badLogin)
		require.Error(t, err)
		assert.Equal(t, 401, apperr.As(err).HTTPStatus, "attempt %d", i+1)
	}

	// The lock is now active: even the correct password answers 423.
	_, err := f.service.Login(context.Background(), auth.LoginInput{
		Email: "student@lurnia.app", Password: "learn1ngrocks"})
	require.Error(t, err)
	assert.Equal(t, 423, apperr.As(err).HTTPStatus)

	// The remaining time is measured against the service clock, not the wall
	// clock: halfway through the window the message reports one hour left.
	f.now = f.now.Add(time.Hour)
	_, err = f.service.Login(context.Background(), auth.LoginInput{
		Email: "student@lurnia.app", Password: "learn1ngrocks"})
	require.Error(t, err)
	assert.Contains(t, apperr.As(err).Message, "1h0m0s")

	// After the window passes, the correct password works and clears the lock.
	f.now = f.now.Add(2*time.Hour + time.Minute)
	result, err := f.service.Login(context.Background(), auth.LoginInput{
		Email: "student@lurnia.app", Password: "learn1ngrocks"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	user, err := f.users.FindByEmail(context.Background(), "student@lurnia.app")
	require.NoError(t, err)
	assert.Zero(t, user.FailedLoginAttempts)
	assert.Nil(t, user.LockedUntil)
}

/*
TestLogin_CounterReset verifies that a success below the threshold zeroes the
attempt counter, so failures do not accumulate across sessions.
*/
func TestLogin_CounterReset(t *testing.T) {
	f := newFixture(t)
	f.register(t, "student@lurnia.app", "learn1ngrocks")

	badLogin := auth.LoginInput{Email: "student@lurnia.app", Password: "wrong-password1"}
	goodLogin := auth.LoginInput{Email: "student@lurnia.app", Password: "learn1ngrocks"}

	for i := 0; i < 4; i++ {
		_, _ = f.service.Login(context.Background(), badLogin)
	}

	_, err := f.service.Login(context.Background(), goodLogin)
	require.NoError(t, err)

	// Four more failures again stay below the threshold.
	for i := 0; i < 4; i++ {
		_, err := f.service.Login(context.Background(), badLogin)
		assert.Equal(t, 401, apperr.As(err).HTTPStatus)
	}

	_, err = f.service.Login(context.Background(), goodLogin)
	assert.NoError(t, err)
}

/*
TestLogin_Deactivated verifies that deactivated accounts cannot log in.
*/
func TestLogin_Deactivated(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "student@lurnia.app", "learn1ngrocks")

	require.NoError(t, f.service.Deactivate(context.Background(), user.ID))

	_, err := f.service.Login(context.Background(), auth.LoginInput{
		Email: "student@lurnia.app", Password: "learn1ngrocks"})
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}

// # Email Verification

/*
TestVerifyEmail verifies the one-time verification token flow.
*/
func TestVerifyEmail(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "student@lurnia.app", "learn1ngrocks")
	require.Len(t, f.notifier.verificationTokens, 1)
	token := f.notifier.verificationTokens[0]

	require.NoError(t, f.service.VerifyEmail(context.Background(), token))

	refreshed, err := f.service.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.Verified)

	// Second use must fail: the token is consumed.
	err = f.service.VerifyEmail(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)
}

// # Password Reset

/*
TestPasswordReset verifies the full reset flow, including that the new
password invalidates tokens issued before the change.
*/
func TestPasswordReset(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "student@lurnia.app", "learn1ngrocks")

	require.NoError(t, f.service.RequestPasswordReset(context.Background(), "student@lurnia.app"))
	require.Len(t, f.notifier.resetTokens, 1)
	token := f.notifier.resetTokens[0]

	// Advance the clock: the reset instant must postdate earlier tokens.
	f.now = f.now.Add(time.Minute)

	require.NoError(t, f.service.ResetPassword(context.Background(), token, "freshpassw0rd"))

	// Old password no longer works, new one does.
	_, err := f.service.Login(context.Background(), auth.LoginInput{
		Email: "student@lurnia.app", Password: "learn1ngrocks"})
	require.Error(t, err)

	_, err = f.service.Login(context.Background(), auth.LoginInput{
		Email: "student@lurnia.app", Password: "freshpassw0rd"})
	require.NoError(t, err)

	// Tokens issued before the change are now stale.
	refreshed, err := f.service.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.TokenStale(f.now.Add(-time.Minute)))
	assert.False(t, refreshed.TokenStale(f.now.Add(time.Minute)))

	// The reset token is one-time use.
	err = f.service.ResetPassword(context.Background(), token, "an0therpassword")
	require.Error(t, err)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)
}

/*
TestRequestPasswordReset_UnknownEmail verifies the anti-enumeration rule:
unknown addresses report success and dispatch nothing.
*/
func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	err := f.service.RequestPasswordReset(context.Background(), "nobody@lurnia.app")

	assert.NoError(t, err)
	assert.Empty(t, f.notifier.resetTokens)
}

/*
TestRequestPasswordReset_DispatchFailure verifies that a failed reset email
invalidates the stored token and surfaces the error.
*/
func TestRequestPasswordReset_DispatchFailure(t *testing.T) {
	f := newFixture(t)
	f.register(t, "student@lurnia.app", "learn1ngrocks")
	f.notifier.failSend = true

	err := f.service.RequestPasswordReset(context.Background(), "student@lurnia.app")

	require.Error(t, err)
	assert.Empty(t, f.resets.byDigest)
}

// # Password Change

/*
TestChangePassword verifies rotation with the current password and the fresh
token in the result.
*/
func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "student@lurnia.app", "learn1ngrocks")

	// Wrong current password is rejected.
	_, err := f.service.ChangePassword(context.Background(), user.ID, "wrong-password1", "freshpassw0rd")
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)

	result, err := f.service.ChangePassword(context.Background(), user.ID, "learn1ngrocks", "freshpassw0rd")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = f.service.Login(context.Background(), auth.LoginInput{
		Email: "student@lurnia.app", Password: "freshpassw0rd"})
	assert.NoError(t, err)
}

// # Profile

/*
TestUpdateProfile verifies the allow-listed profile mutation.
*/
func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "student@lurnia.app", "learn1ngrocks")

	updated, err := f.service.UpdateProfile(context.Background(), user.ID, auth.UpdateProfileInput{
		FullName: "Renamed Student",
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed Student", updated.FullName)

	refreshed, err := f.service.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Student", refreshed.FullName)
}
