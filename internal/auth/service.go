// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minhtran/lurnia/internal/platform/apperr"
	"github.com/minhtran/lurnia/internal/platform/sec"
	"github.com/minhtran/lurnia/pkg/uuidv7"
)

// LockoutPolicy governs the consecutive-failure account lock.
//
// # Semantics
//
//   - A failed credential check increments the attempt counter.
//   - The failure that brings the counter to MaxAttempts sets LockedUntil =
//     now + LockDuration; further logins are rejected with 423 until then,
//     correct password or not.
//   - Any successful login resets the counter to zero and clears the lock.
type LockoutPolicy struct {
	MaxAttempts  int
	LockDuration time.Duration
}

// DefaultLockoutPolicy is the production default: 5 attempts, 2 hour lock.
var DefaultLockoutPolicy = LockoutPolicy{MaxAttempts: 5, LockDuration: 2 * time.Hour}

// Service implements account authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, lockout,
// or password-reset logic must be reviewed by the security team.
type Service struct {
	users        UserStore
	resetTokens  VolatileTokenStore
	verifyTokens VolatileTokenStore
	codec        sec.TokenCodec
	notifier     Notifier
	logger       *slog.Logger

	lockout        LockoutPolicy
	accessTokenTTL time.Duration

	// now is injectable for deterministic lockout tests.
	now func() time.Time
}

// ServiceOption customizes a [Service] at construction time.
type ServiceOption func(*Service)

// WithLockoutPolicy overrides [DefaultLockoutPolicy].
func WithLockoutPolicy(policy LockoutPolicy) ServiceOption {
	return func(s *Service) {
		if policy.MaxAttempts > 0 && policy.LockDuration > 0 {
			s.lockout = policy
		}
	}
}

// WithAccessTokenTTL overrides the default 24h access token lifetime.
func WithAccessTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.accessTokenTTL = ttl
		}
	}
}

// WithClock injects a custom time source (useful for tests).
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	users UserStore,
	resetTokens VolatileTokenStore,
	verifyTokens VolatileTokenStore,
	codec sec.TokenCodec,
	notifier Notifier,
	logger *slog.Logger,
	options ...ServiceOption,
) *Service {
	service := &Service{
		users:          users,
		resetTokens:    resetTokens,
		verifyTokens:   verifyTokens,
		codec:          codec,
		notifier:       notifier,
		logger:         logger,
		lockout:        DefaultLockoutPolicy,
		accessTokenTTL: 24 * time.Hour,
		now:            time.Now,
	}

	for _, option := range options {
		option(service)
	}

	return service
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// AuthResult pairs an account with a freshly issued access token.
type AuthResult struct {
	User  *User
	Token string
}

// Register validates, hashes, and persists a brand new account.
//
// # Returns
//   - An [AuthResult] with the created account and an access token.
//   - [apperr.Conflict] if the email is already registered.
//
// # Business Rules
//   - Emails must be unique.
//   - Default role is always student.
//   - Accounts start active and unverified; a verification token is issued
//     and dispatched. A failed dispatch does not fail the registration.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	// ── 1. Uniqueness Check ───────────────────────────────────────────────

	if _, err := service.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// ── 2. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 3. Entity Construction ────────────────────────────────────────────

	user := &User{
		ID:           uuidv7.New(), // Time-sortable ID to prevent PG index fragmentation.
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FullName:     input.FullName,
		Role:         sec.RoleStudent, // Rule: default role is always student
		Active:       true,
		Verified:     false,
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	if err := service.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// ── 5. Verification Token (best effort) ───────────────────────────────

	if err := service.issueVerificationToken(ctx, user); err != nil {
		// Non-fatal: the account exists, the user can request a fresh
		// verification email later.
		service.logger.WarnContext(ctx, "verification_dispatch_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	// ── 6. Token Issuance ─────────────────────────────────────────────────

	token, err := service.codec.Issue(user.ID, user.Email, string(user.Role), service.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// issueVerificationToken mints, stores, and dispatches an email verification token.
func (service *Service) issueVerificationToken(ctx context.Context, user *User) error {
	token, err := sec.GenerateSecureToken(VerificationTokenLength)
	if err != nil {
		return err
	}

	if err := service.verifyTokens.Set(ctx, sec.HashToken(token), user.ID, VerificationTokenTTL); err != nil {
		return err
	}

	return service.notifier.SendVerificationEmail(ctx, user.Email, token)
}

// # Login Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// Login validates credentials, enforces the lockout policy, and issues an
// access token.
//
// # Flow
//  1. Lookup account by email.
//  2. Reject deactivated accounts and accounts under an active lock (423).
//  3. Verify the password hash; a failure increments the attempt counter and
//     the threshold failure sets the lock.
//  4. Success resets the counter, clears any expired lock, issues the token.
//
// Credential failures always return a generic 401 to prevent email
// enumeration and to avoid confirming whether the password was close.
func (service *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	now := service.now()

	// ── 1. Fetch Account ──────────────────────────────────────────────────

	user, err := service.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// ── 2. Account State ──────────────────────────────────────────────────

	if !user.Active {
		return nil, apperr.Unauthorized("Account is deactivated")
	}

	if user.LockedAt(now) {
		remaining := user.LockedUntil.Sub(now).Round(time.Minute)
		return nil, apperr.Locked(fmt.Sprintf("Account locked due to repeated failed logins. Try again in %s.", remaining))
	}

	// ── 3. Credential Verification ────────────────────────────────────────

	// bcrypt comparison is constant-time by construction.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		if trackErr := service.recordFailedAttempt(ctx, user, now); trackErr != nil {
			service.logger.ErrorContext(ctx, "lockout_tracking_failed",
				slog.String("user_id", user.ID),
				slog.Any("error", trackErr),
			)
		}
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// ── 4. Counter Reset ──────────────────────────────────────────────────

	// A success before the threshold resets the counter to zero; a success
	// after an expired lock clears the stale lock row.
	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := service.users.ResetLoginAttempts(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	// ── 5. Token Issuance ─────────────────────────────────────────────────

	token, err := service.codec.Issue(user.ID, user.Email, string(user.Role), service.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// recordFailedAttempt increments the counter and arms the lock when the
// policy threshold is reached. The lock expiry is strictly in the future at
// set-time by construction (now + LockDuration).
func (service *Service) recordFailedAttempt(ctx context.Context, user *User, now time.Time) error {
	attempts := user.FailedLoginAttempts + 1

	var lockedUntil *time.Time
	if attempts >= service.lockout.MaxAttempts {
		expiry := now.Add(service.lockout.LockDuration)
		lockedUntil = &expiry

		service.logger.WarnContext(ctx, "account_locked",
			slog.String("user_id", user.ID),
			slog.Int("attempts", attempts),
			slog.Time("locked_until", expiry),
		)
	}

	return service.users.TrackFailedLogin(ctx, user.ID, attempts, lockedUntil)
}

// # Email Verification

// VerifyEmail consumes a verification token and flips the account's verified flag.
func (service *Service) VerifyEmail(ctx context.Context, token string) error {
	digest := sec.HashToken(token)

	userID, err := service.verifyTokens.Get(ctx, digest)
	if err != nil {
		return apperr.ValidationError("Verification token is invalid or expired")
	}

	if err := service.users.MarkVerified(ctx, userID); err != nil {
		return err
	}

	// One-time use.
	if err := service.verifyTokens.Delete(ctx, digest); err != nil {
		service.logger.WarnContext(ctx, "verification_token_cleanup_failed", slog.Any("error", err))
	}

	return nil
}

// # Password Reset Flow

// RequestPasswordReset mints and dispatches a reset token for the account.
//
// It reports success even when the email is unknown, so the endpoint cannot
// be used to enumerate registered addresses.
func (service *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		// Deliberate: same outward behavior as the success path.
		return nil
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	digest := sec.HashToken(token)
	if err := service.resetTokens.Set(ctx, digest, user.ID, ResetTokenTTL); err != nil {
		return err
	}

	// Unlike registration, the reset email is the whole point of this flow:
	// a dispatch failure invalidates the stored token and surfaces the error.
	if err := service.notifier.SendPasswordResetEmail(ctx, user.Email, token); err != nil {
		_ = service.resetTokens.Delete(ctx, digest)
		return fmt.Errorf("auth_service_reset_dispatch_failed: %w", err)
	}

	return nil
}

// ResetPassword consumes a reset token and installs a new password.
//
// Stamping password_changed_at invalidates every access token issued before
// this instant; the lockout counter is also cleared so the user can log in
// immediately with the new password.
func (service *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	digest := sec.HashToken(token)

	userID, err := service.resetTokens.Get(ctx, digest)
	if err != nil {
		return apperr.ValidationError("Reset token is invalid or expired")
	}

	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(ctx, userID, newHash, service.now()); err != nil {
		return err
	}

	if err := service.users.ResetLoginAttempts(ctx, userID); err != nil {
		return err
	}

	if err := service.resetTokens.Delete(ctx, digest); err != nil {
		service.logger.WarnContext(ctx, "reset_token_cleanup_failed", slog.Any("error", err))
	}

	return nil
}

// ChangePassword rotates the password of an authenticated account.
//
// The caller must present the current password. On success a fresh token is
// returned because the rotation invalidates the one that authenticated this
// request.
func (service *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (*AuthResult, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return nil, apperr.Unauthorized("Current password is incorrect")
	}

	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(ctx, user.ID, newHash, service.now()); err != nil {
		return nil, err
	}

	token, err := service.codec.Issue(user.ID, user.Email, string(user.Role), service.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// # Profile

// Profile returns the account for the given ID.
func (service *Service) Profile(ctx context.Context, userID string) (*User, error) {
	return service.users.FindByID(ctx, userID)
}

// UpdateProfileInput holds the allow-listed mutable profile fields.
type UpdateProfileInput struct {
	FullName string
}

// UpdateProfile persists allow-listed profile changes.
func (service *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*User, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FullName = input.FullName

	if err := service.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Deactivate marks the account inactive. Existing tokens keep decoding but
// the authentication middleware rejects them at the account-state check.
func (service *Service) Deactivate(ctx context.Context, userID string) error {
	return service.users.SetActive(ctx, userID, false)
}
