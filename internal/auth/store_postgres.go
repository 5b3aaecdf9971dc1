// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhtran/lurnia/internal/platform/apperr"
	"github.com/minhtran/lurnia/internal/platform/dberr"
)

// PostgresUserStore implements the [UserStore] interface using pgx.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new PostgreSQL implementation of the [UserStore].
func NewUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

// accountColumns is the canonical select list shared by all account lookups.
const accountColumns = `
	id, email, passwordhash, fullname, role, active, verified,
	failedloginattempts, lockeduntil, passwordchangedat, createdat, updatedat
`

// Create persists a new account record into the account table.
func (store *PostgresUserStore) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO account (
			id, email, passwordhash, fullname, role, active, verified, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := store.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Role,
		user.Active,
		user.Verified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Account")
	}

	return nil
}

// FindByEmail retrieves an account record by its unique email address.
//
// # Returns
//
// Returns [*User] if found, or [apperr.NotFound] if no account exists.
func (store *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT` + accountColumns + `FROM account WHERE email = $1`
	return store.scanOne(ctx, query, email)
}

// FindByID retrieves an account record by its unique ID.
func (store *PostgresUserStore) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT` + accountColumns + `FROM account WHERE id = $1`
	return store.scanOne(ctx, query, id)
}

// scanOne runs a single-row account query and maps driver errors.
func (store *PostgresUserStore) scanOne(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := store.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.Active,
		&user.Verified,
		&user.FailedLoginAttempts,
		&user.LockedUntil,
		&user.PasswordChangedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Account")
	}

	return user, nil
}

// UpdateProfile persists changes to the account's mutable profile fields.
func (store *PostgresUserStore) UpdateProfile(ctx context.Context, user *User) error {
	const query = `
		UPDATE account
		SET fullname = $2, updatedat = $3
		WHERE id = $1`

	user.UpdatedAt = time.Now()

	tag, err := store.pool.Exec(ctx, query, user.ID, user.FullName, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_user_store_update_profile_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

// UpdatePassword replaces only the password hash and its change timestamp.
func (store *PostgresUserStore) UpdatePassword(ctx context.Context, userID, newHash string, changedAt time.Time) error {
	const query = `
		UPDATE account
		SET passwordhash = $2, passwordchangedat = $3, updatedat = $3
		WHERE id = $1`

	if _, err := store.pool.Exec(ctx, query, userID, newHash, changedAt); err != nil {
		return fmt.Errorf("postgres_user_store_update_password_failed: %w", err)
	}

	return nil
}

// TrackFailedLogin records the outcome of a failed credential check.
func (store *PostgresUserStore) TrackFailedLogin(ctx context.Context, userID string, attempts int, lockedUntil *time.Time) error {
	const query = `
		UPDATE account
		SET failedloginattempts = $2, lockeduntil = $3, updatedat = $4
		WHERE id = $1`

	if _, err := store.pool.Exec(ctx, query, userID, attempts, lockedUntil, time.Now()); err != nil {
		return fmt.Errorf("postgres_user_store_track_failed_login_failed: %w", err)
	}

	return nil
}

// ResetLoginAttempts zeroes the attempt counter and clears any lock.
func (store *PostgresUserStore) ResetLoginAttempts(ctx context.Context, userID string) error {
	const query = `
		UPDATE account
		SET failedloginattempts = 0, lockeduntil = NULL, updatedat = $2
		WHERE id = $1`

	if _, err := store.pool.Exec(ctx, query, userID, time.Now()); err != nil {
		return fmt.Errorf("postgres_user_store_reset_attempts_failed: %w", err)
	}

	return nil
}

// MarkVerified flips the email-verified flag.
func (store *PostgresUserStore) MarkVerified(ctx context.Context, userID string) error {
	const query = `
		UPDATE account
		SET verified = TRUE, updatedat = $2
		WHERE id = $1`

	if _, err := store.pool.Exec(ctx, query, userID, time.Now()); err != nil {
		return fmt.Errorf("postgres_user_store_mark_verified_failed: %w", err)
	}

	return nil
}

// SetActive toggles the account's active flag.
func (store *PostgresUserStore) SetActive(ctx context.Context, userID string, active bool) error {
	const query = `
		UPDATE account
		SET active = $2, updatedat = $3
		WHERE id = $1`

	if _, err := store.pool.Exec(ctx, query, userID, active, time.Now()); err != nil {
		return fmt.Errorf("postgres_user_store_set_active_failed: %w", err)
	}

	return nil
}
