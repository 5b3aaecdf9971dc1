// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package enrollment

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhtran/lurnia/internal/platform/apperr"
	"github.com/minhtran/lurnia/internal/platform/dberr"
	"github.com/minhtran/lurnia/pkg/pagination"
)

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL implementation of [Store].
func NewStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const enrollmentColumns = `
	id, courseid, userid, status, enrolledat, completedat
`

// Create persists a new enrollment record.
//
// The partial unique index on (userid, courseid) WHERE status <> 'cancelled'
// enforces the one-active-enrollment rule; its violation surfaces here as
// [apperr.Conflict].
func (store *PostgresStore) Create(ctx context.Context, enrollment *Enrollment) error {
	const query = `
		INSERT INTO enrollment (id, courseid, userid, status, enrolledat, completedat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := store.pool.Exec(ctx, query,
		enrollment.ID,
		enrollment.CourseID,
		enrollment.UserID,
		enrollment.Status,
		enrollment.EnrolledAt,
		enrollment.CompletedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Enrollment")
	}

	return nil
}

// FindByID retrieves an enrollment by its unique ID.
func (store *PostgresStore) FindByID(ctx context.Context, id string) (*Enrollment, error) {
	query := `SELECT` + enrollmentColumns + `FROM enrollment WHERE id = $1`
	return store.scanOne(ctx, query, id)
}

// FindActive retrieves the user's non-cancelled enrollment in the course.
func (store *PostgresStore) FindActive(ctx context.Context, userID, courseID string) (*Enrollment, error) {
	query := `SELECT` + enrollmentColumns + `
		FROM enrollment
		WHERE userid = $1 AND courseid = $2 AND status <> 'cancelled'`
	return store.scanOne(ctx, query, userID, courseID)
}

func (store *PostgresStore) scanOne(ctx context.Context, query string, args ...any) (*Enrollment, error) {
	enrollment := &Enrollment{}
	err := store.pool.QueryRow(ctx, query, args...).Scan(
		&enrollment.ID,
		&enrollment.CourseID,
		&enrollment.UserID,
		&enrollment.Status,
		&enrollment.EnrolledAt,
		&enrollment.CompletedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Enrollment")
	}

	return enrollment, nil
}

// ListByUser returns one page of the user's enrollments plus the total count.
func (store *PostgresStore) ListByUser(ctx context.Context, userID string, page pagination.Params) ([]*Enrollment, int, error) {
	total := 0
	if err := store.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollment WHERE userid = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_enrollment_store_count_failed: %w", err)
	}

	query := `SELECT` + enrollmentColumns + `
		FROM enrollment
		WHERE userid = $1
		ORDER BY enrolledat DESC
		LIMIT $2 OFFSET $3`

	rows, err := store.pool.Query(ctx, query, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_enrollment_store_list_failed: %w", err)
	}
	defer rows.Close()

	enrollments := make([]*Enrollment, 0, page.Limit)
	for rows.Next() {
		enrollment := &Enrollment{}
		if err := rows.Scan(
			&enrollment.ID,
			&enrollment.CourseID,
			&enrollment.UserID,
			&enrollment.Status,
			&enrollment.EnrolledAt,
			&enrollment.CompletedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_enrollment_store_scan_failed: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_enrollment_store_rows_failed: %w", err)
	}

	return enrollments, total, nil
}

// SetStatus updates the lifecycle state of an enrollment.
func (store *PostgresStore) SetStatus(ctx context.Context, id string, status Status, completedAt *time.Time) error {
	const query = `
		UPDATE enrollment
		SET status = $2, completedat = $3
		WHERE id = $1`

	tag, err := store.pool.Exec(ctx, query, id, status, completedAt)
	if err != nil {
		return fmt.Errorf("postgres_enrollment_store_status_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Enrollment")
	}

	return nil
}

// MarkLessonComplete records one completed lesson, keeping the original
// timestamp when the row already exists.
func (store *PostgresStore) MarkLessonComplete(ctx context.Context, progress *LessonProgress) error {
	const query = `
		INSERT INTO lesson_progress (enrollmentid, lessonid, completedat)
		VALUES ($1, $2, $3)
		ON CONFLICT (enrollmentid, lessonid) DO NOTHING`

	_, err := store.pool.Exec(ctx, query,
		progress.EnrollmentID,
		progress.LessonID,
		progress.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_enrollment_store_progress_failed: %w", err)
	}

	return nil
}

// CompletedLessonIDs returns the completed lesson IDs of an enrollment.
func (store *PostgresStore) CompletedLessonIDs(ctx context.Context, enrollmentID string) ([]string, error) {
	const query = `
		SELECT lessonid FROM lesson_progress
		WHERE enrollmentid = $1
		ORDER BY completedat ASC`

	rows, err := store.pool.Query(ctx, query, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("postgres_enrollment_store_lessons_failed: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres_enrollment_store_scan_failed: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_enrollment_store_rows_failed: %w", err)
	}

	return ids, nil
}
