// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhtran/lurnia/internal/platform/apperr"
)

// PostgresStore implements [Store] with SQL aggregates.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL implementation of [Store].
func NewStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// CourseStats computes participation numbers for one course.
func (store *PostgresStore) CourseStats(ctx context.Context, courseID string) (*CourseStats, error) {
	// One round trip: the existence check and every aggregate share a query.
	const query = `
		SELECT
			(SELECT COUNT(*) FROM lesson WHERE courseid = c.id),
			COUNT(e.id),
			COUNT(e.id) FILTER (WHERE e.status = 'active'),
			COUNT(e.id) FILTER (WHERE e.status = 'completed'),
			COALESCE((
				SELECT COUNT(*)
				FROM lesson_progress lp
				JOIN enrollment e2 ON e2.id = lp.enrollmentid
				WHERE e2.courseid = c.id
			), 0)
		FROM course c
		LEFT JOIN enrollment e ON e.courseid = c.id
		WHERE c.id = $1
		GROUP BY c.id`

	stats := &CourseStats{CourseID: courseID, GeneratedAt: time.Now().UTC()}
	err := store.pool.QueryRow(ctx, query, courseID).Scan(
		&stats.LessonCount,
		&stats.EnrollmentsTotal,
		&stats.EnrollmentsActive,
		&stats.EnrollmentsDone,
		&stats.LessonsCompletedSum,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Course")
		}
		return nil, fmt.Errorf("postgres_analytics_store_course_failed: %w", err)
	}

	if stats.EnrollmentsTotal > 0 {
		stats.CompletionRate = float64(stats.EnrollmentsDone) / float64(stats.EnrollmentsTotal) * 100
	}

	return stats, nil
}

// PlatformStats computes platform-wide totals.
func (store *PostgresStore) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM account),
			(SELECT COUNT(*) FROM account WHERE active = TRUE),
			(SELECT COUNT(*) FROM course),
			(SELECT COUNT(*) FROM course WHERE published = TRUE),
			(SELECT COUNT(*) FROM enrollment),
			(SELECT COUNT(*) FROM enrollment WHERE status = 'completed')`

	stats := &PlatformStats{GeneratedAt: time.Now().UTC()}
	err := store.pool.QueryRow(ctx, query).Scan(
		&stats.AccountsTotal,
		&stats.AccountsActive,
		&stats.CoursesTotal,
		&stats.CoursesPublished,
		&stats.EnrollmentsTotal,
		&stats.EnrollmentsDone,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres_analytics_store_platform_failed: %w", err)
	}

	return stats, nil
}
