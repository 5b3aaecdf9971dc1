// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package enrollment

import (
	"context"
	"time"

	"github.com/minhtran/lurnia/pkg/pagination"
)

// Store defines the data access contract for enrollments and their
// per-lesson progress rows.
type Store interface {
	// FindByID returns the enrollment with the given ID.
	//
	// Returns [apperr.NotFound] if it does not exist.
	FindByID(ctx context.Context, id string) (*Enrollment, error)

	// FindActive returns the non-cancelled enrollment of the user in the
	// course, or [apperr.NotFound] when none exists.
	FindActive(ctx context.Context, userID, courseID string) (*Enrollment, error)

	// ListByUser returns one page of the user's enrollments, newest first,
	// plus the total count.
	ListByUser(ctx context.Context, userID string, page pagination.Params) ([]*Enrollment, int, error)

	// Create persists a new enrollment.
	//
	// Returns [apperr.Conflict] when a non-cancelled enrollment for the same
	// (user, course) pair already exists.
	Create(ctx context.Context, enrollment *Enrollment) error

	// SetStatus updates the lifecycle state. completedAt is non-nil only for
	// the transition to [StatusCompleted].
	SetStatus(ctx context.Context, id string, status Status, completedAt *time.Time) error

	// MarkLessonComplete records a completed lesson. Idempotent: marking an
	// already completed lesson is a no-op that keeps the original timestamp.
	MarkLessonComplete(ctx context.Context, progress *LessonProgress) error

	// CompletedLessonIDs returns the IDs of lessons completed under the
	// enrollment.
	CompletedLessonIDs(ctx context.Context, enrollmentID string) ([]string, error)
}
