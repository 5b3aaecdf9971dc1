// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package enrollment

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/minhtran/lurnia/internal/course"
	"github.com/minhtran/lurnia/internal/platform/apperr"
	"github.com/minhtran/lurnia/pkg/pagination"
	"github.com/minhtran/lurnia/pkg/uuidv7"
)

// Service implements the enrollment use cases.
type Service struct {
	enrollments Store
	courses     course.CourseStore
	lessons     course.LessonStore
	logger      *slog.Logger

	now func() time.Time
}

// Option customizes a [Service].
type Option func(*Service)

// WithClock overrides the time source, used by tests for deterministic
// completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

// NewService constructs a new enrollment [Service].
func NewService(enrollments Store, courses course.CourseStore, lessons course.LessonStore, logger *slog.Logger, options ...Option) *Service {
	service := &Service{
		enrollments: enrollments,
		courses:     courses,
		lessons:     lessons,
		logger:      logger,
		now:         time.Now,
	}

	for _, option := range options {
		option(service)
	}

	return service
}

// Enroll joins the user to a published course.
//
// # Rules
//   - Draft courses answer 404, identical to a course that does not exist.
//   - A second active enrollment in the same course answers 409. Cancelled
//     enrollments do not block re-enrolling.
func (service *Service) Enroll(ctx context.Context, userID, courseID string) (*Enrollment, error) {
	// ── 1. Course Visibility ──────────────────────────────────────────────

	target, err := service.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !target.Published {
		return nil, apperr.NotFound("Course")
	}

	// ── 2. Duplicate Check ────────────────────────────────────────────────

	_, err = service.enrollments.FindActive(ctx, userID, courseID)
	switch {
	case err == nil:
		return nil, apperr.Conflict("Already enrolled in this course")
	case apperr.As(err) == nil || apperr.As(err).HTTPStatus != http.StatusNotFound:
		return nil, err
	}

	// ── 3. Persist ────────────────────────────────────────────────────────

	// The partial unique index still backstops a concurrent double-enroll;
	// the store surfaces that race as the same 409.
	enrollment := &Enrollment{
		ID:         uuidv7.New(),
		CourseID:   courseID,
		UserID:     userID,
		Status:     StatusActive,
		EnrolledAt: service.now(),
	}

	if err := service.enrollments.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	service.logger.Info("enrollment_created",
		"enrollment_id", enrollment.ID,
		"course_id", courseID,
		"user_id", userID,
	)

	return enrollment, nil
}

// Cancel withdraws an active enrollment.
func (service *Service) Cancel(ctx context.Context, enrollment *Enrollment) error {
	if enrollment.Status != StatusActive {
		return apperr.Conflict("Enrollment is not active")
	}

	if err := service.enrollments.SetStatus(ctx, enrollment.ID, StatusCancelled, nil); err != nil {
		return err
	}

	enrollment.Status = StatusCancelled
	return nil
}

// List returns one page of the user's enrollments.
func (service *Service) List(ctx context.Context, userID string, page pagination.Params) ([]*Enrollment, int, error) {
	return service.enrollments.ListByUser(ctx, userID, page)
}

// CompleteLesson marks one lesson of the enrolled course as finished.
//
// Marking is idempotent. When the last remaining lesson is completed the
// enrollment automatically transitions to [StatusCompleted].
func (service *Service) CompleteLesson(ctx context.Context, enrollment *Enrollment, lessonID string) (*Progress, error) {
	// ── 1. Enrollment State ───────────────────────────────────────────────

	// Cancelled and already-completed enrollments record no further progress.
	if enrollment.Status != StatusActive {
		return nil, apperr.Conflict("Enrollment is not active")
	}

	// ── 2. Lesson Membership ──────────────────────────────────────────────

	lesson, err := service.lessons.FindByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.CourseID != enrollment.CourseID {
		return nil, apperr.NotFound("Lesson")
	}

	// ── 3. Record Progress ────────────────────────────────────────────────

	if err := service.enrollments.MarkLessonComplete(ctx, &LessonProgress{
		EnrollmentID: enrollment.ID,
		LessonID:     lessonID,
		CompletedAt:  service.now(),
	}); err != nil {
		return nil, err
	}

	// ── 4. Completion Check ───────────────────────────────────────────────

	progress, err := service.Progress(ctx, enrollment)
	if err != nil {
		return nil, err
	}

	if enrollment.Status == StatusActive &&
		progress.LessonsTotal > 0 &&
		progress.LessonsCompleted >= progress.LessonsTotal {
		completedAt := service.now()
		if err := service.enrollments.SetStatus(ctx, enrollment.ID, StatusCompleted, &completedAt); err != nil {
			return nil, err
		}

		enrollment.Status = StatusCompleted
		enrollment.CompletedAt = &completedAt

		service.logger.Info("enrollment_completed",
			"enrollment_id", enrollment.ID,
			"course_id", enrollment.CourseID,
			"user_id", enrollment.UserID,
		)
	}

	return progress, nil
}

// Progress computes the enrollment's progress summary.
func (service *Service) Progress(ctx context.Context, enrollment *Enrollment) (*Progress, error) {
	total, err := service.lessons.CountByCourse(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}

	completedIDs, err := service.enrollments.CompletedLessonIDs(ctx, enrollment.ID)
	if err != nil {
		return nil, err
	}

	percent := 0.0
	if total > 0 {
		percent = float64(len(completedIDs)) / float64(total) * 100
	}

	return &Progress{
		Enrollment:       enrollment,
		LessonsTotal:     total,
		LessonsCompleted: len(completedIDs),
		Percent:          percent,
		CompletedLessons: completedIDs,
	}, nil
}
