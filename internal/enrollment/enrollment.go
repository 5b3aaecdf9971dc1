// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

// Package enrollment implements student participation in courses: joining,
// cancelling, per-lesson progress tracking, and completion.
package enrollment

import (
	"time"
)

// Status is the lifecycle state of an enrollment.
type Status string

const (
	// StatusActive means the student is currently taking the course.
	StatusActive Status = "active"

	// StatusCompleted means every lesson has been finished.
	StatusCompleted Status = "completed"

	// StatusCancelled means the student withdrew. Cancelled enrollments stay
	// on record but no longer count as participation.
	StatusCancelled Status = "cancelled"
)

// Enrollment links a student account to a course.
//
// # Rules
//   - At most one non-cancelled enrollment per (user, course) pair.
//   - Only published courses accept new enrollments.
//   - CompletedAt is set exactly once, when the last lesson is finished.
type Enrollment struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"course_id"`
	UserID      string     `json:"user_id"`
	Status      Status     `json:"status"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Active reports whether the enrollment currently grants course access.
func (e *Enrollment) Active() bool {
	return e.Status == StatusActive || e.Status == StatusCompleted
}

// LessonProgress records that one lesson was completed under an enrollment.
//
// Completion is idempotent: marking the same lesson twice keeps the first
// timestamp.
type LessonProgress struct {
	EnrollmentID string    `json:"enrollment_id"`
	LessonID     string    `json:"lesson_id"`
	CompletedAt  time.Time `json:"completed_at"`
}

// Progress is the per-course progress summary served to students.
type Progress struct {
	Enrollment       *Enrollment `json:"enrollment"`
	LessonsTotal     int         `json:"lessons_total"`
	LessonsCompleted int         `json:"lessons_completed"`
	Percent          float64     `json:"percent"`
	CompletedLessons []string    `json:"completed_lesson_ids"`
}
