// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

// Package analytics serves aggregate statistics for instructors and admins.
//
// Numbers are computed with SQL aggregates and cached in Redis for a short
// window, so dashboards refreshing every few seconds do not hammer Postgres.
package analytics

import (
	"time"
)

// CacheTTL is how long a computed statistic stays valid in the cache.
// Dashboard numbers may lag reality by up to this much.
const CacheTTL = 5 * time.Minute

// CourseStats aggregates participation numbers for a single course.
type CourseStats struct {
	CourseID            string    `json:"course_id"`
	LessonCount         int       `json:"lesson_count"`
	EnrollmentsTotal    int       `json:"enrollments_total"`
	EnrollmentsActive   int       `json:"enrollments_active"`
	EnrollmentsDone     int       `json:"enrollments_completed"`
	CompletionRate      float64   `json:"completion_rate"`
	LessonsCompletedSum int       `json:"lessons_completed_sum"`
	GeneratedAt         time.Time `json:"generated_at"`
}

// PlatformStats aggregates platform-wide numbers for the admin dashboard.
type PlatformStats struct {
	AccountsTotal    int       `json:"accounts_total"`
	AccountsActive   int       `json:"accounts_active"`
	CoursesTotal     int       `json:"courses_total"`
	CoursesPublished int       `json:"courses_published"`
	EnrollmentsTotal int       `json:"enrollments_total"`
	EnrollmentsDone  int       `json:"enrollments_completed"`
	GeneratedAt      time.Time `json:"generated_at"`
}
