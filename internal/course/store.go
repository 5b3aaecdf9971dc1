// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package course

import (
	"context"

	"github.com/minhtran/lurnia/pkg/pagination"
)

// ListFilter narrows the public course listing.
type ListFilter struct {
	// Category filters by exact category match when non-empty.
	Category string

	// PublishedOnly restricts results to published courses. Admin tooling
	// sets it to false to include drafts.
	PublishedOnly bool
}

// CourseStore defines the data access contract for courses.
type CourseStore interface {
	// FindByID returns the course with the given ID.
	//
	// Returns [apperr.NotFound] if the course does not exist.
	FindByID(ctx context.Context, id string) (*Course, error)

	// FindBySlug returns the course with the given slug.
	FindBySlug(ctx context.Context, slug string) (*Course, error)

	// List returns one page of courses matching the filter plus the total
	// match count for pagination metadata.
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]*Course, int, error)

	// Create persists a new course.
	//
	// Returns [apperr.Conflict] if the slug unique constraint fails.
	Create(ctx context.Context, course *Course) error

	// Update persists changes to mutable course fields.
	Update(ctx context.Context, course *Course) error

	// SetPublished toggles the course's published flag.
	SetPublished(ctx context.Context, id string, published bool) error

	// Delete removes the course and, via cascade, its lessons.
	Delete(ctx context.Context, id string) error
}

// LessonStore defines the data access contract for lessons.
type LessonStore interface {
	// FindByID returns the lesson with the given ID.
	FindByID(ctx context.Context, id string) (*Lesson, error)

	// ListByCourse returns all lessons of a course ordered by position.
	ListByCourse(ctx context.Context, courseID string) ([]*Lesson, error)

	// CountByCourse returns the number of lessons in a course.
	CountByCourse(ctx context.Context, courseID string) (int, error)

	// Create persists a new lesson.
	Create(ctx context.Context, lesson *Lesson) error

	// Update persists changes to mutable lesson fields.
	Update(ctx context.Context, lesson *Lesson) error

	// Delete removes the lesson.
	Delete(ctx context.Context, id string) error
}
