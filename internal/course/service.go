// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package course

import (
	"context"

	"github.com/minhtran/lurnia/internal/platform/apperr"
	"github.com/minhtran/lurnia/internal/platform/sec"
	"github.com/minhtran/lurnia/pkg/pagination"
	"github.com/minhtran/lurnia/pkg/slug"
	"github.com/minhtran/lurnia/pkg/uuidv7"
)

// Service implements catalogue use cases over the store interfaces.
//
// Ownership checks on mutations are enforced by the route guards
// ([RequireInstructorOf]); the service trusts that the caller was authorized
// and focuses on catalogue invariants.
type Service struct {
	courses CourseStore
	lessons LessonStore
}

// NewService constructs a new catalogue [Service].
func NewService(courses CourseStore, lessons LessonStore) *Service {
	return &Service{courses: courses, lessons: lessons}
}

// # Courses

// CreateInput holds the fields accepted when creating a course.
type CreateInput struct {
	Title       string
	Description string
	Category    string
	Level       Level
}

// Create persists a new draft course owned by the given instructor.
//
// The slug is derived from the title; a duplicate slug surfaces as
// [apperr.Conflict] from the store's unique constraint.
func (service *Service) Create(ctx context.Context, instructorID string, input CreateInput) (*Course, error) {
	course := &Course{
		ID:           uuidv7.New(),
		Title:        input.Title,
		Slug:         slug.From(input.Title),
		Description:  input.Description,
		Category:     input.Category,
		Level:        input.Level,
		InstructorID: instructorID,
		Published:    false, // Rule: courses start as drafts
	}

	if err := service.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// Get returns a course by ID, hiding drafts from everyone except the owning
// instructor and admins.
func (service *Service) Get(ctx context.Context, id string, viewer *sec.Principal) (*Course, error) {
	course, err := service.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !course.Published && !canManage(viewer, course) {
		// Deliberately NotFound, not Forbidden: drafts must be invisible.
		return nil, apperr.NotFound("Course")
	}

	return course, nil
}

// GetBySlug returns a course by slug with the same draft visibility rules
// as [Service.Get].
func (service *Service) GetBySlug(ctx context.Context, courseSlug string, viewer *sec.Principal) (*Course, error) {
	course, err := service.courses.FindBySlug(ctx, courseSlug)
	if err != nil {
		return nil, err
	}

	if !course.Published && !canManage(viewer, course) {
		return nil, apperr.NotFound("Course")
	}

	return course, nil
}

// List returns one page of published courses, optionally filtered by category.
func (service *Service) List(ctx context.Context, category string, page pagination.Params) ([]*Course, int, error) {
	filter := ListFilter{Category: category, PublishedOnly: true}
	return service.courses.List(ctx, filter, page)
}

// UpdateInput holds the mutable course fields.
type UpdateInput struct {
	Title       string
	Description string
	Category    string
	Level       Level
}

// Update persists allow-listed changes to an existing course.
func (service *Service) Update(ctx context.Context, course *Course, input UpdateInput) (*Course, error) {
	course.Title = input.Title
	course.Description = input.Description
	course.Category = input.Category
	course.Level = input.Level

	if err := service.courses.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// Publish makes the course visible to students.
//
// A course must contain at least one lesson before publication.
func (service *Service) Publish(ctx context.Context, course *Course) error {
	lessonCount, err := service.lessons.CountByCourse(ctx, course.ID)
	if err != nil {
		return err
	}
	if lessonCount == 0 {
		return apperr.ValidationError("A course needs at least one lesson before it can be published")
	}

	if err := service.courses.SetPublished(ctx, course.ID, true); err != nil {
		return err
	}

	course.Published = true
	return nil
}

// Delete removes the course and its lessons.
func (service *Service) Delete(ctx context.Context, courseID string) error {
	return service.courses.Delete(ctx, courseID)
}

// # Lessons

// LessonInput holds the fields accepted when creating or updating a lesson.
type LessonInput struct {
	Title           string
	Position        int
	Content         string
	DurationMinutes int
}

// AddLesson appends a lesson to the course.
func (service *Service) AddLesson(ctx context.Context, courseID string, input LessonInput) (*Lesson, error) {
	lesson := &Lesson{
		ID:              uuidv7.New(),
		CourseID:        courseID,
		Title:           input.Title,
		Position:        input.Position,
		Content:         input.Content,
		DurationMinutes: input.DurationMinutes,
	}

	if err := service.lessons.Create(ctx, lesson); err != nil {
		return nil, err
	}

	return lesson, nil
}

// ListLessons returns the ordered lessons of a course.
func (service *Service) ListLessons(ctx context.Context, courseID string) ([]*Lesson, error) {
	return service.lessons.ListByCourse(ctx, courseID)
}

// UpdateLesson persists changes to a lesson that belongs to the course.
func (service *Service) UpdateLesson(ctx context.Context, courseID, lessonID string, input LessonInput) (*Lesson, error) {
	lesson, err := service.lessons.FindByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	// Route params could pair a lesson with a foreign course; treat that as
	// the lesson not existing under this course.
	if lesson.CourseID != courseID {
		return nil, apperr.NotFound("Lesson")
	}

	lesson.Title = input.Title
	lesson.Position = input.Position
	lesson.Content = input.Content
	lesson.DurationMinutes = input.DurationMinutes

	if err := service.lessons.Update(ctx, lesson); err != nil {
		return nil, err
	}

	return lesson, nil
}

// DeleteLesson removes a lesson that belongs to the course.
func (service *Service) DeleteLesson(ctx context.Context, courseID, lessonID string) error {
	lesson, err := service.lessons.FindByID(ctx, lessonID)
	if err != nil {
		return err
	}
	if lesson.CourseID != courseID {
		return apperr.NotFound("Lesson")
	}

	return service.lessons.Delete(ctx, lessonID)
}

// canManage reports whether the viewer may see and mutate the course
// regardless of publication state.
func canManage(viewer *sec.Principal, course *Course) bool {
	if viewer == nil {
		return false
	}
	return viewer.IsAdmin() || viewer.ID == course.InstructorID
}
