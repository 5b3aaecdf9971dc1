// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

// Package course implements the course catalogue: courses, their lessons,
// and the instructor-ownership rules around them.
//
// # Architecture
//
// Entities in this package represent the "Truth" of the catalogue. They have
// no dependencies on outer layers (databases, HTTP, or libraries), which
// keeps the core logic highly testable.
package course

import (
	"time"
)

// Level is the coarse difficulty classification of a course.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Valid reports whether the level is one of the known enumerated values.
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Course represents a published or draft course on the platform.
//
// # Rules
//   - Slug is unique and URL-safe, derived from the title at creation.
//   - InstructorID references the owning account; only the owner or an
//     admin may mutate the course.
//   - Unpublished courses are invisible to students.
type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Level        Level     `json:"level"`
	InstructorID string    `json:"instructor_id"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Lesson is a single unit of course content.
//
// Position defines the 1-indexed ordering within the course.
type Lesson struct {
	ID              string    `json:"id"`
	CourseID        string    `json:"course_id"`
	Title           string    `json:"title"`
	Position        int       `json:"position"`
	Content         string    `json:"content"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
