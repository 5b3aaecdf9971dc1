// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package course

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhtran/lurnia/internal/platform/apperr"
	"github.com/minhtran/lurnia/internal/platform/dberr"
	"github.com/minhtran/lurnia/pkg/pagination"
)

// PostgresCourseStore implements [CourseStore] using pgx.
type PostgresCourseStore struct {
	pool *pgxpool.Pool
}

// NewCourseStore creates a new PostgreSQL implementation of [CourseStore].
func NewCourseStore(pool *pgxpool.Pool) *PostgresCourseStore {
	return &PostgresCourseStore{pool: pool}
}

const courseColumns = `
	id, title, slug, description, category, level, instructorid, published, createdat, updatedat
`

// Create persists a new course record.
func (store *PostgresCourseStore) Create(ctx context.Context, course *Course) error {
	const query = `
		INSERT INTO course (
			id, title, slug, description, category, level, instructorid, published, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now

	_, err := store.pool.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Slug,
		course.Description,
		course.Category,
		course.Level,
		course.InstructorID,
		course.Published,
		course.CreatedAt,
		course.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Course")
	}

	return nil
}

// FindByID retrieves a course by its unique ID.
func (store *PostgresCourseStore) FindByID(ctx context.Context, id string) (*Course, error) {
	query := `SELECT` + courseColumns + `FROM course WHERE id = $1`
	return store.scanOne(ctx, query, id)
}

// FindBySlug retrieves a course by its unique slug.
func (store *PostgresCourseStore) FindBySlug(ctx context.Context, slug string) (*Course, error) {
	query := `SELECT` + courseColumns + `FROM course WHERE slug = $1`
	return store.scanOne(ctx, query, slug)
}

func (store *PostgresCourseStore) scanOne(ctx context.Context, query string, arg any) (*Course, error) {
	course := &Course{}
	err := store.pool.QueryRow(ctx, query, arg).Scan(
		&course.ID,
		&course.Title,
		&course.Slug,
		&course.Description,
		&course.Category,
		&course.Level,
		&course.InstructorID,
		&course.Published,
		&course.CreatedAt,
		&course.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Course")
	}

	return course, nil
}

// List returns one page of courses matching the filter plus the total count.
func (store *PostgresCourseStore) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]*Course, int, error) {
	// Dynamic WHERE assembly with positional args; both branches are
	// constant SQL fragments, never user input.
	where := `WHERE ($1 = '' OR category = $1)`
	if filter.PublishedOnly {
		where += ` AND published = TRUE`
	}

	countQuery := `SELECT COUNT(*) FROM course ` + where

	total := 0
	if err := store.pool.QueryRow(ctx, countQuery, filter.Category).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_course_store_count_failed: %w", err)
	}

	listQuery := `SELECT` + courseColumns + `FROM course ` + where + `
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := store.pool.Query(ctx, listQuery, filter.Category, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_course_store_list_failed: %w", err)
	}
	defer rows.Close()

	courses := make([]*Course, 0, page.Limit)
	for rows.Next() {
		course := &Course{}
		if err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Slug,
			&course.Description,
			&course.Category,
			&course.Level,
			&course.InstructorID,
			&course.Published,
			&course.CreatedAt,
			&course.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_course_store_scan_failed: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_course_store_rows_failed: %w", err)
	}

	return courses, total, nil
}

// Update persists changes to a course's mutable fields.
func (store *PostgresCourseStore) Update(ctx context.Context, course *Course) error {
	const query = `
		UPDATE course
		SET title = $2, description = $3, category = $4, level = $5, updatedat = $6
		WHERE id = $1`

	course.UpdatedAt = time.Now()

	tag, err := store.pool.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Category,
		course.Level,
		course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_course_store_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Course")
	}

	return nil
}

// SetPublished toggles the published flag.
func (store *PostgresCourseStore) SetPublished(ctx context.Context, id string, published bool) error {
	const query = `
		UPDATE course
		SET published = $2, updatedat = $3
		WHERE id = $1`

	tag, err := store.pool.Exec(ctx, query, id, published, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_course_store_publish_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Course")
	}

	return nil
}

// Delete removes the course; lessons and enrollments cascade in the schema.
func (store *PostgresCourseStore) Delete(ctx context.Context, id string) error {
	tag, err := store.pool.Exec(ctx, `DELETE FROM course WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres_course_store_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Course")
	}

	return nil
}

// # Lessons

// PostgresLessonStore implements [LessonStore] using pgx.
type PostgresLessonStore struct {
	pool *pgxpool.Pool
}

// NewLessonStore creates a new PostgreSQL implementation of [LessonStore].
func NewLessonStore(pool *pgxpool.Pool) *PostgresLessonStore {
	return &PostgresLessonStore{pool: pool}
}

const lessonColumns = `
	id, courseid, title, position, content, durationminutes, createdat, updatedat
`

// Create persists a new lesson record.
func (store *PostgresLessonStore) Create(ctx context.Context, lesson *Lesson) error {
	const query = `
		INSERT INTO lesson (
			id, courseid, title, position, content, durationminutes, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now

	_, err := store.pool.Exec(ctx, query,
		lesson.ID,
		lesson.CourseID,
		lesson.Title,
		lesson.Position,
		lesson.Content,
		lesson.DurationMinutes,
		lesson.CreatedAt,
		lesson.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Lesson")
	}

	return nil
}

// FindByID retrieves a lesson by its unique ID.
func (store *PostgresLessonStore) FindByID(ctx context.Context, id string) (*Lesson, error) {
	query := `SELECT` + lessonColumns + `FROM lesson WHERE id = $1`

	lesson := &Lesson{}
	err := store.pool.QueryRow(ctx, query, id).Scan(
		&lesson.ID,
		&lesson.CourseID,
		&lesson.Title,
		&lesson.Position,
		&lesson.Content,
		&lesson.DurationMinutes,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Lesson")
	}

	return lesson, nil
}

// ListByCourse returns all lessons of a course ordered by position.
func (store *PostgresLessonStore) ListByCourse(ctx context.Context, courseID string) ([]*Lesson, error) {
	query := `SELECT` + lessonColumns + `FROM lesson WHERE courseid = $1 ORDER BY position ASC`

	rows, err := store.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("postgres_lesson_store_list_failed: %w", err)
	}
	defer rows.Close()

	lessons := make([]*Lesson, 0)
	for rows.Next() {
		lesson := &Lesson{}
		if err := rows.Scan(
			&lesson.ID,
			&lesson.CourseID,
			&lesson.Title,
			&lesson.Position,
			&lesson.Content,
			&lesson.DurationMinutes,
			&lesson.CreatedAt,
			&lesson.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_lesson_store_scan_failed: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_lesson_store_rows_failed: %w", err)
	}

	return lessons, nil
}

// CountByCourse returns the number of lessons in a course.
func (store *PostgresLessonStore) CountByCourse(ctx context.Context, courseID string) (int, error) {
	count := 0
	err := store.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lesson WHERE courseid = $1`, courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres_lesson_store_count_failed: %w", err)
	}
	return count, nil
}

// Update persists changes to a lesson's mutable fields.
func (store *PostgresLessonStore) Update(ctx context.Context, lesson *Lesson) error {
	const query = `
		UPDATE lesson
		SET title = $2, position = $3, content = $4, durationminutes = $5, updatedat = $6
		WHERE id = $1`

	lesson.UpdatedAt = time.Now()

	tag, err := store.pool.Exec(ctx, query,
		lesson.ID,
		lesson.Title,
		lesson.Position,
		lesson.Content,
		lesson.DurationMinutes,
		lesson.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_lesson_store_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Lesson")
	}

	return nil
}

// Delete removes the lesson.
func (store *PostgresLessonStore) Delete(ctx context.Context, id string) error {
	tag, err := store.pool.Exec(ctx, `DELETE FROM lesson WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres_lesson_store_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Lesson")
	}

	return nil
}
