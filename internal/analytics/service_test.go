// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package analytics_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtran/lurnia/internal/analytics"
	"github.com/minhtran/lurnia/internal/platform/apperr"
)

// # Test Fakes

// countingStore records how often each aggregate was computed.
type countingStore struct {
	courseCalls   int
	platformCalls int
	courseErr     error
}

func (store *countingStore) CourseStats(_ context.Context, courseID string) (*analytics.CourseStats, error) {
	store.courseCalls++
	if store.courseErr != nil {
		return nil, store.courseErr
	}
	return &analytics.CourseStats{
		CourseID:          courseID,
		LessonCount:       4,
		EnrollmentsTotal:  10,
		EnrollmentsActive: 7,
		EnrollmentsDone:   3,
		CompletionRate:    30,
		GeneratedAt:       time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (store *countingStore) PlatformStats(_ context.Context) (*analytics.PlatformStats, error) {
	store.platformCalls++
	return &analytics.PlatformStats{AccountsTotal: 100, CoursesPublished: 12}, nil
}

// memoryCache is an in-memory [analytics.Cache] backed by marshalled JSON,
// mirroring what the Redis implementation stores.
type memoryCache struct {
	entries map[string][]byte
	setErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (cache *memoryCache) Get(_ context.Context, key string, target any) error {
	raw, ok := cache.entries[key]
	if !ok {
		return apperr.NotFound("Statistic")
	}
	return json.Unmarshal(raw, target)
}

func (cache *memoryCache) Set(_ context.Context, key string, value any) error {
	if cache.setErr != nil {
		return cache.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	cache.entries[key] = raw
	return nil
}

// # Read-Through Behaviour

/*
TestCourseStats_ReadThrough verifies that the first read computes and the
second read is served from the cache.
*/
func TestCourseStats_ReadThrough(t *testing.T) {
	store := &countingStore{}
	cache := newMemoryCache()
	service := analytics.NewService(store, cache, slog.Default())

	first, err := service.CourseStats(context.Background(), "course-1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.courseCalls)
	assert.Contains(t, cache.entries, "course:course-1")

	second, err := service.CourseStats(context.Background(), "course-1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.courseCalls, "second read must hit the cache")
	assert.Equal(t, first, second)
}

/*
TestCourseStats_UnknownCourse verifies that store errors pass through without
being cached.
*/
func TestCourseStats_UnknownCourse(t *testing.T) {
	store := &countingStore{courseErr: apperr.NotFound("Course")}
	cache := newMemoryCache()
	service := analytics.NewService(store, cache, slog.Default())

	_, err := service.CourseStats(context.Background(), "nope")

	require.Error(t, err)
	assert.Equal(t, "Course not found", apperr.As(err).Message)
	assert.Empty(t, cache.entries)
}

/*
TestCourseStats_CacheWriteFailure verifies that a failing cache write does not
fail the request: the computed number is still returned.
*/
func TestCourseStats_CacheWriteFailure(t *testing.T) {
	store := &countingStore{}
	cache := newMemoryCache()
	cache.setErr = errors.New("redis: connection pool timeout")
	service := analytics.NewService(store, cache, slog.Default())

	stats, err := service.CourseStats(context.Background(), "course-1")

	require.NoError(t, err)
	assert.Equal(t, 10, stats.EnrollmentsTotal)

	// Without a cache entry, the next read computes again.
	_, err = service.CourseStats(context.Background(), "course-1")
	require.NoError(t, err)
	assert.Equal(t, 2, store.courseCalls)
}

/*
TestPlatformStats_ReadThrough verifies the platform aggregate uses the same
read-through path under its fixed key.
*/
func TestPlatformStats_ReadThrough(t *testing.T) {
	store := &countingStore{}
	cache := newMemoryCache()
	service := analytics.NewService(store, cache, slog.Default())

	stats, err := service.PlatformStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, stats.AccountsTotal)
	assert.Contains(t, cache.entries, "platform")

	_, err = service.PlatformStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.platformCalls)
}
