// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package analytics

import (
	"context"
)

// Store defines the aggregate query contract.
type Store interface {
	// CourseStats computes participation numbers for one course.
	//
	// Returns [apperr.NotFound] when the course does not exist.
	CourseStats(ctx context.Context, courseID string) (*CourseStats, error)

	// PlatformStats computes platform-wide totals.
	PlatformStats(ctx context.Context) (*PlatformStats, error)
}

// Cache stores computed statistics for a bounded time window.
type Cache interface {
	// Get unmarshals the cached value for key into target.
	//
	// Returns [apperr.NotFound] on a cache miss.
	Get(ctx context.Context, key string, target any) error

	// Set stores the value under key for [CacheTTL].
	Set(ctx context.Context, key string, value any) error
}
