// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package analytics

import (
	"context"
	"log/slog"
)

// Service computes statistics through a read-through cache.
//
// # Cache Policy
//
// Reads try the cache first; a miss falls through to Postgres and the result
// is written back with [CacheTTL]. Cache write failures are logged but never
// fail the request, since the number was already computed.
type Service struct {
	store  Store
	cache  Cache
	logger *slog.Logger
}

// NewService constructs a new analytics [Service].
func NewService(store Store, cache Cache, logger *slog.Logger) *Service {
	return &Service{store: store, cache: cache, logger: logger}
}

// CourseStats returns participation numbers for one course.
func (service *Service) CourseStats(ctx context.Context, courseID string) (*CourseStats, error) {
	cacheKey := "course:" + courseID

	cached := &CourseStats{}
	if err := service.cache.Get(ctx, cacheKey, cached); err == nil {
		return cached, nil
	}

	stats, err := service.store.CourseStats(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(ctx, cacheKey, stats); err != nil {
		service.logger.Warn("analytics_cache_write_failed", "key", cacheKey, "error", err)
	}

	return stats, nil
}

// PlatformStats returns platform-wide totals.
func (service *Service) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	const cacheKey = "platform"

	cached := &PlatformStats{}
	if err := service.cache.Get(ctx, cacheKey, cached); err == nil {
		return cached, nil
	}

	stats, err := service.store.PlatformStats(ctx)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(ctx, cacheKey, stats); err != nil {
		service.logger.Warn("analytics_cache_write_failed", "key", cacheKey, "error", err)
	}

	return stats, nil
}
