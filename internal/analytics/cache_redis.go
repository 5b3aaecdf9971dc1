// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/minhtran/lurnia/internal/platform/apperr"
)

// RedisCache implements [Cache] on top of Redis with JSON values.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisCache creates a statistics cache with the "analytics:" namespace.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, keyPrefix: "analytics:"}
}

// Get unmarshals the cached JSON value for key into target.
func (cache *RedisCache) Get(ctx context.Context, key string, target any) error {
	payload, err := cache.client.Get(ctx, cache.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperr.NotFound("Statistic")
		}
		return fmt.Errorf("redis_analytics_cache_get_failed: %w", err)
	}

	if err := json.Unmarshal(payload, target); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		return apperr.NotFound("Statistic")
	}

	return nil
}

// Set stores the value as JSON under key for [CacheTTL].
func (cache *RedisCache) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis_analytics_cache_marshal_failed: %w", err)
	}

	if err := cache.client.Set(ctx, cache.keyPrefix+key, payload, CacheTTL).Err(); err != nil {
		return fmt.Errorf("redis_analytics_cache_set_failed: %w", err)
	}

	return nil
}
