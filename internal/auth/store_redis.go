// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minhtran/lurnia/internal/platform/apperr"
)

// RedisTokenStore implements [VolatileTokenStore] on Redis.
//
// Redis owns expiry: every digest is written with a TTL, so expired tokens
// disappear without any cleanup job. A keyPrefix separates reset tokens from
// verification tokens in the keyspace.
type RedisTokenStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewResetTokenStore creates the Redis-backed store for password reset tokens.
func NewResetTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client, keyPrefix: "auth:reset_token:"}
}

// NewVerificationTokenStore creates the Redis-backed store for email
// verification tokens.
func NewVerificationTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client, keyPrefix: "auth:verify_token:"}
}

// Set stores a token digest with its associated userID and TTL.
func (store *RedisTokenStore) Set(ctx context.Context, tokenDigest string, userID string, ttl time.Duration) error {
	key := store.keyPrefix + tokenDigest

	if err := store.client.Set(ctx, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_token_store_set_failed: %w", err)
	}

	return nil
}

// Get retrieves the userID for a given token digest.
//
// Returns [apperr.NotFound] if the digest is absent or expired.
func (store *RedisTokenStore) Get(ctx context.Context, tokenDigest string) (string, error) {
	key := store.keyPrefix + tokenDigest

	userID, err := store.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Token")
		}
		return "", fmt.Errorf("redis_token_store_get_failed: %w", err)
	}

	return userID, nil
}

// Delete removes the token digest from Redis.
func (store *RedisTokenStore) Delete(ctx context.Context, tokenDigest string) error {
	key := store.keyPrefix + tokenDigest

	if err := store.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_token_store_delete_failed: %w", err)
	}

	return nil
}
