// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/roster/internal/platform/apperr"
	"github.com/taibuivan/roster/internal/platform/constants"
)

// Hash fields of a stored session.
const (
	redisFieldAdminID   = "admin_id"
	redisFieldCreatedAt = "created_at"
	redisFieldExpiresAt = "expires_at"
)

// RedisSessionRepository implements [SessionRepository] using Redis hashes.
//
// Each session lives at auth:session:<id> with a TTL equal to its remaining
// lifetime, so Redis expires it without a janitor.
type RedisSessionRepository struct {
	client *redis.Client
}

var _ SessionRepository = (*RedisSessionRepository)(nil)

// NewRedisSessionRepository creates a Redis-backed session store.
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(id string) string {
	return constants.RedisPrefixSession + id
}

/*
Create writes the session hash and its expiry in one transaction.

Returns:
  - error: connectivity errors, or a non-positive remaining lifetime
*/
func (repository *RedisSessionRepository) Create(ctx context.Context, session *Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("redis_session_create_failed: session %q already expired", session.ID)
	}

	key := sessionKey(session.ID)
	_, err := repository.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			redisFieldAdminID, session.AdminID,
			redisFieldCreatedAt, session.CreatedAt.UnixMilli(),
			redisFieldExpiresAt, session.ExpiresAt.UnixMilli(),
		)
		pipe.PExpire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}
	return nil
}

/*
FindByID loads a session hash.

Returns:
  - *Session: the stored session
  - error: apperr.NotFound when the key is absent or expired, or connectivity errors
*/
func (repository *RedisSessionRepository) FindByID(ctx context.Context, id string) (*Session, error) {
	values, err := repository.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}
	if len(values) == 0 {
		return nil, apperr.NotFound("Session")
	}

	adminID, err := strconv.ParseInt(values[redisFieldAdminID], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("redis_session_corrupt_admin_id: %w", err)
	}
	createdAt, err := strconv.ParseInt(values[redisFieldCreatedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("redis_session_corrupt_created_at: %w", err)
	}
	expiresAt, err := strconv.ParseInt(values[redisFieldExpiresAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("redis_session_corrupt_expires_at: %w", err)
	}

	return &Session{
		ID:        id,
		AdminID:   adminID,
		CreatedAt: time.UnixMilli(createdAt).UTC(),
		ExpiresAt: time.UnixMilli(expiresAt).UTC(),
	}, nil
}

func (repository *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := repository.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: key TTLs already evict expired sessions.
func (repository *RedisSessionRepository) DeleteExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}
