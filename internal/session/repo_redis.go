// Copyright (c) 2026 Ticketflow. All rights reserved.

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ticketflow/gateway/internal/platform/constants"
)

// RedisRepository implements [Repository] on Redis.
//
// The two persisted entries live under separate keys sharing the session ID
// suffix; writes and deletes go through a transactional pipeline so both
// entries change together, and both carry the same TTL so an abandoned
// session ages out as a unit.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a Redis-backed session repository.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

/*
Save stores token and profile under the session ID in one transaction.

Parameters:
  - ctx: context.Context
  - sid: opaque browser-session identifier
  - record: Record

Returns:
  - error: Execution errors
*/
func (repository *RedisRepository) Save(ctx context.Context, sid string, record Record) error {
	tokenKey := constants.RedisPrefixSessionToken + sid
	profileKey := constants.RedisPrefixSessionProfile + sid

	pipeline := repository.client.TxPipeline()
	pipeline.Set(ctx, tokenKey, record.Token, constants.SessionTTL)
	if record.Profile != nil {
		pipeline.Set(ctx, profileKey, record.Profile, constants.SessionTTL)
	} else {
		pipeline.Del(ctx, profileKey)
	}

	if _, err := pipeline.Exec(ctx); err != nil {
		return fmt.Errorf("session_redis_save_failed: %w", err)
	}

	return nil
}

/*
Load retrieves the record for the session ID.

Description: Returns ErrNotFound when no token entry exists. A present token
with an absent profile entry yields a Record with a nil Profile.

Parameters:
  - ctx: context.Context
  - sid: opaque browser-session identifier

Returns:
  - *Record: Hydrated record
  - error: ErrNotFound or connectivity errors
*/
func (repository *RedisRepository) Load(ctx context.Context, sid string) (*Record, error) {
	tokenKey := constants.RedisPrefixSessionToken + sid
	profileKey := constants.RedisPrefixSessionProfile + sid

	token, err := repository.client.Get(ctx, tokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session_redis_load_failed: %w", err)
	}

	record := &Record{Token: token}

	profile, err := repository.client.Get(ctx, profileKey).Bytes()
	if err == nil {
		record.Profile = profile
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("session_redis_load_profile_failed: %w", err)
	}

	return record, nil
}

/*
Delete erases both entries for the session ID.

Parameters:
  - ctx: context.Context
  - sid: opaque browser-session identifier

Returns:
  - error: Deletion failures
*/
func (repository *RedisRepository) Delete(ctx context.Context, sid string) error {
	tokenKey := constants.RedisPrefixSessionToken + sid
	profileKey := constants.RedisPrefixSessionProfile + sid

	if err := repository.client.Del(ctx, tokenKey, profileKey).Err(); err != nil {
		return fmt.Errorf("session_redis_delete_failed: %w", err)
	}

	return nil
}
