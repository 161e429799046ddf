// Package cache provides the redis-backed export cache.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "docseva/pkg/domain"
)

const keyPrefix = "export:"

// Redis caches rendered export payloads keyed by citizen id with a TTL.
// Entries are invalidated eagerly on officer decisions; the TTL bounds
// staleness if an invalidation is lost.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func key(owner id.CitizenID) string {
	return keyPrefix + owner.String()
}

func (c *Redis) Get(ctx context.Context, owner id.CitizenID) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, key(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("export cache get: %w", err)
	}
	return payload, true, nil
}

func (c *Redis) Set(ctx context.Context, owner id.CitizenID, payload []byte) error {
	if err := c.client.Set(ctx, key(owner), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("export cache set: %w", err)
	}
	return nil
}

func (c *Redis) Invalidate(ctx context.Context, owner id.CitizenID) error {
	if err := c.client.Del(ctx, key(owner)).Err(); err != nil {
		return fmt.Errorf("export cache invalidate: %w", err)
	}
	return nil
}
