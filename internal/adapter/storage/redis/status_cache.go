package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"donor-reconciler/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// EventStatusCache implements ports.EventStatusCache. Only settled statuses
// are worth caching; callers decide what to store.
type EventStatusCache struct {
	client *goredis.Client
	prefix string
}

// NewEventStatusCache creates a new Redis-backed event status cache.
func NewEventStatusCache(client *goredis.Client) *EventStatusCache {
	return &EventStatusCache{
		client: client,
		prefix: keyEventStatus,
	}
}

// Get returns the cached status, or "" on a miss.
func (c *EventStatusCache) Get(ctx context.Context, eventID string) (domain.EventStatus, error) {
	val, err := c.client.Get(ctx, c.prefix+eventID).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis status get: %w", err)
	}
	return domain.EventStatus(val), nil
}

// Set stores the status with a TTL.
func (c *EventStatusCache) Set(ctx context.Context, eventID string, status domain.EventStatus, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+eventID, string(status), ttl).Err(); err != nil {
		return fmt.Errorf("redis status set: %w", err)
	}
	return nil
}
