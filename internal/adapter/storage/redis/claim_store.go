package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ClaimStore implements ports.ClaimStore with SET NX leases. A lease that
// outlives its holder expires on its own.
type ClaimStore struct {
	client *goredis.Client
	prefix string
}

// NewClaimStore creates a new Redis-backed claim store.
func NewClaimStore(client *goredis.Client) *ClaimStore {
	return &ClaimStore{
		client: client,
		prefix: keyEventClaim,
	}
}

// NewGiftAidGuard creates a claim store remembering which CRM transactions
// already carry a gift aid declaration. Entries expire with their TTL.
func NewGiftAidGuard(client *goredis.Client) *ClaimStore {
	return &ClaimStore{
		client: client,
		prefix: keyGiftAidGuard,
	}
}

// Acquire returns true when the lease was free and is now held.
func (s *ClaimStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := s.client.SetArgs(ctx, s.prefix+key, time.Now().Unix(), goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis claim acquire: %w", err)
	}
	return result == "OK", nil
}

// Release drops the lease. Releasing a lease that already expired is not an
// error.
func (s *ClaimStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis claim release: %w", err)
	}
	return nil
}
