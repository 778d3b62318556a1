package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// NonceStore implements ports.NonceStore for signed relay requests. Keys are
// drc:relay:nonce:<relay>:<nonce> and live for the signature window.
type NonceStore struct {
	client *goredis.Client
	prefix string
}

// NewNonceStore creates a new Redis-backed nonce store.
func NewNonceStore(client *goredis.Client) *NonceStore {
	return &NonceStore{
		client: client,
		prefix: keyRelayNonce,
	}
}

// CheckAndSet records a relay nonce. It returns false when the relay already
// used the nonce inside the TTL.
func (s *NonceStore) CheckAndSet(ctx context.Context, relay string, nonce string, ttl time.Duration) (bool, error) {
	result, err := s.client.SetArgs(ctx, s.key(relay, nonce), time.Now().Unix(), goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis relay nonce %s: %w", relay, err)
	}
	return result == "OK", nil
}

func (s *NonceStore) key(relay, nonce string) string {
	return s.prefix + relay + ":" + nonce
}
