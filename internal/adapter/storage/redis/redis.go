// Package redis holds the reconciler's short-lived state: the settled-status
// fast path, processing leases, the gift aid guard, relay nonces and rate
// limit windows. Postgres stays the source of truth for every event.
package redis

import (
	"context"
	"fmt"
	"time"

	"donor-reconciler/config"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Keyspace. Every key the reconciler writes starts with namespace.
const (
	namespace = "drc:"

	keyEventStatus  = namespace + "event:status:"
	keyEventClaim   = namespace + "event:claim:"
	keyGiftAidGuard = namespace + "giftaid:declared:"
	keyRelayNonce   = namespace + "relay:nonce:"
	keyRateLimit    = namespace + "ratelimit:"
	keyHealth       = namespace + "health"
)

// Client timeouts.
const (
	dialTimeout = 2 * time.Second
	ioTimeout   = 500 * time.Millisecond
)

// NewClient connects to Redis and pings it once.
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(options(cfg))

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr(), err)
	}

	log.Info().
		Str("addr", cfg.Addr()).
		Int("db", cfg.DB).
		Str("namespace", namespace).
		Msg("ledger cache connected")

	return client, nil
}

func options(cfg config.RedisConfig) *goredis.Options {
	return &goredis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	}
}
