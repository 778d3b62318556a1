package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LedgerCacheHealth checks that the cache accepts writes. A replica or a
// full instance answers PING but would drop every claim.
type LedgerCacheHealth struct {
	client *goredis.Client
}

// NewHealthCheck creates the ledger cache health checker.
func NewHealthCheck(client *goredis.Client) *LedgerCacheHealth {
	return &LedgerCacheHealth{client: client}
}

func (h *LedgerCacheHealth) Ping(ctx context.Context) error {
	if err := h.client.Set(ctx, keyHealth, time.Now().Unix(), time.Minute).Err(); err != nil {
		return fmt.Errorf("ledger cache not writable: %w", err)
	}
	return nil
}

func (h *LedgerCacheHealth) Name() string {
	return "ledger-cache"
}
