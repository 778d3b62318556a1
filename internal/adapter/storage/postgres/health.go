package postgres

import (
	"context"
	"fmt"
)

// ledgerReadyQuery fails until the ledger migration has run.
const ledgerReadyQuery = `SELECT 1 FROM webhook_events LIMIT 1`

// LedgerHealth reports whether the webhook ledger table is reachable.
type LedgerHealth struct {
	pool Pool
}

// NewHealthCheck creates the ledger database health checker.
func NewHealthCheck(pool Pool) *LedgerHealth {
	return &LedgerHealth{pool: pool}
}

func (h *LedgerHealth) Ping(ctx context.Context) error {
	if _, err := h.pool.Exec(ctx, ledgerReadyQuery); err != nil {
		return fmt.Errorf("webhook ledger unavailable: %w", err)
	}
	return nil
}

func (h *LedgerHealth) Name() string {
	return "ledger-db"
}
