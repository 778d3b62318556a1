package ports

import (
	"context"
	"time"

	"donor-reconciler/internal/core/domain"
)

// EventRepository defines persistence operations for the webhook event ledger.
type EventRepository interface {
	// GetByEventID returns nil, nil when the event has never been seen.
	GetByEventID(ctx context.Context, eventID string) (*domain.WebhookEvent, error)
	// Upsert inserts the event or, on repeat sight, updates status, notes and
	// timestamps and coalesces the link fields. Settled rows are left alone.
	// It returns the status the row holds after the write.
	Upsert(ctx context.Context, event *domain.WebhookEvent) (domain.EventStatus, error)
}

// EventStatusCache is the Redis-layer ledger lookup (fast path).
type EventStatusCache interface {
	Get(ctx context.Context, eventID string) (domain.EventStatus, error) // Returns "" when absent
	Set(ctx context.Context, eventID string, status domain.EventStatus, ttl time.Duration) error
}

// ClaimStore holds short-lived keys taken with SET NX: processing leases per
// event and the gift aid declaration guard per transaction.
type ClaimStore interface {
	// Acquire returns true when the caller now owns the lease.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// NonceStore remembers relay nonces for the signature window.
type NonceStore interface {
	// CheckAndSet records nonce under scope. It returns false when the
	// nonce was already seen inside ttl.
	CheckAndSet(ctx context.Context, scope string, nonce string, ttl time.Duration) (bool, error)
}

// RateLimitStore counts requests per key in fixed windows.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}
