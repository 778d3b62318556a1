package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"donor-reconciler/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const eventColumns = `id, event_id, gateway, event_type, status, notes, payload,
	constituent_id, gateway_customer_id, transaction_id, subscription_id,
	test, processed_at, created_at, updated_at`

// EventRepo implements ports.EventRepository over the webhook_events table.
type EventRepo struct {
	pool Pool
}

// NewEventRepo creates a new EventRepo.
func NewEventRepo(pool Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

// GetByEventID fetches a ledger row by gateway event id.
func (r *EventRepo) GetByEventID(ctx context.Context, eventID string) (*domain.WebhookEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM webhook_events WHERE event_id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get webhook event: %w", err)
	}
	return event, nil
}

// Upsert inserts the row or updates it in place. processed and ignored rows
// keep their status and notes, nothing moves back to received, the payload
// snapshot is only replaced by a non-null one and links are never cleared.
// The returned status is the one stored, which may differ from e.Status.
func (r *EventRepo) Upsert(ctx context.Context, e *domain.WebhookEvent) (domain.EventStatus, error) {
	query := `INSERT INTO webhook_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (event_id) DO UPDATE SET
			status = CASE
				WHEN webhook_events.status IN ('processed', 'ignored') THEN webhook_events.status
				WHEN EXCLUDED.status = 'received' AND webhook_events.status <> 'received' THEN webhook_events.status
				ELSE EXCLUDED.status END,
			notes = CASE
				WHEN webhook_events.status IN ('processed', 'ignored') THEN webhook_events.notes
				ELSE EXCLUDED.notes END,
			payload = COALESCE(EXCLUDED.payload, webhook_events.payload),
			constituent_id = COALESCE(EXCLUDED.constituent_id, webhook_events.constituent_id),
			gateway_customer_id = COALESCE(EXCLUDED.gateway_customer_id, webhook_events.gateway_customer_id),
			transaction_id = COALESCE(EXCLUDED.transaction_id, webhook_events.transaction_id),
			subscription_id = COALESCE(EXCLUDED.subscription_id, webhook_events.subscription_id),
			processed_at = COALESCE(EXCLUDED.processed_at, webhook_events.processed_at),
			updated_at = EXCLUDED.updated_at
		RETURNING status`

	var stored string
	err := r.pool.QueryRow(ctx, query,
		e.ID, e.EventID, string(e.Gateway), e.EventType, string(e.Status), e.Notes, e.Payload,
		nullIfEmpty(e.Links.ConstituentID), nullIfEmpty(e.Links.GatewayCustomerID),
		nullIfEmpty(e.Links.TransactionID), nullIfEmpty(e.Links.SubscriptionID),
		e.Test, e.ProcessedAt, e.CreatedAt, e.UpdatedAt,
	).Scan(&stored)
	if err != nil {
		return "", fmt.Errorf("upsert webhook event: %w", err)
	}
	return domain.EventStatus(stored), nil
}

// ListTestEvents returns test-mode rows created since the given time, newest
// first, for sandbox cleanup.
func (r *EventRepo) ListTestEvents(ctx context.Context, since time.Time, limit int) ([]domain.WebhookEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM webhook_events
		WHERE test = TRUE AND created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list test events: %w", err)
	}
	defer rows.Close()

	var events []domain.WebhookEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan test event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func scanEvent(row pgx.Row) (*domain.WebhookEvent, error) {
	var (
		e                             domain.WebhookEvent
		gateway, status               string
		constituentID, customerID     *string
		transactionID, subscriptionID *string
	)
	err := row.Scan(
		&e.ID, &e.EventID, &gateway, &e.EventType, &status, &e.Notes, &e.Payload,
		&constituentID, &customerID, &transactionID, &subscriptionID,
		&e.Test, &e.ProcessedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Gateway = domain.Gateway(gateway)
	e.Status = domain.EventStatus(status)
	e.Links = domain.EventLinks{
		ConstituentID:     deref(constituentID),
		GatewayCustomerID: deref(customerID),
		TransactionID:     deref(transactionID),
		SubscriptionID:    deref(subscriptionID),
	}
	return &e, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
