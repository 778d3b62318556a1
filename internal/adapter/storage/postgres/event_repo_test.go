package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"donor-reconciler/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvent() *domain.WebhookEvent {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.WebhookEvent{
		ID:        uuid.New(),
		EventID:   "evt_123",
		Gateway:   domain.GatewayStripe,
		EventType: "charge.succeeded",
		Status:    domain.EventStatusProcessed,
		Notes:     "duplicate_check=ok",
		Payload:   []byte(`{"id":"ch_1"}`),
		Links: domain.EventLinks{
			ConstituentID:     "C-1",
			GatewayCustomerID: "cus_1",
		},
		Test:        true,
		ProcessedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func strPtr(s string) *string { return &s }

func eventRow(e *domain.WebhookEvent) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "event_id", "gateway", "event_type", "status", "notes", "payload",
		"constituent_id", "gateway_customer_id", "transaction_id", "subscription_id",
		"test", "processed_at", "created_at", "updated_at",
	}).AddRow(
		e.ID, e.EventID, string(e.Gateway), e.EventType, string(e.Status), e.Notes, e.Payload,
		strPtr(e.Links.ConstituentID), strPtr(e.Links.GatewayCustomerID), (*string)(nil), (*string)(nil),
		e.Test, e.ProcessedAt, e.CreatedAt, e.UpdatedAt,
	)
}

func TestEventRepo_GetByEventID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEventRepo(mock)
	e := newTestEvent()

	mock.ExpectQuery("SELECT .+ FROM webhook_events WHERE event_id").
		WithArgs(e.EventID).
		WillReturnRows(eventRow(e))

	result, err := repo.GetByEventID(context.Background(), e.EventID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, e.ID, result.ID)
	assert.Equal(t, domain.GatewayStripe, result.Gateway)
	assert.Equal(t, domain.EventStatusProcessed, result.Status)
	assert.Equal(t, "C-1", result.Links.ConstituentID)
	assert.Equal(t, "cus_1", result.Links.GatewayCustomerID)
	assert.Empty(t, result.Links.TransactionID)
	assert.True(t, result.Test)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_GetByEventID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEventRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM webhook_events WHERE event_id").
		WithArgs("evt_missing").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByEventID(context.Background(), "evt_missing")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_GetByEventID_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEventRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM webhook_events").
		WithArgs("evt_1").
		WillReturnError(errors.New("connection reset"))

	_, err = repo.GetByEventID(context.Background(), "evt_1")
	assert.ErrorContains(t, err, "get webhook event")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEventRepo(mock)
	e := newTestEvent()

	mock.ExpectQuery(`INSERT INTO webhook_events .+ ON CONFLICT \(event_id\) DO UPDATE SET .+ COALESCE\(EXCLUDED.constituent_id.+ RETURNING status`).
		WithArgs(e.ID, e.EventID, "stripe", e.EventType, "processed", e.Notes, e.Payload,
			strPtr("C-1"), strPtr("cus_1"), (*string)(nil), (*string)(nil),
			e.Test, e.ProcessedAt, e.CreatedAt, e.UpdatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("processed"))

	stored, err := repo.Upsert(context.Background(), e)
	assert.NoError(t, err)
	assert.Equal(t, domain.EventStatusProcessed, stored)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_Upsert_ReturnsKeptStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEventRepo(mock)
	e := newTestEvent()
	e.Status = domain.EventStatusFailed

	// The row was settled by an earlier delivery; the guard keeps it.
	mock.ExpectQuery("INSERT INTO webhook_events").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "failed",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("processed"))

	stored, err := repo.Upsert(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusProcessed, stored)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_Upsert_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEventRepo(mock)

	mock.ExpectQuery("INSERT INTO webhook_events").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("unique violation"))

	_, err = repo.Upsert(context.Background(), newTestEvent())
	assert.ErrorContains(t, err, "upsert webhook event")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_ListTestEvents(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewEventRepo(mock)
	e := newTestEvent()
	since := e.CreatedAt.Add(-time.Hour)

	mock.ExpectQuery("SELECT .+ FROM webhook_events\\s+WHERE test = TRUE").
		WithArgs(since, 50).
		WillReturnRows(eventRow(e))

	events, err := repo.ListTestEvents(context.Background(), since, 50)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "evt_123", events[0].EventID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", *nullIfEmpty("x"))
	assert.Equal(t, "", deref(nil))
}
