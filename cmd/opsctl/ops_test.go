package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports/mocks"
	"donor-reconciler/pkg/poll"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAwaitEvent_ReachesTerminal(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEventRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().GetByEventID(gomock.Any(), "evt_1").Return(nil, nil),
		repo.EXPECT().GetByEventID(gomock.Any(), "evt_1").Return(&domain.WebhookEvent{EventID: "evt_1", Status: domain.EventStatusProcessing}, nil),
		repo.EXPECT().GetByEventID(gomock.Any(), "evt_1").Return(&domain.WebhookEvent{EventID: "evt_1", Status: domain.EventStatusProcessed}, nil),
	)

	event, err := awaitEvent(context.Background(), repo, "evt_1", time.Millisecond, time.Second)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusProcessed, event.Status)
}

func TestAwaitEvent_Failed(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEventRepository(ctrl)
	repo.EXPECT().GetByEventID(gomock.Any(), "evt_1").
		Return(&domain.WebhookEvent{EventID: "evt_1", Status: domain.EventStatusFailed, Notes: "crm down"}, nil)

	event, err := awaitEvent(context.Background(), repo, "evt_1", time.Millisecond, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crm down")
	assert.Equal(t, domain.EventStatusFailed, event.Status)
}

func TestAwaitEvent_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEventRepository(ctrl)
	repo.EXPECT().GetByEventID(gomock.Any(), "evt_1").Return(nil, nil).AnyTimes()

	_, err := awaitEvent(context.Background(), repo, "evt_1", 5*time.Millisecond, 20*time.Millisecond)
	assert.ErrorIs(t, err, poll.ErrTimeout)
	assert.Contains(t, err.Error(), "never recorded")
}

func TestAwaitEvent_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEventRepository(ctrl)
	repo.EXPECT().GetByEventID(gomock.Any(), "evt_1").Return(nil, errors.New("db down"))

	_, err := awaitEvent(context.Background(), repo, "evt_1", time.Millisecond, time.Second)
	assert.ErrorContains(t, err, "db down")
}

type fakeLister struct {
	events []domain.WebhookEvent
	since  time.Time
	limit  int
}

func (f *fakeLister) ListTestEvents(_ context.Context, since time.Time, limit int) ([]domain.WebhookEvent, error) {
	f.since, f.limit = since, limit
	return f.events, nil
}

func sandboxEvents() *fakeLister {
	return &fakeLister{events: []domain.WebhookEvent{
		{EventID: "evt_1", Links: domain.EventLinks{ConstituentID: "C-1", TransactionID: "T-1"}},
		{EventID: "evt_2", Links: domain.EventLinks{ConstituentID: "C-1", TransactionID: "T-2"}},
		{EventID: "evt_3"},
	}}
}

func TestCleanupSandbox_DryRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockCRMClient(ctrl)
	client.EXPECT().Instance().Return(domain.InstanceSandbox)

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	lister := sandboxEvents()
	var out bytes.Buffer

	report, err := cleanupSandbox(context.Background(), &out, lister, client, now,
		cleanupOptions{Since: time.Hour, Limit: 10, Constituents: true})
	require.NoError(t, err)

	assert.Equal(t, now.Add(-time.Hour), lister.since)
	assert.Equal(t, 10, lister.limit)
	assert.Equal(t, 3, report.Events)
	assert.Zero(t, report.TransactionsDeleted)
	assert.Contains(t, out.String(), "would delete transaction T-1 (event evt_1)")
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("would delete constituent C-1")))
}

func TestCleanupSandbox_Apply(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockCRMClient(ctrl)
	client.EXPECT().Instance().Return(domain.InstanceSandbox)
	client.EXPECT().DeleteTransaction(gomock.Any(), "T-1").Return(nil)
	client.EXPECT().DeleteTransaction(gomock.Any(), "T-2").Return(errors.New("locked"))
	client.EXPECT().DeleteConstituent(gomock.Any(), "C-1").Return(nil)

	var out bytes.Buffer
	report, err := cleanupSandbox(context.Background(), &out, sandboxEvents(), client, time.Now(),
		cleanupOptions{Since: time.Hour, Limit: 10, Constituents: true, Apply: true})
	require.NoError(t, err)

	assert.Equal(t, 1, report.TransactionsDeleted)
	assert.Equal(t, 1, report.ConstituentsDeleted)
	assert.Equal(t, 1, report.Failures)
	assert.Contains(t, out.String(), "transaction T-2: locked")
}

func TestCleanupSandbox_RefusesRealTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockCRMClient(ctrl)
	client.EXPECT().Instance().Return(domain.InstanceUK).AnyTimes()

	_, err := cleanupSandbox(context.Background(), &bytes.Buffer{}, sandboxEvents(), client, time.Now(), cleanupOptions{Apply: true})
	assert.ErrorContains(t, err, "refusing")
}

func TestPrintEvent(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printEvent(&out, &domain.WebhookEvent{EventID: "evt_9", Status: domain.EventStatusIgnored}))
	assert.Contains(t, out.String(), `"event_id": "evt_9"`)
	assert.Contains(t, out.String(), `"status": "ignored"`)
}
