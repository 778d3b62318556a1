package dto

import (
	"encoding/json"
	"testing"
	"time"

	"donor-reconciler/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSafeID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"evt_1NbQ2x", true},
		{"EV0012.retry-1", true},
		{"", false},
		{"evt 1", false},
		{"evt_1;DROP", false},
		{"../etc/passwd", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSafeID(tt.in), tt.in)
	}
}

func TestStripeEvent_Binding(t *testing.T) {
	var ok StripeEvent
	require.NoError(t, binding.JSON.BindBody([]byte(`{"id":"evt_1","type":"invoice.paid","livemode":true}`), &ok))
	assert.True(t, ok.Livemode)

	var bad StripeEvent
	assert.Error(t, binding.JSON.BindBody([]byte(`{"id":"evt 1","type":"invoice.paid"}`), &bad))

	var missing StripeEvent
	assert.Error(t, binding.JSON.BindBody([]byte(`{"id":"evt_1"}`), &missing))
}

func TestGoCardlessBatch_Binding(t *testing.T) {
	var empty GoCardlessBatch
	assert.Error(t, binding.JSON.BindBody([]byte(`{"events":[]}`), &empty))

	var batch GoCardlessBatch
	require.NoError(t, binding.JSON.BindBody([]byte(`{"events":[{"id":"EV1"},{"id":"EV2"}]}`), &batch))
	assert.Len(t, batch.Events, 2)
}

func TestNewEventResponse(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := &domain.WebhookEvent{
		ID:          uuid.New(),
		EventID:     "evt_1",
		Gateway:     domain.GatewayStripe,
		Status:      domain.EventStatusProcessed,
		Payload:     []byte(`{"id":"evt_1"}`),
		Links:       domain.EventLinks{ConstituentID: "C-9"},
		ProcessedAt: &at,
		CreatedAt:   at,
		UpdatedAt:   at,
	}

	resp := NewEventResponse(e)
	assert.Equal(t, "stripe", resp.Gateway)
	assert.Equal(t, "2026-03-01T12:00:00Z", *resp.ProcessedAt)
	assert.JSONEq(t, `{"id":"evt_1"}`, string(resp.Payload))

	e.Payload = []byte{0x01, 0x02}
	e.ProcessedAt = nil
	resp = NewEventResponse(e)
	assert.Nil(t, resp.Payload)
	assert.Nil(t, resp.ProcessedAt)

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"constituent_id":"C-9"`)
}
