package dto

import (
	"encoding/json"
	"time"

	"donor-reconciler/internal/core/domain"
)

// StripeEvent is the envelope part of a Stripe event; data.object is left to
// the normalizer.
type StripeEvent struct {
	ID       string `json:"id" binding:"required,safe_id,max=255"`
	Type     string `json:"type" binding:"required,max=100"`
	Livemode bool   `json:"livemode"`
}

// GoCardlessBatch is the body of a GoCardless webhook delivery.
type GoCardlessBatch struct {
	Events []json.RawMessage `json:"events" binding:"required,min=1,max=500"`
}

// GoCardlessEvent is the envelope part of one batch entry.
type GoCardlessEvent struct {
	ID           string `json:"id" binding:"required,safe_id,max=255"`
	ResourceType string `json:"resource_type" binding:"required"`
	Action       string `json:"action" binding:"required"`
}

// PayPalRelay is the envelope part of a capture relayed by the donation app.
type PayPalRelay struct {
	ID        string `json:"id" binding:"required,safe_id,max=255"`
	EventType string `json:"event_type" binding:"required,max=100"`
	Sandbox   bool   `json:"sandbox"`
}

// BatchResult is the per-entry result of a GoCardless batch.
type BatchResult struct {
	EventID string          `json:"event_id"`
	Outcome *domain.Outcome `json:"outcome,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// BatchResponse is returned for a fully handled GoCardless batch.
type BatchResponse struct {
	Results []BatchResult `json:"results"`
}

// EventResponse is the operator view of a ledger row.
type EventResponse struct {
	ID          string            `json:"id"`
	EventID     string            `json:"event_id"`
	Gateway     string            `json:"gateway"`
	EventType   string            `json:"event_type"`
	Status      string            `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	Links       domain.EventLinks `json:"links"`
	Test        bool              `json:"test"`
	Payload     json.RawMessage   `json:"payload,omitempty"`
	ProcessedAt *string           `json:"processed_at,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

// NewEventResponse maps a ledger row. A snapshot that is not valid JSON is
// left out rather than breaking the response.
func NewEventResponse(e *domain.WebhookEvent) EventResponse {
	resp := EventResponse{
		ID:        e.ID.String(),
		EventID:   e.EventID,
		Gateway:   string(e.Gateway),
		EventType: e.EventType,
		Status:    string(e.Status),
		Notes:     e.Notes,
		Links:     e.Links,
		Test:      e.Test,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if json.Valid(e.Payload) {
		resp.Payload = e.Payload
	}
	if e.ProcessedAt != nil {
		s := e.ProcessedAt.UTC().Format(time.RFC3339)
		resp.ProcessedAt = &s
	}
	return resp
}
