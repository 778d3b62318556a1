package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus is the ledger state of an inbound webhook event.
type EventStatus string

const (
	EventStatusReceived   EventStatus = "received"
	EventStatusProcessing EventStatus = "processing"
	EventStatusProcessed  EventStatus = "processed"
	EventStatusIgnored    EventStatus = "ignored"
	EventStatusFailed     EventStatus = "failed"
)

// IsTerminal returns true for statuses that end a delivery attempt.
func (s EventStatus) IsTerminal() bool {
	return s == EventStatusProcessed || s == EventStatusIgnored || s == EventStatusFailed
}

// IsSettled returns true for statuses a redelivery must never reprocess.
// A failed event stays eligible: the gateway was told to retry it.
func (s EventStatus) IsSettled() bool {
	return s == EventStatusProcessed || s == EventStatusIgnored
}

// CanTransition reports whether the ledger may move an event from one status
// to another. Settled statuses are never reverted and nothing returns to
// received once processing has started.
func CanTransition(from, to EventStatus) bool {
	if from == "" {
		return true
	}
	if from.IsSettled() {
		return from == to
	}
	if to == EventStatusReceived {
		return from == EventStatusReceived
	}
	return true
}

// EventLinks are the identifiers an event produced. The ledger fills them by
// coalesce: a link once set is never cleared.
type EventLinks struct {
	ConstituentID     string `json:"constituent_id,omitempty"`
	GatewayCustomerID string `json:"gateway_customer_id,omitempty"`
	TransactionID     string `json:"transaction_id,omitempty"`
	SubscriptionID    string `json:"subscription_id,omitempty"`
}

// Coalesce returns l with every empty field taken from other.
func (l EventLinks) Coalesce(other EventLinks) EventLinks {
	return EventLinks{
		ConstituentID:     firstNonEmpty(l.ConstituentID, other.ConstituentID),
		GatewayCustomerID: firstNonEmpty(l.GatewayCustomerID, other.GatewayCustomerID),
		TransactionID:     firstNonEmpty(l.TransactionID, other.TransactionID),
		SubscriptionID:    firstNonEmpty(l.SubscriptionID, other.SubscriptionID),
	}
}

// WebhookEvent is one row of the event ledger.
type WebhookEvent struct {
	ID          uuid.UUID   `json:"id"`
	EventID     string      `json:"event_id"` // Gateway event id, unique
	Gateway     Gateway     `json:"gateway"`
	EventType   string      `json:"event_type"`
	Status      EventStatus `json:"status"`
	Notes       string      `json:"notes,omitempty"`
	Payload     []byte      `json:"-"` // Snapshot with metadata stripped, possibly encrypted
	Links       EventLinks  `json:"links"`
	Test        bool        `json:"test"`
	ProcessedAt *time.Time  `json:"processed_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Envelope is a gateway event as received on the wire, before normalisation.
type Envelope struct {
	Gateway   Gateway
	EventID   string
	EventType string
	Test      bool
	Raw       []byte
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
