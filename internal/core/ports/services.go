package ports

import (
	"context"
	"time"

	"donor-reconciler/internal/core/domain"
)

// EncryptionService seals ledger snapshots at rest (AES-256-GCM).
type EncryptionService interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
	// VerifyStripe checks a Stripe-Signature header ("t=...,v1=...") against
	// the raw body, rejecting timestamps outside tolerance.
	VerifyStripe(secretKey string, header string, body []byte, tolerance time.Duration) error
}

// TokenService handles operator JWT operations.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
}

// --- Service Ports (Business Logic) ---

// Ledger is the idempotency store in front of the pipeline.
type Ledger interface {
	Lookup(ctx context.Context, eventID string) (domain.EventStatus, bool)
	Upsert(ctx context.Context, event *domain.WebhookEvent)
	Claim(ctx context.Context, eventID string) bool
	Release(ctx context.Context, eventID string)
}

// Normalizer converts a gateway envelope into a donation.
// Rejections wrap domain.ErrIgnored.
type Normalizer interface {
	Normalize(ctx context.Context, env domain.Envelope) (*domain.Donation, error)
}

// Orchestrator runs the ordered side-effect steps for one donation.
type Orchestrator interface {
	Run(ctx context.Context, donation *domain.Donation) (*domain.Outcome, error)
}

// ReconciliationService is the per-event entry point used by the transport.
type ReconciliationService interface {
	Handle(ctx context.Context, env domain.Envelope) (*domain.Outcome, error)
}

// EventQueryService backs the operator ledger view.
type EventQueryService interface {
	GetEvent(ctx context.Context, eventID string) (*domain.WebhookEvent, error)
}

// PipelineMetrics records per-event pipeline outcomes.
type PipelineMetrics interface {
	ObserveEvent(gateway domain.Gateway, outcome string, elapsed time.Duration)
	ObserveStepFailure(gateway domain.Gateway, step domain.StepName)
}
