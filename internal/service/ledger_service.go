package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"
	"donor-reconciler/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LedgerService implements ports.Ledger and ports.EventQueryService.
// Storage failures never reach the caller: a ledger that cannot be written
// must not stop a donation from being reconciled.
type LedgerService struct {
	repo     ports.EventRepository
	cache    ports.EventStatusCache
	claims   ports.ClaimStore
	encSvc   ports.EncryptionService // nil stores snapshots in clear
	claimTTL time.Duration
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	repo ports.EventRepository,
	cache ports.EventStatusCache,
	claims ports.ClaimStore,
	encSvc ports.EncryptionService,
	claimTTL time.Duration,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *LedgerService {
	return &LedgerService{
		repo:     repo,
		cache:    cache,
		claims:   claims,
		encSvc:   encSvc,
		claimTTL: claimTTL,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Lookup returns the recorded status of an event.
func (s *LedgerService) Lookup(ctx context.Context, eventID string) (domain.EventStatus, bool) {
	// Layer 1: Redis status cache
	status, err := s.cache.Get(ctx, eventID)
	if err != nil {
		s.log.Warn().Err(err).Str("event_id", eventID).Msg("redis status check failed, falling through to DB")
	}
	if status != "" {
		return status, true
	}

	// Layer 2: DB ledger
	event, err := s.repo.GetByEventID(ctx, eventID)
	if err != nil {
		s.log.Error().Err(err).Str("event_id", eventID).Msg("ledger lookup failed, treating event as new")
		return "", false
	}
	if event == nil {
		return "", false
	}
	return event.Status, true
}

// Upsert records the event's current status. The payload snapshot is stored
// with every metadata object removed and sealed when encryption is enabled.
// Terminal statuses are cached as stored by the repository.
func (s *LedgerService) Upsert(ctx context.Context, event *domain.WebhookEvent) {
	row := *event
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now().UTC()
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.Status.IsTerminal() && row.ProcessedAt == nil {
		row.ProcessedAt = &now
	}

	if len(row.Payload) > 0 {
		snapshot, err := s.snapshot(row.Payload)
		if err != nil {
			s.log.Warn().Err(err).Str("event_id", row.EventID).Msg("payload snapshot skipped")
			row.Payload = nil
		} else {
			row.Payload = snapshot
		}
	}

	stored, err := s.repo.Upsert(ctx, &row)
	if err != nil {
		s.log.Error().Err(err).
			Str("event_id", row.EventID).
			Str("status", string(row.Status)).
			Msg("ledger upsert failed")
		return
	}
	if stored != row.Status {
		s.log.Info().
			Str("event_id", row.EventID).
			Str("requested", string(row.Status)).
			Str("stored", string(stored)).
			Msg("ledger kept settled status")
	}

	// Cache what the row holds, never what was asked for.
	if stored.IsTerminal() {
		if err := s.cache.Set(ctx, row.EventID, stored, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("event_id", row.EventID).Msg("failed to cache event status")
		}
	}
}

// Claim takes the processing lease for an event. A cache outage degrades to
// unguarded processing.
func (s *LedgerService) Claim(ctx context.Context, eventID string) bool {
	ok, err := s.claims.Acquire(ctx, eventID, s.claimTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("event_id", eventID).Msg("claim unavailable, processing without lease")
		return true
	}
	return ok
}

// Release drops the processing lease.
func (s *LedgerService) Release(ctx context.Context, eventID string) {
	if err := s.claims.Release(ctx, eventID); err != nil {
		s.log.Warn().Err(err).Str("event_id", eventID).Msg("failed to release claim")
	}
}

// GetEvent returns the full ledger row with its snapshot opened.
func (s *LedgerService) GetEvent(ctx context.Context, eventID string) (*domain.WebhookEvent, error) {
	event, err := s.repo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get event: %w", err))
	}
	if event == nil {
		return nil, apperror.ErrNotFound("webhook event")
	}

	if s.encSvc != nil && len(event.Payload) > 0 {
		plain, err := s.encSvc.Decrypt(event.Payload)
		if err != nil {
			return nil, apperror.ErrEncryptionFailure(fmt.Errorf("open snapshot: %w", err))
		}
		event.Payload = plain
	}
	return event, nil
}

func (s *LedgerService) snapshot(raw []byte) ([]byte, error) {
	stripped, err := StripMetadata(raw)
	if err != nil {
		return nil, err
	}
	if s.encSvc == nil {
		return stripped, nil
	}
	sealed, err := s.encSvc.Encrypt(stripped)
	if err != nil {
		return nil, fmt.Errorf("seal snapshot: %w", err)
	}
	return sealed, nil
}

// StripMetadata removes every "metadata" object at any depth of a JSON
// document. Donation metadata carries donor PII and is not kept in the ledger.
func StripMetadata(raw []byte) ([]byte, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	out, err := json.Marshal(stripMetadata(doc))
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return out, nil
}

func stripMetadata(v any) any {
	switch node := v.(type) {
	case map[string]any:
		delete(node, "metadata")
		for k, child := range node {
			node[k] = stripMetadata(child)
		}
		return node
	case []any:
		for i, child := range node {
			node[i] = stripMetadata(child)
		}
		return node
	default:
		return v
	}
}
