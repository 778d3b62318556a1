package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"
	"donor-reconciler/pkg/apperror"
	"donor-reconciler/pkg/logger"

	"github.com/rs/zerolog"
)

// ReconciliationService implements ports.ReconciliationService. It is the
// outer handler for one delivery: ledger dedup, normalisation, side effects
// and the final ledger write. The ledger write is not atomic with the side
// effects, so a crash in between leads to reprocessing on redelivery.
type ReconciliationService struct {
	ledger       ports.Ledger
	normalizers  map[domain.Gateway]ports.Normalizer
	orchestrator ports.Orchestrator
	metrics      ports.PipelineMetrics
	log          zerolog.Logger
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(
	ledger ports.Ledger,
	normalizers map[domain.Gateway]ports.Normalizer,
	orchestrator ports.Orchestrator,
	metrics ports.PipelineMetrics,
	log zerolog.Logger,
) *ReconciliationService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &ReconciliationService{
		ledger:       ledger,
		normalizers:  normalizers,
		orchestrator: orchestrator,
		metrics:      metrics,
		log:          log,
	}
}

// Event outcome labels reported to PipelineMetrics.
const (
	OutcomeProcessed  = "processed"
	OutcomeIgnored    = "ignored"
	OutcomeFailed     = "failed"
	OutcomeInProgress = "in_progress"
)

// Handle reconciles one gateway event. Ignored events and captured
// failures come back as an outcome; aborting failures come back as a
// retryable *apperror.AppError wrapping the *domain.PipelineError. A
// delivery that finds the event claimed gets a retryable conflict, except
// on capture gateways, which get an in-progress outcome.
func (s *ReconciliationService) Handle(ctx context.Context, env domain.Envelope) (*domain.Outcome, error) {
	start := time.Now()
	out, err := s.handle(ctx, env)

	s.metrics.ObserveEvent(env.Gateway, outcomeLabel(out, err), time.Since(start))
	if out != nil && !out.Success && len(out.Results) > 0 {
		if last := out.Results[len(out.Results)-1]; !last.Success {
			s.metrics.ObserveStepFailure(env.Gateway, last.Step)
		}
	}
	return out, err
}

func outcomeLabel(out *domain.Outcome, err error) string {
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr) && appErr.HTTPStatus == http.StatusConflict:
		return OutcomeInProgress
	case err == nil && out != nil && out.InProgress:
		return OutcomeInProgress
	case err != nil:
		return OutcomeFailed
	case out != nil && out.Ignored:
		return OutcomeIgnored
	case out != nil && out.Success:
		return OutcomeProcessed
	default:
		return OutcomeFailed
	}
}

func (s *ReconciliationService) handle(ctx context.Context, env domain.Envelope) (*domain.Outcome, error) {
	log := logger.ForEvent(s.log, string(env.Gateway), env.EventID)

	prior, found := s.ledger.Lookup(ctx, env.EventID)
	if found && prior.IsSettled() {
		log.Info().Str("status", string(prior)).Msg("event already handled, ignoring redelivery")
		return ignoredOutcome(), nil
	}

	if !s.ledger.Claim(ctx, env.EventID) {
		log.Warn().Msg("event is being processed by another delivery")
		inProgress := apperror.ErrEventInProgress(env.EventID)
		if env.Gateway.FailurePolicy() == domain.FailureCapture {
			return &domain.Outcome{InProgress: true, Error: inProgress.Message, Results: domain.Trail{}}, nil
		}
		return nil, inProgress
	}
	defer s.ledger.Release(ctx, env.EventID)

	event := &domain.WebhookEvent{
		EventID:   env.EventID,
		Gateway:   env.Gateway,
		EventType: env.EventType,
		Test:      env.Test,
	}
	if domain.CanTransition(prior, domain.EventStatusReceived) {
		s.write(ctx, event, domain.EventStatusReceived, "", domain.EventLinks{}, env.Raw)
	} else {
		log.Info().Str("status", string(prior)).Msg("retrying previously failed event")
	}

	normalizer, ok := s.normalizers[env.Gateway]
	if !ok {
		err := fmt.Errorf("no normalizer for gateway %q", env.Gateway)
		s.write(ctx, event, domain.EventStatusFailed, err.Error(), domain.EventLinks{}, nil)
		return nil, apperror.InternalError(err)
	}

	donation, err := normalizer.Normalize(ctx, env)
	if errors.Is(err, domain.ErrIgnored) {
		log.Info().Str("reason", err.Error()).Msg("event ignored")
		s.write(ctx, event, domain.EventStatusIgnored, err.Error(), domain.EventLinks{}, nil)
		return ignoredOutcome(), nil
	}
	if err != nil {
		return s.normalizeFailed(ctx, log, event, err)
	}

	s.write(ctx, event, domain.EventStatusProcessing, "", donation.Links(), nil)

	out, err := s.orchestrator.Run(ctx, donation)
	if err != nil {
		notes := err.Error()
		links := donation.Links()
		if out != nil {
			notes = fmt.Sprintf("%s; trail: %s", notes, out.Results.String())
			links = links.Coalesce(out.Links())
		}
		s.write(ctx, event, domain.EventStatusFailed, notes, links, nil)

		if env.Gateway.FailurePolicy() == domain.FailureCapture {
			return out, nil
		}
		return out, apperror.ErrSyncFailed(err)
	}

	s.write(ctx, event, domain.EventStatusProcessed, out.Results.String(), donation.Links().Coalesce(out.Links()), nil)
	return out, nil
}

func (s *ReconciliationService) normalizeFailed(ctx context.Context, log zerolog.Logger, event *domain.WebhookEvent, err error) (*domain.Outcome, error) {
	log.Error().Err(err).Msg("event normalisation failed")
	s.write(ctx, event, domain.EventStatusFailed, err.Error(), domain.EventLinks{}, nil)

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return nil, appErr
	}
	if event.Gateway.FailurePolicy() == domain.FailureCapture {
		return &domain.Outcome{Error: err.Error()}, nil
	}
	return nil, apperror.ErrSyncFailed(err)
}

func (s *ReconciliationService) write(ctx context.Context, base *domain.WebhookEvent, status domain.EventStatus, notes string, links domain.EventLinks, payload []byte) {
	row := *base
	row.Status = status
	row.Notes = notes
	row.Links = links
	row.Payload = payload
	s.ledger.Upsert(ctx, &row)
}

func ignoredOutcome() *domain.Outcome {
	return &domain.Outcome{Success: true, Ignored: true}
}

type nopMetrics struct{}

func (nopMetrics) ObserveEvent(domain.Gateway, string, time.Duration) {}

func (nopMetrics) ObserveStepFailure(domain.Gateway, domain.StepName) {}
