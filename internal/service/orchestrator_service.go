package service

import (
	"context"
	"strings"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"
	"donor-reconciler/pkg/logger"

	"github.com/rs/zerolog"
)

// ActivityTypeInspiration is the CRM activity type for "what inspired you".
const ActivityTypeInspiration = "Donation Inspiration"

// OrchestratorService implements ports.Orchestrator. It runs the side-effect
// steps for one donation in order and stops at the first failing step.
type OrchestratorService struct {
	registry   ports.CRMRegistry
	resolver   *ResolverService
	prefs      *PreferenceService
	txs        *TransactionService
	marketing  *MarketingService
	hooks      *CampaignHooks
	thankYou   *ThankYouService
	production bool
	log        zerolog.Logger
}

// NewOrchestratorService creates a new OrchestratorService. Marketing list
// sync only runs when production is true.
func NewOrchestratorService(
	registry ports.CRMRegistry,
	resolver *ResolverService,
	prefs *PreferenceService,
	txs *TransactionService,
	marketing *MarketingService,
	hooks *CampaignHooks,
	thankYou *ThankYouService,
	production bool,
	log zerolog.Logger,
) *OrchestratorService {
	return &OrchestratorService{
		registry:   registry,
		resolver:   resolver,
		prefs:      prefs,
		txs:        txs,
		marketing:  marketing,
		hooks:      hooks,
		thankYou:   thankYou,
		production: production,
		log:        log,
	}
}

// run carries the per-event state through the steps.
type run struct {
	out   *domain.Outcome
	trail domain.Trail
	log   zerolog.Logger
}

func (r *run) fail(step domain.StepName, err error) (*domain.Outcome, error) {
	r.trail.Fail(step, err)
	r.out.Success = false
	r.out.Error = err.Error()
	r.out.Results = r.trail
	r.log.Error().Err(err).
		Str("step", string(step)).
		Str("constituent_id", r.out.ConstituentID).
		Str("trail", r.trail.String()).
		Msg("reconciliation step failed")
	return r.out, &domain.PipelineError{
		Step:              step,
		Results:           r.trail,
		ConstituentID:     r.out.ConstituentID,
		GatewayCustomerID: r.out.GatewayCustomerID,
		Err:               err,
	}
}

// Run executes the steps. On failure it returns the partial outcome together
// with a *domain.PipelineError; the caller picks the transport response from
// the gateway's failure policy.
func (s *OrchestratorService) Run(ctx context.Context, d *domain.Donation) (*domain.Outcome, error) {
	r := &run{
		out: &domain.Outcome{
			GatewayCustomerID: d.GatewayCustomerID,
			SubscriptionID:    d.SubscriptionID,
		},
		log: logger.ForEvent(s.log, string(d.Gateway), d.EventID),
	}

	// 1. CRM tenant, chosen once for the whole event.
	instance := domain.SelectInstance(d.Currency, d.Gateway)
	client, err := s.registry.Client(instance)
	if err != nil {
		return r.fail(domain.StepSelectInstance, err)
	}
	r.out.Instance = client.Instance()
	r.trail.Ok(domain.StepSelectInstance)

	// 2. Duplicate check
	match, err := s.resolver.FindDuplicate(ctx, client, d.Email)
	if err != nil {
		return r.fail(domain.StepDuplicateCheck, err)
	}
	r.trail.Ok(domain.StepDuplicateCheck)

	// 3. Constituent
	res, err := s.resolver.Upsert(ctx, client, d, match)
	if err != nil {
		return r.fail(domain.StepUpsertConstituent, err)
	}
	r.out.ConstituentID = res.ConstituentID
	r.out.AlreadyExisted = res.AlreadyExisted
	r.trail.Ok(domain.StepUpsertConstituent)

	// 4. Preferences
	if err := s.prefs.Apply(ctx, client, res.ConstituentID, d); err != nil {
		return r.fail(domain.StepUpdatePreferences, err)
	}
	r.trail.Ok(domain.StepUpdatePreferences)

	// 5. Transaction
	tx, err := s.txs.Record(ctx, client, res.ConstituentID, d)
	if err != nil {
		return r.fail(domain.StepCreateTransaction, err)
	}
	r.out.TransactionID = tx.ID
	r.trail.Ok(domain.StepCreateTransaction)

	// 6. Inspiration
	if d.Inspiration != "" {
		if err := s.recordInspiration(ctx, client, res.ConstituentID, d); err != nil {
			return r.fail(domain.StepInspiration, err)
		}
		r.trail.Ok(domain.StepInspiration)
	}

	// 7. Gift aid
	if GiftAidEligible(d) {
		if _, err := s.txs.DeclareGiftAid(ctx, client, res.ConstituentID, d, tx); err != nil {
			return r.fail(domain.StepGiftAid, err)
		}
		r.trail.Ok(domain.StepGiftAid)
	}

	// 8. Marketing list
	if s.production {
		if err := s.marketing.Sync(ctx, r.out.Instance, d); err != nil {
			return r.fail(domain.StepEmailMarketing, err)
		}
		r.trail.Ok(domain.StepEmailMarketing)
	} else {
		r.log.Debug().Msg("marketing sync skipped outside production")
	}

	// 9. Campaign hook
	ran, err := s.hooks.Run(ctx, client, res.ConstituentID, d)
	if err != nil {
		return r.fail(domain.StepCampaignHook, err)
	}
	if ran {
		r.trail.Ok(domain.StepCampaignHook)
	}

	// 10. Thank-you
	sent, err := s.thankYou.Send(ctx, d)
	if err != nil {
		return r.fail(domain.StepThankYouEmail, err)
	}
	if sent {
		r.trail.Ok(domain.StepThankYouEmail)
	}

	r.out.Success = true
	r.out.Results = r.trail
	r.log.Info().
		Str("constituent_id", r.out.ConstituentID).
		Str("transaction_id", r.out.TransactionID).
		Bool("already_existed", r.out.AlreadyExisted).
		Str("crm_instance", string(r.out.Instance)).
		Msg("donation reconciled")
	return r.out, nil
}

func (s *OrchestratorService) recordInspiration(ctx context.Context, client ports.CRMClient, constituentID string, d *domain.Donation) error {
	tag := domain.Tag("Inspiration", strings.ReplaceAll(d.Inspiration, ",", " "))
	if err := client.AddTags(ctx, constituentID, []string{tag}); err != nil {
		return err
	}

	amount := d.AmountMajor()
	notes := d.Inspiration
	if d.InspirationDetails != "" {
		notes += ": " + d.InspirationDetails
	}
	_, err := client.CreateActivity(ctx, domain.Activity{
		ConstituentID: constituentID,
		ActivityType:  ActivityTypeInspiration,
		Notes:         notes,
		Amount:        &amount,
	})
	return err
}
