package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	redisStorage "donor-reconciler/internal/adapter/storage/redis"
	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"
	"donor-reconciler/internal/core/ports/mocks"
	"donor-reconciler/pkg/apperror"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type reconciliationTestDeps struct {
	ledger       *mocks.MockLedger
	normalizer   *mocks.MockNormalizer
	orchestrator *mocks.MockOrchestrator
	svc          *ReconciliationService
	written      []domain.EventStatus
	rows         []*domain.WebhookEvent
}

func setupReconciliation(t *testing.T, gateway domain.Gateway) *reconciliationTestDeps {
	ctrl := gomock.NewController(t)
	deps := &reconciliationTestDeps{
		ledger:       mocks.NewMockLedger(ctrl),
		normalizer:   mocks.NewMockNormalizer(ctrl),
		orchestrator: mocks.NewMockOrchestrator(ctrl),
	}
	deps.svc = NewReconciliationService(
		deps.ledger,
		map[domain.Gateway]ports.Normalizer{gateway: deps.normalizer},
		deps.orchestrator,
		nil,
		zerolog.Nop(),
	)
	return deps
}

// recordWrites captures every ledger upsert in order.
func (d *reconciliationTestDeps) recordWrites() {
	d.ledger.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, e *domain.WebhookEvent) {
			d.written = append(d.written, e.Status)
			d.rows = append(d.rows, e)
		}).AnyTimes()
}

func (d *reconciliationTestDeps) expectClaim(eventID string) {
	d.ledger.EXPECT().Claim(gomock.Any(), eventID).Return(true)
	d.ledger.EXPECT().Release(gomock.Any(), eventID)
}

func envelope(gateway domain.Gateway) domain.Envelope {
	return domain.Envelope{Gateway: gateway, EventID: "evt_1", EventType: "checkout.session.completed", Raw: []byte(`{"id":"evt_1"}`)}
}

func TestReconciliationService_Handle_Processed(t *testing.T) {
	deps := setupReconciliation(t, domain.GatewayStripe)
	env := envelope(domain.GatewayStripe)
	donation := &domain.Donation{Gateway: domain.GatewayStripe, EventID: "evt_1", GatewayCustomerID: "cus_1"}
	outcome := &domain.Outcome{Success: true, ConstituentID: "c-1", TransactionID: "tx-1"}
	outcome.Results.Ok(domain.StepSelectInstance)

	deps.ledger.EXPECT().Lookup(gomock.Any(), "evt_1").Return(domain.EventStatus(""), false)
	deps.expectClaim("evt_1")
	deps.recordWrites()
	deps.normalizer.EXPECT().Normalize(gomock.Any(), env).Return(donation, nil)
	deps.orchestrator.EXPECT().Run(gomock.Any(), donation).Return(outcome, nil)

	out, err := deps.svc.Handle(context.Background(), env)
	require.NoError(t, err)
	assert.Same(t, outcome, out)

	assert.Equal(t, []domain.EventStatus{
		domain.EventStatusReceived,
		domain.EventStatusProcessing,
		domain.EventStatusProcessed,
	}, deps.written)
	assert.Equal(t, env.Raw, deps.rows[0].Payload)
	assert.Nil(t, deps.rows[2].Payload)

	final := deps.rows[2]
	assert.Equal(t, "select_crm_instance=ok", final.Notes)
	assert.Equal(t, "c-1", final.Links.ConstituentID)
	assert.Equal(t, "tx-1", final.Links.TransactionID)
	assert.Equal(t, "cus_1", final.Links.GatewayCustomerID)
}

func TestReconciliationService_Handle_AlreadySettled(t *testing.T) {
	for _, status := range []domain.EventStatus{domain.EventStatusProcessed, domain.EventStatusIgnored} {
		t.Run(string(status), func(t *testing.T) {
			deps := setupReconciliation(t, domain.GatewayStripe)
			deps.ledger.EXPECT().Lookup(gomock.Any(), "evt_1").Return(status, true)

			out, err := deps.svc.Handle(context.Background(), envelope(domain.GatewayStripe))
			require.NoError(t, err)
			assert.True(t, out.Success)
			assert.True(t, out.Ignored)
		})
	}
}

func TestReconciliationService_Handle_InProgress(t *testing.T) {
	deps := setupReconciliation(t, domain.GatewayStripe)
	deps.ledger.EXPECT().Lookup(gomock.Any(), "evt_1").Return(domain.EventStatusProcessing, true)
	deps.ledger.EXPECT().Claim(gomock.Any(), "evt_1").Return(false)

	_, err := deps.svc.Handle(context.Background(), envelope(domain.GatewayStripe))

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
}

func TestReconciliationService_Handle_InProgressCapture(t *testing.T) {
	deps := setupReconciliation(t, domain.GatewayPayPal)
	deps.ledger.EXPECT().Lookup(gomock.Any(), "evt_1").Return(domain.EventStatusProcessing, true)
	deps.ledger.EXPECT().Claim(gomock.Any(), "evt_1").Return(false)

	out, err := deps.svc.Handle(context.Background(), envelope(domain.GatewayPayPal))
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, out.InProgress)
	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "already being processed")
	assert.Equal(t, OutcomeInProgress, outcomeLabel(out, err))
}

func TestReconciliationService_Handle_RetryFailedSkipsReceived(t *testing.T) {
	deps := setupReconciliation(t, domain.GatewayStripe)
	env := envelope(domain.GatewayStripe)
	donation := &domain.Donation{Gateway: domain.GatewayStripe}

	deps.ledger.EXPECT().Lookup(gomock.Any(), "evt_1").Return(domain.EventStatusFailed, true)
	deps.expectClaim("evt_1")
	deps.recordWrites()
	deps.normalizer.EXPECT().Normalize(gomock.Any(), env).Return(donation, nil)
	deps.orchestrator.EXPECT().Run(gomock.Any(), donation).Return(&domain.Outcome{Success: true}, nil)

	_, err := deps.svc.Handle(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, []domain.EventStatus{domain.EventStatusProcessing, domain.EventStatusProcessed}, deps.written)
}

func TestReconciliationService_Handle_Ignored(t *testing.T) {
	deps := setupReconciliation(t, domain.GatewayStripe)
	env := envelope(domain.GatewayStripe)

	deps.ledger.EXPECT().Lookup(gomock.Any(), "evt_1").Return(domain.EventStatus(""), false)
	deps.expectClaim("evt_1")
	deps.recordWrites()
	deps.normalizer.EXPECT().Normalize(gomock.Any(), env).Return(nil, domain.Ignored("subscription checkout"))

	out, err := deps.svc.Handle(context.Background(), env)
	require.NoError(t, err)
	assert.True(t, out.Ignored)
	assert.Equal(t, []domain.EventStatus{domain.EventStatusReceived, domain.EventStatusIgnored}, deps.written)
	assert.Contains(t, deps.rows[1].Notes, "subscription checkout")
}

func TestReconciliationService_Handle_InvalidPayload(t *testing.T) {
	deps := setupReconciliation(t, domain.GatewayStripe)
	env := envelope(domain.GatewayStripe)

	deps.ledger.EXPECT().Lookup(gomock.Any(), "evt_1").Return(domain.EventStatus(""), false)
	deps.expectClaim("evt_1")
	deps.recordWrites()
	deps.normalizer.EXPECT().Normalize(gomock.Any(), env).Return(nil, apperror.ErrInvalidPayload(errors.New("bad json")))

	_, err := deps.svc.Handle(context.Background(), env)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	assert.Equal(t, domain.EventStatusFailed, deps.written[len(deps.written)-1])
}

func TestReconciliationService_Handle_UpstreamFetchFails(t *testing.T) {
	deps := setupReconciliation(t, domain.GatewayGoCardless)
	env := envelope(domain.GatewayGoCardless)

	deps.ledger.EXPECT().Lookup(gomock.Any(), "evt_1").Return(domain.EventStatus(""), false)
	deps.expectClaim("evt_1")
	deps.recordWrites()
	deps.normalizer.EXPECT().Normalize(gomock.Any(), env).Return(nil, errors.New("gocardless 502"))

	_, err := deps.svc.Handle(context.Background(), env)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPStatus)
}

func TestReconciliationService_Handle_AbortPolicy(t *testing.T) {
	deps := setupReconciliation(t, domain.GatewayStripe)
	env := envelope(domain.GatewayStripe)
	donation := &domain.Donation{Gateway: domain.GatewayStripe, GatewayCustomerID: "cus_1"}

	var trail domain.Trail
	trail.Ok(domain.StepSelectInstance)
	trail.Fail(domain.StepDuplicateCheck, errors.New("crm down"))
	partial := &domain.Outcome{Error: "crm down", Results: trail}
	perr := &domain.PipelineError{Step: domain.StepDuplicateCheck, Results: trail, Err: errors.New("crm down")}

	deps.ledger.EXPECT().Lookup(gomock.Any(), "evt_1").Return(domain.EventStatus(""), false)
	deps.expectClaim("evt_1")
	deps.recordWrites()
	deps.normalizer.EXPECT().Normalize(gomock.Any(), env).Return(donation, nil)
	deps.orchestrator.EXPECT().Run(gomock.Any(), donation).Return(partial, perr)

	out, err := deps.svc.Handle(context.Background(), env)
	require.Error(t, err)
	assert.Same(t, partial, out)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPStatus)

	var got *domain.PipelineError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, domain.StepDuplicateCheck, got.Step)

	final := deps.rows[len(deps.rows)-1]
	assert.Equal(t, domain.EventStatusFailed, final.Status)
	assert.Contains(t, final.Notes, "duplicate_check=error: crm down")
	assert.Equal(t, "cus_1", final.Links.GatewayCustomerID)
}

func TestReconciliationService_Handle_CapturePolicy(t *testing.T) {
	deps := setupReconciliation(t, domain.GatewayPayPal)
	env := envelope(domain.GatewayPayPal)
	donation := &domain.Donation{Gateway: domain.GatewayPayPal}
	partial := &domain.Outcome{Error: "mailer down"}

	deps.ledger.EXPECT().Lookup(gomock.Any(), "evt_1").Return(domain.EventStatus(""), false)
	deps.expectClaim("evt_1")
	deps.recordWrites()
	deps.normalizer.EXPECT().Normalize(gomock.Any(), env).Return(donation, nil)
	deps.orchestrator.EXPECT().Run(gomock.Any(), donation).
		Return(partial, &domain.PipelineError{Step: domain.StepThankYouEmail, Err: errors.New("mailer down")})

	out, err := deps.svc.Handle(context.Background(), env)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, "mailer down", out.Error)
	assert.Equal(t, domain.EventStatusFailed, deps.written[len(deps.written)-1])
}

func TestReconciliationService_Handle_UnknownGateway(t *testing.T) {
	deps := setupReconciliation(t, domain.GatewayStripe)
	env := envelope(domain.GatewayPayPal)

	deps.ledger.EXPECT().Lookup(gomock.Any(), "evt_1").Return(domain.EventStatus(""), false)
	deps.expectClaim("evt_1")
	deps.recordWrites()

	_, err := deps.svc.Handle(context.Background(), env)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
}

func TestReconciliationService_Handle_ReportsMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	normalizer := mocks.NewMockNormalizer(ctrl)
	orchestrator := mocks.NewMockOrchestrator(ctrl)
	metrics := mocks.NewMockPipelineMetrics(ctrl)

	svc := NewReconciliationService(ledger, map[domain.Gateway]ports.Normalizer{domain.GatewayPayPal: normalizer}, orchestrator, metrics, zerolog.Nop())
	env := envelope(domain.GatewayPayPal)
	donation := &domain.Donation{Gateway: domain.GatewayPayPal}

	var trail domain.Trail
	trail.Ok(domain.StepSelectInstance)
	trail.Fail(domain.StepThankYouEmail, errors.New("mailer down"))

	ledger.EXPECT().Lookup(gomock.Any(), "evt_1").Return(domain.EventStatus(""), false)
	ledger.EXPECT().Claim(gomock.Any(), "evt_1").Return(true)
	ledger.EXPECT().Release(gomock.Any(), "evt_1")
	ledger.EXPECT().Upsert(gomock.Any(), gomock.Any()).AnyTimes()
	normalizer.EXPECT().Normalize(gomock.Any(), env).Return(donation, nil)
	orchestrator.EXPECT().Run(gomock.Any(), donation).
		Return(&domain.Outcome{Results: trail}, &domain.PipelineError{Step: domain.StepThankYouEmail, Err: errors.New("mailer down")})

	metrics.EXPECT().ObserveEvent(domain.GatewayPayPal, OutcomeFailed, gomock.Any())
	metrics.EXPECT().ObserveStepFailure(domain.GatewayPayPal, domain.StepThankYouEmail)

	_, err := svc.Handle(context.Background(), env)
	require.NoError(t, err)
}

func TestOutcomeLabel(t *testing.T) {
	assert.Equal(t, OutcomeInProgress, outcomeLabel(nil, apperror.ErrEventInProgress("evt_1")))
	assert.Equal(t, OutcomeFailed, outcomeLabel(nil, errors.New("x")))
	assert.Equal(t, OutcomeIgnored, outcomeLabel(&domain.Outcome{Success: true, Ignored: true}, nil))
	assert.Equal(t, OutcomeProcessed, outcomeLabel(&domain.Outcome{Success: true}, nil))
	assert.Equal(t, OutcomeFailed, outcomeLabel(&domain.Outcome{}, nil))
}

const paypalCapture = `{"id":"WH-7","event_type":"PAYMENT.CAPTURE.COMPLETED",
	"resource":{"id":"CAP-7","amount":{"currency_code":"GBP","value":"12.50"}},
	"payer":{"payer_id":"PAYER7","email_address":"rory@example.com","name":{"given_name":"Rory","surname":"Williams"}},
	"metadata":{"origin":"donation-app","giftAid":"true","emailPreference":"true"}}`

// pipeline wires the real ledger, normaliser and orchestrator over an
// in-memory ledger table, miniredis and a fake CRM.
type pipeline struct {
	svc      *ReconciliationService
	repo     *memEventRepo
	registry *fakeRegistry
	mailer   *recordingMailer
}

func setupPipeline(t *testing.T) *pipeline {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	log := zerolog.Nop()

	p := &pipeline{repo: newMemEventRepo(), registry: newFakeRegistry(), mailer: &recordingMailer{}}
	ledger := NewLedgerService(p.repo, redisStorage.NewEventStatusCache(rdb), redisStorage.NewClaimStore(rdb),
		nil, testClaimTTL, testCacheTTL, log)
	prefs := NewPreferenceService()
	orchestrator := NewOrchestratorService(
		p.registry,
		NewResolverService(log),
		prefs,
		NewTransactionService(redisStorage.NewGiftAidGuard(rdb), time.Hour),
		NewMarketingService(nil, nil, prefs, log),
		NewCampaignHooks(nil, p.mailer, "", log),
		NewThankYouService(p.mailer, testTemplates, nil, log),
		false,
		log,
	)
	p.svc = NewReconciliationService(ledger,
		map[domain.Gateway]ports.Normalizer{domain.GatewayPayPal: NewPayPalNormalizer(testOrigin)},
		orchestrator, nil, log)
	return p
}

func TestReconciliationService_ReplayCreatesOneConstituentAndTransaction(t *testing.T) {
	p := setupPipeline(t)
	ctx := context.Background()
	env := domain.Envelope{
		Gateway:   domain.GatewayPayPal,
		EventID:   "WH-7",
		EventType: "PAYMENT.CAPTURE.COMPLETED",
		Raw:       []byte(paypalCapture),
	}

	first, err := p.svc.Handle(ctx, env)
	require.NoError(t, err)
	require.True(t, first.Success, first.Error)
	assert.False(t, first.Ignored)

	for i := 0; i < 3; i++ {
		again, err := p.svc.Handle(ctx, env)
		require.NoError(t, err)
		assert.True(t, again.Ignored, "redelivery %d must be ignored", i+1)
	}

	crm := p.registry.tenant(domain.InstanceUK)
	assert.Len(t, crm.constituents, 1)
	assert.Len(t, crm.transactions, 1)
	assert.Len(t, crm.declarations[first.ConstituentID], 1)
	assert.Len(t, p.mailer.sent, 1)

	row := p.repo.rows["WH-7"]
	assert.Equal(t, domain.EventStatusProcessed, row.Status)
	assert.Equal(t, first.ConstituentID, row.Links.ConstituentID)
	assert.Equal(t, first.TransactionID, row.Links.TransactionID)
	assert.NotContains(t, string(row.Payload), "giftAid")
}

func TestReconciliationService_ReplayAfterFailureCompletes(t *testing.T) {
	p := setupPipeline(t)
	ctx := context.Background()
	env := domain.Envelope{Gateway: domain.GatewayPayPal, EventID: "WH-7", Raw: []byte(paypalCapture)}

	crm := p.registry.tenant(domain.InstanceUK)
	crm.failOn["CreateTransaction"] = errors.New("crm unavailable")

	out, err := p.svc.Handle(ctx, env)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, domain.EventStatusFailed, p.repo.rows["WH-7"].Status)

	delete(crm.failOn, "CreateTransaction")
	out, err = p.svc.Handle(ctx, env)
	require.NoError(t, err)
	assert.True(t, out.Success, out.Error)

	assert.Len(t, crm.transactions, 1)
	assert.Equal(t, domain.EventStatusProcessed, p.repo.rows["WH-7"].Status)

	out, err = p.svc.Handle(ctx, env)
	require.NoError(t, err)
	assert.True(t, out.Ignored)
	assert.Len(t, crm.transactions, 1)
}
