package handler

import (
	"errors"

	"donor-reconciler/internal/adapter/http/dto"
	"donor-reconciler/internal/adapter/http/middleware"
	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"
	"donor-reconciler/pkg/apperror"
	"donor-reconciler/pkg/logger"
	"donor-reconciler/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
)

// WebhookHandler turns gateway deliveries into envelopes for reconciliation.
type WebhookHandler struct {
	svc               ports.ReconciliationService
	goCardlessSandbox bool
	log               zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler. GoCardless events carry no
// live/test flag of their own, so it comes from configuration.
func NewWebhookHandler(svc ports.ReconciliationService, goCardlessSandbox bool, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, goCardlessSandbox: goCardlessSandbox, log: log}
}

// Stripe handles POST /webhooks/stripe.
func (h *WebhookHandler) Stripe(c *gin.Context) {
	raw, err := rawBody(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var evt dto.StripeEvent
	if err := binding.JSON.BindBody(raw, &evt); err != nil {
		response.Error(c, apperror.ErrInvalidPayload(err))
		return
	}

	out, err := h.svc.Handle(c.Request.Context(), domain.Envelope{
		Gateway:   domain.GatewayStripe,
		EventID:   evt.ID,
		EventType: evt.Type,
		Test:      !evt.Livemode,
		Raw:       raw,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}

// PayPal handles POST /webhooks/paypal. Failures after normalisation come
// back as a 200 with success=false; the relay does not retry captures.
func (h *WebhookHandler) PayPal(c *gin.Context) {
	raw, err := rawBody(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var relay dto.PayPalRelay
	if err := binding.JSON.BindBody(raw, &relay); err != nil {
		response.Error(c, apperror.ErrInvalidPayload(err))
		return
	}

	out, err := h.svc.Handle(c.Request.Context(), domain.Envelope{
		Gateway:   domain.GatewayPayPal,
		EventID:   relay.ID,
		EventType: relay.EventType,
		Test:      relay.Sandbox,
		Raw:       raw,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}

// GoCardless handles POST /webhooks/gocardless. Entries run one after the
// other. An entry that can never succeed is reported and skipped; any
// retryable failure turns the whole delivery into an error so GoCardless
// sends the batch again, and entries already settled short-circuit then.
func (h *WebhookHandler) GoCardless(c *gin.Context) {
	raw, err := rawBody(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var batch dto.GoCardlessBatch
	if err := binding.JSON.BindBody(raw, &batch); err != nil {
		response.Error(c, apperror.ErrInvalidPayload(err))
		return
	}

	results := make([]dto.BatchResult, 0, len(batch.Events))
	var retryErr error
	for _, entry := range batch.Events {
		var evt dto.GoCardlessEvent
		if err := binding.JSON.BindBody(entry, &evt); err != nil {
			results = append(results, dto.BatchResult{Error: "invalid event: " + err.Error()})
			continue
		}

		out, err := h.svc.Handle(c.Request.Context(), domain.Envelope{
			Gateway:   domain.GatewayGoCardless,
			EventID:   evt.ID,
			EventType: evt.ResourceType + "." + evt.Action,
			Test:      h.goCardlessSandbox,
			Raw:       entry,
		})
		result := dto.BatchResult{EventID: evt.ID, Outcome: out}
		if err != nil {
			result.Error = err.Error()
			if isRetryable(err) && retryErr == nil {
				retryErr = err
			}
			entryLog := logger.ForEvent(h.log, string(domain.GatewayGoCardless), evt.ID)
			entryLog.Warn().Err(err).Msg("gocardless batch entry failed")
		}
		results = append(results, result)
	}

	if retryErr != nil {
		response.Error(c, retryErr)
		return
	}
	response.OK(c, dto.BatchResponse{Results: results})
}

func rawBody(c *gin.Context) ([]byte, error) {
	if raw, ok := middleware.RawBody(c); ok {
		return raw, nil
	}
	raw, err := c.GetRawData()
	if err != nil {
		return nil, apperror.Validation("cannot read request body")
	}
	return raw, nil
}

func isRetryable(err error) bool {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable()
	}
	return true
}
