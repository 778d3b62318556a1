package handler

import (
	"donor-reconciler/internal/adapter/http/dto"
	"donor-reconciler/internal/core/ports"
	"donor-reconciler/pkg/apperror"
	"donor-reconciler/pkg/response"

	"github.com/gin-gonic/gin"
)

// EventHandler serves the operator view of the ledger.
type EventHandler struct {
	svc ports.EventQueryService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(svc ports.EventQueryService) *EventHandler {
	return &EventHandler{svc: svc}
}

// Get handles GET /api/v1/events/:event_id.
func (h *EventHandler) Get(c *gin.Context) {
	eventID := c.Param("event_id")
	if !dto.IsSafeID(eventID) {
		response.Error(c, apperror.Validation("invalid event id"))
		return
	}

	event, err := h.svc.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewEventResponse(event))
}
