package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tillpoint/internal/core/apperror"
	"tillpoint/internal/domain/settlement"
)

// maxNotificationBytes bounds the webhook body read.
const maxNotificationBytes = 1 << 20

// WebhookHandler receives the payment gateway's settlement notifications.
type WebhookHandler struct {
	BaseHandler
	settlement *settlement.Service
}

// NewWebhookHandler creates a webhook handler.
func NewWebhookHandler(settlementSvc *settlement.Service) *WebhookHandler {
	return &WebhookHandler{settlement: settlementSvc}
}

// Handle processes POST /webhooks/payment.
// The acknowledgement is the gateway's wire contract: HTTP 200 with a flat
// {ok: true, ...} body for every accepted delivery, including ignored ones,
// so the sender never enters a retry storm. Only signature failures (and
// malformed payloads) are non-200.
func (h *WebhookHandler) Handle(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxNotificationBytes))
	if err != nil {
		h.Error(c, apperror.NewValidation("unreadable request body").WithCause(err))
		return
	}

	result, err := h.settlement.HandleWebhook(c.Request.Context(), raw)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
