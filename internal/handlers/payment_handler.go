package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"mm-tickets/internal/services"
)

// paystackSignatureHeader carries the HMAC-SHA512 of the webhook body.
const paystackSignatureHeader = "X-Paystack-Signature"

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// VerifyPayment - Reconcile a charge by its gateway reference
func (h *PaymentHandler) VerifyPayment(e *core.RequestEvent) error {
	reference := strings.TrimSpace(e.Request.URL.Query().Get("reference"))
	if reference == "" {
		return fail(e, http.StatusBadRequest, "reference is required")
	}

	result, err := h.paymentService.Reconcile(e.Request.Context(), reference)
	if err != nil {
		return failFor(e, err)
	}

	return ok(e, map[string]any{
		"ticket_code":    result.TicketCode,
		"payment_status": result.PaymentStatus,
		"email_sent":     result.Notified,
	})
}

// PaystackWebhook - Authenticated gateway callback
func (h *PaymentHandler) PaystackWebhook(e *core.RequestEvent) error {
	body, err := io.ReadAll(e.Request.Body)
	if err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	signature := e.Request.Header.Get(paystackSignatureHeader)
	result, err := h.paymentService.HandleWebhook(e.Request.Context(), body, signature)
	if err != nil {
		return failFor(e, err)
	}

	// events we don't act on are still acknowledged
	if result == nil {
		return ok(e, map[string]any{"processed": false})
	}

	return ok(e, map[string]any{
		"processed":      true,
		"ticket_code":    result.TicketCode,
		"payment_status": result.PaymentStatus,
	})
}
