package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"mm-tickets/internal/services"
	"mm-tickets/security"
)

type ManualPaymentHandler struct {
	manualService *services.ManualService
	limiter       *security.RateLimiter
	guard         *security.AdminGuard
}

func NewManualPaymentHandler(manualService *services.ManualService, limiter *security.RateLimiter, guard *security.AdminGuard) *ManualPaymentHandler {
	return &ManualPaymentHandler{
		manualService: manualService,
		limiter:       limiter,
		guard:         guard,
	}
}

// Submit - Record a mobile-money payment claim for admin review
func (h *ManualPaymentHandler) Submit(e *core.RequestEvent) error {
	ctx := e.Request.Context()

	if !h.limiter.Allow(ctx, "manual", clientIP(e)) {
		return apis.NewApiError(http.StatusTooManyRequests, "Too many requests", nil)
	}

	var req services.SubmitManualRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !validEmail(req.Email) {
		return fail(e, http.StatusBadRequest, "invalid email address")
	}
	if strings.TrimSpace(req.Name) == "" {
		return fail(e, http.StatusBadRequest, "name is required")
	}
	if req.Phone != "" && !validPhone(req.Phone) {
		return fail(e, http.StatusBadRequest, "invalid phone number")
	}
	if !validPhone(req.MomoNumber) {
		return fail(e, http.StatusBadRequest, "invalid momo number")
	}

	mp, err := h.manualService.Submit(ctx, req)
	if err != nil {
		return failFor(e, err)
	}

	return ok(e, map[string]any{
		"reference_code": mp.ReferenceCode,
		"final_price":    mp.FinalPrice,
		"payment_status": mp.PaymentStatus,
	})
}

// Confirm - Mint a paid ticket from a reviewed manual payment
func (h *ManualPaymentHandler) Confirm(e *core.RequestEvent) error {
	if err := requireAdmin(e, h.guard); err != nil {
		return err
	}

	ref := strings.ToUpper(strings.TrimSpace(e.Request.PathValue("ref")))

	var req struct {
		ConfirmedBy string `json:"confirmed_by"`
		Notes       string `json:"notes"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	ticket, err := h.manualService.Confirm(e.Request.Context(), ref, req.ConfirmedBy, req.Notes)
	if err != nil {
		return failFor(e, err)
	}

	return ok(e, map[string]any{"ticket": ticket})
}

// Reject - Terminally reject a manual payment claim
func (h *ManualPaymentHandler) Reject(e *core.RequestEvent) error {
	if err := requireAdmin(e, h.guard); err != nil {
		return err
	}

	ref := strings.ToUpper(strings.TrimSpace(e.Request.PathValue("ref")))

	var req struct {
		RejectedBy string `json:"rejected_by"`
		Notes      string `json:"notes"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	if err := h.manualService.Reject(e.Request.Context(), ref, req.RejectedBy, req.Notes); err != nil {
		return failFor(e, err)
	}

	return ok(e, map[string]any{"reference_code": ref, "payment_status": "rejected"})
}

// ListPending - Manual payments awaiting review, oldest first
func (h *ManualPaymentHandler) ListPending(e *core.RequestEvent) error {
	if err := requireAdmin(e, h.guard); err != nil {
		return err
	}

	payments, err := h.manualService.Pending(e.Request.Context())
	if err != nil {
		return failFor(e, err)
	}

	return ok(e, map[string]any{"manual_payments": payments, "count": len(payments)})
}
