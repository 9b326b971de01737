package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"mm-tickets/internal/services"
	"mm-tickets/models"
	"mm-tickets/security"
)

type PromoHandler struct {
	promoService *services.PromoService
	guard        *security.AdminGuard
}

func NewPromoHandler(promoService *services.PromoService, guard *security.AdminGuard) *PromoHandler {
	return &PromoHandler{
		promoService: promoService,
		guard:        guard,
	}
}

// ValidatePromo - Price preview for a promo code before checkout
func (h *PromoHandler) ValidatePromo(e *core.RequestEvent) error {
	var req struct {
		Code       string `json:"code"`
		TicketType string `json:"ticket_type"`
		Quantity   int    `json:"quantity"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	unitPrice, okType := models.UnitPriceFor(strings.ToLower(strings.TrimSpace(req.TicketType)))
	if !okType {
		return fail(e, http.StatusBadRequest, "invalid ticket type")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	total := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))

	quote, err := h.promoService.Validate(e.Request.Context(), total, req.Code, time.Now())
	if err != nil {
		return failFor(e, err)
	}

	return ok(e, map[string]any{
		"code":            quote.Code,
		"discount_type":   quote.DiscountType,
		"discount_value":  quote.DiscountValue,
		"discount_amount": quote.DiscountAmount,
		"total_price":     total,
		"final_price":     quote.FinalPrice,
	})
}

// CreatePromo - Admin creation of a promo code
func (h *PromoHandler) CreatePromo(e *core.RequestEvent) error {
	if err := requireAdmin(e, h.guard); err != nil {
		return err
	}

	var req services.CreatePromoRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	promo, err := h.promoService.Create(e.Request.Context(), req)
	if err != nil {
		return failFor(e, err)
	}

	return ok(e, map[string]any{"promo": promo})
}

// ListPromos - Admin listing of promo codes with usage counts
func (h *PromoHandler) ListPromos(e *core.RequestEvent) error {
	if err := requireAdmin(e, h.guard); err != nil {
		return err
	}

	promos, err := h.promoService.List(e.Request.Context())
	if err != nil {
		return failFor(e, err)
	}

	return ok(e, map[string]any{"promos": promos, "count": len(promos)})
}

// DeactivatePromo - Stop a promo code from being applied
func (h *PromoHandler) DeactivatePromo(e *core.RequestEvent) error {
	if err := requireAdmin(e, h.guard); err != nil {
		return err
	}

	code := strings.TrimSpace(e.Request.PathValue("code"))
	if err := h.promoService.Deactivate(e.Request.Context(), code); err != nil {
		return failFor(e, err)
	}

	return ok(e, map[string]any{"code": code, "is_active": false})
}
