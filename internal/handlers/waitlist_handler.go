package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"mm-tickets/internal/services"
	"mm-tickets/security"
)

type WaitlistHandler struct {
	waitlistService *services.WaitlistService
	limiter         *security.RateLimiter
	guard           *security.AdminGuard
}

func NewWaitlistHandler(waitlistService *services.WaitlistService, limiter *security.RateLimiter, guard *security.AdminGuard) *WaitlistHandler {
	return &WaitlistHandler{
		waitlistService: waitlistService,
		limiter:         limiter,
		guard:           guard,
	}
}

// Join - Sign an email up for the waitlist
func (h *WaitlistHandler) Join(e *core.RequestEvent) error {
	ctx := e.Request.Context()

	if !h.limiter.Allow(ctx, "waitlist", clientIP(e)) {
		return apis.NewApiError(http.StatusTooManyRequests, "Too many requests", nil)
	}

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Referral string `json:"referral"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !validEmail(req.Email) {
		return fail(e, http.StatusBadRequest, "invalid email address")
	}

	entry, err := h.waitlistService.Join(ctx, req.Name, req.Email, req.Phone, req.Referral)
	if err != nil {
		return failFor(e, err)
	}

	return ok(e, map[string]any{"email": entry.Email})
}

// List - Admin listing of waitlist signups
func (h *WaitlistHandler) List(e *core.RequestEvent) error {
	if err := requireAdmin(e, h.guard); err != nil {
		return err
	}

	entries, err := h.waitlistService.All(e.Request.Context())
	if err != nil {
		return failFor(e, err)
	}

	return ok(e, map[string]any{"waitlist": entries, "count": len(entries)})
}
