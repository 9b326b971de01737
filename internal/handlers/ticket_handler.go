package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"mm-tickets/internal/services"
	"mm-tickets/security"
)

type TicketHandler struct {
	ticketService *services.TicketService
	limiter       *security.RateLimiter
	guard         *security.AdminGuard
}

func NewTicketHandler(ticketService *services.TicketService, limiter *security.RateLimiter, guard *security.AdminGuard) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		limiter:       limiter,
		guard:         guard,
	}
}

// CreateTicket - Buy a ticket and get a gateway checkout URL
func (h *TicketHandler) CreateTicket(e *core.RequestEvent) error {
	ctx := e.Request.Context()

	if !h.limiter.Allow(ctx, "tickets", clientIP(e)) {
		return apis.NewApiError(http.StatusTooManyRequests, "Too many requests", nil)
	}

	var req services.CreateTicketRequest
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

	res, err := h.ticketService.CreateTicket(ctx, req)
	if err != nil {
		return failFor(e, err)
	}

	return ok(e, map[string]any{
		"ticket":       res.Ticket,
		"checkout_url": res.CheckoutURL,
		"reference":    res.Reference,
		"waitlisted":   res.Waitlisted,
	})
}

// GetTicket - Look a ticket up by its code
func (h *TicketHandler) GetTicket(e *core.RequestEvent) error {
	code := strings.ToUpper(strings.TrimSpace(e.Request.PathValue("code")))
	if code == "" {
		return fail(e, http.StatusBadRequest, "ticket code is required")
	}

	ticket, err := h.ticketService.GetTicket(e.Request.Context(), code)
	if err != nil {
		return failFor(e, err)
	}

	return ok(e, map[string]any{"ticket": ticket})
}

// CheckIn - Mark a paid ticket as used at the door
func (h *TicketHandler) CheckIn(e *core.RequestEvent) error {
	if err := requireAdmin(e, h.guard); err != nil {
		return err
	}

	code := strings.ToUpper(strings.TrimSpace(e.Request.PathValue("code")))

	var req struct {
		CheckedInBy string `json:"checked_in_by"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	ticket, err := h.ticketService.CheckIn(e.Request.Context(), code, req.CheckedInBy)
	if err != nil {
		return failFor(e, err)
	}

	return ok(e, map[string]any{"ticket": ticket})
}

// ListTickets - Admin listing of all tickets
func (h *TicketHandler) ListTickets(e *core.RequestEvent) error {
	if err := requireAdmin(e, h.guard); err != nil {
		return err
	}

	tickets, err := h.ticketService.List(e.Request.Context())
	if err != nil {
		return failFor(e, err)
	}

	return ok(e, map[string]any{"tickets": tickets, "count": len(tickets)})
}
