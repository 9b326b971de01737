package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"mm-tickets/internal/status"
	"mm-tickets/security"
)

var (
	emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRx = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
)

func validEmail(email string) bool {
	return emailRx.MatchString(strings.TrimSpace(email))
}

func validPhone(phone string) bool {
	return phoneRx.MatchString(strings.TrimSpace(phone))
}

// ok writes the success envelope shared by every endpoint.
func ok(e *core.RequestEvent, payload map[string]any) error {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return e.JSON(http.StatusOK, body)
}

func fail(e *core.RequestEvent, code int, message string) error {
	return e.JSON(code, map[string]any{"success": false, "error": message})
}

// failFor maps domain errors onto HTTP responses so every handler
// reports the same error the same way.
func failFor(e *core.RequestEvent, err error) error {
	switch {
	case errors.Is(err, status.ErrInvalidTicketType),
		errors.Is(err, status.ErrInvalidQuantity),
		errors.Is(err, status.ErrInvalidPromoValue),
		errors.Is(err, status.ErrInvalidPromo),
		errors.Is(err, status.ErrPromoExhausted):
		return fail(e, http.StatusBadRequest, err.Error())
	case errors.Is(err, status.ErrTicketNotFound),
		errors.Is(err, status.ErrManualNotFound),
		errors.Is(err, status.ErrPromoNotFound):
		return fail(e, http.StatusNotFound, err.Error())
	case errors.Is(err, status.ErrAlreadyCheckedIn),
		errors.Is(err, status.ErrAlreadyProcessed),
		errors.Is(err, status.ErrDuplicateEmail),
		errors.Is(err, status.ErrPromoCodeExists):
		return fail(e, http.StatusConflict, err.Error())
	case errors.Is(err, status.ErrNotPaid),
		errors.Is(err, status.ErrVerificationFailed):
		return fail(e, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, status.ErrBadWebhookSignature):
		return fail(e, http.StatusUnauthorized, err.Error())
	case errors.Is(err, status.ErrGatewayUnavailable):
		return fail(e, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("unhandled request error", "path", e.Request.URL.Path, "error", err)
		return fail(e, http.StatusInternalServerError, "internal server error")
	}
}

// adminKeyHeader carries the shared admin key on admin endpoints.
const adminKeyHeader = "X-Admin-Key"

func requireAdmin(e *core.RequestEvent, guard *security.AdminGuard) error {
	if !guard.Check(e.Request.Header.Get(adminKeyHeader)) {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	return nil
}

// clientIP prefers the first X-Forwarded-For hop, matching how the
// service is deployed behind a proxy.
func clientIP(e *core.RequestEvent) string {
	if fwd := e.Request.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return e.Request.RemoteAddr
}
