package status

import "errors"

// Validation failures. Rejected before any store access.
var (
	ErrInvalidTicketType = errors.New("ticket: invalid ticket type")
	ErrInvalidQuantity   = errors.New("ticket: quantity must be at least 1")
	ErrInvalidPromoValue = errors.New("promo: discount value out of range")
)

// Not-found outcomes. Surfaced distinctly so callers never confuse a
// missing row with a transient failure.
var (
	ErrTicketNotFound = errors.New("ticket: ticket not found")
	ErrPromoNotFound  = errors.New("promo: promo code not found")
	ErrManualNotFound = errors.New("manual payment: no pending payment for reference code")
)

// Conflicts on unique constraints or on state machines that already
// reached a terminal state.
var (
	ErrDuplicateEmail     = errors.New("waitlist: email already registered")
	ErrPromoCodeExists    = errors.New("promo: promo code already exists")
	ErrCodeTaken          = errors.New("code already taken")
	ErrDuplicateReference = errors.New("ticket: gateway reference already recorded")
	ErrAlreadyProcessed   = errors.New("manual payment: already confirmed or rejected")
	ErrAlreadyCheckedIn   = errors.New("ticket: ticket already checked in")
)

// Domain rejections.
var (
	ErrInvalidPromo   = errors.New("promo: invalid or expired promo code")
	ErrPromoExhausted = errors.New("promo: promo code has reached maximum uses")
	ErrNotPaid        = errors.New("ticket: ticket not paid")
)

// Upstream failures. The store is never mutated when one of these is
// returned.
var (
	ErrVerificationFailed  = errors.New("payment: payment verification failed")
	ErrGatewayUnavailable  = errors.New("payment: payment gateway unavailable")
	ErrBadWebhookSignature = errors.New("payment: webhook signature mismatch")
)
