package notify

import (
	"context"

	"mm-tickets/models"
)

// EventInfo is the event metadata stamped into outgoing messages.
type EventInfo struct {
	Title string
	Date  string
	Venue string
}

// Notifier delivers transactional messages. Both operations are
// best-effort from the caller's perspective: a delivery failure is
// logged and reported, never treated as a reason to roll back a payment
// transition.
type Notifier interface {
	// SendTicketConfirmation emails the buyer their ticket code after a
	// successful payment.
	SendTicketConfirmation(ctx context.Context, t *models.Ticket) error

	// SendManualPaymentAlert tells the admin team a manual payment
	// submission is waiting for review.
	SendManualPaymentAlert(ctx context.Context, mp *models.ManualPayment) error
}
