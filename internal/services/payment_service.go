package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"mm-tickets/internal/notify"
	"mm-tickets/internal/services/gateway"
	"mm-tickets/internal/status"
	"mm-tickets/models"
	"mm-tickets/monitoring"
	"mm-tickets/utils"
)

// ReconcileStore is the persistence surface reconciliation needs.
type ReconcileStore interface {
	TicketByReference(ctx context.Context, reference string) (*models.Ticket, error)
	MarkPaid(ctx context.Context, reference string) (bool, error)
}

// PaymentService reconciles gateway charges against tickets. The
// gateway is always the source of truth: a ticket is never marked paid
// on the strength of a webhook or callback alone.
type PaymentService struct {
	store    ReconcileStore
	gw       gateway.Gateway
	breaker  *utils.CircuitBreaker
	notifier notify.Notifier
}

func NewPaymentService(store ReconcileStore, gw gateway.Gateway, notifier notify.Notifier) *PaymentService {
	return &PaymentService{
		store:    store,
		gw:       gw,
		breaker:  utils.NewCircuitBreaker(string(gw.GetProvider()) + "-verify"),
		notifier: notifier,
	}
}

// ReconcileResult reports what reconciliation did for a reference.
type ReconcileResult struct {
	TicketCode    string `json:"ticket_code"`
	PaymentStatus string `json:"payment_status"`
	Notified      bool   `json:"email_sent"`
}

// Reconcile verifies a charge with the gateway and, on success, flips
// the matching ticket from pending to paid. It is safe to call any
// number of times for the same reference: only the call that wins the
// transition sends the confirmation email.
func (s *PaymentService) Reconcile(ctx context.Context, reference string) (*ReconcileResult, error) {
	res, err := s.breaker.Execute(ctx, func() (any, error) {
		ok, err := s.gw.Verify(ctx, reference)
		return ok, err
	})
	if err != nil {
		slog.Error("gateway verify failed", "reference", reference, "error", err)
		return nil, fmt.Errorf("%w: %v", status.ErrGatewayUnavailable, err)
	}
	if !res.(bool) {
		monitoring.TrackReconciliation(monitoring.OutcomeVerificationFailed)
		return nil, status.ErrVerificationFailed
	}

	ticket, err := s.store.TicketByReference(ctx, reference)
	if err != nil {
		monitoring.TrackReconciliation(monitoring.OutcomeNotFound)
		return nil, err
	}

	if ticket.PaymentStatus == models.PaymentPaid {
		monitoring.TrackReconciliation(monitoring.OutcomeAlreadyPaid)
		return &ReconcileResult{TicketCode: ticket.Code, PaymentStatus: models.PaymentPaid, Notified: false}, nil
	}

	changed, err := s.store.MarkPaid(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("mark paid %s: %w", reference, err)
	}
	if !changed {
		// a concurrent reconcile won the transition
		monitoring.TrackReconciliation(monitoring.OutcomeAlreadyPaid)
		return &ReconcileResult{TicketCode: ticket.Code, PaymentStatus: models.PaymentPaid, Notified: false}, nil
	}

	monitoring.TrackReconciliation(monitoring.OutcomePaid)
	ticket.PaymentStatus = models.PaymentPaid

	notified := true
	if err := s.notifier.SendTicketConfirmation(ctx, ticket); err != nil {
		slog.Error("ticket confirmation email failed", "ticket", ticket.Code, "email", ticket.Email, "error", err)
		monitoring.TrackNotificationFailure("ticket_confirmation")
		notified = false
	}

	return &ReconcileResult{TicketCode: ticket.Code, PaymentStatus: models.PaymentPaid, Notified: notified}, nil
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// HandleWebhook authenticates a gateway webhook and reconciles the
// referenced charge. Events other than a successful charge are
// acknowledged without action.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) (*ReconcileResult, error) {
	if !s.gw.VerifyWebhookSignature(body, signature) {
		return nil, status.ErrBadWebhookSignature
	}

	var evt webhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}

	if evt.Event != "charge.success" {
		slog.Info("ignoring webhook event", "event", evt.Event)
		return nil, nil
	}

	return s.Reconcile(ctx, evt.Data.Reference)
}
