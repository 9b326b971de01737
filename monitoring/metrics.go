package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	codeGenRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "code_generator_retries_total",
			Help: "Collision retries per code uniqueness domain",
		},
		[]string{"domain"},
	)

	ticketsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_created_total",
			Help: "Tickets created, by ticket type",
		},
		[]string{"ticket_type"},
	)

	reconciliations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_reconciliations_total",
			Help: "Payment reconciliation attempts, by outcome",
		},
		[]string{"outcome"},
	)

	promoApplications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_applications_total",
			Help: "Promo code applications, by result",
		},
		[]string{"result"},
	)

	manualPayments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "manual_payments_total",
			Help: "Manual payment workflow actions",
		},
		[]string{"action"},
	)

	notificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Failed notification deliveries, by kind",
		},
		[]string{"kind"},
	)
)

// Reconciliation outcomes.
const (
	OutcomePaid               = "paid"
	OutcomeAlreadyPaid        = "already_paid"
	OutcomeVerificationFailed = "verification_failed"
	OutcomeNotFound           = "not_found"
)

func TrackCodeRetry(domain string) {
	codeGenRetries.WithLabelValues(domain).Inc()
}

func TrackTicketCreated(ticketType string) {
	ticketsCreated.WithLabelValues(ticketType).Inc()
}

func TrackReconciliation(outcome string) {
	reconciliations.WithLabelValues(outcome).Inc()
}

func TrackPromoApplication(result string) {
	promoApplications.WithLabelValues(result).Inc()
}

func TrackManualPayment(action string) {
	manualPayments.WithLabelValues(action).Inc()
}

func TrackNotificationFailure(kind string) {
	notificationFailures.WithLabelValues(kind).Inc()
}
