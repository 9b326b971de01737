package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mm-tickets/internal/status"
	"mm-tickets/models"
)

func pendingTicket(code, reference string) *models.Ticket {
	return &models.Ticket{
		Code:          code,
		Email:         "kofi@example.com",
		Reference:     reference,
		PaymentStatus: models.PaymentPending,
	}
}

func TestReconcile_MarksPaidAndNotifies(t *testing.T) {
	store := newFakeStore()
	store.tickets["MM-ABC123"] = pendingTicket("MM-ABC123", "ref_1")
	notifier := &fakeNotifier{}
	svc := NewPaymentService(store, &fakeGateway{verifyOK: true}, notifier)

	result, err := svc.Reconcile(context.Background(), "ref_1")

	require.NoError(t, err)
	assert.Equal(t, "MM-ABC123", result.TicketCode)
	assert.Equal(t, models.PaymentPaid, result.PaymentStatus)
	assert.True(t, result.Notified)

	stored, err := store.TicketByCode(context.Background(), "MM-ABC123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)

	require.Len(t, notifier.confirmations, 1)
	assert.Equal(t, "MM-ABC123", notifier.confirmations[0].Code)
}

func TestReconcile_SecondCallDoesNotRenotify(t *testing.T) {
	store := newFakeStore()
	store.tickets["MM-ABC123"] = pendingTicket("MM-ABC123", "ref_1")
	notifier := &fakeNotifier{}
	svc := NewPaymentService(store, &fakeGateway{verifyOK: true}, notifier)
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, "ref_1")
	require.NoError(t, err)
	assert.True(t, first.Notified)

	second, err := svc.Reconcile(ctx, "ref_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, second.PaymentStatus)
	assert.False(t, second.Notified, "repeat reconciliation must not resend the email")

	assert.Len(t, notifier.confirmations, 1)
}

func TestReconcile_VerificationFailed(t *testing.T) {
	store := newFakeStore()
	store.tickets["MM-ABC123"] = pendingTicket("MM-ABC123", "ref_1")
	svc := NewPaymentService(store, &fakeGateway{verifyOK: false}, &fakeNotifier{})

	_, err := svc.Reconcile(context.Background(), "ref_1")

	assert.ErrorIs(t, err, status.ErrVerificationFailed)

	stored, _ := store.TicketByCode(context.Background(), "MM-ABC123")
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus, "a failed verification must not mark the ticket paid")
}

func TestReconcile_GatewayError(t *testing.T) {
	store := newFakeStore()
	store.tickets["MM-ABC123"] = pendingTicket("MM-ABC123", "ref_1")
	svc := NewPaymentService(store, &fakeGateway{verifyErr: errors.New("timeout")}, &fakeNotifier{})

	_, err := svc.Reconcile(context.Background(), "ref_1")

	assert.ErrorIs(t, err, status.ErrGatewayUnavailable)
}

func TestReconcile_UnknownReference(t *testing.T) {
	svc := NewPaymentService(newFakeStore(), &fakeGateway{verifyOK: true}, &fakeNotifier{})

	_, err := svc.Reconcile(context.Background(), "ref_unknown")

	assert.ErrorIs(t, err, status.ErrTicketNotFound)
}

func TestReconcile_NotifierFailureDoesNotFailReconciliation(t *testing.T) {
	store := newFakeStore()
	store.tickets["MM-ABC123"] = pendingTicket("MM-ABC123", "ref_1")
	notifier := &fakeNotifier{err: errors.New("resend 500")}
	svc := NewPaymentService(store, &fakeGateway{verifyOK: true}, notifier)

	result, err := svc.Reconcile(context.Background(), "ref_1")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, result.PaymentStatus)
	assert.False(t, result.Notified)

	stored, _ := store.TicketByCode(context.Background(), "MM-ABC123")
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
}

func TestReconcile_ConcurrentCallsSingleNotification(t *testing.T) {
	store := newFakeStore()
	store.tickets["MM-ABC123"] = pendingTicket("MM-ABC123", "ref_1")
	notifier := &fakeNotifier{}
	svc := NewPaymentService(store, &fakeGateway{verifyOK: true}, notifier)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Reconcile(context.Background(), "ref_1")
		}()
	}
	wg.Wait()

	assert.Len(t, notifier.confirmations, 1, "the paid transition must happen exactly once")
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	svc := NewPaymentService(newFakeStore(), &fakeGateway{signatureOK: false}, &fakeNotifier{})

	_, err := svc.HandleWebhook(context.Background(), []byte(`{"event":"charge.success"}`), "bogus")

	assert.ErrorIs(t, err, status.ErrBadWebhookSignature)
}

func TestHandleWebhook_ChargeSuccessReconciles(t *testing.T) {
	store := newFakeStore()
	store.tickets["MM-ABC123"] = pendingTicket("MM-ABC123", "ref_1")
	svc := NewPaymentService(store, &fakeGateway{verifyOK: true, signatureOK: true}, &fakeNotifier{})

	body := []byte(`{"event":"charge.success","data":{"reference":"ref_1"}}`)
	result, err := svc.HandleWebhook(context.Background(), body, "valid")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, models.PaymentPaid, result.PaymentStatus)
}

func TestHandleWebhook_IgnoresOtherEvents(t *testing.T) {
	gw := &fakeGateway{signatureOK: true}
	svc := NewPaymentService(newFakeStore(), gw, &fakeNotifier{})

	body := []byte(`{"event":"transfer.success","data":{"reference":"ref_1"}}`)
	result, err := svc.HandleWebhook(context.Background(), body, "valid")

	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 0, gw.verifyCalls)
}
