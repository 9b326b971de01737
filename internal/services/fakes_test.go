package services

import (
	"context"
	"fmt"
	"sync"

	"mm-tickets/internal/notify"
	"mm-tickets/internal/services/gateway"
	"mm-tickets/internal/status"
	"mm-tickets/models"
)

// fakeStore is an in-memory stand-in for the PocketBase store. Its
// conditional transitions are mutex-guarded so concurrency tests
// exercise the same single-winner semantics the SQL store has.
type fakeStore struct {
	mu      sync.Mutex
	tickets map[string]*models.Ticket        // by code
	manuals map[string]*models.ManualPayment // by reference code
	promos  map[string]*models.Promotion     // by code

	// takenCodes forces generator collisions for codes pre-claimed here.
	takenCodes map[string]bool

	// failTicketInsert aborts the next ticket insert, simulating a write
	// failure mid-transaction.
	failTicketInsert error

	ticketInserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tickets:    make(map[string]*models.Ticket),
		manuals:    make(map[string]*models.ManualPayment),
		promos:     make(map[string]*models.Promotion),
		takenCodes: make(map[string]bool),
	}
}

func (f *fakeStore) applyPromoLocked(code string) error {
	p, ok := f.promos[code]
	if !ok || !p.IsActive || (p.MaxUses > 0 && p.UsedCount >= p.MaxUses) {
		return status.ErrPromoExhausted
	}
	p.UsedCount++
	return nil
}

func (f *fakeStore) insertTicketLocked(t *models.Ticket) error {
	if f.failTicketInsert != nil {
		err := f.failTicketInsert
		f.failTicketInsert = nil
		return err
	}
	if _, exists := f.tickets[t.Code]; exists || f.takenCodes[t.Code] {
		return status.ErrCodeTaken
	}
	for _, existing := range f.tickets {
		if existing.Reference == t.Reference {
			return status.ErrDuplicateReference
		}
	}

	cp := *t
	f.tickets[t.Code] = &cp
	f.ticketInserts++
	return nil
}

func (f *fakeStore) InsertTicket(_ context.Context, t *models.Ticket, applyPromo bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if applyPromo {
		if err := f.applyPromoLocked(t.PromoCode); err != nil {
			return err
		}
	}
	if err := f.insertTicketLocked(t); err != nil {
		if applyPromo {
			f.promos[t.PromoCode].UsedCount-- // rollback
		}
		return err
	}
	return nil
}

func (f *fakeStore) MarkPaid(_ context.Context, reference string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.tickets {
		if t.Reference == reference && t.PaymentStatus == models.PaymentPending {
			t.PaymentStatus = models.PaymentPaid
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) TicketByCode(_ context.Context, code string) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tickets[code]
	if !ok {
		return nil, status.ErrTicketNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) TicketByReference(_ context.Context, reference string) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.tickets {
		if t.Reference == reference {
			cp := *t
			return &cp, nil
		}
	}
	return nil, status.ErrTicketNotFound
}

func (f *fakeStore) CheckInTicket(_ context.Context, code, checkedInBy string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tickets[code]
	if !ok || t.PaymentStatus != models.PaymentPaid || t.CheckedIn {
		return false, nil
	}
	t.CheckedIn = true
	t.CheckedInBy = checkedInBy
	return true, nil
}

func (f *fakeStore) TicketCodeExists(_ context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.tickets[code]
	return ok || f.takenCodes[code], nil
}

func (f *fakeStore) AllTickets(_ context.Context) ([]*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tickets := make([]*models.Ticket, 0, len(f.tickets))
	for _, t := range f.tickets {
		cp := *t
		tickets = append(tickets, &cp)
	}
	return tickets, nil
}

func (f *fakeStore) InsertManualPayment(_ context.Context, mp *models.ManualPayment, applyPromo bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if applyPromo {
		if err := f.applyPromoLocked(mp.PromoCode); err != nil {
			return err
		}
	}
	if _, exists := f.manuals[mp.ReferenceCode]; exists {
		if applyPromo {
			f.promos[mp.PromoCode].UsedCount--
		}
		return status.ErrCodeTaken
	}

	cp := *mp
	f.manuals[mp.ReferenceCode] = &cp
	return nil
}

func (f *fakeStore) ConfirmManualPayment(_ context.Context, referenceCode, confirmedBy, notes string, ticket *models.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	mp, ok := f.manuals[referenceCode]
	if !ok || mp.PaymentStatus != models.ManualPending {
		return status.ErrAlreadyProcessed
	}

	// both writes or neither
	prevStatus := mp.PaymentStatus
	mp.PaymentStatus = models.ManualConfirmed
	mp.ConfirmedBy = confirmedBy
	mp.AdminNotes = notes

	if err := f.insertTicketLocked(ticket); err != nil {
		mp.PaymentStatus = prevStatus
		mp.ConfirmedBy = ""
		mp.AdminNotes = ""
		return err
	}
	return nil
}

func (f *fakeStore) RejectManualPayment(_ context.Context, referenceCode, confirmedBy, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	mp, ok := f.manuals[referenceCode]
	if !ok || mp.PaymentStatus != models.ManualPending {
		return status.ErrAlreadyProcessed
	}
	mp.PaymentStatus = models.ManualRejected
	mp.ConfirmedBy = confirmedBy
	mp.AdminNotes = notes
	return nil
}

func (f *fakeStore) ManualByReferenceCode(_ context.Context, referenceCode string) (*models.ManualPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	mp, ok := f.manuals[referenceCode]
	if !ok {
		return nil, status.ErrManualNotFound
	}
	cp := *mp
	return &cp, nil
}

func (f *fakeStore) ManualRefExists(_ context.Context, referenceCode string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.manuals[referenceCode]
	return ok, nil
}

func (f *fakeStore) PendingManualPayments(_ context.Context) ([]*models.ManualPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pending := make([]*models.ManualPayment, 0)
	for _, mp := range f.manuals {
		if mp.PaymentStatus == models.ManualPending {
			cp := *mp
			pending = append(pending, &cp)
		}
	}
	return pending, nil
}

func (f *fakeStore) PromoByCode(_ context.Context, code string) (*models.Promotion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.promos[code]
	if !ok {
		return nil, status.ErrPromoNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) CreatePromo(_ context.Context, p *models.Promotion) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.promos[p.Code]; exists {
		return status.ErrPromoCodeExists
	}
	cp := *p
	f.promos[p.Code] = &cp
	return nil
}

func (f *fakeStore) AllPromos(_ context.Context) ([]*models.Promotion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	promos := make([]*models.Promotion, 0, len(f.promos))
	for _, p := range f.promos {
		cp := *p
		promos = append(promos, &cp)
	}
	return promos, nil
}

func (f *fakeStore) DeactivatePromo(_ context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.promos[code]
	if !ok || !p.IsActive {
		return false, nil
	}
	p.IsActive = false
	return true, nil
}

func (f *fakeStore) promoUsedCount(code string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.promos[code].UsedCount
}

// fakeGateway scripts gateway responses.
type fakeGateway struct {
	mu sync.Mutex

	initErr   error
	initCalls int

	verifyOK    bool
	verifyErr   error
	verifyCalls int

	signatureOK bool
}

func (g *fakeGateway) GetProvider() gateway.Provider { return gateway.ProviderPaystack }

func (g *fakeGateway) Initialize(_ context.Context, req *gateway.InitializeRequest) (*gateway.InitializeResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.initCalls++
	if g.initErr != nil {
		return nil, g.initErr
	}
	return &gateway.InitializeResponse{
		Reference:   fmt.Sprintf("ref_%d", g.initCalls),
		CheckoutURL: "https://checkout.paystack.com/abc123",
	}, nil
}

func (g *fakeGateway) Verify(_ context.Context, reference string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.verifyCalls++
	return g.verifyOK, g.verifyErr
}

func (g *fakeGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return g.signatureOK
}

// fakeNotifier records deliveries and can be told to fail.
type fakeNotifier struct {
	mu sync.Mutex

	confirmations []*models.Ticket
	alerts        []*models.ManualPayment
	err           error
}

func (n *fakeNotifier) SendTicketConfirmation(_ context.Context, t *models.Ticket) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}
	n.confirmations = append(n.confirmations, t)
	return nil
}

func (n *fakeNotifier) SendManualPaymentAlert(_ context.Context, mp *models.ManualPayment) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}
	n.alerts = append(n.alerts, mp)
	return nil
}

var _ notify.Notifier = (*fakeNotifier)(nil)

// fakeAnnouncer records realtime publishes.
type fakeAnnouncer struct {
	mu        sync.Mutex
	announced []*models.ManualPayment
	err       error
}

func (a *fakeAnnouncer) AnnounceManualPayment(_ context.Context, mp *models.ManualPayment) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.err != nil {
		return a.err
	}
	a.announced = append(a.announced, mp)
	return nil
}
