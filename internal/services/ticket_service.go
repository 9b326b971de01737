package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mm-tickets/internal/services/gateway"
	"mm-tickets/internal/status"
	"mm-tickets/models"
	"mm-tickets/monitoring"
	"mm-tickets/utils"
)

const currencyGHS = "GHS"

// TicketStore is the persistence surface the ticket service needs.
type TicketStore interface {
	InsertTicket(ctx context.Context, t *models.Ticket, applyPromo bool) error
	MarkPaid(ctx context.Context, reference string) (bool, error)
	TicketByCode(ctx context.Context, code string) (*models.Ticket, error)
	TicketByReference(ctx context.Context, reference string) (*models.Ticket, error)
	CheckInTicket(ctx context.Context, code, checkedInBy string) (bool, error)
	TicketCodeExists(ctx context.Context, code string) (bool, error)
	AllTickets(ctx context.Context) ([]*models.Ticket, error)
}

// WaitlistChecker reports whether an email already sits on the
// waitlist, so the purchase response can tell the buyer.
type WaitlistChecker interface {
	IsWaitlisted(ctx context.Context, email string) (bool, error)
}

type TicketService struct {
	store       TicketStore
	promos      *PromoService
	gw          gateway.Gateway
	waitlist    WaitlistChecker
	breaker     *utils.CircuitBreaker
	callbackURL string
}

func NewTicketService(store TicketStore, promos *PromoService, gw gateway.Gateway, waitlist WaitlistChecker, callbackURL string) *TicketService {
	return &TicketService{
		store:       store,
		promos:      promos,
		gw:          gw,
		waitlist:    waitlist,
		breaker:     utils.NewCircuitBreaker(string(gw.GetProvider())),
		callbackURL: callbackURL,
	}
}

type CreateTicketRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	TicketType string `json:"ticket_type"`
	Quantity   int    `json:"quantity"`
	PromoCode  string `json:"promo_code"`
}

type CreateTicketResponse struct {
	Ticket      *models.Ticket `json:"ticket"`
	CheckoutURL string         `json:"checkout_url"`
	Reference   string         `json:"reference"`
	Waitlisted  bool           `json:"waitlisted"`
}

// CreateTicket prices the order, opens a charge with the gateway and
// records the ticket as pending. The ticket only becomes valid once the
// charge is verified and the ticket marked paid.
func (s *TicketService) CreateTicket(ctx context.Context, req CreateTicketRequest) (*CreateTicketResponse, error) {
	pricing, err := priceOrder(ctx, s.promos, req.TicketType, req.Quantity, req.PromoCode, time.Now())
	if err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		Email:          req.Email,
		Name:           req.Name,
		Phone:          req.Phone,
		TicketType:     pricing.TicketType,
		Quantity:       pricing.Quantity,
		UnitPrice:      pricing.UnitPrice,
		TotalPrice:     pricing.TotalPrice,
		PromoCode:      pricing.PromoCode,
		DiscountAmount: pricing.DiscountAmount,
		FinalPrice:     pricing.FinalPrice,
		PaymentStatus:  models.PaymentPending,
	}

	res, err := s.breaker.Execute(ctx, func() (any, error) {
		return s.gw.Initialize(ctx, &gateway.InitializeRequest{
			Email:       ticket.Email,
			Amount:      ticket.AmountMinorUnits(),
			Currency:    currencyGHS,
			CallbackURL: s.callbackURL,
		})
	})
	if err != nil {
		slog.Error("gateway initialize failed", "provider", s.gw.GetProvider(), "error", err)
		return nil, fmt.Errorf("%w: %v", status.ErrGatewayUnavailable, err)
	}
	init := res.(*gateway.InitializeResponse)
	ticket.Reference = init.Reference

	if err := s.insertWithFreshCode(ctx, ticket, pricing.PromoApplied); err != nil {
		return nil, err
	}

	monitoring.TrackTicketCreated(ticket.TicketType)
	if pricing.PromoApplied {
		monitoring.TrackPromoApplication("applied")
	}

	// Best-effort, the purchase stands either way.
	waitlisted := false
	if s.waitlist != nil {
		on, werr := s.waitlist.IsWaitlisted(ctx, ticket.Email)
		if werr != nil {
			slog.Warn("waitlist status lookup failed", "email", ticket.Email, "error", werr)
		} else {
			waitlisted = on
		}
	}

	return &CreateTicketResponse{
		Ticket:      ticket,
		CheckoutURL: init.CheckoutURL,
		Reference:   init.Reference,
		Waitlisted:  waitlisted,
	}, nil
}

// insertWithFreshCode generates a collision-checked ticket code and
// inserts the ticket, regenerating the code if the unique index still
// catches a concurrent taker.
func (s *TicketService) insertWithFreshCode(ctx context.Context, t *models.Ticket, applyPromo bool) error {
	for {
		code, err := utils.GenerateUniqueCode(ctx, "ticket", utils.TicketCodeAlphabet, utils.TicketCodeLength, utils.TicketCodePrefix, s.store.TicketCodeExists)
		if err != nil {
			return fmt.Errorf("generate ticket code: %w", err)
		}
		t.Code = code

		err = s.store.InsertTicket(ctx, t, applyPromo)
		if errors.Is(err, status.ErrCodeTaken) {
			monitoring.TrackCodeRetry("ticket")
			continue
		}
		return err
	}
}

// GetTicket looks a ticket up by its code.
func (s *TicketService) GetTicket(ctx context.Context, code string) (*models.Ticket, error) {
	return s.store.TicketByCode(ctx, code)
}

// CheckIn marks a paid ticket as used at the door. Only one caller can
// win the transition; everyone after gets ErrAlreadyCheckedIn.
func (s *TicketService) CheckIn(ctx context.Context, code, checkedInBy string) (*models.Ticket, error) {
	ticket, err := s.store.TicketByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if ticket.PaymentStatus != models.PaymentPaid {
		return nil, status.ErrNotPaid
	}
	if ticket.CheckedIn {
		return nil, status.ErrAlreadyCheckedIn
	}

	changed, err := s.store.CheckInTicket(ctx, code, checkedInBy)
	if err != nil {
		return nil, fmt.Errorf("check in ticket %s: %w", code, err)
	}
	if !changed {
		// lost the race to a concurrent scan
		return nil, status.ErrAlreadyCheckedIn
	}

	return s.store.TicketByCode(ctx, code)
}

// List returns all tickets, newest first.
func (s *TicketService) List(ctx context.Context) ([]*models.Ticket, error) {
	return s.store.AllTickets(ctx)
}
