package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mm-tickets/internal/notify"
	"mm-tickets/internal/status"
	"mm-tickets/models"
	"mm-tickets/monitoring"
	"mm-tickets/utils"
)

// ManualStore is the persistence surface the manual payment workflow
// needs. Ticket lookups and inserts come along because confirming a
// manual payment mints a ticket.
type ManualStore interface {
	InsertManualPayment(ctx context.Context, mp *models.ManualPayment, applyPromo bool) error
	ConfirmManualPayment(ctx context.Context, referenceCode, confirmedBy, notes string, ticket *models.Ticket) error
	RejectManualPayment(ctx context.Context, referenceCode, confirmedBy, notes string) error
	ManualByReferenceCode(ctx context.Context, referenceCode string) (*models.ManualPayment, error)
	ManualRefExists(ctx context.Context, referenceCode string) (bool, error)
	PendingManualPayments(ctx context.Context) ([]*models.ManualPayment, error)
	TicketCodeExists(ctx context.Context, code string) (bool, error)
}

// AdminAnnouncer pushes a realtime event to the admin channel.
type AdminAnnouncer interface {
	AnnounceManualPayment(ctx context.Context, mp *models.ManualPayment) error
}

// ManualService runs the mobile-money workflow: buyers submit a payment
// claim against a short reference code, admins confirm or reject it
// after checking their momo statement.
type ManualService struct {
	store     ManualStore
	promos    *PromoService
	notifier  notify.Notifier
	announcer AdminAnnouncer
}

func NewManualService(store ManualStore, promos *PromoService, notifier notify.Notifier, announcer AdminAnnouncer) *ManualService {
	return &ManualService{
		store:     store,
		promos:    promos,
		notifier:  notifier,
		announcer: announcer,
	}
}

type SubmitManualRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	TicketType string `json:"ticket_type"`
	Quantity   int    `json:"quantity"`
	PromoCode  string `json:"promo_code"`
	MomoNumber string `json:"momo_number"`
}

// Submit records a manual payment claim as pending and alerts the admin
// team. The buyer is told the reference code to put on their momo
// transfer; nothing is a ticket until an admin confirms.
func (s *ManualService) Submit(ctx context.Context, req SubmitManualRequest) (*models.ManualPayment, error) {
	pricing, err := priceOrder(ctx, s.promos, req.TicketType, req.Quantity, req.PromoCode, time.Now())
	if err != nil {
		return nil, err
	}

	mp := &models.ManualPayment{
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
		MomoNumber:     req.MomoNumber,
		PaymentStatus:  models.ManualPending,
	}

	for {
		ref, err := utils.GenerateUniqueCode(ctx, "manual", utils.ManualRefAlphabet, utils.ManualRefLength, "", s.store.ManualRefExists)
		if err != nil {
			return nil, fmt.Errorf("generate reference code: %w", err)
		}
		mp.ReferenceCode = ref

		err = s.store.InsertManualPayment(ctx, mp, pricing.PromoApplied)
		if errors.Is(err, status.ErrCodeTaken) {
			monitoring.TrackCodeRetry("manual")
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	monitoring.TrackManualPayment("submitted")
	if pricing.PromoApplied {
		monitoring.TrackPromoApplication("applied")
	}

	if err := s.notifier.SendManualPaymentAlert(ctx, mp); err != nil {
		slog.Error("manual payment alert email failed", "reference", mp.ReferenceCode, "error", err)
		monitoring.TrackNotificationFailure("manual_alert")
	}
	if s.announcer != nil {
		if err := s.announcer.AnnounceManualPayment(ctx, mp); err != nil {
			slog.Error("manual payment realtime publish failed", "reference", mp.ReferenceCode, "error", err)
			monitoring.TrackNotificationFailure("manual_realtime")
		}
	}

	return mp, nil
}

// Confirm turns a pending manual payment into a paid ticket in one
// transaction. Concurrent confirms of the same reference produce
// exactly one ticket; the loser gets ErrAlreadyProcessed.
func (s *ManualService) Confirm(ctx context.Context, referenceCode, confirmedBy, notes string) (*models.Ticket, error) {
	mp, err := s.store.ManualByReferenceCode(ctx, referenceCode)
	if err != nil {
		return nil, err
	}
	if mp.PaymentStatus != models.ManualPending {
		return nil, status.ErrAlreadyProcessed
	}

	ticket := &models.Ticket{
		Email:          mp.Email,
		Name:           mp.Name,
		Phone:          mp.Phone,
		TicketType:     mp.TicketType,
		Quantity:       mp.Quantity,
		UnitPrice:      mp.UnitPrice,
		TotalPrice:     mp.TotalPrice,
		PromoCode:      mp.PromoCode,
		DiscountAmount: mp.DiscountAmount,
		FinalPrice:     mp.FinalPrice,
		Reference:      mp.TicketReference(),
		PaymentStatus:  models.PaymentPaid,
	}

	for {
		code, err := utils.GenerateUniqueCode(ctx, "ticket", utils.TicketCodeAlphabet, utils.TicketCodeLength, utils.TicketCodePrefix, s.store.TicketCodeExists)
		if err != nil {
			return nil, fmt.Errorf("generate ticket code: %w", err)
		}
		ticket.Code = code

		err = s.store.ConfirmManualPayment(ctx, referenceCode, confirmedBy, notes, ticket)
		if errors.Is(err, status.ErrCodeTaken) {
			monitoring.TrackCodeRetry("ticket")
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	monitoring.TrackManualPayment("confirmed")

	if err := s.notifier.SendTicketConfirmation(ctx, ticket); err != nil {
		slog.Error("ticket confirmation email failed", "ticket", ticket.Code, "email", ticket.Email, "error", err)
		monitoring.TrackNotificationFailure("ticket_confirmation")
	}

	return ticket, nil
}

// Reject marks a pending manual payment as rejected. No ticket is
// created and the promo use consumed at submission is not returned.
func (s *ManualService) Reject(ctx context.Context, referenceCode, rejectedBy, notes string) error {
	mp, err := s.store.ManualByReferenceCode(ctx, referenceCode)
	if err != nil {
		return err
	}
	if mp.PaymentStatus != models.ManualPending {
		return status.ErrAlreadyProcessed
	}

	if err := s.store.RejectManualPayment(ctx, referenceCode, rejectedBy, notes); err != nil {
		return err
	}
	monitoring.TrackManualPayment("rejected")
	return nil
}

// Pending lists manual payments awaiting review, oldest first.
func (s *ManualService) Pending(ctx context.Context) ([]*models.ManualPayment, error) {
	return s.store.PendingManualPayments(ctx)
}
