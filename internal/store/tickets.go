package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"mm-tickets/internal/status"
	"mm-tickets/models"
)

// InsertTicket persists a ticket and, when applyPromo is set, consumes
// one use of its promo code. Both writes run in a single transaction: a
// ticket carrying a discount must never exist without the matching
// used_count increment. A 0-row increment (the promo was exhausted by a
// concurrent purchase) aborts the insert with ErrPromoExhausted.
func (s *Store) InsertTicket(ctx context.Context, t *models.Ticket, applyPromo bool) error {
	return s.app.RunInTransaction(func(txApp core.App) error {
		if applyPromo {
			ok, err := incrementPromoUse(txApp, t.PromoCode)
			if err != nil {
				return fmt.Errorf("incrementing promo use: %w", err)
			}
			if !ok {
				return status.ErrPromoExhausted
			}
		}
		return insertTicketRecord(ctx, txApp, t)
	})
}

func insertTicketRecord(ctx context.Context, app core.App, t *models.Ticket) error {
	collection, err := app.FindCollectionByNameOrId("tickets")
	if err != nil {
		return fmt.Errorf("finding tickets collection: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("code", t.Code)
	record.Set("email", t.Email)
	record.Set("name", t.Name)
	record.Set("phone", t.Phone)
	record.Set("ticket_type", t.TicketType)
	record.Set("quantity", t.Quantity)
	record.Set("unit_price", t.UnitPrice.String())
	record.Set("total_price", t.TotalPrice.String())
	record.Set("promo_code", t.PromoCode)
	record.Set("discount_amount", t.DiscountAmount.String())
	record.Set("final_price", t.FinalPrice.String())
	record.Set("reference", t.Reference)
	record.Set("payment_status", t.PaymentStatus)
	record.Set("checked_in", t.CheckedIn)

	if err := app.SaveWithContext(ctx, record); err != nil {
		switch {
		case isUniqueViolation(err, "tickets.code"):
			return status.ErrCodeTaken
		case isUniqueViolation(err, "tickets.reference"):
			return status.ErrDuplicateReference
		default:
			return fmt.Errorf("saving ticket: %w", err)
		}
	}

	t.ID = record.Id
	t.CreatedAt = record.GetDateTime("created").Time()
	return nil
}

// MarkPaid transitions the ticket matched by reference from pending to
// paid. Idempotent: an already-paid ticket yields changed=false.
func (s *Store) MarkPaid(ctx context.Context, reference string) (bool, error) {
	res, err := s.app.DB().NewQuery(`UPDATE tickets
		SET payment_status = {:paid}, updated = {:now}
		WHERE reference = {:ref} AND payment_status = {:pending}`).
		Bind(dbx.Params{
			"paid":    models.PaymentPaid,
			"now":     types.NowDateTime().String(),
			"ref":     reference,
			"pending": models.PaymentPending,
		}).
		Execute()
	if err != nil {
		return false, fmt.Errorf("marking ticket paid: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return n == 1, nil
}

// CheckInTicket flips checked_in for a paid, not-yet-checked-in ticket.
// Exactly one of any number of concurrent calls for the same code wins.
func (s *Store) CheckInTicket(ctx context.Context, code, checkedInBy string) (bool, error) {
	res, err := s.app.DB().NewQuery(`UPDATE tickets
		SET checked_in = TRUE, checked_in_at = {:at}, checked_in_by = {:by}, updated = {:at}
		WHERE code = {:code} AND payment_status = {:paid} AND checked_in = FALSE`).
		Bind(dbx.Params{
			"at":   types.NowDateTime().String(),
			"by":   checkedInBy,
			"code": code,
			"paid": models.PaymentPaid,
		}).
		Execute()
	if err != nil {
		return false, fmt.Errorf("checking in ticket: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return n == 1, nil
}

func (s *Store) TicketByCode(ctx context.Context, code string) (*models.Ticket, error) {
	return s.findTicket(ctx, "code = {:v}", code)
}

func (s *Store) TicketByReference(ctx context.Context, reference string) (*models.Ticket, error) {
	return s.findTicket(ctx, "reference = {:v}", reference)
}

func (s *Store) findTicket(_ context.Context, filter, value string) (*models.Ticket, error) {
	record, err := s.app.FindFirstRecordByFilter("tickets", filter, dbx.Params{"v": value})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrTicketNotFound
		}
		return nil, fmt.Errorf("finding ticket: %w", err)
	}
	return ticketFromRecord(record), nil
}

// TicketCodeExists probes the ticket-code uniqueness domain for the
// code generator.
func (s *Store) TicketCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := s.TicketByCode(ctx, code)
	if errors.Is(err, status.ErrTicketNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AllTickets returns every ticket, newest first.
func (s *Store) AllTickets(ctx context.Context) ([]*models.Ticket, error) {
	records, err := s.app.FindRecordsByFilter("tickets", "id != ''", "-created", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}

	tickets := make([]*models.Ticket, 0, len(records))
	for _, r := range records {
		tickets = append(tickets, ticketFromRecord(r))
	}
	return tickets, nil
}

func ticketFromRecord(r *core.Record) *models.Ticket {
	t := &models.Ticket{
		ID:             r.Id,
		Code:           r.GetString("code"),
		Email:          r.GetString("email"),
		Name:           r.GetString("name"),
		Phone:          r.GetString("phone"),
		TicketType:     r.GetString("ticket_type"),
		Quantity:       r.GetInt("quantity"),
		UnitPrice:      dec(r, "unit_price"),
		TotalPrice:     dec(r, "total_price"),
		PromoCode:      r.GetString("promo_code"),
		DiscountAmount: dec(r, "discount_amount"),
		FinalPrice:     dec(r, "final_price"),
		Reference:      r.GetString("reference"),
		PaymentStatus:  r.GetString("payment_status"),
		CheckedIn:      r.GetBool("checked_in"),
		CheckedInBy:    r.GetString("checked_in_by"),
		CreatedAt:      r.GetDateTime("created").Time(),
	}

	if at := r.GetDateTime("checked_in_at"); !at.IsZero() {
		ts := at.Time()
		t.CheckedInAt = &ts
	}
	return t
}
