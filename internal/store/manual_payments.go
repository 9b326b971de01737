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

// InsertManualPayment persists a pending manual payment. As with ticket
// inserts, a promo use is consumed in the same transaction when
// applyPromo is set.
func (s *Store) InsertManualPayment(ctx context.Context, mp *models.ManualPayment, applyPromo bool) error {
	return s.app.RunInTransaction(func(txApp core.App) error {
		if applyPromo {
			ok, err := incrementPromoUse(txApp, mp.PromoCode)
			if err != nil {
				return fmt.Errorf("incrementing promo use: %w", err)
			}
			if !ok {
				return status.ErrPromoExhausted
			}
		}

		collection, err := txApp.FindCollectionByNameOrId("manual_payments")
		if err != nil {
			return fmt.Errorf("finding manual_payments collection: %w", err)
		}

		record := core.NewRecord(collection)
		record.Set("reference_code", mp.ReferenceCode)
		record.Set("email", mp.Email)
		record.Set("name", mp.Name)
		record.Set("phone", mp.Phone)
		record.Set("ticket_type", mp.TicketType)
		record.Set("quantity", mp.Quantity)
		record.Set("unit_price", mp.UnitPrice.String())
		record.Set("total_price", mp.TotalPrice.String())
		record.Set("promo_code", mp.PromoCode)
		record.Set("discount_amount", mp.DiscountAmount.String())
		record.Set("final_price", mp.FinalPrice.String())
		record.Set("momo_number", mp.MomoNumber)
		record.Set("payment_status", mp.PaymentStatus)

		if err := txApp.SaveWithContext(ctx, record); err != nil {
			if isUniqueViolation(err, "manual_payments.reference_code") {
				return status.ErrCodeTaken
			}
			return fmt.Errorf("saving manual payment: %w", err)
		}

		mp.ID = record.Id
		mp.CreatedAt = record.GetDateTime("created").Time()
		return nil
	})
}

// ConfirmManualPayment atomically flips a pending manual payment to
// confirmed and inserts the pre-built paid ticket. Either both writes
// land or neither: a confirmed manual payment and its ticket must never
// exist independently of one another. Returns ErrAlreadyProcessed when
// the conditional flip matches no pending row.
func (s *Store) ConfirmManualPayment(ctx context.Context, referenceCode, confirmedBy, notes string, ticket *models.Ticket) error {
	return s.app.RunInTransaction(func(txApp core.App) error {
		changed, err := flipManualStatus(txApp, referenceCode, models.ManualConfirmed, confirmedBy, notes)
		if err != nil {
			return err
		}
		if !changed {
			return status.ErrAlreadyProcessed
		}
		return insertTicketRecord(ctx, txApp, ticket)
	})
}

// RejectManualPayment terminally rejects a pending manual payment. No
// ticket is created.
func (s *Store) RejectManualPayment(_ context.Context, referenceCode, confirmedBy, notes string) error {
	changed, err := flipManualStatus(s.app, referenceCode, models.ManualRejected, confirmedBy, notes)
	if err != nil {
		return err
	}
	if !changed {
		return status.ErrAlreadyProcessed
	}
	return nil
}

func flipManualStatus(app core.App, referenceCode, to, by, notes string) (bool, error) {
	res, err := app.DB().NewQuery(`UPDATE manual_payments
		SET payment_status = {:to}, confirmed_by = {:by}, confirmed_at = {:at}, admin_notes = {:notes}, updated = {:at}
		WHERE reference_code = {:ref} AND payment_status = {:pending}`).
		Bind(dbx.Params{
			"to":      to,
			"by":      by,
			"at":      types.NowDateTime().String(),
			"notes":   notes,
			"ref":     referenceCode,
			"pending": models.ManualPending,
		}).
		Execute()
	if err != nil {
		return false, fmt.Errorf("updating manual payment status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return n == 1, nil
}

func (s *Store) ManualByReferenceCode(_ context.Context, referenceCode string) (*models.ManualPayment, error) {
	record, err := s.app.FindFirstRecordByFilter(
		"manual_payments",
		"reference_code = {:ref}",
		dbx.Params{"ref": referenceCode},
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrManualNotFound
		}
		return nil, fmt.Errorf("finding manual payment: %w", err)
	}
	return manualFromRecord(record), nil
}

// ManualRefExists probes the reference-code uniqueness domain for the
// code generator.
func (s *Store) ManualRefExists(ctx context.Context, referenceCode string) (bool, error) {
	_, err := s.ManualByReferenceCode(ctx, referenceCode)
	if errors.Is(err, status.ErrManualNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PendingManualPayments returns unprocessed submissions, oldest first so
// admins work the queue in arrival order.
func (s *Store) PendingManualPayments(_ context.Context) ([]*models.ManualPayment, error) {
	records, err := s.app.FindRecordsByFilter(
		"manual_payments",
		"payment_status = {:pending}",
		"created",
		0,
		0,
		dbx.Params{"pending": models.ManualPending},
	)
	if err != nil {
		return nil, fmt.Errorf("listing pending manual payments: %w", err)
	}

	payments := make([]*models.ManualPayment, 0, len(records))
	for _, r := range records {
		payments = append(payments, manualFromRecord(r))
	}
	return payments, nil
}

func manualFromRecord(r *core.Record) *models.ManualPayment {
	mp := &models.ManualPayment{
		ID:             r.Id,
		ReferenceCode:  r.GetString("reference_code"),
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
		MomoNumber:     r.GetString("momo_number"),
		PaymentStatus:  r.GetString("payment_status"),
		ConfirmedBy:    r.GetString("confirmed_by"),
		AdminNotes:     r.GetString("admin_notes"),
		CreatedAt:      r.GetDateTime("created").Time(),
	}

	if at := r.GetDateTime("confirmed_at"); !at.IsZero() {
		ts := at.Time()
		mp.ConfirmedAt = &ts
	}
	return mp
}
