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

func (s *Store) CreatePromo(ctx context.Context, p *models.Promotion) error {
	collection, err := s.app.FindCollectionByNameOrId("promotions")
	if err != nil {
		return fmt.Errorf("finding promotions collection: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("code", p.Code)
	record.Set("discount_type", p.DiscountType)
	record.Set("discount_value", p.DiscountValue.String())
	record.Set("max_uses", p.MaxUses)
	record.Set("used_count", p.UsedCount)
	record.Set("is_active", p.IsActive)
	if p.ValidFrom != nil {
		record.Set("valid_from", *p.ValidFrom)
	}
	if p.ValidUntil != nil {
		record.Set("valid_until", *p.ValidUntil)
	}

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		if isUniqueViolation(err, "promotions.code") {
			return status.ErrPromoCodeExists
		}
		return fmt.Errorf("saving promotion: %w", err)
	}

	p.ID = record.Id
	p.CreatedAt = record.GetDateTime("created").Time()
	return nil
}

func (s *Store) PromoByCode(_ context.Context, code string) (*models.Promotion, error) {
	record, err := s.app.FindFirstRecordByFilter("promotions", "code = {:code}", dbx.Params{"code": code})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrPromoNotFound
		}
		return nil, fmt.Errorf("finding promotion: %w", err)
	}
	return promoFromRecord(record), nil
}

func (s *Store) AllPromos(_ context.Context) ([]*models.Promotion, error) {
	records, err := s.app.FindRecordsByFilter("promotions", "id != ''", "-created", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("listing promotions: %w", err)
	}

	promos := make([]*models.Promotion, 0, len(records))
	for _, r := range records {
		promos = append(promos, promoFromRecord(r))
	}
	return promos, nil
}

// DeactivatePromo switches a promotion off. Conditional so repeated
// calls report changed=false.
func (s *Store) DeactivatePromo(_ context.Context, code string) (bool, error) {
	res, err := s.app.DB().NewQuery(`UPDATE promotions
		SET is_active = FALSE, updated = {:now}
		WHERE code = {:code} AND is_active = TRUE`).
		Bind(dbx.Params{"code": code, "now": types.NowDateTime().String()}).
		Execute()
	if err != nil {
		return false, fmt.Errorf("deactivating promotion: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return n == 1, nil
}

// incrementPromoUse consumes one use of a promotion, guarded by the
// usage cap so two concurrent purchases cannot both take the last slot.
// Runs on the caller's transaction.
func incrementPromoUse(app core.App, code string) (bool, error) {
	res, err := app.DB().NewQuery(`UPDATE promotions
		SET used_count = used_count + 1, updated = {:now}
		WHERE code = {:code} AND is_active = TRUE
		AND (max_uses = 0 OR used_count < max_uses)`).
		Bind(dbx.Params{"code": code, "now": types.NowDateTime().String()}).
		Execute()
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func promoFromRecord(r *core.Record) *models.Promotion {
	p := &models.Promotion{
		ID:            r.Id,
		Code:          r.GetString("code"),
		DiscountType:  r.GetString("discount_type"),
		DiscountValue: dec(r, "discount_value"),
		MaxUses:       r.GetInt("max_uses"),
		UsedCount:     r.GetInt("used_count"),
		IsActive:      r.GetBool("is_active"),
		CreatedAt:     r.GetDateTime("created").Time(),
	}

	if from := r.GetDateTime("valid_from"); !from.IsZero() {
		ts := from.Time()
		p.ValidFrom = &ts
	}
	if until := r.GetDateTime("valid_until"); !until.IsZero() {
		ts := until.Time()
		p.ValidUntil = &ts
	}
	return p
}
