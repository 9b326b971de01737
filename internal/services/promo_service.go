package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"mm-tickets/internal/status"
	"mm-tickets/models"
	"mm-tickets/monitoring"
)

// PromoStore is the slice of the store the promo engine needs.
type PromoStore interface {
	PromoByCode(ctx context.Context, code string) (*models.Promotion, error)
	CreatePromo(ctx context.Context, p *models.Promotion) error
	AllPromos(ctx context.Context) ([]*models.Promotion, error)
	DeactivatePromo(ctx context.Context, code string) (bool, error)
}

type PromoService struct {
	store PromoStore
}

func NewPromoService(store PromoStore) *PromoService {
	return &PromoService{store: store}
}

// PromoQuote is the priced result of applying a promotion to a total.
type PromoQuote struct {
	Code           string          `json:"code"`
	DiscountType   string          `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalPrice     decimal.Decimal `json:"final_price"`
	MaxUses        int             `json:"max_uses"`
	UsedCount      int             `json:"used_count"`
}

// Validate performs the hard promo check used everywhere a buyer can
// still be told the code is no good before money moves: unknown,
// inactive or out-of-window codes fail with ErrInvalidPromo, exhausted
// ones with ErrPromoExhausted. The usage counter is NOT consumed here;
// that happens conditionally inside the insert transaction, so a code
// that passes validation can still lose the last slot to a concurrent
// purchase.
func (s *PromoService) Validate(ctx context.Context, totalPrice decimal.Decimal, code string, now time.Time) (*PromoQuote, error) {
	promo, err := s.store.PromoByCode(ctx, code)
	if err != nil {
		if errors.Is(err, status.ErrPromoNotFound) {
			monitoring.TrackPromoApplication("rejected")
			return nil, status.ErrInvalidPromo
		}
		return nil, err
	}

	if promo.Exhausted() {
		monitoring.TrackPromoApplication("rejected")
		return nil, status.ErrPromoExhausted
	}
	if !promo.ApplicableAt(now) {
		monitoring.TrackPromoApplication("rejected")
		return nil, status.ErrInvalidPromo
	}

	discount := promo.DiscountFor(totalPrice)
	return &PromoQuote{
		Code:           promo.Code,
		DiscountType:   promo.DiscountType,
		DiscountValue:  promo.DiscountValue,
		DiscountAmount: discount,
		FinalPrice:     models.FinalPrice(totalPrice, discount),
		MaxUses:        promo.MaxUses,
		UsedCount:      promo.UsedCount,
	}, nil
}

type CreatePromoRequest struct {
	Code          string          `json:"code"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MaxUses       int             `json:"max_uses"`
	ValidFrom     *time.Time      `json:"valid_from"`
	ValidUntil    *time.Time      `json:"valid_until"`
}

// Create registers a promotion. Out-of-range discount values are
// rejected here, at creation time, so application never has to clamp: a
// percentage must sit in (0,100], a fixed amount must be positive.
func (s *PromoService) Create(ctx context.Context, req CreatePromoRequest) (*models.Promotion, error) {
	if req.Code == "" {
		return nil, status.ErrInvalidPromoValue
	}

	switch req.DiscountType {
	case models.DiscountPercentage:
		if !req.DiscountValue.IsPositive() || req.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return nil, status.ErrInvalidPromoValue
		}
	case models.DiscountFixed:
		if !req.DiscountValue.IsPositive() {
			return nil, status.ErrInvalidPromoValue
		}
	default:
		return nil, status.ErrInvalidPromoValue
	}

	if req.MaxUses < 0 {
		return nil, status.ErrInvalidPromoValue
	}

	promo := &models.Promotion{
		Code:          req.Code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MaxUses:       req.MaxUses,
		ValidFrom:     req.ValidFrom,
		ValidUntil:    req.ValidUntil,
		IsActive:      true,
	}
	if err := s.store.CreatePromo(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *PromoService) List(ctx context.Context) ([]*models.Promotion, error) {
	return s.store.AllPromos(ctx)
}

// Deactivate switches a promotion off without deleting it; history and
// used counts stay queryable.
func (s *PromoService) Deactivate(ctx context.Context, code string) error {
	changed, err := s.store.DeactivatePromo(ctx, code)
	if err != nil {
		return err
	}
	if !changed {
		return status.ErrPromoNotFound
	}
	return nil
}
