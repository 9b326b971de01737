package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mm-tickets/internal/status"
	"mm-tickets/models"
)

func activePromo(code string, discountType string, value int64, maxUses int) *models.Promotion {
	return &models.Promotion{
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: decimal.NewFromInt(value),
		MaxUses:       maxUses,
		IsActive:      true,
	}
}

func TestPromoValidate_PercentageDiscount(t *testing.T) {
	store := newFakeStore()
	store.promos["LAUNCH10"] = activePromo("LAUNCH10", models.DiscountPercentage, 10, 0)
	svc := NewPromoService(store)

	quote, err := svc.Validate(context.Background(), decimal.NewFromInt(300), "LAUNCH10", time.Now())

	require.NoError(t, err)
	assert.True(t, quote.DiscountAmount.Equal(decimal.NewFromInt(30)), "got %s", quote.DiscountAmount)
	assert.True(t, quote.FinalPrice.Equal(decimal.NewFromInt(270)), "got %s", quote.FinalPrice)
}

func TestPromoValidate_FixedDiscount(t *testing.T) {
	store := newFakeStore()
	store.promos["GHS50OFF"] = activePromo("GHS50OFF", models.DiscountFixed, 50, 0)
	svc := NewPromoService(store)

	quote, err := svc.Validate(context.Background(), decimal.NewFromInt(150), "GHS50OFF", time.Now())

	require.NoError(t, err)
	assert.True(t, quote.DiscountAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, quote.FinalPrice.Equal(decimal.NewFromInt(100)))
}

func TestPromoValidate_FixedDiscountClampedAtZero(t *testing.T) {
	store := newFakeStore()
	store.promos["BIGOFF"] = activePromo("BIGOFF", models.DiscountFixed, 500, 0)
	svc := NewPromoService(store)

	quote, err := svc.Validate(context.Background(), decimal.NewFromInt(100), "BIGOFF", time.Now())

	require.NoError(t, err)
	assert.True(t, quote.FinalPrice.IsZero(), "final price should clamp at zero, got %s", quote.FinalPrice)
}

func TestPromoValidate_UnknownCode(t *testing.T) {
	svc := NewPromoService(newFakeStore())

	_, err := svc.Validate(context.Background(), decimal.NewFromInt(100), "NOPE", time.Now())

	assert.ErrorIs(t, err, status.ErrInvalidPromo)
}

func TestPromoValidate_InactiveCode(t *testing.T) {
	store := newFakeStore()
	promo := activePromo("OLD", models.DiscountPercentage, 10, 0)
	promo.IsActive = false
	store.promos["OLD"] = promo
	svc := NewPromoService(store)

	_, err := svc.Validate(context.Background(), decimal.NewFromInt(100), "OLD", time.Now())

	assert.ErrorIs(t, err, status.ErrInvalidPromo)
}

func TestPromoValidate_Exhausted(t *testing.T) {
	store := newFakeStore()
	promo := activePromo("CAPPED", models.DiscountPercentage, 10, 5)
	promo.UsedCount = 5
	store.promos["CAPPED"] = promo
	svc := NewPromoService(store)

	_, err := svc.Validate(context.Background(), decimal.NewFromInt(100), "CAPPED", time.Now())

	assert.ErrorIs(t, err, status.ErrPromoExhausted)
}

func TestPromoValidate_OutsideValidityWindow(t *testing.T) {
	now := time.Now()

	store := newFakeStore()
	notYet := activePromo("SOON", models.DiscountPercentage, 10, 0)
	from := now.Add(24 * time.Hour)
	notYet.ValidFrom = &from
	store.promos["SOON"] = notYet

	expired := activePromo("GONE", models.DiscountPercentage, 10, 0)
	until := now.Add(-24 * time.Hour)
	expired.ValidUntil = &until
	store.promos["GONE"] = expired

	svc := NewPromoService(store)

	_, err := svc.Validate(context.Background(), decimal.NewFromInt(100), "SOON", now)
	assert.ErrorIs(t, err, status.ErrInvalidPromo)

	_, err = svc.Validate(context.Background(), decimal.NewFromInt(100), "GONE", now)
	assert.ErrorIs(t, err, status.ErrInvalidPromo)
}

func TestPromoValidate_DoesNotConsumeUse(t *testing.T) {
	store := newFakeStore()
	store.promos["LAUNCH10"] = activePromo("LAUNCH10", models.DiscountPercentage, 10, 3)
	svc := NewPromoService(store)

	for i := 0; i < 5; i++ {
		_, err := svc.Validate(context.Background(), decimal.NewFromInt(100), "LAUNCH10", time.Now())
		require.NoError(t, err)
	}

	assert.Equal(t, 0, store.promoUsedCount("LAUNCH10"))
}

func TestPromoCreate_RejectsBadValues(t *testing.T) {
	svc := NewPromoService(newFakeStore())
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreatePromoRequest
	}{
		{"empty code", CreatePromoRequest{DiscountType: models.DiscountPercentage, DiscountValue: decimal.NewFromInt(10)}},
		{"zero percentage", CreatePromoRequest{Code: "X", DiscountType: models.DiscountPercentage, DiscountValue: decimal.Zero}},
		{"percentage over 100", CreatePromoRequest{Code: "X", DiscountType: models.DiscountPercentage, DiscountValue: decimal.NewFromInt(150)}},
		{"negative fixed", CreatePromoRequest{Code: "X", DiscountType: models.DiscountFixed, DiscountValue: decimal.NewFromInt(-5)}},
		{"unknown type", CreatePromoRequest{Code: "X", DiscountType: "bogus", DiscountValue: decimal.NewFromInt(10)}},
		{"negative max uses", CreatePromoRequest{Code: "X", DiscountType: models.DiscountFixed, DiscountValue: decimal.NewFromInt(10), MaxUses: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, status.ErrInvalidPromoValue)
		})
	}
}

func TestPromoCreate_DuplicateCode(t *testing.T) {
	svc := NewPromoService(newFakeStore())
	ctx := context.Background()

	req := CreatePromoRequest{
		Code:          "LAUNCH10",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(10),
	}

	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, status.ErrPromoCodeExists)
}

func TestPromoCreate_NewPromoIsActive(t *testing.T) {
	svc := NewPromoService(newFakeStore())

	promo, err := svc.Create(context.Background(), CreatePromoRequest{
		Code:          "LAUNCH10",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(10),
		MaxUses:       50,
	})

	require.NoError(t, err)
	assert.True(t, promo.IsActive)
	assert.Equal(t, 0, promo.UsedCount)
}

func TestPromoDeactivate(t *testing.T) {
	store := newFakeStore()
	store.promos["LAUNCH10"] = activePromo("LAUNCH10", models.DiscountPercentage, 10, 0)
	svc := NewPromoService(store)
	ctx := context.Background()

	require.NoError(t, svc.Deactivate(ctx, "LAUNCH10"))

	// already inactive
	assert.ErrorIs(t, svc.Deactivate(ctx, "LAUNCH10"), status.ErrPromoNotFound)

	_, err := svc.Validate(ctx, decimal.NewFromInt(100), "LAUNCH10", time.Now())
	assert.ErrorIs(t, err, status.ErrInvalidPromo)
}
