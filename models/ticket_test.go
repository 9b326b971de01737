package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFinalPrice_ClampsAtZero(t *testing.T) {
	final := FinalPrice(decimal.NewFromInt(100), decimal.NewFromInt(150))
	assert.True(t, final.IsZero())

	final = FinalPrice(decimal.NewFromInt(150), decimal.NewFromInt(50))
	assert.True(t, final.Equal(decimal.NewFromInt(100)))
}

func TestAmountMinorUnits(t *testing.T) {
	ticket := &Ticket{FinalPrice: decimal.NewFromFloat(270.50)}
	assert.Equal(t, int64(27050), ticket.AmountMinorUnits())
}

func TestUnitPriceFor_UnknownType(t *testing.T) {
	_, ok := UnitPriceFor("vip")
	assert.False(t, ok)
}

func TestManualPaymentTicketReference(t *testing.T) {
	mp := &ManualPayment{ReferenceCode: "K7PQ"}
	assert.Equal(t, "MANUAL-K7PQ", mp.TicketReference())
}

func TestPromotionExhausted(t *testing.T) {
	unlimited := &Promotion{MaxUses: 0, UsedCount: 10000}
	assert.False(t, unlimited.Exhausted())

	capped := &Promotion{MaxUses: 5, UsedCount: 5}
	assert.True(t, capped.Exhausted())
}

func TestPromotionApplicableAt(t *testing.T) {
	now := time.Now()
	from := now.Add(-time.Hour)
	until := now.Add(time.Hour)

	promo := &Promotion{IsActive: true, ValidFrom: &from, ValidUntil: &until}
	assert.True(t, promo.ApplicableAt(now))
	assert.False(t, promo.ApplicableAt(now.Add(2*time.Hour)))
	assert.False(t, promo.ApplicableAt(now.Add(-2*time.Hour)))

	promo.IsActive = false
	assert.False(t, promo.ApplicableAt(now))
}
