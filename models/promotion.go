package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Promotion struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	DiscountType  string          `json:"discount_type"` // percentage, fixed
	DiscountValue decimal.Decimal `json:"discount_value"`
	MaxUses       int             `json:"max_uses"` // 0 = unlimited
	UsedCount     int             `json:"used_count"`
	ValidFrom     *time.Time      `json:"valid_from,omitempty"`
	ValidUntil    *time.Time      `json:"valid_until,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ApplicableAt reports whether the promotion can be applied at the given
// instant: active, inside its validity window and not exhausted.
func (p *Promotion) ApplicableAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return false
	}
	return !p.Exhausted()
}

// Exhausted reports whether the usage cap has been reached.
func (p *Promotion) Exhausted() bool {
	return p.MaxUses > 0 && p.UsedCount >= p.MaxUses
}

// DiscountFor computes the discount amount for a given total price.
func (p *Promotion) DiscountFor(total decimal.Decimal) decimal.Decimal {
	if p.DiscountType == DiscountPercentage {
		return total.Mul(p.DiscountValue).Div(decimal.NewFromInt(100))
	}
	return p.DiscountValue
}
