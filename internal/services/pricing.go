package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mm-tickets/internal/status"
	"mm-tickets/models"
)

// orderPricing is the priced form of a ticket selection, shared by the
// gateway purchase path and the manual payment path so both always
// price an order identically.
type orderPricing struct {
	TicketType     string
	Quantity       int
	UnitPrice      decimal.Decimal
	TotalPrice     decimal.Decimal
	PromoCode      string
	DiscountAmount decimal.Decimal
	FinalPrice     decimal.Decimal
	PromoApplied   bool
}

// priceOrder resolves the unit price, totals the order and hard-validates
// any promo code. The promo's usage counter is consumed later, inside
// the insert transaction.
func priceOrder(ctx context.Context, promos *PromoService, ticketType string, quantity int, promoCode string, now time.Time) (*orderPricing, error) {
	ticketType = strings.ToLower(strings.TrimSpace(ticketType))

	unitPrice, ok := models.UnitPriceFor(ticketType)
	if !ok {
		return nil, status.ErrInvalidTicketType
	}
	if quantity < 1 {
		return nil, status.ErrInvalidQuantity
	}

	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	pricing := &orderPricing{
		TicketType: ticketType,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: total,
		FinalPrice: total,
	}

	if promoCode != "" {
		quote, err := promos.Validate(ctx, total, promoCode, now)
		if err != nil {
			return nil, err
		}
		pricing.PromoCode = promoCode
		pricing.DiscountAmount = quote.DiscountAmount
		pricing.FinalPrice = quote.FinalPrice
		pricing.PromoApplied = true
	}

	return pricing, nil
}
