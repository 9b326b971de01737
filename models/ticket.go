package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

const (
	TicketEarlyBird = "early_bird"
	TicketRegular   = "regular"
	TicketLate      = "late"
)

// TicketPrices maps each ticket type to its fixed unit price in GHS.
var TicketPrices = map[string]decimal.Decimal{
	TicketEarlyBird: decimal.NewFromInt(100),
	TicketRegular:   decimal.NewFromInt(150),
	TicketLate:      decimal.NewFromInt(200),
}

// UnitPriceFor resolves the unit price for a ticket type. The second
// return value is false for unknown types.
func UnitPriceFor(ticketType string) (decimal.Decimal, bool) {
	price, ok := TicketPrices[ticketType]
	return price, ok
}

// FinalPrice computes total minus discount, clamped at zero so a
// discount can never produce a negative price.
func FinalPrice(total, discount decimal.Decimal) decimal.Decimal {
	final := total.Sub(discount)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}

type Ticket struct {
	ID             string          `json:"id"`
	Code           string          `json:"ticket_code"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	TicketType     string          `json:"ticket_type"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	PromoCode      string          `json:"promo_code,omitempty"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalPrice     decimal.Decimal `json:"final_price"`
	Reference      string          `json:"reference"`
	PaymentStatus  string          `json:"payment_status"` // pending, paid
	CheckedIn      bool            `json:"checked_in"`
	CheckedInAt    *time.Time      `json:"checked_in_at,omitempty"`
	CheckedInBy    string          `json:"checked_in_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AmountMinorUnits returns the final price in the currency's minor unit
// (pesewas for GHS), as required by the payment gateway.
func (t *Ticket) AmountMinorUnits() int64 {
	return t.FinalPrice.Mul(decimal.NewFromInt(100)).IntPart()
}
