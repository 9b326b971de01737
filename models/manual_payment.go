package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ManualPending   = "pending"
	ManualConfirmed = "confirmed"
	ManualRejected  = "rejected"
)

// ManualReferencePrefix is prepended to a manual payment's reference
// code to form the synthesized gateway reference of the ticket minted on
// confirmation. Gateway references never carry this prefix, so the two
// namespaces cannot collide.
const ManualReferencePrefix = "MANUAL-"

type ManualPayment struct {
	ID             string          `json:"id"`
	ReferenceCode  string          `json:"reference_code"`
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
	MomoNumber     string          `json:"momo_number"`
	PaymentStatus  string          `json:"payment_status"` // pending, confirmed, rejected
	ConfirmedBy    string          `json:"confirmed_by,omitempty"`
	ConfirmedAt    *time.Time      `json:"confirmed_at,omitempty"`
	AdminNotes     string          `json:"admin_notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TicketReference derives the gateway reference of the ticket created
// when this payment is confirmed.
func (m *ManualPayment) TicketReference() string {
	return ManualReferencePrefix + m.ReferenceCode
}
