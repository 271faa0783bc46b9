package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Refund is a partial or full refund against a payment. The core fields
// (payment, amount, currency, reason, date) are immutable once created;
// only provider identifiers and notes may be set afterwards.
type Refund struct {
	ID         uuid.UUID
	PaymentID  uuid.UUID
	Amount     decimal.Decimal
	Currency   string
	Reason     string
	RefundDate time.Time

	ExternalRefundID string
	StripeRefundID   string
	PayPalRefundID   string
	Notes            string

	CreatedAt time.Time
	UpdatedAt *time.Time
}

func newRefund(paymentID uuid.UUID, amount decimal.Decimal, currency, reason string, now time.Time) Refund {
	return Refund{
		ID:         uuid.New(),
		PaymentID:  paymentID,
		Amount:     amount,
		Currency:   currency,
		Reason:     reason,
		RefundDate: now,
		CreatedAt:  now,
	}
}

// SetExternalRefundID stores the provider's refund identifier.
func (r *Refund) SetExternalRefundID(id string) {
	r.ExternalRefundID = id
	r.touch()
}

// SetStripeRefundID stores the Stripe refund identifier.
func (r *Refund) SetStripeRefundID(id string) {
	r.StripeRefundID = id
	r.touch()
}

// SetPayPalRefundID stores the PayPal refund identifier.
func (r *Refund) SetPayPalRefundID(id string) {
	r.PayPalRefundID = id
	r.touch()
}

// SetNotes replaces the free-form notes.
func (r *Refund) SetNotes(notes string) {
	r.Notes = notes
	r.touch()
}

func (r *Refund) touch() {
	now := time.Now().UTC()
	r.UpdatedAt = &now
}
