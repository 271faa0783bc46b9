package payment

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is one billing attempt against a subscription. It owns its
// refunds: every successful ProcessRefund call appends exactly one Refund
// child, and the cumulative refunded amount never exceeds the payment
// amount.
//
// Methods come in At-variants taking an explicit instant for deterministic
// tests, with wall-clock wrappers for production callers.
type Payment struct {
	ID             uuid.UUID
	SubscriptionID uuid.UUID
	UserID         uuid.UUID

	Amount   decimal.Decimal
	Currency string
	Status   Status
	Method   Method

	PaymentDate time.Time
	ProcessedAt *time.Time

	// TransactionID is generated at creation, distinct from any
	// provider's own charge ID. Format: TXN_<yyyymmdd>_<8 hex chars>.
	TransactionID         string
	ExternalTransactionID string
	PaymentIntentID       string

	FailureReason string
	FailureCode   string

	RefundedAmount decimal.Decimal
	RefundedAt     *time.Time
	RefundReason   string

	Description string

	// Opaque external provider identifiers, pass-through storage only.
	StripeChargeID        string
	StripePaymentIntentID string
	PayPalTransactionID   string
	PayPalPaymentID       string

	BillingPeriodStart *time.Time
	BillingPeriodEnd   *time.Time

	PaymentMethodDetails string // JSON blob with card details etc.
	BillingAddress       string // JSON blob
	Metadata             string // JSON blob for extensibility

	AttemptCount int
	NextRetryAt  *time.Time
	RetryReason  string

	CreatedAt time.Time
	UpdatedAt *time.Time

	refunds []Refund
}

// NewAt creates a pending payment at the given instant with a freshly
// generated transaction ID.
func NewAt(subscriptionID, userID uuid.UUID, amount decimal.Decimal, currency string, method Method, description string, now time.Time) *Payment {
	return &Payment{
		ID:             uuid.New(),
		SubscriptionID: subscriptionID,
		UserID:         userID,
		Amount:         amount,
		Currency:       currency,
		Status:         StatusPending,
		Method:         method,
		PaymentDate:    now,
		TransactionID:  generateTransactionID(now),
		Description:    description,
		AttemptCount:   1,
		CreatedAt:      now,
	}
}

// New is NewAt with the current wall-clock time.
func New(subscriptionID, userID uuid.UUID, amount decimal.Decimal, currency string, method Method, description string) *Payment {
	return NewAt(subscriptionID, userID, amount, currency, method, description, time.Now().UTC())
}

// generateTransactionID builds a human-greppable transaction tag. Eight
// hex chars give ~32 bits of randomness, enough for transaction tagging
// but not for security-sensitive dedup.
func generateTransactionID(now time.Time) string {
	id := uuid.New()
	return fmt.Sprintf("TXN_%s_%s", now.Format("20060102"),
		strings.ToUpper(hex.EncodeToString(id[:4])))
}

// MarkAsCompletedAt moves the payment to completed. An empty
// externalTransactionID leaves the current value unchanged; a zero
// processedAt defaults to now.
func (p *Payment) MarkAsCompletedAt(externalTransactionID string, processedAt time.Time, now time.Time) {
	p.Status = StatusCompleted
	if externalTransactionID != "" {
		p.ExternalTransactionID = externalTransactionID
	}
	if processedAt.IsZero() {
		processedAt = now
	}
	p.ProcessedAt = &processedAt
	p.touchAt(now)
}

// MarkAsCompleted is MarkAsCompletedAt with the current wall-clock time.
func (p *Payment) MarkAsCompleted(externalTransactionID string) {
	now := time.Now().UTC()
	p.MarkAsCompletedAt(externalTransactionID, now, now)
}

// MarkAsFailedAt moves the payment to failed with an optional reason and
// provider failure code.
func (p *Payment) MarkAsFailedAt(reason, code string, now time.Time) {
	p.Status = StatusFailed
	p.FailureReason = reason
	p.FailureCode = code
	p.touchAt(now)
}

// MarkAsFailed is MarkAsFailedAt with the current wall-clock time.
func (p *Payment) MarkAsFailed(reason, code string) {
	p.MarkAsFailedAt(reason, code, time.Now().UTC())
}

// MarkAsProcessing flags that the provider has accepted the charge and is
// working on it.
func (p *Payment) MarkAsProcessing() {
	p.Status = StatusProcessing
	p.touch()
}

// MarkAsCancelled abandons the payment before completion.
func (p *Payment) MarkAsCancelled() {
	p.Status = StatusCancelled
	p.touch()
}

// RequireAction flags that the provider needs user interaction, typically
// 3D Secure confirmation.
func (p *Payment) RequireAction(reason string) {
	p.Status = StatusRequiresAction
	p.FailureReason = reason
	p.touch()
}

// MarkAsDisputed flags a chargeback or dispute opened by the customer.
func (p *Payment) MarkAsDisputed() {
	p.Status = StatusDisputed
	p.touch()
}

// ProcessRefundAt refunds part or all of the payment, appending one Refund
// child record. The cumulative refunded amount may never exceed the
// payment amount; violating calls return a validation error without
// mutating any state. Refunding the full amount moves the payment to
// refunded, anything less to partially refunded.
func (p *Payment) ProcessRefundAt(amount decimal.Decimal, reason string, now time.Time) error {
	if !amount.IsPositive() {
		return ErrRefundAmountNotPositive
	}
	if amount.GreaterThan(p.Amount) {
		return ErrRefundExceedsAmount
	}
	if p.RefundedAmount.Add(amount).GreaterThan(p.Amount) {
		return ErrRefundExceedsRemaining
	}

	p.RefundedAmount = p.RefundedAmount.Add(amount)
	refundedAt := now
	p.RefundedAt = &refundedAt
	p.RefundReason = reason

	if p.RefundedAmount.GreaterThanOrEqual(p.Amount) {
		p.Status = StatusRefunded
	} else {
		p.Status = StatusPartiallyRefunded
	}
	p.touchAt(now)

	p.refunds = append(p.refunds, newRefund(p.ID, amount, p.Currency, reason, now))
	return nil
}

// ProcessRefund is ProcessRefundAt with the current wall-clock time.
func (p *Payment) ProcessRefund(amount decimal.Decimal, reason string) error {
	return p.ProcessRefundAt(amount, reason, time.Now().UTC())
}

// SetStripeIDs stores the Stripe charge and payment-intent identifiers.
func (p *Payment) SetStripeIDs(chargeID, paymentIntentID string) {
	p.StripeChargeID = chargeID
	p.StripePaymentIntentID = paymentIntentID
	p.touch()
}

// SetPayPalIDs stores the PayPal transaction and payment identifiers.
func (p *Payment) SetPayPalIDs(transactionID, paymentID string) {
	p.PayPalTransactionID = transactionID
	p.PayPalPaymentID = paymentID
	p.touch()
}

// SetBillingPeriod records which subscription period this payment covers.
func (p *Payment) SetBillingPeriod(start, end time.Time) {
	p.BillingPeriodStart = &start
	p.BillingPeriodEnd = &end
	p.touch()
}

// SetPaymentMethodDetails replaces the payment-method detail blob.
func (p *Payment) SetPaymentMethodDetails(details string) {
	p.PaymentMethodDetails = details
	p.touch()
}

// SetBillingAddress replaces the billing address blob.
func (p *Payment) SetBillingAddress(address string) {
	p.BillingAddress = address
	p.touch()
}

// SetMetadata replaces the opaque metadata blob.
func (p *Payment) SetMetadata(metadata string) {
	p.Metadata = metadata
	p.touch()
}

// IncrementAttemptCount records another charge attempt against this payment.
func (p *Payment) IncrementAttemptCount() {
	p.AttemptCount++
	p.touch()
}

// ScheduleRetryAt records when the next charge attempt should happen.
// Actually retrying is the caller's responsibility; the entity only keeps
// the bookkeeping.
func (p *Payment) ScheduleRetryAt(nextRetryAt time.Time, reason string, now time.Time) {
	p.NextRetryAt = &nextRetryAt
	p.RetryReason = reason
	p.touchAt(now)
}

// ScheduleRetry is ScheduleRetryAt with the current wall-clock time.
func (p *Payment) ScheduleRetry(nextRetryAt time.Time, reason string) {
	p.ScheduleRetryAt(nextRetryAt, reason, time.Now().UTC())
}

// IsSuccessful reports whether the payment completed.
func (p *Payment) IsSuccessful() bool {
	return p.Status == StatusCompleted
}

// IsFailed reports whether the payment failed.
func (p *Payment) IsFailed() bool {
	return p.Status == StatusFailed
}

// IsPending reports whether the payment is still in flight.
func (p *Payment) IsPending() bool {
	return p.Status == StatusPending || p.Status == StatusProcessing
}

// IsRefunded reports whether any part of the payment has been refunded.
func (p *Payment) IsRefunded() bool {
	return p.Status == StatusRefunded || p.Status == StatusPartiallyRefunded
}

// CanBeRefunded reports whether more money can still be returned.
func (p *Payment) CanBeRefunded() bool {
	return (p.Status == StatusCompleted || p.Status == StatusPartiallyRefunded) &&
		p.RefundedAmount.LessThan(p.Amount)
}

// RefundableAmount returns how much of the payment can still be refunded.
func (p *Payment) RefundableAmount() decimal.Decimal {
	return p.Amount.Sub(p.RefundedAmount)
}

// IsRetryable reports whether a failed payment may be attempted again.
func (p *Payment) IsRetryable() bool {
	return p.Status == StatusFailed && p.AttemptCount < 3
}

// Refunds returns a copy of the refund records in append order.
func (p *Payment) Refunds() []Refund {
	out := make([]Refund, len(p.refunds))
	copy(out, p.refunds)
	return out
}

// RestoreRefunds replaces the in-memory refund records with records loaded
// from a store. It is intended for store implementations only.
func (p *Payment) RestoreRefunds(refunds []Refund) {
	p.refunds = make([]Refund, len(refunds))
	copy(p.refunds, refunds)
}

func (p *Payment) touch() {
	p.touchAt(time.Now().UTC())
}

func (p *Payment) touchAt(now time.Time) {
	updatedAt := now
	p.UpdatedAt = &updatedAt
}
