package subscription

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Subscription tracks a user's enrollment in a plan over time, including
// trial, grace period and cancellation semantics. Price and currency are
// snapshotted at enrollment so later plan price changes do not retroactively
// alter active subscriptions.
//
// Every status change appends exactly one HistoryRecord. The history is an
// aggregate-owned collection exposed only through History(), which returns
// a copy.
type Subscription struct {
	ID     uuid.UUID
	UserID uuid.UUID
	PlanID string
	Status Status

	StartDate          time.Time
	EndDate            *time.Time
	TrialEndDate       *time.Time
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time

	CancelledAt        *time.Time
	CancelAtPeriodEnd  *time.Time // set to CurrentPeriodEnd when a deferred cancel is requested
	CancellationReason string

	CurrentPrice decimal.Decimal
	Currency     string
	Quantity     int

	NextBillingDate       *time.Time
	GracePeriodDays       int
	GracePeriodEndDate    *time.Time
	FailedPaymentAttempts int
	LastPaymentAttemptAt  *time.Time

	// Opaque external provider identifiers, pass-through storage only.
	// ProviderSubscriptionID is the active provider's own subscription ID;
	// the Stripe/PayPal fields keep gateway-specific identifiers alongside.
	ProviderSubscriptionID string
	StripeSubscriptionID   string
	StripeCustomerID       string
	PayPalSubscriptionID   string
	PayPalPayerID          string

	Notes    string
	Metadata string // JSON blob for extensibility

	CreatedAt time.Time
	UpdatedAt *time.Time

	history []HistoryRecord
}

// New creates a subscription starting at startDate with the given price
// snapshot. A non-nil trialEnd puts the subscription into trial; otherwise
// it starts active. The first billing period runs from startDate to
// startDate plus one billing interval.
func New(userID uuid.UUID, planID string, startDate time.Time, price decimal.Decimal, currency string, trialEnd *time.Time) *Subscription {
	s := &Subscription{
		ID:                 uuid.New(),
		UserID:             userID,
		PlanID:             planID,
		Status:             StatusActive,
		StartDate:          startDate,
		CurrentPeriodStart: startDate,
		CurrentPrice:       price,
		Currency:           currency,
		Quantity:           1,
		CreatedAt:          startDate,
	}
	s.CurrentPeriodEnd = nextBillingDate(startDate)
	// Copy the caller's trial end so later mutation of its pointer cannot
	// move the stored dates.
	if trialEnd != nil {
		s.Status = StatusTrial
		te := *trialEnd
		s.TrialEndDate = &te
		nb := *trialEnd
		s.NextBillingDate = &nb
	} else {
		end := s.CurrentPeriodEnd
		s.NextBillingDate = &end
	}
	return s
}

// nextBillingDate always advances by exactly one calendar month regardless
// of the plan's declared billing interval. This mirrors the reference
// behavior, which never consulted the interval; interval-aware billing is a
// deliberate behavior change that callers must not assume.
func nextBillingDate(from time.Time) time.Time {
	return from.AddDate(0, 1, 0)
}

// UpdateStatusAt moves the subscription to the given status at the given
// instant, always appending one history record. Moving to Cancelled for the
// first time also stamps CancelledAt and the cancellation reason.
func (s *Subscription) UpdateStatusAt(status Status, reason string, now time.Time) {
	previous := s.Status
	s.Status = status

	if status == StatusCancelled && s.CancelledAt == nil {
		cancelledAt := now
		s.CancelledAt = &cancelledAt
		s.CancellationReason = reason
	}

	s.touchAt(now)
	s.history = append(s.history, newHistoryRecord(s.ID, previous, status, reason, now))
}

// UpdateStatus is UpdateStatusAt with the current wall-clock time.
func (s *Subscription) UpdateStatus(status Status, reason string) {
	s.UpdateStatusAt(status, reason, time.Now().UTC())
}

// CancelAt requests cancellation. With atPeriodEnd true the subscription
// stays in its current status and only records that it will lapse at
// CurrentPeriodEnd; otherwise it is cancelled immediately and EndDate is set.
func (s *Subscription) CancelAt(atPeriodEnd bool, reason string, now time.Time) {
	if atPeriodEnd {
		periodEnd := s.CurrentPeriodEnd
		s.CancelAtPeriodEnd = &periodEnd
		s.CancellationReason = reason
		s.touchAt(now)
		return
	}

	s.UpdateStatusAt(StatusCancelled, reason, now)
	endDate := now
	s.EndDate = &endDate
}

// Cancel is CancelAt with the current wall-clock time.
func (s *Subscription) Cancel(atPeriodEnd bool, reason string) {
	s.CancelAt(atPeriodEnd, reason, time.Now().UTC())
}

// ReactivateAt returns the subscription to active, clearing all
// cancellation state and resetting the failed-payment counter.
func (s *Subscription) ReactivateAt(now time.Time) {
	s.UpdateStatusAt(StatusActive, "reactivated", now)
	s.CancelledAt = nil
	s.CancelAtPeriodEnd = nil
	s.CancellationReason = ""
	s.EndDate = nil
	s.FailedPaymentAttempts = 0
}

// Reactivate is ReactivateAt with the current wall-clock time.
func (s *Subscription) Reactivate() {
	s.ReactivateAt(time.Now().UTC())
}

// UpdatePricing replaces the price snapshot for future billing periods.
func (s *Subscription) UpdatePricing(price decimal.Decimal, currency string) {
	s.CurrentPrice = price
	s.Currency = currency
	s.touch()
}

// UpdateQuantity sets the seat/unit count. Quantity must be positive.
func (s *Subscription) UpdateQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrQuantityNotPositive
	}
	s.Quantity = quantity
	s.touch()
	return nil
}

// RenewPeriodAt advances the billing period by one interval, clears
// failed-payment bookkeeping and, when the subscription was past due or
// suspended, returns it to active.
func (s *Subscription) RenewPeriodAt(now time.Time) {
	s.CurrentPeriodStart = s.CurrentPeriodEnd
	s.CurrentPeriodEnd = nextBillingDate(s.CurrentPeriodStart)
	next := s.CurrentPeriodEnd
	s.NextBillingDate = &next
	s.FailedPaymentAttempts = 0
	s.GracePeriodEndDate = nil

	if s.Status == StatusPastDue || s.Status == StatusSuspended {
		s.UpdateStatusAt(StatusActive, "period renewed", now)
		return
	}
	s.touchAt(now)
}

// RenewPeriod is RenewPeriodAt with the current wall-clock time.
func (s *Subscription) RenewPeriod() {
	s.RenewPeriodAt(time.Now().UTC())
}

// RecordFailedPaymentAt increments the failed-attempt counter. The first
// two failures suspend the subscription; the third and subsequent failures
// move it to past due and open a 7-day grace period.
func (s *Subscription) RecordFailedPaymentAt(now time.Time) {
	s.FailedPaymentAttempts++
	attemptAt := now
	s.LastPaymentAttemptAt = &attemptAt

	if s.FailedPaymentAttempts >= 3 {
		s.UpdateStatusAt(StatusPastDue, "payment failed", now)
		s.SetGracePeriodAt(7, now)
		return
	}
	s.UpdateStatusAt(StatusSuspended, "payment failed", now)
}

// RecordFailedPayment is RecordFailedPaymentAt with the current wall-clock time.
func (s *Subscription) RecordFailedPayment() {
	s.RecordFailedPaymentAt(time.Now().UTC())
}

// SetGracePeriodAt opens a grace window of the given number of days from now.
func (s *Subscription) SetGracePeriodAt(days int, now time.Time) {
	s.GracePeriodDays = days
	end := now.AddDate(0, 0, days)
	s.GracePeriodEndDate = &end
	s.touchAt(now)
}

// SetGracePeriod is SetGracePeriodAt with the current wall-clock time.
func (s *Subscription) SetGracePeriod(days int) {
	s.SetGracePeriodAt(days, time.Now().UTC())
}

// SetProviderSubscriptionID stores the billing provider's subscription ID.
func (s *Subscription) SetProviderSubscriptionID(id string) {
	s.ProviderSubscriptionID = id
	s.touch()
}

// SetStripeIDs stores the Stripe subscription and customer identifiers.
func (s *Subscription) SetStripeIDs(subscriptionID, customerID string) {
	s.StripeSubscriptionID = subscriptionID
	s.StripeCustomerID = customerID
	s.touch()
}

// SetPayPalIDs stores the PayPal subscription and payer identifiers.
func (s *Subscription) SetPayPalIDs(subscriptionID, payerID string) {
	s.PayPalSubscriptionID = subscriptionID
	s.PayPalPayerID = payerID
	s.touch()
}

// SetNotes replaces the free-form notes.
func (s *Subscription) SetNotes(notes string) {
	s.Notes = notes
	s.touch()
}

// SetMetadata replaces the opaque metadata blob.
func (s *Subscription) SetMetadata(metadata string) {
	s.Metadata = metadata
	s.touch()
}

// IsActive reports whether the subscription is in a usable state
// (active or trialing).
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive || s.Status == StatusTrial
}

// IsInTrialAt reports whether the subscription is trialing with an
// unexpired trial window at the given instant.
func (s *Subscription) IsInTrialAt(now time.Time) bool {
	return s.Status == StatusTrial && s.TrialEndDate != nil && s.TrialEndDate.After(now)
}

// IsInTrial is IsInTrialAt with the current wall-clock time.
func (s *Subscription) IsInTrial() bool {
	return s.IsInTrialAt(time.Now().UTC())
}

// IsExpiredAt reports whether the subscription has expired, either by
// status or by a passed end date.
func (s *Subscription) IsExpiredAt(now time.Time) bool {
	if s.Status == StatusExpired {
		return true
	}
	return s.EndDate != nil && !s.EndDate.After(now)
}

// IsExpired is IsExpiredAt with the current wall-clock time.
func (s *Subscription) IsExpired() bool {
	return s.IsExpiredAt(time.Now().UTC())
}

// IsCancelled reports whether the subscription is cancelled.
func (s *Subscription) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// WillCancelAtPeriodEndAt reports whether a deferred cancellation is
// pending at the given instant.
func (s *Subscription) WillCancelAtPeriodEndAt(now time.Time) bool {
	return s.CancelAtPeriodEnd != nil && s.CancelAtPeriodEnd.After(now)
}

// WillCancelAtPeriodEnd is WillCancelAtPeriodEndAt with the current wall-clock time.
func (s *Subscription) WillCancelAtPeriodEnd() bool {
	return s.WillCancelAtPeriodEndAt(time.Now().UTC())
}

// IsInGracePeriodAt reports whether the grace window is open at the given instant.
func (s *Subscription) IsInGracePeriodAt(now time.Time) bool {
	return s.GracePeriodEndDate != nil && s.GracePeriodEndDate.After(now)
}

// IsInGracePeriod is IsInGracePeriodAt with the current wall-clock time.
func (s *Subscription) IsInGracePeriod() bool {
	return s.IsInGracePeriodAt(time.Now().UTC())
}

// DaysUntilExpiryAt returns whole days remaining until EndDate, or until
// CurrentPeriodEnd when no end date is set. Never negative.
func (s *Subscription) DaysUntilExpiryAt(now time.Time) int {
	expiry := s.CurrentPeriodEnd
	if s.EndDate != nil {
		expiry = *s.EndDate
	}
	days := int(expiry.Sub(now).Hours() / 24)
	return max(0, days)
}

// DaysUntilExpiry is DaysUntilExpiryAt with the current wall-clock time.
func (s *Subscription) DaysUntilExpiry() int {
	return s.DaysUntilExpiryAt(time.Now().UTC())
}

// TotalAmount returns the price snapshot multiplied by quantity.
func (s *Subscription) TotalAmount() decimal.Decimal {
	return s.CurrentPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// History returns a copy of the status-change audit trail in append order.
func (s *Subscription) History() []HistoryRecord {
	out := make([]HistoryRecord, len(s.history))
	copy(out, s.history)
	return out
}

// RestoreHistory replaces the in-memory audit trail with records loaded
// from a store. It is intended for store implementations only.
func (s *Subscription) RestoreHistory(records []HistoryRecord) {
	s.history = make([]HistoryRecord, len(records))
	copy(s.history, records)
}

func (s *Subscription) touch() {
	s.touchAt(time.Now().UTC())
}

func (s *Subscription) touchAt(now time.Time) {
	updatedAt := now
	s.UpdatedAt = &updatedAt
}
