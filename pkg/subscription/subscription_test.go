package subscription_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/subscription"
)

func TestNew(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("29.99")

	t.Run("starts active without a trial", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()

		sub := subscription.New(userID, "pri_pro", start, price, "USD", nil)

		assert.NotEqual(t, uuid.Nil, sub.ID)
		assert.Equal(t, userID, sub.UserID)
		assert.Equal(t, "pri_pro", sub.PlanID)
		assert.Equal(t, subscription.StatusActive, sub.Status)
		assert.Equal(t, start, sub.StartDate)
		assert.Equal(t, start, sub.CurrentPeriodStart)
		assert.Equal(t, start.AddDate(0, 1, 0), sub.CurrentPeriodEnd)
		require.NotNil(t, sub.NextBillingDate)
		assert.Equal(t, start.AddDate(0, 1, 0), *sub.NextBillingDate)
		assert.Equal(t, 1, sub.Quantity)
		assert.True(t, price.Equal(sub.CurrentPrice))
		assert.Empty(t, sub.History())
	})

	t.Run("starts in trial when trial end is set", func(t *testing.T) {
		t.Parallel()
		trialEnd := start.AddDate(0, 0, 14)

		sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", &trialEnd)

		assert.Equal(t, subscription.StatusTrial, sub.Status)
		require.NotNil(t, sub.TrialEndDate)
		assert.Equal(t, trialEnd, *sub.TrialEndDate)
		// Billing starts when the trial ends, not at the period boundary
		require.NotNil(t, sub.NextBillingDate)
		assert.Equal(t, trialEnd, *sub.NextBillingDate)
	})

	t.Run("does not alias the caller's trial end pointer", func(t *testing.T) {
		t.Parallel()
		trialEnd := start.AddDate(0, 0, 14)

		sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", &trialEnd)
		trialEnd = trialEnd.AddDate(1, 0, 0)

		assert.Equal(t, start.AddDate(0, 0, 14), *sub.TrialEndDate)
		assert.Equal(t, start.AddDate(0, 0, 14), *sub.NextBillingDate)
	})
}

func TestSubscription_UpdateStatusAt(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("29.99")

	t.Run("appends exactly one history record per change", func(t *testing.T) {
		t.Parallel()
		sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", nil)

		sub.UpdateStatusAt(subscription.StatusPastDue, "payment overdue", start.AddDate(0, 1, 0))
		sub.UpdateStatusAt(subscription.StatusActive, "payment received", start.AddDate(0, 1, 2))

		history := sub.History()
		require.Len(t, history, 2)
		assert.Equal(t, subscription.StatusActive, history[0].FromStatus)
		assert.Equal(t, subscription.StatusPastDue, history[0].ToStatus)
		assert.Equal(t, "payment overdue", history[0].Reason)
		assert.Equal(t, subscription.StatusPastDue, history[1].FromStatus)
		assert.Equal(t, subscription.StatusActive, history[1].ToStatus)
	})

	t.Run("records history even when status does not change", func(t *testing.T) {
		t.Parallel()
		sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", nil)

		sub.UpdateStatusAt(subscription.StatusActive, "noop", start)

		history := sub.History()
		require.Len(t, history, 1)
		assert.Equal(t, subscription.StatusActive, history[0].FromStatus)
		assert.Equal(t, subscription.StatusActive, history[0].ToStatus)
	})

	t.Run("first move to cancelled stamps cancellation fields", func(t *testing.T) {
		t.Parallel()
		sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", nil)
		at := start.AddDate(0, 0, 5)

		sub.UpdateStatusAt(subscription.StatusCancelled, "too expensive", at)

		require.NotNil(t, sub.CancelledAt)
		assert.Equal(t, at, *sub.CancelledAt)
		assert.Equal(t, "too expensive", sub.CancellationReason)
	})

	t.Run("history copy is isolated from the aggregate", func(t *testing.T) {
		t.Parallel()
		sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", nil)
		sub.UpdateStatusAt(subscription.StatusSuspended, "fraud check", start)

		history := sub.History()
		history[0].Reason = "mutated"

		assert.Equal(t, "fraud check", sub.History()[0].Reason)
	})
}

func TestSubscription_CancelAt(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("29.99")

	t.Run("immediate cancellation sets end date and history", func(t *testing.T) {
		t.Parallel()
		sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", nil)
		at := start.AddDate(0, 0, 3)

		sub.CancelAt(false, "switching providers", at)

		assert.Equal(t, subscription.StatusCancelled, sub.Status)
		require.NotNil(t, sub.EndDate)
		assert.Equal(t, at, *sub.EndDate)
		assert.True(t, sub.IsCancelled())
		require.Len(t, sub.History(), 1)
	})

	t.Run("period-end cancellation keeps current status", func(t *testing.T) {
		t.Parallel()
		sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", nil)

		sub.CancelAt(true, "not renewing", start.AddDate(0, 0, 3))

		assert.Equal(t, subscription.StatusActive, sub.Status)
		require.NotNil(t, sub.CancelAtPeriodEnd)
		assert.Equal(t, sub.CurrentPeriodEnd, *sub.CancelAtPeriodEnd)
		assert.Equal(t, "not renewing", sub.CancellationReason)
		// No status change happened, so no history entry
		assert.Empty(t, sub.History())
		assert.True(t, sub.WillCancelAtPeriodEndAt(start.AddDate(0, 0, 4)))
		assert.False(t, sub.WillCancelAtPeriodEndAt(start.AddDate(0, 2, 0)))
	})
}

func TestSubscription_ReactivateAt(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("29.99")

	sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", nil)
	sub.CancelAt(false, "changed my mind", start.AddDate(0, 0, 1))
	sub.RecordFailedPaymentAt(start.AddDate(0, 0, 2))

	sub.ReactivateAt(start.AddDate(0, 0, 3))

	assert.Equal(t, subscription.StatusActive, sub.Status)
	assert.Nil(t, sub.CancelledAt)
	assert.Nil(t, sub.CancelAtPeriodEnd)
	assert.Nil(t, sub.EndDate)
	assert.Empty(t, sub.CancellationReason)
	assert.Zero(t, sub.FailedPaymentAttempts)

	history := sub.History()
	require.Len(t, history, 3)
	last := history[len(history)-1]
	assert.Equal(t, subscription.StatusActive, last.ToStatus)
	assert.Equal(t, "reactivated", last.Reason)
}

func TestSubscription_RecordFailedPaymentAt(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("29.99")

	t.Run("early failures suspend the subscription", func(t *testing.T) {
		t.Parallel()
		sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", nil)
		at := start.AddDate(0, 1, 1)

		sub.RecordFailedPaymentAt(at)

		assert.Equal(t, 1, sub.FailedPaymentAttempts)
		assert.Equal(t, subscription.StatusSuspended, sub.Status)
		require.NotNil(t, sub.LastPaymentAttemptAt)
		assert.Equal(t, at, *sub.LastPaymentAttemptAt)
		assert.Nil(t, sub.GracePeriodEndDate)

		sub.RecordFailedPaymentAt(at.AddDate(0, 0, 1))
		assert.Equal(t, 2, sub.FailedPaymentAttempts)
		assert.Equal(t, subscription.StatusSuspended, sub.Status)
	})

	t.Run("third failure escalates to past due with grace period", func(t *testing.T) {
		t.Parallel()
		sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", nil)
		at := start.AddDate(0, 1, 0)

		sub.RecordFailedPaymentAt(at)
		sub.RecordFailedPaymentAt(at.AddDate(0, 0, 1))
		sub.RecordFailedPaymentAt(at.AddDate(0, 0, 2))

		assert.Equal(t, 3, sub.FailedPaymentAttempts)
		assert.Equal(t, subscription.StatusPastDue, sub.Status)
		assert.Equal(t, 7, sub.GracePeriodDays)
		require.NotNil(t, sub.GracePeriodEndDate)
		assert.Equal(t, at.AddDate(0, 0, 2).AddDate(0, 0, 7), *sub.GracePeriodEndDate)
		assert.True(t, sub.IsInGracePeriodAt(at.AddDate(0, 0, 5)))
		assert.False(t, sub.IsInGracePeriodAt(at.AddDate(0, 0, 20)))
		require.Len(t, sub.History(), 3)
	})
}

func TestSubscription_RenewPeriodAt(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("29.99")

	t.Run("advances period and billing date", func(t *testing.T) {
		t.Parallel()
		sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", nil)
		oldEnd := sub.CurrentPeriodEnd

		sub.RenewPeriodAt(oldEnd)

		assert.Equal(t, oldEnd, sub.CurrentPeriodStart)
		assert.Equal(t, oldEnd.AddDate(0, 1, 0), sub.CurrentPeriodEnd)
		require.NotNil(t, sub.NextBillingDate)
		assert.Equal(t, sub.CurrentPeriodEnd, *sub.NextBillingDate)
		// No status change, no history
		assert.Empty(t, sub.History())
	})

	t.Run("recovers past due subscription to active", func(t *testing.T) {
		t.Parallel()
		sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", nil)
		at := start.AddDate(0, 1, 0)
		sub.RecordFailedPaymentAt(at)
		sub.RecordFailedPaymentAt(at)
		sub.RecordFailedPaymentAt(at)
		require.Equal(t, subscription.StatusPastDue, sub.Status)

		sub.RenewPeriodAt(at.AddDate(0, 0, 3))

		assert.Equal(t, subscription.StatusActive, sub.Status)
		assert.Zero(t, sub.FailedPaymentAttempts)
		assert.Nil(t, sub.GracePeriodEndDate)
		last := sub.History()[len(sub.History())-1]
		assert.Equal(t, "period renewed", last.Reason)
	})
}

func TestSubscription_UpdateQuantity(t *testing.T) {
	t.Parallel()

	sub := subscription.New(uuid.New(), "pri_pro",
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		decimal.RequireFromString("10.00"), "USD", nil)

	require.NoError(t, sub.UpdateQuantity(5))
	assert.Equal(t, 5, sub.Quantity)
	assert.True(t, decimal.RequireFromString("50.00").Equal(sub.TotalAmount()))

	assert.ErrorIs(t, sub.UpdateQuantity(0), subscription.ErrQuantityNotPositive)
	assert.ErrorIs(t, sub.UpdateQuantity(-2), subscription.ErrQuantityNotPositive)
	assert.Equal(t, 5, sub.Quantity)
}

func TestSubscription_QueryHelpers(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("29.99")

	t.Run("trial state is time dependent", func(t *testing.T) {
		t.Parallel()
		trialEnd := start.AddDate(0, 0, 14)
		sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", &trialEnd)

		assert.True(t, sub.IsActive()) // trial counts as usable
		assert.True(t, sub.IsInTrialAt(start.AddDate(0, 0, 7)))
		assert.False(t, sub.IsInTrialAt(start.AddDate(0, 0, 15)))
	})

	t.Run("expiry uses end date", func(t *testing.T) {
		t.Parallel()
		sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", nil)
		sub.CancelAt(false, "done", start.AddDate(0, 0, 10))

		assert.False(t, sub.IsExpiredAt(start.AddDate(0, 0, 9)))
		assert.True(t, sub.IsExpiredAt(start.AddDate(0, 0, 11)))
	})

	t.Run("days until expiry never goes negative", func(t *testing.T) {
		t.Parallel()
		sub := subscription.New(uuid.New(), "pri_pro", start, price, "USD", nil)

		assert.Equal(t, 0, sub.DaysUntilExpiryAt(start.AddDate(0, 2, 0)))
		assert.Positive(t, sub.DaysUntilExpiryAt(start.AddDate(0, 0, 1)))
	})
}
