package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/subscription"
)

func newTestSubscription(t *testing.T) *subscription.Subscription {
	t.Helper()
	return subscription.New(uuid.New(), "pri_pro",
		time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		decimal.RequireFromString("29.99"), "USD", nil)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("save and get round trip", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		sub := newTestSubscription(t)
		sub.UpdateStatus(subscription.StatusPastDue, "payment overdue")

		require.NoError(t, store.Save(ctx, sub))

		got, err := store.Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)
		assert.Equal(t, subscription.StatusPastDue, got.Status)
		require.Len(t, got.History(), 1)
	})

	t.Run("get by user", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		sub := newTestSubscription(t)
		require.NoError(t, store.Save(ctx, sub))

		got, err := store.GetByUser(ctx, sub.UserID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)

		_, err = store.GetByUser(ctx, uuid.New())
		assert.ErrorIs(t, err, subscription.ErrSubscriptionNotFound)
	})

	t.Run("get missing returns not found", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()

		_, err := store.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, subscription.ErrSubscriptionNotFound)
	})

	t.Run("stored state is isolated from caller mutations", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		sub := newTestSubscription(t)
		require.NoError(t, store.Save(ctx, sub))

		sub.UpdateStatus(subscription.StatusCancelled, "after save")

		got, err := store.Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusActive, got.Status)
		assert.Empty(t, got.History())

		// Mutating a loaded copy must not leak back either
		got.UpdateStatus(subscription.StatusSuspended, "on the copy")
		again, err := store.Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusActive, again.Status)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		sub := newTestSubscription(t)
		require.NoError(t, store.Save(ctx, sub))

		require.NoError(t, store.Delete(ctx, sub.ID))
		_, err := store.Get(ctx, sub.ID)
		assert.ErrorIs(t, err, subscription.ErrSubscriptionNotFound)

		assert.ErrorIs(t, store.Delete(ctx, sub.ID), subscription.ErrSubscriptionNotFound)
	})
}
