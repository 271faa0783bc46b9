package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/payment"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("save and get round trip with refunds", func(t *testing.T) {
		t.Parallel()
		store := payment.NewMemoryStore()
		p := newTestPayment("100")
		p.MarkAsCompleted("ext_1")
		require.NoError(t, p.ProcessRefund(decimal.RequireFromString("25"), "partial"))

		require.NoError(t, store.Save(ctx, p))

		got, err := store.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPartiallyRefunded, got.Status)
		require.Len(t, got.Refunds(), 1)
	})

	t.Run("get missing returns not found", func(t *testing.T) {
		t.Parallel()
		store := payment.NewMemoryStore()

		_, err := store.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
	})

	t.Run("get by transaction ID", func(t *testing.T) {
		t.Parallel()
		store := payment.NewMemoryStore()
		p := newTestPayment("29.99")
		require.NoError(t, store.Save(ctx, p))

		got, err := store.GetByTransactionID(ctx, p.TransactionID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)

		_, err = store.GetByTransactionID(ctx, "TXN_19700101_DEADBEEF")
		assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
	})

	t.Run("list by subscription newest first", func(t *testing.T) {
		t.Parallel()
		store := payment.NewMemoryStore()
		subID, userID := uuid.New(), uuid.New()
		base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

		for i := 0; i < 3; i++ {
			p := payment.NewAt(subID, userID, decimal.RequireFromString("29.99"),
				"USD", payment.MethodCreditCard, "", base.AddDate(0, i, 0))
			require.NoError(t, store.Save(ctx, p))
		}
		other := newTestPayment("9.99")
		require.NoError(t, store.Save(ctx, other))

		got, err := store.ListBySubscription(ctx, subID)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.True(t, got[0].PaymentDate.After(got[1].PaymentDate))
		assert.True(t, got[1].PaymentDate.After(got[2].PaymentDate))
	})

	t.Run("stored state is isolated from caller mutations", func(t *testing.T) {
		t.Parallel()
		store := payment.NewMemoryStore()
		p := newTestPayment("100")
		require.NoError(t, store.Save(ctx, p))

		p.MarkAsFailed("after save", "")

		got, err := store.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPending, got.Status)
	})
}
