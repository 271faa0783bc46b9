package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/logger"
)

func TestAttrConstructors(t *testing.T) {
	t.Parallel()

	t.Run("error attr", func(t *testing.T) {
		t.Parallel()
		err := errors.New("boom")
		attr := logger.Error(err)
		assert.Equal(t, "error", attr.Key)
		assert.Equal(t, err, attr.Value.Any())
	})

	t.Run("nil error yields empty attr", func(t *testing.T) {
		t.Parallel()
		attr := logger.Error(nil)
		assert.Equal(t, slog.Attr{}, attr)
	})

	t.Run("identifier attrs use stable keys", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "user_id", logger.UserID("u1").Key)
		assert.Equal(t, "subscription_id", logger.SubscriptionID("s1").Key)
		assert.Equal(t, "payment_id", logger.PaymentID("p1").Key)
		assert.Equal(t, "plan_id", logger.PlanID("pl1").Key)
		assert.Equal(t, "notification_id", logger.NotificationID("n1").Key)
		assert.Equal(t, "transaction_id", logger.TransactionID("TXN_1").Key)
	})

	t.Run("nil identifiers yield empty attrs", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, slog.Attr{}, logger.UserID(nil))
		assert.Equal(t, slog.Attr{}, logger.SubscriptionID(nil))
		assert.Equal(t, slog.Attr{}, logger.Status(nil))
	})

	t.Run("amount groups value and currency", func(t *testing.T) {
		t.Parallel()
		attr := logger.Amount("29.99", "USD")
		assert.Equal(t, "amount", attr.Key)
		group := attr.Value.Group()
		assert.Len(t, group, 2)
	})
}
