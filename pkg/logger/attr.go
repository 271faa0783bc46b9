package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// A nil error yields an empty Attr that slog drops silently.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// SubscriptionID records the subscription identifier under the key "subscription_id".
func SubscriptionID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("subscription_id", id)
}

// PaymentID records the payment identifier under the key "payment_id".
func PaymentID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("payment_id", id)
}

// PlanID records the plan identifier under the key "plan_id".
func PlanID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("plan_id", id)
}

// NotificationID records the notification identifier under the key "notification_id".
func NotificationID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("notification_id", id)
}

// TransactionID records the payment transaction tag under the key "transaction_id".
func TransactionID(id string) slog.Attr {
	return slog.String("transaction_id", id)
}

// Status records an entity status under the key "status".
func Status(status any) slog.Attr {
	if status == nil {
		return slog.Attr{}
	}
	return slog.Any("status", status)
}

// Amount records a monetary amount with its currency.
func Amount(amount, currency string) slog.Attr {
	return slog.Attr{Key: "amount", Value: slog.GroupValue(
		slog.String("value", amount),
		slog.String("currency", currency),
	)}
}

// Channel records a notification delivery channel under the key "channel".
func Channel(channel any) slog.Attr {
	if channel == nil {
		return slog.Attr{}
	}
	return slog.Any("channel", channel)
}
