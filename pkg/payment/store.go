package payment

import (
	"context"

	"github.com/google/uuid"
)

// Store defines payment persistence. Implementations must persist the
// refund records returned by Payment.Refunds alongside the aggregate and
// restore them on load.
type Store interface {
	// Get retrieves a payment by ID.
	// Returns ErrPaymentNotFound if it does not exist.
	Get(ctx context.Context, id uuid.UUID) (*Payment, error)

	// GetByTransactionID retrieves a payment by its generated transaction tag.
	// Returns ErrPaymentNotFound if it does not exist.
	GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error)

	// ListBySubscription returns a subscription's payments, newest first.
	ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*Payment, error)

	// Save creates or updates a payment together with its refunds.
	Save(ctx context.Context, payment *Payment) error
}
