package subscription

import (
	"context"

	"github.com/google/uuid"
)

// Store defines subscription persistence. Implementations must persist the
// history records returned by Subscription.History alongside the aggregate
// and restore them on load.
type Store interface {
	// Get retrieves a subscription by ID.
	// Returns ErrSubscriptionNotFound if it does not exist.
	Get(ctx context.Context, id uuid.UUID) (*Subscription, error)

	// GetByUser retrieves a user's subscription. Each user has at most one.
	// Returns ErrSubscriptionNotFound if none exists.
	GetByUser(ctx context.Context, userID uuid.UUID) (*Subscription, error)

	// Save creates or updates a subscription together with its history.
	Save(ctx context.Context, sub *Subscription) error

	// Delete hard-deletes a subscription and its history. Normal lifecycle
	// flows never delete; this exists for administrative cleanup only.
	Delete(ctx context.Context, id uuid.UUID) error
}
