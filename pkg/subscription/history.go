package subscription

import (
	"time"

	"github.com/google/uuid"
)

// HistoryRecord is one entry in a subscription's append-only audit trail.
// A record is written for every status change and never modified afterwards.
type HistoryRecord struct {
	ID             uuid.UUID
	SubscriptionID uuid.UUID
	FromStatus     Status
	ToStatus       Status
	Reason         string
	ChangedAt      time.Time
}

func newHistoryRecord(subscriptionID uuid.UUID, from, to Status, reason string, at time.Time) HistoryRecord {
	return HistoryRecord{
		ID:             uuid.New(),
		SubscriptionID: subscriptionID,
		FromStatus:     from,
		ToStatus:       to,
		Reason:         reason,
		ChangedAt:      at,
	}
}
