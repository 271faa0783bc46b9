package billing

import "errors"

var (
	ErrNotRefundable    = errors.New("payment is not refundable")
	ErrSubscriptionIdle = errors.New("subscription is not billable")
)
