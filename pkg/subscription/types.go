package subscription

// Status represents the current state of a subscription.
type Status string

const (
	StatusTrial     Status = "trial"
	StatusActive    Status = "active"
	StatusPastDue   Status = "past_due"
	StatusSuspended Status = "suspended"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusTrial, StatusActive, StatusPastDue, StatusSuspended, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// BillingInterval represents the cadence at which a plan is charged.
type BillingInterval string

const (
	IntervalWeekly     BillingInterval = "weekly"
	IntervalMonthly    BillingInterval = "monthly"
	IntervalQuarterly  BillingInterval = "quarterly"
	IntervalSemiAnnual BillingInterval = "semiannual"
	IntervalAnnual     BillingInterval = "annual"
	IntervalOneTime    BillingInterval = "one_time"
)

// IsValid reports whether i is one of the known billing intervals.
func (i BillingInterval) IsValid() bool {
	switch i {
	case IntervalWeekly, IntervalMonthly, IntervalQuarterly, IntervalSemiAnnual, IntervalAnnual, IntervalOneTime:
		return true
	}
	return false
}
