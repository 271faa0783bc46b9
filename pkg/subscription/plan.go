package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan is a catalog entry describing price, billing cadence and feature
// entitlements. The ID should be set to the payment provider's price ID for
// paid plans so checkout and webhook processing can map directly to it.
//
// Plans are created once by an administrator and soft-deactivated rather
// than deleted; price and cadence change only through UpdatePricing and
// UpdateBilling.
type Plan struct {
	ID              string
	Name            string
	Description     string
	Price           decimal.Decimal
	Currency        string
	Interval        BillingInterval
	IntervalCount   int
	TrialPeriodDays int // 0 means no trial

	// Usage limits; nil means unlimited.
	MaxUsers     *int
	MaxProjects  *int
	MaxStorageGB *int

	HasAdvancedReporting bool
	HasAPIAccess         bool
	HasPrioritySupport   bool

	IsActive  bool
	IsPublic  bool
	SortOrder int

	// Opaque external provider identifiers, pass-through storage only.
	StripeProductID string
	StripePriceID   string
	PayPalPlanID    string

	Metadata string // JSON blob for extensibility

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// NewPlan creates an active, public plan with the given pricing. The ID is
// the catalog key, typically the provider's price identifier.
func NewPlan(id, name, description string, price decimal.Decimal, currency string, interval BillingInterval) *Plan {
	return &Plan{
		ID:            id,
		Name:          name,
		Description:   description,
		Price:         price,
		Currency:      currency,
		Interval:      interval,
		IntervalCount: 1,
		IsActive:      true,
		IsPublic:      true,
		CreatedAt:     time.Now().UTC(),
	}
}

// UpdatePricing replaces the plan's price and currency. Existing
// subscriptions keep their snapshotted price and are not affected.
func (p *Plan) UpdatePricing(price decimal.Decimal, currency string) {
	p.Price = price
	p.Currency = currency
	p.touch()
}

// UpdateDetails replaces the display name and description.
func (p *Plan) UpdateDetails(name, description string) {
	p.Name = name
	p.Description = description
	p.touch()
}

// UpdateBilling replaces the billing cadence.
func (p *Plan) UpdateBilling(interval BillingInterval, intervalCount int) {
	p.Interval = interval
	p.IntervalCount = intervalCount
	p.touch()
}

// SetTrialPeriod sets the trial length in days; 0 disables the trial.
func (p *Plan) SetTrialPeriod(days int) {
	p.TrialPeriodDays = days
	p.touch()
}

// UpdateLimits replaces the usage limits. Nil means unlimited.
func (p *Plan) UpdateLimits(maxUsers, maxProjects, maxStorageGB *int) {
	p.MaxUsers = maxUsers
	p.MaxProjects = maxProjects
	p.MaxStorageGB = maxStorageGB
	p.touch()
}

// UpdateFeatures replaces the boolean feature entitlements.
func (p *Plan) UpdateFeatures(advancedReporting, apiAccess, prioritySupport bool) {
	p.HasAdvancedReporting = advancedReporting
	p.HasAPIAccess = apiAccess
	p.HasPrioritySupport = prioritySupport
	p.touch()
}

// Activate makes the plan available for new enrollments.
func (p *Plan) Activate() {
	p.IsActive = true
	p.touch()
}

// Deactivate soft-disables the plan. Existing subscriptions are unaffected.
func (p *Plan) Deactivate() {
	p.IsActive = false
	p.touch()
}

// SetVisibility controls whether the plan is listed for self-service signup.
func (p *Plan) SetVisibility(public bool) {
	p.IsPublic = public
	p.touch()
}

// SetSortOrder sets the display ordering weight.
func (p *Plan) SetSortOrder(order int) {
	p.SortOrder = order
	p.touch()
}

// SetStripeIDs stores the Stripe product and price identifiers.
func (p *Plan) SetStripeIDs(productID, priceID string) {
	p.StripeProductID = productID
	p.StripePriceID = priceID
	p.touch()
}

// SetPayPalPlanID stores the PayPal plan identifier.
func (p *Plan) SetPayPalPlanID(planID string) {
	p.PayPalPlanID = planID
	p.touch()
}

// SetMetadata replaces the opaque metadata blob.
func (p *Plan) SetMetadata(metadata string) {
	p.Metadata = metadata
	p.touch()
}

// HasTrial reports whether the plan includes a trial period.
func (p *Plan) HasTrial() bool {
	return p.TrialPeriodDays > 0
}

// TrialEndsAt calculates when a trial started at the given time ends.
// Returns startedAt unchanged when the plan has no trial.
func (p *Plan) TrialEndsAt(startedAt time.Time) time.Time {
	if p.TrialPeriodDays <= 0 {
		return startedAt
	}
	return startedAt.AddDate(0, 0, p.TrialPeriodDays).UTC()
}

// MonthlyEquivalentPrice normalizes the plan price to a per-month figure
// for display and plan comparison.
func (p *Plan) MonthlyEquivalentPrice() decimal.Decimal {
	switch p.Interval {
	case IntervalWeekly:
		return p.Price.Mul(decimal.NewFromFloat(4.33))
	case IntervalQuarterly:
		return p.Price.Div(decimal.NewFromInt(3))
	case IntervalSemiAnnual:
		return p.Price.Div(decimal.NewFromInt(6))
	case IntervalAnnual:
		return p.Price.Div(decimal.NewFromInt(12))
	default:
		return p.Price
	}
}

func (p *Plan) touch() {
	now := time.Now().UTC()
	p.UpdatedAt = &now
}
