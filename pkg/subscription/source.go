package subscription

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PlanSource loads the plan catalog. The catalog is read once at service
// construction and cached in memory.
type PlanSource interface {
	Load(ctx context.Context) (map[string]*Plan, error)
}

// StaticSource serves a fixed set of plans, mainly for tests and examples.
type StaticSource []*Plan

func (s StaticSource) Load(_ context.Context) (map[string]*Plan, error) {
	plans := make(map[string]*Plan, len(s))
	for _, p := range s {
		plans[p.ID] = p
	}
	return plans, nil
}

// FileSource loads the plan catalog from a YAML file.
//
// Expected layout:
//
//	plans:
//	  - id: price_basic_monthly
//	    name: Basic
//	    price: "29.99"
//	    currency: USD
//	    interval: monthly
//	    trial_days: 14
//	    features:
//	      api_access: true
type FileSource struct {
	Path string
}

type planFile struct {
	Plans []planEntry `yaml:"plans"`
}

type planEntry struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Price         string `yaml:"price"`
	Currency      string `yaml:"currency"`
	Interval      string `yaml:"interval"`
	IntervalCount int    `yaml:"interval_count"`
	TrialDays     int    `yaml:"trial_days"`
	Public        *bool  `yaml:"public"`
	SortOrder     int    `yaml:"sort_order"`

	MaxUsers     *int `yaml:"max_users"`
	MaxProjects  *int `yaml:"max_projects"`
	MaxStorageGB *int `yaml:"max_storage_gb"`

	Features struct {
		AdvancedReporting bool `yaml:"advanced_reporting"`
		APIAccess         bool `yaml:"api_access"`
		PrioritySupport   bool `yaml:"priority_support"`
	} `yaml:"features"`

	StripeProductID string `yaml:"stripe_product_id"`
	StripePriceID   string `yaml:"stripe_price_id"`
	PayPalPlanID    string `yaml:"paypal_plan_id"`
}

func (s FileSource) Load(_ context.Context) (map[string]*Plan, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	var file planFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	plans := make(map[string]*Plan, len(file.Plans))
	for _, entry := range file.Plans {
		plan, err := entry.toPlan()
		if err != nil {
			return nil, errors.Join(ErrFailedToLoadPlans, err)
		}
		plans[plan.ID] = plan
	}
	return plans, nil
}

func (e planEntry) toPlan() (*Plan, error) {
	if e.ID == "" {
		return nil, fmt.Errorf("plan entry is missing an id")
	}

	price := decimal.Zero
	if e.Price != "" {
		var err error
		price, err = decimal.NewFromString(e.Price)
		if err != nil {
			return nil, fmt.Errorf("plan %s has invalid price %q: %w", e.ID, e.Price, err)
		}
	}

	interval := BillingInterval(e.Interval)
	if e.Interval == "" {
		interval = IntervalMonthly
	}
	if !interval.IsValid() {
		return nil, fmt.Errorf("plan %s has invalid interval %q", e.ID, e.Interval)
	}

	currency := e.Currency
	if currency == "" {
		currency = "USD"
	}

	plan := NewPlan(e.ID, e.Name, e.Description, price, currency, interval)
	if e.IntervalCount > 0 {
		plan.IntervalCount = e.IntervalCount
	}
	plan.TrialPeriodDays = e.TrialDays
	if e.Public != nil {
		plan.IsPublic = *e.Public
	}
	plan.SortOrder = e.SortOrder
	plan.MaxUsers = e.MaxUsers
	plan.MaxProjects = e.MaxProjects
	plan.MaxStorageGB = e.MaxStorageGB
	plan.HasAdvancedReporting = e.Features.AdvancedReporting
	plan.HasAPIAccess = e.Features.APIAccess
	plan.HasPrioritySupport = e.Features.PrioritySupport
	plan.StripeProductID = e.StripeProductID
	plan.StripePriceID = e.StripePriceID
	plan.PayPalPlanID = e.PayPalPlanID
	return plan, nil
}

// validatePlans ensures catalog entries are internally consistent, catching
// configuration mistakes at startup rather than at enrollment time.
func validatePlans(plans map[string]*Plan) error {
	for id, plan := range plans {
		if plan.ID != id {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan ID mismatch: map key %s != plan.ID %s", id, plan.ID))
		}
		if plan.TrialPeriodDays < 0 {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has negative trial days: %d", id, plan.TrialPeriodDays))
		}
		if plan.Price.IsNegative() {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has negative price: %s", id, plan.Price))
		}
		if !plan.Interval.IsValid() {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has invalid interval: %s", id, plan.Interval))
		}
	}
	return nil
}
