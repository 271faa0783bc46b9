package subscription_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/subscription"
)

func TestNewPlan(t *testing.T) {
	t.Parallel()

	plan := subscription.NewPlan("pri_basic", "Basic", "Starter tier",
		decimal.RequireFromString("9.99"), "USD", subscription.IntervalMonthly)

	assert.Equal(t, "pri_basic", plan.ID)
	assert.Equal(t, subscription.IntervalMonthly, plan.Interval)
	assert.Equal(t, 1, plan.IntervalCount)
	assert.True(t, plan.IsActive)
	assert.True(t, plan.IsPublic)
	assert.False(t, plan.HasTrial())
	assert.Nil(t, plan.MaxUsers) // nil means unlimited
}

func TestPlan_Trial(t *testing.T) {
	t.Parallel()

	plan := subscription.NewPlan("pri_pro", "Pro", "",
		decimal.RequireFromString("29.99"), "USD", subscription.IntervalMonthly)
	plan.SetTrialPeriod(14)

	assert.True(t, plan.HasTrial())

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, start.AddDate(0, 0, 14), plan.TrialEndsAt(start))
}

func TestPlan_MonthlyEquivalentPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		price    string
		interval subscription.BillingInterval
		want     string
	}{
		{"monthly is unchanged", "30", subscription.IntervalMonthly, "30"},
		{"weekly scales by average weeks per month", "10", subscription.IntervalWeekly, "43.3"},
		{"quarterly divides by three", "90", subscription.IntervalQuarterly, "30"},
		{"semiannual divides by six", "120", subscription.IntervalSemiAnnual, "20"},
		{"annual divides by twelve", "120", subscription.IntervalAnnual, "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			plan := subscription.NewPlan("pri_x", "X", "",
				decimal.RequireFromString(tt.price), "USD", tt.interval)

			got := plan.MonthlyEquivalentPrice()
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got),
				"want %s, got %s", tt.want, got)
		})
	}
}

func TestPlan_Mutators(t *testing.T) {
	t.Parallel()

	plan := subscription.NewPlan("pri_pro", "Pro", "",
		decimal.RequireFromString("29.99"), "USD", subscription.IntervalMonthly)
	require.Nil(t, plan.UpdatedAt)

	plan.Deactivate()
	assert.False(t, plan.IsActive)
	assert.NotNil(t, plan.UpdatedAt)

	plan.Activate()
	assert.True(t, plan.IsActive)

	plan.UpdatePricing(decimal.RequireFromString("39.99"), "EUR")
	assert.Equal(t, "EUR", plan.Currency)
	assert.True(t, decimal.RequireFromString("39.99").Equal(plan.Price))

	users, projects := 10, 25
	plan.UpdateLimits(&users, &projects, nil)
	require.NotNil(t, plan.MaxUsers)
	assert.Equal(t, 10, *plan.MaxUsers)
	assert.Nil(t, plan.MaxStorageGB)
}
