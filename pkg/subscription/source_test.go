package subscription_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/subscription"
)

func TestStaticSource_Load(t *testing.T) {
	t.Parallel()

	src := subscription.StaticSource{
		subscription.NewPlan("pri_basic", "Basic", "",
			decimal.RequireFromString("9.99"), "USD", subscription.IntervalMonthly),
		subscription.NewPlan("pri_pro", "Pro", "",
			decimal.RequireFromString("29.99"), "USD", subscription.IntervalMonthly),
	}

	plans, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Basic", plans["pri_basic"].Name)
	assert.Equal(t, "Pro", plans["pri_pro"].Name)
}

func TestFileSource_Load(t *testing.T) {
	t.Parallel()

	writeCatalog := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "plans.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("loads a full catalog", func(t *testing.T) {
		t.Parallel()
		path := writeCatalog(t, `
plans:
  - id: pri_basic
    name: Basic
    description: Starter tier
    price: "9.99"
    currency: USD
    interval: monthly
    trial_days: 14
    sort_order: 1
    max_users: 5
    features:
      api_access: true
  - id: pri_enterprise
    name: Enterprise
    price: "499"
    interval: annual
    public: false
    sort_order: 2
    features:
      advanced_reporting: true
      api_access: true
      priority_support: true
`)

		plans, err := subscription.FileSource{Path: path}.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, plans, 2)

		basic := plans["pri_basic"]
		require.NotNil(t, basic)
		assert.Equal(t, "Basic", basic.Name)
		assert.True(t, decimal.RequireFromString("9.99").Equal(basic.Price))
		assert.Equal(t, subscription.IntervalMonthly, basic.Interval)
		assert.Equal(t, 14, basic.TrialPeriodDays)
		assert.True(t, basic.IsPublic)
		require.NotNil(t, basic.MaxUsers)
		assert.Equal(t, 5, *basic.MaxUsers)
		assert.True(t, basic.HasAPIAccess)
		assert.False(t, basic.HasPrioritySupport)

		ent := plans["pri_enterprise"]
		require.NotNil(t, ent)
		assert.Equal(t, subscription.IntervalAnnual, ent.Interval)
		assert.False(t, ent.IsPublic)
		assert.Equal(t, "USD", ent.Currency) // defaulted
		assert.True(t, ent.HasPrioritySupport)
	})

	t.Run("defaults interval to monthly", func(t *testing.T) {
		t.Parallel()
		path := writeCatalog(t, `
plans:
  - id: pri_x
    name: X
    price: "10"
`)

		plans, err := subscription.FileSource{Path: path}.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, subscription.IntervalMonthly, plans["pri_x"].Interval)
	})

	t.Run("rejects missing id", func(t *testing.T) {
		t.Parallel()
		path := writeCatalog(t, `
plans:
  - name: Nameless
    price: "10"
`)

		_, err := subscription.FileSource{Path: path}.Load(context.Background())
		assert.ErrorIs(t, err, subscription.ErrFailedToLoadPlans)
	})

	t.Run("rejects invalid price", func(t *testing.T) {
		t.Parallel()
		path := writeCatalog(t, `
plans:
  - id: pri_x
    price: "not-a-number"
`)

		_, err := subscription.FileSource{Path: path}.Load(context.Background())
		assert.ErrorIs(t, err, subscription.ErrFailedToLoadPlans)
	})

	t.Run("rejects invalid interval", func(t *testing.T) {
		t.Parallel()
		path := writeCatalog(t, `
plans:
  - id: pri_x
    price: "10"
    interval: fortnightly
`)

		_, err := subscription.FileSource{Path: path}.Load(context.Background())
		assert.ErrorIs(t, err, subscription.ErrFailedToLoadPlans)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := subscription.FileSource{Path: "/nonexistent/plans.yaml"}.Load(context.Background())
		assert.ErrorIs(t, err, subscription.ErrFailedToLoadPlans)
	})
}
