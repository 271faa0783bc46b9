package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/clock"
	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/notification"
)

// fakeDeliverer records deliveries for one channel and can be told to fail.
type fakeDeliverer struct {
	channel   notification.ChannelSet
	err       error
	delivered []uuid.UUID
}

func (d *fakeDeliverer) Channel() notification.ChannelSet { return d.channel }

func (d *fakeDeliverer) Deliver(ctx context.Context, n *notification.Notification) error {
	if d.err != nil {
		return d.err
	}
	d.delivered = append(d.delivered, n.ID)
	return nil
}

func TestManager_Send(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("stores and delivers in-app by default", func(t *testing.T) {
		t.Parallel()

		store := notification.NewMemoryStore()
		inApp := &fakeDeliverer{channel: notification.ChannelInApp}
		mgr := notification.NewManager(store, notification.NewMemoryPreferenceStore(),
			notification.WithDeliverer(inApp),
			notification.WithManagerClock(clock.Fixed(testTime)),
		)

		n := newTestNotification(t, notification.WithRecipient(uuid.New()))
		require.NoError(t, mgr.Send(ctx, n))

		assert.Equal(t, []uuid.UUID{n.ID}, inApp.delivered)
		assert.Equal(t, notification.StatusSent, n.Status)
		require.NotNil(t, n.SentAt)
		assert.Equal(t, testTime, *n.SentAt)

		stored, err := store.Get(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, notification.StatusSent, stored.Status)
	})

	t.Run("transient notifications are stored too", func(t *testing.T) {
		t.Parallel()

		store := notification.NewMemoryStore()
		inApp := &fakeDeliverer{channel: notification.ChannelInApp}
		mgr := notification.NewManager(store, notification.NewMemoryPreferenceStore(),
			notification.WithDeliverer(inApp),
			notification.WithManagerClock(clock.Fixed(testTime)),
		)

		n := newTestNotification(t,
			notification.WithRecipient(uuid.New()),
			notification.Transient(),
		)
		require.NoError(t, mgr.Send(ctx, n))

		stored, err := store.Get(ctx, n.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsPersistent)
		assert.Equal(t, notification.StatusSent, stored.Status)
	})

	t.Run("default preferences block email", func(t *testing.T) {
		t.Parallel()

		email := &fakeDeliverer{channel: notification.ChannelEmail}
		mgr := notification.NewManager(notification.NewMemoryStore(), notification.NewMemoryPreferenceStore(),
			notification.WithDeliverer(email),
			notification.WithManagerClock(clock.Fixed(testTime)),
		)

		n := newTestNotification(t,
			notification.WithRecipient(uuid.New()),
			notification.WithChannels(notification.ChannelEmail),
		)
		require.NoError(t, mgr.Send(ctx, n))

		// Gated, not failed: the notification waits in the store.
		assert.Empty(t, email.delivered)
		assert.Equal(t, notification.StatusPending, n.Status)
	})

	t.Run("stored preference opens extra channels", func(t *testing.T) {
		t.Parallel()

		prefs := notification.NewMemoryPreferenceStore()
		userID := uuid.New()
		pref := notification.NewPreferenceAt(userID, notification.TypeStockAlert, testTime)
		pref.UpdateChannels(notification.ChannelInApp | notification.ChannelEmail)
		require.NoError(t, prefs.Save(ctx, pref))

		email := &fakeDeliverer{channel: notification.ChannelEmail}
		mgr := notification.NewManager(notification.NewMemoryStore(), prefs,
			notification.WithDeliverer(email),
			notification.WithManagerClock(clock.Fixed(testTime)),
		)

		n := newTestNotification(t,
			notification.WithRecipient(userID),
			notification.WithChannels(notification.ChannelEmail),
		)
		require.NoError(t, mgr.Send(ctx, n))

		assert.Equal(t, []uuid.UUID{n.ID}, email.delivered)
		assert.Equal(t, notification.StatusSent, n.Status)
	})

	t.Run("deliverer ignores channels the notification lacks", func(t *testing.T) {
		t.Parallel()

		sms := &fakeDeliverer{channel: notification.ChannelSMS}
		mgr := notification.NewManager(notification.NewMemoryStore(), notification.NewMemoryPreferenceStore(),
			notification.WithDeliverer(sms),
			notification.WithManagerClock(clock.Fixed(testTime)),
		)

		n := newTestNotification(t, notification.WithRecipient(uuid.New()))
		require.NoError(t, mgr.Send(ctx, n))
		assert.Empty(t, sms.delivered)
	})

	t.Run("delivery failure marks failed but send succeeds", func(t *testing.T) {
		t.Parallel()

		store := notification.NewMemoryStore()
		inApp := &fakeDeliverer{channel: notification.ChannelInApp, err: errors.New("redis down")}
		mgr := notification.NewManager(store, notification.NewMemoryPreferenceStore(),
			notification.WithDeliverer(inApp),
			notification.WithManagerClock(clock.Fixed(testTime)),
		)

		n := newTestNotification(t, notification.WithRecipient(uuid.New()))
		require.NoError(t, mgr.Send(ctx, n))

		assert.Equal(t, notification.StatusFailed, n.Status)
		assert.Equal(t, "redis down", n.LastError)
		assert.Equal(t, 1, n.DeliveryAttempts)

		stored, err := store.Get(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, notification.StatusFailed, stored.Status)
	})

	t.Run("notifications without recipient skip preference checks", func(t *testing.T) {
		t.Parallel()

		inApp := &fakeDeliverer{channel: notification.ChannelInApp}
		mgr := notification.NewManager(notification.NewMemoryStore(), notification.NewMemoryPreferenceStore(),
			notification.WithDeliverer(inApp),
			notification.WithManagerClock(clock.Fixed(testTime)),
		)

		n := newTestNotification(t)
		require.NoError(t, mgr.Send(ctx, n))
		assert.Equal(t, []uuid.UUID{n.ID}, inApp.delivered)
	})
}

func TestManager_Retry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("retries a failed notification", func(t *testing.T) {
		t.Parallel()

		store := notification.NewMemoryStore()
		inApp := &fakeDeliverer{channel: notification.ChannelInApp, err: errors.New("redis down")}
		mgr := notification.NewManager(store, notification.NewMemoryPreferenceStore(),
			notification.WithDeliverer(inApp),
			notification.WithManagerClock(clock.Fixed(testTime)),
		)

		n := newTestNotification(t, notification.WithRecipient(uuid.New()))
		require.NoError(t, mgr.Send(ctx, n))
		require.Equal(t, notification.StatusFailed, n.Status)

		inApp.err = nil
		require.NoError(t, mgr.Retry(ctx, n.ID))

		stored, err := store.Get(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, notification.StatusSent, stored.Status)
	})

	t.Run("rejects non-retryable notifications", func(t *testing.T) {
		t.Parallel()

		store := notification.NewMemoryStore()
		mgr := notification.NewManager(store, notification.NewMemoryPreferenceStore(),
			notification.WithManagerClock(clock.Fixed(testTime)),
		)

		n := newTestNotification(t, notification.WithRecipient(uuid.New()))
		require.NoError(t, mgr.Send(ctx, n))

		err := mgr.Retry(ctx, n.ID)
		assert.ErrorIs(t, err, notification.ErrInvalidStatusTransition)
	})
}

func TestManager_Read(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	newManagerWithInApp := func() (*notification.Manager, *notification.MemoryStore) {
		store := notification.NewMemoryStore()
		mgr := notification.NewManager(store, notification.NewMemoryPreferenceStore(),
			notification.WithDeliverer(&fakeDeliverer{channel: notification.ChannelInApp}),
			notification.WithManagerClock(clock.Fixed(testTime)),
		)
		return mgr, store
	}

	t.Run("mark as read", func(t *testing.T) {
		t.Parallel()

		mgr, store := newManagerWithInApp()
		n := newTestNotification(t, notification.WithRecipient(uuid.New()))
		require.NoError(t, mgr.Send(ctx, n))

		require.NoError(t, mgr.MarkAsRead(ctx, n.ID))

		stored, err := store.Get(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, notification.StatusRead, stored.Status)

		// Second read is a no-op.
		assert.NoError(t, mgr.MarkAsRead(ctx, n.ID))
	})

	t.Run("mark all as read skips pending", func(t *testing.T) {
		t.Parallel()

		mgr, store := newManagerWithInApp()
		userID := uuid.New()

		sent := newTestNotification(t, notification.WithRecipient(userID))
		require.NoError(t, mgr.Send(ctx, sent))

		pending := newTestNotification(t,
			notification.WithRecipient(userID),
			notification.WithChannels(notification.ChannelSMS),
		)
		require.NoError(t, mgr.Send(ctx, pending))

		require.NoError(t, mgr.MarkAllAsRead(ctx, userID))

		storedSent, err := store.Get(ctx, sent.ID)
		require.NoError(t, err)
		assert.Equal(t, notification.StatusRead, storedSent.Status)

		storedPending, err := store.Get(ctx, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, notification.StatusPending, storedPending.Status)

		count, err := mgr.UnreadCount(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestManager_Cancel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := notification.NewMemoryStore()
	mgr := notification.NewManager(store, notification.NewMemoryPreferenceStore(),
		notification.WithManagerClock(clock.Fixed(testTime)),
	)

	n := newTestNotification(t, notification.WithRecipient(uuid.New()))
	require.NoError(t, mgr.Send(ctx, n))
	require.NoError(t, mgr.Cancel(ctx, n.ID))

	stored, err := store.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, notification.StatusCancelled, stored.Status)

	// Terminal: cancelling twice fails.
	assert.ErrorIs(t, mgr.Cancel(ctx, n.ID), notification.ErrInvalidStatusTransition)
}

func TestManager_SendFromTemplate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("renders and sends", func(t *testing.T) {
		t.Parallel()

		templates := notification.NewMemoryTemplateStore()
		require.NoError(t, templates.Save(ctx, newStockTemplate()))

		store := notification.NewMemoryStore()
		inApp := &fakeDeliverer{channel: notification.ChannelInApp}
		mgr := notification.NewManager(store, notification.NewMemoryPreferenceStore(),
			notification.WithDeliverer(inApp),
			notification.WithTemplateStore(templates),
			notification.WithManagerClock(clock.Fixed(testTime)),
		)

		n, err := mgr.SendFromTemplate(ctx, "stock-low",
			map[string]any{"Product": "Widget A", "Quantity": 3},
			notification.WithRecipient(uuid.New()),
		)
		require.NoError(t, err)
		assert.Equal(t, "Low stock: Widget A", n.Title)
		assert.Equal(t, notification.StatusSent, n.Status)
		assert.Equal(t, []uuid.UUID{n.ID}, inApp.delivered)
	})

	t.Run("unknown template", func(t *testing.T) {
		t.Parallel()

		mgr := notification.NewManager(notification.NewMemoryStore(), notification.NewMemoryPreferenceStore(),
			notification.WithTemplateStore(notification.NewMemoryTemplateStore()),
		)
		_, err := mgr.SendFromTemplate(ctx, "missing", nil)
		assert.ErrorIs(t, err, notification.ErrTemplateNotFound)
	})

	t.Run("no template store configured", func(t *testing.T) {
		t.Parallel()

		mgr := notification.NewManager(notification.NewMemoryStore(), notification.NewMemoryPreferenceStore())
		_, err := mgr.SendFromTemplate(ctx, "stock-low", nil)
		assert.ErrorIs(t, err, notification.ErrTemplateNotFound)
	})
}

func TestManager_Preference(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	prefs := notification.NewMemoryPreferenceStore()
	mgr := notification.NewManager(notification.NewMemoryStore(), prefs,
		notification.WithManagerClock(clock.Fixed(testTime)),
	)
	userID := uuid.New()

	// Missing preference falls back to defaults without persisting them.
	got, err := mgr.Preference(ctx, userID, notification.TypeInvoice)
	require.NoError(t, err)
	assert.True(t, got.IsEnabled)
	assert.Equal(t, notification.ChannelInApp, got.EnabledChannels)

	got.UpdateChannels(notification.ChannelAll)
	require.NoError(t, mgr.SavePreference(ctx, got))

	stored, err := mgr.Preference(ctx, userID, notification.TypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, notification.ChannelAll, stored.EnabledChannels)
}

func TestNewManager_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		notification.NewManager(nil, notification.NewMemoryPreferenceStore())
	})
	assert.Panics(t, func() {
		notification.NewManager(notification.NewMemoryStore(), nil)
	})
}
