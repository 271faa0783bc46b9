package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/clock"
	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/logger"
)

// Manager orchestrates notification persistence and delivery. Every
// notification is stored first so it survives channel outages, then
// pushed best-effort through the registered deliverers, gated by the
// recipient's preferences. Delivery failures never fail Send; the
// notification stays in the store for retry or the user's next fetch.
type Manager struct {
	store      Store
	prefs      PreferenceStore
	templates  TemplateStore
	deliverers map[ChannelSet]Deliverer
	clock      clock.Clock
	log        *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger used for delivery diagnostics.
func WithManagerLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithManagerClock overrides the time source, typically with a fixed
// clock in tests.
func WithManagerClock(c clock.Clock) ManagerOption {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithDeliverer registers a delivery channel. Registering a second
// deliverer for the same channel replaces the first.
func WithDeliverer(d Deliverer) ManagerOption {
	return func(m *Manager) {
		if d != nil {
			m.deliverers[d.Channel()] = d
		}
	}
}

// WithTemplateStore enables SendFromTemplate.
func WithTemplateStore(ts TemplateStore) ManagerOption {
	return func(m *Manager) {
		m.templates = ts
	}
}

// NewManager creates a notification manager. The stores are required;
// without any registered deliverer notifications are stored but only
// reachable through List.
func NewManager(store Store, prefs PreferenceStore, opts ...ManagerOption) *Manager {
	if store == nil {
		panic("notification: store is required")
	}
	if prefs == nil {
		panic("notification: preference store is required")
	}

	m := &Manager{
		store:      store,
		prefs:      prefs,
		deliverers: make(map[ChannelSet]Deliverer),
		clock:      clock.System(),
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send persists the notification and pushes it through every registered
// deliverer whose channel the notification and the recipient's
// preferences both allow. Returns an error only when persistence fails.
func (m *Manager) Send(ctx context.Context, n *Notification) error {
	if err := m.store.Save(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	m.dispatch(ctx, n)

	// Persist the status change from dispatch. The notification itself
	// is already safe; a failure here only loses bookkeeping.
	if err := m.store.Save(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	return nil
}

// SendFromTemplate renders a stored template and sends the result.
func (m *Manager) SendFromTemplate(ctx context.Context, templateID string, data map[string]any, opts ...Option) (*Notification, error) {
	if m.templates == nil {
		return nil, ErrTemplateNotFound
	}

	tmpl, err := m.templates.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}

	n, err := tmpl.GenerateAt(data, m.clock.Now(), opts...)
	if err != nil {
		return nil, err
	}
	if err := m.Send(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// dispatch pushes n through the allowed deliverers and records the
// outcome on the notification. Best effort: errors are logged, not
// returned.
func (m *Manager) dispatch(ctx context.Context, n *Notification) {
	now := m.clock.Now()

	delivered := false
	attempted := false
	lastErr := ""
	for channel, d := range m.deliverers {
		if !n.Channels.Has(channel) {
			continue
		}
		if !m.allowed(ctx, n, channel, now) {
			m.log.DebugContext(ctx, "notification blocked by preference",
				logger.NotificationID(n.ID),
				logger.Channel(channel),
			)
			continue
		}

		attempted = true
		if err := d.Deliver(ctx, n); err != nil {
			lastErr = err.Error()
			m.log.WarnContext(ctx, "notification delivery failed",
				logger.NotificationID(n.ID),
				logger.Channel(channel),
				logger.Error(err),
			)
			continue
		}
		delivered = true
	}

	switch {
	case delivered:
		if err := n.MarkAsSentAt(now); err != nil {
			m.log.WarnContext(ctx, "cannot mark notification as sent",
				logger.NotificationID(n.ID),
				logger.Status(n.Status),
				logger.Error(err),
			)
		}
	case attempted:
		if err := n.MarkAsFailed(lastErr); err != nil {
			m.log.WarnContext(ctx, "cannot mark notification as failed",
				logger.NotificationID(n.ID),
				logger.Status(n.Status),
				logger.Error(err),
			)
		}
	}
	// Neither delivered nor attempted: every channel was gated or has no
	// deliverer. The notification stays pending for the user's next fetch.
}

// allowed checks the recipient's preference for the notification type.
// A missing preference falls back to the defaults, which allow in-app
// delivery only.
func (m *Manager) allowed(ctx context.Context, n *Notification, channel ChannelSet, now time.Time) bool {
	if n.RecipientID == nil {
		// Broadcast-style notifications have no preference owner.
		return true
	}

	pref, err := m.prefs.Get(ctx, *n.RecipientID, n.Type)
	if err != nil {
		if !errors.Is(err, ErrPreferenceNotFound) {
			m.log.WarnContext(ctx, "cannot load notification preference",
				logger.UserID(*n.RecipientID),
				logger.Error(err),
			)
		}
		pref = NewPreferenceAt(*n.RecipientID, n.Type, now)
	}
	return pref.ShouldReceiveNotificationAt(n.Priority, channel, now)
}

// Retry re-dispatches a failed notification if it is still retryable.
func (m *Manager) Retry(ctx context.Context, id uuid.UUID) error {
	n, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !n.CanRetryDeliveryAt(m.clock.Now()) {
		return errors.Join(ErrInvalidStatusTransition,
			fmt.Errorf("notification %s is not retryable", id))
	}

	m.dispatch(ctx, n)
	return m.store.Save(ctx, n)
}

// MarkAsRead records that the user saw the notification. Reading an
// already-read notification is a no-op.
func (m *Manager) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	n, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := n.MarkAsReadAt(m.clock.Now()); err != nil {
		return err
	}
	return m.store.Save(ctx, n)
}

// MarkAllAsRead reads every unread notification of the user that is in
// a readable state. Pending and cancelled ones are left alone.
func (m *Manager) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	list, err := m.store.ListByRecipient(ctx, userID, ListOptions{UnreadOnly: true})
	if err != nil {
		return err
	}

	now := m.clock.Now()
	for _, n := range list {
		if !transitions.Allows(ctx, n.Status, eventRead, nil) {
			continue
		}
		if err := n.MarkAsReadAt(now); err != nil {
			return err
		}
		if err := m.store.Save(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// Cancel withdraws a notification that has not reached the user yet.
func (m *Manager) Cancel(ctx context.Context, id uuid.UUID) error {
	n, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := n.MarkAsCancelled(); err != nil {
		return err
	}
	return m.store.Save(ctx, n)
}

// List returns the user's notifications, newest first.
func (m *Manager) List(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*Notification, error) {
	return m.store.ListByRecipient(ctx, userID, opts)
}

// UnreadCount returns how many notifications the user has not read.
func (m *Manager) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return m.store.CountUnread(ctx, userID)
}

// Preference returns the user's preference for a notification type,
// falling back to the defaults when none is stored.
func (m *Manager) Preference(ctx context.Context, userID uuid.UUID, typ Type) (*Preference, error) {
	pref, err := m.prefs.Get(ctx, userID, typ)
	if err != nil {
		if errors.Is(err, ErrPreferenceNotFound) {
			return NewPreferenceAt(userID, typ, m.clock.Now()), nil
		}
		return nil, err
	}
	return pref, nil
}

// SavePreference persists a preference.
func (m *Manager) SavePreference(ctx context.Context, pref *Preference) error {
	return m.prefs.Save(ctx, pref)
}
