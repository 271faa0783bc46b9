// Package notification implements multi-channel user notifications:
// entities with a validated delivery lifecycle, per-user preferences
// with quiet hours and priority floors, reusable templates, pluggable
// storage, and a manager that persists first and delivers best-effort.
//
// # Architecture
//
//   - Notification: the entity. Status moves pending → sent → delivered
//     → read, with failed, cancelled and expired branches; every change
//     is checked against a transition table and terminal states reject
//     further moves.
//   - ChannelSet: a bitmask of delivery channels (in-app, email, SMS,
//     push) shared by notifications and preferences.
//   - Preference: per user and notification type. Controls enabled
//     channels, a minimum priority, and an optional quiet-hours window
//     that may wrap midnight. Emergency notifications bypass the
//     priority floor and quiet hours; during quiet hours only Critical
//     and above get through.
//   - Template: a text/template blueprint that renders into pending
//     notifications with defaults applied.
//   - Store, PreferenceStore, TemplateStore: persistence ports with
//     in-memory and Postgres implementations.
//   - Deliverer: one implementation per channel. Email goes out via
//     Postmark, in-app over Redis pub/sub; NoOpDeliverer fills gaps.
//   - Manager: stores every notification before attempting delivery,
//     gates each channel by the recipient's preference, and records the
//     outcome on the entity. Delivery failures never fail Send.
//
// # Quick Start
//
//	store := notification.NewMemoryStore()
//	prefs := notification.NewMemoryPreferenceStore()
//
//	inApp, _ := notification.NewRedisDeliverer(redisClient)
//	mgr := notification.NewManager(store, prefs,
//		notification.WithDeliverer(inApp),
//		notification.WithManagerLogger(log),
//	)
//
//	n, _ := notification.New("Payment received", "Your invoice was paid.",
//		notification.TypePayment,
//		notification.WithRecipient(userID),
//		notification.WithPriority(notification.PriorityHigh),
//	)
//	if err := mgr.Send(ctx, n); err != nil {
//		// persistence failed; delivery problems are logged, not returned
//	}
package notification
