// Package subscription provides subscription plan and lifecycle management
// with trial periods, grace periods, cancellation semantics, and billing
// provider integration.
//
// The package models a user's subscription as an aggregate that owns its
// own status history: every status change appends exactly one history
// record, giving a complete audit trail of the subscription's life. Price
// and currency are snapshotted at enrollment so catalog changes never
// retroactively reprice active subscriptions.
//
// # Architecture
//
//   - Service: main interface providing all subscription operations
//   - Plan: a catalog entry with pricing, limits, features and trial config
//   - Subscription: the per-user lifecycle aggregate with status history
//   - BillingProvider: abstracts payment provider interactions (Paddle)
//   - Store: persists subscriptions and their history (memory, Postgres)
//   - PlanSource: loads plan definitions (static list, YAML file)
//
// # Lifecycle
//
// A subscription moves through trial, active, past_due, suspended,
// cancelled, and expired states. Failed payments escalate: early failures
// suspend the subscription, repeated failures mark it past due and open a
// grace period. A successful renewal clears the failure counter and
// restores active status.
//
// # Quick Start
//
//	src := subscription.StaticSource{
//		subscription.NewPlan("pri_123", "Pro", "Full access",
//			decimal.RequireFromString("29.99"), "USD",
//			subscription.BillingIntervalMonthly),
//	}
//
//	provider, err := subscription.NewPaddleProvider(paddleCfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	svc, err := subscription.NewService(ctx, src, provider,
//		subscription.NewMemoryStore(),
//		subscription.WithLogger(log))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sub, err := svc.Enroll(ctx, userID, "pri_123")
//
// Webhooks from the billing provider drive the rest of the lifecycle:
//
//	func webhookHandler(w http.ResponseWriter, r *http.Request) {
//		payload, _ := io.ReadAll(r.Body)
//		if err := svc.HandleWebhook(r.Context(), payload, r.Header.Get("Paddle-Signature")); err != nil {
//			w.WriteHeader(http.StatusBadRequest)
//			return
//		}
//		w.WriteHeader(http.StatusOK)
//	}
package subscription
