// Package clock provides a small time source abstraction.
//
// Billing and notification logic compares stored timestamps against "now"
// in many places (trial expiry, grace periods, quiet hours). Passing a
// Clock capability into services instead of reading the global wall clock
// makes those comparisons testable with a fixed or manually advanced time.
//
// Usage:
//
//	svc := subscription.NewService(store, src, provider,
//		subscription.WithClock(clock.System()))
//
// In tests:
//
//	clk := clock.Fixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
//	clk.Advance(7 * 24 * time.Hour)
package clock
