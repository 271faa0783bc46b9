// Package billing ties the subscription and payment aggregates together
// at billing-cycle boundaries. RunBillingCycle creates a payment, runs
// the charge through an injected Charger, and applies the outcome:
// completion renews the subscription period, failure runs the
// failed-attempt escalation (suspension, then past-due with a grace
// period) and schedules a retry. Refund enforces the cumulative refund
// bound via the payment aggregate.
//
// The service is passive: it never polls or schedules on its own, and a
// configured notification manager is strictly best-effort.
package billing
