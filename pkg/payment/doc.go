// Package payment models individual billing attempts against a
// subscription, including retries, failures, disputes and refunds.
//
// A Payment is created pending when a billing attempt starts and moves
// through processing, completed, failed, cancelled, requires_action or
// disputed states as the external billing collaborator reports progress.
// The package never charges anyone itself: Stripe and PayPal identifiers
// are opaque pass-through storage, and the decision to retry a failed
// payment is exposed as a flag (IsRetryable) while actually retrying is
// the caller's responsibility.
//
// Refunds are owned by the payment. ProcessRefund enforces that the
// cumulative refunded amount never exceeds the payment amount, appends one
// Refund record per successful call, and recomputes the status to refunded
// or partially refunded.
//
// Every payment carries a generated transaction ID of the form
// TXN_<yyyymmdd>_<8 hex chars>, distinct from any provider's charge ID,
// intended for log greps and support tickets.
package payment
