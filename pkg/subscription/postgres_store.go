package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a pgx-backed Store implementation.
//
// Expected schema: a subscriptions table keyed by id with one column per
// aggregate field, and a subscription_history table keyed by history
// record id. History rows are insert-only.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const subscriptionColumns = `
	id, user_id, plan_id, status, start_date, end_date, trial_end_date,
	current_period_start, current_period_end, cancelled_at, cancel_at_period_end,
	cancellation_reason, current_price, currency, quantity, next_billing_date,
	grace_period_days, grace_period_end_date, failed_payment_attempts,
	last_payment_attempt_at, provider_subscription_id, stripe_subscription_id, stripe_customer_id,
	paypal_subscription_id, paypal_payer_id, notes, metadata, created_at, updated_at`

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id)
	return s.scanSubscription(ctx, row)
}

func (s *PostgresStore) GetByUser(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1`, userID)
	return s.scanSubscription(ctx, row)
}

func (s *PostgresStore) scanSubscription(ctx context.Context, row pgx.Row) (*Subscription, error) {
	var sub Subscription
	err := row.Scan(
		&sub.ID, &sub.UserID, &sub.PlanID, &sub.Status, &sub.StartDate, &sub.EndDate,
		&sub.TrialEndDate, &sub.CurrentPeriodStart, &sub.CurrentPeriodEnd,
		&sub.CancelledAt, &sub.CancelAtPeriodEnd, &sub.CancellationReason,
		&sub.CurrentPrice, &sub.Currency, &sub.Quantity, &sub.NextBillingDate,
		&sub.GracePeriodDays, &sub.GracePeriodEndDate, &sub.FailedPaymentAttempts,
		&sub.LastPaymentAttemptAt, &sub.ProviderSubscriptionID, &sub.StripeSubscriptionID, &sub.StripeCustomerID,
		&sub.PayPalSubscriptionID, &sub.PayPalPayerID, &sub.Notes, &sub.Metadata,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("scan subscription: %w", err)
	}

	history, err := s.loadHistory(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	sub.RestoreHistory(history)
	return &sub, nil
}

func (s *PostgresStore) loadHistory(ctx context.Context, subscriptionID uuid.UUID) ([]HistoryRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, subscription_id, from_status, to_status, reason, changed_at
		 FROM subscription_history WHERE subscription_id = $1 ORDER BY changed_at, id`,
		subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("query subscription history: %w", err)
	}
	defer rows.Close()

	var records []HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.SubscriptionID, &rec.FromStatus, &rec.ToStatus, &rec.Reason, &rec.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PostgresStore) Save(ctx context.Context, sub *Subscription) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save subscription: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO subscriptions (`+subscriptionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29)
		ON CONFLICT (id) DO UPDATE SET
			plan_id = EXCLUDED.plan_id,
			status = EXCLUDED.status,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			trial_end_date = EXCLUDED.trial_end_date,
			current_period_start = EXCLUDED.current_period_start,
			current_period_end = EXCLUDED.current_period_end,
			cancelled_at = EXCLUDED.cancelled_at,
			cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			cancellation_reason = EXCLUDED.cancellation_reason,
			current_price = EXCLUDED.current_price,
			currency = EXCLUDED.currency,
			quantity = EXCLUDED.quantity,
			next_billing_date = EXCLUDED.next_billing_date,
			grace_period_days = EXCLUDED.grace_period_days,
			grace_period_end_date = EXCLUDED.grace_period_end_date,
			failed_payment_attempts = EXCLUDED.failed_payment_attempts,
			last_payment_attempt_at = EXCLUDED.last_payment_attempt_at,
			provider_subscription_id = EXCLUDED.provider_subscription_id,
			stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			stripe_customer_id = EXCLUDED.stripe_customer_id,
			paypal_subscription_id = EXCLUDED.paypal_subscription_id,
			paypal_payer_id = EXCLUDED.paypal_payer_id,
			notes = EXCLUDED.notes,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at`,
		sub.ID, sub.UserID, sub.PlanID, sub.Status, sub.StartDate, sub.EndDate,
		sub.TrialEndDate, sub.CurrentPeriodStart, sub.CurrentPeriodEnd,
		sub.CancelledAt, sub.CancelAtPeriodEnd, sub.CancellationReason,
		sub.CurrentPrice, sub.Currency, sub.Quantity, sub.NextBillingDate,
		sub.GracePeriodDays, sub.GracePeriodEndDate, sub.FailedPaymentAttempts,
		sub.LastPaymentAttemptAt, sub.ProviderSubscriptionID, sub.StripeSubscriptionID, sub.StripeCustomerID,
		sub.PayPalSubscriptionID, sub.PayPalPayerID, sub.Notes, sub.Metadata,
		sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	// History is append-only; re-inserting already persisted records is a
	// no-op thanks to the conflict clause.
	for _, rec := range sub.History() {
		_, err = tx.Exec(ctx, `
			INSERT INTO subscription_history (id, subscription_id, from_status, to_status, reason, changed_at)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (id) DO NOTHING`,
			rec.ID, rec.SubscriptionID, rec.FromStatus, rec.ToStatus, rec.Reason, rec.ChangedAt)
		if err != nil {
			return fmt.Errorf("insert history record: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete subscription: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM subscription_history WHERE subscription_id = $1`, id); err != nil {
		return fmt.Errorf("delete subscription history: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}

	return tx.Commit(ctx)
}
