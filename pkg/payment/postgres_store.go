package payment

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
// Expected schema: a payments table keyed by id with one column per
// aggregate field, and a payment_refunds table keyed by refund id.
// Refund rows are insert-only.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const paymentColumns = `
	id, subscription_id, user_id, amount, currency, status, method,
	payment_date, processed_at, transaction_id, external_transaction_id,
	payment_intent_id, failure_reason, failure_code, refunded_amount,
	refunded_at, refund_reason, description, stripe_charge_id,
	stripe_payment_intent_id, paypal_transaction_id, paypal_payment_id,
	billing_period_start, billing_period_end, payment_method_details,
	billing_address, metadata, attempt_count, next_retry_at, retry_reason,
	created_at, updated_at`

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	return s.scanPayment(ctx, row)
}

func (s *PostgresStore) GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE transaction_id = $1`, transactionID)
	return s.scanPayment(ctx, row)
}

func (s *PostgresStore) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*Payment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE subscription_id = $1 ORDER BY payment_date DESC`, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		p, err := s.scanRow(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range payments {
		refunds, err := s.loadRefunds(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.RestoreRefunds(refunds)
	}
	return payments, nil
}

func (s *PostgresStore) scanPayment(ctx context.Context, row pgx.Row) (*Payment, error) {
	p, err := s.scanRow(row)
	if err != nil {
		return nil, err
	}

	refunds, err := s.loadRefunds(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.RestoreRefunds(refunds)
	return p, nil
}

func (s *PostgresStore) scanRow(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(
		&p.ID, &p.SubscriptionID, &p.UserID, &p.Amount, &p.Currency, &p.Status,
		&p.Method, &p.PaymentDate, &p.ProcessedAt, &p.TransactionID,
		&p.ExternalTransactionID, &p.PaymentIntentID, &p.FailureReason,
		&p.FailureCode, &p.RefundedAmount, &p.RefundedAt, &p.RefundReason,
		&p.Description, &p.StripeChargeID, &p.StripePaymentIntentID,
		&p.PayPalTransactionID, &p.PayPalPaymentID, &p.BillingPeriodStart,
		&p.BillingPeriodEnd, &p.PaymentMethodDetails, &p.BillingAddress,
		&p.Metadata, &p.AttemptCount, &p.NextRetryAt, &p.RetryReason,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) loadRefunds(ctx context.Context, paymentID uuid.UUID) ([]Refund, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, payment_id, amount, currency, reason, refund_date,
		        external_refund_id, stripe_refund_id, paypal_refund_id, notes,
		        created_at, updated_at
		 FROM payment_refunds WHERE payment_id = $1 ORDER BY refund_date, id`,
		paymentID)
	if err != nil {
		return nil, fmt.Errorf("query payment refunds: %w", err)
	}
	defer rows.Close()

	var refunds []Refund
	for rows.Next() {
		var r Refund
		if err := rows.Scan(
			&r.ID, &r.PaymentID, &r.Amount, &r.Currency, &r.Reason, &r.RefundDate,
			&r.ExternalRefundID, &r.StripeRefundID, &r.PayPalRefundID, &r.Notes,
			&r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan refund: %w", err)
		}
		refunds = append(refunds, r)
	}
	return refunds, rows.Err()
}

func (s *PostgresStore) Save(ctx context.Context, payment *Payment) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save payment: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			processed_at = EXCLUDED.processed_at,
			external_transaction_id = EXCLUDED.external_transaction_id,
			payment_intent_id = EXCLUDED.payment_intent_id,
			failure_reason = EXCLUDED.failure_reason,
			failure_code = EXCLUDED.failure_code,
			refunded_amount = EXCLUDED.refunded_amount,
			refunded_at = EXCLUDED.refunded_at,
			refund_reason = EXCLUDED.refund_reason,
			stripe_charge_id = EXCLUDED.stripe_charge_id,
			stripe_payment_intent_id = EXCLUDED.stripe_payment_intent_id,
			paypal_transaction_id = EXCLUDED.paypal_transaction_id,
			paypal_payment_id = EXCLUDED.paypal_payment_id,
			billing_period_start = EXCLUDED.billing_period_start,
			billing_period_end = EXCLUDED.billing_period_end,
			payment_method_details = EXCLUDED.payment_method_details,
			billing_address = EXCLUDED.billing_address,
			metadata = EXCLUDED.metadata,
			attempt_count = EXCLUDED.attempt_count,
			next_retry_at = EXCLUDED.next_retry_at,
			retry_reason = EXCLUDED.retry_reason,
			updated_at = EXCLUDED.updated_at`,
		payment.ID, payment.SubscriptionID, payment.UserID, payment.Amount,
		payment.Currency, payment.Status, payment.Method, payment.PaymentDate,
		payment.ProcessedAt, payment.TransactionID, payment.ExternalTransactionID,
		payment.PaymentIntentID, payment.FailureReason, payment.FailureCode,
		payment.RefundedAmount, payment.RefundedAt, payment.RefundReason,
		payment.Description, payment.StripeChargeID, payment.StripePaymentIntentID,
		payment.PayPalTransactionID, payment.PayPalPaymentID,
		payment.BillingPeriodStart, payment.BillingPeriodEnd,
		payment.PaymentMethodDetails, payment.BillingAddress, payment.Metadata,
		payment.AttemptCount, payment.NextRetryAt, payment.RetryReason,
		payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert payment: %w", err)
	}

	for _, r := range payment.Refunds() {
		_, err = tx.Exec(ctx,
			`INSERT INTO payment_refunds (
				id, payment_id, amount, currency, reason, refund_date,
				external_refund_id, stripe_refund_id, paypal_refund_id, notes,
				created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			ON CONFLICT (id) DO UPDATE SET
				external_refund_id = EXCLUDED.external_refund_id,
				stripe_refund_id = EXCLUDED.stripe_refund_id,
				paypal_refund_id = EXCLUDED.paypal_refund_id,
				notes = EXCLUDED.notes,
				updated_at = EXCLUDED.updated_at`,
			r.ID, r.PaymentID, r.Amount, r.Currency, r.Reason, r.RefundDate,
			r.ExternalRefundID, r.StripeRefundID, r.PayPalRefundID, r.Notes,
			r.CreatedAt, r.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert payment refund: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save payment: %w", err)
	}
	return nil
}
