package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/clock"
	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/logger"
	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/notification"
	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/payment"
	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/subscription"
)

// Charger executes one charge against the payment provider. The payment
// carries the amount and currency; the returned external ID is the
// provider's transaction identifier.
type Charger interface {
	Charge(ctx context.Context, p *payment.Payment, sub *subscription.Subscription) (externalID string, err error)
}

// ChargerFunc adapts a function to the Charger interface.
type ChargerFunc func(ctx context.Context, p *payment.Payment, sub *subscription.Subscription) (string, error)

func (f ChargerFunc) Charge(ctx context.Context, p *payment.Payment, sub *subscription.Subscription) (string, error) {
	return f(ctx, p, sub)
}

// Service orchestrates subscription billing at cycle boundaries: it
// creates the payment, runs the charge, applies the outcome to both
// aggregates, and emits user-facing notifications. It never schedules
// on its own; callers invoke it from webhooks or external timers.
type Service struct {
	subs          subscription.Store
	payments      payment.Store
	charger       Charger
	notifier      *notification.Manager
	clock         clock.Clock
	log           *slog.Logger
	retryInterval time.Duration
}

// Option configures the billing service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithNotifications enables billing notifications through the manager.
func WithNotifications(mgr *notification.Manager) Option {
	return func(s *Service) {
		s.notifier = mgr
	}
}

// WithRetryInterval sets how far in the future a failed, retryable
// payment is scheduled for another attempt. Default is 24 hours.
func WithRetryInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.retryInterval = d
		}
	}
}

// NewService creates a billing service. The stores and charger are
// required.
func NewService(subs subscription.Store, payments payment.Store, charger Charger, opts ...Option) *Service {
	if subs == nil {
		panic("billing: subscription store is required")
	}
	if payments == nil {
		panic("billing: payment store is required")
	}
	if charger == nil {
		panic("billing: charger is required")
	}

	s := &Service{
		subs:          subs,
		payments:      payments,
		charger:       charger,
		clock:         clock.System(),
		log:           slog.New(slog.DiscardHandler),
		retryInterval: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunBillingCycle charges a subscription for its current period. On
// success the payment completes and the period advances; on charge
// failure the payment is marked failed, the failed-attempt escalation
// runs, and a retry is scheduled if the attempt cap allows. Both
// outcomes are persisted and return a nil error; the payment's status
// carries the result. Errors are reserved for lookups and persistence.
func (s *Service) RunBillingCycle(ctx context.Context, subscriptionID uuid.UUID, method payment.Method) (*payment.Payment, error) {
	sub, err := s.subs.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.Status == subscription.StatusCancelled || sub.Status == subscription.StatusExpired {
		return nil, ErrSubscriptionIdle
	}

	now := s.clock.Now()
	p := payment.NewAt(sub.ID, sub.UserID, sub.TotalAmount(), sub.Currency, method,
		fmt.Sprintf("Subscription renewal (%s)", sub.PlanID), now)
	if err := s.payments.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save pending payment: %w", err)
	}

	p.MarkAsProcessing()
	externalID, chargeErr := s.charger.Charge(ctx, p, sub)
	if chargeErr != nil {
		return p, s.applyChargeFailure(ctx, sub, p, chargeErr)
	}

	p.MarkAsCompletedAt(externalID, now, now)
	sub.RenewPeriodAt(now)

	if err := s.payments.Save(ctx, p); err != nil {
		return p, fmt.Errorf("save completed payment: %w", err)
	}
	if err := s.subs.Save(ctx, sub); err != nil {
		return p, fmt.Errorf("save renewed subscription: %w", err)
	}

	s.log.InfoContext(ctx, "billing cycle completed",
		logger.SubscriptionID(sub.ID),
		logger.PaymentID(p.ID),
		logger.TransactionID(p.TransactionID),
		logger.Amount(p.Amount.String(), p.Currency),
	)
	s.notifyPaymentReceived(ctx, sub, p)
	return p, nil
}

func (s *Service) applyChargeFailure(ctx context.Context, sub *subscription.Subscription, p *payment.Payment, chargeErr error) error {
	now := s.clock.Now()

	p.MarkAsFailedAt(chargeErr.Error(), "", now)
	if p.IsRetryable() {
		p.ScheduleRetryAt(now.Add(s.retryInterval), chargeErr.Error(), now)
	}
	sub.RecordFailedPaymentAt(now)

	if err := s.payments.Save(ctx, p); err != nil {
		return fmt.Errorf("save failed payment: %w", err)
	}
	if err := s.subs.Save(ctx, sub); err != nil {
		return fmt.Errorf("save subscription after failed charge: %w", err)
	}

	s.log.WarnContext(ctx, "billing cycle failed",
		logger.SubscriptionID(sub.ID),
		logger.PaymentID(p.ID),
		slog.Int("failed_attempts", sub.FailedPaymentAttempts),
		logger.Status(sub.Status),
		logger.Error(chargeErr),
	)
	s.notifyPaymentFailed(ctx, sub, p)
	return nil
}

// Refund returns part or all of a completed payment to the user and
// notifies them. The refund bound is enforced by the payment aggregate.
func (s *Service) Refund(ctx context.Context, paymentID uuid.UUID, amount decimal.Decimal, reason string) (*payment.Payment, error) {
	p, err := s.payments.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !p.CanBeRefunded() {
		return nil, errors.Join(ErrNotRefundable,
			fmt.Errorf("payment %s has status %s", paymentID, p.Status))
	}

	now := s.clock.Now()
	if err := p.ProcessRefundAt(amount, reason, now); err != nil {
		return nil, err
	}
	if err := s.payments.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save refunded payment: %w", err)
	}

	s.log.InfoContext(ctx, "payment refunded",
		logger.PaymentID(p.ID),
		logger.Amount(amount.String(), p.Currency),
		logger.Status(p.Status),
	)
	s.notifyRefund(ctx, p, amount)
	return p, nil
}

func (s *Service) notifyPaymentReceived(ctx context.Context, sub *subscription.Subscription, p *payment.Payment) {
	s.notify(ctx, p, sub.UserID, "Payment received",
		fmt.Sprintf("We received your payment of %s %s.", p.Amount.StringFixed(2), p.Currency),
		notification.PriorityNormal)
}

func (s *Service) notifyPaymentFailed(ctx context.Context, sub *subscription.Subscription, p *payment.Payment) {
	title := "Payment failed"
	message := fmt.Sprintf("We could not charge %s %s for your subscription. We will retry automatically.",
		p.Amount.StringFixed(2), p.Currency)
	priority := notification.PriorityHigh

	if sub.Status == subscription.StatusPastDue {
		title = "Subscription past due"
		message = "Repeated payment failures put your subscription past due. Update your payment method to avoid losing access."
		priority = notification.PriorityCritical
	}
	s.notify(ctx, p, sub.UserID, title, message, priority)
}

func (s *Service) notifyRefund(ctx context.Context, p *payment.Payment, amount decimal.Decimal) {
	s.notify(ctx, p, p.UserID, "Refund issued",
		fmt.Sprintf("A refund of %s %s is on its way back to you.", amount.StringFixed(2), p.Currency),
		notification.PriorityNormal)
}

// notify emits a billing notification best-effort. A nil manager or a
// delivery problem never affects the billing outcome.
func (s *Service) notify(ctx context.Context, p *payment.Payment, userID uuid.UUID, title, message string, priority notification.Priority) {
	if s.notifier == nil {
		return
	}

	n, err := notification.NewAt(title, message, notification.TypePayment, s.clock.Now(),
		notification.WithRecipient(userID),
		notification.WithPriority(priority),
	)
	if err != nil {
		s.log.WarnContext(ctx, "cannot build billing notification", logger.Error(err))
		return
	}
	n.SetRelatedEntity(p.ID, "payment")

	if err := s.notifier.Send(ctx, n); err != nil {
		s.log.WarnContext(ctx, "cannot send billing notification",
			logger.PaymentID(p.ID),
			logger.Error(err),
		)
	}
}
