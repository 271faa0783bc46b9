package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/clock"
	"github.com/Pinto1232/StockFlow-Pro-sub002/pkg/logger"
)

// Service defines the public interface for subscription lifecycle management.
type Service interface {
	// Plan catalog
	GetPlan(planID string) (*Plan, error)
	ListPlans() []*Plan
	ListPublicPlans() []*Plan
	VerifyPlan(planID string) error

	// Subscription lifecycle
	Enroll(ctx context.Context, userID uuid.UUID, planID string) (*Subscription, error)
	Get(ctx context.Context, id uuid.UUID) (*Subscription, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*Subscription, error)
	Cancel(ctx context.Context, id uuid.UUID, atPeriodEnd bool, reason string) (*Subscription, error)
	Reactivate(ctx context.Context, id uuid.UUID) (*Subscription, error)
	RecordFailedPayment(ctx context.Context, id uuid.UUID) (*Subscription, error)
	RenewPeriod(ctx context.Context, id uuid.UUID) (*Subscription, error)
	ChangePlan(ctx context.Context, id uuid.UUID, newPlanID string) (*Subscription, error)

	// Billing provider interactions
	CreateCheckoutLink(ctx context.Context, userID uuid.UUID, planID string, opts CheckoutOptions) (*CheckoutLink, error)
	GetCustomerPortalLink(ctx context.Context, userID uuid.UUID) (*PortalLink, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// CheckoutOptions contains optional parameters for checkout link creation.
type CheckoutOptions struct {
	Email      string
	SuccessURL string
	CancelURL  string
}

// StatusChangeFunc is invoked after a status change has been persisted.
// Implementations must not block; failures are the callback's own concern
// and never roll back the persisted change.
type StatusChangeFunc func(ctx context.Context, sub *Subscription, from, to Status, reason string)

type service struct {
	plans    map[string]*Plan
	provider BillingProvider
	store    Store
	clock    clock.Clock
	log      *slog.Logger
	onStatus StatusChangeFunc
}

// NewService creates a new Service with the given dependencies.
// Panics if required parameters (src, provider, store) are nil to fail fast
// during initialization. Plans are loaded once at construction; restart the
// service to pick up catalog changes.
func NewService(ctx context.Context, src PlanSource, provider BillingProvider, store Store, opts ...ServiceOption) (Service, error) {
	if src == nil {
		panic("subscription: PlanSource is required")
	}
	if provider == nil {
		panic("subscription: BillingProvider is required")
	}
	if store == nil {
		panic("subscription: Store is required")
	}

	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	if err := validatePlans(plans); err != nil {
		return nil, err
	}

	s := &service{
		plans:    plans,
		provider: provider,
		store:    store,
		clock:    clock.System(),
		log:      slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// GetPlan returns a plan by ID.
func (s *service) GetPlan(planID string) (*Plan, error) {
	plan, exists := s.plans[planID]
	if !exists {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// ListPlans returns all plans ordered by sort order.
func (s *service) ListPlans() []*Plan {
	plans := make([]*Plan, 0, len(s.plans))
	for _, p := range s.plans {
		plans = append(plans, p)
	}
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].SortOrder != plans[j].SortOrder {
			return plans[i].SortOrder < plans[j].SortOrder
		}
		return plans[i].ID < plans[j].ID
	})
	return plans
}

// ListPublicPlans returns active public plans ordered by sort order,
// suitable for a pricing page.
func (s *service) ListPublicPlans() []*Plan {
	all := s.ListPlans()
	plans := make([]*Plan, 0, len(all))
	for _, p := range all {
		if p.IsActive && p.IsPublic {
			plans = append(plans, p)
		}
	}
	return plans
}

// VerifyPlan checks if a plan ID is valid.
func (s *service) VerifyPlan(planID string) error {
	if _, exists := s.plans[planID]; !exists {
		return ErrPlanNotFound
	}
	return nil
}

// Enroll subscribes a user to a plan directly, bypassing the billing
// provider. Used for free plans, manual enrollment by admins, and tests;
// paid self-service signups go through CreateCheckoutLink instead.
func (s *service) Enroll(ctx context.Context, userID uuid.UUID, planID string) (*Subscription, error) {
	plan, exists := s.plans[planID]
	if !exists {
		return nil, ErrPlanNotFound
	}
	if !plan.IsActive {
		return nil, ErrPlanInactive
	}

	// One subscription per user
	if _, err := s.store.GetByUser(ctx, userID); err == nil {
		return nil, ErrSubscriptionAlreadyExists
	} else if !errors.Is(err, ErrSubscriptionNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	var trialEnd *time.Time
	if plan.HasTrial() {
		te := plan.TrialEndsAt(now)
		trialEnd = &te
	}

	sub := New(userID, planID, now, plan.Price, plan.Currency, trialEnd)
	if err := s.store.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	s.log.InfoContext(ctx, "user enrolled in plan",
		logger.UserID(userID),
		logger.SubscriptionID(sub.ID),
		logger.PlanID(planID),
		logger.Status(string(sub.Status)))

	return sub, nil
}

// Get retrieves a subscription by ID.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	return s.store.Get(ctx, id)
}

// GetByUser retrieves a user's subscription.
func (s *service) GetByUser(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	return s.store.GetByUser(ctx, userID)
}

// Cancel cancels a subscription, either immediately or at the end of the
// current billing period.
func (s *service) Cancel(ctx context.Context, id uuid.UUID, atPeriodEnd bool, reason string) (*Subscription, error) {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := sub.Status
	sub.CancelAt(atPeriodEnd, reason, s.clock.Now())

	if err := s.store.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save cancellation: %w", err)
	}

	s.notifyStatusChange(ctx, sub, from, reason)
	return sub, nil
}

// Reactivate reverses a cancellation, returning the subscription to active.
func (s *service) Reactivate(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := sub.Status
	sub.ReactivateAt(s.clock.Now())

	if err := s.store.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save reactivation: %w", err)
	}

	s.notifyStatusChange(ctx, sub, from, "reactivated")
	return sub, nil
}

// RecordFailedPayment registers a failed billing attempt and applies the
// escalation policy: suspension for early failures, past-due with a grace
// period once attempts accumulate.
func (s *service) RecordFailedPayment(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := sub.Status
	sub.RecordFailedPaymentAt(s.clock.Now())

	if err := s.store.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save payment failure: %w", err)
	}

	s.log.WarnContext(ctx, "subscription payment failed",
		logger.SubscriptionID(sub.ID),
		logger.UserID(sub.UserID),
		slog.Int("failed_attempts", sub.FailedPaymentAttempts),
		logger.Status(string(sub.Status)))

	s.notifyStatusChange(ctx, sub, from, "payment failed")
	return sub, nil
}

// RenewPeriod advances the subscription into its next billing period after
// a successful payment.
func (s *service) RenewPeriod(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := sub.Status
	sub.RenewPeriodAt(s.clock.Now())

	if err := s.store.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save renewal: %w", err)
	}

	s.notifyStatusChange(ctx, sub, from, "period renewed")
	return sub, nil
}

// ChangePlan moves a subscription to a different plan, re-snapshotting
// price and currency from the new plan. Billing proration is the
// provider's concern and not handled here.
func (s *service) ChangePlan(ctx context.Context, id uuid.UUID, newPlanID string) (*Subscription, error) {
	plan, exists := s.plans[newPlanID]
	if !exists {
		return nil, ErrPlanNotFound
	}
	if !plan.IsActive {
		return nil, ErrPlanInactive
	}

	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPlanID := sub.PlanID
	sub.PlanID = newPlanID
	sub.UpdatePricing(plan.Price, plan.Currency)

	if err := s.store.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save plan change: %w", err)
	}

	s.log.InfoContext(ctx, "subscription plan changed",
		logger.SubscriptionID(sub.ID),
		slog.String("old_plan_id", oldPlanID),
		logger.PlanID(newPlanID))

	return sub, nil
}

// CreateCheckoutLink generates a hosted checkout link for a user to
// subscribe to a plan.
func (s *service) CreateCheckoutLink(ctx context.Context, userID uuid.UUID, planID string, opts CheckoutOptions) (*CheckoutLink, error) {
	plan, exists := s.plans[planID]
	if !exists {
		return nil, ErrPlanNotFound
	}
	if !plan.IsActive {
		return nil, ErrPlanInactive
	}

	// Prevent duplicate subscriptions for the same user
	if _, err := s.store.GetByUser(ctx, userID); err == nil {
		return nil, ErrSubscriptionAlreadyExists
	} else if !errors.Is(err, ErrSubscriptionNotFound) {
		return nil, err
	}

	return s.provider.CreateCheckoutLink(ctx, CheckoutRequest{
		PriceID:    plan.ID, // Plan.ID must match provider's price ID
		CustomerID: userID.String(),
		Email:      opts.Email,
		SuccessURL: opts.SuccessURL,
		CancelURL:  opts.CancelURL,
	})
}

// GetCustomerPortalLink returns a link to the provider's customer portal
// where users manage payment methods and cancellation.
func (s *service) GetCustomerPortalLink(ctx context.Context, userID uuid.UUID) (*PortalLink, error) {
	sub, err := s.store.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.provider.GetCustomerPortalLink(ctx, sub)
}

// HandleWebhook processes incoming webhook events from the billing
// provider. Unknown event types are acknowledged and ignored so the
// provider does not retry them indefinitely.
func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(ctx, payload, signature)
	if err != nil {
		return err
	}

	// Customer ID must be a valid UUID matching our user ID format
	userID, err := uuid.Parse(event.CustomerID)
	if err != nil {
		return fmt.Errorf("invalid user ID in webhook: %w", err)
	}

	now := s.clock.Now()

	switch event.Type {
	case EventSubscriptionCreated:
		return s.applySubscriptionCreated(ctx, userID, event, now)

	case EventSubscriptionUpdated:
		sub, err := s.store.GetByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("subscription not found for user %s: %w", userID, err)
		}

		from := sub.Status
		if event.PlanID != "" && event.PlanID != sub.PlanID {
			if plan, exists := s.plans[event.PlanID]; exists {
				sub.PlanID = event.PlanID
				sub.UpdatePricing(plan.Price, plan.Currency)
			}
		}
		if status := Status(event.Status); status.IsValid() && status != sub.Status {
			sub.UpdateStatusAt(status, "provider update", now)
		}

		if err := s.store.Save(ctx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		s.notifyStatusChange(ctx, sub, from, "provider update")

	case EventSubscriptionCancelled:
		sub, err := s.store.GetByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("subscription not found for user %s: %w", userID, err)
		}

		from := sub.Status
		sub.CancelAt(false, "cancelled by provider", now)

		if err := s.store.Save(ctx, sub); err != nil {
			return fmt.Errorf("failed to cancel subscription: %w", err)
		}
		s.notifyStatusChange(ctx, sub, from, "cancelled by provider")

	case EventSubscriptionResumed:
		sub, err := s.store.GetByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("subscription not found for user %s: %w", userID, err)
		}

		from := sub.Status
		sub.ReactivateAt(now)

		if err := s.store.Save(ctx, sub); err != nil {
			return fmt.Errorf("failed to resume subscription: %w", err)
		}
		s.notifyStatusChange(ctx, sub, from, "resumed by provider")

	case EventPaymentSucceeded:
		sub, err := s.store.GetByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("subscription not found for user %s: %w", userID, err)
		}

		from := sub.Status
		sub.RenewPeriodAt(now)

		if err := s.store.Save(ctx, sub); err != nil {
			return fmt.Errorf("failed to save renewal: %w", err)
		}
		s.notifyStatusChange(ctx, sub, from, "payment succeeded")

	case EventPaymentFailed:
		sub, err := s.store.GetByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, ErrSubscriptionNotFound) {
				return nil
			}
			return fmt.Errorf("failed to get subscription: %w", err)
		}

		from := sub.Status
		sub.RecordFailedPaymentAt(now)

		if err := s.store.Save(ctx, sub); err != nil {
			return fmt.Errorf("failed to save payment failure: %w", err)
		}
		s.notifyStatusChange(ctx, sub, from, "payment failed")

	default:
		s.log.DebugContext(ctx, "ignoring billing webhook event",
			slog.String("event", event.ProviderEvent))
	}

	return nil
}

func (s *service) applySubscriptionCreated(ctx context.Context, userID uuid.UUID, event *WebhookEvent, now time.Time) error {
	// Checkout completion may race subscription.created; whichever arrives
	// second attaches the provider subscription ID to the existing record.
	if existing, err := s.store.GetByUser(ctx, userID); err == nil {
		existing.SetProviderSubscriptionID(event.SubscriptionID)
		if status := Status(event.Status); status.IsValid() && status != existing.Status {
			existing.UpdateStatusAt(status, "provider update", now)
		}
		if err := s.store.Save(ctx, existing); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		return nil
	} else if !errors.Is(err, ErrSubscriptionNotFound) {
		return err
	}

	plan, exists := s.plans[event.PlanID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrPlanNotFound, event.PlanID)
	}

	var trialEnd *time.Time
	if plan.HasTrial() && Status(event.Status) == StatusTrial {
		te := plan.TrialEndsAt(now)
		trialEnd = &te
	}

	sub := New(userID, event.PlanID, now, plan.Price, plan.Currency, trialEnd)
	sub.SetProviderSubscriptionID(event.SubscriptionID)

	if err := s.store.Save(ctx, sub); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}

	s.log.InfoContext(ctx, "subscription created from webhook",
		logger.UserID(userID),
		logger.SubscriptionID(sub.ID),
		logger.PlanID(sub.PlanID))

	return nil
}

func (s *service) notifyStatusChange(ctx context.Context, sub *Subscription, from Status, reason string) {
	if s.onStatus == nil || sub.Status == from {
		return
	}
	s.onStatus(ctx, sub, from, sub.Status, reason)
}
