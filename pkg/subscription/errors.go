package subscription

import "errors"

var (
	// Validation errors: the caller passed a bad argument and can correct it.
	ErrQuantityNotPositive = errors.New("subscription quantity must be greater than zero")
	ErrPriceNegative       = errors.New("subscription price cannot be negative")
	ErrGraceDaysNegative   = errors.New("grace period days cannot be negative")

	// Domain-rule violations, surfaced for business-rule handling.
	ErrPlanInactive              = errors.New("subscription plan is not active")
	ErrSubscriptionAlreadyExists = errors.New("user already has a subscription")
	ErrInvalidPlanConfiguration  = errors.New("invalid subscription plan configuration")

	// Not-found conditions.
	ErrPlanNotFound         = errors.New("subscription plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")

	ErrFailedToLoadPlans = errors.New("failed to load subscription plans")

	// Provider-specific errors.
	ErrMissingAPIKey              = errors.New("billing provider API key is required")
	ErrMissingWebhookSecret       = errors.New("billing provider webhook secret is required")
	ErrInvalidProviderEnvironment = errors.New("invalid billing provider environment")
	ErrWebhookVerificationFailed  = errors.New("webhook signature verification failed")
	ErrNoCheckoutURL              = errors.New("no checkout URL returned from provider")
	ErrNoPortalURL                = errors.New("no portal URL returned from provider")
)
