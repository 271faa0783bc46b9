package notification

import "errors"

var (
	// Domain-rule violations, surfaced for business-rule handling.
	ErrInvalidStatusTransition = errors.New("invalid notification status transition")
	ErrTemplateInactive        = errors.New("notification template is not active")

	// Validation errors: the caller passed a bad argument and can correct it.
	ErrEmptyTitle            = errors.New("notification title cannot be empty")
	ErrBatchingIntervalShort = errors.New("batching interval must be at least one minute")

	// Not-found conditions.
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPreferenceNotFound   = errors.New("notification preference not found")
	ErrTemplateNotFound     = errors.New("notification template not found")

	ErrTemplateRender = errors.New("failed to render notification template")

	// Delivery errors.
	ErrInvalidDelivererConfig = errors.New("invalid deliverer configuration")
	ErrNoRecipient            = errors.New("notification has no recipient")
	ErrDeliveryFailed         = errors.New("failed to deliver notification")
)
