package payment

import "errors"

var (
	// Validation errors: the caller passed a bad argument and can correct it.
	ErrRefundAmountNotPositive = errors.New("refund amount must be greater than zero")
	ErrRefundExceedsAmount     = errors.New("refund amount cannot exceed payment amount")
	ErrRefundExceedsRemaining  = errors.New("total refund amount cannot exceed payment amount")

	// Not-found conditions.
	ErrPaymentNotFound = errors.New("payment not found")
)
