package payment

// Status represents the current state of a payment.
type Status string

const (
	StatusPending           Status = "pending"
	StatusProcessing        Status = "processing"
	StatusCompleted         Status = "completed"
	StatusFailed            Status = "failed"
	StatusCancelled         Status = "cancelled"
	StatusRequiresAction    Status = "requires_action"
	StatusDisputed          Status = "disputed"
	StatusRefunded          Status = "refunded"
	StatusPartiallyRefunded Status = "partially_refunded"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed,
		StatusCancelled, StatusRequiresAction, StatusDisputed,
		StatusRefunded, StatusPartiallyRefunded:
		return true
	}
	return false
}

// IsTerminal reports whether a payment in this status is finished.
// Failed is not terminal because failed payments may be retried.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Method represents how a payment was (or will be) collected.
type Method string

const (
	MethodCreditCard   Method = "credit_card"
	MethodDebitCard    Method = "debit_card"
	MethodPayPal       Method = "paypal"
	MethodBankTransfer Method = "bank_transfer"
	MethodApplePay     Method = "apple_pay"
	MethodGooglePay    Method = "google_pay"
	MethodOther        Method = "other"
)

// IsValid reports whether m is one of the known payment methods.
func (m Method) IsValid() bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodPayPal,
		MethodBankTransfer, MethodApplePay, MethodGooglePay, MethodOther:
		return true
	}
	return false
}
