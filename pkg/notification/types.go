package notification

// Type categorizes what a notification is about.
type Type string

const (
	TypeInfo         Type = "info"
	TypeSuccess      Type = "success"
	TypeWarning      Type = "warning"
	TypeError        Type = "error"
	TypeStockAlert   Type = "stock_alert"
	TypeInvoice      Type = "invoice"
	TypePayment      Type = "payment"
	TypeAccount      Type = "account"
	TypeSystem       Type = "system"
	TypeSecurity     Type = "security"
	TypeSubscription Type = "subscription"
	TypeProduct      Type = "product"
	TypeReport       Type = "report"
)

// Priority is an ordered urgency level. The numeric ordering matters:
// preference gating compares priorities with < and Emergency must sort
// above everything else to implement its bypass.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
	PriorityEmergency
)

// String returns the lowercase name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	case PriorityEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// Status represents where a notification is in its delivery lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSent, StatusDelivered, StatusRead,
		StatusFailed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}
