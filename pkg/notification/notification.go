package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a user-facing message moving through a delivery
// lifecycle: pending until dispatch, then sent, delivered and read, or
// failed, cancelled or expired. Status changes are validated against the
// package's transition table; illegal moves return
// ErrInvalidStatusTransition. Marking an already-read notification as
// read is a no-op rather than an error, so the read timestamp is never
// overwritten.
type Notification struct {
	ID       uuid.UUID
	Title    string
	Message  string
	Type     Type
	Priority Priority
	Status   Status
	Channels ChannelSet

	RecipientID *uuid.UUID
	SenderID    *uuid.UUID

	// Related-entity tagging, e.g. the payment a billing alert is about.
	RelatedEntityID   *uuid.UUID
	RelatedEntityType string

	Metadata   string // JSON blob for extensibility
	ActionURL  string
	TemplateID string

	CreatedAt   time.Time
	SentAt      *time.Time
	DeliveredAt *time.Time
	ReadAt      *time.Time
	ExpiresAt   *time.Time

	DeliveryAttempts int
	LastError        string

	// IsPersistent marks the notification as worth keeping long term.
	// Storage treats it as data; every notification is saved either way.
	IsPersistent  bool
	IsDismissible bool
}

// Option configures a notification at construction time.
type Option func(*Notification)

// WithRecipient addresses the notification to a user.
func WithRecipient(userID uuid.UUID) Option {
	return func(n *Notification) {
		n.RecipientID = &userID
	}
}

// WithSender records the user whose action triggered the notification.
func WithSender(userID uuid.UUID) Option {
	return func(n *Notification) {
		n.SenderID = &userID
	}
}

// WithPriority overrides the default Normal priority.
func WithPriority(p Priority) Option {
	return func(n *Notification) {
		n.Priority = p
	}
}

// WithChannels overrides the default in-app channel set.
func WithChannels(channels ChannelSet) Option {
	return func(n *Notification) {
		n.Channels = channels
	}
}

// Transient marks the notification as not worth persisting after the
// real-time push.
func Transient() Option {
	return func(n *Notification) {
		n.IsPersistent = false
	}
}

// NonDismissible prevents the user from dismissing the notification.
func NonDismissible() Option {
	return func(n *Notification) {
		n.IsDismissible = false
	}
}

// NewAt creates a pending notification at the given instant. Defaults:
// normal priority, in-app channel, persistent and dismissible.
func NewAt(title, message string, typ Type, now time.Time, opts ...Option) (*Notification, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}

	n := &Notification{
		ID:            uuid.New(),
		Title:         title,
		Message:       message,
		Type:          typ,
		Priority:      PriorityNormal,
		Status:        StatusPending,
		Channels:      ChannelInApp,
		CreatedAt:     now,
		IsPersistent:  true,
		IsDismissible: true,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// New is NewAt with the current wall-clock time.
func New(title, message string, typ Type, opts ...Option) (*Notification, error) {
	return NewAt(title, message, typ, time.Now().UTC(), opts...)
}

// SetRelatedEntity tags the notification with the domain object it is about.
func (n *Notification) SetRelatedEntity(entityID uuid.UUID, entityType string) {
	n.RelatedEntityID = &entityID
	n.RelatedEntityType = entityType
}

// SetMetadata replaces the opaque metadata blob.
func (n *Notification) SetMetadata(metadata string) {
	n.Metadata = metadata
}

// SetActionURL sets where the UI navigates when the notification is clicked.
func (n *Notification) SetActionURL(actionURL string) {
	n.ActionURL = actionURL
}

// SetTemplate records which template generated this notification.
func (n *Notification) SetTemplate(templateID string) {
	n.TemplateID = templateID
}

// SetExpiration sets the instant after which the notification is stale.
func (n *Notification) SetExpiration(expiresAt time.Time) {
	n.ExpiresAt = &expiresAt
}

// MarkAsSentAt records that the notification left for its channels.
func (n *Notification) MarkAsSentAt(now time.Time) error {
	to, err := fire(n.Status, eventSend)
	if err != nil {
		return err
	}
	n.Status = to
	sentAt := now
	n.SentAt = &sentAt
	return nil
}

// MarkAsSent is MarkAsSentAt with the current wall-clock time.
func (n *Notification) MarkAsSent() error {
	return n.MarkAsSentAt(time.Now().UTC())
}

// MarkAsDeliveredAt records confirmation from the delivery channel.
func (n *Notification) MarkAsDeliveredAt(now time.Time) error {
	to, err := fire(n.Status, eventDeliver)
	if err != nil {
		return err
	}
	n.Status = to
	deliveredAt := now
	n.DeliveredAt = &deliveredAt
	return nil
}

// MarkAsDelivered is MarkAsDeliveredAt with the current wall-clock time.
func (n *Notification) MarkAsDelivered() error {
	return n.MarkAsDeliveredAt(time.Now().UTC())
}

// MarkAsReadAt records that the recipient saw the notification. Calling
// it again after the notification is read is a no-op.
func (n *Notification) MarkAsReadAt(now time.Time) error {
	if n.Status == StatusRead {
		return nil
	}

	to, err := fire(n.Status, eventRead)
	if err != nil {
		return err
	}
	n.Status = to
	readAt := now
	n.ReadAt = &readAt
	return nil
}

// MarkAsRead is MarkAsReadAt with the current wall-clock time.
func (n *Notification) MarkAsRead() error {
	return n.MarkAsReadAt(time.Now().UTC())
}

// MarkAsFailed records a delivery failure, incrementing the attempt counter.
func (n *Notification) MarkAsFailed(errMsg string) error {
	to, err := fire(n.Status, eventFail)
	if err != nil {
		return err
	}
	n.Status = to
	n.LastError = errMsg
	n.DeliveryAttempts++
	return nil
}

// MarkAsCancelled withdraws the notification before it reaches the user.
func (n *Notification) MarkAsCancelled() error {
	to, err := fire(n.Status, eventCancel)
	if err != nil {
		return err
	}
	n.Status = to
	return nil
}

// MarkAsExpired flags that the notification outlived its relevance.
func (n *Notification) MarkAsExpired() error {
	to, err := fire(n.Status, eventExpire)
	if err != nil {
		return err
	}
	n.Status = to
	return nil
}

// IncrementDeliveryAttempts counts an attempt that did not end in a
// terminal failure, e.g. a retry in flight.
func (n *Notification) IncrementDeliveryAttempts() {
	n.DeliveryAttempts++
}

// IsExpiredAt reports whether the notification is past its expiry.
func (n *Notification) IsExpiredAt(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}

// IsExpired is IsExpiredAt with the current wall-clock time.
func (n *Notification) IsExpired() bool {
	return n.IsExpiredAt(time.Now().UTC())
}

// CanRetryDeliveryAt reports whether a failed notification is worth
// another attempt: under the attempt cap and not expired.
func (n *Notification) CanRetryDeliveryAt(now time.Time) bool {
	return n.Status == StatusFailed && n.DeliveryAttempts < 3 && !n.IsExpiredAt(now)
}

// CanRetryDelivery is CanRetryDeliveryAt with the current wall-clock time.
func (n *Notification) CanRetryDelivery() bool {
	return n.CanRetryDeliveryAt(time.Now().UTC())
}

// UpdateContent replaces the title and message, typically before re-sending.
func (n *Notification) UpdateContent(title, message string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	n.Title = title
	n.Message = message
	return nil
}

// AddChannel enables an additional delivery channel.
func (n *Notification) AddChannel(c ChannelSet) {
	n.Channels = n.Channels.With(c)
}

// RemoveChannel disables a delivery channel.
func (n *Notification) RemoveChannel(c ChannelSet) {
	n.Channels = n.Channels.Without(c)
}

// HasChannel reports whether every given channel is enabled.
func (n *Notification) HasChannel(c ChannelSet) bool {
	return n.Channels.Has(c)
}

// UpdateChannels replaces the channel set.
func (n *Notification) UpdateChannels(channels ChannelSet) {
	n.Channels = channels
}
