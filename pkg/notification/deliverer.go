package notification

import "context"

// Deliverer pushes a notification out over one channel. Implementations
// report which channel they serve so the manager can route per the
// recipient's preferences.
type Deliverer interface {
	// Channel returns the single channel this deliverer serves.
	Channel() ChannelSet

	// Deliver sends the notification to its recipient.
	Deliver(ctx context.Context, n *Notification) error
}

// NoOpDeliverer accepts every notification without doing anything.
// Useful in tests and for channels that are stored but not pushed.
type NoOpDeliverer struct {
	channel ChannelSet
}

// NewNoOpDeliverer creates a no-op deliverer for the given channel.
func NewNoOpDeliverer(channel ChannelSet) *NoOpDeliverer {
	return &NoOpDeliverer{channel: channel}
}

// Channel returns the channel the deliverer was created for.
func (d *NoOpDeliverer) Channel() ChannelSet { return d.channel }

// Deliver does nothing and returns nil.
func (d *NoOpDeliverer) Deliver(ctx context.Context, n *Notification) error {
	return nil
}
