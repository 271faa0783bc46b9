package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const inAppChannelPrefix = "notifications:user:"

// InAppChannelFor returns the Redis pub/sub channel carrying a user's
// real-time notifications. UI gateways subscribe to it to push events
// over websockets.
func InAppChannelFor(userID uuid.UUID) string {
	return inAppChannelPrefix + userID.String()
}

// inAppEnvelope is the wire format published to subscribers.
type inAppEnvelope struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	Type          Type       `json:"type"`
	Priority      Priority   `json:"priority"`
	ActionURL     string     `json:"action_url,omitempty"`
	IsDismissible bool       `json:"is_dismissible"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// RedisDeliverer pushes in-app notifications over Redis pub/sub, one
// channel per recipient. Delivery is fire-and-forget: a publish with no
// subscribers still succeeds, the notification just waits in the store
// until the user's next fetch.
type RedisDeliverer struct {
	client *redis.Client
}

// NewRedisDeliverer creates a pub/sub deliverer on the given client.
func NewRedisDeliverer(client *redis.Client) (*RedisDeliverer, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: redis client is required", ErrInvalidDelivererConfig)
	}
	return &RedisDeliverer{client: client}, nil
}

// Channel reports that this deliverer serves the in-app channel.
func (d *RedisDeliverer) Channel() ChannelSet { return ChannelInApp }

// Deliver publishes the notification to the recipient's channel.
func (d *RedisDeliverer) Deliver(ctx context.Context, n *Notification) error {
	if n.RecipientID == nil {
		return ErrNoRecipient
	}

	payload, err := json.Marshal(inAppEnvelope{
		ID:            n.ID,
		Title:         n.Title,
		Message:       n.Message,
		Type:          n.Type,
		Priority:      n.Priority,
		ActionURL:     n.ActionURL,
		IsDismissible: n.IsDismissible,
		CreatedAt:     n.CreatedAt,
		ExpiresAt:     n.ExpiresAt,
	})
	if err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}

	if err := d.client.Publish(ctx, InAppChannelFor(*n.RecipientID), payload).Err(); err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}
	return nil
}
