package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mrz1836/postmark"
)

// EmailResolver maps a user to the address email notifications go to.
type EmailResolver func(ctx context.Context, userID uuid.UUID) (string, error)

// postmarkSender is the slice of the Postmark client the deliverer uses,
// extracted so tests can stub the API.
type postmarkSender interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// EmailDeliverer sends notifications over email via Postmark's
// transactional API. The notification title becomes the subject and the
// message the body; the notification type is attached as the Postmark
// tag for per-stream analytics.
type EmailDeliverer struct {
	client  postmarkSender
	from    string
	resolve EmailResolver
}

// NewEmailDeliverer creates a Postmark-backed email deliverer. Both
// tokens, the sender address, and the resolver are required.
func NewEmailDeliverer(serverToken, accountToken, from string, resolve EmailResolver) (*EmailDeliverer, error) {
	if serverToken == "" {
		return nil, fmt.Errorf("%w: server token is required", ErrInvalidDelivererConfig)
	}
	if accountToken == "" {
		return nil, fmt.Errorf("%w: account token is required", ErrInvalidDelivererConfig)
	}
	if from == "" {
		return nil, fmt.Errorf("%w: sender address is required", ErrInvalidDelivererConfig)
	}
	if resolve == nil {
		return nil, fmt.Errorf("%w: email resolver is required", ErrInvalidDelivererConfig)
	}

	return &EmailDeliverer{
		client:  postmark.NewClient(serverToken, accountToken),
		from:    from,
		resolve: resolve,
	}, nil
}

// Channel reports that this deliverer serves the email channel.
func (d *EmailDeliverer) Channel() ChannelSet { return ChannelEmail }

// Deliver sends the notification to the recipient's email address.
func (d *EmailDeliverer) Deliver(ctx context.Context, n *Notification) error {
	if n.RecipientID == nil {
		return ErrNoRecipient
	}

	to, err := d.resolve(ctx, *n.RecipientID)
	if err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}

	resp, err := d.client.SendEmail(ctx, postmark.Email{
		From:       d.from,
		To:         to,
		Subject:    n.Title,
		Tag:        string(n.Type),
		TextBody:   n.Message,
		TrackOpens: true,
	})
	if err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(ErrDeliveryFailed,
			fmt.Errorf("postmark error %d: %s", resp.ErrorCode, resp.Message))
	}
	return nil
}
