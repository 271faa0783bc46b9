package notification

import (
	"context"

	"github.com/google/uuid"
)

// ListOptions narrows and pages a recipient's notification list.
type ListOptions struct {
	// UnreadOnly keeps only notifications the recipient has not read.
	UnreadOnly bool
	// Limit caps the result size; zero means no cap.
	Limit int
	// Offset skips that many notifications for paging.
	Offset int
}

// Store persists notifications. Lists are ordered newest first.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*Notification, error)
	ListByRecipient(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	Save(ctx context.Context, n *Notification) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PreferenceStore persists per-user, per-type delivery preferences.
type PreferenceStore interface {
	Get(ctx context.Context, userID uuid.UUID, typ Type) (*Preference, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Preference, error)
	Save(ctx context.Context, p *Preference) error
}

// TemplateStore persists notification templates.
type TemplateStore interface {
	Get(ctx context.Context, id string) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
	Save(ctx context.Context, t *Template) error
}
