package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a pgx-backed Store implementation.
//
// Expected schema: a notifications table keyed by id with one column per
// entity field. Channels are stored as the bitmask smallint.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const notificationColumns = `
	id, title, message, type, priority, status, channels, recipient_id,
	sender_id, related_entity_id, related_entity_type, metadata, action_url,
	template_id, created_at, sent_at, delivered_at, read_at, expires_at,
	delivery_attempts, last_error, is_persistent, is_dismissible`

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Notification, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)

	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return n, nil
}

func (s *PostgresStore) ListByRecipient(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = $1`
	if opts.UnreadOnly {
		query += ` AND status <> 'read'`
	}
	query += ` ORDER BY created_at DESC, id`
	args := []any{userID}
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var list []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (s *PostgresStore) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE recipient_id = $1 AND status <> 'read'`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func scanNotification(row pgx.Row) (*Notification, error) {
	var (
		n        Notification
		channels int16
	)
	err := row.Scan(
		&n.ID, &n.Title, &n.Message, &n.Type, &n.Priority, &n.Status, &channels,
		&n.RecipientID, &n.SenderID, &n.RelatedEntityID, &n.RelatedEntityType,
		&n.Metadata, &n.ActionURL, &n.TemplateID, &n.CreatedAt, &n.SentAt,
		&n.DeliveredAt, &n.ReadAt, &n.ExpiresAt, &n.DeliveryAttempts,
		&n.LastError, &n.IsPersistent, &n.IsDismissible,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan notification: %w", err)
	}
	n.Channels = ChannelSet(channels)
	return &n, nil
}

func (s *PostgresStore) Save(ctx context.Context, n *Notification) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			message = EXCLUDED.message,
			priority = EXCLUDED.priority,
			status = EXCLUDED.status,
			channels = EXCLUDED.channels,
			related_entity_id = EXCLUDED.related_entity_id,
			related_entity_type = EXCLUDED.related_entity_type,
			metadata = EXCLUDED.metadata,
			action_url = EXCLUDED.action_url,
			template_id = EXCLUDED.template_id,
			sent_at = EXCLUDED.sent_at,
			delivered_at = EXCLUDED.delivered_at,
			read_at = EXCLUDED.read_at,
			expires_at = EXCLUDED.expires_at,
			delivery_attempts = EXCLUDED.delivery_attempts,
			last_error = EXCLUDED.last_error,
			is_persistent = EXCLUDED.is_persistent,
			is_dismissible = EXCLUDED.is_dismissible`,
		n.ID, n.Title, n.Message, n.Type, n.Priority, n.Status, int16(n.Channels),
		n.RecipientID, n.SenderID, n.RelatedEntityID, n.RelatedEntityType,
		n.Metadata, n.ActionURL, n.TemplateID, n.CreatedAt, n.SentAt,
		n.DeliveredAt, n.ReadAt, n.ExpiresAt, n.DeliveryAttempts,
		n.LastError, n.IsPersistent, n.IsDismissible,
	)
	if err != nil {
		return fmt.Errorf("upsert notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

// PostgresPreferenceStore is a pgx-backed PreferenceStore.
//
// Quiet-hours offsets are stored as seconds since midnight.
type PostgresPreferenceStore struct {
	pool *pgxpool.Pool
}

// NewPostgresPreferenceStore creates a PreferenceStore backed by the
// given connection pool.
func NewPostgresPreferenceStore(pool *pgxpool.Pool) *PostgresPreferenceStore {
	return &PostgresPreferenceStore{pool: pool}
}

const preferenceColumns = `
	id, user_id, type, enabled_channels, is_enabled, minimum_priority,
	quiet_hours_start_seconds, quiet_hours_end_seconds, respect_quiet_hours,
	batching_interval_minutes, created_at, updated_at`

func scanPreference(row pgx.Row) (*Preference, error) {
	var (
		p            Preference
		channels     int16
		startSeconds *int64
		endSeconds   *int64
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.Type, &channels, &p.IsEnabled, &p.MinimumPriority,
		&startSeconds, &endSeconds, &p.RespectQuietHours,
		&p.BatchingIntervalMinutes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan notification preference: %w", err)
	}
	p.EnabledChannels = ChannelSet(channels)
	if startSeconds != nil {
		d := time.Duration(*startSeconds) * time.Second
		p.QuietHoursStart = &d
	}
	if endSeconds != nil {
		d := time.Duration(*endSeconds) * time.Second
		p.QuietHoursEnd = &d
	}
	return &p, nil
}

func (s *PostgresPreferenceStore) Get(ctx context.Context, userID uuid.UUID, typ Type) (*Preference, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+preferenceColumns+` FROM notification_preferences WHERE user_id = $1 AND type = $2`,
		userID, typ)

	p, err := scanPreference(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPreferenceNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PostgresPreferenceStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Preference, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+preferenceColumns+` FROM notification_preferences WHERE user_id = $1 ORDER BY type`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query notification preferences: %w", err)
	}
	defer rows.Close()

	var list []*Preference
	for rows.Next() {
		p, err := scanPreference(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (s *PostgresPreferenceStore) Save(ctx context.Context, p *Preference) error {
	var startSeconds, endSeconds *int64
	if p.QuietHoursStart != nil {
		v := int64(*p.QuietHoursStart / time.Second)
		startSeconds = &v
	}
	if p.QuietHoursEnd != nil {
		v := int64(*p.QuietHoursEnd / time.Second)
		endSeconds = &v
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO notification_preferences (`+preferenceColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (user_id, type) DO UPDATE SET
			enabled_channels = EXCLUDED.enabled_channels,
			is_enabled = EXCLUDED.is_enabled,
			minimum_priority = EXCLUDED.minimum_priority,
			quiet_hours_start_seconds = EXCLUDED.quiet_hours_start_seconds,
			quiet_hours_end_seconds = EXCLUDED.quiet_hours_end_seconds,
			respect_quiet_hours = EXCLUDED.respect_quiet_hours,
			batching_interval_minutes = EXCLUDED.batching_interval_minutes,
			updated_at = EXCLUDED.updated_at`,
		p.ID, p.UserID, p.Type, int16(p.EnabledChannels), p.IsEnabled, p.MinimumPriority,
		startSeconds, endSeconds, p.RespectQuietHours,
		p.BatchingIntervalMinutes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert notification preference: %w", err)
	}
	return nil
}

// PostgresTemplateStore is a pgx-backed TemplateStore.
type PostgresTemplateStore struct {
	pool *pgxpool.Pool
}

// NewPostgresTemplateStore creates a TemplateStore backed by the given
// connection pool.
func NewPostgresTemplateStore(pool *pgxpool.Pool) *PostgresTemplateStore {
	return &PostgresTemplateStore{pool: pool}
}

const templateColumns = `
	id, name, description, title_template, message_template, type,
	default_priority, default_channels, action_url_template,
	expiration_hours, is_active, created_at, updated_at`

func scanTemplate(row pgx.Row) (*Template, error) {
	var (
		t        Template
		channels int16
	)
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.TitleTemplate, &t.MessageTemplate,
		&t.Type, &t.DefaultPriority, &channels, &t.ActionURLTemplate,
		&t.ExpirationHours, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan notification template: %w", err)
	}
	t.DefaultChannels = ChannelSet(channels)
	return &t, nil
}

func (s *PostgresTemplateStore) Get(ctx context.Context, id string) (*Template, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM notification_templates WHERE id = $1`, id)

	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *PostgresTemplateStore) List(ctx context.Context) ([]*Template, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+templateColumns+` FROM notification_templates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query notification templates: %w", err)
	}
	defer rows.Close()

	var list []*Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (s *PostgresTemplateStore) Save(ctx context.Context, t *Template) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO notification_templates (`+templateColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			title_template = EXCLUDED.title_template,
			message_template = EXCLUDED.message_template,
			type = EXCLUDED.type,
			default_priority = EXCLUDED.default_priority,
			default_channels = EXCLUDED.default_channels,
			action_url_template = EXCLUDED.action_url_template,
			expiration_hours = EXCLUDED.expiration_hours,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at`,
		t.ID, t.Name, t.Description, t.TitleTemplate, t.MessageTemplate,
		t.Type, t.DefaultPriority, int16(t.DefaultChannels), t.ActionURLTemplate,
		t.ExpirationHours, t.IsActive, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert notification template: %w", err)
	}
	return nil
}
