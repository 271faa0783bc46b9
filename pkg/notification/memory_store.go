package notification

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and single-process
// deployments. All methods are safe for concurrent use and operate on
// copies, so callers never share state with the store.
type MemoryStore struct {
	mu            sync.RWMutex
	notifications map[uuid.UUID]*Notification
}

// NewMemoryStore creates an empty in-memory notification store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		notifications: make(map[uuid.UUID]*Notification),
	}
}

func copyNotification(n *Notification) *Notification {
	clone := *n
	if n.RecipientID != nil {
		id := *n.RecipientID
		clone.RecipientID = &id
	}
	if n.SenderID != nil {
		id := *n.SenderID
		clone.SenderID = &id
	}
	if n.RelatedEntityID != nil {
		id := *n.RelatedEntityID
		clone.RelatedEntityID = &id
	}
	if n.SentAt != nil {
		t := *n.SentAt
		clone.SentAt = &t
	}
	if n.DeliveredAt != nil {
		t := *n.DeliveredAt
		clone.DeliveredAt = &t
	}
	if n.ReadAt != nil {
		t := *n.ReadAt
		clone.ReadAt = &t
	}
	if n.ExpiresAt != nil {
		t := *n.ExpiresAt
		clone.ExpiresAt = &t
	}
	return &clone
}

// Get returns the notification with the given ID.
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, ErrNotificationNotFound
	}
	return copyNotification(n), nil
}

// ListByRecipient returns the user's notifications, newest first.
func (s *MemoryStore) ListByRecipient(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*Notification
	for _, n := range s.notifications {
		if n.RecipientID == nil || *n.RecipientID != userID {
			continue
		}
		if opts.UnreadOnly && n.Status == StatusRead {
			continue
		}
		list = append(list, copyNotification(n))
	}

	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID.String() < list[j].ID.String()
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(list) {
			return nil, nil
		}
		list = list[opts.Offset:]
	}
	if opts.Limit > 0 && len(list) > opts.Limit {
		list = list[:opts.Limit]
	}
	return list, nil
}

// CountUnread returns how many of the user's notifications are unread.
func (s *MemoryStore) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if n.RecipientID != nil && *n.RecipientID == userID && n.Status != StatusRead {
			count++
		}
	}
	return count, nil
}

// Save stores a copy of the notification, inserting or replacing by ID.
func (s *MemoryStore) Save(ctx context.Context, n *Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications[n.ID] = copyNotification(n)
	return nil
}

// Delete removes the notification. Deleting a missing one is a no-op.
func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.notifications, id)
	return nil
}

// MemoryPreferenceStore is an in-memory PreferenceStore.
type MemoryPreferenceStore struct {
	mu          sync.RWMutex
	preferences map[uuid.UUID]map[Type]*Preference
}

// NewMemoryPreferenceStore creates an empty in-memory preference store.
func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{
		preferences: make(map[uuid.UUID]map[Type]*Preference),
	}
}

func copyPreference(p *Preference) *Preference {
	clone := *p
	if p.QuietHoursStart != nil {
		d := *p.QuietHoursStart
		clone.QuietHoursStart = &d
	}
	if p.QuietHoursEnd != nil {
		d := *p.QuietHoursEnd
		clone.QuietHoursEnd = &d
	}
	if p.BatchingIntervalMinutes != nil {
		m := *p.BatchingIntervalMinutes
		clone.BatchingIntervalMinutes = &m
	}
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		clone.UpdatedAt = &t
	}
	return &clone
}

// Get returns the user's preference for one notification type.
func (s *MemoryPreferenceStore) Get(ctx context.Context, userID uuid.UUID, typ Type) (*Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.preferences[userID][typ]
	if !ok {
		return nil, ErrPreferenceNotFound
	}
	return copyPreference(p), nil
}

// ListByUser returns all of the user's preferences.
func (s *MemoryPreferenceStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*Preference
	for _, p := range s.preferences[userID] {
		list = append(list, copyPreference(p))
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Type < list[j].Type
	})
	return list, nil
}

// Save stores a copy of the preference, replacing any existing one for
// the same user and type.
func (s *MemoryPreferenceStore) Save(ctx context.Context, p *Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byType, ok := s.preferences[p.UserID]
	if !ok {
		byType = make(map[Type]*Preference)
		s.preferences[p.UserID] = byType
	}
	byType[p.Type] = copyPreference(p)
	return nil
}

// MemoryTemplateStore is an in-memory TemplateStore.
type MemoryTemplateStore struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewMemoryTemplateStore creates an empty in-memory template store.
func NewMemoryTemplateStore() *MemoryTemplateStore {
	return &MemoryTemplateStore{
		templates: make(map[string]*Template),
	}
}

func copyTemplate(t *Template) *Template {
	clone := *t
	if t.ExpirationHours != nil {
		h := *t.ExpirationHours
		clone.ExpirationHours = &h
	}
	if t.UpdatedAt != nil {
		u := *t.UpdatedAt
		clone.UpdatedAt = &u
	}
	return &clone
}

// Get returns the template with the given ID.
func (s *MemoryTemplateStore) Get(ctx context.Context, id string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return copyTemplate(t), nil
}

// List returns all templates ordered by ID.
func (s *MemoryTemplateStore) List(ctx context.Context) ([]*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*Template
	for _, t := range s.templates {
		list = append(list, copyTemplate(t))
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// Save stores a copy of the template, inserting or replacing by ID.
func (s *MemoryTemplateStore) Save(ctx context.Context, t *Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.templates[t.ID] = copyTemplate(t)
	return nil
}
