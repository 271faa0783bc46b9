package hr

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChecklistItem is one task in an onboarding or offboarding workflow.
// Completion is idempotent: marking a completed item again keeps the
// original timestamp.
type ChecklistItem struct {
	ID          uuid.UUID
	Code        string
	Title       string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func newChecklistItemAt(code, title string, now time.Time) ChecklistItem {
	return ChecklistItem{
		ID:        uuid.New(),
		Code:      strings.ToUpper(strings.TrimSpace(code)),
		Title:     strings.TrimSpace(title),
		CreatedAt: now,
	}
}

// IsCompleted reports whether the item has been marked done.
func (i *ChecklistItem) IsCompleted() bool {
	return i.CompletedAt != nil
}

func (i *ChecklistItem) markCompletedAt(now time.Time) {
	if i.CompletedAt != nil {
		return
	}
	completedAt := now
	i.CompletedAt = &completedAt
}
