package notification

import (
	"time"

	"github.com/google/uuid"
)

// minBatchingInterval is the shortest allowed digest window. Anything
// tighter defeats the point of batching.
const minBatchingInterval = time.Minute

// Preference captures how a user wants to receive one notification
// type: which channels, the minimum priority worth interrupting them
// for, and an optional quiet-hours window during which everything below
// Critical is held back. Emergency notifications ignore preferences
// entirely except for the channel check.
type Preference struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Type   Type

	EnabledChannels ChannelSet
	IsEnabled       bool
	MinimumPriority Priority

	// Quiet hours are offsets from midnight in the user's local day.
	// A window whose start is after its end wraps around midnight.
	QuietHoursStart   *time.Duration
	QuietHoursEnd     *time.Duration
	RespectQuietHours bool

	// BatchingIntervalMinutes groups low-priority notifications into
	// digests; nil means deliver immediately.
	BatchingIntervalMinutes *int

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// NewPreferenceAt creates a preference with the defaults applied to
// users who never opened the settings page: enabled, in-app only, no
// priority floor, quiet hours respected once configured.
func NewPreferenceAt(userID uuid.UUID, typ Type, now time.Time) *Preference {
	return &Preference{
		ID:                uuid.New(),
		UserID:            userID,
		Type:              typ,
		EnabledChannels:   ChannelInApp,
		IsEnabled:         true,
		MinimumPriority:   PriorityLow,
		RespectQuietHours: true,
		CreatedAt:         now,
	}
}

// NewPreference is NewPreferenceAt with the current wall-clock time.
func NewPreference(userID uuid.UUID, typ Type) *Preference {
	return NewPreferenceAt(userID, typ, time.Now().UTC())
}

func (p *Preference) touchAt(now time.Time) {
	updatedAt := now
	p.UpdatedAt = &updatedAt
}

// UpdateChannels replaces the enabled channel set.
func (p *Preference) UpdateChannels(channels ChannelSet) {
	p.EnabledChannels = channels
	p.touchAt(time.Now().UTC())
}

// Enable turns the notification type back on.
func (p *Preference) Enable() {
	p.IsEnabled = true
	p.touchAt(time.Now().UTC())
}

// Disable mutes the notification type on every channel.
func (p *Preference) Disable() {
	p.IsEnabled = false
	p.touchAt(time.Now().UTC())
}

// SetMinimumPriority drops everything below the given priority.
func (p *Preference) SetMinimumPriority(priority Priority) {
	p.MinimumPriority = priority
	p.touchAt(time.Now().UTC())
}

// SetQuietHours configures the do-not-disturb window as offsets from
// midnight. A start after the end wraps the window around midnight.
func (p *Preference) SetQuietHours(start, end time.Duration) {
	p.QuietHoursStart = &start
	p.QuietHoursEnd = &end
	p.touchAt(time.Now().UTC())
}

// ClearQuietHours removes the do-not-disturb window.
func (p *Preference) ClearQuietHours() {
	p.QuietHoursStart = nil
	p.QuietHoursEnd = nil
	p.touchAt(time.Now().UTC())
}

// SetRespectQuietHours toggles quiet-hours enforcement without
// discarding the configured window.
func (p *Preference) SetRespectQuietHours(respect bool) {
	p.RespectQuietHours = respect
	p.touchAt(time.Now().UTC())
}

// SetBatchingInterval groups notifications into digests delivered at
// most once per interval.
func (p *Preference) SetBatchingInterval(interval time.Duration) error {
	if interval < minBatchingInterval {
		return ErrBatchingIntervalShort
	}
	minutes := int(interval / time.Minute)
	p.BatchingIntervalMinutes = &minutes
	p.touchAt(time.Now().UTC())
	return nil
}

// ClearBatchingInterval restores immediate delivery.
func (p *Preference) ClearBatchingInterval() {
	p.BatchingIntervalMinutes = nil
	p.touchAt(time.Now().UTC())
}

// IsInQuietHoursAt reports whether the given instant falls inside the
// configured quiet window. Windows that wrap midnight (start after end,
// e.g. 22:00 to 07:00) cover the late evening and the early morning.
func (p *Preference) IsInQuietHoursAt(now time.Time) bool {
	if !p.RespectQuietHours || p.QuietHoursStart == nil || p.QuietHoursEnd == nil {
		return false
	}

	sinceMidnight := time.Duration(now.Hour())*time.Hour +
		time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second

	start, end := *p.QuietHoursStart, *p.QuietHoursEnd
	if start > end {
		return sinceMidnight >= start || sinceMidnight <= end
	}
	return sinceMidnight >= start && sinceMidnight <= end
}

// IsInQuietHours is IsInQuietHoursAt with the current wall-clock time.
func (p *Preference) IsInQuietHours() bool {
	return p.IsInQuietHoursAt(time.Now().UTC())
}

// ShouldReceiveNotificationAt decides whether a notification of the
// given priority may go out on the given channel right now. Emergency
// notifications bypass both the priority floor and quiet hours, but a
// disabled preference or a missing channel still blocks them. During
// quiet hours only Critical and above get through.
func (p *Preference) ShouldReceiveNotificationAt(priority Priority, channel ChannelSet, now time.Time) bool {
	if !p.IsEnabled {
		return false
	}
	if priority < p.MinimumPriority {
		return false
	}
	if !p.EnabledChannels.Has(channel) {
		return false
	}
	if priority == PriorityEmergency {
		return true
	}
	if p.IsInQuietHoursAt(now) && priority < PriorityCritical {
		return false
	}
	return true
}

// ShouldReceiveNotification is ShouldReceiveNotificationAt with the
// current wall-clock time.
func (p *Preference) ShouldReceiveNotification(priority Priority, channel ChannelSet) bool {
	return p.ShouldReceiveNotificationAt(priority, channel, time.Now().UTC())
}
