package notification

import "strings"

// ChannelSet is a bitmask of delivery channels. The zero value is the
// empty set.
type ChannelSet uint8

const (
	ChannelInApp ChannelSet = 1 << iota
	ChannelEmail
	ChannelSMS
	ChannelPush
)

const (
	ChannelNone ChannelSet = 0
	ChannelAll             = ChannelInApp | ChannelEmail | ChannelSMS | ChannelPush
)

// Channels creates a set from the given channels.
func Channels(chs ...ChannelSet) ChannelSet {
	var s ChannelSet
	for _, c := range chs {
		s |= c
	}
	return s
}

// Has reports whether every channel in c is present in the set. This is
// AND-equality, not any-bit-overlap: Has(ChannelEmail|ChannelSMS) is true
// only when both are enabled.
func (s ChannelSet) Has(c ChannelSet) bool {
	return s&c == c
}

// With returns the set with the given channels added.
func (s ChannelSet) With(c ChannelSet) ChannelSet {
	return s | c
}

// Without returns the set with the given channels removed.
func (s ChannelSet) Without(c ChannelSet) ChannelSet {
	return s &^ c
}

// IsEmpty reports whether no channel is enabled.
func (s ChannelSet) IsEmpty() bool {
	return s == ChannelNone
}

// Each returns the individual channels present in the set.
func (s ChannelSet) Each() []ChannelSet {
	var out []ChannelSet
	for _, c := range []ChannelSet{ChannelInApp, ChannelEmail, ChannelSMS, ChannelPush} {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// String returns a comma-separated list of channel names.
func (s ChannelSet) String() string {
	if s.IsEmpty() {
		return "none"
	}

	var names []string
	if s.Has(ChannelInApp) {
		names = append(names, "in_app")
	}
	if s.Has(ChannelEmail) {
		names = append(names, "email")
	}
	if s.Has(ChannelSMS) {
		names = append(names, "sms")
	}
	if s.Has(ChannelPush) {
		names = append(names, "push")
	}
	return strings.Join(names, ",")
}
