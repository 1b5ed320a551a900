package perms

import "strings"

// Permission is a single Discord permission bit. Values match the
// positions used by the Discord API permission integer.
type Permission uint64

const (
	KickMembers     Permission = 1 << 1
	BanMembers      Permission = 1 << 2
	Administrator   Permission = 1 << 3
	ManageChannels  Permission = 1 << 4
	ManageGuild     Permission = 1 << 5
	AddReactions    Permission = 1 << 6
	PrioritySpeaker Permission = 1 << 8
	SendMessages    Permission = 1 << 11
	SendTTSMessages Permission = 1 << 12
	ManageMessages  Permission = 1 << 13
	MentionEveryone Permission = 1 << 17
	ExternalEmojis  Permission = 1 << 18
	MuteMembers     Permission = 1 << 22
	DeafenMembers   Permission = 1 << 23
	MoveMembers     Permission = 1 << 24
	ManageRoles     Permission = 1 << 28
	ManageWebhooks  Permission = 1 << 29
)

// Set is a permission set represented as a bitmask. The mask value is
// its own canonical form: set-equal inputs always compare and hash
// identically, regardless of how the caller assembled them.
type Set uint64

// Fixed sets the detectors evaluate against.
const (
	// Dangerous covers the hierarchy / everyone-exposure dangerous set.
	Dangerous = Set(Administrator | BanMembers | KickMembers | ManageGuild |
		ManageRoles | ManageChannels | ManageWebhooks)

	// Critical is Dangerous plus message moderation, used by the
	// dangerous-permission inventory.
	Critical = Dangerous | Set(ManageMessages)

	// Spam covers permissions that enable message flooding.
	Spam = Set(MentionEveryone | SendMessages | AddReactions |
		ExternalEmojis | SendTTSMessages)

	// Voice covers permissions that enable voice-channel abuse.
	Voice = Set(MuteMembers | DeafenMembers | MoveMembers |
		ManageChannels | PrioritySpeaker)

	// VoiceManage is the subset of Voice that alone flags a role.
	VoiceManage = Set(ManageChannels)
)

// NewSet builds a Set from individual permissions.
func NewSet(ps ...Permission) Set {
	var s Set
	for _, p := range ps {
		s |= Set(p)
	}
	return s
}

// Has reports whether the single permission p is in the set.
func (s Set) Has(p Permission) bool {
	return s&Set(p) != 0
}

// Intersects reports whether the two sets share any permission.
func (s Set) Intersects(other Set) bool {
	return s&other != 0
}

// Intersect returns the permissions common to both sets.
func (s Set) Intersect(other Set) Set {
	return s & other
}

// Without returns s with every permission in other removed.
func (s Set) Without(other Set) Set {
	return s &^ other
}

// With returns s with p added.
func (s Set) With(p Permission) Set {
	return s | Set(p)
}

// Count returns the number of permissions in the set.
func (s Set) Count() int {
	n := 0
	for v := uint64(s); v != 0; v &= v - 1 {
		n++
	}
	return n
}

// IsEmpty reports whether the set holds no permissions.
func (s Set) IsEmpty() bool {
	return s == 0
}

var names = []struct {
	p    Permission
	name string
}{
	{KickMembers, "kick_members"},
	{BanMembers, "ban_members"},
	{Administrator, "administrator"},
	{ManageChannels, "manage_channels"},
	{ManageGuild, "manage_guild"},
	{AddReactions, "add_reactions"},
	{PrioritySpeaker, "priority_speaker"},
	{SendMessages, "send_messages"},
	{SendTTSMessages, "send_tts_messages"},
	{ManageMessages, "manage_messages"},
	{MentionEveryone, "mention_everyone"},
	{ExternalEmojis, "external_emojis"},
	{MuteMembers, "mute_members"},
	{DeafenMembers, "deafen_members"},
	{MoveMembers, "move_members"},
	{ManageRoles, "manage_roles"},
	{ManageWebhooks, "manage_webhooks"},
}

// Name returns the wire name of a single permission, or empty when the
// value is not a known single bit.
func (p Permission) Name() string {
	for _, e := range names {
		if e.p == p {
			return e.name
		}
	}
	return ""
}

// Known reports whether p is exactly one known permission bit.
func (p Permission) Known() bool {
	return p.Name() != ""
}

// Names lists the permissions in the set in ascending bit order. The
// order is stable, so it is safe to use in finding parameters.
func (s Set) Names() []string {
	out := make([]string, 0, s.Count())
	for _, e := range names {
		if s.Has(e.p) {
			out = append(out, e.name)
		}
	}
	return out
}

// Each calls fn for every permission in the set, in ascending bit order.
func (s Set) Each(fn func(Permission)) {
	for _, e := range names {
		if s.Has(e.p) {
			fn(e.p)
		}
	}
}

func (s Set) String() string {
	if s.IsEmpty() {
		return "none"
	}
	return strings.Join(s.Names(), ",")
}
