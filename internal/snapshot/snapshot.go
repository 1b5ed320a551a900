package snapshot

import (
	"context"
	"time"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
)

// WebhookCountUnavailable marks a channel whose webhook list could not
// be fetched (permission denied or transient failure). Detectors carry
// it through into findings instead of failing.
const WebhookCountUnavailable = -1

// ChannelKind classifies a channel for detection purposes.
type ChannelKind uint8

const (
	ChannelOther ChannelKind = iota
	ChannelText
	ChannelVoice
)

// Role is one guild role as of the snapshot instant. Roles with equal
// positions keep the snapshot's original ordering as tie-break.
type Role struct {
	ID          string
	Name        string
	Position    int
	Permissions perms.Set
	MemberCount int
	Everyone    bool
}

// Overwrite is a per-channel allow/deny pair for one subject role.
type Overwrite struct {
	Allow perms.Set
	Deny  perms.Set
}

// Channel is one guild channel with its role overwrites.
type Channel struct {
	ID             string
	Name           string
	Kind           ChannelKind
	RoleOverwrites map[string]Overwrite
}

// Overwrite returns the channel overwrite for a role, if any.
func (c *Channel) Overwrite(roleID string) (Overwrite, bool) {
	ow, ok := c.RoleOverwrites[roleID]
	return ow, ok
}

// Settings is the guild-wide security configuration, immutable for one
// evaluation pass.
type Settings struct {
	MFALevel             int
	VerificationLevel    int
	ContentFilterLevel   int
	DefaultNotifications int
	NSFWLevel            int
	Features             []string
	MemberCount          int
	CreatedAt            time.Time
}

// HasFeature reports whether a guild feature flag is set.
func (s Settings) HasFeature(name string) bool {
	for _, f := range s.Features {
		if f == name {
			return true
		}
	}
	return false
}

// Snapshot is the immutable view of one guild for one evaluation run.
// Roles keep the platform ordering; every detector in a run observes
// the same snapshot.
type Snapshot struct {
	GuildID  string
	Roles    []Role
	Channels []Channel
	Settings Settings
}

// EveryoneRole returns the guild's implicit base role. A snapshot
// without one is malformed; callers get a zero Role and false.
func (s *Snapshot) EveryoneRole() (Role, bool) {
	for _, r := range s.Roles {
		if r.Everyone {
			return r, true
		}
	}
	return Role{}, false
}

// Role looks a role up by id.
func (s *Snapshot) Role(id string) (Role, bool) {
	for _, r := range s.Roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

// TextChannels returns the text channels in snapshot order.
func (s *Snapshot) TextChannels() []Channel {
	return s.channelsOfKind(ChannelText)
}

// VoiceChannels returns the voice channels in snapshot order.
func (s *Snapshot) VoiceChannels() []Channel {
	return s.channelsOfKind(ChannelVoice)
}

func (s *Snapshot) channelsOfKind(kind ChannelKind) []Channel {
	var out []Channel
	for _, c := range s.Channels {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Accessor is the collaborator boundary that produces snapshots and
// answers per-channel webhook-count queries. WebhookCount reports
// WebhookCountUnavailable, not an error, when the list is forbidden.
type Accessor interface {
	Snapshot(ctx context.Context, guildID string) (*Snapshot, error)
	WebhookCount(ctx context.Context, channelID string) (int, error)
}
