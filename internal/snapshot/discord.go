package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/rest"
)

// DiscordAccessor builds snapshots from discordgo's cached guild state
// and answers webhook-count queries through the REST client. One
// accessor serves every guild the session is in.
type DiscordAccessor struct {
	session *discordgo.Session
	rest    *rest.Client
}

// NewDiscordAccessor wires the accessor to a connected session.
func NewDiscordAccessor(session *discordgo.Session, restClient *rest.Client) *DiscordAccessor {
	return &DiscordAccessor{session: session, rest: restClient}
}

// Snapshot captures one consistent view of a guild. Roles come out in
// platform order: ascending position, original order on ties, the
// everyone role first.
func (a *DiscordAccessor) Snapshot(ctx context.Context, guildID string) (*Snapshot, error) {
	guild, err := a.session.State.Guild(guildID)
	if err != nil {
		guild, err = a.session.Guild(guildID)
		if err != nil {
			return nil, fmt.Errorf("snapshot: fetch guild %s: %w", guildID, err)
		}
	}

	memberCounts := countRoleMembers(guild)

	roles := make([]Role, 0, len(guild.Roles))
	for _, r := range guild.Roles {
		roles = append(roles, Role{
			ID:          r.ID,
			Name:        r.Name,
			Position:    r.Position,
			Permissions: perms.Set(r.Permissions),
			MemberCount: memberCounts[r.ID],
			Everyone:    r.ID == guildID,
		})
	}
	sort.SliceStable(roles, func(i, j int) bool {
		return roles[i].Position < roles[j].Position
	})

	channels := make([]Channel, 0, len(guild.Channels))
	for _, ch := range guild.Channels {
		overwrites := make(map[string]Overwrite)
		for _, ow := range ch.PermissionOverwrites {
			if ow.Type != discordgo.PermissionOverwriteTypeRole {
				continue
			}
			overwrites[ow.ID] = Overwrite{
				Allow: perms.Set(ow.Allow),
				Deny:  perms.Set(ow.Deny),
			}
		}
		channels = append(channels, Channel{
			ID:             ch.ID,
			Name:           ch.Name,
			Kind:           channelKind(ch.Type),
			RoleOverwrites: overwrites,
		})
	}

	createdAt, _ := discordgo.SnowflakeTimestamp(guildID)

	return &Snapshot{
		GuildID:  guildID,
		Roles:    roles,
		Channels: channels,
		Settings: Settings{
			MFALevel:             int(guild.MfaLevel),
			VerificationLevel:    int(guild.VerificationLevel),
			ContentFilterLevel:   int(guild.ExplicitContentFilter),
			DefaultNotifications: int(guild.DefaultMessageNotifications),
			NSFWLevel:            int(guild.NSFWLevel),
			Features:             featureNames(guild.Features),
			MemberCount:          guild.MemberCount,
			CreatedAt:            createdAt,
		},
	}, nil
}

// WebhookCount reports the channel's webhook count, or the unavailable
// marker when the bot lacks access. Permission denial never surfaces
// as an error past this boundary.
func (a *DiscordAccessor) WebhookCount(ctx context.Context, channelID string) (int, error) {
	count, err := a.rest.ChannelWebhookCount(ctx, channelID)
	if errors.Is(err, rest.ErrForbidden) {
		return WebhookCountUnavailable, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// countRoleMembers tallies cached members per role. The gateway only
// fills the member cache with the members intent; an empty cache
// yields zero counts rather than an error.
func countRoleMembers(guild *discordgo.Guild) map[string]int {
	counts := make(map[string]int, len(guild.Roles))
	for _, m := range guild.Members {
		for _, roleID := range m.Roles {
			counts[roleID]++
		}
	}
	// Every member carries the everyone role implicitly.
	counts[guild.ID] = guild.MemberCount
	return counts
}

func channelKind(t discordgo.ChannelType) ChannelKind {
	switch t {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return ChannelText
	case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
		return ChannelVoice
	default:
		return ChannelOther
	}
}

func featureNames(features []discordgo.GuildFeature) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		out = append(out, string(f))
	}
	return out
}
