package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/logging"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/permcache"
)

// WireCacheInvalidation drops cached role lookups for a guild whenever
// its roles or channel overwrites change. Cached entries never go stale
// past the next gateway event.
func (s *Session) WireCacheInvalidation(cache *permcache.Cache) {
	invalidate := func(guildID, reason string) {
		cache.Invalidate(guildID)
		logging.Debug("Invalidated permission cache for guild %s (%s)", guildID, reason)
	}

	s.discord.AddHandler(func(_ *discordgo.Session, e *discordgo.GuildRoleCreate) {
		invalidate(e.GuildID, "role created")
	})
	s.discord.AddHandler(func(_ *discordgo.Session, e *discordgo.GuildRoleUpdate) {
		invalidate(e.GuildID, "role updated")
	})
	s.discord.AddHandler(func(_ *discordgo.Session, e *discordgo.GuildRoleDelete) {
		invalidate(e.GuildID, "role deleted")
	})
	s.discord.AddHandler(func(_ *discordgo.Session, e *discordgo.ChannelCreate) {
		if e.GuildID != "" {
			invalidate(e.GuildID, "channel created")
		}
	})
	s.discord.AddHandler(func(_ *discordgo.Session, e *discordgo.ChannelUpdate) {
		if e.GuildID != "" {
			invalidate(e.GuildID, "channel updated")
		}
	})
	s.discord.AddHandler(func(_ *discordgo.Session, e *discordgo.ChannelDelete) {
		if e.GuildID != "" {
			invalidate(e.GuildID, "channel deleted")
		}
	})
	s.discord.AddHandler(func(_ *discordgo.Session, e *discordgo.GuildMemberUpdate) {
		invalidate(e.GuildID, "member roles updated")
	})
}
