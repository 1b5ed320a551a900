package commands

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// requireAdmin gates the audit commands behind Administrator or guild
// ownership. The interaction member already carries its resolved
// permissions, so no extra REST calls are needed. Returns false after
// answering the interaction when the caller is not allowed.
func (h *Handler) requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if isGuildAdmin(s, i) {
		return true
	}
	respondPermissionError(s, i, h.lang.Text(i.GuildID, "errors.missing_permissions", nil))
	return false
}

func isGuildAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}

	guild, err := s.State.Guild(i.GuildID)
	if err != nil {
		guild, err = s.Guild(i.GuildID)
		if err != nil {
			return false
		}
	}
	return i.Member.User.ID == guild.OwnerID
}

// respondPermissionError sends a permission denied error response
func respondPermissionError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	embed := &discordgo.MessageEmbed{
		Title:       "Access Denied",
		Description: message,
		Color:       0x2B2D31,
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}
