package commands

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/lang"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/logging"
)

// languageChoices lists the supported report languages for the
// set_language option.
func languageChoices() []*discordgo.ApplicationCommandOptionChoice {
	codes := lang.SupportedLanguages()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(codes))
	for _, code := range codes {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  lang.LanguageName(code),
			Value: code,
		})
	}
	return choices
}

// handleSetLanguage switches the report language for the guild.
func (h *Handler) handleSetLanguage(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !h.requireAdmin(s, i) {
		return nil
	}

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return respond(s, i, h.lang.Text(i.GuildID, "set_language.invalid", map[string]interface{}{
			"languages": strings.Join(lang.SupportedLanguages(), ", "),
		}))
	}

	code := data.Options[0].StringValue()
	if !h.lang.SetGuildLanguage(i.GuildID, code) {
		return respond(s, i, h.lang.Text(i.GuildID, "set_language.invalid", map[string]interface{}{
			"languages": strings.Join(lang.SupportedLanguages(), ", "),
		}))
	}

	if h.db != nil {
		if err := h.db.SetGuildLanguage(i.GuildID, code); err != nil {
			logging.Warn("Language for guild %s not persisted: %v", i.GuildID, err)
		}
	}

	return respond(s, i, h.lang.Text(i.GuildID, "set_language.success", map[string]interface{}{
		"language": lang.LanguageName(code),
	}))
}

// respond sends a plain ephemeral reply.
func respond(s *discordgo.Session, i *discordgo.InteractionCreate, message string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
