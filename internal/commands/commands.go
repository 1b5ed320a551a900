package commands

import "github.com/bwmarrin/discordgo"

// checkCommands maps slash command names to the detector each one runs.
var checkCommands = map[string]string{
	"role_hierarchy_check":   "role_hierarchy",
	"admin_leak_check":       "admin_leak",
	"dangerous_perm_check":   "dangerous_permissions",
	"everyone_perm_check":    "everyone_exposure",
	"unprotected_webhooks":   "webhook_abuse",
	"spam_perm_check":        "spam_permission",
	"mass_mention_check":     "mass_mention",
	"webhook_overflow_check": "webhook_overflow",
	"voice_damage_check":     "voice_abuse",
	"channel_deletion_check": "channel_management",
	"server_settings_check":  "server_settings",
}

// GetAllCommands returns all application commands
func GetAllCommands() []*discordgo.ApplicationCommand {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "role_hierarchy_check",
			Description: "Find decorative roles positioned above privileged roles",
		},
		{
			Name:        "admin_leak_check",
			Description: "Find roles granting Administrator and how many members hold them",
		},
		{
			Name:        "dangerous_perm_check",
			Description: "Find roles holding dangerous moderation permissions",
		},
		{
			Name:        "everyone_perm_check",
			Description: "Find risky @everyone permissions and channel overwrites",
		},
		{
			Name:        "unprotected_webhooks",
			Description: "Find channels where webhook creation is exposed",
		},
		{
			Name:        "spam_perm_check",
			Description: "Find roles accumulating spam-capable permissions",
		},
		{
			Name:        "mass_mention_check",
			Description: "Find channels where mass mentions are effectively allowed",
		},
		{
			Name:        "webhook_overflow_check",
			Description: "Find channels carrying an elevated number of webhooks",
		},
		{
			Name:        "voice_damage_check",
			Description: "Find roles and voice channels exposed to voice abuse",
		},
		{
			Name:        "channel_deletion_check",
			Description: "Find roles that can mass-delete or reorganize channels",
		},
		{
			Name:        "server_settings_check",
			Description: "Audit guild-level security settings",
		},
		{
			Name:        "all_checks",
			Description: "Run every security check and post a combined risk summary",
		},
		{
			Name:        "set_language",
			Description: "Set the language used for audit reports in this server",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "language",
					Description: "Report language",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
					Choices:     languageChoices(),
				},
			},
		},
	}
	return commands
}
