package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/bot"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/config"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/database"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/lang"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/logging"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/notifier"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/orchestrator"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/permcache"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/resolver"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/snapshot"
)

// Handler manages all command interactions
type Handler struct {
	session  *bot.Session
	accessor snapshot.Accessor
	cache    *permcache.Cache
	resolver *resolver.Resolver
	orch     *orchestrator.Orchestrator
	lang     *lang.Handler
	renderer *notifier.Renderer
	cfg      *config.Config
	db       *database.Database
}

var globalHandler *Handler

// Initialize creates the command handler and registers the commands.
func Initialize(session *bot.Session, accessor snapshot.Accessor, cache *permcache.Cache, res *resolver.Resolver, orch *orchestrator.Orchestrator, langHandler *lang.Handler, cfg *config.Config, db *database.Database) error {
	globalHandler = &Handler{
		session:  session,
		accessor: accessor,
		cache:    cache,
		resolver: res,
		orch:     orch,
		lang:     langHandler,
		renderer: notifier.NewRenderer(langHandler),
		cfg:      cfg,
		db:       db,
	}

	session.AddHandler(globalHandler.handleInteraction)

	commands := GetAllCommands()
	if err := session.RegisterCommands(commands); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	logging.Info("Command handler initialized with %d commands", len(commands))
	return nil
}

// GetHandler returns the global command handler
func GetHandler() *Handler {
	return globalHandler
}

// handleInteraction routes slash commands to their handlers
func (h *Handler) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.GuildID == "" || i.Member == nil {
		respondError(s, i, "Security checks only run inside a server.")
		return
	}

	data := i.ApplicationCommandData()

	var err error
	switch {
	case data.Name == "all_checks":
		err = h.handleAllChecks(s, i)
	case data.Name == "set_language":
		err = h.handleSetLanguage(s, i)
	default:
		if detector, ok := checkCommands[data.Name]; ok {
			err = h.handleSingleCheck(s, i, detector)
		} else {
			err = fmt.Errorf("unknown command: %s", data.Name)
		}
	}

	if err != nil {
		logging.Error("Command error [%s]: %v", data.Name, err)
		respondError(s, i, h.lang.Text(i.GuildID, "errors.generic_error", nil))
	}
}

// respondError sends an ephemeral error message
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
