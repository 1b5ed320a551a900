package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/logging"
)

// Session wraps the Discord connection. The audit is read-only, so the
// session only needs guild, member and message intents.
type Session struct {
	discord *discordgo.Session
}

// New creates the Discord session without opening it.
func New(token string) (*Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages

	dg.State.TrackRoles = true
	dg.State.TrackChannels = true
	dg.State.TrackMembers = true

	return &Session{discord: dg}, nil
}

// Discord exposes the underlying discordgo session.
func (s *Session) Discord() *discordgo.Session {
	return s.discord
}

// Connect opens the gateway connection.
func (s *Session) Connect() error {
	if err := s.discord.Open(); err != nil {
		return fmt.Errorf("open Discord connection: %w", err)
	}

	if s.discord.State.User != nil {
		logging.Info("Connected as %s (%s)", s.discord.State.User.Username, s.discord.State.User.ID)
	}
	return nil
}

// Close shuts the gateway connection down.
func (s *Session) Close() error {
	if s.discord != nil {
		return s.discord.Close()
	}
	return nil
}

// AddHandler registers a gateway event handler.
func (s *Session) AddHandler(handler interface{}) {
	s.discord.AddHandler(handler)
}

// RegisterCommands registers the slash commands with Discord.
func (s *Session) RegisterCommands(commands []*discordgo.ApplicationCommand) error {
	logging.Info("Registering %d slash commands...", len(commands))

	for _, cmd := range commands {
		_, err := s.discord.ApplicationCommandCreate(s.discord.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("register command %s: %w", cmd.Name, err)
		}
		logging.Info("Registered command: /%s", cmd.Name)
	}
	return nil
}
