package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/bot"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/commands"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/config"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/database"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/lang"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/logging"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/orchestrator"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/permcache"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/resolver"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/rest"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/snapshot"
)

func main() {
	fmt.Println("Starting PrivEscCord audit engine")

	cfg := loadConfig()

	if err := initializeLogging(cfg); err != nil {
		panic(err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logging.Error("Database initialization failed: %v", err)
		logging.Shutdown()
		os.Exit(1)
	}

	session, err := initializeBot(cfg, db)
	if err != nil {
		logging.Error("Startup failed: %v", err)
		db.Close()
		logging.Shutdown()
		os.Exit(1)
	}

	logging.Info("Audit engine running")

	waitForShutdown()

	session.Close()
	db.Close()
	logging.Info("Shutdown complete")
	logging.Shutdown()
}

func loadConfig() *config.Config {
	cfg, err := config.Load("config.json")
	if err != nil {
		fmt.Printf("Config load failed, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if cfg.Bot.Token == "" {
		cfg.Bot.Token = os.Getenv("DISCORD_TOKEN")
	}

	return cfg
}

func initializeLogging(cfg *config.Config) error {
	return logging.Init(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Path)
}

func initializeBot(cfg *config.Config, db *database.Database) (*bot.Session, error) {
	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("no bot token configured (set DISCORD_TOKEN or config.json)")
	}

	session, err := bot.New(cfg.Bot.Token)
	if err != nil {
		return nil, err
	}

	cache := permcache.New()
	session.WireCacheInvalidation(cache)

	restClient := rest.NewClient(cfg.Bot.Token)
	accessor := snapshot.NewDiscordAccessor(session.Discord(), restClient)
	res := &resolver.Resolver{Strict: cfg.Audit.StrictResolver}
	orch := orchestrator.New(cfg.Audit.PacedDelay())
	langHandler := lang.New(cfg.Lang.Dir, cfg.Lang.Default)
	restoreGuildLanguages(langHandler, db)

	// Invalidation handlers must be registered before the gateway opens.
	if err := session.Connect(); err != nil {
		return nil, err
	}

	if err := commands.Initialize(session, accessor, cache, res, orch, langHandler, cfg, db); err != nil {
		session.Close()
		return nil, err
	}

	return session, nil
}

// restoreGuildLanguages reloads the persisted per-guild report
// languages into the catalog handler.
func restoreGuildLanguages(langHandler *lang.Handler, db *database.Database) {
	stored, err := db.GuildLanguages()
	if err != nil {
		logging.Warn("Guild languages not restored: %v", err)
		return
	}
	for guildID, code := range stored {
		if !langHandler.SetGuildLanguage(guildID, code) {
			logging.Warn("Stored language %q for guild %s is unsupported", code, guildID)
		}
	}
	if len(stored) > 0 {
		logging.Info("Restored language settings for %d guild(s)", len(stored))
	}
}

func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	fmt.Println("\nShutdown signal received")
}
