package config

import (
	"encoding/json"
	"os"
	"time"
)

type Config struct {
	Bot      BotConfig      `json:"bot"`
	Audit    AuditConfig    `json:"audit"`
	Logging  LoggingConfig  `json:"logging"`
	Lang     LangConfig     `json:"lang"`
	Database DatabaseConfig `json:"database"`
}

type BotConfig struct {
	Token    string `json:"token"`
	ClientID string `json:"client_id"`
}

// AuditConfig carries the detection tunables. The defaults mirror the
// thresholds the detectors were calibrated with; HighPositionRatio in
// particular is a heuristic, not a verified security boundary.
type AuditConfig struct {
	// HighPositionRatio marks a role as high in the hierarchy when
	// position > totalRoles * ratio.
	HighPositionRatio float64 `json:"high_position_ratio"`
	// AdminMemberThreshold elevates admin roles with more members.
	AdminMemberThreshold int `json:"admin_member_threshold"`
	// WebhookHardLimit flags a channel; WebhookElevated only raises
	// display urgency.
	WebhookHardLimit int `json:"webhook_hard_limit"`
	WebhookElevated  int `json:"webhook_elevated"`
	// LargeGuildMembers drives the verification cross check.
	LargeGuildMembers int `json:"large_guild_members"`
	// PacedDelayMs is the inter-detector delay in paced mode.
	PacedDelayMs int `json:"paced_delay_ms"`
	// RunTimeoutMs bounds one orchestrator run; 0 disables.
	RunTimeoutMs int `json:"run_timeout_ms"`
	// StrictResolver makes unknown permission inputs panic.
	StrictResolver bool `json:"strict_resolver"`
}

type LoggingConfig struct {
	Level string `json:"level"`
	Path  string `json:"path"`
}

type DatabaseConfig struct {
	Path string `json:"path"`
}

type LangConfig struct {
	// Dir holds the translation catalogs; empty falls back to the
	// built-in English catalog.
	Dir     string `json:"dir"`
	Default string `json:"default"`
}

// PacedDelay returns the paced-mode delay as a duration.
func (a AuditConfig) PacedDelay() time.Duration {
	return time.Duration(a.PacedDelayMs) * time.Millisecond
}

// RunTimeout returns the run timeout, zero meaning unbounded.
func (a AuditConfig) RunTimeout() time.Duration {
	return time.Duration(a.RunTimeoutMs) * time.Millisecond
}

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() *Config {
	return &Config{
		Audit: AuditConfig{
			HighPositionRatio:    0.7,
			AdminMemberThreshold: 5,
			WebhookHardLimit:     10,
			WebhookElevated:      5,
			LargeGuildMembers:    1000,
			PacedDelayMs:         1500,
			RunTimeoutMs:         60000,
			StrictResolver:       false,
		},
		Logging:  LoggingConfig{Level: "info", Path: "logs/privesccord.log"},
		Lang:     LangConfig{Dir: "data/translations", Default: "en"},
		Database: DatabaseConfig{Path: "privesccord.db"},
	}
}

// Load reads a JSON config file and applies env-var overrides. Missing
// tunables fall back to the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		cfg.Bot.Token = token
	}
	if clientID := os.Getenv("CLIENT_ID"); clientID != "" {
		cfg.Bot.ClientID = clientID
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
