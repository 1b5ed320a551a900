package lang

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/logging"
)

// Supported language codes and their display names.
var supported = map[string]string{
	"en": "English",
	"fr": "Français",
	"es": "Español",
	"de": "Deutsch",
	"it": "Italiano",
}

// Handler resolves finding codes and UI keys to translated templates.
// Guild preferences live in memory only; preference persistence is a
// collaborator concern.
type Handler struct {
	mu        sync.RWMutex
	defaults  string
	guilds    map[string]string
	catalogs  map[string]map[string]string
}

// New builds a handler with the built-in English catalog and, when dir
// is non-empty, per-language JSON catalogs loaded over it. Catalog
// files are flat maps of dotted keys to templates.
func New(dir, defaultLang string) *Handler {
	if _, ok := supported[defaultLang]; !ok {
		defaultLang = "en"
	}

	h := &Handler{
		defaults: defaultLang,
		guilds:   make(map[string]string),
		catalogs: map[string]map[string]string{"en": builtinEnglish()},
	}

	if dir != "" {
		h.loadCatalogs(dir)
	}
	return h
}

func (h *Handler) loadCatalogs(dir string) {
	for code := range supported {
		path := filepath.Join(dir, code+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var catalog map[string]string
		if err := json.Unmarshal(data, &catalog); err != nil {
			logging.Warn("Skipping malformed catalog %s: %v", path, err)
			continue
		}

		base := h.catalogs[code]
		if base == nil {
			base = make(map[string]string)
		}
		for k, v := range catalog {
			base[k] = v
		}
		h.catalogs[code] = base
	}
}

// SetGuildLanguage records a guild's language preference.
func (h *Handler) SetGuildLanguage(guildID, code string) bool {
	if _, ok := supported[code]; !ok {
		return false
	}
	h.mu.Lock()
	h.guilds[guildID] = code
	h.mu.Unlock()
	return true
}

// GuildLanguage returns a guild's preference, defaulting when unset.
func (h *Handler) GuildLanguage(guildID string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if code, ok := h.guilds[guildID]; ok {
		return code
	}
	return h.defaults
}

// Text resolves a key for a guild, falling back to English and then to
// the key itself. Placeholders of the form {name} are substituted from
// args.
func (h *Handler) Text(guildID, key string, args map[string]interface{}) string {
	code := h.GuildLanguage(guildID)

	h.mu.RLock()
	template, ok := h.catalogs[code][key]
	if !ok {
		template, ok = h.catalogs["en"][key]
	}
	h.mu.RUnlock()

	if !ok {
		return key
	}

	for name, value := range args {
		template = strings.ReplaceAll(template, "{"+name+"}", fmt.Sprintf("%v", value))
	}
	return template
}

// SupportedLanguages lists the language codes in a stable order.
func SupportedLanguages() []string {
	return []string{"en", "fr", "es", "de", "it"}
}

// LanguageName returns the display name of a language code.
func LanguageName(code string) string {
	if name, ok := supported[code]; ok {
		return name
	}
	return "Unknown Language"
}

// builtinEnglish is the fallback catalog, keyed by finding code or UI
// key. Presentation maps these to embed text.
func builtinEnglish() map[string]string {
	return map[string]string{
		"role_hierarchy.decorative_above_privileged": "Decorative role {decorative_name} (pos {decorative_position}) sits above {privileged_name} (pos {privileged_position}, perms: {permissions})",
		"admin_leak.role":                            "{role_name} holds Administrator with {member_count} member(s)",
		"dangerous_permissions.role":                 "{role_name} ({member_count} members) holds: {permissions}",
		"everyone_exposure.guild_permission":         "@everyone holds dangerous guild-wide permissions: {permissions}",
		"everyone_exposure.channel_overwrite":        "#{channel_name}: risky @everyone overwrites ({combinations})",
		"webhook_abuse.channel":                      "#{channel_name} exposed to webhook abuse ({webhook_count} webhooks)",
		"spam_permission.role":                       "{role_name} ({member_count} members) can spam via: {permissions}",
		"mass_mention.channel":                       "#{channel_name} allows mass mentions",
		"webhook_overflow.channel":                   "#{channel_name} carries {webhook_count} webhooks",
		"webhook_overflow.count_unavailable":         "#{channel_name}: webhook list not accessible",
		"voice_abuse.role":                           "{role_name} holds voice-control permissions: {permissions}",
		"voice_abuse.channel":                        "{channel_name}: risky voice permission layout",
		"channel_management.role":                    "{role_name} can manage channels (pos {position}, {member_count} members)",
		"server_settings.mfa_disabled":               "Moderator 2FA requirement is disabled",
		"server_settings.weak_verification":          "Verification level is weak ({level})",
		"server_settings.content_filter_disabled":    "Explicit content filter is disabled",
		"server_settings.content_filter_partial":     "Explicit content filter only covers members without roles",
		"server_settings.notify_all_messages":        "Default notifications are set to all messages",
		"server_settings.nsfw_open":                  "Age-restricted guild without a full content filter",
		"server_settings.no_community":               "Community features are not enabled",
		"server_settings.no_auto_moderation":         "AutoMod is not enabled",
		"server_settings.raid_alerts_disabled":       "Raid alerts are disabled",
		"server_settings.large_guild_weak_verification": "Large guild ({member_count} members) with weak verification",
		"orchestrator.detector_failed":               "Check {detector} failed: {reason}",

		"report.no_findings":      "No issues detected",
		"report.findings_header":  "{count} issue(s) detected",
		"report.truncated":        "... and {count} more",
		"errors.missing_permissions": "You need Administrator permission to run security checks.",
		"errors.generic_error":       "An error occurred while executing checks.",
		"set_language.success":       "Language set to {language}",
		"set_language.invalid":       "Unsupported language. Available: {languages}",
		"set_language.current":       "Current language: {language}",
	}
}
