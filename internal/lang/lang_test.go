package lang

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildLanguageDefaultsAndOverride(t *testing.T) {
	h := New("", "en")

	assert.Equal(t, "en", h.GuildLanguage("g1"))
	assert.True(t, h.SetGuildLanguage("g1", "fr"))
	assert.Equal(t, "fr", h.GuildLanguage("g1"))
	assert.Equal(t, "en", h.GuildLanguage("g2"))

	assert.False(t, h.SetGuildLanguage("g1", "xx"))
}

func TestTextSubstitution(t *testing.T) {
	h := New("", "en")

	out := h.Text("g1", "admin_leak.role", map[string]interface{}{
		"role_name":    "Root",
		"member_count": 7,
	})
	assert.Equal(t, "Root holds Administrator with 7 member(s)", out)
}

func TestTextFallsBackToKey(t *testing.T) {
	h := New("", "en")
	assert.Equal(t, "no.such.key", h.Text("g1", "no.such.key", nil))
}

func TestTextFallsBackToEnglish(t *testing.T) {
	h := New("", "en")
	h.SetGuildLanguage("g1", "de")

	// No German catalog loaded: English fallback applies.
	out := h.Text("g1", "report.no_findings", nil)
	assert.Equal(t, "No issues detected", out)
}

func TestCatalogLoading(t *testing.T) {
	dir := t.TempDir()
	catalog := map[string]string{"report.no_findings": "Aucun problème détecté"}
	data, err := json.Marshal(catalog)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr.json"), data, 0644))

	h := New(dir, "en")
	h.SetGuildLanguage("g1", "fr")

	assert.Equal(t, "Aucun problème détecté", h.Text("g1", "report.no_findings", nil))
	// Keys missing from the French catalog fall back to English.
	assert.Equal(t, "No issues detected", h.Text("g2", "report.no_findings", nil))
}

func TestLanguageNames(t *testing.T) {
	assert.Equal(t, "Français", LanguageName("fr"))
	assert.Equal(t, "Unknown Language", LanguageName("zz"))
	assert.Equal(t, []string{"en", "fr", "es", "de", "it"}, SupportedLanguages())
}
