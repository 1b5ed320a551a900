package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/lang"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
)

// Display truncation: findings beyond this count collapse into a
// trailing summary line.
const maxDisplayedFindings = 10

// Band colors follow the traffic-light convention the audit embeds
// use everywhere.
func bandColor(b report.Band) int {
	switch b {
	case report.BandCritical:
		return 0xED4245
	case report.BandHigh:
		return 0xE67E22
	case report.BandMedium:
		return 0xF1C40F
	default:
		return 0x57F287
	}
}

// Renderer turns RiskReports into Discord embeds. All human-facing
// text comes from the language handler; the core's findings stay
// structured.
type Renderer struct {
	lang *lang.Handler
}

// NewRenderer builds a renderer over a language handler.
func NewRenderer(langHandler *lang.Handler) *Renderer {
	return &Renderer{lang: langHandler}
}

// RenderReport renders one detector's report for one guild.
func (r *Renderer) RenderReport(guildID string, rep report.RiskReport) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     r.title(guildID, rep.Detector),
		Color:     bandColor(rep.Band),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("PrivEscCord • band: %s", rep.Band),
		},
	}

	if len(rep.Findings) == 0 {
		embed.Description = r.lang.Text(guildID, "report.no_findings", nil)
		return embed
	}

	lines := make([]string, 0, maxDisplayedFindings+2)
	lines = append(lines, r.lang.Text(guildID, "report.findings_header", map[string]interface{}{
		"count": len(rep.Findings),
	}))

	shown := rep.Findings
	if len(shown) > maxDisplayedFindings {
		shown = shown[:maxDisplayedFindings]
	}
	for _, f := range shown {
		marker := "🟡"
		if f.Severity == report.SeverityCritical {
			marker = "🔴"
		}
		lines = append(lines, marker+" "+r.lang.Text(guildID, f.Code, f.Params))
	}

	if hidden := len(rep.Findings) - len(shown); hidden > 0 {
		lines = append(lines, r.lang.Text(guildID, "report.truncated", map[string]interface{}{
			"count": hidden,
		}))
	}

	embed.Description = strings.Join(lines, "\n")
	return embed
}

// RenderSummary renders the combined view of one full run.
func (r *Renderer) RenderSummary(guildID string, reports []report.RiskReport) *discordgo.MessageEmbed {
	combined := report.Combined(reports)

	fields := make([]*discordgo.MessageEmbedField, 0, len(reports))
	for _, rep := range reports {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   r.title(guildID, rep.Detector),
			Value:  fmt.Sprintf("%d finding(s) • %s", len(rep.Findings), rep.Band),
			Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Title:     "Guild Security Audit",
		Color:     bandColor(combined),
		Fields:    fields,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("PrivEscCord • combined band: %s", combined),
		},
	}
}

func (r *Renderer) title(guildID, detector string) string {
	if t := r.lang.Text(guildID, "title."+detector, nil); t != "title."+detector {
		return t
	}
	// Fall back to a humanized detector name.
	words := strings.Split(detector, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
