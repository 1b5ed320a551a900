package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/database"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/detectors"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/logging"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/orchestrator"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
)

// handleSingleCheck runs one detector and posts its report embed.
func (h *Handler) handleSingleCheck(s *discordgo.Session, i *discordgo.InteractionCreate, detectorName string) error {
	if !h.requireAdmin(s, i) {
		return nil
	}
	if err := deferResponse(s, i); err != nil {
		return err
	}

	detector := detectorByName(detectorName)
	if detector == nil {
		return fmt.Errorf("no detector registered for %s", detectorName)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.Audit.RunTimeout())
	defer cancel()

	env, err := h.buildEnv(ctx, i.GuildID)
	if err != nil {
		return h.followupError(s, i, err)
	}

	runner := orchestrator.NewWithDetectors([]detectors.Detector{detector}, h.cfg.Audit.PacedDelay())
	reports, err := runner.Run(ctx, env, orchestrator.Parallel)
	if err != nil {
		return h.followupError(s, i, err)
	}

	embeds := make([]*discordgo.MessageEmbed, 0, len(reports))
	for _, rep := range reports {
		embeds = append(embeds, h.renderer.RenderReport(i.GuildID, rep))
	}

	_, err = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: embeds,
	})
	return err
}

// handleAllChecks runs the full detector set and posts the combined
// summary plus one embed per detector that found something. Large
// guilds run paced to stay clear of REST rate limits.
func (h *Handler) handleAllChecks(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !h.requireAdmin(s, i) {
		return nil
	}
	if err := deferResponse(s, i); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.Audit.RunTimeout())
	defer cancel()

	env, err := h.buildEnv(ctx, i.GuildID)
	if err != nil {
		return h.followupError(s, i, err)
	}

	mode := orchestrator.Parallel
	if env.Snapshot.Settings.MemberCount > h.cfg.Audit.LargeGuildMembers {
		mode = orchestrator.Paced
	}

	started := time.Now()
	reports, err := h.orch.Run(ctx, env, mode)
	if err != nil && len(reports) == 0 {
		return h.followupError(s, i, err)
	}
	if err != nil {
		logging.Warn("Audit run for guild %s ended early: %v", i.GuildID, err)
	}
	h.recordRun(i.GuildID, mode, reports, time.Since(started))

	embeds := []*discordgo.MessageEmbed{h.renderer.RenderSummary(i.GuildID, reports)}
	for _, rep := range reports {
		if len(rep.Findings) == 0 {
			continue
		}
		embeds = append(embeds, h.renderer.RenderReport(i.GuildID, rep))
		if len(embeds) == maxEmbedsPerMessage {
			break
		}
	}

	_, err = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: embeds,
	})
	return err
}

// Discord caps a single message at 10 embeds.
const maxEmbedsPerMessage = 10

// buildEnv snapshots the guild and assembles the detector environment.
func (h *Handler) buildEnv(ctx context.Context, guildID string) (*detectors.Env, error) {
	snap, err := h.accessor.Snapshot(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("snapshot guild %s: %w", guildID, err)
	}
	return &detectors.Env{
		Snapshot: snap,
		Cache:    h.cache,
		Resolver: h.resolver,
		Webhooks: h.accessor,
		Tunables: h.cfg.Audit,
	}, nil
}

// recordRun persists the run outcome to the audit history.
func (h *Handler) recordRun(guildID string, mode orchestrator.Mode, reports []report.RiskReport, elapsed time.Duration) {
	if h.db == nil {
		return
	}

	var critical, medium int
	for _, rep := range reports {
		for _, f := range rep.Findings {
			if f.Severity == report.SeverityCritical {
				critical++
			} else {
				medium++
			}
		}
	}

	run := database.AuditRun{
		GuildID:       guildID,
		Mode:          mode.String(),
		Band:          report.Combined(reports).String(),
		CriticalCount: critical,
		MediumCount:   medium,
		DurationMs:    elapsed.Milliseconds(),
		CreatedAt:     time.Now().Unix(),
	}
	if err := h.db.RecordRun(run); err != nil {
		logging.Warn("Audit run for guild %s not recorded: %v", guildID, err)
	}
}

func (h *Handler) followupError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) error {
	logging.Error("Check failed in guild %s: %v", i.GuildID, err)
	_, ferr := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", h.lang.Text(i.GuildID, "errors.generic_error", nil)),
	})
	return ferr
}

// deferResponse acknowledges the interaction so the audit can take its
// time before the followup arrives.
func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// detectorByName finds a detector in the registered set.
func detectorByName(name string) detectors.Detector {
	for _, d := range detectors.Ordered() {
		if d.Name() == name {
			return d
		}
	}
	return nil
}
