package detectors

import (
	"context"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/snapshot"
)

// CodeWebhookAbuseChannel flags a text channel where roles can both
// create webhooks and post through them.
const CodeWebhookAbuseChannel = "webhook_abuse.channel"

// WebhookAbuse finds text channels where a role's effective permission
// grants both manage_webhooks and send_messages. Everyone qualifies at
// permission level alone; other roles need at least one member. The
// channel's current webhook count rides along, unavailable when the
// fetch is forbidden.
type WebhookAbuse struct{}

func (WebhookAbuse) Name() string { return "webhook_abuse" }

func (WebhookAbuse) Detect(ctx context.Context, env *Env) ([]report.Finding, error) {
	needed := perms.NewSet(perms.ManageWebhooks, perms.SendMessages)

	var findings []report.Finding
	for _, ch := range env.Snapshot.TextChannels() {
		var vulnerable []map[string]interface{}
		everyoneExposed := false

		for _, role := range env.Snapshot.Roles {
			if !role.Everyone && role.MemberCount < 1 {
				continue
			}
			if !env.Resolver.EffectiveAll(env.Snapshot, role, ch, needed) {
				continue
			}
			if role.Everyone {
				everyoneExposed = true
			}
			vulnerable = append(vulnerable, map[string]interface{}{
				"role_id":      role.ID,
				"role_name":    role.Name,
				"member_count": role.MemberCount,
				"everyone":     role.Everyone,
			})
		}

		if len(vulnerable) == 0 {
			continue
		}

		count := webhookCount(ctx, env, ch.ID)
		findings = append(findings, report.Finding{
			Severity: report.SeverityCritical,
			Code:     CodeWebhookAbuseChannel,
			Subjects: []string{ch.ID},
			Params: map[string]interface{}{
				"channel_name":        ch.Name,
				"roles":               vulnerable,
				"everyone_exposed":    everyoneExposed,
				"webhook_count":       count,
				"webhook_unavailable": count == snapshot.WebhookCountUnavailable,
			},
		})
	}
	return findings, nil
}
