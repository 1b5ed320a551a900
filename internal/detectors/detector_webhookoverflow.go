package detectors

import (
	"context"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/snapshot"
)

const (
	// CodeWebhookOverflowChannel flags a channel with an elevated or
	// over-limit webhook count.
	CodeWebhookOverflowChannel = "webhook_overflow.channel"
	// CodeWebhookCountUnavailable records a channel whose webhook
	// list could not be read.
	CodeWebhookCountUnavailable = "webhook_overflow.count_unavailable"
)

// WebhookOverflow counts webhooks per text channel. Counts above the
// hard limit are flagged as over-limit; counts above the elevated
// threshold carry raised display urgency without the over-limit mark.
type WebhookOverflow struct{}

func (WebhookOverflow) Name() string { return "webhook_overflow" }

func (WebhookOverflow) Detect(ctx context.Context, env *Env) ([]report.Finding, error) {
	var findings []report.Finding
	for _, ch := range env.Snapshot.TextChannels() {
		count := webhookCount(ctx, env, ch.ID)

		if count == snapshot.WebhookCountUnavailable {
			findings = append(findings, report.Finding{
				Severity: report.SeverityMedium,
				Code:     CodeWebhookCountUnavailable,
				Subjects: []string{ch.ID},
				Params: map[string]interface{}{
					"channel_name": ch.Name,
				},
			})
			continue
		}

		if count <= env.Tunables.WebhookElevated {
			continue
		}

		findings = append(findings, report.Finding{
			Severity: report.SeverityMedium,
			Code:     CodeWebhookOverflowChannel,
			Subjects: []string{ch.ID},
			Params: map[string]interface{}{
				"channel_name":  ch.Name,
				"webhook_count": count,
				"hard_limit":    env.Tunables.WebhookHardLimit,
				"over_limit":    count > env.Tunables.WebhookHardLimit,
			},
		})
	}
	return findings, nil
}
