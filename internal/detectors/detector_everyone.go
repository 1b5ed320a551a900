package detectors

import (
	"context"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/snapshot"
)

const (
	// CodeEveryoneGuildPermission flags a dangerous permission on the
	// everyone role's own bitmask.
	CodeEveryoneGuildPermission = "everyone_exposure.guild_permission"
	// CodeEveryoneChannelOverwrite flags a risky everyone overwrite
	// combination in one channel.
	CodeEveryoneChannelOverwrite = "everyone_exposure.channel_overwrite"
)

// EveryoneExposure checks the default role twice over: dangerous
// permissions granted guild-wide, and risky per-channel overwrite
// combinations that hand moderation powers to every member.
type EveryoneExposure struct{}

func (EveryoneExposure) Name() string { return "everyone_exposure" }

func (EveryoneExposure) Detect(ctx context.Context, env *Env) ([]report.Finding, error) {
	everyone, ok := env.Snapshot.EveryoneRole()
	if !ok {
		return nil, nil
	}

	var findings []report.Finding

	if held := everyone.Permissions.Intersect(perms.Dangerous); !held.IsEmpty() {
		findings = append(findings, report.Finding{
			Severity: report.SeverityCritical,
			Code:     CodeEveryoneGuildPermission,
			Subjects: []string{everyone.ID},
			Params: map[string]interface{}{
				"permissions": held.Names(),
			},
		})
	}

	for _, ch := range env.Snapshot.Channels {
		if ch.Kind != snapshot.ChannelText && ch.Kind != snapshot.ChannelVoice {
			continue
		}
		ow, hasOw := ch.Overwrite(everyone.ID)
		if !hasOw {
			continue
		}

		var risky []string
		if ch.Kind == snapshot.ChannelText {
			if ow.Allow.Has(perms.SendMessages) && ow.Allow.Has(perms.MentionEveryone) {
				risky = append(risky, "send_messages+mention_everyone")
			}
			if ow.Allow.Has(perms.ManageMessages) {
				risky = append(risky, "manage_messages")
			}
			if ow.Allow.Has(perms.ManageWebhooks) {
				risky = append(risky, "manage_webhooks")
			}
		}
		if ow.Allow.Has(perms.ManageChannels) {
			risky = append(risky, "manage_channels")
		}

		if len(risky) > 0 {
			findings = append(findings, report.Finding{
				Severity: report.SeverityCritical,
				Code:     CodeEveryoneChannelOverwrite,
				Subjects: []string{everyone.ID, ch.ID},
				Params: map[string]interface{}{
					"channel_name": ch.Name,
					"combinations": risky,
				},
			})
		}
	}

	return findings, nil
}
