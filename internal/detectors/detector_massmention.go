package detectors

import (
	"context"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
)

// CodeMassMentionChannel flags a text channel where mention_everyone
// is effectively granted too widely.
const CodeMassMentionChannel = "mass_mention.channel"

// MassMention flags text channels where the effective mention_everyone
// permission is granted to the everyone role or to any populated role.
// Overwrite-aware on purpose: a channel-level allow is just as loud as
// a guild-wide grant.
type MassMention struct{}

func (MassMention) Name() string { return "mass_mention" }

func (MassMention) Detect(ctx context.Context, env *Env) ([]report.Finding, error) {
	var findings []report.Finding
	for _, ch := range env.Snapshot.TextChannels() {
		everyoneCan := false
		var riskyRoles []map[string]interface{}

		for _, role := range env.Snapshot.Roles {
			if !role.Everyone && role.MemberCount < 1 {
				continue
			}
			if !env.Resolver.Effective(env.Snapshot, role, ch, perms.MentionEveryone) {
				continue
			}
			if role.Everyone {
				everyoneCan = true
				continue
			}
			riskyRoles = append(riskyRoles, map[string]interface{}{
				"role_id":      role.ID,
				"role_name":    role.Name,
				"member_count": role.MemberCount,
			})
		}

		if !everyoneCan && len(riskyRoles) == 0 {
			continue
		}

		findings = append(findings, report.Finding{
			Severity: report.SeverityMedium,
			Code:     CodeMassMentionChannel,
			Subjects: []string{ch.ID},
			Params: map[string]interface{}{
				"channel_name":     ch.Name,
				"everyone_exposed": everyoneCan,
				"roles":            riskyRoles,
			},
		})
	}
	return findings, nil
}
