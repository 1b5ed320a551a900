package detectors

import (
	"context"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
)

// CodeSpamRole flags a role holding a spam-capable permission mix.
const CodeSpamRole = "spam_permission.role"

// spamFlagThreshold is how many spam permissions a role needs before
// the combination alone flags it. mention_everyone flags on its own.
const spamFlagThreshold = 3

// SpamPermission flags roles able to flood: three or more of the spam
// set, or mention_everyone regardless of count.
type SpamPermission struct{}

func (SpamPermission) Name() string { return "spam_permission" }

func (SpamPermission) Detect(ctx context.Context, env *Env) ([]report.Finding, error) {
	roles := env.Cache.RolesWithAny(env.Snapshot, perms.Spam)

	var findings []report.Finding
	for _, role := range roles {
		if role.Everyone {
			continue
		}

		held := role.Permissions.Intersect(perms.Spam)
		canMention := held.Has(perms.MentionEveryone)
		if held.Count() < spamFlagThreshold && !canMention {
			continue
		}

		findings = append(findings, report.Finding{
			Severity: report.SeverityMedium,
			Code:     CodeSpamRole,
			Subjects: []string{role.ID},
			Params: map[string]interface{}{
				"role_name":        role.Name,
				"member_count":     role.MemberCount,
				"permissions":      held.Names(),
				"mention_everyone": canMention,
			},
		})
	}
	return findings, nil
}
