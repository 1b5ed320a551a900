package detectors

import (
	"context"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
)

// CodeAdminRole flags a role carrying the administrator permission.
const CodeAdminRole = "admin_leak.role"

// AdminLeak reports every role holding administrator, recording how
// many members carry it and how many other permissions it stacks. A
// populated admin role is a wider blast radius than a decorative one.
type AdminLeak struct{}

func (AdminLeak) Name() string { return "admin_leak" }

func (AdminLeak) Detect(ctx context.Context, env *Env) ([]report.Finding, error) {
	admins := env.Cache.RolesWithAny(env.Snapshot, perms.NewSet(perms.Administrator))

	var findings []report.Finding
	for _, role := range admins {
		if role.Everyone {
			continue
		}

		otherPerms := role.Permissions.Without(perms.NewSet(perms.Administrator)).Count()
		findings = append(findings, report.Finding{
			Severity: report.SeverityCritical,
			Code:     CodeAdminRole,
			Subjects: []string{role.ID},
			Params: map[string]interface{}{
				"role_name":    role.Name,
				"position":     role.Position,
				"member_count": role.MemberCount,
				"other_perms":  otherPerms,
				"high_risk":    role.MemberCount > env.Tunables.AdminMemberThreshold,
			},
		})
	}
	return findings, nil
}
