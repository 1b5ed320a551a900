package detectors

import (
	"context"
	"sort"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
)

// CodeDangerousRole flags a role carrying critical permissions.
const CodeDangerousRole = "dangerous_permissions.role"

// DangerousPermissions inventories every role holding at least one
// permission from the critical list, sorted descending by how many it
// holds.
type DangerousPermissions struct{}

func (DangerousPermissions) Name() string { return "dangerous_permissions" }

func (DangerousPermissions) Detect(ctx context.Context, env *Env) ([]report.Finding, error) {
	roles := env.Cache.RolesWithAny(env.Snapshot, perms.Critical)

	type entry struct {
		roleID   string
		roleName string
		members  int
		held     perms.Set
	}
	var entries []entry
	for _, role := range roles {
		if role.Everyone {
			continue
		}
		entries = append(entries, entry{
			roleID:   role.ID,
			roleName: role.Name,
			members:  role.MemberCount,
			held:     role.Permissions.Intersect(perms.Critical),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].held.Count() > entries[j].held.Count()
	})

	findings := make([]report.Finding, 0, len(entries))
	for _, e := range entries {
		findings = append(findings, report.Finding{
			Severity: report.SeverityCritical,
			Code:     CodeDangerousRole,
			Subjects: []string{e.roleID},
			Params: map[string]interface{}{
				"role_name":    e.roleName,
				"member_count": e.members,
				"permissions":  e.held.Names(),
				"perm_count":   e.held.Count(),
			},
		})
	}
	return findings, nil
}
