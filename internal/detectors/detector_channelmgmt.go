package detectors

import (
	"context"
	"sort"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
)

// CodeChannelManagementRole flags a role able to delete or reshape
// channels.
const CodeChannelManagementRole = "channel_management.role"

// ChannelManagement reports every role with manage_channels, recording
// the factors that raise its risk: member count, a high hierarchy
// position, and co-held guild-level permissions. The position cutoff
// is a tunable heuristic, not a verified boundary.
type ChannelManagement struct{}

func (ChannelManagement) Name() string { return "channel_management" }

func (ChannelManagement) Detect(ctx context.Context, env *Env) ([]report.Finding, error) {
	roles := env.Cache.RolesWithAny(env.Snapshot, perms.NewSet(perms.ManageChannels))

	totalRoles := len(env.Snapshot.Roles)
	highCutoff := float64(totalRoles) * env.Tunables.HighPositionRatio

	type entry struct {
		roleID, roleName string
		members          int
		position         int
		riskFactors      []string
		coHeld           perms.Set
	}
	var entries []entry
	for _, role := range roles {
		if role.Everyone {
			continue
		}

		var factors []string
		if role.MemberCount > 10 {
			factors = append(factors, "member_count")
		}
		if float64(role.Position) > highCutoff {
			factors = append(factors, "high_position")
		}

		entries = append(entries, entry{
			roleID:      role.ID,
			roleName:    role.Name,
			members:     role.MemberCount,
			position:    role.Position,
			riskFactors: factors,
			coHeld: role.Permissions.Intersect(perms.NewSet(
				perms.Administrator, perms.ManageGuild, perms.ManageRoles)),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].position != entries[j].position {
			return entries[i].position > entries[j].position
		}
		return entries[i].members > entries[j].members
	})

	findings := make([]report.Finding, 0, len(entries))
	for _, e := range entries {
		findings = append(findings, report.Finding{
			Severity: report.SeverityMedium,
			Code:     CodeChannelManagementRole,
			Subjects: []string{e.roleID},
			Params: map[string]interface{}{
				"role_name":    e.roleName,
				"member_count": e.members,
				"position":     e.position,
				"risk_factors": e.riskFactors,
				"other_perms":  e.coHeld.Names(),
			},
		})
	}
	return findings, nil
}
