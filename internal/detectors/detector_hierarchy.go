package detectors

import (
	"context"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/hierarchy"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/report"
)

// CodeDecorativeAbovePrivileged flags a decorative role stacked above
// a role holding dangerous permissions.
const CodeDecorativeAbovePrivileged = "role_hierarchy.decorative_above_privileged"

// RoleHierarchy reports every decorative role positioned above a role
// that carries at least one dangerous permission. Anyone allowed to
// assign the decorative role can outrank the privileged one.
type RoleHierarchy struct{}

func (RoleHierarchy) Name() string { return "role_hierarchy" }

func (RoleHierarchy) Detect(ctx context.Context, env *Env) ([]report.Finding, error) {
	pairs := hierarchy.DecorativeAbove(env.Snapshot, perms.Dangerous)

	findings := make([]report.Finding, 0, len(pairs))
	for _, p := range pairs {
		findings = append(findings, report.Finding{
			Severity: report.SeverityCritical,
			Code:     CodeDecorativeAbovePrivileged,
			Subjects: []string{p.Decorative.ID, p.Privileged.ID},
			Params: map[string]interface{}{
				"decorative_name":     p.Decorative.Name,
				"decorative_position": p.Decorative.Position,
				"privileged_name":     p.Privileged.Name,
				"privileged_position": p.Privileged.Position,
				"permissions":         p.Held.Names(),
			},
		})
	}
	return findings, nil
}
