package hierarchy

import (
	"sort"

	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/perms"
	"github.com/AnnonyWOLFRODA/PrivEscCord/internal/snapshot"
)

// Pair reports one decorative role positioned above one privileged
// role. Decorative means the role holds none of the dangerous set;
// privileged means it holds at least one, everyone excluded.
type Pair struct {
	Decorative snapshot.Role
	Privileged snapshot.Role
	// Held is the privileged role's share of the dangerous set.
	Held perms.Set
}

// DecorativeAbove returns every (decorative, privileged) pair where the
// decorative role outranks the privileged one. All qualifying pairs are
// reported; truncation is a presentation concern. Output follows the
// privileged role's guild ordering, then ascending decorative position.
func DecorativeAbove(snap *snapshot.Snapshot, dangerous perms.Set) []Pair {
	var decorative []snapshot.Role
	for _, r := range snap.Roles {
		if !r.Permissions.Intersects(dangerous) {
			decorative = append(decorative, r)
		}
	}

	var pairs []Pair
	for _, priv := range snap.Roles {
		if priv.Everyone || !priv.Permissions.Intersects(dangerous) {
			continue
		}

		var above []snapshot.Role
		for _, d := range decorative {
			if d.Position > priv.Position {
				above = append(above, d)
			}
		}
		sort.SliceStable(above, func(i, j int) bool {
			return above[i].Position < above[j].Position
		})

		for _, d := range above {
			pairs = append(pairs, Pair{
				Decorative: d,
				Privileged: priv,
				Held:       priv.Permissions.Intersect(dangerous),
			})
		}
	}
	return pairs
}
