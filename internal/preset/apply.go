package preset

import "stamp-compositor/internal/placement"

// Apply writes snaps onto the handles of set with matching indexes and
// returns how many handles changed.
func Apply(set *placement.Set, snaps []placement.Snapshot) int {
	return set.WriteGeometry(snaps)
}

// Broadcast copies the active handle geometry of src onto the active
// handle of every target.
func Broadcast(src *placement.Set, targets ...*placement.Set) {
	g := src.Active().Geometry
	for _, t := range targets {
		if t == src {
			continue
		}
		t.UpdateActive(g)
	}
}
