package jezzball

import (
	"math"

	"github.com/vovakirdan/tui-jezzball/internal/core"
)

// Collision is the result of resolving one ball against the wall set.
type Collision struct {
	Hit      bool
	Index    int       // Index of the wall in the slice passed to Resolve
	Wall     Wall      // The wall that was hit
	Velocity core.Vec2 // Reflected velocity
	Destroy  bool      // Wall should be removed from the live set
}

// Resolve checks a ball centre against walls in slice order and stops at
// the first hit. Only the segment body counts: the projection must fall in
// [0, length], and the perpendicular distance must be within
// radius+halfThickness. Endpoints have no caps.
//
// A hit wall is destroyed only when it was not built shielded and the
// shield effect is not currently active.
func Resolve(pos core.Vec2, radius float64, vel core.Vec2, walls []Wall, shieldActive bool, halfThickness float64) Collision {
	if !pos.Finite() {
		return Collision{Index: -1}
	}
	for i, w := range walls {
		// Non-finite geometry fails every comparison below and would match anything.
		if !w.Start.Finite() || !w.End.Finite() {
			continue
		}
		l := w.Length()
		if !(l > 0) || math.IsInf(l, 0) {
			continue
		}

		t := core.ProjectOntoSegment(pos, w.Start, w.End)
		if t < 0 || t > l {
			continue
		}

		closest := w.Start.Add(w.End.Sub(w.Start).Scale(t / l))
		if core.Distance(pos, closest) > radius+halfThickness {
			continue
		}

		return Collision{
			Hit:      true,
			Index:    i,
			Wall:     w,
			Velocity: core.Reflect(vel, w.Normal()),
			Destroy:  !w.Shielded && !shieldActive,
		}
	}
	return Collision{Index: -1}
}
