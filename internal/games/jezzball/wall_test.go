package jezzball

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-jezzball/internal/config"
	"github.com/vovakirdan/tui-jezzball/internal/core"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func approxVec(a, b core.Vec2) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y)
}

func defaultRules() WallRules {
	return WallRulesFrom(config.DefaultJezzballConfig().Walls)
}

func TestBuildWallsRejectsShortGestures(t *testing.T) {
	tests := []struct {
		name       string
		start, end core.Vec2
	}{
		{"horizontal 15", core.V(0, 0), core.V(15, 0)},
		{"diagonal 14.1", core.V(0, 0), core.V(10, 10)},
		{"exactly minimum", core.V(0, 0), core.V(20, 0)},
		{"zero length", core.V(5, 5), core.V(5, 5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var ids IDGen
			for _, multi := range []bool{false, true} {
				if got := BuildWalls(tc.start, tc.end, multi, false, &ids, defaultRules()); len(got) != 0 {
					t.Errorf("BuildWalls(multi=%v) = %d walls, expected 0", multi, len(got))
				}
			}
		})
	}
}

func TestBuildWallsSingle(t *testing.T) {
	var ids IDGen
	walls := BuildWalls(core.V(0, 0), core.V(100, 0), false, false, &ids, defaultRules())

	if len(walls) != 1 {
		t.Fatalf("BuildWalls() = %d walls, expected 1", len(walls))
	}
	w := walls[0]
	if !approx(w.Length(), 100) {
		t.Errorf("Length() = %f, expected 100", w.Length())
	}
	if w.ID != "wall_1" {
		t.Errorf("ID = %q, expected wall_1", w.ID)
	}
	if !w.Complete || w.Shielded {
		t.Errorf("wall flags = complete %v shielded %v", w.Complete, w.Shielded)
	}
}

func TestBuildWallsMulti(t *testing.T) {
	var ids IDGen
	walls := BuildWalls(core.V(0, 0), core.V(100, 0), true, false, &ids, defaultRules())

	if len(walls) != 3 {
		t.Fatalf("BuildWalls(multi) = %d walls, expected 3", len(walls))
	}

	// Normal of a left-to-right wall is (0, 1)
	offsets := []float64{0, 30, 60}
	for i, w := range walls {
		wantStart := core.V(0, offsets[i])
		wantEnd := core.V(100, offsets[i])
		if !approxVec(w.Start, wantStart) || !approxVec(w.End, wantEnd) {
			t.Errorf("wall %d = %v-%v, expected %v-%v", i, w.Start, w.End, wantStart, wantEnd)
		}
		if !approx(w.Length(), 100) {
			t.Errorf("wall %d length = %f, expected 100", i, w.Length())
		}
	}

	if walls[0].ID == walls[1].ID || walls[1].ID == walls[2].ID {
		t.Errorf("wall IDs should be unique: %q %q %q", walls[0].ID, walls[1].ID, walls[2].ID)
	}
}

func TestBuildWallsMultiDiagonalOffsets(t *testing.T) {
	var ids IDGen
	start, end := core.V(10, 10), core.V(70, 90) // length 100
	walls := BuildWalls(start, end, true, false, &ids, defaultRules())
	if len(walls) != 3 {
		t.Fatalf("expected 3 walls, got %d", len(walls))
	}

	n := walls[0].Normal()
	for i, off := range []float64{30, 60} {
		w := walls[i+1]
		// Distance between parallel lines equals the offset
		d := w.Start.Sub(start).Dot(n)
		if !approx(d, off) {
			t.Errorf("offset wall %d distance = %f, expected %f", i+1, d, off)
		}
		if !approx(w.Orientation(), walls[0].Orientation()) {
			t.Errorf("offset wall %d is not parallel", i+1)
		}
	}
}

func TestBuildWallsShieldFlag(t *testing.T) {
	var ids IDGen
	walls := BuildWalls(core.V(0, 0), core.V(0, 50), true, true, &ids, defaultRules())
	for i, w := range walls {
		if !w.Shielded {
			t.Errorf("wall %d should be shielded", i)
		}
	}
}

func TestWallDerived(t *testing.T) {
	w := Wall{Start: core.V(0, 0), End: core.V(0, 10)}

	if !approx(w.Orientation(), math.Pi/2) {
		t.Errorf("Orientation() = %f, expected pi/2", w.Orientation())
	}
	if n := w.Normal(); !approxVec(n, core.V(-1, 0)) {
		t.Errorf("Normal() = %v, expected (-1, 0)", n)
	}
	if m := w.Midpoint(); !approxVec(m, core.V(0, 5)) {
		t.Errorf("Midpoint() = %v, expected (0, 5)", m)
	}

	zero := Wall{Start: core.V(3, 3), End: core.V(3, 3)}
	if n := zero.Normal(); n != (core.Vec2{}) {
		t.Errorf("zero-length Normal() = %v, expected zero", n)
	}
}

func TestIDGen(t *testing.T) {
	var ids IDGen
	if got := ids.NextBall(); got != "ball_1" {
		t.Errorf("NextBall() = %q, expected ball_1", got)
	}
	if got := ids.NextWall(); got != "wall_1" {
		t.Errorf("NextWall() = %q, expected wall_1", got)
	}
	if got := ids.NextWall(); got != "wall_2" {
		t.Errorf("NextWall() = %q, expected wall_2", got)
	}
}

func TestBuildWallsRejectsNonFinite(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	tests := []struct {
		name       string
		start, end core.Vec2
	}{
		{"NaN end", core.V(50, 100), core.V(nan, 100)},
		{"NaN start", core.V(50, nan), core.V(150, 100)},
		{"Inf end", core.V(50, 100), core.V(inf, 100)},
		{"-Inf start", core.V(-inf, 100), core.V(150, 100)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var ids IDGen
			for _, multi := range []bool{false, true} {
				if got := BuildWalls(tc.start, tc.end, multi, false, &ids, defaultRules()); len(got) != 0 {
					t.Errorf("BuildWalls(multi=%v) = %d walls, expected 0", multi, len(got))
				}
			}
		})
	}
}
