package jezzball

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-jezzball/internal/config"
	"github.com/vovakirdan/tui-jezzball/internal/core"
)

// Wall is a player-built line segment obstacle.
type Wall struct {
	ID       string
	Start    core.Vec2
	End      core.Vec2
	Complete bool
	Shielded bool // Fixed at creation; does not follow the shield effect afterwards
}

// Length returns the Euclidean length of the wall.
func (w Wall) Length() float64 {
	return core.Distance(w.Start, w.End)
}

// Orientation returns the wall angle in radians.
func (w Wall) Orientation() float64 {
	d := w.End.Sub(w.Start)
	return math.Atan2(d.Y, d.X)
}

// Normal returns the unit normal (-dy, dx)/len.
// A zero-length wall has a zero normal.
func (w Wall) Normal() core.Vec2 {
	return w.End.Sub(w.Start).Perp().Normalize()
}

// Midpoint returns the centre of the wall.
func (w Wall) Midpoint() core.Vec2 {
	return w.Start.Add(w.End).Scale(0.5)
}

// IDGen hands out sequential ball and wall identifiers.
type IDGen struct {
	balls int
	walls int
}

// NextWall returns the next wall identifier.
func (g *IDGen) NextWall() string {
	g.walls++
	return fmt.Sprintf("wall_%d", g.walls)
}

// NextBall returns the next ball identifier.
func (g *IDGen) NextBall() string {
	g.balls++
	return fmt.Sprintf("ball_%d", g.balls)
}

// WallRules holds wall construction parameters.
type WallRules struct {
	MinLength    float64
	ScorePerWall int
	MultiOffsets []float64
}

// WallRulesFrom converts the YAML wall section.
func WallRulesFrom(cfg config.WallConfig) WallRules {
	return WallRules{
		MinLength:    cfg.MinLength,
		ScorePerWall: cfg.ScorePerWall,
		MultiOffsets: append([]float64(nil), cfg.MultiOffsets...),
	}
}

// BuildWalls turns one gesture into walls.
// It returns nil when the gesture is not longer than rules.MinLength or
// either endpoint is not finite.
// With multiWall the base wall is followed by one parallel copy per
// configured offset along the unit normal.
func BuildWalls(start, end core.Vec2, multiWall, shield bool, ids *IDGen, rules WallRules) []Wall {
	if !start.Finite() || !end.Finite() {
		return nil
	}
	if d := core.Distance(start, end); !(d > rules.MinLength) {
		return nil
	}

	count := 1
	if multiWall {
		count += len(rules.MultiOffsets)
	}
	walls := make([]Wall, 0, count)
	walls = append(walls, Wall{
		ID:       ids.NextWall(),
		Start:    start,
		End:      end,
		Complete: true,
		Shielded: shield,
	})

	if !multiWall {
		return walls
	}

	n := walls[0].Normal()
	for _, off := range rules.MultiOffsets {
		shift := n.Scale(off)
		walls = append(walls, Wall{
			ID:       ids.NextWall(),
			Start:    start.Add(shift),
			End:      end.Add(shift),
			Complete: true,
			Shielded: shield,
		})
	}
	return walls
}
