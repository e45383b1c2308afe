package jezzball

import (
	"math"

	"github.com/vovakirdan/tui-jezzball/internal/config"
	"github.com/vovakirdan/tui-jezzball/internal/core"
)

// AreaRules holds the cleared-area approximation parameters.
type AreaRules struct {
	MinWallLength float64 // Walls must be longer than this to claim a region
	MaxHalfSize   float64
}

// AreaRulesFrom converts the YAML area section.
func AreaRulesFrom(cfg config.AreaConfig) AreaRules {
	return AreaRules{MinWallLength: cfg.MinWallLength, MaxHalfSize: cfg.MaxHalfSize}
}

// ClearedPercentage estimates how much of the arena has been closed off.
//
// Every wall longer than MinWallLength claims a square centred on its
// midpoint with half size min(length/2, MaxHalfSize). The square counts
// only if no ball centre is within half+radius of its centre. Squares may
// overlap and are summed as-is. The result is capped at 100.
func ClearedPercentage(walls []Wall, balls []Ball, arena Arena, rules AreaRules) float64 {
	total := (arena.Width - 2*arena.Margin) * (arena.Height * arena.AreaRatio)
	if total <= 0 {
		return 0
	}

	var cleared float64
	for _, w := range walls {
		l := w.Length()
		if l <= rules.MinWallLength {
			continue
		}

		half := math.Min(l/2, rules.MaxHalfSize)
		if regionOccupied(w.Midpoint(), half, balls) {
			continue
		}
		cleared += (2 * half) * (2 * half)
	}

	return math.Min(100, 100*cleared/total)
}

func regionOccupied(center core.Vec2, half float64, balls []Ball) bool {
	for _, b := range balls {
		if core.Distance(center, b.Position) <= half+b.Radius {
			return true
		}
	}
	return false
}
