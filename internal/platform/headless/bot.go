package headless

import (
	"math"
	"strconv"

	"github.com/vovakirdan/tui-jezzball/internal/config"
	"github.com/vovakirdan/tui-jezzball/internal/core"
	"github.com/vovakirdan/tui-jezzball/internal/games/jezzball"
)

// Bot plays a session without input devices. It keeps a shield running,
// builds shielded walls in the spot farthest from every ball and advances
// as soon as the target is reached.
type Bot struct {
	every     int     // Ticks between build attempts
	half      float64 // Half length of every wall the bot builds
	clearance float64 // Required gap between a ball and a new wall's square
}

// NewBot creates a bot using the configured area rules.
func NewBot(cfg config.JezzballConfig) *Bot {
	half := cfg.Area.MaxHalfSize
	if minHalf := cfg.Walls.MinLength/2 + 1; half < minHalf {
		half = minHalf
	}
	return &Bot{
		every:     10,
		half:      half,
		clearance: 10,
	}
}

// Act performs at most one build and any store or level actions for this
// tick. It returns a short description of what it did, or "".
func (b *Bot) Act(s *jezzball.Session, tick int) string {
	if s.Paused() {
		return ""
	}

	if s.LevelComplete() {
		if res, ok := s.AdvanceLevel(); ok {
			return "advance to level " + strconv.Itoa(res.NewLevel)
		}
	}

	fx := s.Effects()
	if !fx.Effects[jezzball.EffectShield].Active {
		if fx.Owned[jezzball.EffectShield] == 0 {
			s.PurchasePowerUp(jezzball.EffectShield)
		}
		if s.ActivatePowerUp(jezzball.EffectShield) {
			return "shield"
		}
	}

	if tick%b.every != 0 {
		return ""
	}

	mid, ok := b.bestSpot(s)
	if !ok {
		return ""
	}
	s.BeginWallBuild(mid.Sub(core.V(b.half, 0)))
	res := s.CompleteWallBuild(mid.Add(core.V(b.half, 0)))
	if len(res.Walls) == 0 {
		return ""
	}
	return "wall " + res.Walls[0].ID
}

// bestSpot returns the free wall midpoint with the largest clearance
// from every ball. Spots are laid out every half length, so squares may
// overlap; spots already holding a wall are skipped.
func (b *Bot) bestSpot(s *jezzball.Session) (core.Vec2, bool) {
	a := s.Arena()
	balls := s.Balls()
	walls := s.Walls()

	best := core.Vec2{}
	bestGap := math.Inf(-1)

	for y := a.MinY() + b.half; y <= a.MaxY()-b.half; y += b.half {
		for x := a.MinX() + b.half; x <= a.MaxX()-b.half; x += b.half {
			p := core.V(x, y)
			if b.taken(p, walls) {
				continue
			}
			gap := math.Inf(1)
			for _, ball := range balls {
				gap = math.Min(gap, core.Distance(p, ball.Position)-ball.Radius-b.half)
			}
			if gap > bestGap {
				best, bestGap = p, gap
			}
		}
	}

	return best, bestGap > b.clearance
}

func (b *Bot) taken(p core.Vec2, walls []jezzball.Wall) bool {
	for _, w := range walls {
		if core.Distance(p, w.Midpoint()) < b.half/2 {
			return true
		}
	}
	return false
}
