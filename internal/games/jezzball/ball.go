package jezzball

import (
	"github.com/vovakirdan/tui-jezzball/internal/config"
	"github.com/vovakirdan/tui-jezzball/internal/core"
)

// Ball is a moving obstacle. Tag is a cosmetic colour and is ignored by physics.
type Ball struct {
	ID       string
	Position core.Vec2
	Velocity core.Vec2
	Radius   float64
	Tag      string
}

// Arena describes the rectangle balls move in.
type Arena struct {
	Width     float64
	Height    float64
	Margin    float64
	PlayRatio float64
	AreaRatio float64
}

// ArenaFrom converts the YAML arena section.
func ArenaFrom(cfg config.ArenaConfig) Arena {
	return Arena{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Margin:    cfg.Margin,
		PlayRatio: cfg.PlayRatio,
		AreaRatio: cfg.AreaRatio,
	}
}

// MinX returns the left interior bound.
func (a Arena) MinX() float64 { return a.Margin }

// MaxX returns the right interior bound.
func (a Arena) MaxX() float64 { return a.Width - a.Margin }

// MinY returns the top interior bound.
func (a Arena) MinY() float64 { return a.Margin }

// MaxY returns the bottom interior bound.
func (a Arena) MaxY() float64 { return a.Height*a.PlayRatio - a.Margin }

// boundsTolerance absorbs rounding from clamping to bound±radius.
const boundsTolerance = 1e-9

// Contains reports whether the whole ball lies inside the interior.
func (a Arena) Contains(b Ball) bool {
	p, r := b.Position, b.Radius
	return p.X-r >= a.MinX()-boundsTolerance && p.X+r <= a.MaxX()+boundsTolerance &&
		p.Y-r >= a.MinY()-boundsTolerance && p.Y+r <= a.MaxY()+boundsTolerance
}

// Physics holds integrator parameters.
type Physics struct {
	SlowMotion        float64 // Speed multiplier while slow motion is active
	WallHalfThickness float64 // Contact margin added to the ball radius
}

// PhysicsFrom converts the YAML physics section.
func PhysicsFrom(cfg config.PhysicsConfig) Physics {
	return Physics{
		SlowMotion:        cfg.SlowMotionMultiplier,
		WallHalfThickness: cfg.WallHalfThickness,
	}
}

// StepOutcome is the result of advancing all balls by one tick.
type StepOutcome struct {
	Balls     []Ball
	Walls     []Wall // Surviving walls
	Destroyed []Wall // Walls removed this tick, in destruction order
}

// StepBalls advances every ball by one tick.
//
// Each ball moves to pos + vel*mult*scale. If that position touches a wall
// the ball stays where it was and takes the reflected velocity; a
// destructible wall is removed at once so later balls in the same tick no
// longer see it. The arena boundary is applied afterwards.
//
// The input slices are not modified.
func StepBalls(balls []Ball, walls []Wall, fx EffectSnapshot, arena Arena, phys Physics, scale float64) StepOutcome {
	mult := 1.0
	if fx.SlowMotion {
		mult = phys.SlowMotion
	}

	out := StepOutcome{
		Balls: make([]Ball, len(balls)),
		Walls: append([]Wall(nil), walls...),
	}

	for i, b := range balls {
		prev := b.Position
		next := prev.Add(b.Velocity.Scale(mult * scale))

		c := Resolve(next, b.Radius, b.Velocity, out.Walls, fx.Shield, phys.WallHalfThickness)
		if c.Hit {
			next = prev
			b.Velocity = c.Velocity
			if c.Destroy {
				out.Destroyed = append(out.Destroyed, c.Wall)
				out.Walls = append(out.Walls[:c.Index], out.Walls[c.Index+1:]...)
			}
		}

		b.Position = next
		bounceBoundary(&b, arena)
		out.Balls[i] = b
	}

	return out
}

// bounceBoundary inverts the velocity on each axis where the ball crossed
// the interior and clamps it back to exactly one radius from the bound.
func bounceBoundary(b *Ball, a Arena) {
	r := b.Radius

	if b.Position.X-r < a.MinX() {
		b.Velocity.X = -b.Velocity.X
		b.Position.X = a.MinX() + r
	} else if b.Position.X+r > a.MaxX() {
		b.Velocity.X = -b.Velocity.X
		b.Position.X = a.MaxX() - r
	}

	if b.Position.Y-r < a.MinY() {
		b.Velocity.Y = -b.Velocity.Y
		b.Position.Y = a.MinY() + r
	} else if b.Position.Y+r > a.MaxY() {
		b.Velocity.Y = -b.Velocity.Y
		b.Position.Y = a.MaxY() - r
	}
}
