package jezzball

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-jezzball/internal/core"
)

// BallState is the serialized form of a Ball.
type BallState struct {
	ID     string  `msgpack:"id"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	VX     float64 `msgpack:"vx"`
	VY     float64 `msgpack:"vy"`
	Radius float64 `msgpack:"r"`
	Tag    string  `msgpack:"tag"`
}

// WallState is the serialized form of a Wall.
type WallState struct {
	ID       string  `msgpack:"id"`
	X1       float64 `msgpack:"x1"`
	Y1       float64 `msgpack:"y1"`
	X2       float64 `msgpack:"x2"`
	Y2       float64 `msgpack:"y2"`
	Shielded bool    `msgpack:"shielded"`
}

// EffectStatus is the serialized form of one effect timer.
type EffectStatus struct {
	Kind        string `msgpack:"kind"`
	Active      bool   `msgpack:"active"`
	RemainingMs int64  `msgpack:"remaining_ms"`
	Owned       int    `msgpack:"owned"`
}

// Snapshot contains the complete session state for spectators, replay
// checks and tests. Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick       uint64  `msgpack:"tick"`
	Level      int     `msgpack:"level"`
	StartLevel int     `msgpack:"start_level"`
	Score      int     `msgpack:"score"`
	Gems       int     `msgpack:"gems"`
	ClearedPct float64 `msgpack:"cleared_pct"`
	TargetArea float64 `msgpack:"target_area"`
	WallsBuilt int     `msgpack:"walls_built"`
	GemsEarned int     `msgpack:"gems_earned"`
	Paused     bool    `msgpack:"paused"`

	ArenaW float64 `msgpack:"arena_w"`
	ArenaH float64 `msgpack:"arena_h"`

	Balls    []BallState    `msgpack:"balls"`
	Walls    []WallState    `msgpack:"walls"`
	Effects  []EffectStatus `msgpack:"effects"`
	Unlocked []string       `msgpack:"unlocked"`

	// RNG state for spawned balls
	RNGState uint64 `msgpack:"rng"`
	NextBall int    `msgpack:"next_ball"`
	NextWall int    `msgpack:"next_wall"`
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	s.expireLocked()

	balls := make([]BallState, len(s.balls))
	for i, b := range s.balls {
		balls[i] = BallState{
			ID: b.ID, X: b.Position.X, Y: b.Position.Y,
			VX: b.Velocity.X, VY: b.Velocity.Y, Radius: b.Radius, Tag: b.Tag,
		}
	}

	walls := make([]WallState, len(s.walls))
	for i, w := range s.walls {
		walls[i] = WallState{
			ID: w.ID, X1: w.Start.X, Y1: w.Start.Y, X2: w.End.X, Y2: w.End.Y,
			Shielded: w.Shielded,
		}
	}

	effects := make([]EffectStatus, 0, EffectKindCount)
	for _, k := range AllEffects {
		e := s.effects.Effects[k]
		effects = append(effects, EffectStatus{
			Kind:        k.String(),
			Active:      e.Active,
			RemainingMs: e.Remaining(now).Milliseconds(),
			Owned:       s.effects.Owned[k],
		})
	}

	return Snapshot{
		Tick:       s.ticks,
		Level:      s.progress.Level,
		StartLevel: s.progress.StartLevel,
		Score:      s.progress.Score,
		Gems:       s.progress.Gems,
		ClearedPct: s.progress.ClearedPct,
		TargetArea: s.progress.TargetArea,
		WallsBuilt: s.progress.WallsBuilt,
		GemsEarned: s.progress.GemsEarned,
		Paused:     s.paused,
		ArenaW:     s.arena.Width,
		ArenaH:     s.arena.Height,
		Balls:      balls,
		Walls:      walls,
		Effects:    effects,
		Unlocked:   append([]string(nil), s.progress.Unlocked...),
		RNGState:   s.rng.state,
		NextBall:   s.ids.balls,
		NextWall:   s.ids.walls,
	}
}

// Restore replaces the session state with a snapshot. Effect timers are
// rebuilt relative to the session clock. Achievements already listed in
// the snapshot are not reported again.
func (s *Session) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()

	s.ticks = snap.Tick
	s.paused = snap.Paused
	s.build = nil
	s.pending = nil
	s.progress = Progression{
		Level:      snap.Level,
		StartLevel: snap.StartLevel,
		Score:      snap.Score,
		Gems:       snap.Gems,
		ClearedPct: snap.ClearedPct,
		TargetArea: snap.TargetArea,
		WallsBuilt: snap.WallsBuilt,
		GemsEarned: snap.GemsEarned,
		Unlocked:   append([]string(nil), snap.Unlocked...),
	}

	s.balls = make([]Ball, len(snap.Balls))
	for i, b := range snap.Balls {
		s.balls[i] = Ball{
			ID:       b.ID,
			Position: core.V(b.X, b.Y),
			Velocity: core.V(b.VX, b.VY),
			Radius:   b.Radius,
			Tag:      b.Tag,
		}
	}

	s.walls = make([]Wall, len(snap.Walls))
	for i, w := range snap.Walls {
		s.walls[i] = Wall{
			ID:       w.ID,
			Start:    core.V(w.X1, w.Y1),
			End:      core.V(w.X2, w.Y2),
			Complete: true,
			Shielded: w.Shielded,
		}
	}

	s.effects = EffectState{}
	for _, st := range snap.Effects {
		k, ok := ParseEffectKind(st.Kind)
		if !ok {
			continue
		}
		s.effects.Owned[k] = st.Owned
		if st.Active {
			s.effects.Effects[k] = Effect{
				Active:  true,
				EndTime: now.Add(time.Duration(st.RemainingMs) * time.Millisecond),
			}
		}
	}

	s.rng = &rng{state: snap.RNGState}
	s.ids = IDGen{balls: snap.NextBall, walls: snap.NextWall}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Level)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Gems)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.WallsBuilt) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.GemsEarned) //#nosec G115 -- hash computation
	h = h*31 + math.Float64bits(snap.ClearedPct)
	h = h*31 + math.Float64bits(snap.TargetArea)

	for _, b := range snap.Balls {
		h = hashString(h, b.ID)
		h = h*31 + math.Float64bits(b.X)
		h = h*31 + math.Float64bits(b.Y)
		h = h*31 + math.Float64bits(b.VX)
		h = h*31 + math.Float64bits(b.VY)
		h = h*31 + math.Float64bits(b.Radius)
	}

	for _, w := range snap.Walls {
		h = hashString(h, w.ID)
		h = h*31 + math.Float64bits(w.X1)
		h = h*31 + math.Float64bits(w.Y1)
		h = h*31 + math.Float64bits(w.X2)
		h = h*31 + math.Float64bits(w.Y2)
		if w.Shielded {
			h = h*31 + 1
		}
	}

	for _, e := range snap.Effects {
		h = h*31 + uint64(e.Owned) //#nosec G115 -- hash computation
		if e.Active {
			h = h*31 + uint64(e.RemainingMs) //#nosec G115 -- hash computation
		}
	}

	for _, id := range snap.Unlocked {
		h = hashString(h, id)
	}

	h = h*31 + snap.RNGState

	return h
}

func hashString(h uint64, s string) uint64 {
	for i := 0; i < len(s); i++ {
		h = h*31 + uint64(s[i])
	}
	return h
}
