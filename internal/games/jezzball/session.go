package jezzball

import (
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-jezzball/internal/config"
	"github.com/vovakirdan/tui-jezzball/internal/core"
)

const defaultTickRate = 60

// TickResult is the authoritative state after one tick.
type TickResult struct {
	Balls      []Ball
	Walls      []Wall
	ClearedPct float64
	Destroyed  []Wall       // Walls removed by collisions this tick
	Expired    []EffectKind // Effects that ran out before this tick
}

// WallBuildResult reports the outcome of a completed gesture.
// A rejected gesture has no walls and a zero delta.
type WallBuildResult struct {
	Walls      []Wall
	ScoreDelta int
}

// LevelTransitionResult reports a successful level advance.
type LevelTransitionResult struct {
	NewLevel    int
	NewTarget   float64
	GemsAwarded int
	BallsAdded  int
}

// Option configures a Session.
type Option func(*Session)

// WithStartLevel starts the session at the given 1-based level.
func WithStartLevel(level int) Option {
	return func(s *Session) {
		if level >= 1 {
			s.startLevel = level
		}
	}
}

// WithClock replaces time.Now for effect timers.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithSeed seeds the RNG used for spawned balls.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		s.seed = seed
	}
}

// WithLogger sets the logger used for debug events.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTickRate sets the nominal ticks per second used to scale dt.
func WithTickRate(rate int) Option {
	return func(s *Session) {
		if rate > 0 {
			s.tickRate = rate
		}
	}
}

type buildGesture struct {
	start core.Vec2
	end   core.Vec2
}

// Session owns the balls, walls, effects and progression of one game.
// All methods are safe for concurrent use; each one holds the session
// lock for its whole duration, so a tick never interleaves with a wall
// build, a purchase or an expiry pass.
type Session struct {
	mu sync.Mutex

	cfg        config.JezzballConfig
	arena      Arena
	phys       Physics
	wallRules  WallRules
	areaRules  AreaRules
	catalog    Catalog
	difficulty *config.DifficultyManager

	startLevel int
	seed       int64
	tickRate   int
	clock      func() time.Time
	logger     *log.Logger

	rng      *rng
	ids      IDGen
	balls    []Ball
	walls    []Wall
	effects  EffectState
	progress Progression
	pending  []Achievement
	build    *buildGesture
	paused   bool
	ticks    uint64
}

// NewSession creates a session ready to tick.
func NewSession(cfg config.JezzballConfig, opts ...Option) *Session {
	s := &Session{
		cfg:        cfg,
		arena:      ArenaFrom(cfg.Arena),
		phys:       PhysicsFrom(cfg.Physics),
		wallRules:  WallRulesFrom(cfg.Walls),
		areaRules:  AreaRulesFrom(cfg.Area),
		catalog:    CatalogFrom(cfg.PowerUps),
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		startLevel: 1,
		seed:       1,
		tickRate:   defaultTickRate,
		clock:      time.Now,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

// Reset restarts the session at its configured start level.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.ids = IDGen{}
	s.rng = newRNG(s.seed)
	s.progress = NewProgression(s.cfg.Progression, s.startLevel)
	s.effects = EffectState{Owned: initialOwned(s.cfg.PowerUps)}
	s.walls = nil
	s.pending = nil
	s.build = nil
	s.paused = false
	s.ticks = 0

	s.balls = make([]Ball, 0, len(s.cfg.Balls.Initial)+s.startLevel/2)
	for _, spec := range s.cfg.Balls.Initial {
		b := Ball{
			ID:       s.ids.NextBall(),
			Position: core.V(spec.XRatio*s.arena.Width, spec.YRatio*s.arena.Height),
			Velocity: core.V(spec.VX, spec.VY),
			Radius:   spec.Radius,
			Tag:      spec.Tag,
		}
		s.balls = append(s.balls, clampInto(b, s.arena))
	}

	// Balls earlier level advances would have added
	for lvl := 1; lvl < s.startLevel; lvl++ {
		if s.extraBallAfter(lvl) {
			s.balls = append(s.balls, s.spawnBallLocked(lvl+1))
		}
	}
}

// Tick advances the simulation by one frame. dt is a hint: it is
// converted to nominal frames and capped at the configured maximum step
// scale, and a non-positive dt counts as exactly one frame.
// While paused only effect expiry runs.
func (s *Session) Tick(dt time.Duration) TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired := s.expireLocked()
	if s.paused {
		return TickResult{
			Balls:      append([]Ball(nil), s.balls...),
			Walls:      append([]Wall(nil), s.walls...),
			ClearedPct: s.progress.ClearedPct,
			Expired:    expired,
		}
	}

	fx := s.effects.Snapshot()
	out := StepBalls(s.balls, s.walls, fx, s.arena, s.phys, s.stepScale(dt))
	s.balls = out.Balls
	s.walls = out.Walls
	s.ticks++

	for _, w := range out.Destroyed {
		s.logger.Debug("wall destroyed", "wall", w.ID, "level", s.progress.Level, "tick", s.ticks)
	}

	s.recomputeAreaLocked()
	s.evaluateLocked()

	return TickResult{
		Balls:      append([]Ball(nil), s.balls...),
		Walls:      append([]Wall(nil), s.walls...),
		ClearedPct: s.progress.ClearedPct,
		Destroyed:  out.Destroyed,
		Expired:    expired,
	}
}

func (s *Session) stepScale(dt time.Duration) float64 {
	if dt <= 0 {
		return 1
	}
	scale := dt.Seconds() * float64(s.tickRate)
	if maxScale := s.cfg.Physics.MaxStepScale; maxScale > 0 {
		scale = math.Min(scale, maxScale)
	}
	return scale
}

// BeginWallBuild starts a gesture at p. Ignored while paused.
func (s *Session) BeginWallBuild(p core.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused {
		return
	}
	s.build = &buildGesture{start: p, end: p}
}

// UpdateWallBuild moves the free end of the gesture in progress.
func (s *Session) UpdateWallBuild(p core.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.build != nil {
		s.build.end = p
	}
}

// CancelWallBuild abandons the gesture in progress.
func (s *Session) CancelWallBuild() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.build = nil
}

// BuildPreview returns the gesture in progress, if any.
func (s *Session) BuildPreview() (start, end core.Vec2, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.build == nil {
		return core.Vec2{}, core.Vec2{}, false
	}
	return s.build.start, s.build.end, true
}

// CompleteWallBuild ends the gesture at p and inserts the resulting walls.
// Multi-wall and shield are read from the effects active right now.
func (s *Session) CompleteWallBuild(p core.Vec2) WallBuildResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	if s.build == nil || s.paused {
		s.build = nil
		return WallBuildResult{}
	}
	start := s.build.start
	s.build = nil

	fx := s.effects.Snapshot()
	walls := BuildWalls(start, p, fx.MultiWall, fx.Shield, &s.ids, s.wallRules)
	if len(walls) == 0 {
		return WallBuildResult{}
	}

	s.walls = append(s.walls, walls...)
	delta := len(walls) * s.wallRules.ScorePerWall
	s.progress.Score += delta
	s.progress.WallsBuilt += len(walls)

	s.recomputeAreaLocked()
	s.evaluateLocked()

	return WallBuildResult{Walls: walls, ScoreDelta: delta}
}

// ActivatePowerUp starts an owned effect. It returns false when none is
// owned or the effect is already active.
func (s *Session) ActivatePowerUp(kind EffectKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	if !kind.Valid() {
		return false
	}
	if !s.effects.Activate(kind, s.clock(), s.catalog[kind].Duration) {
		return false
	}
	s.logger.Debug("effect activated", "effect", kind, "until", s.effects.Effects[kind].EndTime)
	return true
}

// PurchasePowerUp buys one unit of an effect. It returns false when the
// gem balance is too low.
func (s *Session) PurchasePowerUp(kind EffectKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !kind.Valid() {
		return false
	}
	if !s.progress.Spend(s.catalog[kind].Cost) {
		return false
	}
	s.effects.Owned[kind]++
	return true
}

// AdvanceLevel moves to the next level once the target area is reached.
// Walls are cleared, the target rises, gems are awarded, and a ball is
// added when the finished level is a multiple of the extra-ball interval.
func (s *Session) AdvanceLevel() (LevelTransitionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	if !s.progress.LevelComplete() {
		return LevelTransitionResult{}, false
	}

	finished := s.progress.Level
	gems := s.progress.Advance(s.cfg.Progression)
	s.walls = nil
	s.build = nil

	added := 0
	if s.extraBallAfter(finished) {
		s.balls = append(s.balls, s.spawnBallLocked(s.progress.Level))
		added = 1
	}

	s.recomputeAreaLocked()
	s.evaluateLocked()

	s.logger.Debug("level advanced",
		"level", s.progress.Level,
		"target", s.progress.TargetArea,
		"gems", s.progress.Gems,
		"balls", len(s.balls),
	)

	return LevelTransitionResult{
		NewLevel:    s.progress.Level,
		NewTarget:   s.progress.TargetArea,
		GemsAwarded: gems,
		BallsAdded:  added,
	}, true
}

// CheckAchievements returns achievements unlocked since the previous call.
func (s *Session) CheckAchievements() []Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evaluateLocked()
	out := s.pending
	s.pending = nil
	return out
}

// ExpireEffects deactivates effects whose time has run out. It is the
// entry point for the periodic expiry task.
func (s *Session) ExpireEffects() []EffectKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expireLocked()
}

// SetPaused pauses or resumes ball movement.
func (s *Session) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
	if paused {
		s.build = nil
	}
}

// Paused reports whether the session is paused.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// LevelComplete reports whether AdvanceLevel would succeed.
func (s *Session) LevelComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.LevelComplete()
}

// Progress returns a copy of the progression state.
func (s *Session) Progress() Progression {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.progress
	p.Unlocked = append([]string(nil), s.progress.Unlocked...)
	return p
}

// Effects returns a copy of the effect timers and inventory after
// expiring anything that has run out.
func (s *Session) Effects() EffectState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	return s.effects
}

// Owned returns how many units of an effect are in the inventory.
func (s *Session) Owned(kind EffectKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !kind.Valid() {
		return 0
	}
	return s.effects.Owned[kind]
}

// Balls returns a copy of the live balls.
func (s *Session) Balls() []Ball {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Ball(nil), s.balls...)
}

// Walls returns a copy of the live walls.
func (s *Session) Walls() []Wall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Wall(nil), s.walls...)
}

// Arena returns the arena geometry.
func (s *Session) Arena() Arena {
	return s.arena
}

// Catalog returns the power-up store entries.
func (s *Session) Catalog() Catalog {
	return s.catalog
}

// Now returns the session clock.
func (s *Session) Now() time.Time {
	return s.clock()
}

func (s *Session) expireLocked() []EffectKind {
	expired := s.effects.Expire(s.clock())
	for _, k := range expired {
		s.logger.Debug("effect expired", "effect", k)
	}
	return expired
}

func (s *Session) recomputeAreaLocked() {
	s.progress.ClearedPct = ClearedPercentage(s.walls, s.balls, s.arena, s.areaRules)
}

func (s *Session) evaluateLocked() {
	unlocked := EvaluateAchievements(&s.progress, s.cfg.Achievements)
	for _, a := range unlocked {
		s.logger.Debug("achievement unlocked", "id", a.ID, "rarity", a.Rarity)
	}
	s.pending = append(s.pending, unlocked...)
}

func (s *Session) extraBallAfter(level int) bool {
	every := s.cfg.Progression.ExtraBallEvery
	return every > 0 && level%every == 0
}

// spawnBallLocked places a random ball in the central band of the arena.
// Its speed is scaled by the difficulty factor of the level it joins.
func (s *Session) spawnBallLocked(level int) Ball {
	sp := s.cfg.Balls.Spawn
	w, h := s.arena.Width, s.arena.Height
	speed := s.difficulty.SpeedFactor(level)

	b := Ball{
		ID: s.ids.NextBall(),
		Position: core.V(
			s.rng.Range(w*sp.MinXRatio, w*(sp.MinXRatio+sp.XSpan)),
			s.rng.Range(h*sp.MinYRatio, h*(sp.MinYRatio+sp.YSpan)),
		),
		Velocity: core.V(
			s.rng.Signed(sp.MaxSpeed*speed),
			s.rng.Signed(sp.MaxSpeed*speed),
		),
		Radius: s.rng.Range(sp.MinRadius, sp.MinRadius+sp.RadiusSpan),
	}
	if len(sp.Tags) > 0 {
		b.Tag = sp.Tags[s.rng.Intn(len(sp.Tags))]
	}
	return clampInto(b, s.arena)
}

// clampInto moves a ball fully inside the arena interior.
func clampInto(b Ball, a Arena) Ball {
	b.Position.X = core.ClampF(b.Position.X, a.MinX()+b.Radius, a.MaxX()-b.Radius)
	b.Position.Y = core.ClampF(b.Position.Y, a.MinY()+b.Radius, a.MaxY()-b.Radius)
	return b
}
