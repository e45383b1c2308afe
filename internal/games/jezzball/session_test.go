package jezzball

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-jezzball/internal/config"
	"github.com/vovakirdan/tui-jezzball/internal/core"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: epoch}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestSession(t *testing.T, cfg config.JezzballConfig, opts ...Option) (*Session, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	opts = append([]Option{WithClock(clock.Now), WithSeed(7)}, opts...)
	return NewSession(cfg, opts...), clock
}

// easyClearConfig shrinks the cleared-area denominator so one long wall
// away from the balls completes a level.
func easyClearConfig() config.JezzballConfig {
	cfg := config.DefaultJezzballConfig()
	cfg.Arena.AreaRatio = 0.001
	return cfg
}

func build(s *Session, a, b core.Vec2) WallBuildResult {
	s.BeginWallBuild(a)
	s.UpdateWallBuild(b.Add(a).Scale(0.5))
	return s.CompleteWallBuild(b)
}

func TestSessionInitialState(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultJezzballConfig())

	balls := s.Balls()
	if len(balls) != 2 {
		t.Fatalf("len(Balls()) = %d, expected 2", len(balls))
	}
	if !approxVec(balls[0].Position, core.V(390*0.3, 844*0.4)) || balls[0].Radius != 15 {
		t.Errorf("ball 0 = %+v", balls[0])
	}
	if balls[1].Velocity != core.V(-1.5, 2) || balls[1].Radius != 12 {
		t.Errorf("ball 1 = %+v", balls[1])
	}

	p := s.Progress()
	if p.Level != 1 || p.Gems != 100 || p.TargetArea != 75 || p.Score != 0 {
		t.Errorf("Progress() = %+v", p)
	}
	if len(s.Walls()) != 0 {
		t.Error("new session should have no walls")
	}
}

func TestSessionWallBuild(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultJezzballConfig())

	res := build(s, core.V(50, 100), core.V(150, 100))
	if len(res.Walls) != 1 || res.ScoreDelta != 10 {
		t.Fatalf("CompleteWallBuild() = %d walls, delta %d; expected 1, 10", len(res.Walls), res.ScoreDelta)
	}
	if !approx(res.Walls[0].Length(), 100) {
		t.Errorf("wall length = %f, expected 100", res.Walls[0].Length())
	}

	p := s.Progress()
	if p.Score != 10 || p.WallsBuilt != 1 {
		t.Errorf("Progress() score=%d walls=%d", p.Score, p.WallsBuilt)
	}
	if len(s.Walls()) != 1 {
		t.Errorf("len(Walls()) = %d, expected 1", len(s.Walls()))
	}
}

func TestSessionWallBuildRejected(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultJezzballConfig())

	res := build(s, core.V(0, 0), core.V(15, 0))
	if len(res.Walls) != 0 || res.ScoreDelta != 0 {
		t.Errorf("short gesture = %+v, expected rejection", res)
	}

	// Complete without Begin
	if res := s.CompleteWallBuild(core.V(300, 300)); len(res.Walls) != 0 {
		t.Errorf("CompleteWallBuild() without gesture = %+v", res)
	}

	if p := s.Progress(); p.Score != 0 || p.WallsBuilt != 0 {
		t.Errorf("rejected builds changed progress: %+v", p)
	}
}

func TestSessionNonFiniteGesture(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultJezzballConfig())

	for _, end := range []core.Vec2{core.V(math.NaN(), 100), core.V(math.Inf(1), 100)} {
		if res := build(s, core.V(50, 100), end); len(res.Walls) != 0 || res.ScoreDelta != 0 {
			t.Errorf("gesture to %v = %+v, expected rejection", end, res)
		}
	}
	if len(s.Walls()) != 0 {
		t.Fatalf("len(Walls()) = %d, expected 0", len(s.Walls()))
	}

	arena := s.Arena()
	for range 200 {
		s.Tick(0)
	}
	for _, b := range s.Balls() {
		if !b.Position.Finite() || !arena.Contains(b) {
			t.Errorf("ball %s at %v left the arena", b.ID, b.Position)
		}
	}
}

func TestSessionBuildPreviewAndCancel(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultJezzballConfig())

	if _, _, ok := s.BuildPreview(); ok {
		t.Error("BuildPreview() should be empty before a gesture")
	}

	s.BeginWallBuild(core.V(10, 20))
	s.UpdateWallBuild(core.V(60, 20))
	start, end, ok := s.BuildPreview()
	if !ok || start != core.V(10, 20) || end != core.V(60, 20) {
		t.Errorf("BuildPreview() = %v %v %v", start, end, ok)
	}

	s.CancelWallBuild()
	if res := s.CompleteWallBuild(core.V(100, 20)); len(res.Walls) != 0 {
		t.Error("cancelled gesture should not build")
	}
}

func TestSessionMultiWall(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultJezzballConfig())

	if !s.PurchasePowerUp(EffectMultiWall) {
		t.Fatal("PurchasePowerUp(multi_wall) failed with 100 gems")
	}
	if !s.ActivatePowerUp(EffectMultiWall) {
		t.Fatal("ActivatePowerUp(multi_wall) failed")
	}

	res := build(s, core.V(20, 30), core.V(120, 30))
	if len(res.Walls) != 3 || res.ScoreDelta != 30 {
		t.Errorf("multi-wall build = %d walls, delta %d; expected 3, 30", len(res.Walls), res.ScoreDelta)
	}
	if p := s.Progress(); p.WallsBuilt != 3 {
		t.Errorf("WallsBuilt = %d, expected 3", p.WallsBuilt)
	}
}

func TestSessionShieldedWallSurvives(t *testing.T) {
	for _, shield := range []bool{false, true} {
		s, _ := newTestSession(t, config.DefaultJezzballConfig())
		if shield {
			s.PurchasePowerUp(EffectShield)
			if !s.ActivatePowerUp(EffectShield) {
				t.Fatal("ActivatePowerUp(shield) failed")
			}
		}

		// Vertical wall in the path of ball 0, which moves right at 2 per tick
		res := build(s, core.V(140, 300), core.V(140, 400))
		if len(res.Walls) != 1 || res.Walls[0].Shielded != shield {
			t.Fatalf("build with shield=%v = %+v", shield, res.Walls)
		}

		var destroyed []Wall
		bounced := false
		for range 10 {
			r := s.Tick(0)
			destroyed = append(destroyed, r.Destroyed...)
			if r.Balls[0].Velocity.X < 0 {
				bounced = true
				break
			}
		}

		if !bounced {
			t.Fatalf("shield=%v: ball never bounced off the wall", shield)
		}
		if shield && (len(destroyed) != 0 || len(s.Walls()) != 1) {
			t.Errorf("shielded wall was destroyed")
		}
		if !shield && (len(destroyed) != 1 || len(s.Walls()) != 0) {
			t.Errorf("unshielded wall survived: destroyed=%d walls=%d", len(destroyed), len(s.Walls()))
		}
	}
}

func TestSessionActivatePowerUp(t *testing.T) {
	s, clock := newTestSession(t, config.DefaultJezzballConfig())

	before := s.Effects()
	if s.ActivatePowerUp(EffectSlowMotion) {
		t.Fatal("ActivatePowerUp() with none owned should fail")
	}
	if after := s.Effects(); after != before {
		t.Errorf("failed activation changed effects: %+v", after)
	}

	s.PurchasePowerUp(EffectSlowMotion)
	if s.Owned(EffectSlowMotion) != 1 {
		t.Fatalf("Owned() = %d, expected 1", s.Owned(EffectSlowMotion))
	}
	if !s.ActivatePowerUp(EffectSlowMotion) {
		t.Fatal("ActivatePowerUp() with one owned should succeed")
	}

	fx := s.Effects()
	if fx.Owned[EffectSlowMotion] != 0 {
		t.Errorf("Owned = %d, expected 0", fx.Owned[EffectSlowMotion])
	}
	e := fx.Effects[EffectSlowMotion]
	if !e.Active || !e.EndTime.Equal(clock.Now().Add(10*time.Second)) {
		t.Errorf("Effect = %+v, expected active for 10s", e)
	}
}

func TestSessionEffectExpiry(t *testing.T) {
	s, clock := newTestSession(t, config.DefaultJezzballConfig())
	s.PurchasePowerUp(EffectSlowMotion)
	s.ActivatePowerUp(EffectSlowMotion)

	clock.Advance(10 * time.Second)
	if got := s.ExpireEffects(); len(got) != 0 {
		t.Errorf("ExpireEffects() at end time = %v", got)
	}

	clock.Advance(time.Millisecond)
	got := s.ExpireEffects()
	if len(got) != 1 || got[0] != EffectSlowMotion {
		t.Errorf("ExpireEffects() = %v, expected [slow_motion]", got)
	}
	if got := s.ExpireEffects(); len(got) != 0 {
		t.Errorf("ExpireEffects() reported twice: %v", got)
	}
}

func TestSessionTickSeesLazyExpiry(t *testing.T) {
	s, clock := newTestSession(t, config.DefaultJezzballConfig())
	s.PurchasePowerUp(EffectSlowMotion)
	s.ActivatePowerUp(EffectSlowMotion)

	start := s.Balls()[0].Position
	r := s.Tick(0)
	if !approxVec(r.Balls[0].Position, start.Add(core.V(0.6, 0.45))) {
		t.Errorf("slow-motion tick moved ball to %v", r.Balls[0].Position)
	}

	clock.Advance(11 * time.Second)
	pos := r.Balls[0].Position
	r = s.Tick(0)
	if len(r.Expired) != 1 || r.Expired[0] != EffectSlowMotion {
		t.Errorf("Tick().Expired = %v, expected [slow_motion]", r.Expired)
	}
	if !approxVec(r.Balls[0].Position, pos.Add(core.V(2, 1.5))) {
		t.Errorf("tick after expiry moved ball to %v, expected full speed", r.Balls[0].Position)
	}
}

func TestSessionTickScale(t *testing.T) {
	tests := []struct {
		name string
		dt   time.Duration
		move core.Vec2
	}{
		{"non-positive", 0, core.V(2, 1.5)},
		{"half frame", time.Second / 120, core.V(1, 0.75)},
		{"capped", time.Hour, core.V(4, 3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestSession(t, config.DefaultJezzballConfig())
			start := s.Balls()[0].Position
			r := s.Tick(tc.dt)
			got := r.Balls[0].Position.Sub(start)
			if math.Abs(got.X-tc.move.X) > 1e-6 || math.Abs(got.Y-tc.move.Y) > 1e-6 {
				t.Errorf("moved %v, expected %v", got, tc.move)
			}
		})
	}
}

func TestSessionPurchase(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultJezzballConfig())

	for i := range 3 {
		if !s.PurchasePowerUp(EffectShield) {
			t.Fatalf("purchase %d failed", i+1)
		}
	}
	if s.PurchasePowerUp(EffectShield) {
		t.Error("purchase with 10 gems should fail")
	}
	if p := s.Progress(); p.Gems != 10 {
		t.Errorf("Gems = %d, expected 10", p.Gems)
	}
	if s.Owned(EffectShield) != 3 {
		t.Errorf("Owned(shield) = %d, expected 3", s.Owned(EffectShield))
	}
	if s.PurchasePowerUp(EffectKindCount) {
		t.Error("purchase of invalid kind should fail")
	}
}

func TestSessionAdvanceLevel(t *testing.T) {
	s, _ := newTestSession(t, easyClearConfig())

	if _, ok := s.AdvanceLevel(); ok {
		t.Fatal("AdvanceLevel() should fail before the target is reached")
	}

	build(s, core.V(20, 30), core.V(120, 30))
	if !s.LevelComplete() {
		t.Fatalf("level should be complete, cleared %f", s.Progress().ClearedPct)
	}

	res, ok := s.AdvanceLevel()
	if !ok {
		t.Fatal("AdvanceLevel() failed")
	}
	expected := LevelTransitionResult{NewLevel: 2, NewTarget: 80, GemsAwarded: 50, BallsAdded: 0}
	if res != expected {
		t.Errorf("AdvanceLevel() = %+v, expected %+v", res, expected)
	}
	if len(s.Walls()) != 0 || s.Progress().ClearedPct != 0 {
		t.Error("walls and cleared area should reset on advance")
	}
	if p := s.Progress(); p.Gems != 150 {
		t.Errorf("Gems = %d, expected 150", p.Gems)
	}

	// Finishing level 2 adds a ball
	build(s, core.V(20, 30), core.V(120, 30))
	res, ok = s.AdvanceLevel()
	if !ok || res.BallsAdded != 1 || res.NewLevel != 3 {
		t.Fatalf("AdvanceLevel() from 2 = %+v, %v", res, ok)
	}
	balls := s.Balls()
	if len(balls) != 3 {
		t.Fatalf("len(Balls()) = %d, expected 3", len(balls))
	}
	spawned := balls[2]
	if spawned.Radius < 10 || spawned.Radius >= 18 {
		t.Errorf("spawned radius %f outside [10, 18)", spawned.Radius)
	}
	if !s.Arena().Contains(spawned) {
		t.Errorf("spawned ball at %v outside arena", spawned.Position)
	}
}

func TestSessionStartLevel(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultJezzballConfig(), WithStartLevel(5))

	if got := len(s.Balls()); got != 4 {
		t.Errorf("len(Balls()) at level 5 = %d, expected 4", got)
	}
	p := s.Progress()
	if p.Level != 5 || p.TargetArea != 90 {
		t.Errorf("Progress() = level %d target %g", p.Level, p.TargetArea)
	}

	if got := s.CheckAchievements(); len(got) != 0 {
		t.Errorf("CheckAchievements() = %v, expected none for a run started at level 5", got)
	}
}

func TestSessionReachLevelFive(t *testing.T) {
	s, _ := newTestSession(t, easyClearConfig(), WithStartLevel(4))
	if got := s.CheckAchievements(); len(got) != 0 {
		t.Fatalf("CheckAchievements() at level 4 = %v, expected none", got)
	}

	build(s, core.V(20, 30), core.V(120, 30))
	s.CheckAchievements() // first_wall
	if _, ok := s.AdvanceLevel(); !ok {
		t.Fatalf("AdvanceLevel() failed, cleared %f", s.Progress().ClearedPct)
	}

	got := s.CheckAchievements()
	if len(got) != 1 || got[0].ID != "level_5" {
		t.Errorf("CheckAchievements() after reaching 5 = %v, expected level_5", got)
	}
}

func TestSessionFirstWallOnce(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultJezzballConfig())

	build(s, core.V(20, 30), core.V(120, 30))
	got := s.CheckAchievements()
	if len(got) != 1 || got[0].ID != "first_wall" {
		t.Fatalf("CheckAchievements() = %v, expected first_wall", got)
	}

	for range 3 {
		build(s, core.V(20, 40), core.V(120, 40))
		for _, a := range s.CheckAchievements() {
			if a.ID == "first_wall" {
				t.Fatal("first_wall unlocked twice")
			}
		}
	}
	if n := len(s.Progress().Unlocked); n != 1 {
		t.Errorf("Unlocked = %d entries, expected 1", n)
	}
}

func TestSessionPerfectClear(t *testing.T) {
	s, _ := newTestSession(t, easyClearConfig())
	build(s, core.V(20, 30), core.V(120, 30))

	found := false
	for _, a := range s.CheckAchievements() {
		if a.ID == "perfect_clear" {
			found = true
		}
	}
	if !found {
		t.Errorf("perfect_clear not unlocked at %f%%", s.Progress().ClearedPct)
	}
}

func TestSessionPause(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultJezzballConfig())
	s.SetPaused(true)
	if !s.Paused() {
		t.Fatal("Paused() = false after SetPaused(true)")
	}

	before := s.Balls()
	r := s.Tick(0)
	if r.Balls[0] != before[0] {
		t.Error("paused tick moved a ball")
	}

	if res := build(s, core.V(20, 30), core.V(120, 30)); len(res.Walls) != 0 {
		t.Error("gesture accepted while paused")
	}

	s.SetPaused(false)
	if r := s.Tick(0); r.Balls[0] == before[0] {
		t.Error("resumed tick did not move the ball")
	}
}

func TestSessionReset(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultJezzballConfig())
	build(s, core.V(20, 30), core.V(120, 30))
	s.PurchasePowerUp(EffectShield)
	for range 50 {
		s.Tick(0)
	}

	s.Reset()
	p := s.Progress()
	if p.Score != 0 || p.Gems != 100 || len(p.Unlocked) != 0 || len(s.Walls()) != 0 {
		t.Errorf("Reset() left state behind: %+v", p)
	}
	if s.Owned(EffectShield) != 0 {
		t.Error("Reset() kept owned power-ups")
	}
	if !approxVec(s.Balls()[0].Position, core.V(117, 337.6)) {
		t.Errorf("Reset() ball position = %v", s.Balls()[0].Position)
	}
}

func TestSessionBallsStayInArena(t *testing.T) {
	s, _ := newTestSession(t, config.DefaultJezzballConfig(), WithStartLevel(9))
	build(s, core.V(30, 200), core.V(350, 220))
	build(s, core.V(200, 50), core.V(190, 600))

	arena := s.Arena()
	for tick := range 3000 {
		r := s.Tick(time.Second / 30)
		for _, b := range r.Balls {
			if !arena.Contains(b) {
				t.Fatalf("tick %d: %s at %v outside arena", tick, b.ID, b.Position)
			}
		}
	}
}

func TestSessionConcurrentAccess(t *testing.T) {
	s := NewSession(config.DefaultJezzballConfig(), WithSeed(3))

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		for range 500 {
			s.Tick(0)
		}
	}()
	go func() {
		defer wg.Done()
		for i := range 100 {
			y := float64(20 + i%500)
			s.BeginWallBuild(core.V(20, y))
			s.CompleteWallBuild(core.V(200, y))
		}
	}()
	go func() {
		defer wg.Done()
		for range 200 {
			s.ExpireEffects()
			s.PurchasePowerUp(EffectShield)
			s.ActivatePowerUp(EffectShield)
		}
	}()
	go func() {
		defer wg.Done()
		for range 200 {
			snap := s.Snapshot()
			_ = snap.Hash()
			s.CheckAchievements()
		}
	}()
	wg.Wait()

	arena := s.Arena()
	for _, b := range s.Balls() {
		if !arena.Contains(b) {
			t.Errorf("%s at %v outside arena", b.ID, b.Position)
		}
	}
	if p := s.Progress(); p.Gems < 0 {
		t.Errorf("Gems went negative: %d", p.Gems)
	}
}
