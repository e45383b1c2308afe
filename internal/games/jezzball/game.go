package jezzball

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-jezzball/internal/config"
	"github.com/vovakirdan/tui-jezzball/internal/core"
	"github.com/vovakirdan/tui-jezzball/internal/registry"
)

// GameState constants
const (
	StatePlaying       = "playing"        // Balls moving, walls can be built
	StatePaused        = "paused"         // Simulation halted
	StateLevelComplete = "level_complete" // Target reached, waiting for N
	StateWin           = "win"            // Campaign finished
)

// GameMode represents the game mode.
type GameMode int

const (
	ModeCampaign GameMode = iota // Ten levels, win after the last
	ModeEndless                  // Levels continue until the player quits
)

// messageTicks is how long a notice stays in the status line.
const messageTicks = 120

// Package-level options set by the CLI before the game is created.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	startLevel       = 1
	logger           = log.New(io.Discard)
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// SetStartLevel sets the level new games begin at (1-based).
func SetStartLevel(level int) {
	if level < 1 {
		level = 1
	}
	startLevel = level
}

// SetLogger sets the logger passed to new sessions.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Game adapts a Session to the terminal: it maps cells to arena units,
// turns actions into session calls and draws the state.
type Game struct {
	mode       GameMode
	startLevel int // Overrides the package default when set
	session    atomic.Pointer[Session]

	runtime core.RuntimeConfig
	cfg     config.JezzballConfig

	state     string
	tickCount int
	startedAt time.Time

	// Build cursor in cell coordinates
	cursorX  int
	cursorY  int
	building bool

	message      string
	messageColor core.Color
	messageLeft  int

	// Layout (computed from screen size)
	field          core.Rect // Arena border including the frame
	minScreenW     int
	minScreenH     int
	screenTooSmall bool
}

// New creates a new Jezzball game instance (campaign mode).
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewEndless creates a new Jezzball game instance in endless mode.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

// StartAt makes subsequent resets begin at the given level.
func (g *Game) StartAt(level int) {
	if level >= 1 {
		g.startLevel = level
	}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "jezzball_endless"
	}
	return "jezzball"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Jezzball (Endless)"
	}
	return "Jezzball"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.LoadJezzball(configPath)
	if err != nil {
		logger.Warn("using default config", "err", err)
		cfg = config.DefaultJezzballConfig()
	}
	if difficultyPreset != "" {
		config.ApplyJezzballPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg

	if runtime.TickRate <= 0 {
		runtime.TickRate = defaultTickRate
		g.runtime.TickRate = defaultTickRate
	}

	level := startLevel
	if g.startLevel > 0 {
		level = g.startLevel
	}

	g.session.Store(NewSession(cfg,
		WithStartLevel(level),
		WithSeed(runtime.Seed),
		WithTickRate(runtime.TickRate),
		WithLogger(logger),
	))

	g.calculateLayout()

	g.state = StatePlaying
	g.tickCount = 0
	g.startedAt = time.Now()
	g.building = false
	g.message = ""
	g.messageLeft = 0
	g.cursorX = g.field.X + g.field.W/2
	g.cursorY = g.field.Y + g.field.H/2
}

// calculateLayout places the arena between the two HUD rows and the two
// store/help rows.
func (g *Game) calculateLayout() {
	g.minScreenW = 40
	g.minScreenH = 16
	g.screenTooSmall = g.runtime.ScreenW < g.minScreenW || g.runtime.ScreenH < g.minScreenH

	g.field = core.NewRect(0, 2, g.runtime.ScreenW, g.runtime.ScreenH-5)
}

// Resize recomputes the layout for a new screen size. The session is
// kept since arena units do not depend on the terminal.
func (g *Game) Resize(width, height int) {
	g.runtime.ScreenW = width
	g.runtime.ScreenH = height
	g.calculateLayout()

	in := g.inner()
	if in.W <= 0 || in.H <= 0 {
		return
	}
	g.cursorX, g.cursorY = in.ClampPoint(g.cursorX, g.cursorY)
}

// Session returns the simulation behind the game.
// It is replaced on Reset, so callers should not cache it across resets.
func (g *Game) Session() *Session {
	return g.session.Load()
}

// Snapshot returns the current session snapshot. Safe to call from
// another goroutine while the game is being stepped.
func (g *Game) Snapshot() Snapshot {
	return g.session.Load().Snapshot()
}

// inner returns the cell rectangle inside the arena frame.
func (g *Game) inner() core.Rect {
	return g.field.Inset(1)
}

// cellToArena maps the centre of a cell to arena coordinates.
func (g *Game) cellToArena(cx, cy int) core.Vec2 {
	in := g.inner()
	a := g.session.Load().Arena()
	playH := a.Height * a.PlayRatio
	return core.V(
		(float64(cx-in.X)+0.5)*a.Width/float64(in.W),
		(float64(cy-in.Y)+0.5)*playH/float64(in.H),
	)
}

// arenaToCell maps arena coordinates to the containing cell.
func (g *Game) arenaToCell(p core.Vec2) (int, int) {
	in := g.inner()
	a := g.session.Load().Arena()
	playH := a.Height * a.PlayRatio
	cx := in.X + int(p.X*float64(in.W)/a.Width)
	cy := in.Y + int(p.Y*float64(in.H)/playH)
	return in.ClampPoint(cx, cy)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.screenTooSmall {
		return core.StepResult{State: g.State()}
	}
	s := g.session.Load()
	var events []string

	if in.Has(core.ActionRestart) && g.state == StateWin {
		g.Reset(g.runtime)
		return core.StepResult{State: g.State()}
	}
	if g.state == StateWin {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		paused := !s.Paused()
		s.SetPaused(paused)
		g.building = false
	}

	if !s.Paused() {
		g.handleCursor(s, in)
		g.handlePointer(s, in)
		events = append(events, g.handlePowerUps(s, in)...)

		if in.Has(core.ActionNextLevel) {
			events = append(events, g.advance(s)...)
		}
	}

	if g.state != StateWin {
		s.Tick(time.Second / time.Duration(g.runtime.TickRate))
		g.tickCount++

		for _, a := range s.CheckAchievements() {
			ev := fmt.Sprintf("Achievement unlocked: %s (%s)", a.Title, a.Rarity)
			events = append(events, ev)
			g.notify(ev, rarityColor(a.Rarity))
		}
		g.updateState(s)
	}

	if g.messageLeft > 0 {
		g.messageLeft--
	}

	return core.StepResult{State: g.State(), Events: events}
}

// handleCursor moves the build cursor and drives the keyboard gesture.
func (g *Game) handleCursor(s *Session, in core.InputFrame) {
	step := 1
	fx := s.Effects()
	if fx.Snapshot().SpeedBoost {
		step = 2
	}

	dx := (in.Count(core.ActionRight) - in.Count(core.ActionLeft)) * step
	dy := (in.Count(core.ActionDown) - in.Count(core.ActionUp)) * step
	if dx != 0 || dy != 0 {
		r := g.inner()
		g.cursorX, g.cursorY = r.ClampPoint(g.cursorX+dx, g.cursorY+dy)
		if g.building {
			s.UpdateWallBuild(g.cellToArena(g.cursorX, g.cursorY))
		}
	}

	if in.Has(core.ActionCancel) && g.building {
		s.CancelWallBuild()
		g.building = false
	}

	if in.Has(core.ActionBuild) {
		p := g.cellToArena(g.cursorX, g.cursorY)
		if !g.building {
			s.BeginWallBuild(p)
			g.building = true
		} else {
			g.completeBuild(s, p)
		}
	}
}

// handlePointer maps mouse press, drag and release onto the gesture.
func (g *Game) handlePointer(s *Session, in core.InputFrame) {
	r := g.inner()
	for _, ev := range in.Pointer {
		x, y := r.ClampPoint(ev.X, ev.Y)

		switch ev.Kind {
		case core.PointerPress:
			if !r.Contains(ev.X, ev.Y) {
				continue
			}
			g.cursorX, g.cursorY = x, y
			s.BeginWallBuild(g.cellToArena(x, y))
			g.building = true
		case core.PointerMove:
			g.cursorX, g.cursorY = x, y
			if g.building {
				s.UpdateWallBuild(g.cellToArena(x, y))
			}
		case core.PointerRelease:
			if g.building {
				g.cursorX, g.cursorY = x, y
				g.completeBuild(s, g.cellToArena(x, y))
			}
		}
	}
}

func (g *Game) completeBuild(s *Session, p core.Vec2) {
	g.building = false
	res := s.CompleteWallBuild(p)
	if len(res.Walls) == 0 {
		g.notify("Wall too short", core.ColorGray)
		return
	}
	g.notify(fmt.Sprintf("+%d (%d wall%s)", res.ScoreDelta, len(res.Walls), plural(len(res.Walls))), core.ColorBrightGreen)
}

// handlePowerUps activates and purchases effects.
func (g *Game) handlePowerUps(s *Session, in core.InputFrame) []string {
	var events []string
	activate := [EffectKindCount]core.Action{core.ActionPowerUp1, core.ActionPowerUp2, core.ActionPowerUp3, core.ActionPowerUp4}
	buy := [EffectKindCount]core.Action{core.ActionBuy1, core.ActionBuy2, core.ActionBuy3, core.ActionBuy4}
	catalog := s.Catalog()

	for _, k := range AllEffects {
		p := catalog[k]
		if in.Has(buy[k]) {
			if s.PurchasePowerUp(k) {
				g.notify(fmt.Sprintf("Bought %s for %d gems", p.Name, p.Cost), core.ColorBrightYellow)
			} else {
				ev := fmt.Sprintf("Not enough gems for %s (%d)", p.Name, p.Cost)
				events = append(events, ev)
				g.notify(ev, core.ColorRed)
			}
		}
		if in.Has(activate[k]) {
			if s.ActivatePowerUp(k) {
				g.notify(fmt.Sprintf("%s active for %s", p.Name, p.Duration), core.ColorBrightCyan)
			} else {
				g.notify(fmt.Sprintf("%s unavailable", p.Name), core.ColorRed)
			}
		}
	}
	return events
}

// advance moves to the next level, or ends the campaign after the last one.
func (g *Game) advance(s *Session) []string {
	if !s.LevelComplete() {
		return nil
	}

	if g.mode == ModeCampaign && s.Progress().Level >= LevelCount() {
		g.state = StateWin
		g.building = false
		return []string{"Campaign complete"}
	}

	res, ok := s.AdvanceLevel()
	if !ok {
		return nil
	}
	g.building = false

	msg := fmt.Sprintf("Level %d: %s  +%d gems", res.NewLevel, LevelByNumber(res.NewLevel).Name, res.GemsAwarded)
	if res.BallsAdded > 0 {
		msg += "  +1 ball"
	}
	g.notify(msg, core.ColorBrightGreen)
	return []string{msg}
}

func (g *Game) updateState(s *Session) {
	switch {
	case g.state == StateWin:
	case s.Paused():
		g.state = StatePaused
	case s.LevelComplete():
		g.state = StateLevelComplete
	default:
		g.state = StatePlaying
	}
}

func (g *Game) notify(msg string, c core.Color) {
	g.message = msg
	g.messageColor = c
	g.messageLeft = messageTicks
}

// ExpireInterval returns how often the platform should call ExpireEffects.
func (g *Game) ExpireInterval() time.Duration {
	if d := g.cfg.PowerUps.CheckInterval; d > 0 {
		return d
	}
	return 100 * time.Millisecond
}

// ExpireEffects ends effects whose time has run out and returns their names.
func (g *Game) ExpireEffects() []string {
	s := g.session.Load()
	if s == nil {
		return nil
	}
	expired := s.ExpireEffects()
	names := make([]string, 0, len(expired))
	catalog := s.Catalog()
	for _, k := range expired {
		names = append(names, catalog[k].Name)
	}
	if len(names) > 0 {
		g.notify(strings.Join(names, ", ")+" wore off", core.ColorGray)
	}
	return names
}

// RunStats summarizes the run for storage.
func (g *Game) RunStats() registry.RunStats {
	p := g.session.Load().Progress()
	return registry.RunStats{
		Level:        p.Level,
		WallsBuilt:   p.WallsBuilt,
		GemsEarned:   p.GemsEarned,
		Achievements: p.Unlocked,
		Duration:     time.Since(g.startedAt),
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	s := g.session.Load()
	if s == nil {
		return core.GameState{}
	}
	p := s.Progress()
	return core.GameState{
		Score:         p.Score,
		Level:         p.Level,
		GameOver:      g.state == StateWin,
		Paused:        g.state == StatePaused,
		LevelComplete: g.state == StateLevelComplete,
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// Register the games with the registry
func init() {
	registry.Register("jezzball", func() registry.Game {
		return New()
	})
	registry.Register("jezzball_endless", func() registry.Game {
		return NewEndless()
	})
}
