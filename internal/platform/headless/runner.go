// Package headless runs a jezzball session without a terminal, driven by
// the autoplay bot. It is used for simulations, soak tests and the feed.
package headless

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-jezzball/internal/config"
	"github.com/vovakirdan/tui-jezzball/internal/games/jezzball"
	"github.com/vovakirdan/tui-jezzball/internal/storage"
)

// Config controls a headless run.
type Config struct {
	TickRate   int  // Ticks per simulated second, default 60
	MaxTicks   int  // Stop after this many ticks; 0 runs until canceled or won
	Realtime   bool // Tick on the wall clock instead of as fast as possible
	Campaign   bool // End with a win after the last campaign level
	StartLevel int
	Seed       int64
	Player     string
}

// RunRecorder persists finished runs.
type RunRecorder interface {
	SaveRun(run storage.RunResult) (int64, error)
}

// Result summarizes a finished run.
type Result struct {
	Ticks        int
	EndReason    string
	Snapshot     jezzball.Snapshot
	Achievements []string
	Duration     time.Duration // Simulated time
}

// Runner owns one session and the bot playing it.
type Runner struct {
	cfg      Config
	game     config.JezzballConfig
	session  *jezzball.Session
	bot      *Bot
	recorder RunRecorder
	logger   *log.Logger

	// Virtual clock for fast mode
	clockMu sync.Mutex
	now     time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder saves the result when the run ends.
func WithRecorder(r RunRecorder) Option {
	return func(rn *Runner) {
		rn.recorder = r
	}
}

// WithLogger sets the logger used by the runner and its session.
func WithLogger(l *log.Logger) Option {
	return func(rn *Runner) {
		if l != nil {
			rn.logger = l
		}
	}
}

// NewRunner creates a runner and its session.
func NewRunner(game config.JezzballConfig, cfg Config, opts ...Option) *Runner {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.StartLevel < 1 {
		cfg.StartLevel = 1
	}

	r := &Runner{
		cfg:    cfg,
		game:   game,
		bot:    NewBot(game),
		logger: log.New(io.Discard),
		now:    time.Unix(0, 0),
	}
	for _, opt := range opts {
		opt(r)
	}

	sessionOpts := []jezzball.Option{
		jezzball.WithStartLevel(cfg.StartLevel),
		jezzball.WithSeed(cfg.Seed),
		jezzball.WithTickRate(cfg.TickRate),
		jezzball.WithLogger(r.logger),
	}
	if !cfg.Realtime {
		sessionOpts = append(sessionOpts, jezzball.WithClock(r.clock))
	}
	r.session = jezzball.NewSession(game, sessionOpts...)
	return r
}

// Session exposes the running session, for example to a feed hub.
func (r *Runner) Session() *jezzball.Session {
	return r.session
}

func (r *Runner) clock() time.Time {
	r.clockMu.Lock()
	defer r.clockMu.Unlock()
	return r.now
}

func (r *Runner) setClock(t time.Time) {
	r.clockMu.Lock()
	r.now = t
	r.clockMu.Unlock()
}

// elapsed is the simulated time after ticks frames, without the
// per-frame truncation of time.Second/TickRate accumulating.
func (r *Runner) elapsed(ticks int) time.Duration {
	return time.Duration(ticks) * time.Second / time.Duration(r.cfg.TickRate)
}

func (r *Runner) gameID() string {
	if r.cfg.Campaign {
		return "jezzball"
	}
	return "jezzball_endless"
}

// Run plays until MaxTicks, a campaign win or ctx cancellation.
// Cancellation is a normal end and is reported in the result, not as an error.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	dt := time.Second / time.Duration(r.cfg.TickRate)
	start := r.clock()

	r.logger.Info("headless run started",
		"level", r.cfg.StartLevel,
		"seed", r.cfg.Seed,
		"realtime", r.cfg.Realtime,
		"max_ticks", r.cfg.MaxTicks,
	)

	var (
		wg     sync.WaitGroup
		ticker *time.Ticker
	)
	runCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		wg.Wait()
	}()

	if r.cfg.Realtime {
		ticker = time.NewTicker(dt)
		defer ticker.Stop()

		interval := r.game.PowerUps.CheckInterval
		if interval <= 0 {
			interval = 100 * time.Millisecond
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.expireLoop(runCtx, interval)
		}()
	}

	var achievements []string
	reason := ""
	ticks := 0

	for reason == "" {
		if r.cfg.Realtime {
			select {
			case <-runCtx.Done():
				reason = storage.EndCanceled
				continue
			case <-ticker.C:
			}
		} else {
			if err := runCtx.Err(); err != nil {
				reason = storage.EndCanceled
				continue
			}
			r.setClock(start.Add(r.elapsed(ticks + 1)))
		}

		res := r.session.Tick(dt)
		ticks++
		for _, w := range res.Destroyed {
			r.logger.Debug("wall destroyed", "id", w.ID, "tick", ticks)
		}

		if r.cfg.Campaign && r.session.LevelComplete() && r.session.Progress().Level >= jezzball.LevelCount() {
			reason = storage.EndWin
		} else if did := r.bot.Act(r.session, ticks); did != "" {
			r.logger.Debug("bot", "action", did, "tick", ticks)
		}

		for _, a := range r.session.CheckAchievements() {
			achievements = append(achievements, a.ID)
			r.logger.Info("achievement unlocked", "id", a.ID, "tick", ticks)
		}

		if reason == "" && r.cfg.MaxTicks > 0 && ticks >= r.cfg.MaxTicks {
			reason = storage.EndTimeout
		}
	}

	result := Result{
		Ticks:        ticks,
		EndReason:    reason,
		Snapshot:     r.session.Snapshot(),
		Achievements: achievements,
		Duration:     r.elapsed(ticks),
	}

	r.logger.Info("headless run finished",
		"reason", reason,
		"ticks", ticks,
		"level", result.Snapshot.Level,
		"score", result.Snapshot.Score,
	)

	if r.recorder != nil {
		if err := r.record(result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (r *Runner) expireLoop(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for _, k := range r.session.ExpireEffects() {
				r.logger.Debug("effect expired", "effect", k.String())
			}
		}
	}
}

func (r *Runner) record(res Result) error {
	snap := res.Snapshot
	_, err := r.recorder.SaveRun(storage.RunResult{
		GameID:       r.gameID(),
		Player:       r.cfg.Player,
		Score:        snap.Score,
		Level:        snap.Level,
		WallsBuilt:   snap.WallsBuilt,
		GemsEarned:   snap.GemsEarned,
		Achievements: snap.Unlocked,
		EndReason:    res.EndReason,
		Duration:     int(res.Duration / time.Second),
	})
	if err != nil {
		return fmt.Errorf("headless: save run: %w", err)
	}
	return nil
}
