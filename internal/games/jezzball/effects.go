package jezzball

import (
	"time"

	"github.com/vovakirdan/tui-jezzball/internal/config"
)

// EffectKind identifies a timed power-up effect.
type EffectKind int

const (
	EffectSlowMotion EffectKind = iota // Balls move at a fraction of their speed
	EffectSpeedBoost                   // Build cursor moves faster
	EffectMultiWall                    // One gesture builds parallel walls
	EffectShield                       // Walls survive collisions
	EffectKindCount                    // Sentinel for counting kinds
)

// AllEffects lists the effect kinds in catalog order.
var AllEffects = [EffectKindCount]EffectKind{
	EffectSlowMotion, EffectSpeedBoost, EffectMultiWall, EffectShield,
}

// String returns the stable identifier of the kind.
func (k EffectKind) String() string {
	switch k {
	case EffectSlowMotion:
		return "slow_motion"
	case EffectSpeedBoost:
		return "speed_boost"
	case EffectMultiWall:
		return "multi_wall"
	case EffectShield:
		return "shield"
	default:
		return "unknown"
	}
}

// Short returns a compact HUD label.
func (k EffectKind) Short() string {
	switch k {
	case EffectSlowMotion:
		return "SLO"
	case EffectSpeedBoost:
		return "SPD"
	case EffectMultiWall:
		return "MUL"
	case EffectShield:
		return "SHD"
	default:
		return "?"
	}
}

// Valid reports whether k names a real effect.
func (k EffectKind) Valid() bool {
	return k >= 0 && k < EffectKindCount
}

// ParseEffectKind converts an identifier produced by String back to a kind.
func ParseEffectKind(s string) (EffectKind, bool) {
	for _, k := range AllEffects {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Effect is the timer of one effect kind.
type Effect struct {
	Active  bool
	EndTime time.Time
}

// Remaining returns the time left before the effect expires.
func (e Effect) Remaining(now time.Time) time.Duration {
	if !e.Active || now.After(e.EndTime) {
		return 0
	}
	return e.EndTime.Sub(now)
}

// EffectState is the fixed record of all effect timers and owned counts.
type EffectState struct {
	Effects [EffectKindCount]Effect
	Owned   [EffectKindCount]int
}

// Activate consumes one owned unit and starts the effect.
// It fails when nothing is owned or the effect is already running.
func (s *EffectState) Activate(kind EffectKind, now time.Time, duration time.Duration) bool {
	if !kind.Valid() || s.Owned[kind] <= 0 || s.Effects[kind].Active {
		return false
	}
	s.Owned[kind]--
	s.Effects[kind] = Effect{Active: true, EndTime: now.Add(duration)}
	return true
}

// Expire deactivates every active effect whose end time has passed and
// returns the kinds that changed. An effect is reported only once.
func (s *EffectState) Expire(now time.Time) []EffectKind {
	var expired []EffectKind
	for _, k := range AllEffects {
		e := &s.Effects[k]
		if e.Active && now.After(e.EndTime) {
			e.Active = false
			expired = append(expired, k)
		}
	}
	return expired
}

// Snapshot returns the active flags for use during one tick.
func (s *EffectState) Snapshot() EffectSnapshot {
	return EffectSnapshot{
		SlowMotion: s.Effects[EffectSlowMotion].Active,
		SpeedBoost: s.Effects[EffectSpeedBoost].Active,
		MultiWall:  s.Effects[EffectMultiWall].Active,
		Shield:     s.Effects[EffectShield].Active,
	}
}

// EffectSnapshot is a read-once copy of which effects are active.
type EffectSnapshot struct {
	SlowMotion bool
	SpeedBoost bool
	MultiWall  bool
	Shield     bool
}

// Active reports whether the given kind is set in the snapshot.
func (s EffectSnapshot) Active(kind EffectKind) bool {
	switch kind {
	case EffectSlowMotion:
		return s.SlowMotion
	case EffectSpeedBoost:
		return s.SpeedBoost
	case EffectMultiWall:
		return s.MultiWall
	case EffectShield:
		return s.Shield
	default:
		return false
	}
}

// PowerUp is the store entry for one effect kind.
type PowerUp struct {
	Kind        EffectKind
	Name        string
	Icon        string
	Description string
	Cost        int
	Duration    time.Duration
}

// Catalog indexes store entries by kind.
type Catalog [EffectKindCount]PowerUp

// CatalogFrom converts the YAML power-up section.
func CatalogFrom(cfg config.PowerUpsConfig) Catalog {
	specs := [EffectKindCount]config.PowerUpSpec{
		cfg.SlowMotion, cfg.SpeedBoost, cfg.MultiWall, cfg.Shield,
	}
	var c Catalog
	for _, k := range AllEffects {
		s := specs[k]
		c[k] = PowerUp{
			Kind:        k,
			Name:        s.Name,
			Icon:        s.Icon,
			Description: s.Description,
			Cost:        s.Cost,
			Duration:    s.Duration,
		}
	}
	return c
}

// initialOwned returns the starting inventory configured per kind.
func initialOwned(cfg config.PowerUpsConfig) [EffectKindCount]int {
	return [EffectKindCount]int{
		cfg.SlowMotion.InitialOwned,
		cfg.SpeedBoost.InitialOwned,
		cfg.MultiWall.InitialOwned,
		cfg.Shield.InitialOwned,
	}
}
