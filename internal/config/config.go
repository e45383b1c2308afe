// Package config provides YAML-based game configuration loading and
// difficulty management for the arena.
package config

import (
	"errors"
	"fmt"
	"time"
)

// JezzballConfig contains all configuration for the Jezzball simulation.
type JezzballConfig struct {
	Arena        ArenaConfig        `yaml:"arena"`
	Physics      PhysicsConfig      `yaml:"physics"`
	Walls        WallConfig         `yaml:"walls"`
	Area         AreaConfig         `yaml:"area"`
	Balls        BallsConfig        `yaml:"balls"`
	PowerUps     PowerUpsConfig     `yaml:"powerups"`
	Progression  LevelProgression   `yaml:"progression"`
	Achievements AchievementsConfig `yaml:"achievements"`
	Difficulty   DifficultyConfig   `yaml:"difficulty"`
}

// ArenaConfig defines the arena size in simulation units.
// The playable interior is [Margin, Width-Margin] x [Margin, Height*PlayRatio-Margin].
type ArenaConfig struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Margin    float64 `yaml:"margin"`
	PlayRatio float64 `yaml:"play_ratio"` // Fraction of Height balls may use
	AreaRatio float64 `yaml:"area_ratio"` // Fraction of Height used as the cleared-area denominator
}

// PhysicsConfig defines integrator parameters.
type PhysicsConfig struct {
	SlowMotionMultiplier float64 `yaml:"slow_motion_multiplier"`
	WallHalfThickness    float64 `yaml:"wall_half_thickness"`
	MaxStepScale         float64 `yaml:"max_step_scale"` // Upper bound on dt expressed in nominal frames
}

// WallConfig defines wall construction rules.
type WallConfig struct {
	MinLength    float64   `yaml:"min_length"`
	ScorePerWall int       `yaml:"score_per_wall"`
	MultiOffsets []float64 `yaml:"multi_offsets"` // Normal offsets of the extra multi-wall copies
}

// AreaConfig defines the cleared-area approximation.
type AreaConfig struct {
	MinWallLength float64 `yaml:"min_wall_length"`
	MaxHalfSize   float64 `yaml:"max_half_size"`
}

// BallSpec describes one ball placed at level start.
// Positions are fractions of the arena width and height.
type BallSpec struct {
	XRatio float64 `yaml:"x_ratio"`
	YRatio float64 `yaml:"y_ratio"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
	Radius float64 `yaml:"radius"`
	Tag    string  `yaml:"tag"`
}

// SpawnConfig describes the random ball added on level advance.
type SpawnConfig struct {
	MinXRatio  float64  `yaml:"min_x_ratio"`
	XSpan      float64  `yaml:"x_span"`
	MinYRatio  float64  `yaml:"min_y_ratio"`
	YSpan      float64  `yaml:"y_span"`
	MaxSpeed   float64  `yaml:"max_speed"` // Each velocity component is drawn from [-MaxSpeed, MaxSpeed)
	MinRadius  float64  `yaml:"min_radius"`
	RadiusSpan float64  `yaml:"radius_span"`
	Tags       []string `yaml:"tags"`
}

// BallsConfig groups initial and spawned balls.
type BallsConfig struct {
	Initial []BallSpec  `yaml:"initial"`
	Spawn   SpawnConfig `yaml:"spawn"`
}

// PowerUpSpec defines one purchasable timed effect.
type PowerUpSpec struct {
	Name         string        `yaml:"name"`
	Icon         string        `yaml:"icon"`
	Description  string        `yaml:"description"`
	Cost         int           `yaml:"cost"`
	Duration     time.Duration `yaml:"duration"`
	InitialOwned int           `yaml:"initial_owned"`
}

// PowerUpsConfig holds the four effect kinds and the expiry check period.
type PowerUpsConfig struct {
	SlowMotion    PowerUpSpec   `yaml:"slow_motion"`
	SpeedBoost    PowerUpSpec   `yaml:"speed_boost"`
	MultiWall     PowerUpSpec   `yaml:"multi_wall"`
	Shield        PowerUpSpec   `yaml:"shield"`
	CheckInterval time.Duration `yaml:"check_interval"`
}

// LevelProgression defines level targets and rewards.
type LevelProgression struct {
	StartGems      int     `yaml:"start_gems"`
	StartTarget    float64 `yaml:"start_target"`
	TargetStep     float64 `yaml:"target_step"`
	TargetCap      float64 `yaml:"target_cap"`
	GemsPerLevel   int     `yaml:"gems_per_level"`
	ExtraBallEvery int     `yaml:"extra_ball_every"` // A ball is added when the finished level is a multiple of this
}

// AchievementsConfig holds unlock thresholds.
type AchievementsConfig struct {
	FirstWall    int     `yaml:"first_wall"`
	Level        int     `yaml:"level"`
	WallMaster   int     `yaml:"wall_master"`
	GemCollector int     `yaml:"gem_collector"`
	PerfectClear float64 `yaml:"perfect_clear"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "level" or "none"
	MaxAt int    `yaml:"max_at"` // Level at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to ball speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string to a preset. Unknown values map to "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// InteriorBottom returns the lowest y coordinate balls may reach, before radius.
func (a ArenaConfig) InteriorBottom() float64 {
	return a.Height*a.PlayRatio - a.Margin
}

// Validate reports configuration values the simulation cannot run with.
func (c JezzballConfig) Validate() error {
	var errs []error

	if c.Arena.Width <= 2*c.Arena.Margin || c.Arena.Height <= 0 {
		errs = append(errs, fmt.Errorf("arena %gx%g is too small for margin %g", c.Arena.Width, c.Arena.Height, c.Arena.Margin))
	}
	if c.Arena.PlayRatio <= 0 || c.Arena.PlayRatio > 1 {
		errs = append(errs, fmt.Errorf("arena.play_ratio %g must be in (0, 1]", c.Arena.PlayRatio))
	}
	if c.Arena.AreaRatio <= 0 {
		errs = append(errs, fmt.Errorf("arena.area_ratio %g must be positive", c.Arena.AreaRatio))
	}
	if c.Walls.MinLength <= 0 {
		errs = append(errs, fmt.Errorf("walls.min_length %g must be positive", c.Walls.MinLength))
	}
	if c.Physics.MaxStepScale <= 0 {
		errs = append(errs, fmt.Errorf("physics.max_step_scale %g must be positive", c.Physics.MaxStepScale))
	}
	for i, b := range c.Balls.Initial {
		if b.Radius <= 0 {
			errs = append(errs, fmt.Errorf("balls.initial[%d].radius %g must be positive", i, b.Radius))
		}
	}
	if c.Balls.Spawn.MinRadius <= 0 {
		errs = append(errs, fmt.Errorf("balls.spawn.min_radius %g must be positive", c.Balls.Spawn.MinRadius))
	}
	for _, p := range []PowerUpSpec{c.PowerUps.SlowMotion, c.PowerUps.SpeedBoost, c.PowerUps.MultiWall, c.PowerUps.Shield} {
		if p.Duration <= 0 {
			errs = append(errs, fmt.Errorf("power-up %q duration must be positive", p.Name))
		}
		if p.Cost < 0 || p.InitialOwned < 0 {
			errs = append(errs, fmt.Errorf("power-up %q cost and initial_owned must not be negative", p.Name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid jezzball config: %w", errors.Join(errs...))
	}
	return nil
}
