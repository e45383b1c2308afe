package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/jezzball.yaml
var defaultJezzballYAML []byte

// DefaultJezzballConfig returns the default Jezzball configuration.
// It mirrors defaults/jezzball.yaml and is used when the embedded file
// cannot be parsed.
func DefaultJezzballConfig() JezzballConfig {
	return JezzballConfig{
		Arena: ArenaConfig{
			Width:     390,
			Height:    844,
			Margin:    10,
			PlayRatio: 0.8,
			AreaRatio: 0.6,
		},
		Physics: PhysicsConfig{
			SlowMotionMultiplier: 0.3,
			WallHalfThickness:    2, // Half of the rendered wall thickness
			MaxStepScale:         2,
		},
		Walls: WallConfig{
			MinLength:    20,
			ScorePerWall: 10,
			MultiOffsets: []float64{30, 60},
		},
		Area: AreaConfig{
			MinWallLength: 30,
			MaxHalfSize:   50,
		},
		Balls: BallsConfig{
			Initial: []BallSpec{
				{XRatio: 0.3, YRatio: 0.4, VX: 2, VY: 1.5, Radius: 15, Tag: "#F59E0B"},
				{XRatio: 0.7, YRatio: 0.6, VX: -1.5, VY: 2, Radius: 12, Tag: "#6366F1"},
			},
			Spawn: SpawnConfig{
				MinXRatio:  0.1,
				XSpan:      0.8,
				MinYRatio:  0.3,
				YSpan:      0.4,
				MaxSpeed:   2,
				MinRadius:  10,
				RadiusSpan: 8,
				Tags:       []string{"#F59E0B", "#6366F1"},
			},
		},
		PowerUps: PowerUpsConfig{
			CheckInterval: 100 * time.Millisecond,
			SlowMotion: PowerUpSpec{
				Name: "Slow Motion", Icon: "⏰", Cost: 25, Duration: 10 * time.Second,
				Description: "Slows down all balls for 10 seconds",
			},
			SpeedBoost: PowerUpSpec{
				Name: "Speed Boost", Icon: "⚡", Cost: 20, Duration: 15 * time.Second,
				Description: "Build walls 2x faster for 15 seconds",
			},
			MultiWall: PowerUpSpec{
				Name: "Multi-Wall", Icon: "🧱", Cost: 35, Duration: 20 * time.Second,
				Description: "Build multiple walls simultaneously",
			},
			Shield: PowerUpSpec{
				Name: "Shield", Icon: "🛡", Cost: 30, Duration: 25 * time.Second,
				Description: "Protects walls from ball destruction",
			},
		},
		Progression: LevelProgression{
			StartGems:      100,
			StartTarget:    75,
			TargetStep:     5,
			TargetCap:      90,
			GemsPerLevel:   50,
			ExtraBallEvery: 2,
		},
		Achievements: AchievementsConfig{
			FirstWall:    1,
			Level:        5,
			WallMaster:   100,
			GemCollector: 1000,
			PerfectClear: 100,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "level",
				MaxAt: 10,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "jezzball", "jezzball_endless":
		return defaultJezzballYAML
	default:
		return nil
	}
}
