package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	var fromYAML JezzballConfig
	if err := yaml.Unmarshal(GetDefaultYAML("jezzball"), &fromYAML); err != nil {
		t.Fatalf("embedded default YAML does not parse: %v", err)
	}
	def := DefaultJezzballConfig()

	if fromYAML.Arena != def.Arena {
		t.Errorf("Arena = %+v, expected %+v", fromYAML.Arena, def.Arena)
	}
	if fromYAML.Physics != def.Physics {
		t.Errorf("Physics = %+v, expected %+v", fromYAML.Physics, def.Physics)
	}
	if fromYAML.Progression != def.Progression {
		t.Errorf("Progression = %+v, expected %+v", fromYAML.Progression, def.Progression)
	}
	if fromYAML.Achievements != def.Achievements {
		t.Errorf("Achievements = %+v, expected %+v", fromYAML.Achievements, def.Achievements)
	}
	if fromYAML.PowerUps.Shield.Duration != 25*time.Second {
		t.Errorf("Shield duration = %v, expected 25s", fromYAML.PowerUps.Shield.Duration)
	}
	if fromYAML.PowerUps.CheckInterval != 100*time.Millisecond {
		t.Errorf("CheckInterval = %v, expected 100ms", fromYAML.PowerUps.CheckInterval)
	}
	if len(fromYAML.Balls.Initial) != 2 {
		t.Errorf("expected 2 initial balls, got %d", len(fromYAML.Balls.Initial))
	}
	if err := fromYAML.Validate(); err != nil {
		t.Errorf("embedded default should validate: %v", err)
	}
}

func TestLoadJezzballCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte(`
arena:
  width: 500
progression:
  start_gems: 999
powerups:
  shield:
    duration: 3s
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadJezzball(path)
	if err != nil {
		t.Fatalf("LoadJezzball() failed: %v", err)
	}

	if cfg.Arena.Width != 500 {
		t.Errorf("Arena.Width = %g, expected 500", cfg.Arena.Width)
	}
	// Unset fields keep their defaults
	if cfg.Arena.Height != 844 {
		t.Errorf("Arena.Height = %g, expected default 844", cfg.Arena.Height)
	}
	if cfg.Progression.StartGems != 999 {
		t.Errorf("StartGems = %d, expected 999", cfg.Progression.StartGems)
	}
	if cfg.PowerUps.Shield.Duration != 3*time.Second {
		t.Errorf("Shield.Duration = %v, expected 3s", cfg.PowerUps.Shield.Duration)
	}
	if cfg.PowerUps.Shield.Cost != 30 {
		t.Errorf("Shield.Cost = %d, expected default 30", cfg.PowerUps.Shield.Cost)
	}
}

func TestLoadJezzballErrors(t *testing.T) {
	if _, err := LoadJezzball(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("arena: [not, a, map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadJezzball(bad); err == nil {
		t.Error("expected parse error for malformed YAML")
	}

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("arena:\n  width: 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadJezzball(invalid)
	if err == nil {
		t.Fatal("expected validation error for tiny arena")
	}
	if !strings.Contains(err.Error(), "too small") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*JezzballConfig)
		valid  bool
	}{
		{"defaults", func(*JezzballConfig) {}, true},
		{"zero radius", func(c *JezzballConfig) { c.Balls.Initial[0].Radius = 0 }, false},
		{"zero duration", func(c *JezzballConfig) { c.PowerUps.SlowMotion.Duration = 0 }, false},
		{"negative cost", func(c *JezzballConfig) { c.PowerUps.Shield.Cost = -1 }, false},
		{"bad play ratio", func(c *JezzballConfig) { c.Arena.PlayRatio = 1.5 }, false},
		{"zero min length", func(c *JezzballConfig) { c.Walls.MinLength = 0 }, false},
		{"zero step scale", func(c *JezzballConfig) { c.Physics.MaxStepScale = 0 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultJezzballConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tc.valid {
				t.Errorf("Validate() = %v, expected valid=%v", err, tc.valid)
			}
		})
	}
}

func TestApplyJezzballPreset(t *testing.T) {
	cfg := DefaultJezzballConfig()
	ApplyJezzballPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	cfg = DefaultJezzballConfig()
	ApplyJezzballPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset difficulty = %+v", cfg.Difficulty)
	}
	if cfg.Progression.StartGems != 50 {
		t.Errorf("hard preset StartGems = %d, expected 50", cfg.Progression.StartGems)
	}

	cfg = DefaultJezzballConfig()
	ApplyJezzballPreset(&cfg, DifficultyEasy)
	if cfg.Progression.StartGems != 150 {
		t.Errorf("easy preset StartGems = %d, expected 150", cfg.Progression.StartGems)
	}
}

func TestParsePreset(t *testing.T) {
	tests := map[string]DifficultyPreset{
		"easy":   DifficultyEasy,
		"normal": DifficultyNormal,
		"hard":   DifficultyHard,
		"fixed":  DifficultyFixed,
		"":       "",
		"brutal": "",
	}
	for in, expected := range tests {
		if got := ParsePreset(in); got != expected {
			t.Errorf("ParsePreset(%q) = %q, expected %q", in, got, expected)
		}
	}
}

func TestDifficultyManager(t *testing.T) {
	cfg := DefaultJezzballConfig().Difficulty
	dm := NewDifficultyManager(cfg)

	if got := dm.Level(1); got != 0 {
		t.Errorf("Level(1) = %f, expected 0", got)
	}
	if got := dm.Level(10); got != 1 {
		t.Errorf("Level(10) = %f, expected 1", got)
	}
	if got := dm.Level(50); got != 1 {
		t.Errorf("Level(50) should clamp to 1, got %f", got)
	}
	if got := dm.SpeedFactor(1); got != 1 {
		t.Errorf("SpeedFactor(1) = %f, expected 1", got)
	}
	if got := dm.SpeedFactor(10); got != 1.5 {
		t.Errorf("SpeedFactor(10) = %f, expected 1.5", got)
	}

	dm.SetInitialLevel(0.3)
	if got := dm.Level(1); got != 0.3 {
		t.Errorf("Level(1) with initial 0.3 = %f", got)
	}

	dm.SetEnabled(false)
	if dm.IsEnabled() {
		t.Error("IsEnabled() should be false after SetEnabled(false)")
	}
	if got := dm.Level(10); got != 0.3 {
		t.Errorf("disabled Level(10) = %f, expected initial 0.3", got)
	}
}
