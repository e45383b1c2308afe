package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadJezzball loads Jezzball configuration.
// Search order: customPath -> ~/.jezzball/configs/jezzball.yaml -> ./configs/jezzball.yaml -> embedded default
func LoadJezzball(customPath string) (JezzballConfig, error) {
	// Start from defaults so partial files only override what they set
	cfg := DefaultJezzballConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("jezzball.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, cfg.Validate()
			}
			cfg = DefaultJezzballConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "jezzball.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, cfg.Validate()
		}
		cfg = DefaultJezzballConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultJezzballYAML, &cfg); err != nil {
		return DefaultJezzballConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".jezzball", "configs", filename)
}

// ApplyJezzballPreset modifies the config based on a difficulty preset.
func ApplyJezzballPreset(cfg *JezzballConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust the economy based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Progression.StartGems = 150
		cfg.Progression.GemsPerLevel = 75
	case DifficultyHard:
		cfg.Progression.StartGems = 50
		cfg.Progression.GemsPerLevel = 40
	}
}
