package jezzball

import (
	"math"

	"github.com/vovakirdan/tui-jezzball/internal/config"
)

// Progression tracks level, score and currency for one session.
type Progression struct {
	Level      int
	StartLevel int // Level the run began at
	Score      int
	Gems       int
	ClearedPct float64
	TargetArea float64
	WallsBuilt int      // Cumulative across levels
	GemsEarned int      // Cumulative credits, including the starting grant
	Unlocked   []string // Achievement IDs in unlock order
}

// NewProgression returns the state at the start of the given level.
// Starting above level 1 applies the target increments that earlier
// levels would have.
func NewProgression(cfg config.LevelProgression, level int) Progression {
	if level < 1 {
		level = 1
	}
	target := math.Min(cfg.TargetCap, cfg.StartTarget+cfg.TargetStep*float64(level-1))
	return Progression{
		Level:      level,
		StartLevel: level,
		Gems:       cfg.StartGems,
		GemsEarned: cfg.StartGems,
		TargetArea: target,
	}
}

// LevelComplete reports whether the cleared area has reached the target.
func (p *Progression) LevelComplete() bool {
	return p.ClearedPct >= p.TargetArea
}

// Advance moves to the next level and returns the gems awarded.
func (p *Progression) Advance(cfg config.LevelProgression) int {
	p.Level++
	p.ClearedPct = 0
	p.TargetArea = math.Min(cfg.TargetCap, p.TargetArea+cfg.TargetStep)
	p.Gems += cfg.GemsPerLevel
	p.GemsEarned += cfg.GemsPerLevel
	return cfg.GemsPerLevel
}

// Spend deducts cost when the balance allows it.
func (p *Progression) Spend(cost int) bool {
	if cost < 0 || p.Gems < cost {
		return false
	}
	p.Gems -= cost
	return true
}

// HasUnlocked reports whether an achievement ID is already unlocked.
func (p *Progression) HasUnlocked(id string) bool {
	for _, u := range p.Unlocked {
		if u == id {
			return true
		}
	}
	return false
}

// Rarity grades an achievement.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Achievement is a one-time unlock.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Rarity      Rarity

	met func(p *Progression, t config.AchievementsConfig) bool
}

var achievements = []Achievement{
	{
		ID: "first_wall", Title: "First Wall", Icon: "🧱", Rarity: RarityCommon,
		Description: "Build your first wall",
		met: func(p *Progression, t config.AchievementsConfig) bool {
			return p.WallsBuilt >= t.FirstWall
		},
	},
	{
		ID: "level_5", Title: "Rising Star", Icon: "⭐", Rarity: RarityRare,
		Description: "Reach level 5",
		// Runs started at or past the threshold never reached it.
		met: func(p *Progression, t config.AchievementsConfig) bool {
			return p.Level >= t.Level && p.StartLevel < t.Level
		},
	},
	{
		ID: "wall_master", Title: "Wall Master", Icon: "🏗", Rarity: RarityEpic,
		Description: "Build 100 walls",
		met: func(p *Progression, t config.AchievementsConfig) bool {
			return p.WallsBuilt >= t.WallMaster
		},
	},
	{
		ID: "gem_collector", Title: "Gem Collector", Icon: "💎", Rarity: RarityEpic,
		Description: "Earn 1000 gems",
		met: func(p *Progression, t config.AchievementsConfig) bool {
			return p.GemsEarned >= t.GemCollector
		},
	},
	{
		ID: "perfect_clear", Title: "Perfect Clear", Icon: "🏆", Rarity: RarityLegendary,
		Description: "Clear 100% of the arena",
		met: func(p *Progression, t config.AchievementsConfig) bool {
			return p.ClearedPct >= t.PerfectClear
		},
	},
}

// Achievements returns the achievement catalog.
func Achievements() []Achievement {
	return append([]Achievement(nil), achievements...)
}

// AchievementByID looks up a catalog entry.
func AchievementByID(id string) (Achievement, bool) {
	for _, a := range achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// EvaluateAchievements unlocks every achievement whose condition now holds
// and returns the new ones. Already unlocked IDs are never returned again.
func EvaluateAchievements(p *Progression, thresholds config.AchievementsConfig) []Achievement {
	var unlocked []Achievement
	for _, a := range achievements {
		if p.HasUnlocked(a.ID) || !a.met(p, thresholds) {
			continue
		}
		p.Unlocked = append(p.Unlocked, a.ID)
		unlocked = append(unlocked, a)
	}
	return unlocked
}
