package jezzball

import (
	"testing"

	"github.com/vovakirdan/tui-jezzball/internal/config"
)

func TestNewProgression(t *testing.T) {
	cfg := config.DefaultJezzballConfig().Progression

	tests := []struct {
		level  int
		target float64
	}{
		{1, 75},
		{0, 75},
		{2, 80},
		{4, 90},
		{9, 90},
	}

	for _, tc := range tests {
		p := NewProgression(cfg, tc.level)
		if p.TargetArea != tc.target {
			t.Errorf("NewProgression(%d).TargetArea = %g, expected %g", tc.level, p.TargetArea, tc.target)
		}
		if p.Gems != 100 || p.GemsEarned != 100 {
			t.Errorf("NewProgression(%d) gems = %d/%d, expected 100/100", tc.level, p.Gems, p.GemsEarned)
		}
	}
}

func TestProgressionAdvance(t *testing.T) {
	cfg := config.DefaultJezzballConfig().Progression
	p := NewProgression(cfg, 1)
	p.ClearedPct = 80

	if got := p.Advance(cfg); got != 50 {
		t.Errorf("Advance() = %d, expected 50", got)
	}
	if p.Level != 2 || p.TargetArea != 80 || p.Gems != 150 || p.GemsEarned != 150 || p.ClearedPct != 0 {
		t.Errorf("after Advance() = %+v", p)
	}

	for range 5 {
		p.Advance(cfg)
	}
	if p.TargetArea != 90 {
		t.Errorf("TargetArea = %g, expected cap 90", p.TargetArea)
	}
}

func TestProgressionSpend(t *testing.T) {
	p := Progression{Gems: 30}

	if !p.Spend(30) || p.Gems != 0 {
		t.Errorf("Spend(30) with 30 gems: gems = %d", p.Gems)
	}
	if p.Spend(1) {
		t.Error("Spend(1) with 0 gems should fail")
	}
	if p.Spend(-5) {
		t.Error("Spend() with negative cost should fail")
	}
	if p.Gems != 0 {
		t.Errorf("failed Spend() changed gems to %d", p.Gems)
	}
}

func TestEvaluateAchievementsOnce(t *testing.T) {
	thresholds := config.DefaultJezzballConfig().Achievements
	p := Progression{Level: 1}

	if got := EvaluateAchievements(&p, thresholds); len(got) != 0 {
		t.Errorf("EvaluateAchievements() = %v, expected none", got)
	}

	p.WallsBuilt = 1
	got := EvaluateAchievements(&p, thresholds)
	if len(got) != 1 || got[0].ID != "first_wall" {
		t.Fatalf("EvaluateAchievements() = %v, expected first_wall", got)
	}

	p.WallsBuilt = 50
	if got := EvaluateAchievements(&p, thresholds); len(got) != 0 {
		t.Errorf("EvaluateAchievements() repeated unlock: %v", got)
	}
}

func TestEvaluateAchievementsThresholds(t *testing.T) {
	thresholds := config.DefaultJezzballConfig().Achievements

	tests := []struct {
		id   string
		p    Progression
		want bool
	}{
		{"level_5", Progression{Level: 4}, false},
		{"level_5", Progression{Level: 5}, true},
		{"level_5", Progression{Level: 5, StartLevel: 5}, false},
		{"level_5", Progression{Level: 6, StartLevel: 4}, true},
		{"wall_master", Progression{WallsBuilt: 99}, false},
		{"wall_master", Progression{WallsBuilt: 100}, true},
		{"gem_collector", Progression{GemsEarned: 999}, false},
		{"gem_collector", Progression{GemsEarned: 1000}, true},
		{"perfect_clear", Progression{ClearedPct: 99.9}, false},
		{"perfect_clear", Progression{ClearedPct: 100}, true},
	}

	for _, tc := range tests {
		p := tc.p
		EvaluateAchievements(&p, thresholds)
		if got := p.HasUnlocked(tc.id); got != tc.want {
			t.Errorf("%s with %+v unlocked = %v, expected %v", tc.id, tc.p, got, tc.want)
		}
	}
}

func TestAchievementCatalog(t *testing.T) {
	list := Achievements()
	if len(list) != 5 {
		t.Fatalf("Achievements() = %d entries, expected 5", len(list))
	}
	a, ok := AchievementByID("perfect_clear")
	if !ok || a.Rarity != RarityLegendary {
		t.Errorf("AchievementByID(perfect_clear) = %+v, %v", a, ok)
	}
	if _, ok := AchievementByID("nope"); ok {
		t.Error("AchievementByID() should miss unknown IDs")
	}
}

func TestLevelTable(t *testing.T) {
	if LevelCount() != 10 {
		t.Errorf("LevelCount() = %d, expected 10", LevelCount())
	}
	if info := LevelByNumber(1); info.Name != "First Steps" || info.Arena != ArenaCube {
		t.Errorf("LevelByNumber(1) = %+v", info)
	}
	if info := LevelByNumber(14); info.Number != 14 {
		t.Errorf("LevelByNumber(14).Number = %d", info.Number)
	}
	if !LevelUnlocked(4, 1) || LevelUnlocked(5, 1) || !LevelUnlocked(7, 7) || LevelUnlocked(11, 20) {
		t.Error("LevelUnlocked() returned unexpected results")
	}
}
