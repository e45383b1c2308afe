package storage

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadRun(t *testing.T) {
	store := openTestStore(t)

	run := RunResult{
		RunID:        "RUN1",
		GameID:       "jezzball",
		Player:       "alice",
		Score:        340,
		Level:        4,
		WallsBuilt:   34,
		GemsEarned:   250,
		Achievements: []string{"first_wall", "perfect_clear"},
		EndReason:    EndQuit,
		Duration:     95,
	}
	if _, err := store.SaveRun(run); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	got, err := store.RunByID("RUN1")
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("RunByID() returned nil")
	}
	if got.Score != 340 || got.Level != 4 || got.WallsBuilt != 34 || got.GemsEarned != 250 {
		t.Errorf("RunByID() = %+v", got)
	}
	if got.Player != "alice" || got.EndReason != EndQuit || got.Duration != 95 {
		t.Errorf("RunByID() = %+v", got)
	}
	if len(got.Achievements) != 2 || got.Achievements[1] != "perfect_clear" {
		t.Errorf("Achievements = %v, expected [first_wall perfect_clear]", got.Achievements)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	missing, err := store.RunByID("NOPE")
	if err != nil || missing != nil {
		t.Errorf("RunByID(missing) = %v, %v, expected nil, nil", missing, err)
	}
}

func TestSaveRunDefaults(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveRun(RunResult{GameID: "jezzball", EndReason: EndTimeout}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	runs, err := store.RecentRuns("jezzball", 5)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if len(runs[0].RunID) != 10 {
		t.Errorf("generated RunID = %q, expected 10 chars", runs[0].RunID)
	}
	if runs[0].Level != 1 {
		t.Errorf("Level = %d, expected 1", runs[0].Level)
	}
	if runs[0].Achievements != nil {
		t.Errorf("Achievements = %v, expected nil", runs[0].Achievements)
	}

	// Duplicate run IDs are rejected
	if _, err := store.SaveRun(RunResult{RunID: runs[0].RunID, GameID: "jezzball", EndReason: EndQuit}); err == nil {
		t.Error("expected error for duplicate run ID")
	}
}

func TestRecentAndPlayerRuns(t *testing.T) {
	store := openTestStore(t)

	for i, p := range []string{"alice", "bob", "alice", "alice"} {
		game := "jezzball"
		if i == 3 {
			game = "jezzball_endless"
		}
		if _, err := store.SaveRun(RunResult{GameID: game, Player: p, Score: (i + 1) * 10, EndReason: EndQuit}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	recent, err := store.RecentRuns("jezzball", 2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent runs, got %d", len(recent))
	}
	// Newest first
	if recent[0].Score != 30 || recent[1].Score != 20 {
		t.Errorf("RecentRuns() scores = %d, %d, expected 30, 20", recent[0].Score, recent[1].Score)
	}

	top, err := store.TopRuns("jezzball", 0)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 || top[0].Score != 30 || top[2].Score != 10 {
		t.Errorf("TopRuns() = %+v, expected scores 30, 20, 10", top)
	}

	alice, err := store.PlayerRuns("alice", 0)
	if err != nil {
		t.Fatalf("PlayerRuns() failed: %v", err)
	}
	if len(alice) != 3 {
		t.Errorf("expected 3 runs for alice, got %d", len(alice))
	}
}

func TestMaxLevel(t *testing.T) {
	store := openTestStore(t)

	level, err := store.MaxLevel("jezzball")
	if err != nil {
		t.Fatalf("MaxLevel() failed: %v", err)
	}
	if level != 1 {
		t.Errorf("MaxLevel() with no runs = %d, expected 1", level)
	}

	for _, l := range []int{3, 7, 5} {
		store.SaveRun(RunResult{GameID: "jezzball", Level: l, EndReason: EndQuit})
	}
	store.SaveRun(RunResult{GameID: "jezzball_endless", Level: 12, EndReason: EndQuit})

	level, err = store.MaxLevel("jezzball")
	if err != nil {
		t.Fatalf("MaxLevel() failed: %v", err)
	}
	if level != 7 {
		t.Errorf("MaxLevel() = %d, expected 7", level)
	}
}

func TestUnlockedAchievements(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunResult{GameID: "jezzball", Achievements: []string{"first_wall"}, EndReason: EndQuit})
	store.SaveRun(RunResult{GameID: "jezzball", EndReason: EndQuit})
	store.SaveRun(RunResult{GameID: "jezzball", Achievements: []string{"first_wall", "level_5"}, EndReason: EndWin})

	ids, err := store.UnlockedAchievements("jezzball")
	if err != nil {
		t.Fatalf("UnlockedAchievements() failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "first_wall" || ids[1] != "level_5" {
		t.Errorf("UnlockedAchievements() = %v, expected [first_wall level_5]", ids)
	}
}
