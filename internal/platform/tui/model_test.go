package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-jezzball/internal/core"
	"github.com/vovakirdan/tui-jezzball/internal/registry"
	"github.com/vovakirdan/tui-jezzball/internal/storage"
)

func step(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	next, _ := m.Update(TickMsg{})
	return next.(Model)
}

func newTestModel(t *testing.T, store *storage.Store) Model {
	t.Helper()
	game, err := registry.Create("jezzball")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	m := NewModel(game, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42}, WithPlayer("tester"))
	m.Init()
	return m
}

func TestModelQuitSavesRun(t *testing.T) {
	store := openStore(t)
	m := newTestModel(t, store)

	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	m = step(t, m, space)
	moves := make([]tea.Msg, 10)
	for i := range moves {
		moves[i] = runeKey('d')
	}
	m = step(t, m, moves...)
	m = step(t, m, space)

	if got := m.game.State().Score; got != 10 {
		t.Fatalf("Score = %d, expected 10", got)
	}

	next, cmd := m.Update(runeKey('q'))
	m = next.(Model)
	if !m.IsQuitting() || cmd == nil {
		t.Fatal("q should quit")
	}

	runs, err := store.RecentRuns("jezzball", 5)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, expected 1", len(runs))
	}
	r := runs[0]
	if r.Player != "tester" || r.Score != 10 || r.WallsBuilt != 1 || r.EndReason != storage.EndQuit {
		t.Errorf("saved run = %+v", r)
	}

	// A second quit does not store the run twice
	m.saveRun(storage.EndQuit)
	if runs, _ := store.RecentRuns("jezzball", 5); len(runs) != 1 {
		t.Errorf("len(runs) after second save = %d, expected 1", len(runs))
	}
}

func TestModelSkipsEmptyRun(t *testing.T) {
	store := openStore(t)
	m := newTestModel(t, store)

	next, _ := m.Update(runeKey('q'))
	if !next.(Model).IsQuitting() {
		t.Fatal("q should quit")
	}
	if runs, _ := store.RecentRuns("jezzball", 5); len(runs) != 0 {
		t.Errorf("len(runs) = %d, expected 0 for a scoreless run", len(runs))
	}
}

func TestModelBackOnlyWhenPaused(t *testing.T) {
	m := newTestModel(t, nil)
	esc := tea.KeyMsg{Type: tea.KeyEsc}

	m = step(t, m, esc)
	if m.BackToMenu() {
		t.Fatal("esc while playing should not leave the game")
	}

	m = step(t, m, runeKey('p'))
	if !m.gameState.Paused {
		t.Fatal("p should pause")
	}
	next, _ := m.Update(esc)
	if !next.(Model).BackToMenu() {
		t.Error("esc while paused should go back to the menu")
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	m := newTestModel(t, nil)
	m = step(t, m)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)
	if m.screen.Width() != 100 || m.screen.Height() != 30 {
		t.Errorf("screen = %dx%d, expected 100x30", m.screen.Width(), m.screen.Height())
	}
	if m.View() == "" {
		t.Error("View() is empty after resize")
	}
}
