package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-jezzball/internal/games/jezzball"
)

// handleLevelSelectKey processes input in the level picker.
// Locked levels cannot be chosen.
func (m MenuModel) handleLevelSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case MenuActionDown:
		if m.levelCursor < levelCount-1 {
			m.levelCursor++
		}
	case MenuActionSelect:
		level := m.levelCursor + 1 // 1-indexed
		if !jezzball.LevelUnlocked(level, m.maxReached) {
			return m, nil
		}
		return m.choose("jezzball", level)
	case MenuActionBack:
		m.inLevelSelect = false
	}

	return m, nil
}

func (m MenuModel) viewLevelSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("SELECT LEVEL", m.width))
	b.WriteString("\n\n")

	for _, info := range jezzball.Levels() {
		cursor := "  "
		if info.Number-1 == m.levelCursor {
			cursor = "> "
		}

		lock := "  "
		if !jezzball.LevelUnlocked(info.Number, m.maxReached) {
			lock = "[locked]"
		}

		line := fmt.Sprintf("%s%2d. %s %-16s %-7s %s", cursor, info.Number, info.Arena.Icon(), info.Name, info.Difficulty, lock)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}
