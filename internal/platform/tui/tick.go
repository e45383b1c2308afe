// Package tui provides the Bubble Tea integration for Jezzball.
// It handles the terminal UI loop, input mapping, menus and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-jezzball/internal/registry"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// ExpiryMsg is sent to run the periodic effect expiry check.
type ExpiryMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// expiryCmd schedules the next expiry check for games with timed effects.
// Returns nil for games without them.
func expiryCmd(game registry.Game) tea.Cmd {
	exp, ok := game.(registry.EffectExpirer)
	if !ok {
		return nil
	}
	return tea.Tick(exp.ExpireInterval(), func(t time.Time) tea.Msg {
		return ExpiryMsg(t)
	})
}
