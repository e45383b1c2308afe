package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-jezzball/internal/core"
)

func TestRenderScreenPlainText(t *testing.T) {
	// Test output is not a terminal, so lipgloss renders without escapes
	s := core.NewScreen(6, 2)
	s.DrawTextColored(0, 0, "ab", core.ColorOrange)
	s.DrawTextColored(2, 0, "cd", core.ColorBrightBlue)
	s.DrawText(0, 1, "xyz")

	got := RenderScreen(s)
	expected := "abcd  \nxyz   "
	if got != expected {
		t.Errorf("RenderScreen() = %q, expected %q", got, expected)
	}
}

func TestColorStylesCoverPalette(t *testing.T) {
	for _, c := range core.Colors() {
		if _, ok := colorStyles[c]; !ok {
			t.Errorf("no style for color %d", c)
		}
	}
	if strings.Contains(RenderScreen(core.NewScreen(0, 0)), "\n") {
		t.Error("empty screen rendered a newline")
	}
}
