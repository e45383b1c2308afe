package jezzball

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-jezzball/internal/core"
)

// Visual characters
const (
	CharBall       = '●'
	CharCursor     = '+'
	CharPreview    = '·'
	CharWallH      = '─'
	CharWallV      = '│'
	CharWallDiagUp = '╱'
	CharWallDiagDn = '╲'
	CharBarFull    = '█'
	CharBarEmpty   = '░'
)

// Render draws the current game state to the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.screenTooSmall {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", g.minScreenW, g.minScreenH)
		dst.DrawTextCentered(dst.Height()/2-1, msg)
		dst.DrawTextCentered(dst.Height()/2+1, hint)
		return
	}

	s := g.session.Load()

	g.renderHUD(dst, s)

	dst.DrawBox(g.field)

	g.renderWalls(dst, s)
	g.renderPreview(dst, s)
	g.renderBalls(dst, s)
	g.renderCursor(dst)

	g.renderFooter(dst, s)
	g.renderOverlay(dst, s)
}

// renderHUD draws score, level and area progress on the two top rows.
func (g *Game) renderHUD(dst *core.Screen, s *Session) {
	p := s.Progress()
	info := LevelByNumber(p.Level)

	dst.DrawText(1, 0, fmt.Sprintf("Score: %d", p.Score))

	var levelText string
	if g.mode == ModeEndless {
		levelText = fmt.Sprintf("Level %d", p.Level)
	} else {
		levelText = fmt.Sprintf("Level %d/%d", p.Level, LevelCount())
	}
	title := fmt.Sprintf("%s  %s %s", levelText, info.Arena.Icon(), info.Name)
	dst.DrawTextColored((dst.Width()-len([]rune(title)))/2, 0, title, core.ColorBrightWhite)

	gems := fmt.Sprintf("Gems: %d", p.Gems)
	dst.DrawTextColored(dst.Width()-len(gems)-1, 0, gems, core.ColorBrightMagenta)

	// Area bar: filled portion is the cleared percentage, the marker is the target
	label := fmt.Sprintf("Area %5.1f%% / %.0f%% ", p.ClearedPct, p.TargetArea)
	dst.DrawText(1, 1, label)

	barX := 1 + len(label)
	barW := dst.Width() - barX - 2
	if barW < 4 {
		return
	}
	filled := int(math.Round(p.ClearedPct / 100 * float64(barW)))
	target := core.Clamp(int(math.Round(p.TargetArea/100*float64(barW))), 0, barW-1)
	barColor := core.ColorYellow
	if p.LevelComplete() {
		barColor = core.ColorBrightGreen
	}
	for i := 0; i < barW; i++ {
		switch {
		case i < filled:
			dst.SetColored(barX+i, 1, CharBarFull, barColor)
		case i == target:
			dst.SetColored(barX+i, 1, '|', core.ColorBrightWhite)
		default:
			dst.SetColored(barX+i, 1, CharBarEmpty, core.ColorGray)
		}
	}
}

func (g *Game) renderWalls(dst *core.Screen, s *Session) {
	for _, w := range s.Walls() {
		x0, y0 := g.arenaToCell(w.Start)
		x1, y1 := g.arenaToCell(w.End)
		color := core.ColorBrightWhite
		if w.Shielded {
			color = core.ColorBrightCyan
		}
		dst.DrawLine(x0, y0, x1, y1, wallRune(w.Orientation()), color)
	}
}

// wallRune picks a line character for a wall angle in radians.
// Screen and arena y both grow downward.
func wallRune(angle float64) rune {
	a := math.Mod(math.Abs(angle), math.Pi)
	switch {
	case a < math.Pi/8 || a > 7*math.Pi/8:
		return CharWallH
	case a > 3*math.Pi/8 && a < 5*math.Pi/8:
		return CharWallV
	case (angle > 0) == (a < math.Pi/2):
		return CharWallDiagDn
	default:
		return CharWallDiagUp
	}
}

func (g *Game) renderPreview(dst *core.Screen, s *Session) {
	start, end, ok := s.BuildPreview()
	if !ok {
		return
	}
	x0, y0 := g.arenaToCell(start)
	x1, y1 := g.arenaToCell(end)
	dst.DrawLine(x0, y0, x1, y1, CharPreview, core.ColorBrightYellow)
}

// renderBalls fills every cell whose centre lies inside a ball.
// Balls smaller than a cell still occupy their centre cell.
func (g *Game) renderBalls(dst *core.Screen, s *Session) {
	for _, b := range s.Balls() {
		color := tagColor(b.Tag)
		cx, cy := g.arenaToCell(b.Position)
		dst.SetColored(cx, cy, CharBall, color)

		minX, minY := g.arenaToCell(b.Position.Sub(core.V(b.Radius, b.Radius)))
		maxX, maxY := g.arenaToCell(b.Position.Add(core.V(b.Radius, b.Radius)))
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				if core.Distance(g.cellToArena(x, y), b.Position) <= b.Radius {
					dst.SetColored(x, y, CharBall, color)
				}
			}
		}
	}
}

func (g *Game) renderCursor(dst *core.Screen) {
	color := core.ColorWhite
	if g.building {
		color = core.ColorBrightYellow
	}
	dst.SetColored(g.cursorX, g.cursorY, CharCursor, color)
}

// renderFooter draws effects, the store and the status line.
func (g *Game) renderFooter(dst *core.Screen, s *Session) {
	h := dst.Height()
	fx := s.Effects()
	now := s.Now()
	catalog := s.Catalog()

	// Effects row: [1] SLO x2 12s
	x := 1
	for _, k := range AllEffects {
		e := fx.Effects[k]
		text := fmt.Sprintf("[%d] %s x%d", int(k)+1, k.Short(), fx.Owned[k])
		color := core.ColorGray
		if e.Active {
			text += fmt.Sprintf(" %ds", int(math.Ceil(e.Remaining(now).Seconds())))
			color = core.ColorBrightCyan
		} else if fx.Owned[k] > 0 {
			color = core.ColorWhite
		}
		dst.DrawTextColored(x, h-3, text, color)
		x += len(text) + 2
	}

	// Store row
	var store strings.Builder
	store.WriteString("Buy:")
	for i, k := range AllEffects {
		fmt.Fprintf(&store, " %c %s %dg", buyKeys[i], catalog[k].Name, catalog[k].Cost)
	}
	dst.DrawTextColored(1, h-2, store.String(), core.ColorMagenta)

	// Status line: latest notice, otherwise key help
	if g.messageLeft > 0 && g.message != "" {
		dst.DrawTextColored(1, h-1, g.message, g.messageColor)
		return
	}
	help := "Arrows move  SPACE wall  X cancel  1-4 use  P pause  Q quit"
	if g.state == StateLevelComplete {
		help = "Target reached! N next level  SPACE keep building  Q quit"
	}
	dst.DrawTextColored(1, h-1, help, core.ColorGray)
}

var buyKeys = [EffectKindCount]rune{'!', '@', '#', '$'}

// renderOverlay draws state-specific overlays (level complete, pause, win).
func (g *Game) renderOverlay(dst *core.Screen, s *Session) {
	p := s.Progress()
	switch g.state {
	case StatePaused:
		g.drawCenteredBox(dst, "PAUSED", "Press P to resume")

	case StateLevelComplete:
		var subtitle string
		if g.mode == ModeCampaign && p.Level >= LevelCount() {
			subtitle = fmt.Sprintf("Area %.1f%%  |  Press N to finish", p.ClearedPct)
		} else {
			subtitle = fmt.Sprintf("Area %.1f%%  |  Press N for level %d", p.ClearedPct, p.Level+1)
		}
		g.drawCenteredBox(dst, "LEVEL COMPLETE", subtitle)

	case StateWin:
		subtitle := fmt.Sprintf("Final Score: %d  |  Press R to restart", p.Score)
		g.drawCenteredBox(dst, "ARENA CONQUERED!", subtitle)
	}
}

// drawCenteredBox draws a centered message box.
func (g *Game) drawCenteredBox(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	titleX := boxX + (boxW-len(title))/2
	dst.DrawText(titleX, boxY+1, title)

	subtitleX := boxX + (boxW-len(subtitle))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}

// tagColor maps a ball's hex colour tag onto the terminal palette.
func tagColor(tag string) core.Color {
	return core.NearestColor(tag)
}

func rarityColor(r Rarity) core.Color {
	switch r {
	case RarityRare:
		return core.ColorBrightBlue
	case RarityEpic:
		return core.ColorBrightMagenta
	case RarityLegendary:
		return core.ColorBrightYellow
	default:
		return core.ColorBrightGreen
	}
}
