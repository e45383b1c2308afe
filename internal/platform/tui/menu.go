package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-jezzball/internal/core"
	"github.com/vovakirdan/tui-jezzball/internal/games/jezzball"
	"github.com/vovakirdan/tui-jezzball/internal/storage"
)

// Main menu entries.
const (
	menuCampaign = iota
	menuEndless
	menuSelectLevel
	menuScores
	menuQuit
)

var menuItems = []string{
	"Campaign (10 levels)",
	"Endless Mode",
	"Select Level...",
	"High Scores",
	"Quit",
}

// MenuModel is the Bubble Tea model for the main menu and level picker.
type MenuModel struct {
	cursor        int
	levelCursor   int
	inLevelSelect bool
	showControls  bool
	maxReached    int // Highest level reached in stored runs
	width         int
	height        int
	store         *storage.Store
	config        core.RuntimeConfig
	keyMapper     *KeyMapper
	help          help.Model
	quitting      bool
	selected      bool
	result        MenuResult
}

// NewMenuModel creates a new menu model.
// Unlocked levels come from the stored runs when a store is available.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	maxReached := 1
	if store != nil {
		if lvl, err := store.MaxLevel("jezzball"); err == nil {
			maxReached = lvl
		}
	}

	h := help.New()
	h.ShowAll = true

	return MenuModel{
		maxReached: maxReached,
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
		store:      store,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		help:       h,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "?" {
			m.showControls = !m.showControls
			return m, nil
		}
		if msg.String() == "tab" {
			m.result.WantsScoreboard = true
			m.selected = true
			return m, tea.Quit
		}
		action := m.keyMapper.MapKeyToMenuAction(msg)
		if m.inLevelSelect {
			return m.handleLevelSelectKey(action)
		}
		return m.handleMenuKey(action)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleMenuKey processes input on the main entries.
func (m MenuModel) handleMenuKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		switch m.cursor {
		case menuCampaign:
			return m.choose("jezzball", 1)
		case menuEndless:
			return m.choose("jezzball_endless", 1)
		case menuSelectLevel:
			m.inLevelSelect = true
			m.levelCursor = 0
		case menuScores:
			m.result.WantsScoreboard = true
			m.selected = true
			return m, tea.Quit
		case menuQuit:
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m MenuModel) choose(gameID string, level int) (tea.Model, tea.Cmd) {
	m.selected = true
	m.result.GameID = gameID
	m.result.StartLevel = level
	return m, tea.Quit
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	if m.inLevelSelect {
		return m.viewLevelSelect()
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, titleStyle.Render("J E Z Z B A L L")))
	b.WriteString("\n\n")
	b.WriteString(centerText("Split the arena, trap the balls", m.width))
	b.WriteString("\n\n")

	for i, item := range menuItems {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, item), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  ?: Controls  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	if m.showControls {
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keyMapper.Keys))
		b.WriteString("\n")
	}

	return b.String()
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// Selected returns the chosen game and level, or nil if none was chosen.
func (m MenuModel) Selected() *MenuResult {
	if !m.selected || m.result.GameID == "" {
		return nil
	}
	r := m.result
	r.Config = m.config
	return &r
}

// WantsScoreboard returns true if user requested the scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.selected && m.result.WantsScoreboard
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	StartLevel      int
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := m.result
	result.Config = m.Config()
	if m.IsQuitting() || !m.selected {
		result.Quit = true
	}
	return result, nil
}

// levelCount is shown in the picker; endless levels past it are not selectable.
var levelCount = jezzball.LevelCount()
