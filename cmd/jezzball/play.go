package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-jezzball/internal/core"
	"github.com/vovakirdan/tui-jezzball/internal/games/jezzball"
	"github.com/vovakirdan/tui-jezzball/internal/platform/tui"
	"github.com/vovakirdan/tui-jezzball/internal/registry"
	"github.com/vovakirdan/tui-jezzball/internal/storage"
)

var (
	flagLevel   int
	flagEndless bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Jezzball",
	Long: `Start Jezzball with the interactive menu.
With --level the menu is skipped and play starts at that level.
After a game ends, you return to the menu to play again.

Controls:
  Arrows/WASD/HJKL - Move the build cursor
  Space            - Start / finish a wall
  Mouse drag       - Draw a wall
  X                - Cancel the wall in progress
  1-4              - Activate a power-up
  Shift+1-4        - Buy a power-up
  N                - Next level (once the target is reached)
  P                - Pause
  Esc              - Back to menu (while paused)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Start at lowest difficulty, more gems
  normal - Start at 30% difficulty
  hard   - Start at 70% difficulty, fewer gems
  fixed  - No progression, stays at config's initial level

Examples:
  jezzball play
  jezzball play --level 3
  jezzball play --endless --difficulty hard
  jezzball play --config ./my-jezzball.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Skip the menu and start at this campaign level")
	playCmd.Flags().BoolVar(&flagEndless, "endless", false, "Skip the menu and play endless mode")
}

func runPlay(_ *cobra.Command, _ []string) {
	logger, closeLog := newLogger("jezzball", nil)
	defer closeLog()
	jezzball.SetLogger(logger)

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     seed(),
	}

	// Direct start
	if flagLevel > 0 || flagEndless {
		gameID := "jezzball"
		if flagEndless {
			gameID = "jezzball_endless"
		}
		if _, err := playGame(gameID, flagLevel, store, cfg, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return
		}

		if menuResult.GameID == "" {
			return
		}

		// Fresh seed for each game unless one was given
		cfg.Seed = seed()

		backToMenu, err := playGame(menuResult.GameID, menuResult.StartLevel, store, cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			continue
		}
		if !backToMenu {
			return
		}
	}
}

// playGame runs one game and reports whether the player asked to return
// to the menu.
func playGame(gameID string, level int, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) (bool, error) {
	game, err := registry.Create(gameID)
	if err != nil {
		return false, err
	}
	if ls, ok := game.(registry.LevelStarter); ok && level > 0 {
		ls.StartAt(level)
	}

	logger.Info("game started", "game", gameID, "level", level, "seed", cfg.Seed)
	return tui.Run(game, store, cfg, tui.WithModelLogger(logger))
}
