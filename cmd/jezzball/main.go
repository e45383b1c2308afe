// jezzball is a terminal Jezzball: build walls to trap bouncing balls and
// conquer the arena.
//
// Usage:
//
//	jezzball play            - Start the menu (campaign, endless, level select)
//	jezzball levels          - List campaign levels
//	jezzball achievements    - List achievements and the ones you unlocked
//	jezzball scores          - Show the best runs
//	jezzball simulate        - Let the autoplay bot run a headless session
//	jezzball serve           - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.jezzball/scores.db)
//	--config <path>       - Use a custom jezzball.yaml
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-jezzball/internal/config"
	"github.com/vovakirdan/tui-jezzball/internal/games/jezzball"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jezzball",
	Short: "Jezzball - Trap the balls, conquer the arena",
	Long: `Jezzball is a terminal remake of the classic wall-building game.
Draw walls across the arena, keep the balls out of the squares you claim
and clear enough of the field to reach the next level.

Available commands:
  play          - Interactive menu and game
  levels        - Show the campaign levels
  achievements  - Show achievements
  scores        - View the best runs
  simulate      - Run the autoplay bot without a terminal
  serve         - Start SSH server for remote play

Examples:
  jezzball play
  jezzball play --difficulty hard
  jezzball simulate --ticks 6000 --serve :8080
  jezzball serve --ssh :2222
  jezzball scores`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		jezzball.SetConfigPath(flagConfig)
		jezzball.SetDifficultyPreset(flagDifficulty)
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.jezzball/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom jezzball.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the terminal UI logs nowhere otherwise)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the process logger. With fallback == nil and no
// --log-file, logs are discarded.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, func()) {
	w := fallback
	closer := func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		} else {
			w = f
			closer = func() { f.Close() }
		}
	}
	if w == nil {
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger, closer
}

// seed returns the --seed value, or a time-based one when unset.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// loadConfig loads the game config and applies the difficulty preset.
func loadConfig() (config.JezzballConfig, error) {
	cfg, err := config.LoadJezzball(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDifficulty != "" {
		config.ApplyJezzballPreset(&cfg, config.ParsePreset(flagDifficulty))
	}
	return cfg, nil
}
