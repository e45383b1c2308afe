package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-jezzball/internal/games/jezzball"
	"github.com/vovakirdan/tui-jezzball/internal/storage"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List campaign levels",
	Long: `Shows the campaign levels, their target area and whether they are
unlocked for level select.`,
	Run: runLevels,
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements",
	Long:  `Shows every achievement and marks the ones unlocked in stored runs.`,
	Run:   runAchievements,
}

func runLevels(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	reached := 1
	if store, err := storage.Open(flagDBPath); err == nil {
		if lvl, lvlErr := store.MaxLevel("jezzball"); lvlErr == nil {
			reached = lvl
		}
		store.Close()
	}

	fmt.Println("Campaign levels:")
	fmt.Println()
	fmt.Printf("  %-3s  %-2s  %-20s  %-7s  %-6s  %s\n", "#", "", "Name", "Level", "Target", "")
	fmt.Printf("  %-3s  %-2s  %-20s  %-7s  %-6s  %s\n", "--", "", "----", "-----", "------", "")

	for _, l := range jezzball.Levels() {
		target := jezzball.NewProgression(cfg.Progression, l.Number).TargetArea
		status := ""
		if !jezzball.LevelUnlocked(l.Number, reached) {
			status = "[locked]"
		}
		fmt.Printf("  %-3d  %-2s  %-20s  %-7s  %5.0f%%  %s\n",
			l.Number, l.Arena.Icon(), l.Name, l.Difficulty, target, status)
	}

	fmt.Println()
	fmt.Println("Run 'jezzball play --level <n>' to start at an unlocked level.")
}

func runAchievements(_ *cobra.Command, _ []string) {
	unlocked := map[string]bool{}
	if store, err := storage.Open(flagDBPath); err == nil {
		for _, mode := range []string{"jezzball", "jezzball_endless"} {
			ids, idsErr := store.UnlockedAchievements(mode)
			if idsErr != nil {
				continue
			}
			for _, id := range ids {
				unlocked[id] = true
			}
		}
		store.Close()
	}

	fmt.Println("Achievements:")
	fmt.Println()

	for _, a := range jezzball.Achievements() {
		mark := " "
		if unlocked[a.ID] {
			mark = "x"
		}
		fmt.Printf("  [%s] %s %-14s %-10s %s\n", mark, a.Icon, a.Title, strings.ToUpper(string(a.Rarity)), a.Description)
	}
}
