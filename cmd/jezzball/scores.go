package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-jezzball/internal/registry"
	"github.com/vovakirdan/tui-jezzball/internal/storage"
)

var (
	flagScoresMode   string
	flagScoresPlayer string
	flagScoresLimit  int
	flagScoresStats  bool
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best runs",
	Long: `Display the best runs for a mode, or the recent runs of one player.

Examples:
  jezzball scores
  jezzball scores --mode jezzball_endless
  jezzball scores --player alice
  jezzball scores --stats
  jezzball scores --mode jezzball_endless --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresMode, "mode", "jezzball", "Game mode: jezzball or jezzball_endless")
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Show recent runs of this player instead")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresStats, "stats", false, "Show per-mode statistics")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every score and run of --mode")
	scoresCmd.MarkFlagsMutuallyExclusive("stats", "clear", "player")
}

func runScores(_ *cobra.Command, _ []string) {
	if !registry.Exists(flagScoresMode) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", flagScoresMode)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagScoresStats:
		printStats(store)
		return
	case flagScoresClear:
		n, err := store.ClearMode(flagScoresMode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing %s: %v\n", flagScoresMode, err)
			os.Exit(1)
		}
		fmt.Printf("Cleared %d runs of %s\n", n, flagScoresMode)
		return
	}

	var (
		runs  []storage.RunResult
		title string
	)
	if flagScoresPlayer != "" {
		runs, err = store.PlayerRuns(flagScoresPlayer, flagScoresLimit)
		title = "Recent runs - " + flagScoresPlayer
	} else {
		runs, err = store.TopRuns(flagScoresMode, flagScoresLimit)
		title = "Best runs - " + flagScoresMode
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'jezzball play' to set the first score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %-10s  %-8s  %-16s  %s\n",
		"Rank", "Score", "Level", "Walls", "Player", "End", "Date", "Achievements")
	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %-10s  %-8s  %-16s  %s\n",
		"----", "-----", "-----", "-----", "------", "---", "----", "------------")

	for i, r := range runs {
		player := r.Player
		if player == "" {
			player = "-"
		}
		fmt.Printf("  %-4d  %-8d  %-5d  %-5d  %-10s  %-8s  %-16s  %s\n",
			i+1, r.Score, r.Level, r.WallsBuilt, player, r.EndReason,
			r.CreatedAt.Format("2006-01-02 15:04"), strings.Join(r.Achievements, ","))
	}

	if flagScoresPlayer == "" {
		if best, err := store.HighScore(flagScoresMode); err == nil {
			fmt.Println()
			fmt.Printf("Best: %d\n", best)
		}
	}
}

func printStats(store *storage.Store) {
	all, err := store.AllStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("  %-18s  %-5s  %-8s  %-8s  %-5s  %-6s  %-4s  %s\n",
		"Mode", "Plays", "Best", "Avg", "Level", "Walls", "Wins", "Last played")
	for _, g := range registry.List() {
		st, ok := all[g.ID]
		if !ok {
			fmt.Printf("  %-18s  %-5d  %s\n", g.ID, 0, "never played")
			continue
		}
		fmt.Printf("  %-18s  %-5d  %-8d  %-8.1f  %-5d  %-6d  %-4d  %s\n",
			g.ID, st.Plays, st.HighScore, st.AvgScore, st.BestLevel, st.TotalWalls, st.Wins,
			st.LastPlayed.Format("2006-01-02 15:04"))
	}
}
