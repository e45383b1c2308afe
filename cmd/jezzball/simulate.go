package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-jezzball/internal/platform/feed"
	"github.com/vovakirdan/tui-jezzball/internal/platform/headless"
	"github.com/vovakirdan/tui-jezzball/internal/storage"
)

var (
	flagSimTicks    int
	flagSimRealtime bool
	flagSimCampaign bool
	flagSimLevel    int
	flagSimServe    string
	flagSimFeedRate int
	flagSimSave     bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the autoplay bot without a terminal",
	Long: `Run a session driven by the autoplay bot and print a summary.

With --serve the run is ticked in real time and its state is streamed to
WebSocket spectators at ws://<addr>/ws as msgpack snapshots.

Examples:
  jezzball simulate --ticks 6000
  jezzball simulate --campaign --seed 42 --save
  jezzball simulate --serve :8080 --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimTicks, "ticks", 3600, "Stop after this many ticks (0 = until won or interrupted)")
	simulateCmd.Flags().BoolVar(&flagSimRealtime, "realtime", false, "Tick on the wall clock")
	simulateCmd.Flags().BoolVar(&flagSimCampaign, "campaign", false, "Stop after the last campaign level")
	simulateCmd.Flags().IntVar(&flagSimLevel, "level", 1, "Start level")
	simulateCmd.Flags().StringVar(&flagSimServe, "serve", "", "Stream the run to spectators on this address (implies --realtime)")
	simulateCmd.Flags().IntVar(&flagSimFeedRate, "feed-rate", 15, "Snapshots per second sent to spectators")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Store the run in the scores database")
}

func runSimulate(_ *cobra.Command, _ []string) {
	logger, closeLog := newLogger("simulate", os.Stderr)
	defer closeLog()

	gameCfg, err := loadConfig()
	if err != nil {
		logger.Warn("config not loaded, using defaults", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []headless.Option{headless.WithLogger(logger)}
	if flagSimSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Error("could not open scores database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		opts = append(opts, headless.WithRecorder(store))
	}

	runner := headless.NewRunner(gameCfg, headless.Config{
		TickRate:   flagFPS,
		MaxTicks:   flagSimTicks,
		Realtime:   flagSimRealtime || flagSimServe != "",
		Campaign:   flagSimCampaign,
		StartLevel: flagSimLevel,
		Seed:       seed(),
		Player:     "bot",
	}, opts...)

	var wg sync.WaitGroup
	feedCtx, stopFeed := context.WithCancel(ctx)
	if flagSimServe != "" {
		rate := time.Second / 15
		if flagSimFeedRate > 0 {
			rate = time.Second / time.Duration(flagSimFeedRate)
		}
		hub := feed.NewHub(runner.Session(), feed.WithRate(rate), feed.WithLogger(logger))
		srv := &http.Server{
			Addr:              flagSimServe,
			Handler:           hub.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		wg.Add(2)
		go func() {
			defer wg.Done()
			logger.Info("spectator feed listening", "address", flagSimServe)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("feed server error", "error", err)
			}
		}()
		go func() {
			defer wg.Done()
			_ = hub.Run(feedCtx)
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutCtx)
		}()
	}

	res, runErr := runner.Run(ctx)
	stopFeed()
	wg.Wait()

	if runErr != nil {
		logger.Error("run failed", "error", runErr)
	}

	snap := res.Snapshot
	fmt.Println("Simulation finished")
	fmt.Println()
	fmt.Printf("  End:          %s\n", res.EndReason)
	fmt.Printf("  Ticks:        %d (%s simulated)\n", res.Ticks, res.Duration.Round(time.Second))
	fmt.Printf("  Level:        %d\n", snap.Level)
	fmt.Printf("  Score:        %d\n", snap.Score)
	fmt.Printf("  Walls built:  %d\n", snap.WallsBuilt)
	fmt.Printf("  Area:         %.1f%% of %.0f%%\n", snap.ClearedPct, snap.TargetArea)
	fmt.Printf("  Gems:         %d (earned %d)\n", snap.Gems, snap.GemsEarned)
	if len(res.Achievements) > 0 {
		fmt.Printf("  Achievements: %s\n", strings.Join(res.Achievements, ", "))
	}
	fmt.Printf("  State hash:   %016x\n", snap.Hash())

	if runErr != nil {
		os.Exit(1)
	}
}
