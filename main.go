package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/game"
	"github.com/pthm-cable/slime/sim"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshots and exported images")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	loadSnapshot := flag.String("load", "", "Snapshot file to restore before starting")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, then time-based)")
	workers := flag.Int("workers", 0, "Kernel worker goroutines (0 = GOMAXPROCS)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Simulation ticks per update call (0 = config sims_per_frame)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Sim.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Sim: sim.Options{
			Seed:           rngSeed,
			Workers:        *workers,
			LogStats:       *logStats,
			StatsWindowSec: *statsWindow,
			OutputDir:      *outputDir,
		},
		Headless:     *headless,
		SimsPerFrame: *stepsPerUpdate,
		SnapshotDir:  *snapshotDir,
	}

	if *headless {
		os.Exit(runHeadless(cfg, opts, *loadSnapshot, *maxTicks))
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), game.Title(cfg.Field.Width, cfg.Field.Height))
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		return
	}
	defer g.Unload()

	if *loadSnapshot != "" {
		if err := g.Sim().LoadSnapshot(*loadSnapshot); err != nil {
			slog.Error("failed to load snapshot", "path", *loadSnapshot, "error", err)
			return
		}
	}

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// runHeadless steps the simulation without a window and returns the exit code.
func runHeadless(cfg *config.Config, opts game.Options, snapshot string, maxTicks int) int {
	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		return 1
	}
	defer g.Unload()

	if snapshot != "" {
		if err := g.Sim().LoadSnapshot(snapshot); err != nil {
			slog.Error("failed to load snapshot", "path", snapshot, "error", err)
			return 1
		}
	}

	slog.Info("starting headless simulation",
		"seed", opts.Sim.Seed,
		"agents", g.Sim().AgentCount(),
		"max_ticks", maxTicks,
		"steps_per_update", opts.SimsPerFrame,
	)

	for {
		if err := g.UpdateHeadless(); err != nil {
			slog.Error("tick failed", "tick", g.Tick(), "error", err)
			return 1
		}
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return 0
		}
	}
}
