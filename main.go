package main

import (
	"flag"
	"log/slog"
	"math"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/galaxy/config"
	"github.com/pthm-cable/galaxy/game"
	"github.com/pthm-cable/galaxy/renderer"
	"github.com/pthm-cable/galaxy/telemetry"
	"github.com/pthm-cable/galaxy/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics, flown by the autopilot")
	view := flag.String("view", "2d", "Render adapter: 2d or 3d")
	cinematic := flag.Bool("cinematic", false, "Start with the cinematic camera")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N running ticks (0 = unlimited)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	leaderboardPath := flag.String("leaderboard", "", "High score CSV file (empty = disabled)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per frame in windowed mode")
	savePath := flag.String("save", "", "Write the engine state to this file on exit")
	loadPath := flag.String("load", "", "Resume from a save file (its seed wins over -seed)")

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
		rngSeed = uint64(time.Now().UnixNano())
	}

	opts := game.Options{
		Config:    cfg,
		Seed:      rngSeed,
		Cinematic: *cinematic || cfg.Camera.Cinematic,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	}

	g, err := newGame(opts, *loadPath)
	if err != nil {
		slog.Error("failed to load save", "path", *loadPath, "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	board := attachLeaderboard(g, *leaderboardPath, cfg.Telemetry.LeaderboardSize)

	if *headless {
		limit := *maxTicks
		if limit <= 0 {
			limit = math.MaxInt64
		}
		slog.Info("starting headless run",
			"seed", g.Seed(),
			"max_ticks", *maxTicks,
			"is_3d", cfg.Derived.Is3D,
		)
		res := game.RunHeadless(g, game.NewAutopilot(), limit)
		slog.Info("headless run finished",
			"ticks", res.Ticks,
			"game_overs", res.GameOvers,
			"levels_completed", res.LevelsCompleted,
			"best_score", res.BestScore,
			"max_level", res.MaxLevel,
			"mean_survival", res.MeanSurvival,
		)
	} else {
		runWindow(g, cfg, *view, *stepsPerUpdate, *maxTicks)
	}

	if *savePath != "" {
		if err := g.SaveToFile(*savePath); err != nil {
			slog.Error("failed to save game", "path", *savePath, "error", err)
		} else {
			slog.Info("game saved", "path", *savePath, "tick", g.Tick())
		}
	}
	if board != nil {
		if best, ok := board.Best(); ok {
			slog.Info("high score", "score", best.Score, "level", best.Level, "outcome", best.Outcome)
		}
	}
}

func newGame(opts game.Options, loadPath string) (*game.Game, error) {
	if loadPath == "" {
		return game.New(opts), nil
	}
	return game.LoadFromFile(loadPath, opts)
}

// attachLeaderboard merges every finished level or run into the high score
// table and rewrites the file.
func attachLeaderboard(g *game.Game, path string, size int) *telemetry.Leaderboard {
	if path == "" {
		return nil
	}
	board, err := telemetry.LoadLeaderboard(path, size)
	if err != nil {
		slog.Warn("failed to load leaderboard, starting fresh", "path", path, "error", err)
		board = telemetry.NewLeaderboard(size)
	}
	g.Subscribe(func(e game.Event) {
		if e.Type != game.EventRunResult || e.Result == nil {
			return
		}
		rank := board.Merge(game.ResultRecord(*e.Result, g.Seed()))
		if rank == 0 {
			return
		}
		slog.Info("leaderboard entry", "rank", rank, "score", e.Result.Score, "cause", e.Result.Cause)
		if err := board.Save(path); err != nil {
			slog.Error("failed to save leaderboard", "path", path, "error", err)
		}
	})
	return board
}

func runWindow(g *game.Game, cfg *config.Config, view string, steps int, maxTicks int64) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Galaxy")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	adapter := renderer.New(view, cfg)
	hud := ui.NewHUD(cfg.Fuel.Max)
	overlay := ui.NewOverlay()

	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			adapter.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
		}

		ui.Apply(g, ui.ReadInput())
		g.StepFrame(steps)

		s := g.Snapshot()
		rl.BeginDrawing()
		adapter.Draw(s)
		hud.Draw(s, rl.GetFPS())
		hud.DrawControls(int32(rl.GetScreenHeight()))
		if a := overlay.Draw(s); a != ui.ActionNone {
			ui.Dispatch(g, a)
		}
		rl.EndDrawing()

		if maxTicks > 0 && g.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}
}
