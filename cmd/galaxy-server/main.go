// Command galaxy-server hosts a galaxy game room over websockets.
//
// Settings come from flags, then from the environment (optionally loaded
// from a .env file):
//
//	GALAXY_ADDR    listen address (default :8080)
//	GALAXY_CONFIG  path to a config YAML
//	GALAXY_SEED    RNG seed
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pthm-cable/galaxy/config"
	"github.com/pthm-cable/galaxy/game"
	"github.com/pthm-cable/galaxy/server"
)

func main() {
	envFile := flag.String("env", ".env", "Path to a .env file (missing file is ignored)")
	addrFlag := flag.String("addr", "", "Listen address (overrides GALAXY_ADDR)")
	configFlag := flag.String("config", "", "Path to config.yaml (overrides GALAXY_CONFIG)")
	seedFlag := flag.Uint64("seed", 0, "RNG seed (overrides GALAXY_SEED; 0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("failed to load env file", "path", *envFile, "error", err)
		os.Exit(1)
	}

	addr := firstNonEmpty(*addrFlag, os.Getenv("GALAXY_ADDR"), ":8080")
	configPath := firstNonEmpty(*configFlag, os.Getenv("GALAXY_CONFIG"))

	seed := *seedFlag
	if seed == 0 {
		if s := os.Getenv("GALAXY_SEED"); s != "" {
			v, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				slog.Error("invalid GALAXY_SEED", "value", s, "error", err)
				os.Exit(1)
			}
			seed = v
		}
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	room := server.NewRoom(game.Options{
		Config:    cfg,
		Seed:      seed,
		OutputDir: *outputDir,
	})
	go room.Run()

	mux := http.NewServeMux()
	mux.Handle("/ws", server.NewHandler(room, cfg.Server))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("listening", "addr", addr, "endpoint", "/ws", "seed", seed)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	room.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
