// Package main is the entry point for the Fantasy Battle Arena.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/samdwyer/battlearena/internal/config"
	"github.com/samdwyer/battlearena/internal/game"
	"github.com/samdwyer/battlearena/internal/gamedata"
	"github.com/samdwyer/battlearena/internal/observability"
	"github.com/samdwyer/battlearena/internal/telemetry"
)

func main() {
	configPath := flag.String("config", os.Getenv("ARENA_CONFIG"), "path to YAML config file")
	seed := flag.Int64("seed", 0, "random seed (overrides config; 0 keeps the configured seed)")
	flag.Parse()

	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	if err := run(*configPath, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "arena: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if seed != 0 {
		cfg.Game.Seed = seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
		if err != nil {
			// Continue without telemetry - game still works
			logger.Warn("telemetry setup failed, running without tracing", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error("shutting down telemetry", zap.Error(err))
				}
			}()
		}
	}

	catalog, err := gamedata.LoadCatalog()
	if err != nil {
		return fmt.Errorf("loading game data: %w", err)
	}
	logger.Info("game data loaded",
		zap.Int("archetypes", catalog.Archetypes.Count()),
		zap.Int("enemies", len(catalog.Roster.Enemies)),
		zap.Int64("seed", cfg.Game.Seed),
	)

	g, err := game.New(game.Options{
		Config:  cfg.Game,
		Catalog: catalog,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("initializing game: %w", err)
	}

	if err := g.Run(ctx); err != nil {
		return fmt.Errorf("game error: %w", err)
	}
	return nil
}
