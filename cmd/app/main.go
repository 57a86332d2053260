package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/RiftRunner_Go/internal/bootstrap"
	"github.com/osse101/RiftRunner_Go/internal/challenge"
	"github.com/osse101/RiftRunner_Go/internal/config"
	"github.com/osse101/RiftRunner_Go/internal/cycle"
	"github.com/osse101/RiftRunner_Go/internal/leaderboard"
	"github.com/osse101/RiftRunner_Go/internal/meta"
	"github.com/osse101/RiftRunner_Go/internal/run"
	"github.com/osse101/RiftRunner_Go/internal/server"
	"github.com/osse101/RiftRunner_Go/internal/state"
)

// @title Rift Runner Meta API
// @version 1.0
// @description Meta-progression, run settlement and leaderboards for Rift Runner.
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	if err := serve(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		store.Close()
		return err
	}
	if err := bootstrap.RegisterEventHandlers(bus); err != nil {
		store.Close()
		return err
	}

	clock := cycle.NewRealClock()
	challenges := challenge.NewDeriver(cfg.ChallengeCacheSize, cfg.ChallengeCacheTTL)

	states := state.NewService(store, clock, cfg.StoreTimeout)
	boards := leaderboard.NewService(store, states, clock, cfg.StoreTimeout)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		RateLimit: server.RateLimit{
			Window:           cfg.RateLimitWindow,
			MaxRequests:      cfg.RateLimitMaxRequests,
			FailedAuthAlerts: server.DefaultFailedAuthAlerts,
		},
		LeaderboardLimit: cfg.LeaderboardDefaultLimit,
	}, server.Services{
		Store:       store,
		Meta:        meta.NewService(store, boards, challenges, clock, cfg.StoreTimeout),
		Run:         run.NewService(store, states, boards, challenges, publisher, clock, cfg.StoreTimeout),
		Leaderboard: boards,
		State:       states,
	})

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
		if err != nil {
			slog.Error("Server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		ResilientPublisher: publisher,
		Store:              store,
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
