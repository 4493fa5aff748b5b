package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fablecraft/taleserver/config"
	"github.com/fablecraft/taleserver/game"
	"github.com/fablecraft/taleserver/hub"
	"github.com/fablecraft/taleserver/logger"
	"github.com/fablecraft/taleserver/monitor"
	"github.com/fablecraft/taleserver/narrative"
	"github.com/fablecraft/taleserver/server"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Metrics endpoint
	mon := monitor.NewMonitor("taleserver")
	mon.StartServer(cfg.Server.MetricsAddress)

	// Wire the core: store -> hub -> coordinator
	store := game.NewStore()
	connHub := hub.NewHub(mon)
	collaborator := narrative.NewOllamaClient(cfg.Narrative.BaseURL, cfg.Narrative.Model, cfg.Narrative.Timeout)
	coordinator := game.NewCoordinator(store, connHub, collaborator, mon)

	gameServer := server.NewGameServer(cfg.Server.HTTPAddress, coordinator, connHub, cfg.Server.WriteTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Log.Info("Shutting down game server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := gameServer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Errorf("Shutdown error: %v", err)
		}
	}()

	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
