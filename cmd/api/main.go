package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rzzdr/basel-capital-engine/config"
	"github.com/rzzdr/basel-capital-engine/internal/engine"
	"github.com/rzzdr/basel-capital-engine/internal/kafka"
	"github.com/rzzdr/basel-capital-engine/internal/store"
	"github.com/rzzdr/basel-capital-engine/internal/stress"
	"github.com/rzzdr/basel-capital-engine/internal/websocket"
	"github.com/rzzdr/basel-capital-engine/pkg/api"
	"github.com/rzzdr/basel-capital-engine/pkg/metrics"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

var regulatoryFile = flag.String("regulatory", "", "Path to regulatory parameter file (overrides config)")

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.GetLogger("api.main").Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.LogLevel, cfg.App.Environment)
	log := logger.GetLogger("api.main")
	log.Info("Starting Basel Capital Engine API service")

	regulatoryPath := cfg.Engine.RegulatoryFile
	if *regulatoryFile != "" {
		regulatoryPath = *regulatoryFile
	}
	regulatory, err := config.LoadRegulatory(regulatoryPath)
	if err != nil {
		log.Fatalf("Failed to load regulatory parameters: %v", err)
	}

	baselEngine, err := engine.New(regulatory, cfg.Engine.Workers)
	if err != nil {
		log.Fatalf("Failed to create capital engine: %v", err)
	}
	stressEngine := stress.New(baselEngine)

	portfolios := store.NewPortfolioStore()
	results := store.NewResultsStore()
	recorder := metrics.NewRecorder()

	var publisher *kafka.ResultsPublisher
	if cfg.Kafka.Enabled {
		publisher = kafka.NewResultsPublisher(cfg.Kafka)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	handlers := api.CreateHandlers(baselEngine, stressEngine, portfolios, results, publisher, hub, recorder)
	server := api.NewServer(cfg.API, cfg.Metrics, handlers, recorder, hub)

	go func() {
		if err := server.Start(); err != nil {
			log.Errorf("API server error: %v", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Infof("Received signal %v, initiating shutdown", sig)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("API server shutdown error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		log.Errorf("Kafka publisher shutdown error: %v", err)
	}

	log.Info("Shutdown complete")
}
