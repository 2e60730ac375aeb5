package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wakeframe/internal/api"
	"wakeframe/internal/config"
	"wakeframe/internal/sim"
)

var (
	port       = flag.Int("port", 0, "Port to listen on (overrides settings)")
	configPath = flag.String("config", "settings.json", "Path to the JSON settings file")
)

func main() {
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *port != 0 {
		settings.Server.Port = *port
	}

	windFarm, err := settings.BuildFarm()
	if err != nil {
		log.Fatalf("farm: %v", err)
	}
	log.Printf("Farm: %d turbines, wake model %s, combination %s",
		len(windFarm.Turbines), windFarm.WakeModel, windFarm.WakeCombination)

	// Create case engine
	caseEngine := sim.New(sim.Config{
		Farm:             windFarm,
		InitialDirection: settings.Engine.InitialDirection,
		TickHz:           settings.Engine.TickHz,
		Workers:          settings.Engine.Workers,
	})

	// Create API server
	server := api.NewServer(caseEngine, settings.Engine.Workers)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", settings.Server.Port),
		Handler: server.Handler(),
	}

	// Start case engine in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := caseEngine.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("engine error: %v", err)
		}
	}()

	// Start HTTP server in background
	go func() {
		log.Printf("Starting HTTP server on :%d", settings.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	// Shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Cancel engine context
	cancel()

	log.Println("Shutdown complete")
}
