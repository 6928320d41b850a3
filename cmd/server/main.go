// Package main implements the entry point for the coffee-shop BFF server:
// the service behind the auth screens that orchestrates sessions against
// the hosted backend and serves the installable-app artifacts.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/kaizendigilabs/coffee-shop-pwa/internal/actions"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/config"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/platform/logger"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}

// initializeApp loads configuration and sets up application components.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg := logger.Setup(cfg.Server)

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"environment", cfg.App.Environment,
		"backend_url", cfg.Backend.URL)

	return &application{
		config:  cfg,
		logger:  logg,
		actions: actions.New(*cfg),
	}, nil
}
