// cmd/sweep/main.go
//
// Runs exactly one dispatch sweep and exits. Useful for draining due
// interactions by hand without waiting for the server's next tick.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/config"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/db"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/logger"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/repository"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/retently"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.RetentlyWebhookURL == "" {
		log.Fatal("RETENTLY_WEBHOOK_URL is required")
	}

	zapLogger, err := logger.New(cfg.ServiceEnvironment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zapLogger.Sync()

	database, err := db.Init(cfg)
	if err != nil {
		zapLogger.Fatal("failed to init database", zap.Error(err))
	}
	defer database.Close()

	dispatchService := &service.DispatchService{
		Repo:            &repository.InteractionRepository{DB: database},
		Sender:          retently.NewClient(cfg.RetentlyWebhookURL, cfg.RetentlyTimeout),
		Logger:          zapLogger,
		TestMode:        cfg.TestModeEnabled(),
		TestEmailFilter: cfg.TestEmailString,
	}

	if err := dispatchService.Sweep(context.Background()); err != nil {
		zapLogger.Fatal("sweep failed", zap.Error(err))
	}
	zapLogger.Info("sweep finished")
}
