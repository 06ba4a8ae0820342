// cmd/server/main.go
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/config"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/controller"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/db"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/handler"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/logger"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/repository"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/retently"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
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
	if err := db.EnsureSchema(database); err != nil {
		zapLogger.Fatal("failed to ensure schema", zap.Error(err))
	}
	zapLogger.Info("connected to database", zap.String("db_name", cfg.DBName))

	interactionRepo := &repository.InteractionRepository{DB: database}
	retentlyClient := retently.NewClient(cfg.RetentlyWebhookURL, cfg.RetentlyTimeout)

	interactionService := &service.InteractionService{
		Repo:   interactionRepo,
		Delay:  cfg.DispatchDelay(),
		Logger: zapLogger,
	}

	dispatchService := &service.DispatchService{
		Repo:            interactionRepo,
		Sender:          retentlyClient,
		Logger:          zapLogger,
		TestMode:        cfg.TestModeEnabled(),
		TestEmailFilter: cfg.TestEmailString,
	}
	go dispatchService.Run(context.Background(), cfg.SweepInterval)

	webhookHandler := &handler.WebhookHandler{
		Interactions: interactionService,
		Logger:       zapLogger,
	}
	interactionController := &controller.InteractionController{
		InteractionService: interactionService,
		Logger:             zapLogger,
	}

	r := chi.NewRouter()
	r.Get("/healthz", healthz(database))

	// Webhook and viewer routes share the Dixa shared-secret credentials.
	r.Group(func(r chi.Router) {
		r.Use(middleware.BasicAuth("pf-dixa-retently", map[string]string{
			cfg.WebhookUsername: cfg.WebhookPassword,
		}))
		r.Post("/dixa-webhook", webhookHandler.HandleDixaWebhook)
		r.Get("/interactions", interactionController.ListInteractions)
	})

	zapLogger.Info("middleware listening", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func healthz(database *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := database.Ping(); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}
}
