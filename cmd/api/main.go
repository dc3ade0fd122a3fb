package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spendwise/internal/ai"
	"spendwise/internal/config"
	"spendwise/internal/database"
	"spendwise/internal/logger"
	"spendwise/internal/router"
	"spendwise/internal/services"
	"spendwise/internal/validator"
)

// @title           Spendwise API
// @version         1.0
// @description     Spendwise tracks personal expenses and budgets, aggregates spending and turns it into AI-generated insights.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 30 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	// Open storage and prepare its schema
	store, err := database.OpenStore(ctx, database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", appConfig.StorageBackend, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Warnf("storage close error: %v", err)
		}
	}()

	if appConfig.SeedCategories {
		created, err := services.NewCategoryService(store).SeedDefaults(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
		if created > 0 {
			log.Infof("Seeded %d default categories", created)
		}
	}

	completer := ai.NewOpenAICompleter(ai.OpenAIConfig{
		APIKey:  appConfig.AIAPIKey,
		BaseURL: appConfig.AIBaseURL,
		Model:   appConfig.AIModel,
	})
	if appConfig.AIAPIKey == "" {
		log.Warn("AI_API_KEY not set, insights and categorization will use fallbacks")
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router.New(appConfig, store, completer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting Spendwise API on port %s (storage: %s)", appConfig.Port, appConfig.StorageBackend)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
