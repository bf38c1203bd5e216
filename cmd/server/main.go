package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/news-api/internal/api"
	"github.com/dom/news-api/internal/config"
	"github.com/dom/news-api/internal/feed"
	"github.com/dom/news-api/internal/logging"
	"github.com/dom/news-api/internal/repository/postgres"
	"github.com/dom/news-api/internal/service"
	"github.com/dom/news-api/internal/storage"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger := logging.New(cfg.IsProduction())
	ctx := context.Background()

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL, gormLogLevel(cfg))
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	blobs, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to configure blob storage: %v", err)
	}

	// Initialize news feed hub
	hub := feed.NewHub(appLogger)
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, blobs, hub, cfg, appLogger)

	// Initialize router
	router := api.NewRouter(services, hub, cfg, appLogger)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info(ctx, "server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info(ctx, "shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	hub.Stop()

	appLogger.Info(ctx, "server stopped")
}

func gormLogLevel(cfg *config.Config) logger.LogLevel {
	if cfg.IsProduction() {
		return logger.Warn
	}
	return logger.Info
}
