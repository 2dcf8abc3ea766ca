package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/emsteam/ems-api/internal/config"
	"github.com/emsteam/ems-api/internal/database"
	"github.com/emsteam/ems-api/internal/logging"
	"github.com/emsteam/ems-api/internal/server"
	"github.com/emsteam/ems-api/internal/services"
	"github.com/emsteam/ems-api/internal/storage"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logging.New(cfg)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if cfg.SeedDatabase {
		if err := database.Seed(db, cfg.SeedAdminPassword, log); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL, cfg.UploadURLPrefix)
	if err != nil {
		log.Fatalf("Failed to prepare upload storage: %v", err)
	}

	// Optional integrations
	var identity services.IdentityVerifier
	if cfg.GoogleClientID != "" {
		identity = services.NewGoogleVerifier(cfg.GoogleClientID)
	} else {
		log.Warn("GOOGLE_CLIENT_ID not set, Google login disabled")
	}

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		log.Warn("OPENAI_API_KEY not set, task generation disabled")
	}

	r := server.NewRouter(server.Options{
		Config:   cfg,
		Logger:   log,
		DB:       db,
		Store:    store,
		Identity: identity,
		AI:       aiService,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("Server starting on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shut down: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
