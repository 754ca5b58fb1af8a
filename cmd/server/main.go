package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/warbler/internal/logger"
	"github.com/anonto42/warbler/internal/models"
	"github.com/anonto42/warbler/internal/router"
	"github.com/anonto42/warbler/internal/security"
	"github.com/anonto42/warbler/internal/session"
	"github.com/anonto42/warbler/pkg/config"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.LogLevel, nil)

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDB(db)

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Info("Auto-migrations completed for all models.")

	if cfg.SecretKey == config.DefaultSecretKey && cfg.IsProduction() {
		log.Warn("SECRET_KEY is not set, sessions are signed with the default key")
	}

	// Create Echo instance with middleware and routes
	e, err := router.NewServer(router.Dependencies{
		DB:       db,
		Sessions: session.NewCookieStore(cfg.SecretKey, cfg.IsProduction()),
		Hasher:   security.NewBcryptHasher(cfg.BcryptCost),
	})
	if err != nil {
		log.Fatalf("Failed to set up server: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
}
