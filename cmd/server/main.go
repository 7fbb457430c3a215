package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/animakit/anima/internal/api"
	"github.com/animakit/anima/internal/config"
	"github.com/animakit/anima/internal/persona"
	"github.com/animakit/anima/internal/service"
	"github.com/animakit/anima/internal/store"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	if err := config.Load(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	p, err := persona.Load(config.PersonaFile())
	if err != nil {
		logger.Fatal("failed to load persona", zap.Error(err))
	}

	snapshots, err := store.NewFileSnapshotStore(config.StorageDir(), logger)
	if err != nil {
		logger.Fatal("failed to open snapshot store", zap.Error(err))
	}

	journal, err := store.NewSQLiteJournal(config.JournalPath())
	if err != nil {
		logger.Fatal("failed to open journal", zap.Error(err))
	}
	defer func() { _ = journal.Close() }()

	svc := service.NewSoulService(p.Soul(), snapshots, journal, logger)

	ctx := context.Background()
	if err := svc.Load(ctx); err != nil {
		logger.Fatal("failed to load soul state", zap.Error(err))
	}

	app := api.NewApp(api.Deps{
		SoulService:    svc,
		Journal:        journal,
		Logger:         logger,
		AdminToken:     config.AdminToken(),
		RateLimitRPS:   config.RateLimitRPS(),
		RateLimitBurst: config.RateLimitBurst(),
	})

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("soul server starting",
			zap.String("addr", addr),
			zap.String("soul", svc.Name()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
