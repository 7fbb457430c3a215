// The companion keeps a soul alive between conversations: it periodically
// reflects, internalizes experiences and composes short posts, driving a
// soul server over HTTP and falling back to an embedded engine when the
// server is unreachable.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/animakit/anima/internal/activity"
	"github.com/animakit/anima/internal/client"
	"github.com/animakit/anima/internal/composer"
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

	remote := client.NewRemote(config.SoulURL(), config.SoulName(), config.AdminToken())
	remote.SetTimeouts(config.HealthTimeout(), config.PerceiveTimeout(), config.RequestTimeout())

	// The embedded fallback engine keeps its own state, away from the
	// server's files.
	localDir := filepath.Join(config.StorageDir(), "companion")

	p, err := persona.Load(config.PersonaFile())
	if err != nil {
		logger.Fatal("failed to load persona", zap.Error(err))
	}

	snapshots, err := store.NewFileSnapshotStore(localDir, logger)
	if err != nil {
		logger.Fatal("failed to open snapshot store", zap.Error(err))
	}

	journal, err := store.NewSQLiteJournal(filepath.Join(localDir, "journal.db"))
	if err != nil {
		logger.Fatal("failed to open journal", zap.Error(err))
	}
	defer func() { _ = journal.Close() }()

	svc := service.NewSoulService(p.Soul(), snapshots, journal, logger)

	ctx := context.Background()
	if err := svc.Load(ctx); err != nil {
		logger.Fatal("failed to load fallback soul state", zap.Error(err))
	}

	driver := client.NewFallback(remote, client.NewLocal(svc, journal), logger)

	if health, err := driver.Health(ctx); err != nil {
		logger.Warn("no soul reachable at startup", zap.Error(err))
	} else {
		logger.Info("soul reachable",
			zap.String("soul", health.Soul),
			zap.String("stage", string(driver.Stage())))
	}

	ring := activity.NewRing(activity.DefaultRingSize)

	reflection := activity.NewReflection(driver, ring, logger)
	reflection.SetCooldown(config.ReflectionInterval())

	experience := activity.NewExperience(driver, ring, logger)
	experience.SetCooldown(config.ExperienceInterval())

	comp := composer.New(config.ComposerHistory(), logger)
	compose := activity.NewCompose(driver, comp, composer.NewLogPublisher(logger), logger)
	compose.SetCooldown(config.ComposeInterval())

	runner := activity.NewRunner(ring, logger, reflection, experience, compose)
	runner.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down companion")
	runner.Stop()
	logger.Info("companion stopped")
}
