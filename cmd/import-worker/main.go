package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/harborlabs/medcatalog-backend/internal/cron"
	"github.com/harborlabs/medcatalog-backend/internal/enhance"
	"github.com/harborlabs/medcatalog-backend/internal/feed"
	"github.com/harborlabs/medcatalog-backend/internal/importer"
	"github.com/harborlabs/medcatalog-backend/pkg/config"
	"github.com/harborlabs/medcatalog-backend/pkg/db"
	"github.com/harborlabs/medcatalog-backend/pkg/logger"
	"github.com/harborlabs/medcatalog-backend/pkg/metrics"
	"github.com/harborlabs/medcatalog-backend/pkg/migrate"
	"github.com/harborlabs/medcatalog-backend/pkg/redis"
)

const lockKeyFormat = "medcatalog:import-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "import-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "import-worker"

	logg = logger.New(logger.Options{
		ServiceName: "import-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	source, err := feed.SourceFromConfig(cfg.Import)
	if err != nil {
		logg.Error(context.Background(), "failed to configure feed source", err)
		os.Exit(1)
	}

	importService, err := importer.NewService(importer.ServiceParams{
		DB:       dbClient.DB(),
		Source:   source,
		Enhancer: enhance.FromConfig(cfg.OpenAI, logg),
		Logger:   logg,
		Metrics:  metrics.NewImportMetrics(prometheus.DefaultRegisterer),
		Config:   cfg.Import,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create import service", err)
		os.Exit(1)
	}

	importJob, err := cron.NewCatalogImportJob(importService)
	if err != nil {
		logg.Error(context.Background(), "failed to create import job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(importJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Import.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting import worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "import worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "import worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
