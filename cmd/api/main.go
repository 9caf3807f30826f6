package main

import (
	"context"
	"net/http"
	"os"

	"github.com/harborlabs/medcatalog-backend/api/routes"
	"github.com/harborlabs/medcatalog-backend/internal/enhance"
	"github.com/harborlabs/medcatalog-backend/internal/feed"
	"github.com/harborlabs/medcatalog-backend/internal/importer"
	"github.com/harborlabs/medcatalog-backend/pkg/config"
	"github.com/harborlabs/medcatalog-backend/pkg/db"
	"github.com/harborlabs/medcatalog-backend/pkg/logger"
	"github.com/harborlabs/medcatalog-backend/pkg/metrics"
	"github.com/harborlabs/medcatalog-backend/pkg/migrate"
	"github.com/harborlabs/medcatalog-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, importService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
