package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sdko-org/bgp-console/internal/alerter"
	"github.com/sdko-org/bgp-console/internal/cache"
	"github.com/sdko-org/bgp-console/internal/config"
	"github.com/sdko-org/bgp-console/internal/database"
	"github.com/sdko-org/bgp-console/internal/email"
	"github.com/sdko-org/bgp-console/internal/handlers"
	"github.com/sdko-org/bgp-console/internal/hijack"
	"github.com/sdko-org/bgp-console/internal/metrics"
	"github.com/sdko-org/bgp-console/internal/ris"
	"github.com/sdko-org/bgp-console/internal/store"
	"github.com/sdko-org/bgp-console/internal/webhook"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}

	cfg := config.Load()

	// The console stays up without Postgres: stores degrade to defaults and
	// alert writes are refused until the database comes back.
	db, err := database.NewPostgresDB(logger, database.PostgresConfig{
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		DBName:   cfg.PostgresDatabase,
		SSLMode:  cfg.PostgresSSLMode,
	})
	if err != nil {
		logger.WithError(err).Warn("Running without persistent storage")
	}

	var cacheStore cache.Store = cache.NewMemory()
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(logger, cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, using in-memory cache")
		} else {
			cacheStore = redisCache
		}
	}

	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		logger.WithError(err).Fatal("Failed to register metrics")
	}

	risClient := ris.NewClient(logger, cfg.RISBaseURL, cfg.RISTimeout, cfg.RISProbeTimeout)
	alerterClient := alerter.NewClient(logger, cfg.BGPalerterAPIURL, cfg.RISTimeout)
	dispatcher := webhook.NewDispatcher(logger, cfg.WebhookTimeout)

	alerts := store.NewAlerts(logger, db)
	settings := store.NewSettings(logger, db)
	ownership := store.NewOwnership(logger, db)

	detector := hijack.NewDetector(logger, ownership, alerts, settings, dispatcher, cacheStore)
	ingestor := email.NewIngestor(logger, alerts)

	handler := handlers.NewHandler(
		logger, cfg, cacheStore, risClient, alerterClient,
		dispatcher, detector, alerts, settings, ownership, ingestor,
	)

	r := mux.NewRouter()
	r.Use(handlers.LoggingMiddleware(logger, db))
	r.Use(handlers.RateLimitMiddleware(cfg))
	handlers.RegisterRoutes(r, handler, registry)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("Server shutdown error")
		}
	}()

	logger.WithField("addr", server.Addr).Info("Starting BGP console API")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Fatal("Server failed")
	}
}
