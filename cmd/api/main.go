package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tabilog/tabilog/backend/internal/adapters/cache"
	"github.com/tabilog/tabilog/backend/internal/adapters/database"
	"github.com/tabilog/tabilog/backend/internal/adapters/events"
	"github.com/tabilog/tabilog/backend/internal/adapters/storage"
	"github.com/tabilog/tabilog/backend/internal/api/handlers"
	"github.com/tabilog/tabilog/backend/internal/api/middleware"
	"github.com/tabilog/tabilog/backend/internal/api/routes"
	"github.com/tabilog/tabilog/backend/internal/api/rpc"
	"github.com/tabilog/tabilog/backend/internal/application/services"
	"github.com/tabilog/tabilog/backend/internal/domain/providers"
	"github.com/tabilog/tabilog/backend/internal/domain/repositories"
	"github.com/tabilog/tabilog/backend/internal/infrastructure/clients/postgres"
	"github.com/tabilog/tabilog/backend/internal/infrastructure/clients/redis"
	"github.com/tabilog/tabilog/backend/internal/infrastructure/observability"
	"github.com/tabilog/tabilog/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry export is optional; tracing falls back to no-op.
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Redis is optional: without it the service runs uncached and
	// without change events.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
	}

	fileStore, err := storage.NewLocalStore(cfg.Upload.ContentDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Upload.ContentDir).Msg("failed to initialize file store")
	}

	// Adapters
	baseLocationAdapter := database.NewLocationAdapter(pgClient)
	var locationAdapter repositories.LocationRepository = baseLocationAdapter
	if cacheProvider != nil {
		locationAdapter = database.NewCachedLocationAdapter(baseLocationAdapter, cacheProvider)
		log.Info().Msg("location adapter wrapped with caching layer")
	}
	visitAdapter := database.NewVisitAdapter(pgClient)
	visitPhotoAdapter := database.NewVisitPhotoAdapter(pgClient)

	// Services
	locationService := services.NewLocationService(locationAdapter, eventBus)
	visitService := services.NewVisitService(visitAdapter, eventBus)
	visitPhotoService := services.NewVisitPhotoService(visitPhotoAdapter, eventBus)
	uploadService := services.NewUploadService(fileStore, cfg.Upload.MaxFileBytes)

	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("failed to start cache invalidation service")
			cacheInvalidationService = nil
		}
	}

	// RPC registry
	registry := rpc.NewRegistry()
	rpc.RegisterAll(registry, locationService, visitService, visitPhotoService)
	log.Info().Int("procedures", len(registry.Procedures())).Msg("RPC registry configured")

	// Handlers
	locationHandler := handlers.NewLocationHandler(locationService)
	visitHistoryHandler := handlers.NewVisitHistoryHandler(visitService)
	uploadHandler := handlers.NewUploadHandler(uploadService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	router := routes.NewRouter(
		locationHandler,
		visitHistoryHandler,
		uploadHandler,
		registry,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}
	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	log.Info().Msg("server stopped")
}
