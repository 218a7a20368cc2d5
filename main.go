// main.go
package main

import (
	"context"
	"log"
	"time"

	"movie-discovery/cmd"
	"movie-discovery/internal/catalog"
	"movie-discovery/internal/data/repository"
	"movie-discovery/internal/wire"
	"movie-discovery/pkg/database"
	"movie-discovery/pkg/ratelimit"
	"movie-discovery/pkg/telemetry"
	"movie-discovery/pkg/utils"

	"go.uber.org/zap"
)

const sessionCleanupInterval = time.Hour

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Error reporting is optional
	if enabled, err := telemetry.InitSentry(config.Sentry, config.App.Name); err != nil {
		logger.Warn("Sentry disabled", zap.Error(err))
	} else if enabled {
		defer telemetry.Flush()
		logger.Info("Sentry initialized", zap.String("environment", config.Sentry.Environment))
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Redis backs the catalog cache and rate limits; without it both are off
	var (
		cache catalog.Cache = catalog.NopCache{}
		store ratelimit.Store
	)
	rdb, err := database.InitRedis(config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, running without cache and rate limits", zap.Error(err))
	} else if rdb != nil {
		defer rdb.Close()
		cache = catalog.NewRedisCache(rdb)
		store = ratelimit.NewRedisStore(rdb)
		logger.Info("Redis connected successfully", zap.String("addr", config.Redis.Addr))
	}

	if config.TMDB.APIKey == "" {
		logger.Warn("TMDB api key is not set, catalog requests will fail")
	}
	client := catalog.NewClient(config.TMDB, cache, logger)

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, client, ratelimit.New(store), config, logger)

	cleanup := cmd.Every(sessionCleanupInterval, func(ctx context.Context) {
		removed, err := app.Service.Auth.CleanupSessions(ctx)
		if err != nil {
			logger.Error("Session cleanup failed", zap.Error(err))
			return
		}
		logger.Info("Expired sessions removed", zap.Int64("count", removed))
	})

	if err := cmd.APIServer(app.Router, config.App.Port, logger, cleanup); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
