package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/api"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/config"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/db"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/flights"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/buildinfo"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/cache"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/health"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/logger"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/recent"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/tracker"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LoggingConfig.LoggerConfig())
	logger.Info("Starting flight tracker", "version", buildinfo.Version, "environment", cfg.Environment)

	healthChecker := health.NewHealthChecker(buildinfo.Version)

	// Redis backs the shared cache and the recent-searches list.
	var redisClient *redis.Client
	if cfg.RedisConfig.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr(),
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warn("Redis not reachable at startup", "addr", cfg.RedisConfig.Addr(), "error", err)
		}
		cancel()
		healthChecker.AddChecker(&health.RedisChecker{Client: redisClient, Name: "redis"})
	}

	var backend cache.Cache
	if cfg.CacheConfig.Backend == "redis" && redisClient != nil {
		backend = cache.NewRedisCache(redisClient, cfg.CacheConfig.Prefix)
	} else {
		if cfg.CacheConfig.Backend == "redis" {
			logger.Warn("CACHE_BACKEND=redis but Redis is disabled; using in-memory cache")
		}
		backend = cache.NewMemoryCache(cfg.CacheConfig.Capacity, cfg.CacheConfig.TTL)
	}
	cacheManager := cache.NewCacheManager(backend)

	var recents *recent.Store
	if redisClient != nil {
		recents = recent.NewStore(redisClient, recent.DefaultKey, cfg.TrackerConfig.RecentLimit)
	}

	// The airport table only extends the embedded IATA data.
	var airports flights.AirportStore
	if cfg.PostgresConfig.Enabled() {
		postgresDB, err := db.NewPostgresDB(cfg.PostgresConfig)
		if err != nil {
			logger.Fatal(err, "Failed to connect to PostgreSQL")
		}
		defer postgresDB.Close()

		if cfg.InitSchema {
			if err := postgresDB.InitSchema(); err != nil {
				logger.Fatal(err, "Failed to initialize PostgreSQL schema")
			}
		}
		if cfg.SeedAirports {
			n, err := postgresDB.SeedAirports(context.Background())
			if err != nil {
				logger.Fatal(err, "Failed to seed airports")
			}
			logger.Info("Seeded airports", "count", n)
		}
		airports = postgresDB
		healthChecker.AddChecker(&health.PostgresChecker{DB: postgresDB, Name: "postgres"})
	}

	client, err := flights.NewClient(flights.ClientConfig{
		BaseURL:   cfg.FlightDataConfig.BaseURL,
		APIKey:    cfg.FlightDataConfig.APIKey,
		Timeout:   cfg.FlightDataConfig.Timeout,
		RetryMax:  cfg.FlightDataConfig.RetryMax,
		RetryWait: cfg.FlightDataConfig.RetryWait,
	})
	if err != nil {
		logger.Fatal(err, "Failed to initialize flight data client")
	}
	source := flights.NewCachedSource(client, cacheManager, cfg.FlightDataConfig.CacheTTL)

	t := tracker.New(source, flights.NewResolver(airports), cfg.TrackerConfig, tracker.Options{
		Timeline:     cfg.AnimationConfig.Timeline(),
		PathSegments: cfg.AnimationConfig.PathSegments,
	})
	if err := t.Start(); err != nil {
		logger.Fatal(err, "Failed to start session refresh")
	}
	healthChecker.AddChecker(&health.TrackerChecker{
		Tracker:     t,
		MaxSessions: cfg.TrackerConfig.MaxSessions,
		Name:        "tracker",
	})

	var srv *http.Server
	if cfg.APIEnabled {
		if cfg.Environment == "production" {
			gin.SetMode(gin.ReleaseMode)
		}
		router := gin.New()
		api.RegisterRoutes(router, api.Deps{
			Config:   cfg,
			Tracker:  t,
			Health:   healthChecker,
			Recent:   recents,
			Airports: airports,
			Cache:    cacheManager,
		})

		srv = &http.Server{
			Addr:              net.JoinHostPort(cfg.HTTPBindAddr, cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("Server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal(err, "Failed to start server")
			}
		}()
	} else {
		logger.Info("API disabled; tracker running without HTTP surface")
	}

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Dismissing sessions first closes open event streams so Shutdown
	// does not wait on them.
	t.Stop(ctx)
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error(err, "Server forced to shutdown")
		}
	}

	logger.Info("Server exited properly")
}
