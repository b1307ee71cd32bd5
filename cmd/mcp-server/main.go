package main

import (
	"fmt"
	"os"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/config"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/flights"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/buildinfo"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/cache"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/logger"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol; logs go to stderr or the log file.
	logCfg := cfg.LoggingConfig.LoggerConfig()
	if logCfg.File == "" {
		logger.SetDefault(logger.NewWithWriter(logCfg, os.Stderr))
	} else {
		logger.Init(logCfg)
	}

	tools := &toolset{
		resolver: flights.NewResolver(nil),
		anim:     cfg.AnimationConfig,
		now:      time.Now,
	}
	if cfg.FlightDataConfig.APIKey != "" {
		client, err := flights.NewClient(flights.ClientConfig{
			BaseURL:   cfg.FlightDataConfig.BaseURL,
			APIKey:    cfg.FlightDataConfig.APIKey,
			Timeout:   cfg.FlightDataConfig.Timeout,
			RetryMax:  cfg.FlightDataConfig.RetryMax,
			RetryWait: cfg.FlightDataConfig.RetryWait,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing flight data client: %v\n", err)
			os.Exit(1)
		}
		cm := cache.NewCacheManager(cache.NewMemoryCache(cfg.CacheConfig.Capacity, cfg.CacheConfig.TTL))
		tools.source = flights.NewCachedSource(client, cm, cfg.FlightDataConfig.CacheTTL)
	} else {
		logger.Info("FLIGHT_API_KEY not set; flight_progress accepts raw timestamps only")
	}

	s := server.NewMCPServer(
		"flight-tracker-mcp",
		buildinfo.Version,
		server.WithLogging(),
	)
	tools.register(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
	}
}
