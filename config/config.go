package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/animation"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/geo"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/logger"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port             string
	HTTPBindAddr     string
	APIEnabled       bool
	Environment      string
	LoggingConfig    LoggingConfig
	PostgresConfig   PostgresConfig
	RedisConfig      RedisConfig
	FlightDataConfig FlightDataConfig
	CacheConfig      CacheConfig
	AnimationConfig  AnimationConfig
	TrackerConfig    TrackerConfig
	AuthConfig       AuthConfig
	InitSchema       bool
	SeedAirports     bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string
	Format     string
	File       string // empty logs to stdout
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// LoggerConfig converts the section for logger.New.
func (c LoggingConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Level,
		Format:     c.Format,
		File:       c.File,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
	}
}

// PostgresConfig holds PostgreSQL connection configuration. The airport
// store is optional; an empty Host disables it.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether a database host is configured.
func (c PostgresConfig) Enabled() bool {
	return c.Host != ""
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// FlightDataConfig configures the upstream flight-detail API.
type FlightDataConfig struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RetryMax  int
	RetryWait time.Duration
	CacheTTL  time.Duration
}

// CacheConfig selects and sizes the response cache.
type CacheConfig struct {
	Backend  string // "memory" or "redis"
	Capacity int
	TTL      time.Duration
	Prefix   string
}

// AnimationConfig holds the route animation timeline.
type AnimationConfig struct {
	TickRate       int
	ZoomOutHold    time.Duration
	RevealDuration time.Duration
	ZoomDuration   time.Duration
	TravelDuration time.Duration
	ZoomOutFactor  float64
	FitPadding     float64
	BottomPanel    float64
	ViewportWidth  float64
	ViewportHeight float64
	PathSegments   int
}

// Timeline converts the config to an animation timeline.
func (c AnimationConfig) Timeline() animation.Timeline {
	return animation.Timeline{
		TickRate:       c.TickRate,
		ZoomOutHold:    c.ZoomOutHold,
		RevealDuration: c.RevealDuration,
		ZoomDuration:   c.ZoomDuration,
		TravelDuration: c.TravelDuration,
		ZoomOutFactor:  c.ZoomOutFactor,
		FitPadding:     c.FitPadding,
		BottomPanel:    c.BottomPanel,
		Size:           geo.Size{W: c.ViewportWidth, H: c.ViewportHeight},
	}
}

// TrackerConfig holds session tracking configuration
type TrackerConfig struct {
	RefreshSchedule    string // cron spec; empty disables periodic refresh
	RefreshConcurrency int
	RefreshTimeout     time.Duration
	MaxSessions        int
	SubscriberBuffer   int
	RecentLimit        int
}

// AuthConfig holds the bearer token guarding session-mutating routes.
type AuthConfig struct {
	Token string
}

// Enabled reports whether a token is configured.
func (c AuthConfig) Enabled() bool {
	return c.Token != ""
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	var errs []string
	duration := func(key, def string) time.Duration {
		d, err := time.ParseDuration(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s: %v", key, err))
		}
		return d
	}
	number := func(key, def string) int {
		n, err := strconv.Atoi(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s: %v", key, err))
		}
		return n
	}
	decimal := func(key, def string) float64 {
		f, err := strconv.ParseFloat(getEnv(key, def), 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s: %v", key, err))
		}
		return f
	}

	apiEnabled, _ := strconv.ParseBool(getEnv("API_ENABLED", "true"))
	initSchema, _ := strconv.ParseBool(getEnv("INIT_SCHEMA", "true"))
	seedAirports, _ := strconv.ParseBool(getEnv("SEED_AIRPORTS", "true"))
	redisEnabled, _ := strconv.ParseBool(getEnv("REDIS_ENABLED", "true"))

	loggingConfig := LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Format:     getEnv("LOG_FORMAT", "json"),
		File:       getEnv("LOG_FILE", ""),
		MaxSizeMB:  number("LOG_MAX_SIZE_MB", "100"),
		MaxBackups: number("LOG_MAX_BACKUPS", "3"),
		MaxAgeDays: number("LOG_MAX_AGE_DAYS", "28"),
	}

	postgresConfig := PostgresConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "flights"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "flights"),
		SSLMode:  getEnv("DB_SSLMODE", "require"),
	}

	redisConfig := RedisConfig{
		Enabled:  redisEnabled,
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       number("REDIS_DB", "0"),
	}

	flightDataConfig := FlightDataConfig{
		BaseURL:   getEnv("FLIGHT_API_BASE_URL", "http://localhost:9000/v1"),
		APIKey:    getEnv("FLIGHT_API_KEY", ""),
		Timeout:   duration("FLIGHT_API_TIMEOUT", "30s"),
		RetryMax:  number("FLIGHT_API_RETRY_MAX", "3"),
		RetryWait: duration("FLIGHT_API_RETRY_WAIT", "1s"),
		CacheTTL:  duration("FLIGHT_DETAIL_CACHE_TTL", "2m"),
	}

	cacheConfig := CacheConfig{
		Backend:  strings.ToLower(getEnv("CACHE_BACKEND", "memory")),
		Capacity: number("CACHE_CAPACITY", "1024"),
		TTL:      duration("CACHE_TTL", "1h"),
		Prefix:   getEnv("CACHE_PREFIX", "flight-tracker"),
	}
	if cacheConfig.Backend != "memory" && cacheConfig.Backend != "redis" {
		errs = append(errs, fmt.Sprintf("invalid CACHE_BACKEND %q", cacheConfig.Backend))
	}

	animationConfig := AnimationConfig{
		TickRate:       number("ANIMATION_TICK_RATE", "30"),
		ZoomOutHold:    duration("ANIMATION_ZOOM_OUT_HOLD", "600ms"),
		RevealDuration: duration("ANIMATION_REVEAL_DURATION", "1200ms"),
		ZoomDuration:   duration("ANIMATION_ZOOM_DURATION", "1s"),
		TravelDuration: duration("ANIMATION_TRAVEL_DURATION", "2500ms"),
		ZoomOutFactor:  decimal("ANIMATION_ZOOM_OUT_FACTOR", "1.8"),
		FitPadding:     decimal("ANIMATION_FIT_PADDING", "0.2"),
		BottomPanel:    decimal("ANIMATION_BOTTOM_PANEL", "0.35"),
		ViewportWidth:  decimal("ANIMATION_VIEWPORT_WIDTH", "390"),
		ViewportHeight: decimal("ANIMATION_VIEWPORT_HEIGHT", "844"),
		PathSegments:   number("ROUTE_PATH_SEGMENTS", "100"),
	}

	trackerConfig := TrackerConfig{
		RefreshSchedule:    getEnv("TRACKER_REFRESH_SCHEDULE", "@every 1m"),
		RefreshConcurrency: number("TRACKER_REFRESH_CONCURRENCY", "4"),
		RefreshTimeout:     duration("TRACKER_REFRESH_TIMEOUT", "30s"),
		MaxSessions:        number("TRACKER_MAX_SESSIONS", "1000"),
		SubscriberBuffer:   number("TRACKER_SUBSCRIBER_BUFFER", "64"),
		RecentLimit:        number("RECENT_SEARCHES_LIMIT", "20"),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		HTTPBindAddr:     getEnv("HTTP_BIND_ADDR", ""),
		APIEnabled:       apiEnabled,
		Environment:      getEnv("ENVIRONMENT", "development"),
		LoggingConfig:    loggingConfig,
		PostgresConfig:   postgresConfig,
		RedisConfig:      redisConfig,
		FlightDataConfig: flightDataConfig,
		CacheConfig:      cacheConfig,
		AnimationConfig:  animationConfig,
		TrackerConfig:    trackerConfig,
		AuthConfig:       AuthConfig{Token: getEnv("API_TOKEN", "")},
		InitSchema:       initSchema,
		SeedAirports:     seedAirports,
	}, nil
}

// LoadTestConfig loads test configuration
func LoadTestConfig() *Config {
	return &Config{
		PostgresConfig: PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "flights"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME_TEST", "flights_test"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisConfig: RedisConfig{
			Enabled: true,
			Host:    getEnv("REDIS_HOST", "localhost"),
			Port:    getEnv("REDIS_PORT", "6379"),
		},
		FlightDataConfig: FlightDataConfig{
			BaseURL:   "http://localhost:9000/v1",
			Timeout:   5 * time.Second,
			RetryMax:  1,
			RetryWait: 10 * time.Millisecond,
			CacheTTL:  time.Minute,
		},
		CacheConfig: CacheConfig{
			Backend:  "memory",
			Capacity: 128,
			TTL:      time.Minute,
			Prefix:   "flight-tracker-test",
		},
		AnimationConfig: AnimationConfig{
			TickRate:       200,
			ZoomOutHold:    10 * time.Millisecond,
			RevealDuration: 20 * time.Millisecond,
			ZoomDuration:   20 * time.Millisecond,
			TravelDuration: 40 * time.Millisecond,
			ZoomOutFactor:  1.8,
			FitPadding:     0.2,
			BottomPanel:    0.35,
			ViewportWidth:  390,
			ViewportHeight: 844,
			PathSegments:   100,
		},
		TrackerConfig: TrackerConfig{
			RefreshConcurrency: 2,
			RefreshTimeout:     5 * time.Second,
			MaxSessions:        16,
			SubscriberBuffer:   16,
			RecentLimit:        5,
		},
		Environment: "test",
	}
}

// TestConfig returns a default test configuration
func TestConfig() *Config {
	cfg := LoadTestConfig()
	cfg.RedisConfig.Enabled = false
	cfg.InitSchema = false
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if len(strings.TrimSpace(value)) == 0 {
		return defaultValue
	}
	return strings.TrimSpace(value)
}
