// Package api is the HTTP surface of the flight tracker: route geometry,
// progress and projection endpoints plus tracked sessions and their frame
// streams.
package api

import (
	"net/http"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/config"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/flights"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/buildinfo"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/cache"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/health"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/middleware"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/recent"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/tracker"
	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the routes need. Recent, Airports and Cache
// may be nil.
type Deps struct {
	Config   *config.Config
	Tracker  *tracker.Tracker
	Health   *health.HealthChecker
	Recent   *recent.Store
	Airports flights.AirportStore
	Cache    *cache.CacheManager
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Deps) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())

	router.GET("/health", HealthCheck(deps.Health))
	router.GET("/health/ready", ReadinessCheck(deps.Health))
	router.GET("/health/live", LivenessCheck(deps.Health))
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, buildinfo.Info())
	})

	cfg := deps.Config
	anim := cfg.AnimationConfig
	auth := middleware.APIAuth(cfg.AuthConfig)

	v1 := router.Group("/api/v1")
	{
		// Stateless geometry
		v1.POST("/route", ComputeRoute(anim))
		v1.POST("/progress", ComputeProgress())
		v1.POST("/project", ProjectPoint(anim))
		v1.POST("/unproject", UnprojectPoint(anim))

		// Airports
		airports := v1.Group("/airports")
		if deps.Cache != nil {
			airports.Use(middleware.ResponseCache(deps.Cache, middleware.CacheConfig{
				TTL:       cache.LongTTL,
				KeyPrefix: "airports",
			}))
		}
		airports.GET("", ListAirports())
		airports.GET("/:code", GetAirport(deps.Airports))

		// Tracking sessions
		v1.POST("/flights/:id/track", auth, TrackFlight(deps.Tracker, deps.Recent))
		v1.GET("/sessions", ListSessions(deps.Tracker))
		v1.GET("/sessions/:id", GetSession(deps.Tracker))
		v1.GET("/sessions/:id/route", GetSessionRoute(deps.Tracker, anim))
		v1.GET("/sessions/:id/events", SessionEvents(deps.Tracker))
		v1.DELETE("/sessions/:id", auth, DismissSession(deps.Tracker))

		v1.GET("/recent", GetRecent(deps.Recent, cfg.TrackerConfig.RecentLimit))
	}
}

func reportStatus(report health.HealthReport) int {
	if report.Status == health.StatusUp {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

// HealthCheck runs every registered check.
func HealthCheck(h *health.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := h.CheckHealth(c.Request.Context())
		c.JSON(reportStatus(report), report)
	}
}

// ReadinessCheck runs the storage checks.
func ReadinessCheck(h *health.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := h.CheckReadiness(c.Request.Context())
		c.JSON(reportStatus(report), report)
	}
}

// LivenessCheck reports that the process is serving.
func LivenessCheck(h *health.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, h.CheckLiveness(c.Request.Context()))
	}
}
