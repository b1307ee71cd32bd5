package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/config"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/geo"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/logger"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/recent"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/tracker"
	"github.com/gin-gonic/gin"
)

// TrackRequest optionally sets the viewport pixel size of the session.
type TrackRequest struct {
	Width  float64 `json:"width" binding:"min=0"`
	Height float64 `json:"height" binding:"min=0"`
}

// TrackFlight starts a tracking session for the flight in the path and
// records it as a recent search.
func TrackFlight(t *tracker.Tracker, recents *recent.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TrackRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		ctx := c.Request.Context()
		sess, err := t.Track(ctx, c.Param("id"), geo.Size{W: req.Width, H: req.Height})
		if err != nil {
			respondError(c, err, "Failed to track flight")
			return
		}

		if recents != nil {
			if err := recents.Add(ctx, sess.FlightID); err != nil {
				logger.WithContext(ctx).Warn("Failed to record recent search", "flight", sess.FlightID, "error", err)
			}
		}

		c.JSON(http.StatusCreated, sess.Snapshot())
	}
}

// ListSessions returns every tracked session.
func ListSessions(t *tracker.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions := t.Sessions()
		views := make([]tracker.View, 0, len(sessions))
		for _, s := range sessions {
			views = append(views, s.Snapshot())
		}
		c.JSON(http.StatusOK, gin.H{"sessions": views, "count": len(views)})
	}
}

// GetSession returns a snapshot of one session.
func GetSession(t *tracker.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := t.Get(c.Param("id"))
		if err != nil {
			respondError(c, err, "Session lookup failed")
			return
		}
		c.JSON(http.StatusOK, sess.Snapshot())
	}
}

// GetSessionRoute returns the path the session is animating.
func GetSessionRoute(t *tracker.Tracker, anim config.AnimationConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := t.Get(c.Param("id"))
		if err != nil {
			respondError(c, err, "Session lookup failed")
			return
		}
		c.JSON(http.StatusOK, newRouteResponse(sess.Path(), anim))
	}
}

// DismissSession stops a session's animation and removes it.
func DismissSession(t *tracker.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := t.Dismiss(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err, "Failed to dismiss session")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// GetRecent returns the most recently tracked flights.
func GetRecent(recents *recent.Store, defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = n
		}

		if recents == nil {
			c.JSON(http.StatusOK, gin.H{"flights": []string{}})
			return
		}
		ids, err := recents.List(c.Request.Context(), limit)
		if err != nil {
			logger.WithContext(c.Request.Context()).Error(err, "Failed to list recent searches")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recent searches unavailable"})
			return
		}
		if ids == nil {
			ids = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"flights": ids})
	}
}
