package api

import (
	"errors"
	"net/http"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/db"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/flights"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/logger"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/tracker"
	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP status codes. Anything unknown is
// treated as an upstream failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tracker.ErrInvalidFlightID):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrSessionNotFound),
		errors.Is(err, flights.ErrFlightNotFound),
		errors.Is(err, db.ErrAirportNotFound):
		return http.StatusNotFound
	case errors.Is(err, flights.ErrNoCoordinates):
		return http.StatusUnprocessableEntity
	case errors.Is(err, tracker.ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, tracker.ErrTrackerClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, err error, msg string) {
	status := statusFor(err)
	if status >= 500 {
		logger.WithContext(c.Request.Context()).Error(err, msg)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg + ": " + err.Error()})
}
