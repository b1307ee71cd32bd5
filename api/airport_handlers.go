package api

import (
	"net/http"
	"strings"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/flights"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/iata"
	"github.com/gin-gonic/gin"
)

// AirportResponse is one airport's location.
type AirportResponse struct {
	Code   string  `json:"code"`
	City   string  `json:"city"`
	Tz     string  `json:"tz"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Source string  `json:"source"`
}

// GetAirport looks an airport up in the embedded table, then in store.
// store may be nil.
func GetAirport(store flights.AirportStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
		if len(code) != 3 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "airport code must be 3 letters"})
			return
		}

		if loc, ok := iata.Lookup(code); ok {
			c.JSON(http.StatusOK, airportResponse(code, loc, "embedded"))
			return
		}
		if store == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "airport not found: " + code})
			return
		}

		loc, err := store.AirportLocation(c.Request.Context(), code)
		if err != nil {
			if statusFor(err) == http.StatusNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "airport not found: " + code})
				return
			}
			respondError(c, err, "Airport lookup failed")
			return
		}
		c.JSON(http.StatusOK, airportResponse(code, loc, "database"))
	}
}

// ListAirports returns the embedded airport codes.
func ListAirports() gin.HandlerFunc {
	return func(c *gin.Context) {
		codes := iata.Codes()
		out := make([]AirportResponse, 0, len(codes))
		for _, code := range codes {
			loc, _ := iata.Lookup(code)
			out = append(out, airportResponse(code, loc, "embedded"))
		}
		c.JSON(http.StatusOK, out)
	}
}

func airportResponse(code string, loc iata.Location, source string) AirportResponse {
	return AirportResponse{Code: code, City: loc.City, Tz: loc.Tz, Lat: loc.Lat, Lon: loc.Lon, Source: source}
}
