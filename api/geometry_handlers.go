package api

import (
	"net/http"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/config"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/flights"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/geo"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/progress"
	"github.com/gin-gonic/gin"
)

// maxPathSegments bounds caller-chosen sampling.
const maxPathSegments = 1000

// RouteRequest asks for the curved path between two points.
type RouteRequest struct {
	From     *geo.GeoPoint `json:"from" binding:"required"`
	To       *geo.GeoPoint `json:"to" binding:"required"`
	Segments int           `json:"segments" binding:"min=0"`
	Compact  bool          `json:"compact"`
}

// RouteResponse describes a generated route path.
type RouteResponse struct {
	Points          []geo.GeoPoint     `json:"points"`
	Segments        int                `json:"segments"`
	DistanceMiles   float64            `json:"distance_miles"`
	DistanceDegrees float64            `json:"distance_degrees"`
	CurveMagnitude  float64            `json:"curve_magnitude"`
	CurveDirection  float64            `json:"curve_direction"`
	ControlPoint    geo.GeoPoint       `json:"control_point"`
	// Heading is the compass bearing of the straight line, in [0, 360).
	Heading         float64            `json:"heading"`
	Viewport        geo.ViewportRegion `json:"viewport"`
}

func newRouteResponse(path geo.RoutePath, anim config.AnimationConfig) RouteResponse {
	from, to := path.First(), path.Last()
	return RouteResponse{
		Points:          path.Points(),
		Segments:        path.Segments(),
		DistanceMiles:   geo.DistanceMiles(from, to),
		DistanceDegrees: geo.DegreeDistance(from, to),
		CurveMagnitude:  path.Magnitude(),
		CurveDirection:  path.Direction(),
		ControlPoint:    path.Control(),
		Heading:         geo.NormalizeHeading(geo.Heading(from, to)),
		Viewport:        geo.FitRoute(from, to, anim.FitPadding, anim.BottomPanel),
	}
}

// ComputeRoute returns the curved route between two coordinates.
func ComputeRoute(anim config.AnimationConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RouteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
		if !req.From.IsValid() || !req.To.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: coordinates out of range"})
			return
		}

		segments := anim.PathSegments
		switch {
		case req.Segments > 0:
			segments = min(req.Segments, maxPathSegments)
		case req.Compact:
			segments = geo.CompactSegments
		}

		path := geo.GeneratePathN(*req.From, *req.To, segments)
		c.JSON(http.StatusOK, newRouteResponse(path, anim))
	}
}

// ProgressRequest carries a flight's raw timestamps and status. The
// optional airport codes select the zones for timestamps without an offset.
type ProgressRequest struct {
	progress.Window
	DepartureAirport string     `json:"departure_airport"`
	ArrivalAirport   string     `json:"arrival_airport"`
	Now              *time.Time `json:"now"`
}

// ComputeProgress returns the completion fraction of a flight.
func ComputeProgress() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProgressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		w := req.Window
		w.DepartureLocation = flights.AirportTimeZone(req.DepartureAirport)
		w.ArrivalLocation = flights.AirportTimeZone(req.ArrivalAirport)

		now := time.Now()
		if req.Now != nil {
			now = *req.Now
		}
		c.JSON(http.StatusOK, progress.NewCalculator(time.UTC).Evaluate(w, now))
	}
}

// ProjectRequest asks where a coordinate lands on screen.
type ProjectRequest struct {
	Point    *geo.GeoPoint       `json:"point" binding:"required"`
	Viewport *geo.ViewportRegion `json:"viewport" binding:"required"`
	Size     *geo.Size           `json:"size"`
	// Toward, when set, adds the compass heading from Point to Toward.
	Toward *geo.GeoPoint `json:"toward"`
}

// ProjectResponse is the projected pixel position.
type ProjectResponse struct {
	Pixel    geo.PixelPoint `json:"pixel"`
	OnScreen bool           `json:"on_screen"`
	Size     geo.Size       `json:"size"`
	Heading  *float64       `json:"heading,omitempty"`
}

// ProjectPoint maps a coordinate into a pixel viewport.
func ProjectPoint(anim config.AnimationConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		size, ok := requestSize(c, req.Size, anim)
		if !ok {
			return
		}

		// Spans are floored so a degenerate viewport cannot divide by zero.
		vp := geo.NewViewport(req.Viewport.Center, req.Viewport.LatSpan, req.Viewport.LngSpan)
		pixel := geo.Project(*req.Point, vp, size)
		resp := ProjectResponse{Pixel: pixel, OnScreen: geo.OnScreen(pixel, size), Size: size}
		if req.Toward != nil {
			h := geo.NormalizeHeading(geo.Heading(*req.Point, *req.Toward))
			resp.Heading = &h
		}
		c.JSON(http.StatusOK, resp)
	}
}

func requestSize(c *gin.Context, req *geo.Size, anim config.AnimationConfig) (geo.Size, bool) {
	if req == nil {
		return geo.Size{W: anim.ViewportWidth, H: anim.ViewportHeight}, true
	}
	if req.W <= 0 || req.H <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: size must be positive"})
		return geo.Size{}, false
	}
	return *req, true
}

// UnprojectRequest asks which coordinate sits under a pixel, such as a tap
// on the map.
type UnprojectRequest struct {
	Pixel    *geo.PixelPoint     `json:"pixel" binding:"required"`
	Viewport *geo.ViewportRegion `json:"viewport" binding:"required"`
	Size     *geo.Size           `json:"size"`
}

// UnprojectResponse is the coordinate under a pixel.
type UnprojectResponse struct {
	Point    geo.GeoPoint `json:"point"`
	OnScreen bool         `json:"on_screen"`
	Size     geo.Size     `json:"size"`
}

// UnprojectPoint maps a pixel in a viewport back to a coordinate.
func UnprojectPoint(anim config.AnimationConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UnprojectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		size, ok := requestSize(c, req.Size, anim)
		if !ok {
			return
		}

		vp := geo.NewViewport(req.Viewport.Center, req.Viewport.LatSpan, req.Viewport.LngSpan)
		c.JSON(http.StatusOK, UnprojectResponse{
			Point:    geo.Unproject(*req.Pixel, vp, size),
			OnScreen: geo.OnScreen(*req.Pixel, size),
			Size:     size,
		})
	}
}
