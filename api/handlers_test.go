package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/config"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/db"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/flights"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/iata"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/cache"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/geo"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/health"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/recent"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/test/mocks"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/tracker"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router  *gin.Engine
	source  *mocks.MockSource
	store   *mocks.MockAirportStore
	tracker *tracker.Tracker
	recent  *recent.Store
	cfg     *config.Config
}

func newTestEnv(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.TestConfig()
	if mutate != nil {
		mutate(cfg)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	source := new(mocks.MockSource)
	store := new(mocks.MockAirportStore)
	tr := tracker.New(source, flights.NewResolver(store), cfg.TrackerConfig, tracker.Options{
		Timeline:     cfg.AnimationConfig.Timeline(),
		PathSegments: cfg.AnimationConfig.PathSegments,
		Now:          func() time.Time { return time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(func() { tr.Stop(context.Background()) })

	env := &testEnv{
		router:  gin.New(),
		source:  source,
		store:   store,
		tracker: tr,
		recent:  recent.NewStore(client, "", cfg.TrackerConfig.RecentLimit),
		cfg:     cfg,
	}
	RegisterRoutes(env.router, Deps{
		Config:   cfg,
		Tracker:  tr,
		Health:   health.NewHealthChecker("test"),
		Recent:   env.recent,
		Airports: store,
		Cache:    cache.NewCacheManager(cache.NewMemoryCache(64, time.Hour)),
	})
	return env
}

func (e *testEnv) do(method, path string, body interface{}, header ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestComputeRoute(t *testing.T) {
	env := newTestEnv(t, nil)
	jfk := gin.H{"lat": 40.6413, "lng": -73.7781}
	lhr := gin.H{"lat": 51.47, "lng": -0.4543}

	tests := []struct {
		name     string
		body     gin.H
		status   int
		segments int
	}{
		{"default", gin.H{"from": jfk, "to": lhr}, http.StatusOK, 100},
		{"compact", gin.H{"from": jfk, "to": lhr, "compact": true}, http.StatusOK, 50},
		{"explicit segments", gin.H{"from": jfk, "to": lhr, "segments": 10}, http.StatusOK, 10},
		{"segments capped", gin.H{"from": jfk, "to": lhr, "segments": 50000}, http.StatusOK, maxPathSegments},
		{"missing destination", gin.H{"from": jfk}, http.StatusBadRequest, 0},
		{"latitude out of range", gin.H{"from": gin.H{"lat": 123, "lng": 0}, "to": lhr}, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/v1/route", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status != http.StatusOK {
				assert.Contains(t, decode(t, w), "error")
				return
			}

			var resp RouteResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.segments, resp.Segments)
			assert.Len(t, resp.Points, tt.segments+1)
			assert.InDelta(t, 40.6413, resp.Points[0].Lat, 1e-9)
			assert.InDelta(t, -0.4543, resp.Points[tt.segments].Lng, 1e-9)
			assert.InDelta(t, 3451, resp.DistanceMiles, 25)
			// Eastbound routes bow with direction -1.
			assert.Equal(t, -1.0, resp.CurveDirection)
			screen := geo.Size{W: 390, H: 844}
			assert.True(t, geo.OnScreen(geo.Project(resp.Points[0], resp.Viewport, screen), screen))
		})
	}
}

func TestComputeProgress(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodPost, "/api/v1/progress", gin.H{
		"scheduled_departure": "2025-06-18T10:00:00Z",
		"scheduled_arrival":   "2025-06-18T14:00:00Z",
		"status":              "En Route",
		"now":                 "2025-06-18T13:00:00Z",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode(t, w)
	assert.InDelta(t, 0.75, out["progress"], 1e-9)
	assert.Equal(t, "airborne", out["class"])
	assert.Equal(t, true, out["times_available"])

	// Zone-less timestamps read in the airports' zones: 06:00 in New York
	// is 10:00Z and 15:00 in London is 14:00Z.
	w = env.do(http.MethodPost, "/api/v1/progress", gin.H{
		"scheduled_departure": "2025-06-18T06:00:00",
		"scheduled_arrival":   "2025-06-18T15:00:00",
		"status":              "active",
		"departure_airport":   "JFK",
		"arrival_airport":     "lhr",
		"now":                 "2025-06-18T12:00:00Z",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.InDelta(t, 0.5, decode(t, w)["progress"], 1e-9)

	w = env.do(http.MethodPost, "/api/v1/progress", gin.H{"status": "Landed"})
	require.Equal(t, http.StatusOK, w.Code)
	out = decode(t, w)
	assert.Equal(t, 1.0, out["progress"])
	assert.Equal(t, "arrived", out["class"])

	w = env.do(http.MethodPost, "/api/v1/progress", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectPoint(t *testing.T) {
	env := newTestEnv(t, nil)
	viewport := gin.H{"center": gin.H{"lat": 10, "lng": 20}, "lat_span": 10, "lng_span": 20}

	w := env.do(http.MethodPost, "/api/v1/project", gin.H{
		"point":    gin.H{"lat": 10, "lng": 20},
		"viewport": viewport,
		"size":     gin.H{"w": 400, "h": 200},
		"toward":   gin.H{"lat": 10, "lng": 30},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp ProjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 200, resp.Pixel.X, 1e-9)
	assert.InDelta(t, 100, resp.Pixel.Y, 1e-9)
	assert.True(t, resp.OnScreen)
	require.NotNil(t, resp.Heading)
	assert.InDelta(t, 90, *resp.Heading, 1e-9)

	// Default size from config; a point north-west of the region is off-screen.
	w = env.do(http.MethodPost, "/api/v1/project", gin.H{
		"point":    gin.H{"lat": 30, "lng": 0},
		"viewport": viewport,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var offScreen ProjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &offScreen))
	assert.False(t, offScreen.OnScreen)
	assert.Equal(t, env.cfg.AnimationConfig.ViewportWidth, offScreen.Size.W)
	assert.Nil(t, offScreen.Heading, "no toward point, no heading")

	// Westward headings are reported as compass bearings.
	w = env.do(http.MethodPost, "/api/v1/project", gin.H{
		"point":    gin.H{"lat": 10, "lng": 20},
		"viewport": viewport,
		"toward":   gin.H{"lat": 10, "lng": 10},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var westward ProjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &westward))
	require.NotNil(t, westward.Heading)
	assert.InDelta(t, 270, *westward.Heading, 1e-9)

	w = env.do(http.MethodPost, "/api/v1/project", gin.H{
		"point":    gin.H{"lat": 10, "lng": 20},
		"viewport": viewport,
		"size":     gin.H{"w": 0, "h": 200},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}


func TestUnprojectPoint(t *testing.T) {
	env := newTestEnv(t, nil)
	viewport := gin.H{"center": gin.H{"lat": 10, "lng": 20}, "lat_span": 10, "lng_span": 20}

	w := env.do(http.MethodPost, "/api/v1/unproject", gin.H{
		"pixel":    gin.H{"x": 300, "y": 50},
		"viewport": viewport,
		"size":     gin.H{"w": 400, "h": 200},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp UnprojectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 12.5, resp.Point.Lat, 1e-9)
	assert.InDelta(t, 25, resp.Point.Lng, 1e-9)
	assert.True(t, resp.OnScreen)

	// Round trip through /project lands on the same pixel.
	w = env.do(http.MethodPost, "/api/v1/project", gin.H{
		"point":    gin.H{"lat": resp.Point.Lat, "lng": resp.Point.Lng},
		"viewport": viewport,
		"size":     gin.H{"w": 400, "h": 200},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var projected ProjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &projected))
	assert.InDelta(t, 300, projected.Pixel.X, 1e-9)
	assert.InDelta(t, 50, projected.Pixel.Y, 1e-9)

	w = env.do(http.MethodPost, "/api/v1/unproject", gin.H{
		"pixel":    gin.H{"x": -10, "y": 50},
		"viewport": viewport,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var outside UnprojectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outside))
	assert.False(t, outside.OnScreen)
	assert.Equal(t, env.cfg.AnimationConfig.ViewportHeight, outside.Size.H)

	w = env.do(http.MethodPost, "/api/v1/unproject", gin.H{"viewport": viewport})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	env.source.On("Detail", mock.Anything, "BA117").Return(mocks.TransatlanticDetail(), nil)

	w := env.do(http.MethodPost, "/api/v1/flights/ba117/track", gin.H{"width": 800, "height": 600})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	id, _ := created["session_id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "BA117", created["flight_id"])
	assert.InDelta(t, 0.5, created["progress"].(map[string]interface{})["progress"], 1e-9)

	w = env.do(http.MethodGet, "/api/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode(t, w)["session_id"])

	w = env.do(http.MethodGet, "/api/v1/sessions/"+id+"/route", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var route RouteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &route))
	assert.Len(t, route.Points, env.cfg.AnimationConfig.PathSegments+1)

	w = env.do(http.MethodGet, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode(t, w)["count"])

	w = env.do(http.MethodGet, "/api/v1/recent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"BA117"}, decode(t, w)["flights"])

	w = env.do(http.MethodDelete, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodGet, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(http.MethodDelete, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrackFlight_Errors(t *testing.T) {
	env := newTestEnv(t, nil)

	unplaced := mocks.TransatlanticDetail()
	unplaced.Arrival = flights.Endpoint{Code: "QQX", Scheduled: "2025-06-18T14:00:00Z"}

	env.source.On("Detail", mock.Anything, "XX1").Return(nil, flights.ErrFlightNotFound)
	env.source.On("Detail", mock.Anything, "XX2").Return(unplaced, nil)
	env.source.On("Detail", mock.Anything, "XX3").Return(nil, errors.New("connection reset"))
	env.store.On("AirportLocation", mock.Anything, "QQX").Return(iata.Location{}, db.ErrAirportNotFound)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/v1/flights/XX1/track", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, env.do(http.MethodPost, "/api/v1/flights/XX2/track", nil).Code)
	assert.Equal(t, http.StatusBadGateway, env.do(http.MethodPost, "/api/v1/flights/XX3/track", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/v1/flights/XX1/track", gin.H{"width": -1}).Code)

	w := env.do(http.MethodGet, "/api/v1/recent", nil)
	assert.Equal(t, []interface{}{}, decode(t, w)["flights"])
}

func TestTrackFlight_RequiresToken(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.AuthConfig.Token = "s3cret" })
	env.source.On("Detail", mock.Anything, "BA117").Return(mocks.TransatlanticDetail(), nil)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/v1/flights/BA117/track", nil).Code)
	w := env.do(http.MethodPost, "/api/v1/flights/BA117/track", nil, "Authorization", "Bearer s3cret")
	assert.Equal(t, http.StatusCreated, w.Code)

	// Reads stay open.
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/sessions", nil).Code)
}

func TestGetAirport(t *testing.T) {
	env := newTestEnv(t, nil)
	env.store.On("AirportLocation", mock.Anything, "QQX").
		Return(iata.Location{City: "Testville", Tz: "UTC", Lat: 1, Lon: 2}, nil).Once()
	env.store.On("AirportLocation", mock.Anything, "QQY").
		Return(iata.Location{}, db.ErrAirportNotFound)

	w := env.do(http.MethodGet, "/api/v1/airports/jfk", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	out := decode(t, w)
	assert.Equal(t, "New York", out["city"])
	assert.Equal(t, "embedded", out["source"])

	w = env.do(http.MethodGet, "/api/v1/airports/jfk", nil)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	w = env.do(http.MethodGet, "/api/v1/airports/QQX", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "database", decode(t, w)["source"])
	// Served from the response cache; the store is asked once.
	w = env.do(http.MethodGet, "/api/v1/airports/QQX", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/v1/airports/QQY", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/v1/airports/LONG", nil).Code)

	w = env.do(http.MethodGet, "/api/v1/airports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []AirportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, len(iata.Codes()))
	env.store.AssertExpectations(t)
}

func TestHealthRoutes(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, path := range []string{"/health", "/health/ready", "/health/live", "/version"} {
		w := env.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}
}

func TestRecent_InvalidLimit(t *testing.T) {
	env := newTestEnv(t, nil)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/v1/recent?limit=zero", nil).Code)
}
