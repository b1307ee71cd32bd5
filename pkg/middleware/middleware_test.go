package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/config"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/cache"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var fromCtx string
	r.GET("/", func(c *gin.Context) {
		fromCtx, _ = c.Request.Context().Value(logger.RequestIDKey).(string)
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())
	assert.Equal(t, id, fromCtx)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	w = serve(r, req)
	assert.Equal(t, "client-supplied", w.Header().Get(RequestIDHeader))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.SetDefault(logger.NewWithWriter(logger.Config{Level: "debug", Format: "json"}, &buf))
	t.Cleanup(func() { logger.Init(logger.Config{Level: "info", Format: "json"}) })

	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/missing", func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{"error": "nope"}) })

	serve(r, httptest.NewRequest(http.MethodGet, "/missing?x=1", nil))
	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"query":"x=1"`)
	assert.Contains(t, out, `"request_id"`)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestAPIAuth(t *testing.T) {
	newRouter := func(cfg config.AuthConfig) *gin.Engine {
		r := gin.New()
		r.POST("/track", APIAuth(cfg), func(c *gin.Context) { c.Status(http.StatusCreated) })
		return r
	}

	open := newRouter(config.AuthConfig{})
	assert.Equal(t, http.StatusCreated, serve(open, httptest.NewRequest(http.MethodPost, "/track", nil)).Code)

	guarded := newRouter(config.AuthConfig{Token: "s3cret"})
	w := serve(guarded, httptest.NewRequest(http.MethodPost, "/track", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodPost, "/track", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, serve(guarded, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/track", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	assert.Equal(t, http.StatusCreated, serve(guarded, req).Code)
}

func TestResponseCache(t *testing.T) {
	cm := cache.NewCacheManager(cache.NewMemoryCache(16, time.Hour))
	calls := 0
	r := gin.New()
	r.Use(ResponseCache(cm, CacheConfig{TTL: time.Minute, KeyPrefix: "test"}))
	r.GET("/airports/:code", func(c *gin.Context) {
		calls++
		if c.Param("code") == "ZZZ" {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": c.Param("code")})
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/airports/JFK", nil))
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	w = serve(r, httptest.NewRequest(http.MethodGet, "/airports/JFK", nil))
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"code":"JFK"}`, w.Body.String())
	assert.Equal(t, 1, calls)

	// Errors are never cached.
	serve(r, httptest.NewRequest(http.MethodGet, "/airports/ZZZ", nil))
	w = serve(r, httptest.NewRequest(http.MethodGet, "/airports/ZZZ", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 3, calls)

	ok, err := cm.Exists(context.Background(), responseCacheKey("test", httptest.NewRequest(http.MethodGet, "/airports/JFK", nil)))
	require.NoError(t, err)
	assert.True(t, ok)
}
