package middleware

import (
	"bytes"
	"crypto/md5"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/cache"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/logger"
	"github.com/gin-gonic/gin"
)

// CacheConfig holds response cache configuration
type CacheConfig struct {
	TTL       time.Duration
	KeyPrefix string
}

// CachedResponse is a stored JSON response.
type CachedResponse struct {
	StatusCode  int               `json:"status_code" msgpack:"status_code"`
	Headers     map[string]string `json:"headers" msgpack:"headers"`
	Body        []byte            `json:"body" msgpack:"body"`
	ContentType string            `json:"content_type" msgpack:"content_type"`
	CachedAt    time.Time         `json:"cached_at" msgpack:"cached_at"`
}

// responseWriter tees the body into a buffer.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

// ResponseCache serves successful GET JSON responses from cm for cfg.TTL.
// Responses carry X-Cache: HIT or MISS.
func ResponseCache(cm *cache.CacheManager, cfg CacheConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := responseCacheKey(cfg.KeyPrefix, c.Request)
		log := logger.WithContext(ctx).WithField("cache_key", key)

		var cached CachedResponse
		err := cm.GetObject(ctx, key, &cached)
		if err == nil {
			log.Debug("Response cache hit")
			for k, v := range cached.Headers {
				c.Header(k, v)
			}
			c.Header("X-Cache", "HIT")
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Error(err, "Response cache get error")
		}

		body := &bytes.Buffer{}
		c.Writer = &responseWriter{ResponseWriter: c.Writer, body: body}
		c.Header("X-Cache", "MISS")

		c.Next()

		status := c.Writer.Status()
		contentType := c.Writer.Header().Get("Content-Type")
		if status < 200 || status >= 300 || !strings.Contains(contentType, "application/json") {
			return
		}

		resp := CachedResponse{
			StatusCode:  status,
			Headers:     make(map[string]string),
			Body:        body.Bytes(),
			ContentType: contentType,
			CachedAt:    time.Now(),
		}
		for k, values := range c.Writer.Header() {
			if len(values) > 0 && cacheableHeader(k) {
				resp.Headers[k] = values[0]
			}
		}
		if err := cm.SetObject(ctx, key, resp, cfg.TTL); err != nil {
			log.Error(err, "Response cache set error")
		}
	}
}

// responseCacheKey hashes the method, path, query and Accept header.
func responseCacheKey(prefix string, req *http.Request) string {
	data := fmt.Sprintf("%s:%s:%s:%s", req.Method, req.URL.Path, req.URL.RawQuery, req.Header.Get("Accept"))
	sum := fmt.Sprintf("%x", md5.Sum([]byte(data)))
	if prefix != "" {
		return prefix + ":response:" + sum
	}
	return "response:" + sum
}

var cacheableHeaders = []string{"content-type", "content-encoding", "cache-control", "etag", "last-modified"}

func cacheableHeader(header string) bool {
	return slices.Contains(cacheableHeaders, strings.ToLower(header))
}
