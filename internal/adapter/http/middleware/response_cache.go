package middleware

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"tasksapi/internal/adapter/telemetry"
	"tasksapi/pkg/config"
)

// ResponseCache keeps successful GET bodies for a short TTL so repeated
// list reads do not hit the store.
type ResponseCache struct {
	cache   *cache.Cache
	config  map[string]config.ResponseCacheConfig
	metrics *telemetry.AppMetrics
}

type cachedResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func NewResponseCache(configs map[string]config.ResponseCacheConfig, metrics *telemetry.AppMetrics) *ResponseCache {
	return &ResponseCache{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		config:  configs,
		metrics: metrics,
	}
}

func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		cfg, exists := rc.lookup(path)

		if !exists || !cfg.Enabled {
			c.Next()
			return
		}

		key := cacheKey(c)

		if entry, found := rc.cache.Get(key); found {
			cached := entry.(cachedResponse)

			if rc.metrics != nil {
				rc.metrics.RecordCacheHit(path)
			}

			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(path)
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			rc.cache.Set(key, cachedResponse{
				StatusCode:  c.Writer.Status(),
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        recorder.body.Bytes(),
			}, cfg.TTL)
		}
	}
}

// lookup matches the configured prefix; "/tasks" also covers "/tasks/:id".
func (rc *ResponseCache) lookup(path string) (config.ResponseCacheConfig, bool) {
	if cfg, ok := rc.config[path]; ok {
		return cfg, true
	}

	for prefix, cfg := range rc.config {
		if len(path) > len(prefix) && path[:len(prefix)] == prefix && path[len(prefix)] == '/' {
			return cfg, true
		}
	}

	return config.ResponseCacheConfig{}, false
}

func cacheKey(c *gin.Context) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(c.Request.Method+c.Request.URL.RequestURI())))
}
