package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"tasksapi/internal/adapter/telemetry"
	"tasksapi/pkg/config"
)

// RateLimiter applies a fixed-window per-client-IP limit on configured
// path prefixes.
type RateLimiter struct {
	cache   *cache.Cache
	config  map[string]config.RateLimitConfig
	metrics *telemetry.AppMetrics
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(configs map[string]config.RateLimitConfig, metrics *telemetry.AppMetrics) *RateLimiter {
	return &RateLimiter{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		config:  configs,
		metrics: metrics,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		cfg, exists := rl.lookup(path)

		if !exists {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", path, c.ClientIP())
		now := time.Now()

		entry := rateLimitEntry{Count: 0, ResetTime: now.Add(cfg.Window)}

		if cached, found := rl.cache.Get(key); found {
			entry = cached.(rateLimitEntry)

			if now.After(entry.ResetTime) {
				entry = rateLimitEntry{Count: 0, ResetTime: now.Add(cfg.Window)}
			}
		}

		entry.Count++
		rl.cache.Set(key, entry, cfg.Window)

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(cfg.Requests-entry.Count, 0)))

		if entry.Count > cfg.Requests {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitRejection(path)
			}

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}

// lookup matches the configured prefix; "/tasks" also covers "/tasks/:id".
func (rl *RateLimiter) lookup(path string) (config.RateLimitConfig, bool) {
	if cfg, ok := rl.config[path]; ok {
		return cfg, true
	}

	for prefix, cfg := range rl.config {
		if len(path) > len(prefix) && path[:len(prefix)] == prefix && path[len(prefix)] == '/' {
			return cfg, true
		}
	}

	return config.RateLimitConfig{}, false
}
