package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"tasksapi/internal/adapter/telemetry"
	"tasksapi/pkg/config"
)

const RequestIDHeader = "X-Request-ID"

// RequestID assigns a uuid to every request, reusing the caller's when
// one is already present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)

		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// Logging emits one structured line per request with trace correlation.
func Logging(logger *otelzap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		if raw != "" {
			path = path + "?" + raw
		}

		logger.Ctx(c.Request.Context()).Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}

func Metrics(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections()
		defer metrics.DecrementActiveConnections()

		c.Next()

		metrics.RecordRequest(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}

// Setup installs the full ambient chain on the engine.
func Setup(router *gin.Engine, serviceName string, metrics *telemetry.AppMetrics, logger *otelzap.Logger, cfg *config.AppConfig) {
	router.Use(otelgin.Middleware(serviceName))
	router.Use(RequestID())
	router.Use(Logging(logger))

	if metrics != nil {
		router.Use(Metrics(metrics))
	}

	if cfg.RateLimitEnabled {
		router.Use(NewRateLimiter(cfg.RateLimitConfigs, metrics).Middleware())
	}

	if cfg.CacheEnabled {
		router.Use(NewResponseCache(cfg.CacheConfigs, metrics).Middleware())
	}
}
