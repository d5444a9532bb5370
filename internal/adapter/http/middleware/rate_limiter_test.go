package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"

	"tasksapi/internal/adapter/http/middleware"
	"tasksapi/pkg/config"
)

func limitedRouter(configs map[string]config.RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.NewRateLimiter(configs, nil).Middleware())

	router.GET("/tasks/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"count": 0})
	})
	router.GET("/tasks/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return router
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	RegisterTestingT(t)

	router := limitedRouter(map[string]config.RateLimitConfig{
		"/tasks": {Requests: 2, Window: time.Minute},
	})

	Expect(get(router, "/tasks/").Code).To(Equal(http.StatusOK))
	Expect(get(router, "/tasks/").Code).To(Equal(http.StatusOK))

	third := get(router, "/tasks/")

	Expect(third.Code).To(Equal(http.StatusTooManyRequests))
	Expect(third.Header().Get("X-RateLimit-Remaining")).To(Equal("0"))
}

func TestRateLimiter_SetsHeaders(t *testing.T) {
	RegisterTestingT(t)

	router := limitedRouter(map[string]config.RateLimitConfig{
		"/tasks": {Requests: 5, Window: time.Minute},
	})

	rr := get(router, "/tasks/")

	Expect(rr.Header().Get("X-RateLimit-Limit")).To(Equal("5"))
	Expect(rr.Header().Get("X-RateLimit-Remaining")).To(Equal("4"))
}

func TestRateLimiter_PrefixCoversParamRoutes(t *testing.T) {
	RegisterTestingT(t)

	router := limitedRouter(map[string]config.RateLimitConfig{
		"/tasks": {Requests: 1, Window: time.Minute},
	})

	Expect(get(router, "/tasks/1").Code).To(Equal(http.StatusOK))
	Expect(get(router, "/tasks/1").Code).To(Equal(http.StatusTooManyRequests))
}

func TestRateLimiter_IgnoresUnconfiguredPaths(t *testing.T) {
	RegisterTestingT(t)

	router := limitedRouter(map[string]config.RateLimitConfig{
		"/tasks": {Requests: 1, Window: time.Minute},
	})

	for i := 0; i < 3; i++ {
		Expect(get(router, "/health").Code).To(Equal(http.StatusOK))
	}
}
