package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"tasksapi/internal/adapter/http/handler"
	"tasksapi/internal/adapter/http/middleware"
	"tasksapi/internal/adapter/telemetry"
	"tasksapi/pkg/config"
)

type HandlersConfig struct {
	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler
}

func SetupRouter(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *otelzap.Logger, cfg *config.AppConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	middleware.Setup(router, "tasksapi", metrics, logger, cfg)

	router.Use(gin.Recovery())

	registerRoutes(router, handlers)

	return router
}

func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	router.Use(gin.Recovery())

	registerRoutes(router, handlers)

	return router
}

func registerRoutes(router *gin.Engine, handlers HandlersConfig) {
	if handlers.HealthHandler != nil {
		router.GET("/health", handlers.HealthHandler.Check)
	}

	if handlers.TaskHandler == nil {
		return
	}

	tasks := router.Group("/tasks")
	{
		tasks.POST("/", handlers.TaskHandler.CreateTask)
		tasks.GET("/", handlers.TaskHandler.ListTasks)

		// The static reset segment must be registered on the same tree as
		// :id; gin gives static segments precedence, so a numeric id can
		// never collide with it.
		tasks.DELETE("/reset", handlers.TaskHandler.ResetTasks)

		tasks.GET("/:id", handlers.TaskHandler.GetTask)
		tasks.PUT("/:id", handlers.TaskHandler.UpdateTask)
		tasks.PATCH("/:id", handlers.TaskHandler.UpdateTask)
		tasks.DELETE("/:id", handlers.TaskHandler.DeleteTask)
	}
}
