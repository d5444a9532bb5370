package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"tasksapi/internal/adapter/database/postgres"
	pgrepository "tasksapi/internal/adapter/database/postgres/repository"
	"tasksapi/internal/adapter/database/sqlite"
	sqliterepository "tasksapi/internal/adapter/database/sqlite/repository"
	"tasksapi/internal/adapter/http/routes"
	"tasksapi/internal/adapter/telemetry"
	"tasksapi/internal/core/port"
	"tasksapi/pkg/config"
)

// StartServer opens the store (postgres when DATABASE_URL is set, the
// sqlite file otherwise), ensures the schema, wires the container and
// serves until the listener fails.
func StartServer(metrics *telemetry.AppMetrics, logger *otelzap.Logger, cfg *config.AppConfig) {
	repo, closeDB, err := openRepository(cfg)

	if err != nil {
		slog.Error("Failed to open database", "error", err)
		return
	}

	defer closeDB()

	container := NewContainer(repo)

	router := routes.SetupRouter(routes.HandlersConfig{
		TaskHandler:   container.TaskHandler,
		HealthHandler: container.HealthHandler,
	}, metrics, logger, cfg)

	slog.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"rate_limit_enabled", cfg.RateLimitEnabled,
		"cache_enabled", cfg.CacheEnabled)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed to start", "error", err)
	}
}

func openRepository(cfg *config.AppConfig) (port.TaskRepository, func(), error) {
	if cfg.DB.URL != "" {
		db, err := postgres.NewDB(context.Background(), cfg.DB)

		if err != nil {
			return nil, nil, err
		}

		return pgrepository.NewTaskRepository(db), db.Close, nil
	}

	db, err := sqlite.NewDB(cfg.DB)

	if err != nil {
		return nil, nil, err
	}

	return sqliterepository.NewTaskRepository(db), func() { db.Close() }, nil
}
