package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	api "tasksapi/internal/adapter/http"
	"tasksapi/internal/adapter/telemetry"
	"tasksapi/pkg/config"
	"tasksapi/pkg/logger"
)

func main() {
	ctx := context.Background()

	appLogger, err := logger.New("tasksapi")

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer appLogger.Sync()

	tel, err := telemetry.Init(telemetry.Config{
		ServiceName:    "tasksapi",
		ServiceVersion: "1.0.0",
		MetricsPort:    envOr("METRICS_PORT", "9091"),
		OTLPEndpoint:   envOr("OTLP_ENDPOINT", "localhost:4317"),
	})

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer tel.Shutdown(ctx)

	metrics := telemetry.NewAppMetrics(tel.PrometheusRegistry)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		cfg := config.GetDefaultConfig()

		if os.Getenv("GIN_MODE") == "release" {
			cfg.Environment = "production"
		}

		api.StartServer(metrics, appLogger, cfg)
	}()

	<-c
	appLogger.Info("Shutting down gracefully...")
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}
