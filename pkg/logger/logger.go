package logger

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production zap logger wrapped with otelzap so log lines
// emitted under a request context carry trace_id and span_id.
func New(serviceName string) (*otelzap.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build(zap.Fields(zap.String("service", serviceName)))

	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return otelzap.New(zapLogger), nil
}
