package logger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/lecturenotes/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestFromContextOrDefault(t *testing.T) {
	defaultLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	customLogger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	tests := []struct {
		name     string
		ctx      context.Context
		def      *slog.Logger
		expected *slog.Logger
	}{
		{"empty context", context.Background(), defaultLogger, defaultLogger},
		{"context logger wins", logger.WithLogger(context.Background(), customLogger), defaultLogger, customLogger},
		{"nil default", context.Background(), nil, slog.Default()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.expected, logger.FromContextOrDefault(tt.ctx, tt.def))
		})
	}
}

func TestWithLogger(t *testing.T) {
	t.Run("valid_logger", func(t *testing.T) {
		customLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		ctx := logger.WithLogger(context.Background(), customLogger)
		assert.Same(t, customLogger, logger.FromContext(ctx))
	})

	t.Run("missing_logger", func(t *testing.T) {
		assert.Nil(t, logger.FromContext(context.Background()))
	})

	t.Run("nil_logger_panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.WithLogger(context.Background(), nil)
		})
	})
}
