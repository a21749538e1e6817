package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/kanban-api/internal/config"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level falls back to info", "verbose"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := Setup(config.ServerConfig{
				Port:     8080,
				LogLevel: tc.logLevel,
			})
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestSetupWithLogFile(t *testing.T) {
	logFile := t.TempDir() + "/app.log"

	logger, err := Setup(config.ServerConfig{
		Port:     8080,
		LogLevel: "info",
		LogFile:  logFile,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	base := slog.New(slog.NewTextHandler(io.Discard, nil)).With("component", "test")

	ctx := WithLogger(context.Background(), base)
	assert.Same(t, base, FromContext(ctx))
	assert.Same(t, base, FromContextOrDefault(ctx, nil))

	// No logger in context
	empty := context.Background()
	assert.Same(t, slog.Default(), FromContext(empty))

	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, fallback, FromContextOrDefault(empty, fallback))
	assert.Same(t, slog.Default(), FromContextOrDefault(empty, nil))
}
