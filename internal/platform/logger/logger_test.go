package logger

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recitehq/recite-api/internal/config"
)

func TestSetupReturnsLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := Setup(config.ServerConfig{Port: 8080, LogLevel: level})
		require.NoError(t, err, "level %s", level)
		require.NotNil(t, logger, "level %s", level)
	}
}

func TestSetupFallsBackOnInvalidLevel(t *testing.T) {
	logger, err := Setup(config.ServerConfig{Port: 8080, LogLevel: "noisy"})
	require.NoError(t, err)
	require.NotNil(t, logger)

	// Info must be enabled under the fallback level.
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestFromContext(t *testing.T) {
	base := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx := WithLogger(context.Background(), base)
	assert.Same(t, base, FromContext(ctx))

	// Without an attached logger the process default comes back.
	assert.NotNil(t, FromContext(context.Background()))
}

func TestFromContextOrDefault(t *testing.T) {
	attached := slog.New(slog.NewTextHandler(os.Stderr, nil))
	fallback := slog.New(slog.NewTextHandler(os.Stderr, nil))

	testCases := []struct {
		name string
		ctx  context.Context
		def  *slog.Logger
		want *slog.Logger
	}{
		{
			name: "attached logger wins",
			ctx:  WithLogger(context.Background(), attached),
			def:  fallback,
			want: attached,
		},
		{
			name: "fallback used when nothing attached",
			ctx:  context.Background(),
			def:  fallback,
			want: fallback,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Same(t, tc.want, FromContextOrDefault(tc.ctx, tc.def))
		})
	}
}
