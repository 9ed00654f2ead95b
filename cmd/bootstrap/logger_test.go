//go:build unit

package bootstrap_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subshare-bot/cmd/bootstrap"
	"subshare-bot/internal/pkg/config"
)

func TestNewLoggerLevelFromConfig(t *testing.T) {
	t.Parallel()

	// The test config runs at error level so flow noise stays out of output.
	logger := bootstrap.NewLogger(config.NewTestConfig())
	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelError))
}
