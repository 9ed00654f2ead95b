//go:build unit

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subshare-bot/internal/pkg/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, ":8080", cfg.Bot.ListenAddr)
	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "data.json", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "@daily", cfg.Reaper.Schedule)
}

func TestLoadConfigRequiresDatabaseURLForPostgres(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := config.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestNewTestConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewTestConfig()
	assert.Equal(t, "test-token", cfg.Bot.Token)
	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "@daily", cfg.Reaper.Schedule)
}
