package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (bot token, DB connection)
// - default: Values common across all environments (store driver, schedules)
// -----------------------------------------------------------------------------

type Config struct {
	Bot    BotConfig
	Store  StoreConfig
	Log    LogConfig
	Reaper ReaperConfig
}

type BotConfig struct {
	Token string `envconfig:"BOT_TOKEN" required:"true"`
	// WebhookURL switches the gateway from long polling to webhook mode when
	// non-empty, e.g. https://yourapp.example.com/
	WebhookURL string `envconfig:"WEBHOOK_URL"`
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`
	Debug      bool   `envconfig:"BOT_DEBUG" default:"false"`
}

type StoreConfig struct {
	Driver      string `envconfig:"STORE_DRIVER" default:"file"` // file | postgres
	Path        string `envconfig:"DATA_FILE" default:"data.json"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type ReaperConfig struct {
	// Schedule is a robfig/cron spec for periodic sweeps; the startup sweep
	// always runs regardless.
	Schedule string `envconfig:"REAPER_SCHEDULE" default:"@daily"`
}

func LoadConfig() (Config, error) {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if cfg.Store.Driver == "postgres" && cfg.Store.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Bot: BotConfig{
			Token:      "test-token",
			ListenAddr: ":8889",
		},
		Store: StoreConfig{
			Driver: "file",
			Path:   "data.json",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Reaper: ReaperConfig{
			Schedule: "@daily",
		},
	}
}
