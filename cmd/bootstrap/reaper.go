package bootstrap

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"

	"subshare-bot/internal/pkg/config"
	"subshare-bot/internal/usecase/commands"
)

// RunReaper sweeps once at startup and then on the configured cron schedule.
// The sweep is idempotent, so overlapping or repeated runs are harmless.
func RunReaper(lc fx.Lifecycle, reaper *commands.Reaper, cfg config.Config, logger *slog.Logger) error {
	c := cron.New()
	_, err := c.AddFunc(cfg.Reaper.Schedule, func() {
		if _, err := reaper.Sweep(context.Background()); err != nil {
			logger.Error("scheduled sweep failed", "error", err.Error())
		}
	})
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := reaper.Sweep(ctx); err != nil {
				return err
			}
			c.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			<-c.Stop().Done()
			return nil
		},
	})
	return nil
}
