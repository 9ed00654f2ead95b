package main

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"

	"subshare-bot/cmd/bootstrap"
	"subshare-bot/internal/gateway/telegram"
	"subshare-bot/internal/pkg/config"
)

func startGateway(lc fx.Lifecycle, h *telegram.Handler, cfg config.Config, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if cfg.Bot.WebhookURL != "" {
					if err := h.RunWebhook(ctx, cfg.Bot); err != nil {
						logger.Error("webhook gateway stopped", "error", err.Error())
					}
					return
				}
				h.Run(ctx)
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		bootstrap.Module,
		fx.Invoke(
			bootstrap.RunReaper,
			startGateway,
		),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("failed to stop cleanly", "error", err)
		os.Exit(1)
	}
}
