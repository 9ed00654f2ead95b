package components

import (
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"

	"subshare-bot/internal/gateway/telegram"
	"subshare-bot/internal/pkg/config"
	"subshare-bot/internal/session"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		NewBotAPI,
		session.NewMachine,
		session.NewManager,
		telegram.NewHandler,
	),
)

func NewBotAPI(cfg config.Config, logger *slog.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return nil, err
	}
	api.Debug = cfg.Bot.Debug
	logger.Info("telegram bot authorized", "username", api.Self.UserName)
	return api, nil
}
