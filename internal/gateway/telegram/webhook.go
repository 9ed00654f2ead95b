package telegram

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"subshare-bot/internal/pkg/config"
	"subshare-bot/internal/pkg/errs"
)

// RunWebhook registers the webhook with Telegram and serves updates over
// HTTP instead of long polling. The bot token in the path keeps strangers
// from posting fake updates.
func (h *Handler) RunWebhook(ctx context.Context, cfg config.BotConfig) error {
	wh, err := tgbotapi.NewWebhook(cfg.WebhookURL + cfg.Token)
	if err != nil {
		return errs.Wrap(err, "build webhook config")
	}
	if _, err := h.api.Request(wh); err != nil {
		return errs.Wrap(err, "register webhook")
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	engine.POST("/"+cfg.Token, func(c *gin.Context) {
		var upd tgbotapi.Update
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		h.HandleUpdate(c.Request.Context(), upd)
		c.Status(http.StatusOK)
	})

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: engine}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	h.logger.Info("telegram webhook gateway started", "addr", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errs.Wrap(err, "webhook server")
	}
	return nil
}
