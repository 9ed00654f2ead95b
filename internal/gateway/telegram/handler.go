// Package telegram is the chat transport: it turns Telegram updates into
// session events and renders the prompts and failures coming back. No
// business rules live here.
package telegram

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"subshare-bot/internal/pkg/errs"
	"subshare-bot/internal/session"
	"subshare-bot/internal/usecase/commands"
	"subshare-bot/internal/usecase/queries"
)

type Handler struct {
	api      *tgbotapi.BotAPI
	sessions *session.Manager
	queries  queries.Queries
	catalog  commands.CatalogCommands
	slots    commands.SlotCommands
	logger   *slog.Logger
}

func NewHandler(
	api *tgbotapi.BotAPI,
	sessions *session.Manager,
	q queries.Queries,
	catalog commands.CatalogCommands,
	slots commands.SlotCommands,
	logger *slog.Logger,
) *Handler {
	return &Handler{api: api, sessions: sessions, queries: q, catalog: catalog, slots: slots, logger: logger}
}

// Run consumes updates via long polling until the context is cancelled.
func (h *Handler) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.api.GetUpdatesChan(u)

	h.logger.Info("telegram gateway started", "username", h.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			h.api.StopReceivingUpdates()
			return
		case upd := <-updates:
			h.HandleUpdate(ctx, upd)
		}
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		h.handleCallback(ctx, upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	if !msg.Chat.IsPrivate() {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	if msg.IsCommand() {
		h.handleCommand(ctx, msg)
		return
	}

	prompt, err := h.sessions.Dispatch(ctx, msg.Chat.ID, session.TextEvent(text))
	h.respond(msg.Chat.ID, prompt, err)
}

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	// Telegram expects an answer for every callback.
	defer h.api.Request(tgbotapi.NewCallback(q.ID, ""))

	if q.Message == nil {
		return
	}
	action, value, ok := ParsePayload(q.Data)
	if !ok {
		return
	}

	var ev session.Event
	switch action {
	case session.ActionStartFlow:
		flow, known := session.ParseFlow(value)
		if !known {
			return
		}
		ev = session.StartEvent(flow)
	case session.ActionCancel:
		ev = session.CancelEvent()
	default:
		ev = session.SelectEvent(action, value)
	}

	chatID := q.Message.Chat.ID
	prompt, err := h.sessions.Dispatch(ctx, chatID, ev)
	if err != nil {
		h.logFlowFailure(chatID, err, "action", action)
		h.edit(chatID, q.Message.MessageID, failureText(err), nil)
		return
	}
	if prompt.Ignored {
		return
	}
	if len(prompt.Choices) == 0 {
		h.edit(chatID, q.Message.MessageID, prompt.Text, nil)
		return
	}
	kb := keyboard(prompt.Choices)
	h.edit(chatID, q.Message.MessageID, prompt.Text, &kb)
}

func (h *Handler) respond(chatID int64, prompt session.Prompt, err error) {
	if err != nil {
		h.logFlowFailure(chatID, err)
		h.send(chatID, failureText(err))
		return
	}
	if prompt.Ignored {
		return
	}
	if len(prompt.Choices) == 0 {
		h.send(chatID, prompt.Text)
		return
	}
	msg := tgbotapi.NewMessage(chatID, prompt.Text)
	msg.ReplyMarkup = keyboard(prompt.Choices)
	if _, err := h.api.Send(msg); err != nil {
		h.logger.Error("send failed", "chat_id", chatID, "error", err.Error())
	}
}

// logFlowFailure records a failed flow step with the first stack frames so
// the failing call site shows up in logs.
func (h *Handler) logFlowFailure(chatID int64, err error, attrs ...any) {
	args := append([]any{"chat_id", chatID, "error", err.Error()}, attrs...)
	if lines := errs.ExtractStackLines(err, 6); len(lines) > 1 {
		args = append(args, "stack", lines[1:])
	}
	h.logger.Warn("flow failed", args...)
}

func (h *Handler) send(chatID int64, text string) {
	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.logger.Error("send failed", "chat_id", chatID, "error", err.Error())
	}
}

func (h *Handler) edit(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ReplyMarkup = kb
	if _, err := h.api.Send(edit); err != nil {
		h.logger.Error("edit failed", "chat_id", chatID, "error", err.Error())
	}
}
