package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"subshare-bot/internal/domain/subshare"
	"subshare-bot/internal/session"
	"subshare-bot/internal/usecase/commands"
)

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		h.sessions.Reset(chatID)
		reply := tgbotapi.NewMessage(chatID, "Welcome! Choose an action from the menu:")
		reply.ReplyMarkup = mainMenu()
		if _, err := h.api.Send(reply); err != nil {
			h.logger.Error("send failed", "chat_id", chatID, "error", err.Error())
		}

	case "cancel":
		prompt, err := h.sessions.Dispatch(ctx, chatID, session.CancelEvent())
		h.respond(chatID, prompt, err)

	case "listpeople":
		people, err := h.queries.ListPeople(ctx)
		if err != nil {
			h.send(chatID, failureText(err))
			return
		}
		h.send(chatID, formatPeople(people))

	case "listsubs":
		people, err := h.queries.ListPeople(ctx)
		if err != nil {
			h.send(chatID, failureText(err))
			return
		}
		h.send(chatID, formatSubscriptions(people))

	case "listservices":
		services, err := h.queries.ListServices(ctx)
		if err != nil {
			h.send(chatID, failureText(err))
			return
		}
		h.send(chatID, formatServices(services))

	case "income":
		total, err := h.queries.Income(ctx)
		if err != nil {
			h.send(chatID, failureText(err))
			return
		}
		h.send(chatID, "Current income from active subscriptions: "+total.String())

	case "export":
		data, err := h.queries.Export(ctx)
		if err != nil {
			h.send(chatID, failureText(err))
			return
		}
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "data.json", Bytes: data})
		if _, err := h.api.Send(doc); err != nil {
			h.logger.Error("send export failed", "chat_id", chatID, "error", err.Error())
		}

	case "removesub":
		prompt, err := h.sessions.Dispatch(ctx, chatID, session.StartEvent(session.FlowRemoveSubscription))
		h.respond(chatID, prompt, err)

	case "setdefaultslots":
		if len(args) != 2 {
			h.send(chatID, "Usage: /setdefaultslots <service> <count>")
			return
		}
		count, err := strconv.Atoi(args[1])
		if err != nil || count < 0 {
			h.send(chatID, "❌ Count must be a non-negative number.")
			return
		}
		if err := h.catalog.SetDefaultSlots(ctx, args[0], count); err != nil {
			h.send(chatID, failureText(err))
			return
		}
		h.send(chatID, fmt.Sprintf("New %s accounts now start with %d slots.", args[0], count))

	case "addslot":
		h.handleSlotCommand(ctx, chatID, args, "Usage: /addslot <account> <slot>…", h.slots.AddSlots, "added")

	case "removeslot":
		h.handleSlotCommand(ctx, chatID, args, "Usage: /removeslot <account> <slot>…", h.slots.RemoveSlots, "removed")

	default:
		h.send(chatID, "Unknown command. Use /start for the menu.")
	}
}

type slotOp func(ctx context.Context, account string, keys []subshare.SlotKey) (commands.SlotReport, error)

func (h *Handler) handleSlotCommand(ctx context.Context, chatID int64, args []string, usage string, op slotOp, verb string) {
	if len(args) < 2 {
		h.send(chatID, usage)
		return
	}
	account := args[0]
	keys := make([]subshare.SlotKey, 0, len(args)-1)
	for _, raw := range args[1:] {
		key, err := subshare.NewSlotKey(raw)
		if err != nil {
			h.send(chatID, failureText(err))
			return
		}
		keys = append(keys, key)
	}

	report, err := op(ctx, account, keys)
	if err != nil {
		h.send(chatID, failureText(err))
		return
	}
	h.send(chatID, formatSlotReport(account, report, verb))
}

// formatSlotReport spells out partial success: every key gets its own line.
func formatSlotReport(account string, report commands.SlotReport, verb string) string {
	var b strings.Builder
	for _, key := range report.Applied {
		fmt.Fprintf(&b, "✅ Slot %s %s on %s\n", key, verb, account)
	}
	for key, err := range report.Failed {
		fmt.Fprintf(&b, "❌ Slot %s: %s\n", key, rootMessage(err))
	}
	return strings.TrimRight(b.String(), "\n")
}
