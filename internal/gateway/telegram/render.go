package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"subshare-bot/internal/pkg/errs"
	"subshare-bot/internal/session"
	"subshare-bot/internal/usecase/queries"
)

const menuColumns = 2

// keyboard lays choices out in rows of menuColumns buttons.
func keyboard(choices []session.Choice) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(choices); i += menuColumns {
		end := i + menuColumns
		if end > len(choices) {
			end = len(choices)
		}
		var row []tgbotapi.InlineKeyboardButton
		for _, c := range choices[i:end] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(c.Label, EncodePayload(c.Action, c.Value)))
		}
		rows = append(rows, row)
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", EncodePayload(session.ActionCancel, "")),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func mainMenu() tgbotapi.InlineKeyboardMarkup {
	flowButton := func(label string, flow session.Flow) []tgbotapi.InlineKeyboardButton {
		return []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label, EncodePayload(session.ActionStartFlow, flow.String())),
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		flowButton("👤 Add Person", session.FlowAddPerson),
		flowButton("🗑 Remove Person", session.FlowRemovePerson),
		flowButton("🔑 Add Account", session.FlowAddAccount),
		flowButton("🗑 Remove Account", session.FlowRemoveAccount),
		flowButton("➕ Add Subscription", session.FlowAddSubscription),
		flowButton("➖ Remove Subscription", session.FlowRemoveSubscription),
		flowButton("💰 Set Price", session.FlowSetPrice),
		flowButton("💸 Remove Price", session.FlowRemovePrice),
	)
}

// failureText turns a business error into a chat message. The taxonomy kinds
// are checked most-specific first: occupied slots are conflicts too, but the
// user should hear about the slot.
func failureText(err error) string {
	switch {
	case errs.Is(err, errs.ErrOccupied):
		return "❌ That slot is taken: " + rootMessage(err)
	case errs.Is(err, errs.ErrValidation):
		return "❌ Invalid input: " + rootMessage(err)
	case errs.Is(err, errs.ErrNotFound):
		return "❌ " + rootMessage(err)
	case errs.Is(err, errs.ErrConflict):
		return "❌ " + rootMessage(err)
	default:
		return "❌ Something went wrong, nothing was changed. Try again."
	}
}

// rootMessage returns a business error's message without its kind prefix.
// Only the fixed prefix is cut so identifiers containing ": " stay intact.
func rootMessage(err error) string {
	msg := err.Error()
	for _, kind := range []error{
		errs.ErrValidation, errs.ErrConflict, errs.ErrNotFound, errs.ErrOccupied, errs.ErrDataIntegrity,
	} {
		if rest, ok := strings.CutPrefix(msg, kind.Error()+": "); ok {
			return rest
		}
	}
	return msg
}

func formatPeople(people []queries.PersonView) string {
	if len(people) == 0 {
		return "No people found."
	}
	var b strings.Builder
	b.WriteString("People and their subscriptions:\n")
	for _, p := range people {
		fmt.Fprintf(&b, "\n👤 %s (last active %s):\n", p.Name, p.LastActive)
		if len(p.Subscriptions) == 0 {
			b.WriteString("  - No active subscriptions\n")
			continue
		}
		for _, sub := range p.Subscriptions {
			fmt.Fprintf(&b, "  - %s on account %s (slot %s) until %s (%d days, %s)\n",
				sub.Service, sub.Account, sub.Slot, sub.EndDate, sub.Duration, sub.Price)
		}
	}
	return b.String()
}

func formatSubscriptions(people []queries.PersonView) string {
	var b strings.Builder
	count := 0
	for _, p := range people {
		for _, sub := range p.Subscriptions {
			fmt.Fprintf(&b, "%s: %s on %s (slot %s) until %s — %s\n",
				p.Name, sub.Service, sub.Account, sub.Slot, sub.EndDate, sub.Price)
			count++
		}
	}
	if count == 0 {
		return "No active subscriptions."
	}
	return "Active subscriptions:\n" + b.String()
}

func formatServices(services []queries.ServiceView) string {
	if len(services) == 0 {
		return "No services defined."
	}
	var b strings.Builder
	b.WriteString("Services:\n")
	for _, svc := range services {
		fmt.Fprintf(&b, "%s %s\n", svc.Emoji, svc.Name)
		for _, d := range svc.Durations {
			fmt.Fprintf(&b, "  - %d days: %s\n", d.Days, d.Price)
		}
	}
	return b.String()
}
