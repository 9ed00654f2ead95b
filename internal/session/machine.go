package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"subshare-bot/internal/domain/subshare"
	"subshare-bot/internal/pkg/errs"
	"subshare-bot/internal/usecase/commands"
	"subshare-bot/internal/usecase/shared"
)

// Machine drives the conversation flows. Menus are always built from a fresh
// store load; the engines re-check every precondition at commit time, so a
// menu rendered before a racing commit can still fail cleanly.
type Machine struct {
	store   shared.SnapshotStore
	subs    commands.SubscriptionCommands
	catalog commands.CatalogCommands
	slots   commands.SlotCommands
	logger  *slog.Logger
}

func NewMachine(
	store shared.SnapshotStore,
	subs commands.SubscriptionCommands,
	catalog commands.CatalogCommands,
	slots commands.SlotCommands,
	logger *slog.Logger,
) *Machine {
	return &Machine{store: store, subs: subs, catalog: catalog, slots: slots, logger: logger}
}

// Handle advances the session by one event. On a business error the session
// is cleared and the error returned for rendering; no partial state is
// committed.
func (m *Machine) Handle(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	switch ev.Kind {
	case EventCancel:
		if sess.Idle() {
			return terminal("Nothing to cancel."), nil
		}
		sess.reset()
		return terminal("Operation cancelled."), nil
	case EventStart:
		sess.reset()
		return m.start(ctx, sess, ev.Flow)
	case EventSelect, EventText:
		if sess.Idle() {
			return ignored(), nil
		}
		return m.advance(ctx, sess, ev)
	default:
		return ignored(), nil
	}
}

func (m *Machine) start(ctx context.Context, sess *Session, flow Flow) (Prompt, error) {
	switch flow {
	case FlowAddPerson:
		sess.flow, sess.step = flow, StepAddPersonName
		return Prompt{Text: "Send the name of the person to add:"}, nil

	case FlowRemovePerson:
		snap, err := m.load(ctx, sess)
		if err != nil {
			return Prompt{}, err
		}
		names := sortedKeys(snap.People)
		if len(names) == 0 {
			return terminal("No people found."), nil
		}
		sess.flow, sess.step = flow, StepRemovePersonChoose
		return Prompt{Text: "Select a person to remove:", Choices: nameChoices(names, ActionRemovePerson)}, nil

	case FlowAddAccount:
		snap, err := m.load(ctx, sess)
		if err != nil {
			return Prompt{}, err
		}
		if len(snap.Services) == 0 {
			return terminal("No services defined. Set a price first so the account can be tied to a service."), nil
		}
		sess.flow, sess.step = flow, StepAddAccountID
		return Prompt{Text: "Send the new account id (e.g. Netflix user@gmail.com):"}, nil

	case FlowRemoveAccount:
		snap, err := m.load(ctx, sess)
		if err != nil {
			return Prompt{}, err
		}
		ids := sortedKeys(snap.Accounts)
		if len(ids) == 0 {
			return terminal("No accounts found."), nil
		}
		sess.flow, sess.step = flow, StepRemoveAccountChoose
		return Prompt{Text: "Select an account to remove:", Choices: nameChoices(ids, ActionRemoveAccount)}, nil

	case FlowAddSubscription:
		snap, err := m.load(ctx, sess)
		if err != nil {
			return Prompt{}, err
		}
		names := sortedKeys(snap.People)
		if len(names) == 0 {
			return terminal("No people found. Add a person first."), nil
		}
		sess.flow, sess.step = flow, StepSubPerson
		sess.acc = &addSubAcc{}
		return Prompt{Text: "Select a person for the subscription:", Choices: nameChoices(names, ActionSubPerson)}, nil

	case FlowRemoveSubscription:
		snap, err := m.load(ctx, sess)
		if err != nil {
			return Prompt{}, err
		}
		var names []string
		for name, p := range snap.People {
			if len(p.Subscriptions) > 0 {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			return terminal("Nobody has an active subscription."), nil
		}
		sort.Strings(names)
		sess.flow, sess.step = flow, StepRemoveSubPerson
		sess.acc = &removeSubAcc{}
		return Prompt{Text: "Whose subscription should be removed?", Choices: nameChoices(names, ActionRemoveSubPerson)}, nil

	case FlowSetPrice:
		sess.flow, sess.step = flow, StepPriceService
		sess.acc = &setPriceAcc{}
		return Prompt{Text: "Send the service name to add or edit (e.g. Netflix):"}, nil

	case FlowRemovePrice:
		snap, err := m.load(ctx, sess)
		if err != nil {
			return Prompt{}, err
		}
		var names []string
		for name, svc := range snap.Services {
			if len(svc.Durations) > 0 {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			return terminal("No prices configured."), nil
		}
		sort.Strings(names)
		sess.flow, sess.step = flow, StepRemovePriceService
		sess.acc = &removePriceAcc{}
		return Prompt{Text: "Select a service:", Choices: nameChoices(names, ActionRemovePriceSvc)}, nil

	default:
		return ignored(), nil
	}
}

func (m *Machine) advance(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	switch sess.step {
	case StepAddPersonName:
		return m.addPersonName(ctx, sess, ev)
	case StepRemovePersonChoose:
		return m.removePersonChoose(ctx, sess, ev)
	case StepAddAccountID:
		return m.addAccountID(ctx, sess, ev)
	case StepAddAccountService:
		return m.addAccountService(ctx, sess, ev)
	case StepRemoveAccountChoose:
		return m.removeAccountChoose(ctx, sess, ev)
	case StepSubPerson:
		return m.subPerson(ctx, sess, ev)
	case StepSubService:
		return m.subService(ctx, sess, ev)
	case StepSubAccount:
		return m.subAccount(ctx, sess, ev)
	case StepSubSlot:
		return m.subSlot(ctx, sess, ev)
	case StepSubDuration:
		return m.subDuration(ctx, sess, ev)
	case StepRemoveSubPerson:
		return m.removeSubPerson(ctx, sess, ev)
	case StepRemoveSubChoose:
		return m.removeSubChoose(ctx, sess, ev)
	case StepPriceService:
		return m.priceService(sess, ev)
	case StepPriceEmoji:
		return m.priceEmoji(sess, ev)
	case StepPriceDays:
		return m.priceDays(sess, ev)
	case StepPriceAmount:
		return m.priceAmount(ctx, sess, ev)
	case StepRemovePriceService:
		return m.removePriceService(ctx, sess, ev)
	case StepRemovePriceDuration:
		return m.removePriceDuration(ctx, sess, ev)
	default:
		return ignored(), nil
	}
}

// ---- AddPerson ----

func (m *Machine) addPersonName(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	if ev.Kind != EventText {
		return ignored(), nil
	}
	name := ev.Value
	if err := m.commit(sess, m.subs.AddPerson(ctx, name)); err != nil {
		return Prompt{}, err
	}
	return terminal(fmt.Sprintf("Person %q added.", name)), nil
}

// ---- RemovePerson ----

func (m *Machine) removePersonChoose(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	if !matches(ev, ActionRemovePerson) {
		return ignored(), nil
	}
	name := ev.Value
	if err := m.commit(sess, m.subs.RemovePerson(ctx, name)); err != nil {
		return Prompt{}, err
	}
	return terminal(fmt.Sprintf("Person %q removed; their slots are free again.", name)), nil
}

// ---- AddAccount ----

func (m *Machine) addAccountID(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	if ev.Kind != EventText {
		return ignored(), nil
	}
	snap, err := m.load(ctx, sess)
	if err != nil {
		return Prompt{}, err
	}
	names := sortedKeys(snap.Services)
	if len(names) == 0 {
		sess.reset()
		return terminal("No services defined. Set a price first so the account can be tied to a service."), nil
	}
	sess.acc = &addAccountAcc{id: ev.Value}
	sess.step = StepAddAccountService
	return Prompt{Text: "Which service does this account belong to?", Choices: serviceChoices(snap, names, ActionAccountService)}, nil
}

func (m *Machine) addAccountService(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	if !matches(ev, ActionAccountService) {
		return ignored(), nil
	}
	acc := sess.acc.(*addAccountAcc)
	created, err := m.slots.CreateAccount(ctx, acc.id, ev.Value)
	if err := m.commit(sess, err); err != nil {
		return Prompt{}, err
	}
	return terminal(fmt.Sprintf("Account %q created for %s with %d slots.", acc.id, ev.Value, len(created.Slots))), nil
}

// ---- RemoveAccount ----

func (m *Machine) removeAccountChoose(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	if !matches(ev, ActionRemoveAccount) {
		return ignored(), nil
	}
	id := ev.Value
	if err := m.commit(sess, m.subs.RemoveAccount(ctx, id)); err != nil {
		return Prompt{}, err
	}
	return terminal(fmt.Sprintf("Account %q removed.", id)), nil
}

// ---- AddSubscription ----

func (m *Machine) subPerson(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	if !matches(ev, ActionSubPerson) {
		return ignored(), nil
	}
	snap, err := m.load(ctx, sess)
	if err != nil {
		return Prompt{}, err
	}
	names := sortedKeys(snap.Services)
	if len(names) == 0 {
		sess.reset()
		return terminal("No services defined. Use the price menu to add one first."), nil
	}
	sess.acc.(*addSubAcc).person = ev.Value
	sess.step = StepSubService
	return Prompt{Text: "Select a service:", Choices: serviceChoices(snap, names, ActionSubService)}, nil
}

func (m *Machine) subService(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	if !matches(ev, ActionSubService) {
		return ignored(), nil
	}
	snap, err := m.load(ctx, sess)
	if err != nil {
		return Prompt{}, err
	}
	service := ev.Value
	var ids []string
	for id, a := range snap.Accounts {
		if a.Service == service {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		sess.reset()
		return terminal(fmt.Sprintf("No accounts for %s. Add an account first.", service)), nil
	}
	sort.Strings(ids)
	sess.acc.(*addSubAcc).service = service
	sess.step = StepSubAccount
	return Prompt{Text: "Select an account:", Choices: nameChoices(ids, ActionSubAccount)}, nil
}

func (m *Machine) subAccount(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	if !matches(ev, ActionSubAccount) {
		return ignored(), nil
	}
	snap, err := m.load(ctx, sess)
	if err != nil {
		return Prompt{}, err
	}
	a, ok := snap.Accounts[ev.Value]
	if !ok {
		sess.reset()
		return Prompt{}, errs.NotFoundf("account %q not found", ev.Value)
	}
	free := a.FreeSlots()
	if len(free) == 0 {
		sess.reset()
		return terminal("No free slots available on this account."), nil
	}
	choices := make([]Choice, 0, len(free))
	for _, key := range free {
		choices = append(choices, Choice{Label: "Slot " + key.String(), Action: ActionSubSlot, Value: key.String()})
	}
	sess.acc.(*addSubAcc).account = ev.Value
	sess.step = StepSubSlot
	return Prompt{Text: "Select a slot:", Choices: choices}, nil
}

func (m *Machine) subSlot(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	if !matches(ev, ActionSubSlot) {
		return ignored(), nil
	}
	acc := sess.acc.(*addSubAcc)
	snap, err := m.load(ctx, sess)
	if err != nil {
		return Prompt{}, err
	}
	svc, ok := snap.Services[acc.service]
	if !ok || len(svc.Durations) == 0 {
		sess.reset()
		return terminal(fmt.Sprintf("No durations priced for %s.", acc.service)), nil
	}
	days := make([]int, 0, len(svc.Durations))
	for d := range svc.Durations {
		days = append(days, d)
	}
	sort.Ints(days)
	choices := make([]Choice, 0, len(days))
	for _, d := range days {
		label := fmt.Sprintf("%d days — %s", d, svc.Durations[d])
		choices = append(choices, Choice{Label: label, Action: ActionSubDuration, Value: strconv.Itoa(d)})
	}
	acc.slot = subshare.SlotKey(ev.Value)
	sess.step = StepSubDuration
	return Prompt{Text: "Select the subscription duration:", Choices: choices}, nil
}

func (m *Machine) subDuration(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	if !matches(ev, ActionSubDuration) {
		return ignored(), nil
	}
	days, err := subshare.ParseDurationDays(ev.Value)
	if err != nil {
		sess.reset()
		return Prompt{}, err
	}
	acc := sess.acc.(*addSubAcc)
	sub, err := m.subs.Create(ctx, commands.CreateSubscriptionRequest{
		Person:  acc.person,
		Service: acc.service,
		Account: acc.account,
		Slot:    acc.slot,
		Days:    days,
	})
	if err := m.commit(sess, err); err != nil {
		return Prompt{}, err
	}
	return terminal(fmt.Sprintf(
		"Subscription added:\n\nPerson: %s\nService: %s\nAccount: %s\nSlot: %s\nDuration: %d days\nPrice: %s\nExpires on: %s",
		acc.person, sub.Service, sub.Account, sub.Slot, sub.Duration, sub.Price, sub.EndDate,
	)), nil
}

// ---- RemoveSubscription ----

func (m *Machine) removeSubPerson(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	if !matches(ev, ActionRemoveSubPerson) {
		return ignored(), nil
	}
	snap, err := m.load(ctx, sess)
	if err != nil {
		return Prompt{}, err
	}
	p, ok := snap.People[ev.Value]
	if !ok || len(p.Subscriptions) == 0 {
		sess.reset()
		return terminal(fmt.Sprintf("%s has no subscriptions.", ev.Value)), nil
	}
	choices := make([]Choice, 0, len(p.Subscriptions))
	for _, sub := range p.Subscriptions {
		label := fmt.Sprintf("%s on %s (slot %s) until %s", sub.Service, sub.Account, sub.Slot, sub.EndDate)
		choices = append(choices, Choice{Label: label, Action: ActionRemoveSubChoose, Value: sub.ID.String()})
	}
	sess.acc.(*removeSubAcc).person = ev.Value
	sess.step = StepRemoveSubChoose
	return Prompt{Text: "Select the subscription to remove:", Choices: choices}, nil
}

func (m *Machine) removeSubChoose(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	if !matches(ev, ActionRemoveSubChoose) {
		return ignored(), nil
	}
	id, err := uuid.Parse(ev.Value)
	if err != nil {
		sess.reset()
		return Prompt{}, errs.Validationf("malformed subscription reference %q", ev.Value)
	}
	acc := sess.acc.(*removeSubAcc)
	sub, err := m.subs.RemoveByID(ctx, acc.person, id)
	if err := m.commit(sess, err); err != nil {
		return Prompt{}, err
	}
	return terminal(fmt.Sprintf("Removed %s subscription for %s; slot %s on %s is free again.",
		sub.Service, acc.person, sub.Slot, sub.Account)), nil
}

// ---- SetPrice ----

func (m *Machine) priceService(sess *Session, ev Event) (Prompt, error) {
	if ev.Kind != EventText {
		return ignored(), nil
	}
	if ev.Value == "" {
		sess.reset()
		return Prompt{}, errs.Validationf("service name must not be empty")
	}
	sess.acc.(*setPriceAcc).service = ev.Value
	sess.step = StepPriceEmoji
	return Prompt{Text: fmt.Sprintf("Service %q selected. Send its emoji, or /skip to keep the current one:", ev.Value)}, nil
}

func (m *Machine) priceEmoji(sess *Session, ev Event) (Prompt, error) {
	if ev.Kind != EventText {
		return ignored(), nil
	}
	if ev.Value != "/skip" {
		sess.acc.(*setPriceAcc).emoji = ev.Value
	}
	sess.step = StepPriceDays
	return Prompt{Text: "Send the duration in days (e.g. 30):"}, nil
}

func (m *Machine) priceDays(sess *Session, ev Event) (Prompt, error) {
	if ev.Kind != EventText {
		return ignored(), nil
	}
	days, err := subshare.ParseDurationDays(ev.Value)
	if err != nil {
		sess.reset()
		return Prompt{}, err
	}
	sess.acc.(*setPriceAcc).days = days
	sess.step = StepPriceAmount
	return Prompt{Text: "Now send the price (e.g. 10.99):"}, nil
}

func (m *Machine) priceAmount(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	if ev.Kind != EventText {
		return ignored(), nil
	}
	price, err := subshare.ParsePrice(ev.Value)
	if err != nil {
		sess.reset()
		return Prompt{}, err
	}
	acc := sess.acc.(*setPriceAcc)
	if err := m.commit(sess, m.catalog.SetPriceFor(ctx, acc.service, acc.emoji, acc.days, price)); err != nil {
		return Prompt{}, err
	}
	return terminal(fmt.Sprintf("Price set: %s — %d days = %s", acc.service, acc.days, price)), nil
}

// ---- RemovePrice ----

func (m *Machine) removePriceService(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	if !matches(ev, ActionRemovePriceSvc) {
		return ignored(), nil
	}
	snap, err := m.load(ctx, sess)
	if err != nil {
		return Prompt{}, err
	}
	svc, ok := snap.Services[ev.Value]
	if !ok || len(svc.Durations) == 0 {
		sess.reset()
		return terminal(fmt.Sprintf("No prices configured for %s.", ev.Value)), nil
	}
	days := make([]int, 0, len(svc.Durations))
	for d := range svc.Durations {
		days = append(days, d)
	}
	sort.Ints(days)
	choices := make([]Choice, 0, len(days))
	for _, d := range days {
		label := fmt.Sprintf("%d days — %s", d, svc.Durations[d])
		choices = append(choices, Choice{Label: label, Action: ActionRemovePriceDays, Value: strconv.Itoa(d)})
	}
	sess.acc.(*removePriceAcc).service = ev.Value
	sess.step = StepRemovePriceDuration
	return Prompt{Text: "Select the duration to remove:", Choices: choices}, nil
}

func (m *Machine) removePriceDuration(ctx context.Context, sess *Session, ev Event) (Prompt, error) {
	if !matches(ev, ActionRemovePriceDays) {
		return ignored(), nil
	}
	days, err := subshare.ParseDurationDays(ev.Value)
	if err != nil {
		sess.reset()
		return Prompt{}, err
	}
	acc := sess.acc.(*removePriceAcc)
	if err := m.commit(sess, m.catalog.RemovePrice(ctx, acc.service, days)); err != nil {
		return Prompt{}, err
	}
	return terminal(fmt.Sprintf("Removed the %d-day price for %s.", days, acc.service)), nil
}

// ---- helpers ----

// commit clears the session regardless of outcome: both success and business
// failure end the flow.
func (m *Machine) commit(sess *Session, err error) error {
	sess.reset()
	return err
}

// load fetches a fresh snapshot; a store fault aborts the flow.
func (m *Machine) load(ctx context.Context, sess *Session) (*subshare.Snapshot, error) {
	snap, err := m.store.Load(ctx)
	if err != nil {
		sess.reset()
		return nil, err
	}
	return snap, nil
}

func matches(ev Event, action string) bool {
	return ev.Kind == EventSelect && ev.Action == action
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nameChoices(names []string, action string) []Choice {
	choices := make([]Choice, 0, len(names))
	for _, name := range names {
		choices = append(choices, Choice{Label: name, Action: action, Value: name})
	}
	return choices
}

func serviceChoices(snap *subshare.Snapshot, names []string, action string) []Choice {
	choices := make([]Choice, 0, len(names))
	for _, name := range names {
		label := name
		if svc, ok := snap.Services[name]; ok && svc.Emoji != "" {
			label = svc.Emoji + " " + name
		}
		choices = append(choices, Choice{Label: label, Action: action, Value: name})
	}
	return choices
}
