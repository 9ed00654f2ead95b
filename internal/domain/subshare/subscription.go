package subshare

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"subshare-bot/internal/pkg/clock"
	"subshare-bot/internal/pkg/errs"
)

// AddPerson registers a person with no subscriptions.
func (s *Snapshot) AddPerson(name string, today time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.Validationf("person name must not be empty")
	}
	if _, exists := s.People[name]; exists {
		return errs.Conflictf("person %q already exists", name)
	}
	s.People[name] = &Person{Subscriptions: []Subscription{}, LastActive: clock.FormatDate(today)}
	return nil
}

// RemovePerson deletes a person, first freeing every slot they occupy on any
// account.
func (s *Snapshot) RemovePerson(name string) error {
	if _, err := s.person(name); err != nil {
		return err
	}
	for _, a := range s.Accounts {
		for key, occupant := range a.Slots {
			if occupant == name {
				a.Slots[key] = ""
			}
		}
	}
	delete(s.People, name)
	return nil
}

// CreateSubscription quotes the catalog price, claims the slot and appends
// the record to the person, creating the person when unknown. The caller's
// store transaction makes all four effects atomic: any failure here leaves
// no partial state behind because the mutated copy is discarded.
func (s *Snapshot) CreateSubscription(person, service, account string, slot SlotKey, days int, today time.Time) (Subscription, error) {
	person = strings.TrimSpace(person)
	if person == "" {
		return Subscription{}, errs.Validationf("person name must not be empty")
	}
	price, err := s.PriceFor(service, days)
	if err != nil {
		return Subscription{}, err
	}
	a, err := s.account(account)
	if err != nil {
		return Subscription{}, err
	}
	if a.Service != "" && a.Service != service {
		return Subscription{}, errs.Validationf("account %q belongs to service %q, not %q", account, a.Service, service)
	}
	if err := s.Assign(account, slot, person); err != nil {
		return Subscription{}, err
	}

	sub := Subscription{
		ID:       uuid.New(),
		Service:  service,
		Account:  account,
		Slot:     slot,
		Duration: days,
		EndDate:  clock.FormatDate(today.AddDate(0, 0, days)),
		Price:    price,
	}
	p := s.ensurePerson(person, today)
	p.Subscriptions = append(p.Subscriptions, sub)
	p.LastActive = clock.FormatDate(today)
	return sub, nil
}

// RemoveSubscription drops the subscription at the given position. The slot
// is freed only while this person is still its occupant, so a manual
// reassignment is never double-freed.
func (s *Snapshot) RemoveSubscription(person string, index int, today time.Time) (Subscription, error) {
	p, err := s.person(person)
	if err != nil {
		return Subscription{}, err
	}
	if index < 0 || index >= len(p.Subscriptions) {
		return Subscription{}, errs.NotFoundf("person %q has no subscription #%d", person, index)
	}
	sub := p.Subscriptions[index]
	p.Subscriptions = append(p.Subscriptions[:index], p.Subscriptions[index+1:]...)
	if a, ok := s.Accounts[sub.Account]; ok && a.Slots[sub.Slot] == person {
		a.Slots[sub.Slot] = ""
	}
	p.LastActive = clock.FormatDate(today)
	return sub, nil
}

// RemoveSubscriptionByID is the stable-identity variant used by callback
// payloads, immune to index shifts between menu render and confirmation.
func (s *Snapshot) RemoveSubscriptionByID(person string, id uuid.UUID, today time.Time) (Subscription, error) {
	p, err := s.person(person)
	if err != nil {
		return Subscription{}, err
	}
	for i, sub := range p.Subscriptions {
		if sub.ID == id {
			return s.RemoveSubscription(person, i, today)
		}
	}
	return Subscription{}, errs.NotFoundf("person %q has no subscription %s", person, id)
}

// Income sums the frozen quotes of every current subscription.
func (s *Snapshot) Income() Price {
	var total Price
	for _, p := range s.People {
		for _, sub := range p.Subscriptions {
			total += sub.Price
		}
	}
	return total
}
