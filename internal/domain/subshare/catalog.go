package subshare

import (
	"strings"

	"subshare-bot/internal/pkg/errs"
)

// DefaultEmoji marks services created without an explicit glyph.
const DefaultEmoji = "❓"

// UpsertService creates the service if absent and updates the emoji when a
// non-empty one is supplied.
func (s *Snapshot) UpsertService(name, emoji string) (*Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validationf("service name must not be empty")
	}
	svc, ok := s.Services[name]
	if !ok {
		svc = &Service{Emoji: DefaultEmoji, Durations: map[int]Price{}}
		s.Services[name] = svc
	}
	if emoji = strings.TrimSpace(emoji); emoji != "" {
		svc.Emoji = emoji
	}
	return svc, nil
}

// SetPrice inserts or overwrites the duration→price entry, creating the
// service on first use.
func (s *Snapshot) SetPrice(service string, days int, price Price) error {
	if days <= 0 {
		return errs.Validationf("duration must be positive, got %d", days)
	}
	if price < 0 {
		return errs.Validationf("price must be non-negative, got %s", price)
	}
	svc, err := s.UpsertService(service, "")
	if err != nil {
		return err
	}
	svc.Durations[days] = price
	return nil
}

func (s *Snapshot) RemovePrice(service string, days int) error {
	svc, err := s.service(service)
	if err != nil {
		return err
	}
	if _, ok := svc.Durations[days]; !ok {
		return errs.NotFoundf("service %q has no %d-day price", service, days)
	}
	delete(svc.Durations, days)
	return nil
}

// RemoveService deletes a catalog entry. Rejected while any account or
// subscription still references the service.
func (s *Snapshot) RemoveService(name string) error {
	if _, err := s.service(name); err != nil {
		return err
	}
	for id, a := range s.Accounts {
		if a.Service == name {
			return errs.Conflictf("service %q is used by account %q", name, id)
		}
	}
	for person, p := range s.People {
		for _, sub := range p.Subscriptions {
			if sub.Service == name {
				return errs.Conflictf("service %q has an active subscription for %q", name, person)
			}
		}
	}
	delete(s.Services, name)
	return nil
}

// PriceFor returns the catalog price for the pairing, the lookup every
// subscription creation goes through.
func (s *Snapshot) PriceFor(service string, days int) (Price, error) {
	svc, err := s.service(service)
	if err != nil {
		return 0, err
	}
	price, ok := svc.Durations[days]
	if !ok {
		return 0, errs.NotFoundf("no price configured for %q / %d days", service, days)
	}
	return price, nil
}

// SetDefaultSlots records how many slots a new account of this service
// starts with.
func (s *Snapshot) SetDefaultSlots(service string, count int) error {
	if count < 0 {
		return errs.Validationf("default slot count must be non-negative, got %d", count)
	}
	if strings.TrimSpace(service) == "" {
		return errs.Validationf("service name must not be empty")
	}
	s.DefaultSlots[service] = count
	return nil
}
