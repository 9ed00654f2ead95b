// Package subshare holds the whole entity graph of the slot tracker as one
// aggregate. Every mutation is a method on Snapshot so the store can apply it
// inside a single read-modify-write critical section.
package subshare

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"subshare-bot/internal/pkg/clock"
	"subshare-bot/internal/pkg/errs"
)

// Snapshot is loaded and replaced wholesale by the store. No component holds
// onto one across commits; menus are always built from a fresh load.
type Snapshot struct {
	People       map[string]*Person  `json:"people"`
	Accounts     map[string]*Account `json:"accounts"`
	Services     map[string]*Service `json:"services"`
	DefaultSlots map[string]int      `json:"default_slots"`
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		People:       map[string]*Person{},
		Accounts:     map[string]*Account{},
		Services:     map[string]*Service{},
		DefaultSlots: map[string]int{},
	}
}

// Normalize fills in nil collections after unmarshalling old or hand-edited
// snapshots.
func (s *Snapshot) Normalize() {
	if s.People == nil {
		s.People = map[string]*Person{}
	}
	if s.Accounts == nil {
		s.Accounts = map[string]*Account{}
	}
	if s.Services == nil {
		s.Services = map[string]*Service{}
	}
	if s.DefaultSlots == nil {
		s.DefaultSlots = map[string]int{}
	}
	for _, p := range s.People {
		if p.Subscriptions == nil {
			p.Subscriptions = []Subscription{}
		}
	}
	for _, a := range s.Accounts {
		if a.Slots == nil {
			a.Slots = map[SlotKey]string{}
		}
	}
	for _, svc := range s.Services {
		if svc.Durations == nil {
			svc.Durations = map[int]Price{}
		}
	}
}

// Clone deep-copies the snapshot so a failed mutation can be discarded
// without touching the authoritative copy.
func (s *Snapshot) Clone() (*Snapshot, error) {
	var dst Snapshot
	if err := copier.CopyWithOption(&dst, s, copier.Option{DeepCopy: true}); err != nil {
		return nil, errs.Wrap(err, "clone snapshot")
	}
	dst.Normalize()
	return &dst, nil
}

type Person struct {
	Subscriptions []Subscription `json:"subscriptions"`
	LastActive    string         `json:"last_active"`
}

type Account struct {
	// Service is empty until set; an account serves exactly one service.
	Service string `json:"service"`
	// Slots maps slot key to occupant person name, "" when free.
	Slots map[SlotKey]string `json:"slots"`
}

type Service struct {
	Emoji     string        `json:"emoji"`
	Durations map[int]Price `json:"durations"`
}

type Subscription struct {
	ID       uuid.UUID `json:"id"`
	Service  string    `json:"service"`
	Account  string    `json:"account"`
	Slot     SlotKey   `json:"slot"`
	Duration int       `json:"duration"`
	// EndDate stays a string so an unparsable stored date survives
	// load/save untouched; parsing happens on demand.
	EndDate string `json:"end_date"`
	// Price is the catalog price at creation time, a frozen quote. Later
	// catalog edits never change it.
	Price Price `json:"price"`
}

// EndsAt parses the stored end date.
func (sub *Subscription) EndsAt() (time.Time, error) {
	t, err := clock.ParseDate(sub.EndDate)
	if err != nil {
		return time.Time{}, errs.DataIntegrityf("subscription %s has unparsable end_date %q", sub.ID, sub.EndDate)
	}
	return t, nil
}

func (s *Snapshot) person(name string) (*Person, error) {
	p, ok := s.People[name]
	if !ok {
		return nil, errs.NotFoundf("person %q not found", name)
	}
	return p, nil
}

func (s *Snapshot) account(id string) (*Account, error) {
	a, ok := s.Accounts[id]
	if !ok {
		return nil, errs.NotFoundf("account %q not found", id)
	}
	return a, nil
}

func (s *Snapshot) service(name string) (*Service, error) {
	svc, ok := s.Services[name]
	if !ok {
		return nil, errs.NotFoundf("service %q not found", name)
	}
	return svc, nil
}

// ensurePerson returns the person record, creating it on first reference the
// way the subscription flow implicitly registers unknown names.
func (s *Snapshot) ensurePerson(name string, today time.Time) *Person {
	p, ok := s.People[name]
	if !ok {
		p = &Person{Subscriptions: []Subscription{}, LastActive: clock.FormatDate(today)}
		s.People[name] = p
	}
	return p
}
