package subshare

import (
	"sort"
	"strconv"
	"strings"

	"subshare-bot/internal/pkg/errs"
)

// FallbackSlotCount applies when no default is configured for a service.
const FallbackSlotCount = 4

// DefaultSlotCount returns the configured slot count for a service.
func (s *Snapshot) DefaultSlotCount(service string) int {
	if n, ok := s.DefaultSlots[service]; ok {
		return n
	}
	return FallbackSlotCount
}

// CreateAccount registers a new account for a service with slots "1"..N all
// free.
func (s *Snapshot) CreateAccount(id, service string, slotCount int) (*Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errs.Validationf("account id must not be empty")
	}
	if _, exists := s.Accounts[id]; exists {
		return nil, errs.Conflictf("account %q already exists", id)
	}
	if slotCount < 0 {
		return nil, errs.Validationf("slot count must be non-negative, got %d", slotCount)
	}
	a := &Account{Service: service, Slots: map[SlotKey]string{}}
	for i := 1; i <= slotCount; i++ {
		a.Slots[SlotKey(strconv.Itoa(i))] = ""
	}
	s.Accounts[id] = a
	return a, nil
}

// AddSlot inserts one free slot.
func (a *Account) AddSlot(key SlotKey) error {
	if _, exists := a.Slots[key]; exists {
		return errs.Conflictf("slot %q already exists", key)
	}
	a.Slots[key] = ""
	return nil
}

// RemoveSlot deletes one slot; occupied slots are kept.
func (a *Account) RemoveSlot(key SlotKey) error {
	occupant, exists := a.Slots[key]
	if !exists {
		return errs.NotFoundf("slot %q not found", key)
	}
	if occupant != "" {
		return errs.Occupiedf("slot %q is occupied by %q", key, occupant)
	}
	delete(a.Slots, key)
	return nil
}

// FreeSlots lists unoccupied slot keys, numeric keys first in numeric order,
// the rest lexicographic.
func (a *Account) FreeSlots() []SlotKey {
	var free []SlotKey
	for key, occupant := range a.Slots {
		if occupant == "" {
			free = append(free, key)
		}
	}
	sort.Slice(free, func(i, j int) bool { return free[i].Less(free[j]) })
	return free
}

// Assign puts a person into a slot. The occupancy check runs here, inside
// the store's critical section, guarding the window between menu render and
// confirmation.
func (s *Snapshot) Assign(accountID string, key SlotKey, person string) error {
	a, err := s.account(accountID)
	if err != nil {
		return err
	}
	occupant, exists := a.Slots[key]
	if !exists {
		return errs.NotFoundf("account %q has no slot %q", accountID, key)
	}
	if occupant != "" {
		return errs.Occupiedf("slot %q on account %q is occupied by %q", key, accountID, occupant)
	}
	a.Slots[key] = person
	return nil
}

// Free empties a slot. Idempotent; unknown accounts or keys are a no-op.
func (s *Snapshot) Free(accountID string, key SlotKey) {
	a, ok := s.Accounts[accountID]
	if !ok {
		return
	}
	if _, exists := a.Slots[key]; exists {
		a.Slots[key] = ""
	}
}

// RemoveAccount deletes an account. Rejected while any slot is occupied or
// any subscription still references the account; slot occupancy and
// subscription references must agree, but both are checked so a drifted
// snapshot cannot slip through.
func (s *Snapshot) RemoveAccount(id string) error {
	a, err := s.account(id)
	if err != nil {
		return err
	}
	for key, occupant := range a.Slots {
		if occupant != "" {
			return errs.Conflictf("slot %q on account %q is still occupied by %q", key, id, occupant)
		}
	}
	for person, p := range s.People {
		for _, sub := range p.Subscriptions {
			if sub.Account == id {
				return errs.Conflictf("account %q has an active subscription for %q", id, person)
			}
		}
	}
	delete(s.Accounts, id)
	return nil
}
