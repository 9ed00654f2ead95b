package subshare

import (
	"subshare-bot/internal/pkg/errs"
)

// CheckInvariants verifies the cross-entity consistency rules:
//
//   - every occupied slot corresponds to exactly one subscription of its
//     occupant for that (account, slot) pair, and vice versa
//   - slot occupants are known people
//   - duration keys are positive, prices non-negative
//
// Used by tests after operation sequences; production code maintains these
// through the mutation methods instead of re-checking.
func (s *Snapshot) CheckInvariants() error {
	type seat struct {
		account string
		slot    SlotKey
	}

	occupied := map[seat]string{}
	for id, a := range s.Accounts {
		for key, occupant := range a.Slots {
			if occupant == "" {
				continue
			}
			if _, known := s.People[occupant]; !known {
				return errs.DataIntegrityf("slot %q on account %q is held by unknown person %q", key, id, occupant)
			}
			occupied[seat{id, key}] = occupant
		}
	}

	claimed := map[seat]string{}
	for name, p := range s.People {
		for _, sub := range p.Subscriptions {
			st := seat{sub.Account, sub.Slot}
			if prev, dup := claimed[st]; dup {
				return errs.DataIntegrityf("slot %q on account %q is claimed by both %q and %q", sub.Slot, sub.Account, prev, name)
			}
			claimed[st] = name
			if holder, ok := occupied[st]; !ok || holder != name {
				return errs.DataIntegrityf("subscription of %q references slot %q on account %q held by %q", name, sub.Slot, sub.Account, holder)
			}
		}
	}
	for st, holder := range occupied {
		if claimed[st] != holder {
			return errs.DataIntegrityf("slot %q on account %q held by %q has no matching subscription", st.slot, st.account, holder)
		}
	}

	for name, svc := range s.Services {
		for days, price := range svc.Durations {
			if days <= 0 {
				return errs.DataIntegrityf("service %q has non-positive duration %d", name, days)
			}
			if price < 0 {
				return errs.DataIntegrityf("service %q has negative price for %d days", name, days)
			}
		}
	}
	return nil
}
