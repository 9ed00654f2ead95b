package subshare

import (
	"time"

	"subshare-bot/internal/pkg/clock"
	"subshare-bot/internal/pkg/errs"
)

const (
	// ExpiredSubGraceDays: a subscription is retired once its end date is
	// strictly more than this many days in the past. Exactly 60 days past
	// is retained.
	ExpiredSubGraceDays = 60
	// InactivePersonDays: a person with no subscriptions is deleted once
	// last_active is strictly more than this many days in the past.
	InactivePersonDays = 10
)

// SweepResult reports what one reaper pass did.
type SweepResult struct {
	SubscriptionsRemoved int
	PeopleRemoved        int
	// DataErrors lists records left untouched because a stored date could
	// not be parsed. Never fatal to the sweep.
	DataErrors []DataError
}

func (r SweepResult) Changed() bool {
	return r.SubscriptionsRemoved > 0 || r.PeopleRemoved > 0
}

type DataError struct {
	Person string
	Field  string
	Value  string
	Err    error
}

// Sweep retires subscriptions whose end date is more than 60 days past,
// freeing their slots, then deletes people left with no subscriptions who
// have been inactive for more than 10 days. Idempotent: a second pass over
// the result changes nothing.
func (s *Snapshot) Sweep(today time.Time) SweepResult {
	var result SweepResult

	for name, p := range s.People {
		kept := p.Subscriptions[:0]
		for _, sub := range p.Subscriptions {
			end, err := sub.EndsAt()
			if err != nil {
				// Unparsable dates are a data error, never a
				// silent drop.
				result.DataErrors = append(result.DataErrors, DataError{
					Person: name, Field: "end_date", Value: sub.EndDate, Err: err,
				})
				kept = append(kept, sub)
				continue
			}
			if clock.DaysSince(today, end) <= ExpiredSubGraceDays {
				kept = append(kept, sub)
				continue
			}
			if a, ok := s.Accounts[sub.Account]; ok && a.Slots[sub.Slot] == name {
				a.Slots[sub.Slot] = ""
			}
			result.SubscriptionsRemoved++
		}
		p.Subscriptions = kept
	}

	for name, p := range s.People {
		if len(p.Subscriptions) != 0 {
			continue
		}
		lastActive, err := clock.ParseDate(p.LastActive)
		if err != nil {
			result.DataErrors = append(result.DataErrors, DataError{
				Person: name, Field: "last_active", Value: p.LastActive,
				Err: errs.DataIntegrityf("person %q has unparsable last_active %q", name, p.LastActive),
			})
			continue
		}
		if clock.DaysSince(today, lastActive) > InactivePersonDays {
			delete(s.People, name)
			result.PeopleRemoved++
		}
	}

	return result
}
