//go:build unit

package subshare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subshare-bot/internal/domain/subshare"
	"subshare-bot/internal/pkg/clock"
)

func snapshotWithSub(t *testing.T, endDate string) *subshare.Snapshot {
	t.Helper()
	s := seededSnapshot(t)
	_, err := s.CreateSubscription("Ann", "Stream", "acc1", "1", 30, today)
	require.NoError(t, err)
	s.People["Ann"].Subscriptions[0].EndDate = endDate
	return s
}

func TestSweepExpiryBoundary(t *testing.T) {
	cases := []struct {
		name        string
		daysPastEnd int
		removed     bool
	}{
		{name: "59 days past end retained", daysPastEnd: 59, removed: false},
		{name: "exactly 60 days retained", daysPastEnd: 60, removed: false},
		{name: "61 days past end removed", daysPastEnd: 61, removed: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			end := today.AddDate(0, 0, -tc.daysPastEnd)
			s := snapshotWithSub(t, clock.FormatDate(end))

			result := s.Sweep(today)

			assert.Empty(t, result.DataErrors)
			if tc.removed {
				assert.Equal(t, 1, result.SubscriptionsRemoved)
				assert.Empty(t, s.People["Ann"].Subscriptions)
				assert.Equal(t, "", s.Accounts["acc1"].Slots["1"])
			} else {
				assert.Equal(t, 0, result.SubscriptionsRemoved)
				assert.False(t, result.Changed())
				assert.Len(t, s.People["Ann"].Subscriptions, 1)
				assert.Equal(t, "Ann", s.Accounts["acc1"].Slots["1"])
			}
			require.NoError(t, s.CheckInvariants())
		})
	}
}

func TestSweepDoesNotFreeReassignedSlot(t *testing.T) {
	s := snapshotWithSub(t, clock.FormatDate(today.AddDate(0, 0, -90)))
	s.Free("acc1", "1")
	require.NoError(t, s.AddPerson("Bob", today))
	require.NoError(t, s.Assign("acc1", "1", "Bob"))

	result := s.Sweep(today)

	assert.Equal(t, 1, result.SubscriptionsRemoved)
	assert.Equal(t, "Bob", s.Accounts["acc1"].Slots["1"])
}

func TestSweepInactivePeople(t *testing.T) {
	cases := []struct {
		name         string
		inactiveDays int
		deleted      bool
	}{
		{name: "9 days inactive kept", inactiveDays: 9, deleted: false},
		{name: "exactly 10 days kept", inactiveDays: 10, deleted: false},
		{name: "11 days inactive deleted", inactiveDays: 11, deleted: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := subshare.NewSnapshot()
			require.NoError(t, s.AddPerson("Ann", today.AddDate(0, 0, -tc.inactiveDays)))

			result := s.Sweep(today)

			if tc.deleted {
				assert.Equal(t, 1, result.PeopleRemoved)
				assert.NotContains(t, s.People, "Ann")
			} else {
				assert.Equal(t, 0, result.PeopleRemoved)
				assert.Contains(t, s.People, "Ann")
			}
		})
	}
}

func TestSweepKeepsInactivePersonWithSubscriptions(t *testing.T) {
	s := snapshotWithSub(t, clock.FormatDate(today.AddDate(0, 0, 10)))
	s.People["Ann"].LastActive = clock.FormatDate(today.AddDate(0, 0, -100))

	result := s.Sweep(today)

	assert.Equal(t, 0, result.PeopleRemoved)
	assert.Contains(t, s.People, "Ann")
}

func TestSweepRetiredSubThenInactivePerson(t *testing.T) {
	// A sub dropped in this pass leaves the person sub-less, so the
	// inactivity rule applies in the same sweep.
	s := snapshotWithSub(t, clock.FormatDate(today.AddDate(0, 0, -90)))
	s.People["Ann"].LastActive = clock.FormatDate(today.AddDate(0, 0, -30))

	result := s.Sweep(today)

	assert.Equal(t, 1, result.SubscriptionsRemoved)
	assert.Equal(t, 1, result.PeopleRemoved)
	assert.NotContains(t, s.People, "Ann")
	assert.Equal(t, "", s.Accounts["acc1"].Slots["1"])
}

func TestSweepIdempotent(t *testing.T) {
	s := snapshotWithSub(t, clock.FormatDate(today.AddDate(0, 0, -90)))
	s.People["Ann"].LastActive = clock.FormatDate(today.AddDate(0, 0, -30))

	first := s.Sweep(today)
	require.True(t, first.Changed())

	second := s.Sweep(today)
	assert.False(t, second.Changed())
	assert.Empty(t, second.DataErrors)
}

func TestSweepUnparsableEndDate(t *testing.T) {
	s := snapshotWithSub(t, "not-a-date")

	result := s.Sweep(today)

	assert.Equal(t, 0, result.SubscriptionsRemoved)
	require.Len(t, result.DataErrors, 1)
	assert.Equal(t, "Ann", result.DataErrors[0].Person)
	assert.Equal(t, "end_date", result.DataErrors[0].Field)
	assert.Equal(t, "not-a-date", result.DataErrors[0].Value)

	// The record survives for manual repair.
	assert.Len(t, s.People["Ann"].Subscriptions, 1)
	assert.Equal(t, "Ann", s.Accounts["acc1"].Slots["1"])
}

func TestSweepUnparsableLastActive(t *testing.T) {
	s := subshare.NewSnapshot()
	require.NoError(t, s.AddPerson("Ann", today))
	s.People["Ann"].LastActive = "garbage"

	result := s.Sweep(today)

	assert.Equal(t, 0, result.PeopleRemoved)
	require.Len(t, result.DataErrors, 1)
	assert.Equal(t, "last_active", result.DataErrors[0].Field)
	assert.Contains(t, s.People, "Ann")
}
