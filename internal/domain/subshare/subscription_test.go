//go:build unit

package subshare_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subshare-bot/internal/domain/subshare"
	"subshare-bot/internal/pkg/errs"
)

func seededSnapshot(t *testing.T) *subshare.Snapshot {
	t.Helper()
	s := subshare.NewSnapshot()
	require.NoError(t, s.SetPrice("Stream", 30, 999))
	_, err := s.CreateAccount("acc1", "Stream", 2)
	require.NoError(t, err)
	return s
}

func TestAddPerson(t *testing.T) {
	s := subshare.NewSnapshot()
	require.NoError(t, s.AddPerson("Ann", today))
	assert.Equal(t, "2025-01-15", s.People["Ann"].LastActive)

	assert.ErrorIs(t, s.AddPerson("Ann", today), errs.ErrConflict)
	assert.ErrorIs(t, s.AddPerson("  ", today), errs.ErrValidation)
}

func TestCreateSubscription(t *testing.T) {
	s := seededSnapshot(t)

	sub, err := s.CreateSubscription("Ann", "Stream", "acc1", "1", 30, today)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sub.ID)
	assert.Equal(t, subshare.Price(999), sub.Price)
	assert.Equal(t, "2025-02-14", sub.EndDate) // today + 30 days
	assert.Equal(t, "Ann", s.Accounts["acc1"].Slots["1"])

	// The person record is created implicitly.
	require.Contains(t, s.People, "Ann")
	assert.Len(t, s.People["Ann"].Subscriptions, 1)
	assert.Equal(t, "2025-01-15", s.People["Ann"].LastActive)

	require.NoError(t, s.CheckInvariants())
}

func TestCreateSubscriptionFailures(t *testing.T) {
	cases := []struct {
		name    string
		person  string
		service string
		account string
		slot    subshare.SlotKey
		days    int
		errIs   error
	}{
		{name: "unknown service", person: "Ann", service: "Ghost", account: "acc1", slot: "1", days: 30, errIs: errs.ErrNotFound},
		{name: "unpriced duration", person: "Ann", service: "Stream", account: "acc1", slot: "1", days: 90, errIs: errs.ErrNotFound},
		{name: "unknown account", person: "Ann", service: "Stream", account: "ghost", slot: "1", days: 30, errIs: errs.ErrNotFound},
		{name: "unknown slot", person: "Ann", service: "Stream", account: "acc1", slot: "9", days: 30, errIs: errs.ErrNotFound},
		{name: "empty person", person: " ", service: "Stream", account: "acc1", slot: "1", days: 30, errIs: errs.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := seededSnapshot(t)
			_, err := s.CreateSubscription(tc.person, tc.service, tc.account, tc.slot, tc.days, today)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.errIs)

			// Failed creation leaves nothing behind.
			assert.NotContains(t, s.People, tc.person)
			assert.Empty(t, s.Accounts["acc1"].Slots["1"])
		})
	}

	t.Run("occupied slot", func(t *testing.T) {
		s := seededSnapshot(t)
		_, err := s.CreateSubscription("Ann", "Stream", "acc1", "1", 30, today)
		require.NoError(t, err)

		_, err = s.CreateSubscription("Bob", "Stream", "acc1", "1", 30, today)
		assert.ErrorIs(t, err, errs.ErrOccupied)
		assert.NotContains(t, s.People, "Bob")
		require.NoError(t, s.CheckInvariants())
	})

	t.Run("account of another service", func(t *testing.T) {
		s := seededSnapshot(t)
		require.NoError(t, s.SetPrice("Music", 30, 499))
		_, err := s.CreateSubscription("Ann", "Music", "acc1", "1", 30, today)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestPriceFreeze(t *testing.T) {
	s := seededSnapshot(t)
	sub, err := s.CreateSubscription("Ann", "Stream", "acc1", "1", 30, today)
	require.NoError(t, err)
	require.Equal(t, subshare.Price(999), sub.Price)

	// A later catalog edit must not touch the stored quote.
	require.NoError(t, s.SetPrice("Stream", 30, 1299))
	assert.Equal(t, subshare.Price(999), s.People["Ann"].Subscriptions[0].Price)
}

func TestRemoveSubscription(t *testing.T) {
	s := seededSnapshot(t)
	_, err := s.CreateSubscription("Ann", "Stream", "acc1", "1", 30, today)
	require.NoError(t, err)

	_, err = s.RemoveSubscription("Ann", 5, today)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = s.RemoveSubscription("Ghost", 0, today)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	removed, err := s.RemoveSubscription("Ann", 0, today)
	require.NoError(t, err)
	assert.Equal(t, subshare.SlotKey("1"), removed.Slot)
	assert.Empty(t, s.People["Ann"].Subscriptions)
	assert.Equal(t, "", s.Accounts["acc1"].Slots["1"])
	require.NoError(t, s.CheckInvariants())
}

func TestRemoveSubscriptionDoesNotFreeReassignedSlot(t *testing.T) {
	s := seededSnapshot(t)
	_, err := s.CreateSubscription("Ann", "Stream", "acc1", "1", 30, today)
	require.NoError(t, err)

	// Manual reassignment: the slot now belongs to Bob.
	s.Free("acc1", "1")
	require.NoError(t, s.AddPerson("Bob", today))
	require.NoError(t, s.Assign("acc1", "1", "Bob"))

	_, err = s.RemoveSubscription("Ann", 0, today)
	require.NoError(t, err)
	assert.Equal(t, "Bob", s.Accounts["acc1"].Slots["1"])
}

func TestRemoveSubscriptionByID(t *testing.T) {
	s := seededSnapshot(t)
	sub, err := s.CreateSubscription("Ann", "Stream", "acc1", "1", 30, today)
	require.NoError(t, err)

	_, err = s.RemoveSubscriptionByID("Ann", uuid.New(), today)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	removed, err := s.RemoveSubscriptionByID("Ann", sub.ID, today)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, removed.ID)
	assert.Empty(t, s.People["Ann"].Subscriptions)
}

func TestRemovePersonCascade(t *testing.T) {
	s := seededSnapshot(t)
	_, err := s.CreateSubscription("Ann", "Stream", "acc1", "1", 30, today)
	require.NoError(t, err)
	_, err = s.CreateSubscription("Ann", "Stream", "acc1", "2", 30, today)
	require.NoError(t, err)

	require.NoError(t, s.RemovePerson("Ann"))
	assert.NotContains(t, s.People, "Ann")
	assert.Equal(t, "", s.Accounts["acc1"].Slots["1"])
	assert.Equal(t, "", s.Accounts["acc1"].Slots["2"])
	require.NoError(t, s.CheckInvariants())

	assert.ErrorIs(t, s.RemovePerson("Ann"), errs.ErrNotFound)
}

func TestIncome(t *testing.T) {
	s := seededSnapshot(t)
	assert.Equal(t, subshare.Price(0), s.Income())

	_, err := s.CreateSubscription("Ann", "Stream", "acc1", "1", 30, today)
	require.NoError(t, err)
	_, err = s.CreateSubscription("Bob", "Stream", "acc1", "2", 30, today)
	require.NoError(t, err)

	assert.Equal(t, subshare.Price(1998), s.Income())
}
