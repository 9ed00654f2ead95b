//go:build unit

package subshare_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subshare-bot/internal/domain/subshare"
	"subshare-bot/internal/pkg/errs"
)

var today = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func TestUpsertService(t *testing.T) {
	s := subshare.NewSnapshot()

	svc, err := s.UpsertService("Netflix", "")
	require.NoError(t, err)
	assert.Equal(t, subshare.DefaultEmoji, svc.Emoji)

	svc, err = s.UpsertService("Netflix", "🎬")
	require.NoError(t, err)
	assert.Equal(t, "🎬", svc.Emoji)

	// Empty emoji keeps the existing one.
	svc, err = s.UpsertService("Netflix", "")
	require.NoError(t, err)
	assert.Equal(t, "🎬", svc.Emoji)

	_, err = s.UpsertService("  ", "x")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestSetPrice(t *testing.T) {
	s := subshare.NewSnapshot()

	require.NoError(t, s.SetPrice("Netflix", 30, 999))
	price, err := s.PriceFor("Netflix", 30)
	require.NoError(t, err)
	assert.Equal(t, subshare.Price(999), price)

	// Overwrite is allowed.
	require.NoError(t, s.SetPrice("Netflix", 30, 1299))
	price, _ = s.PriceFor("Netflix", 30)
	assert.Equal(t, subshare.Price(1299), price)

	assert.ErrorIs(t, s.SetPrice("Netflix", 0, 999), errs.ErrValidation)
	assert.ErrorIs(t, s.SetPrice("Netflix", -30, 999), errs.ErrValidation)
	assert.ErrorIs(t, s.SetPrice("Netflix", 30, -1), errs.ErrValidation)
}

func TestRemovePrice(t *testing.T) {
	s := subshare.NewSnapshot()
	require.NoError(t, s.SetPrice("Netflix", 30, 999))

	assert.ErrorIs(t, s.RemovePrice("Spotify", 30), errs.ErrNotFound)
	assert.ErrorIs(t, s.RemovePrice("Netflix", 90), errs.ErrNotFound)

	require.NoError(t, s.RemovePrice("Netflix", 30))
	_, err := s.PriceFor("Netflix", 30)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRemoveService(t *testing.T) {
	s := subshare.NewSnapshot()
	require.NoError(t, s.SetPrice("Netflix", 30, 999))

	_, err := s.CreateAccount("acc1", "Netflix", 2)
	require.NoError(t, err)
	assert.ErrorIs(t, s.RemoveService("Netflix"), errs.ErrConflict)

	require.NoError(t, s.RemoveAccount("acc1"))
	require.NoError(t, s.RemoveService("Netflix"))
	assert.ErrorIs(t, s.RemoveService("Netflix"), errs.ErrNotFound)
}

func TestSetDefaultSlots(t *testing.T) {
	s := subshare.NewSnapshot()

	assert.Equal(t, subshare.FallbackSlotCount, s.DefaultSlotCount("Netflix"))

	require.NoError(t, s.SetDefaultSlots("Netflix", 6))
	assert.Equal(t, 6, s.DefaultSlotCount("Netflix"))

	require.NoError(t, s.SetDefaultSlots("Netflix", 0))
	assert.Equal(t, 0, s.DefaultSlotCount("Netflix"))

	assert.ErrorIs(t, s.SetDefaultSlots("Netflix", -1), errs.ErrValidation)
	assert.ErrorIs(t, s.SetDefaultSlots(" ", 3), errs.ErrValidation)
}
