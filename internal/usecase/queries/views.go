// Package queries holds the read side: display-shaped views over a fresh
// snapshot load, no side effects.
package queries

import (
	"github.com/google/uuid"

	"subshare-bot/internal/domain/subshare"
)

type SubscriptionView struct {
	ID       uuid.UUID
	Service  string
	Account  string
	Slot     subshare.SlotKey
	Duration int
	EndDate  string
	Price    subshare.Price
}

type PersonView struct {
	Name          string
	LastActive    string
	Subscriptions []SubscriptionView
}

type DurationView struct {
	Days  int
	Price subshare.Price
}

type ServiceView struct {
	Name      string
	Emoji     string
	Durations []DurationView // ascending by days
}

type AccountView struct {
	ID        string
	Service   string
	FreeSlots []subshare.SlotKey
	SlotCount int
}
