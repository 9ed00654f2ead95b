package commands

import (
	"context"

	"github.com/google/uuid"

	"subshare-bot/internal/domain/subshare"
	"subshare-bot/internal/pkg/clock"
	"subshare-bot/internal/usecase/shared"
)

type CreateSubscriptionRequest struct {
	Person  string
	Service string
	Account string
	Slot    subshare.SlotKey
	Days    int
}

type SubscriptionCommands interface {
	AddPerson(ctx context.Context, name string) error
	RemovePerson(ctx context.Context, name string) error
	// Create quotes the price, claims the slot and appends the record, all
	// in one commit. The slot occupancy re-check happens inside the
	// store's critical section.
	Create(ctx context.Context, req CreateSubscriptionRequest) (*subshare.Subscription, error)
	Remove(ctx context.Context, person string, index int) (*subshare.Subscription, error)
	RemoveByID(ctx context.Context, person string, id uuid.UUID) (*subshare.Subscription, error)
	RemoveAccount(ctx context.Context, id string) error
}

type subscriptionCommandsImpl struct {
	store shared.SnapshotStore
	clock clock.Clock
}

func NewSubscriptionCommands(store shared.SnapshotStore, clk clock.Clock) SubscriptionCommands {
	return &subscriptionCommandsImpl{store: store, clock: clk}
}

func (uc *subscriptionCommandsImpl) AddPerson(ctx context.Context, name string) error {
	return uc.store.Update(ctx, func(s *subshare.Snapshot) error {
		return s.AddPerson(name, uc.clock.Now())
	})
}

func (uc *subscriptionCommandsImpl) RemovePerson(ctx context.Context, name string) error {
	return uc.store.Update(ctx, func(s *subshare.Snapshot) error {
		return s.RemovePerson(name)
	})
}

func (uc *subscriptionCommandsImpl) Create(ctx context.Context, req CreateSubscriptionRequest) (*subshare.Subscription, error) {
	var created subshare.Subscription
	err := uc.store.Update(ctx, func(s *subshare.Snapshot) error {
		sub, err := s.CreateSubscription(req.Person, req.Service, req.Account, req.Slot, req.Days, uc.clock.Now())
		if err != nil {
			return err
		}
		created = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (uc *subscriptionCommandsImpl) Remove(ctx context.Context, person string, index int) (*subshare.Subscription, error) {
	var removed subshare.Subscription
	err := uc.store.Update(ctx, func(s *subshare.Snapshot) error {
		sub, err := s.RemoveSubscription(person, index, uc.clock.Now())
		if err != nil {
			return err
		}
		removed = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &removed, nil
}

func (uc *subscriptionCommandsImpl) RemoveByID(ctx context.Context, person string, id uuid.UUID) (*subshare.Subscription, error) {
	var removed subshare.Subscription
	err := uc.store.Update(ctx, func(s *subshare.Snapshot) error {
		sub, err := s.RemoveSubscriptionByID(person, id, uc.clock.Now())
		if err != nil {
			return err
		}
		removed = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &removed, nil
}

func (uc *subscriptionCommandsImpl) RemoveAccount(ctx context.Context, id string) error {
	return uc.store.Update(ctx, func(s *subshare.Snapshot) error {
		return s.RemoveAccount(id)
	})
}
