// Package commands holds the write-side services. Each operation is one
// store Update: the callback re-checks preconditions against the freshly
// re-read snapshot, so nothing decided at menu-render time is trusted at
// commit time.
package commands

import (
	"context"

	"subshare-bot/internal/domain/subshare"
	"subshare-bot/internal/usecase/shared"
)

type CatalogCommands interface {
	// UpsertService creates the service if absent; a non-empty emoji
	// replaces the current one.
	UpsertService(ctx context.Context, name, emoji string) error
	// SetPriceFor additionally sets the emoji when non-empty, the combined
	// commit of the set-price conversation flow.
	SetPriceFor(ctx context.Context, service, emoji string, days int, price subshare.Price) error
	SetPrice(ctx context.Context, service string, days int, price subshare.Price) error
	RemovePrice(ctx context.Context, service string, days int) error
	RemoveService(ctx context.Context, name string) error
	SetDefaultSlots(ctx context.Context, service string, count int) error
}

type catalogCommandsImpl struct {
	store shared.SnapshotStore
}

func NewCatalogCommands(store shared.SnapshotStore) CatalogCommands {
	return &catalogCommandsImpl{store: store}
}

func (uc *catalogCommandsImpl) UpsertService(ctx context.Context, name, emoji string) error {
	return uc.store.Update(ctx, func(s *subshare.Snapshot) error {
		_, err := s.UpsertService(name, emoji)
		return err
	})
}

func (uc *catalogCommandsImpl) SetPriceFor(ctx context.Context, service, emoji string, days int, price subshare.Price) error {
	return uc.store.Update(ctx, func(s *subshare.Snapshot) error {
		if _, err := s.UpsertService(service, emoji); err != nil {
			return err
		}
		return s.SetPrice(service, days, price)
	})
}

func (uc *catalogCommandsImpl) SetPrice(ctx context.Context, service string, days int, price subshare.Price) error {
	return uc.store.Update(ctx, func(s *subshare.Snapshot) error {
		return s.SetPrice(service, days, price)
	})
}

func (uc *catalogCommandsImpl) RemovePrice(ctx context.Context, service string, days int) error {
	return uc.store.Update(ctx, func(s *subshare.Snapshot) error {
		return s.RemovePrice(service, days)
	})
}

func (uc *catalogCommandsImpl) RemoveService(ctx context.Context, name string) error {
	return uc.store.Update(ctx, func(s *subshare.Snapshot) error {
		return s.RemoveService(name)
	})
}

func (uc *catalogCommandsImpl) SetDefaultSlots(ctx context.Context, service string, count int) error {
	return uc.store.Update(ctx, func(s *subshare.Snapshot) error {
		return s.SetDefaultSlots(service, count)
	})
}
