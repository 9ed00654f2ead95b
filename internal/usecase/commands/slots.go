package commands

import (
	"context"

	"subshare-bot/internal/domain/subshare"
	"subshare-bot/internal/pkg/errs"
	"subshare-bot/internal/usecase/shared"
)

// SlotReport carries the per-key outcome of a bulk slot mutation. A key that
// failed does not stop the rest: partial success is reported, not rolled
// back.
type SlotReport struct {
	Applied []subshare.SlotKey
	Failed  map[subshare.SlotKey]error
}

func (r SlotReport) AllFailed() bool {
	return len(r.Applied) == 0 && len(r.Failed) > 0
}

type SlotCommands interface {
	// CreateAccount registers an account with the service's default slot
	// count pre-populated and returns the created record.
	CreateAccount(ctx context.Context, id, service string) (*subshare.Account, error)
	AddSlots(ctx context.Context, account string, keys []subshare.SlotKey) (SlotReport, error)
	RemoveSlots(ctx context.Context, account string, keys []subshare.SlotKey) (SlotReport, error)
}

type slotCommandsImpl struct {
	store shared.SnapshotStore
}

func NewSlotCommands(store shared.SnapshotStore) SlotCommands {
	return &slotCommandsImpl{store: store}
}

func (uc *slotCommandsImpl) CreateAccount(ctx context.Context, id, service string) (*subshare.Account, error) {
	var created *subshare.Account
	err := uc.store.Update(ctx, func(s *subshare.Snapshot) error {
		if _, err := s.UpsertService(service, ""); err != nil {
			return err
		}
		a, err := s.CreateAccount(id, service, s.DefaultSlotCount(service))
		if err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (uc *slotCommandsImpl) AddSlots(ctx context.Context, account string, keys []subshare.SlotKey) (SlotReport, error) {
	return uc.mutateSlots(ctx, account, keys, (*subshare.Account).AddSlot)
}

func (uc *slotCommandsImpl) RemoveSlots(ctx context.Context, account string, keys []subshare.SlotKey) (SlotReport, error) {
	return uc.mutateSlots(ctx, account, keys, (*subshare.Account).RemoveSlot)
}

func (uc *slotCommandsImpl) mutateSlots(ctx context.Context, account string, keys []subshare.SlotKey, op func(*subshare.Account, subshare.SlotKey) error) (SlotReport, error) {
	report := SlotReport{Failed: map[subshare.SlotKey]error{}}
	err := uc.store.Update(ctx, func(s *subshare.Snapshot) error {
		a, ok := s.Accounts[account]
		if !ok {
			return errs.NotFoundf("account %q not found", account)
		}
		for _, key := range keys {
			if err := op(a, key); err != nil {
				report.Failed[key] = err
				continue
			}
			report.Applied = append(report.Applied, key)
		}
		if len(report.Applied) == 0 {
			// Nothing changed; skip the write but still report the
			// per-key failures.
			return shared.ErrNoChange
		}
		return nil
	})
	return report, err
}
