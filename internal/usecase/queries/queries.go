package queries

import (
	"context"
	"encoding/json"
	"sort"

	"subshare-bot/internal/domain/subshare"
	"subshare-bot/internal/pkg/errs"
	"subshare-bot/internal/usecase/shared"
)

type Queries interface {
	ListPeople(ctx context.Context) ([]PersonView, error)
	ListServices(ctx context.Context) ([]ServiceView, error)
	ListAccounts(ctx context.Context) ([]AccountView, error)
	// Income sums the frozen price quotes of every current subscription.
	Income(ctx context.Context) (subshare.Price, error)
	// Export serializes the current snapshot for backup.
	Export(ctx context.Context) ([]byte, error)
}

type queriesImpl struct {
	store shared.SnapshotStore
}

func NewQueries(store shared.SnapshotStore) Queries {
	return &queriesImpl{store: store}
}

func (q *queriesImpl) ListPeople(ctx context.Context) ([]PersonView, error) {
	snap, err := q.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]PersonView, 0, len(snap.People))
	for name, p := range snap.People {
		pv := PersonView{Name: name, LastActive: p.LastActive}
		for _, sub := range p.Subscriptions {
			pv.Subscriptions = append(pv.Subscriptions, SubscriptionView{
				ID:       sub.ID,
				Service:  sub.Service,
				Account:  sub.Account,
				Slot:     sub.Slot,
				Duration: sub.Duration,
				EndDate:  sub.EndDate,
				Price:    sub.Price,
			})
		}
		views = append(views, pv)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views, nil
}

func (q *queriesImpl) ListServices(ctx context.Context) ([]ServiceView, error) {
	snap, err := q.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ServiceView, 0, len(snap.Services))
	for name, svc := range snap.Services {
		sv := ServiceView{Name: name, Emoji: svc.Emoji}
		for days, price := range svc.Durations {
			sv.Durations = append(sv.Durations, DurationView{Days: days, Price: price})
		}
		sort.Slice(sv.Durations, func(i, j int) bool { return sv.Durations[i].Days < sv.Durations[j].Days })
		views = append(views, sv)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views, nil
}

func (q *queriesImpl) ListAccounts(ctx context.Context) ([]AccountView, error) {
	snap, err := q.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]AccountView, 0, len(snap.Accounts))
	for id, a := range snap.Accounts {
		views = append(views, AccountView{
			ID:        id,
			Service:   a.Service,
			FreeSlots: a.FreeSlots(),
			SlotCount: len(a.Slots),
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views, nil
}

func (q *queriesImpl) Income(ctx context.Context) (subshare.Price, error) {
	snap, err := q.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	return snap.Income(), nil
}

func (q *queriesImpl) Export(ctx context.Context) ([]byte, error) {
	snap, err := q.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, errs.Wrap(err, "encode snapshot export")
	}
	return data, nil
}
