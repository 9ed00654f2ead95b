package commands

import (
	"context"
	"log/slog"

	"subshare-bot/internal/domain/subshare"
	"subshare-bot/internal/pkg/clock"
	"subshare-bot/internal/usecase/shared"
)

// Reaper runs the expiry sweep: once at startup and again on whatever
// schedule the caller wires up. Safe to re-run at any time.
type Reaper struct {
	store  shared.SnapshotStore
	clock  clock.Clock
	logger *slog.Logger
}

func NewReaper(store shared.SnapshotStore, clk clock.Clock, logger *slog.Logger) *Reaper {
	return &Reaper{store: store, clock: clk, logger: logger}
}

// Sweep prunes expired subscriptions and inactive people. Persists only when
// something changed; unparsable stored dates are logged and the records left
// untouched.
func (r *Reaper) Sweep(ctx context.Context) (subshare.SweepResult, error) {
	var result subshare.SweepResult
	err := r.store.Update(ctx, func(s *subshare.Snapshot) error {
		result = s.Sweep(r.clock.Now())
		if !result.Changed() {
			return shared.ErrNoChange
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	for _, de := range result.DataErrors {
		r.logger.Warn("sweep skipped record with unparsable date",
			"person", de.Person,
			"field", de.Field,
			"value", de.Value,
			"error", de.Err.Error(),
		)
	}
	if result.Changed() {
		r.logger.Info("sweep pruned stale records",
			"subscriptions_removed", result.SubscriptionsRemoved,
			"people_removed", result.PeopleRemoved,
		)
	}
	return result, nil
}
