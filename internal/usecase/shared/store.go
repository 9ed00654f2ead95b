package shared

import (
	"context"
	"errors"

	"subshare-bot/internal/domain/subshare"
)

// ErrNoChange lets an Update callback signal that nothing was mutated; the
// store skips the write and Update returns nil. The reaper uses this to
// avoid churn on no-op sweeps.
var ErrNoChange = errors.New("snapshot unchanged")

// SnapshotStore is the repository port: the whole entity graph as one atomic
// unit.
type SnapshotStore interface {
	// Load returns a private copy of the current snapshot. Mutating it
	// has no effect on persisted state.
	Load(ctx context.Context) (*subshare.Snapshot, error)

	// Update runs fn inside the store's critical section on a copy of the
	// freshly re-read snapshot and persists the copy when fn returns nil.
	// On any error the copy is discarded and the previously persisted
	// snapshot remains authoritative. Concurrent updates serialize.
	Update(ctx context.Context, fn func(*subshare.Snapshot) error) error
}
