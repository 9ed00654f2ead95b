package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"subshare-bot/internal/domain/subshare"
	"subshare-bot/internal/pkg/errs"
	"subshare-bot/internal/usecase/shared"
)

// PostgresStore keeps the snapshot as a single JSONB row. The row lock taken
// by SELECT ... FOR UPDATE is the critical section: two racing commits
// serialize on it and the second one re-reads the first one's result.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ shared.SnapshotStore = (*PostgresStore)(nil)

const snapshotDDL = `
CREATE TABLE IF NOT EXISTS snapshot (
	id         smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	doc        jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
);`

// NewPostgresStore bootstraps the table and seeds an empty snapshot when the
// row does not exist yet.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, snapshotDDL); err != nil {
		return nil, errs.Wrap(err, "create snapshot table")
	}
	empty, err := json.Marshal(subshare.NewSnapshot())
	if err != nil {
		return nil, errs.Wrap(err, "encode empty snapshot")
	}
	_, err = pool.Exec(ctx, `INSERT INTO snapshot (id, doc) VALUES (1, $1) ON CONFLICT (id) DO NOTHING`, empty)
	if err != nil {
		return nil, errs.Wrap(err, "seed snapshot row")
	}
	return &PostgresStore{pool: pool}, nil
}

func (ps *PostgresStore) Load(ctx context.Context) (*subshare.Snapshot, error) {
	var data []byte
	if err := ps.pool.QueryRow(ctx, `SELECT doc FROM snapshot WHERE id = 1`).Scan(&data); err != nil {
		return nil, errs.Wrap(err, "load snapshot row")
	}
	return decode(data)
}

func (ps *PostgresStore) Update(ctx context.Context, fn func(*subshare.Snapshot) error) error {
	tx, err := ps.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errs.Wrap(err, "begin snapshot tx")
	}
	defer tx.Rollback(ctx)

	var data []byte
	if err := tx.QueryRow(ctx, `SELECT doc FROM snapshot WHERE id = 1 FOR UPDATE`).Scan(&data); err != nil {
		return errs.Wrap(err, "lock snapshot row")
	}
	snap, err := decode(data)
	if err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		if errs.Is(err, shared.ErrNoChange) {
			return nil
		}
		return err
	}
	out, err := json.Marshal(snap)
	if err != nil {
		return errs.Wrap(err, "encode snapshot")
	}
	if _, err := tx.Exec(ctx, `UPDATE snapshot SET doc = $1, updated_at = now() WHERE id = 1`, out); err != nil {
		return errs.Wrap(err, "write snapshot row")
	}
	return errs.Wrap(tx.Commit(ctx), "commit snapshot tx")
}

func decode(data []byte) (*subshare.Snapshot, error) {
	snap := subshare.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, errs.Wrap(err, "decode snapshot row")
	}
	snap.Normalize()
	return snap, nil
}
