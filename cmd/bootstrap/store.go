package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"subshare-bot/internal/infra/store"
	"subshare-bot/internal/pkg/config"
	"subshare-bot/internal/usecase/shared"
)

var StoreModule = fx.Module("store",
	fx.Provide(
		NewSnapshotStore,
	),
)

// NewSnapshotStore picks the store implementation by config: a JSON file by
// default, a Postgres row when the bot shares a database.
func NewSnapshotStore(lc fx.Lifecycle, cfg config.Config) (shared.SnapshotStore, error) {
	switch cfg.Store.Driver {
	case "file":
		return store.NewFileStore(cfg.Store.Path)

	case "postgres":
		pool, err := pgxpool.New(context.Background(), cfg.Store.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(context.Background()); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				pool.Close()
				return nil
			},
		})
		return store.NewPostgresStore(context.Background(), pool)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
