package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/RiftRunner_Go/internal/config"
	"github.com/osse101/RiftRunner_Go/internal/database"
	"github.com/osse101/RiftRunner_Go/internal/database/memory"
	"github.com/osse101/RiftRunner_Go/internal/database/postgres"
	"github.com/osse101/RiftRunner_Go/internal/database/redis"
	"github.com/osse101/RiftRunner_Go/internal/repository"
)

// OpenStore connects the backend named by cfg.StoreBackend. Postgres schemas
// are migrated first when cfg.MigrateOnStart is set.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, StoreConnectTimeout)
	defer cancel()

	var store repository.Store
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		store = memory.New()

	case config.StoreBackendRedis:
		rs, err := redis.New(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenRedis, err)
		}
		store = rs

	case config.StoreBackendPostgres:
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdle, cfg.DBMaxConnLife)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenPostgres, err)
		}
		if cfg.MigrateOnStart {
			if err := database.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrateSchema, err)
			}
		}
		store = postgres.NewStore(pool)

	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnsupportedBackend, cfg.StoreBackend)
	}

	slog.Info(LogMsgStoreOpened, "backend", cfg.StoreBackend)
	return store, nil
}
