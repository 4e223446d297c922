package app

import (
	"context"
	"fmt"
	"log"

	"greensupply/internal/config"
	"greensupply/internal/db"
	"greensupply/internal/store"
	"greensupply/internal/store/memory"
	"greensupply/internal/store/postgres"
	"greensupply/internal/store/redis"
)

// OpenStore connects the backend selected by cfg.StoreBackend and seeds empty
// collections when cfg.SeedOnStart is set. The returned close func releases the
// backend connection.
func OpenStore(ctx context.Context, cfg config.Config) (*store.Store, func(), error) {
	var (
		es      *store.Store
		closeFn = func() {}
	)

	switch cfg.StoreBackend {
	case config.BackendMemory:
		es = memory.NewStore()
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		es = store.New(postgres.New(pool))
		closeFn = pool.Close
	case config.BackendRedis:
		client, err := redis.NewClient(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		es = store.New(redis.New(client, cfg.RedisKeyPrefix))
		closeFn = func() { client.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q (want memory, postgres or redis)", cfg.StoreBackend)
	}
	log.Printf("store backend: %s", cfg.StoreBackend)

	if cfg.SeedOnStart {
		if err := store.Seed(ctx, es, false); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("failed to seed store: %w", err)
		}
	}
	return es, closeFn, nil
}

// OptionsFromConfig maps configuration onto engine options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		CheckAvailable: cfg.TransferCheckAvailable,
		FlapTolerance:  cfg.AlertFlapTolerance,
	}
}
