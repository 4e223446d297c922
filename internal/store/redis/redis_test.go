package redis_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greensupply/internal/core"
	"greensupply/internal/store"
	"greensupply/internal/store/redis"
)

func setupTestBackend(t *testing.T) (*redis.Backend, context.Context) {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping redis store tests")
	}
	ctx := context.Background()
	client, err := redis.NewClient(ctx, redis.Options{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	// A fresh prefix per test keeps runs independent.
	return redis.New(client, "greensupply-test:"+uuid.NewString()+":"), ctx
}

func TestBackend_GetSetDelete(t *testing.T) {
	b, ctx := setupTestBackend(t)

	_, err := b.Get(ctx, "alerts")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)

	require.NoError(t, b.Set(ctx, "alerts", []byte(`[]`)))
	raw, err := b.Get(ctx, "alerts")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(raw))

	require.NoError(t, b.Delete(ctx, "alerts"))
	_, err = b.Get(ctx, "alerts")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}

func TestBackend_EntityStore(t *testing.T) {
	b, ctx := setupTestBackend(t)
	s := store.New(b)
	t.Cleanup(func() { _ = s.Clear(context.Background()) })

	require.NoError(t, store.Seed(ctx, s, false))
	warehouses, err := s.Warehouses(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, warehouses)

	require.NoError(t, s.SetLastID(ctx, core.CollectionAlerts, 3))
	last, err := s.LastID(ctx, core.CollectionAlerts)
	require.NoError(t, err)
	assert.Equal(t, 3, last)
}
