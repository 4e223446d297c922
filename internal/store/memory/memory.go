// Package memory is an in-process store.Backend for tests and demos.
package memory

import (
	"context"
	"sync"

	"greensupply/internal/store"
)

// Backend keeps values in a map guarded by a mutex. Values are copied on the way
// in and out so callers never share memory with the store.
type Backend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ store.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{data: make(map[string][]byte)}
}

// NewStore returns an empty entity store held in memory.
func NewStore() *store.Store {
	return store.New(New())
}

func (b *Backend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	if !ok {
		return nil, store.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (b *Backend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = append([]byte(nil), value...)
	return nil
}

func (b *Backend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}
