// Package store persists the inventory collections as whole JSON documents over a
// byte-level key/value Backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"greensupply/internal/core"
)

// ErrKeyNotFound is returned by a Backend when a key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// Backend is durable last-write-wins storage of opaque values.
type Backend interface {
	// Get returns ErrKeyNotFound for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store implements core.EntityStore over a Backend. Collections are stored under
// their own name and id counters under "counter:<collection>".
type Store struct {
	backend Backend
}

var _ core.EntityStore = (*Store)(nil)

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

func counterKey(c core.Collection) string {
	return "counter:" + string(c)
}

func load[T any](ctx context.Context, b Backend, c core.Collection) ([]T, error) {
	raw, err := b.Get(ctx, string(c))
	if errors.Is(err, ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c, err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func save[T any](ctx context.Context, b Backend, c core.Collection, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c, err)
	}
	if err := b.Set(ctx, string(c), raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", c, err)
	}
	return nil
}

func (s *Store) Products(ctx context.Context) ([]core.Product, error) {
	return load[core.Product](ctx, s.backend, core.CollectionProducts)
}

func (s *Store) SetProducts(ctx context.Context, products []core.Product) error {
	return save(ctx, s.backend, core.CollectionProducts, products)
}

func (s *Store) Warehouses(ctx context.Context) ([]core.Warehouse, error) {
	return load[core.Warehouse](ctx, s.backend, core.CollectionWarehouses)
}

func (s *Store) SetWarehouses(ctx context.Context, warehouses []core.Warehouse) error {
	return save(ctx, s.backend, core.CollectionWarehouses, warehouses)
}

func (s *Store) Stock(ctx context.Context) ([]core.StockEntry, error) {
	return load[core.StockEntry](ctx, s.backend, core.CollectionStock)
}

func (s *Store) SetStock(ctx context.Context, stock []core.StockEntry) error {
	return save(ctx, s.backend, core.CollectionStock, stock)
}

func (s *Store) Transfers(ctx context.Context) ([]core.Transfer, error) {
	return load[core.Transfer](ctx, s.backend, core.CollectionTransfers)
}

func (s *Store) SetTransfers(ctx context.Context, transfers []core.Transfer) error {
	return save(ctx, s.backend, core.CollectionTransfers, transfers)
}

func (s *Store) Alerts(ctx context.Context) ([]core.Alert, error) {
	return load[core.Alert](ctx, s.backend, core.CollectionAlerts)
}

func (s *Store) SetAlerts(ctx context.Context, alerts []core.Alert) error {
	return save(ctx, s.backend, core.CollectionAlerts, alerts)
}

func (s *Store) LastID(ctx context.Context, c core.Collection) (int, error) {
	raw, err := s.backend.Get(ctx, counterKey(c))
	if errors.Is(err, ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s counter: %w", c, err)
	}
	id, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("corrupt %s counter %q: %w", c, raw, err)
	}
	return id, nil
}

func (s *Store) SetLastID(ctx context.Context, c core.Collection, id int) error {
	if err := s.backend.Set(ctx, counterKey(c), []byte(strconv.Itoa(id))); err != nil {
		return fmt.Errorf("failed to write %s counter: %w", c, err)
	}
	return nil
}

// Empty reports whether a collection has never been written.
func (s *Store) Empty(ctx context.Context, c core.Collection) (bool, error) {
	_, err := s.backend.Get(ctx, string(c))
	if errors.Is(err, ErrKeyNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", c, err)
	}
	return false, nil
}

// Clear removes every collection and counter.
func (s *Store) Clear(ctx context.Context) error {
	for _, c := range core.Collections {
		for _, key := range []string{string(c), counterKey(c)} {
			if err := s.backend.Delete(ctx, key); err != nil {
				return fmt.Errorf("failed to delete %s: %w", key, err)
			}
		}
	}
	return nil
}
