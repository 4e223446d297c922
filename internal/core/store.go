package core

import (
	"context"
	"fmt"
	"time"
)

// Collection names one of the five persisted entity collections.
type Collection string

const (
	CollectionProducts   Collection = "products"
	CollectionWarehouses Collection = "warehouses"
	CollectionStock      Collection = "stock"
	CollectionTransfers  Collection = "transfers"
	CollectionAlerts     Collection = "alerts"
)

// Collections lists every collection in a stable order.
var Collections = []Collection{
	CollectionProducts,
	CollectionWarehouses,
	CollectionStock,
	CollectionTransfers,
	CollectionAlerts,
}

// EntityStore is durable, last-write-wins persistence for the five collections.
// Every read returns the whole collection and every write replaces it; there are
// no transactions across collections. A missing collection reads as empty and a
// missing counter reads as zero.
type EntityStore interface {
	Products(ctx context.Context) ([]Product, error)
	SetProducts(ctx context.Context, products []Product) error
	Warehouses(ctx context.Context) ([]Warehouse, error)
	SetWarehouses(ctx context.Context, warehouses []Warehouse) error
	Stock(ctx context.Context) ([]StockEntry, error)
	SetStock(ctx context.Context, stock []StockEntry) error
	Transfers(ctx context.Context) ([]Transfer, error)
	SetTransfers(ctx context.Context, transfers []Transfer) error
	Alerts(ctx context.Context) ([]Alert, error)
	SetAlerts(ctx context.Context, alerts []Alert) error

	// LastID returns the highest id ever issued for the collection.
	LastID(ctx context.Context, c Collection) (int, error)
	// SetLastID records the highest id issued for the collection.
	SetLastID(ctx context.Context, c Collection, id int) error
}

// Clock returns the current time. Services take one so tests can pin timestamps.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// idAllocator hands out ids for one collection within a single operation.
// The first id is max(counter, max existing id) + 1, so snapshots without a
// counter bootstrap from their contents and ids are never reused after deletes.
type idAllocator struct {
	store      EntityStore
	collection Collection
	next       int
	issued     bool
}

func newIDAllocator(ctx context.Context, store EntityStore, c Collection, maxExisting int) (*idAllocator, error) {
	last, err := store.LastID(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s id counter: %w", c, err)
	}
	if maxExisting > last {
		last = maxExisting
	}
	return &idAllocator{store: store, collection: c, next: last + 1}, nil
}

func (a *idAllocator) Next() int {
	id := a.next
	a.next++
	a.issued = true
	return id
}

// Commit persists the counter if any id was handed out.
func (a *idAllocator) Commit(ctx context.Context) error {
	if !a.issued {
		return nil
	}
	if err := a.store.SetLastID(ctx, a.collection, a.next-1); err != nil {
		return fmt.Errorf("failed to write %s id counter: %w", a.collection, err)
	}
	return nil
}

func maxID[T any](items []T, id func(T) int) int {
	m := 0
	for _, it := range items {
		if v := id(it); v > m {
			m = v
		}
	}
	return m
}

func productKey(p Product) int     { return p.ID }
func warehouseKey(w Warehouse) int { return w.ID }
func stockKey(s StockEntry) int    { return s.ID }
func transferKey(t Transfer) int   { return t.ID }
func alertKey(a Alert) int         { return a.ID }
