package core_test

import (
	"context"
	"testing"
	"time"

	"greensupply/internal/core"
	"greensupply/internal/store"
	"greensupply/internal/store/memory"

	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// setupStore returns an in-memory store holding two warehouses and the given products and stock.
func setupStore(t *testing.T, products []core.Product, stock []core.StockEntry) (*store.Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()

	if err := s.SetWarehouses(ctx, []core.Warehouse{
		{ID: 1, Name: "North", Location: "Oslo", Code: "N1"},
		{ID: 2, Name: "South", Location: "Rome", Code: "S1"},
	}); err != nil {
		t.Fatalf("Failed to seed warehouses: %v", err)
	}
	if err := s.SetProducts(ctx, products); err != nil {
		t.Fatalf("Failed to seed products: %v", err)
	}
	if err := s.SetStock(ctx, stock); err != nil {
		t.Fatalf("Failed to seed stock: %v", err)
	}
	return s, ctx
}

func product(id, reorderPoint int) core.Product {
	return core.Product{
		ID:           id,
		SKU:          "SKU-" + string(rune('A'+id)),
		Name:         "Product",
		Category:     "General",
		UnitCost:     decimal.NewFromInt(2),
		ReorderPoint: reorderPoint,
	}
}
