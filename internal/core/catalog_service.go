package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductPatch holds optional product field updates. Nil fields are left unchanged.
type ProductPatch struct {
	SKU          *string
	Name         *string
	Category     *string
	UnitCost     *decimal.Decimal
	ReorderPoint *int
}

// WarehousePatch holds optional warehouse field updates. Nil fields are left unchanged.
type WarehousePatch struct {
	Name     *string
	Location *string
	Code     *string
}

// CatalogService manages products and warehouses. Deleting either removes the stock
// entries that reference it; transfers and alerts are kept as history.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
	// CreateProduct assigns a fresh id; any id on the argument is ignored.
	CreateProduct(ctx context.Context, p Product) (*Product, error)
	UpdateProduct(ctx context.Context, id int, patch ProductPatch) (*Product, error)
	DeleteProduct(ctx context.Context, id int) error

	ListWarehouses(ctx context.Context) ([]Warehouse, error)
	GetWarehouse(ctx context.Context, id int) (*Warehouse, error)
	CreateWarehouse(ctx context.Context, w Warehouse) (*Warehouse, error)
	UpdateWarehouse(ctx context.Context, id int, patch WarehousePatch) (*Warehouse, error)
	DeleteWarehouse(ctx context.Context, id int) error
}

type catalogService struct {
	store EntityStore
}

func NewCatalogService(store EntityStore) CatalogService {
	return &catalogService{store: store}
}

func validateProduct(p Product) error {
	switch {
	case strings.TrimSpace(p.SKU) == "":
		return fmt.Errorf("%w: product sku is required", ErrValidation)
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: product name is required", ErrValidation)
	case p.UnitCost.IsNegative():
		return fmt.Errorf("%w: unit cost must not be negative", ErrValidation)
	case p.ReorderPoint < 0:
		return fmt.Errorf("%w: reorder point must not be negative", ErrValidation)
	}
	return nil
}

func validateWarehouse(w Warehouse) error {
	switch {
	case strings.TrimSpace(w.Name) == "":
		return fmt.Errorf("%w: warehouse name is required", ErrValidation)
	case strings.TrimSpace(w.Code) == "":
		return fmt.Errorf("%w: warehouse code is required", ErrValidation)
	}
	return nil
}

// ── Products ──────────────────────────────────────────────────────────────────

func (s *catalogService) ListProducts(ctx context.Context) ([]Product, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int) (*Product, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	i := indexOfProduct(products, id)
	if i < 0 {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return &products[i], nil
}

func (s *catalogService) CreateProduct(ctx context.Context, p Product) (*Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	ids, err := newIDAllocator(ctx, s.store, CollectionProducts, maxID(products, productKey))
	if err != nil {
		return nil, err
	}
	p.ID = ids.Next()
	if err := s.store.SetProducts(ctx, append(products, p)); err != nil {
		return nil, fmt.Errorf("failed to save products: %w", err)
	}
	if err := ids.Commit(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id int, patch ProductPatch) (*Product, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	i := indexOfProduct(products, id)
	if i < 0 {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	p := products[i]
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.UnitCost != nil {
		p.UnitCost = *patch.UnitCost
	}
	if patch.ReorderPoint != nil {
		p.ReorderPoint = *patch.ReorderPoint
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	products[i] = p
	if err := s.store.SetProducts(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to save products: %w", err)
	}
	return &p, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int) error {
	products, err := s.store.Products(ctx)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	i := indexOfProduct(products, id)
	if i < 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err := s.store.SetProducts(ctx, append(products[:i], products[i+1:]...)); err != nil {
		return fmt.Errorf("failed to save products: %w", err)
	}
	return s.dropStock(ctx, func(e StockEntry) bool { return e.ProductID == id })
}

// ── Warehouses ────────────────────────────────────────────────────────────────

func (s *catalogService) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	warehouses, err := s.store.Warehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouses: %w", err)
	}
	return warehouses, nil
}

func (s *catalogService) GetWarehouse(ctx context.Context, id int) (*Warehouse, error) {
	warehouses, err := s.store.Warehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouses: %w", err)
	}
	i := indexOfWarehouse(warehouses, id)
	if i < 0 {
		return nil, fmt.Errorf("warehouse %d: %w", id, ErrNotFound)
	}
	return &warehouses[i], nil
}

func (s *catalogService) CreateWarehouse(ctx context.Context, w Warehouse) (*Warehouse, error) {
	if err := validateWarehouse(w); err != nil {
		return nil, err
	}
	warehouses, err := s.store.Warehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouses: %w", err)
	}
	ids, err := newIDAllocator(ctx, s.store, CollectionWarehouses, maxID(warehouses, warehouseKey))
	if err != nil {
		return nil, err
	}
	w.ID = ids.Next()
	if err := s.store.SetWarehouses(ctx, append(warehouses, w)); err != nil {
		return nil, fmt.Errorf("failed to save warehouses: %w", err)
	}
	if err := ids.Commit(ctx); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *catalogService) UpdateWarehouse(ctx context.Context, id int, patch WarehousePatch) (*Warehouse, error) {
	warehouses, err := s.store.Warehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouses: %w", err)
	}
	i := indexOfWarehouse(warehouses, id)
	if i < 0 {
		return nil, fmt.Errorf("warehouse %d: %w", id, ErrNotFound)
	}

	w := warehouses[i]
	if patch.Name != nil {
		w.Name = *patch.Name
	}
	if patch.Location != nil {
		w.Location = *patch.Location
	}
	if patch.Code != nil {
		w.Code = *patch.Code
	}
	if err := validateWarehouse(w); err != nil {
		return nil, err
	}

	warehouses[i] = w
	if err := s.store.SetWarehouses(ctx, warehouses); err != nil {
		return nil, fmt.Errorf("failed to save warehouses: %w", err)
	}
	return &w, nil
}

func (s *catalogService) DeleteWarehouse(ctx context.Context, id int) error {
	warehouses, err := s.store.Warehouses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load warehouses: %w", err)
	}
	i := indexOfWarehouse(warehouses, id)
	if i < 0 {
		return fmt.Errorf("warehouse %d: %w", id, ErrNotFound)
	}
	if err := s.store.SetWarehouses(ctx, append(warehouses[:i], warehouses[i+1:]...)); err != nil {
		return fmt.Errorf("failed to save warehouses: %w", err)
	}
	return s.dropStock(ctx, func(e StockEntry) bool { return e.WarehouseID == id })
}

func (s *catalogService) dropStock(ctx context.Context, match func(StockEntry) bool) error {
	stock, err := s.store.Stock(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stock: %w", err)
	}
	kept := stock[:0]
	for _, e := range stock {
		if !match(e) {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(stock) {
		return nil
	}
	if err := s.store.SetStock(ctx, kept); err != nil {
		return fmt.Errorf("failed to save stock: %w", err)
	}
	return nil
}
