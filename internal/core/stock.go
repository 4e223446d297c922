package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// TotalStock sums the quantity of a product over every warehouse. Unknown products total 0.
func TotalStock(stock []StockEntry, productID int) int {
	total := 0
	for _, s := range stock {
		if s.ProductID == productID {
			total += s.Quantity
		}
	}
	return total
}

// StockAt returns the quantity of a product held in one warehouse, or 0 when no entry exists.
func StockAt(stock []StockEntry, productID, warehouseID int) int {
	if i := findStockEntry(stock, productID, warehouseID); i >= 0 {
		return stock[i].Quantity
	}
	return 0
}

func findStockEntry(stock []StockEntry, productID, warehouseID int) int {
	for i, s := range stock {
		if s.ProductID == productID && s.WarehouseID == warehouseID {
			return i
		}
	}
	return -1
}

// StockStatusFor applies the dashboard availability rule, which treats stock at the
// reorder point as low (unlike alert classification).
func StockStatusFor(totalStock, reorderPoint int) StockStatus {
	switch {
	case totalStock == 0:
		return OutOfStock
	case totalStock <= reorderPoint:
		return LowStock
	default:
		return InStock
	}
}

// StockService answers read-only questions about stock levels.
type StockService interface {
	TotalStock(ctx context.Context, productID int) (int, error)
	StockAt(ctx context.Context, productID, warehouseID int) (int, error)
	// ListStock returns every stock entry.
	ListStock(ctx context.Context) ([]StockEntry, error)
	// StockLevels returns the per-warehouse entries of one product.
	StockLevels(ctx context.Context, productID int) ([]StockEntry, error)
	// WarehouseStock returns the contents of a warehouse with quantity and value totals.
	WarehouseStock(ctx context.Context, warehouseID int) (*WarehouseStock, error)
	InventoryOverview(ctx context.Context) ([]InventoryItem, error)
	TotalInventoryValue(ctx context.Context) (decimal.Decimal, error)
}

type stockService struct {
	store EntityStore
}

func NewStockService(store EntityStore) StockService {
	return &stockService{store: store}
}

func (s *stockService) TotalStock(ctx context.Context, productID int) (int, error) {
	stock, err := s.store.Stock(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load stock: %w", err)
	}
	return TotalStock(stock, productID), nil
}

func (s *stockService) StockAt(ctx context.Context, productID, warehouseID int) (int, error) {
	stock, err := s.store.Stock(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load stock: %w", err)
	}
	return StockAt(stock, productID, warehouseID), nil
}

func (s *stockService) ListStock(ctx context.Context) ([]StockEntry, error) {
	stock, err := s.store.Stock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}
	return stock, nil
}

func (s *stockService) StockLevels(ctx context.Context, productID int) ([]StockEntry, error) {
	stock, err := s.store.Stock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}
	var out []StockEntry
	for _, e := range stock {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stockService) WarehouseStock(ctx context.Context, warehouseID int) (*WarehouseStock, error) {
	warehouses, err := s.store.Warehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouses: %w", err)
	}
	wi := indexOfWarehouse(warehouses, warehouseID)
	if wi < 0 {
		return nil, fmt.Errorf("warehouse %d: %w", warehouseID, ErrNotFound)
	}
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	stock, err := s.store.Stock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}

	ws := &WarehouseStock{Warehouse: warehouses[wi], TotalValue: decimal.Zero}
	for _, e := range stock {
		if e.WarehouseID != warehouseID {
			continue
		}
		line := WarehouseStockLine{Entry: e, Value: decimal.Zero}
		if pi := indexOfProduct(products, e.ProductID); pi >= 0 {
			p := products[pi]
			line.Product = &p
			line.Value = p.UnitCost.Mul(decimal.NewFromInt(int64(e.Quantity)))
		}
		ws.Lines = append(ws.Lines, line)
		ws.TotalProducts++
		ws.TotalQuantity += e.Quantity
		ws.TotalValue = ws.TotalValue.Add(line.Value)
	}
	return ws, nil
}

func (s *stockService) InventoryOverview(ctx context.Context) ([]InventoryItem, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	stock, err := s.store.Stock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}
	return inventoryOverview(products, stock), nil
}

func (s *stockService) TotalInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.InventoryOverview(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Value)
	}
	return total, nil
}

func inventoryOverview(products []Product, stock []StockEntry) []InventoryItem {
	items := make([]InventoryItem, 0, len(products))
	for _, p := range products {
		total := TotalStock(stock, p.ID)
		items = append(items, InventoryItem{
			Product:    p,
			TotalStock: total,
			Value:      p.UnitCost.Mul(decimal.NewFromInt(int64(total))),
			Status:     StockStatusFor(total, p.ReorderPoint),
		})
	}
	return items
}

func indexOfProduct(products []Product, id int) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func indexOfWarehouse(warehouses []Warehouse, id int) int {
	for i, w := range warehouses {
		if w.ID == id {
			return i
		}
	}
	return -1
}
