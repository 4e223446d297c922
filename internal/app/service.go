package app

import (
	"context"
	"io"

	"greensupply/internal/core"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
//
// Every method runs to completion before the next one starts, so concurrent
// adapters never interleave reads and writes of the store.
type ApplicationService interface {
	// ── Catalog ──────────────────────────────────────────────────────────────

	ListProducts(ctx context.Context) (*ProductListResult, error)
	GetProduct(ctx context.Context, id int) (*core.Product, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*core.Product, error)
	UpdateProduct(ctx context.Context, id int, req UpdateProductRequest) (*core.Product, error)
	// DeleteProduct removes the product and its stock entries.
	DeleteProduct(ctx context.Context, id int) error

	ListWarehouses(ctx context.Context) (*WarehouseListResult, error)
	GetWarehouse(ctx context.Context, id int) (*core.Warehouse, error)
	CreateWarehouse(ctx context.Context, req CreateWarehouseRequest) (*core.Warehouse, error)
	UpdateWarehouse(ctx context.Context, id int, req UpdateWarehouseRequest) (*core.Warehouse, error)
	// DeleteWarehouse removes the warehouse and its stock entries.
	DeleteWarehouse(ctx context.Context, id int) error

	// ── Stock ────────────────────────────────────────────────────────────────

	ListStock(ctx context.Context) (*StockListResult, error)
	// GetProductStock returns per-warehouse stock and the total for one product.
	GetProductStock(ctx context.Context, productID int) (*ProductStockResult, error)
	// GetTotalStock sums a product over every warehouse. Unknown products total 0.
	GetTotalStock(ctx context.Context, productID int) (int, error)
	// GetStockAt returns the quantity of a product in one warehouse; 0 if none is held.
	GetStockAt(ctx context.Context, productID, warehouseID int) (int, error)
	GetWarehouseStock(ctx context.Context, warehouseID int) (*core.WarehouseStock, error)

	// ── Transfers ────────────────────────────────────────────────────────────

	// CreateTransfer moves stock immediately. When available-stock checking is on,
	// a quantity above the source entry's stock fails with core.ErrInsufficientStock.
	// A source with no entry for the product is not checked and not decremented.
	CreateTransfer(ctx context.Context, req TransferRequest) (*core.Transfer, error)
	// ScheduleTransfer records a pending transfer without moving stock.
	ScheduleTransfer(ctx context.Context, req TransferRequest) (*core.Transfer, error)
	CompleteTransfer(ctx context.Context, id int) (*core.Transfer, error)
	CancelTransfer(ctx context.Context, id int, notes string) (*core.Transfer, error)
	ListTransfers(ctx context.Context, req TransferListRequest) (*TransferListResult, error)

	// ── Alerts ───────────────────────────────────────────────────────────────

	ListAlerts(ctx context.Context, req AlertListRequest) (*AlertListResult, error)
	// GenerateAlerts runs the reconciliation pass over every product.
	GenerateAlerts(ctx context.Context) (*GenerateAlertsResult, error)
	UpdateAlertStatus(ctx context.Context, req UpdateAlertStatusRequest) (*core.Alert, error)
	// AssessStock classifies every product without recording alerts.
	AssessStock(ctx context.Context) ([]core.Assessment, error)

	// ── Reporting & administration ───────────────────────────────────────────

	GetDashboard(ctx context.Context) (*core.Dashboard, error)
	// ExportInventory writes the inventory workbook (XLSX) to w.
	ExportInventory(ctx context.Context, w io.Writer) error
	// SnapshotSchema returns the JSON Schema of the persisted data.
	SnapshotSchema() ([]byte, error)
	// ResetData replaces every collection with the built-in seed data.
	ResetData(ctx context.Context) error
}
