package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is catalog reference data. ReorderPoint is the quantity below which
// restocking is recommended.
type Product struct {
	ID           int             `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	ReorderPoint int             `json:"reorderPoint"`
}

// Warehouse is a physical storage location.
type Warehouse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Code     string `json:"code"`
}

// StockEntry is the quantity of one product held in one warehouse.
// At most one entry exists per (ProductID, WarehouseID) pair.
type StockEntry struct {
	ID          int `json:"id"`
	ProductID   int `json:"productId"`
	WarehouseID int `json:"warehouseId"`
	Quantity    int `json:"quantity"`
}

type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
)

// Transfer is a recorded movement of a fixed quantity of one product between two warehouses.
type Transfer struct {
	ID              int            `json:"id"`
	ProductID       int            `json:"productId"`
	FromWarehouseID int            `json:"fromWarehouseId"`
	ToWarehouseID   int            `json:"toWarehouseId"`
	Quantity        int            `json:"quantity"`
	InitiatedBy     string         `json:"initiatedBy"`
	Status          TransferStatus `json:"status"`
	Notes           string         `json:"notes,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	CompletedAt     *time.Time     `json:"completedAt,omitempty"`
	CancelledAt     *time.Time     `json:"cancelledAt,omitempty"`
}

type AlertLevel string

const (
	LevelCritical    AlertLevel = "critical"
	LevelLow         AlertLevel = "low"
	LevelAdequate    AlertLevel = "adequate"
	LevelOverstocked AlertLevel = "overstocked"
)

// Actionable reports whether the level warrants a persisted alert.
func (l AlertLevel) Actionable() bool {
	return l == LevelCritical || l == LevelLow
}

type AlertStatus string

const (
	AlertPending      AlertStatus = "pending"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
	AlertDismissed    AlertStatus = "dismissed"
)

// Terminal reports whether no further transitions are allowed from s.
func (s AlertStatus) Terminal() bool {
	return s == AlertResolved || s == AlertDismissed
}

// Valid reports whether s is one of the known alert statuses.
func (s AlertStatus) Valid() bool {
	switch s {
	case AlertPending, AlertAcknowledged, AlertResolved, AlertDismissed:
		return true
	}
	return false
}

// Alert is a point-in-time judgment about a product's aggregate stock.
// TotalStock and ReorderPoint are snapshots taken when the alert was created.
type Alert struct {
	ID                       int         `json:"id"`
	ProductID                int         `json:"productId"`
	TotalStock               int         `json:"totalStock"`
	ReorderPoint             int         `json:"reorderPoint"`
	AlertLevel               AlertLevel  `json:"alertLevel"`
	Status                   AlertStatus `json:"status"`
	RecommendedOrderQuantity int         `json:"recommendedOrderQuantity"`
	CreatedAt                time.Time   `json:"createdAt"`
	AcknowledgedAt           *time.Time  `json:"acknowledgedAt,omitempty"`
	ResolvedAt               *time.Time  `json:"resolvedAt,omitempty"`
	DismissedAt              *time.Time  `json:"dismissedAt,omitempty"`
	Notes                    string      `json:"notes,omitempty"`
}

// StockStatus is the dashboard availability label for a product.
type StockStatus string

const (
	InStock    StockStatus = "In Stock"
	LowStock   StockStatus = "Low Stock"
	OutOfStock StockStatus = "Out of Stock"
)

// InventoryItem is a read view of one product with its aggregate stock.
type InventoryItem struct {
	Product    Product         `json:"product"`
	TotalStock int             `json:"totalStock"`
	Value      decimal.Decimal `json:"value"`
	Status     StockStatus     `json:"status"`
}

// WarehouseStockLine is one stock row in a warehouse joined with its product.
type WarehouseStockLine struct {
	Entry   StockEntry      `json:"entry"`
	Product *Product        `json:"product,omitempty"`
	Value   decimal.Decimal `json:"value"`
}

// WarehouseStock summarises everything held in a single warehouse.
type WarehouseStock struct {
	Warehouse     Warehouse            `json:"warehouse"`
	Lines         []WarehouseStockLine `json:"lines"`
	TotalProducts int                  `json:"totalProducts"`
	TotalQuantity int                  `json:"totalQuantity"`
	TotalValue    decimal.Decimal      `json:"totalValue"`
}
