package app

import (
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the input for adding a product to the catalog.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,max=64"`
	Name         string          `json:"name" validate:"required,max=200"`
	Category     string          `json:"category" validate:"max=100"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	ReorderPoint int             `json:"reorderPoint" validate:"gte=0"`
}

// UpdateProductRequest changes only the fields that are set.
type UpdateProductRequest struct {
	SKU          *string          `json:"sku" validate:"omitempty,min=1,max=64"`
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category     *string          `json:"category" validate:"omitempty,max=100"`
	UnitCost     *decimal.Decimal `json:"unitCost"`
	ReorderPoint *int             `json:"reorderPoint" validate:"omitempty,gte=0"`
}

// CreateWarehouseRequest is the input for adding a warehouse.
type CreateWarehouseRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Location string `json:"location" validate:"max=200"`
	Code     string `json:"code" validate:"required,max=32"`
}

// UpdateWarehouseRequest changes only the fields that are set.
type UpdateWarehouseRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Location *string `json:"location" validate:"omitempty,max=200"`
	Code     *string `json:"code" validate:"omitempty,min=1,max=32"`
}

// TransferRequest is the input for creating or scheduling a transfer.
type TransferRequest struct {
	ProductID       int    `json:"productId" validate:"required,gt=0"`
	FromWarehouseID int    `json:"fromWarehouseId" validate:"required,gt=0"`
	ToWarehouseID   int    `json:"toWarehouseId" validate:"required,gt=0,nefield=FromWarehouseID"`
	Quantity        int    `json:"quantity" validate:"required,gt=0"`
	InitiatedBy     string `json:"initiatedBy" validate:"required,max=100"`
	Notes           string `json:"notes" validate:"max=1000"`
}

// TransferListRequest filters ListTransfers. Zero values match everything.
type TransferListRequest struct {
	ProductID   int
	WarehouseID int
	Status      string `validate:"omitempty,oneof=pending completed cancelled"`
}

// AlertListRequest filters ListAlerts. Zero values match everything.
type AlertListRequest struct {
	ProductID int
	Status    string `validate:"omitempty,oneof=pending acknowledged resolved dismissed"`
	Level     string `validate:"omitempty,oneof=critical low adequate overstocked"`
}

// UpdateAlertStatusRequest moves an alert to a new status.
type UpdateAlertStatusRequest struct {
	ID     int    `json:"id" validate:"required,gt=0"`
	Status string `json:"status" validate:"required,oneof=pending acknowledged resolved dismissed"`
	Notes  string `json:"notes" validate:"max=1000"`
}
