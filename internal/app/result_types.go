package app

import (
	"greensupply/internal/core"
)

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product `json:"products"`
}

// WarehouseListResult is returned by ListWarehouses.
type WarehouseListResult struct {
	Warehouses []core.Warehouse `json:"warehouses"`
}

// StockRow is one stock entry with display names resolved.
type StockRow struct {
	core.StockEntry
	SKU           string `json:"sku"`
	ProductName   string `json:"productName"`
	WarehouseCode string `json:"warehouseCode"`
}

// StockListResult is returned by ListStock.
type StockListResult struct {
	Rows []StockRow `json:"rows"`
}

// ProductStockResult is returned by GetProductStock.
type ProductStockResult struct {
	Product    core.Product `json:"product"`
	Rows       []StockRow   `json:"rows"`
	TotalStock int          `json:"totalStock"`
}

// TransferRow is a transfer with display names resolved.
type TransferRow struct {
	core.Transfer
	ProductName string `json:"productName"`
	FromCode    string `json:"fromCode"`
	ToCode      string `json:"toCode"`
}

// TransferListResult is returned by ListTransfers, most recent first.
type TransferListResult struct {
	Transfers []TransferRow `json:"transfers"`
}

// AlertRow is an alert with the product's display name resolved.
type AlertRow struct {
	core.Alert
	SKU         string `json:"sku"`
	ProductName string `json:"productName"`
}

// AlertListResult is returned by ListAlerts.
type AlertListResult struct {
	Alerts []AlertRow `json:"alerts"`
}

// GenerateAlertsResult is returned by GenerateAlerts.
type GenerateAlertsResult struct {
	Created []core.Alert `json:"created"`
	Alerts  []core.Alert `json:"alerts"`
}
