package report_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"greensupply/internal/core"
	"greensupply/internal/report"
)

func TestWriteInventoryXLSX(t *testing.T) {
	p := core.Product{ID: 1, SKU: "ECO-1", Name: "Bamboo Brush", Category: "Care", UnitCost: decimal.RequireFromString("2.50"), ReorderPoint: 10}
	inv := report.Inventory{
		GeneratedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Items: []core.InventoryItem{
			{Product: p, TotalStock: 4, Value: decimal.NewFromInt(10), Status: core.LowStock},
		},
		Warehouses: []core.WarehouseStock{
			{Warehouse: core.Warehouse{ID: 1, Code: "N1", Name: "North"}, TotalProducts: 1, TotalQuantity: 4, TotalValue: decimal.NewFromInt(10)},
		},
		Alerts: []core.Alert{
			{ID: 7, ProductID: 1, AlertLevel: core.LevelCritical, Status: core.AlertPending, TotalStock: 4, ReorderPoint: 10, RecommendedOrderQuantity: 21},
			{ID: 6, ProductID: 9, AlertLevel: core.LevelLow, Status: core.AlertResolved},
		},
		ProductNames: map[int]string{1: "Bamboo Brush"},
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteInventoryXLSX(&buf, inv))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{report.SheetInventory, report.SheetWarehouses, report.SheetAlerts}, f.GetSheetList())

	rows, err := f.GetRows(report.SheetInventory)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ECO-1", rows[1][0])
	assert.Equal(t, "Low Stock", rows[1][7])

	rows, err = f.GetRows(report.SheetAlerts)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Bamboo Brush", rows[1][1])
	assert.Equal(t, "#9", rows[2][1])
}

func TestSnapshotSchema(t *testing.T) {
	raw, err := report.SnapshotSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok, "schema has no properties")
	for _, key := range []string{"products", "warehouses", "stock", "transfers", "alerts"} {
		assert.Contains(t, props, key)
	}

	products := props["products"].(map[string]any)
	item := products["items"].(map[string]any)
	unitCost := item["properties"].(map[string]any)["unitCost"].(map[string]any)
	assert.Equal(t, "string", unitCost["type"])
}
