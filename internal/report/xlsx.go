// Package report renders inventory exports and describes the snapshot format.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"greensupply/internal/core"
)

// ContentTypeXLSX is the media type of WriteInventoryXLSX output.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	SheetInventory  = "Inventory"
	SheetWarehouses = "Warehouses"
	SheetAlerts     = "Alerts"
)

// Inventory is everything the spreadsheet export shows.
type Inventory struct {
	GeneratedAt time.Time
	Items       []core.InventoryItem
	Warehouses  []core.WarehouseStock
	Alerts      []core.Alert
	// ProductNames maps product id to display name for the alert sheet.
	ProductNames map[int]string
}

// WriteInventoryXLSX writes a workbook with one sheet each for per-product
// inventory, per-warehouse totals and alert history.
func WriteInventoryXLSX(w io.Writer, inv Inventory) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetInventory); err != nil {
		return fmt.Errorf("failed to name inventory sheet: %w", err)
	}
	for _, name := range []string{SheetWarehouses, SheetAlerts} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	rows := [][]any{{"SKU", "Product", "Category", "Unit Cost", "Reorder Point", "Total Stock", "Value", "Status"}}
	for _, it := range inv.Items {
		rows = append(rows, []any{
			it.Product.SKU, it.Product.Name, it.Product.Category,
			it.Product.UnitCost.InexactFloat64(), it.Product.ReorderPoint,
			it.TotalStock, it.Value.InexactFloat64(), string(it.Status),
		})
	}
	if err := writeRows(f, SheetInventory, rows); err != nil {
		return err
	}

	rows = [][]any{{"Code", "Warehouse", "Location", "Products", "Units", "Value"}}
	for _, ws := range inv.Warehouses {
		rows = append(rows, []any{
			ws.Warehouse.Code, ws.Warehouse.Name, ws.Warehouse.Location,
			ws.TotalProducts, ws.TotalQuantity, ws.TotalValue.InexactFloat64(),
		})
	}
	if err := writeRows(f, SheetWarehouses, rows); err != nil {
		return err
	}

	rows = [][]any{{"ID", "Product", "Level", "Status", "Stock", "Reorder Point", "Recommended Order", "Created", "Notes"}}
	for _, a := range inv.Alerts {
		name := inv.ProductNames[a.ProductID]
		if name == "" {
			name = fmt.Sprintf("#%d", a.ProductID)
		}
		rows = append(rows, []any{
			a.ID, name, string(a.AlertLevel), string(a.Status), a.TotalStock, a.ReorderPoint,
			a.RecommendedOrderQuantity, a.CreatedAt.Format(time.RFC3339), a.Notes,
		})
	}
	if err := writeRows(f, SheetAlerts, rows); err != nil {
		return err
	}

	if !inv.GeneratedAt.IsZero() {
		if err := f.SetDocProps(&excelize.DocProperties{
			Title:   "GreenSupply inventory",
			Created: inv.GeneratedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return fmt.Errorf("failed to set document properties: %w", err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
