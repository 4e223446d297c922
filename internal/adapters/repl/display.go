package repl

import (
	"fmt"
	"io"
	"strings"

	"greensupply/internal/app"
	"greensupply/internal/core"
)

func printProducts(w io.Writer, result *app.ProductListResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "  PRODUCTS")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	if len(result.Products) == 0 {
		fmt.Fprintln(w, "  No products found.")
		fmt.Fprintln(w, strings.Repeat("=", 72))
		return
	}
	fmt.Fprintf(w, "  %-4s %-9s %-26s %-14s %8s %7s\n", "ID", "SKU", "NAME", "CATEGORY", "COST", "REORDER")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, p := range result.Products {
		fmt.Fprintf(w, "  %-4d %-9s %-26s %-14s %8s %7d\n",
			p.ID, p.SKU, clip(p.Name, 26), clip(p.Category, 14), p.UnitCost.StringFixed(2), p.ReorderPoint)
	}
	fmt.Fprintln(w, strings.Repeat("=", 72))
}

func printWarehouses(w io.Writer, result *app.WarehouseListResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintln(w, "  WAREHOUSES")
	fmt.Fprintln(w, strings.Repeat("=", 62))
	if len(result.Warehouses) == 0 {
		fmt.Fprintln(w, "  No warehouses found.")
		fmt.Fprintln(w, strings.Repeat("=", 62))
		return
	}
	fmt.Fprintf(w, "  %-4s %-8s %-24s %s\n", "ID", "CODE", "NAME", "LOCATION")
	fmt.Fprintln(w, strings.Repeat("-", 62))
	for _, wh := range result.Warehouses {
		fmt.Fprintf(w, "  %-4d %-8s %-24s %s\n", wh.ID, wh.Code, clip(wh.Name, 24), wh.Location)
	}
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printStockRows(w io.Writer, title string, rows []app.StockRow) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	if len(rows) == 0 {
		fmt.Fprintln(w, "  No stock held.")
		fmt.Fprintln(w, strings.Repeat("=", 62))
		return
	}
	fmt.Fprintf(w, "  %-9s %-28s %-9s %10s\n", "SKU", "PRODUCT", "WAREHOUSE", "QTY")
	fmt.Fprintln(w, strings.Repeat("-", 62))
	for _, r := range rows {
		fmt.Fprintf(w, "  %-9s %-28s %-9s %10d\n", r.SKU, clip(r.ProductName, 28), r.WarehouseCode, r.Quantity)
	}
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printTransfer(w io.Writer, t *core.Transfer) {
	fmt.Fprintf(w, "Transfer %d: product %d, %d units, warehouse %d -> %d, %s\n",
		t.ID, t.ProductID, t.Quantity, t.FromWarehouseID, t.ToWarehouseID, strings.ToUpper(string(t.Status)))
}

func printTransfers(w io.Writer, result *app.TransferListResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w, "  TRANSFERS (most recent first)")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	if len(result.Transfers) == 0 {
		fmt.Fprintln(w, "  No transfers found.")
		fmt.Fprintln(w, strings.Repeat("=", 80))
		return
	}
	fmt.Fprintf(w, "  %-4s %-24s %-8s %-8s %6s %-10s %s\n", "ID", "PRODUCT", "FROM", "TO", "QTY", "STATUS", "BY")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, t := range result.Transfers {
		fmt.Fprintf(w, "  %-4d %-24s %-8s %-8s %6d %-10s %s\n",
			t.ID, clip(t.ProductName, 24), t.FromCode, t.ToCode, t.Quantity, t.Status, t.InitiatedBy)
	}
	fmt.Fprintln(w, strings.Repeat("=", 80))
}

func printAlerts(w io.Writer, alerts []app.AlertRow) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w, "  REORDER ALERTS")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	if len(alerts) == 0 {
		fmt.Fprintln(w, "  No alerts.")
		fmt.Fprintln(w, strings.Repeat("=", 80))
		return
	}
	fmt.Fprintf(w, "  %-4s %-9s %-24s %-9s %-12s %6s %6s\n", "ID", "SKU", "PRODUCT", "LEVEL", "STATUS", "STOCK", "ORDER")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, a := range alerts {
		fmt.Fprintf(w, "  %-4d %-9s %-24s %-9s %-12s %6d %6d\n",
			a.ID, a.SKU, clip(a.ProductName, 24), a.AlertLevel, a.Status, a.TotalStock, a.RecommendedOrderQuantity)
	}
	fmt.Fprintln(w, strings.Repeat("=", 80))
}

func printAssessment(w io.Writer, items []core.Assessment) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintln(w, "  STOCK ASSESSMENT")
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "  %-9s %-24s %7s %-11s %6s\n", "SKU", "PRODUCT", "STOCK", "LEVEL", "ORDER")
	fmt.Fprintln(w, strings.Repeat("-", 62))
	for _, a := range items {
		fmt.Fprintf(w, "  %-9s %-24s %7d %-11s %6d\n",
			a.Product.SKU, clip(a.Product.Name, 24), a.TotalStock, a.Level, a.RecommendedOrderQuantity)
	}
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printDashboard(w io.Writer, d *core.Dashboard) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "  %-58s\n", "INVENTORY DASHBOARD")
	fmt.Fprintf(w, "  Products   : %d\n", d.TotalProducts)
	fmt.Fprintf(w, "  Warehouses : %d\n", d.TotalWarehouses)
	fmt.Fprintf(w, "  Value      : %s\n", d.InventoryValue.StringFixed(2))
	fmt.Fprintf(w, "  Alerts     : %d pending, %d acknowledged, %d closed\n",
		d.Alerts.Pending, d.Alerts.Acknowledged, d.Alerts.Closed)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "  %-9s %-24s %8s %14s\n", "SKU", "NAME", "STOCK", "STATUS")
	fmt.Fprintln(w, strings.Repeat("-", 62))
	for _, it := range d.Inventory {
		fmt.Fprintf(w, "  %-9s %-24s %8d %14s\n", it.Product.SKU, clip(it.Product.Name, 24), it.TotalStock, it.Status)
	}
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "GREENSUPPLY INVENTORY · COMMANDS")
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  CATALOG")
	fmt.Fprintln(w, "  /products                        List products")
	fmt.Fprintln(w, "  /warehouses                      List warehouses")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  STOCK")
	fmt.Fprintln(w, "  /stock [product-id]              Stock rows, optionally for one product")
	fmt.Fprintln(w, "  /transfer                        Move stock between warehouses (interactive)")
	fmt.Fprintln(w, "  /schedule                        Record a pending transfer (interactive)")
	fmt.Fprintln(w, "  /complete <transfer-id>          Complete a pending transfer")
	fmt.Fprintln(w, "  /cancel   <transfer-id> [notes]  Cancel a pending transfer")
	fmt.Fprintln(w, "  /transfers [status]              Transfer history")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  ALERTS")
	fmt.Fprintln(w, "  /alerts [status]                 List reorder alerts")
	fmt.Fprintln(w, "  /generate                        Run alert generation")
	fmt.Fprintln(w, "  /ack <alert-id> [notes]          Acknowledge an alert")
	fmt.Fprintln(w, "  /resolve <alert-id> [notes]      Resolve an alert")
	fmt.Fprintln(w, "  /dismiss <alert-id> [notes]      Dismiss an alert")
	fmt.Fprintln(w, "  /assess                          Classify stock without recording alerts")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  REPORTS")
	fmt.Fprintln(w, "  /dashboard                       Headline figures")
	fmt.Fprintln(w, "  /export <file.xlsx>              Write the inventory workbook")
	fmt.Fprintln(w, "  /reset                           Restore the seed data")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  SESSION")
	fmt.Fprintln(w, "  /help                            Show this help")
	fmt.Fprintln(w, "  /exit                            Exit")
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
