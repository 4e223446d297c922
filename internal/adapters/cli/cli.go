package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"greensupply/internal/app"
	"greensupply/internal/core"
)

// ErrUsage is returned for a missing or malformed subcommand.
var ErrUsage = errors.New("usage")

const usage = `Available commands:
  products                                   list the catalog
  warehouses                                 list warehouses
  stock [product-id]                         list stock rows, or one catalog product's stock
  total <product-id>                         total stock of a product (0 if unknown)
  transfer <product> <from> <to> <qty> <by> [notes...]
  schedule <product> <from> <to> <qty> <by> [notes...]
  complete <transfer-id>
  cancel <transfer-id> [notes...]
  transfers [status]
  alerts [status]
  generate-alerts
  alert-status <alert-id> <status> [notes...]
  assess
  dashboard
  export <file.xlsx>
  schema
  reset`

// Run executes a one-shot CLI command, writing its output to out.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given\n%s", ErrUsage, usage)
	}

	switch args[0] {
	case "products":
		result, err := svc.ListProducts(ctx)
		if err != nil {
			return err
		}
		return writeJSON(out, result.Products)

	case "warehouses":
		result, err := svc.ListWarehouses(ctx)
		if err != nil {
			return err
		}
		return writeJSON(out, result.Warehouses)

	case "stock":
		if len(args) > 1 {
			id, err := parseID(args[1], "product id")
			if err != nil {
				return err
			}
			result, err := svc.GetProductStock(ctx, id)
			if err != nil {
				return err
			}
			return writeJSON(out, result)
		}
		result, err := svc.ListStock(ctx)
		if err != nil {
			return err
		}
		return writeJSON(out, result.Rows)

	case "total":
		if len(args) < 2 {
			return fmt.Errorf("%w: total <product-id>", ErrUsage)
		}
		id, err := parseID(args[1], "product id")
		if err != nil {
			return err
		}
		total, err := svc.GetTotalStock(ctx, id)
		if err != nil {
			return err
		}
		return writeJSON(out, map[string]int{"productId": id, "totalStock": total})

	case "transfer", "schedule":
		req, err := parseTransfer(args[1:])
		if err != nil {
			return err
		}
		var t *core.Transfer
		if args[0] == "transfer" {
			t, err = svc.CreateTransfer(ctx, req)
		} else {
			t, err = svc.ScheduleTransfer(ctx, req)
		}
		if err != nil {
			return err
		}
		return writeJSON(out, t)

	case "complete":
		if len(args) < 2 {
			return fmt.Errorf("%w: app complete <transfer-id>", ErrUsage)
		}
		id, err := parseID(args[1], "transfer id")
		if err != nil {
			return err
		}
		t, err := svc.CompleteTransfer(ctx, id)
		if err != nil {
			return err
		}
		return writeJSON(out, t)

	case "cancel":
		if len(args) < 2 {
			return fmt.Errorf("%w: app cancel <transfer-id> [notes...]", ErrUsage)
		}
		id, err := parseID(args[1], "transfer id")
		if err != nil {
			return err
		}
		t, err := svc.CancelTransfer(ctx, id, strings.Join(args[2:], " "))
		if err != nil {
			return err
		}
		return writeJSON(out, t)

	case "transfers":
		req := app.TransferListRequest{}
		if len(args) > 1 {
			req.Status = args[1]
		}
		result, err := svc.ListTransfers(ctx, req)
		if err != nil {
			return err
		}
		return writeJSON(out, result.Transfers)

	case "alerts":
		req := app.AlertListRequest{}
		if len(args) > 1 {
			req.Status = args[1]
		}
		result, err := svc.ListAlerts(ctx, req)
		if err != nil {
			return err
		}
		return writeJSON(out, result.Alerts)

	case "generate-alerts":
		result, err := svc.GenerateAlerts(ctx)
		if err != nil {
			return err
		}
		return writeJSON(out, result.Created)

	case "alert-status":
		if len(args) < 3 {
			return fmt.Errorf("%w: app alert-status <alert-id> <status> [notes...]", ErrUsage)
		}
		id, err := parseID(args[1], "alert id")
		if err != nil {
			return err
		}
		a, err := svc.UpdateAlertStatus(ctx, app.UpdateAlertStatusRequest{
			ID:     id,
			Status: strings.ToLower(args[2]),
			Notes:  strings.Join(args[3:], " "),
		})
		if err != nil {
			return err
		}
		return writeJSON(out, a)

	case "assess":
		result, err := svc.AssessStock(ctx)
		if err != nil {
			return err
		}
		return writeJSON(out, result)

	case "dashboard":
		d, err := svc.GetDashboard(ctx)
		if err != nil {
			return err
		}
		printDashboard(out, d)
		return nil

	case "export":
		if len(args) < 2 {
			return fmt.Errorf("%w: app export <file.xlsx>", ErrUsage)
		}
		f, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", args[1], err)
		}
		if err := svc.ExportInventory(ctx, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", args[1], err)
		}
		fmt.Fprintf(out, "Inventory report written to %s\n", args[1])
		return nil

	case "schema":
		schema, err := svc.SnapshotSchema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(schema))
		return err

	case "reset":
		if err := svc.ResetData(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Seed data restored.")
		return nil

	default:
		return fmt.Errorf("%w: unknown command %q\n%s", ErrUsage, args[0], usage)
	}
}

func parseID(raw, what string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrUsage, what, raw)
	}
	return id, nil
}

// parseTransfer reads <product> <from> <to> <qty> <by> [notes...].
func parseTransfer(args []string) (app.TransferRequest, error) {
	if len(args) < 5 {
		return app.TransferRequest{}, fmt.Errorf("%w: <product> <from> <to> <qty> <by> [notes...]", ErrUsage)
	}
	names := []string{"product id", "source warehouse id", "destination warehouse id", "quantity"}
	nums := make([]int, len(names))
	for i, name := range names {
		n, err := parseID(args[i], name)
		if err != nil {
			return app.TransferRequest{}, err
		}
		nums[i] = n
	}
	return app.TransferRequest{
		ProductID:       nums[0],
		FromWarehouseID: nums[1],
		ToWarehouseID:   nums[2],
		Quantity:        nums[3],
		InitiatedBy:     args[4],
		Notes:           strings.Join(args[5:], " "),
	}, nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printDashboard(out io.Writer, d *core.Dashboard) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 62))
	fmt.Fprintf(out, "  %-58s\n", "INVENTORY DASHBOARD")
	fmt.Fprintf(out, "  Products   : %d\n", d.TotalProducts)
	fmt.Fprintf(out, "  Warehouses : %d\n", d.TotalWarehouses)
	fmt.Fprintf(out, "  Value      : %s\n", d.InventoryValue.StringFixed(2))
	fmt.Fprintf(out, "  Alerts     : %d pending (%d critical, %d low)\n",
		d.PendingAlerts, d.Alerts.CriticalPending, d.Alerts.LowPending)
	fmt.Fprintln(out, strings.Repeat("=", 62))
	fmt.Fprintf(out, "  %-10s %-24s %8s %14s\n", "SKU", "NAME", "STOCK", "STATUS")
	fmt.Fprintln(out, strings.Repeat("-", 62))
	for _, it := range d.Inventory {
		fmt.Fprintf(out, "  %-10s %-24s %8d %14s\n", it.Product.SKU, truncate(it.Product.Name, 24), it.TotalStock, it.Status)
	}
	fmt.Fprintln(out, strings.Repeat("=", 62))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
