package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"greensupply/internal/app"
	"greensupply/internal/core"
)

var errExit = errors.New("exit")

// Run starts the interactive REPL loop. It reads slash commands from reader and
// writes all output to w. It returns when the user exits or input ends.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, w io.Writer) {
	fmt.Fprintln(w, "GreenSupply Inventory")
	fmt.Fprintln(w, "Use /help for commands.")
	fmt.Fprintln(w, strings.Repeat("-", 70))

	for {
		fmt.Fprint(w, "\n> ")
		input, readErr := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if readErr != nil {
				fmt.Fprintln(w, "Goodbye!")
				return
			}
			continue
		}

		if !strings.HasPrefix(input, "/") {
			fmt.Fprintln(w, "Commands start with '/'. Type /help for the list.")
			continue
		}
		if err := dispatch(ctx, svc, reader, w, input); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(w, "Goodbye!")
				return
			}
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	}
}

func dispatch(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, w io.Writer, input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]

	switch cmd {
	case "products":
		result, err := svc.ListProducts(ctx)
		if err != nil {
			return err
		}
		printProducts(w, result)

	case "warehouses":
		result, err := svc.ListWarehouses(ctx)
		if err != nil {
			return err
		}
		printWarehouses(w, result)

	case "stock":
		if len(args) > 0 {
			id, ok := parseID(w, args[0])
			if !ok {
				return nil
			}
			result, err := svc.GetProductStock(ctx, id)
			if err != nil {
				return err
			}
			printStockRows(w, fmt.Sprintf("STOCK · %s %s (total %d)", result.Product.SKU, result.Product.Name, result.TotalStock), result.Rows)
			return nil
		}
		result, err := svc.ListStock(ctx)
		if err != nil {
			return err
		}
		printStockRows(w, "STOCK", result.Rows)

	case "transfer":
		handleTransfer(ctx, reader, w, svc, false)

	case "schedule":
		handleTransfer(ctx, reader, w, svc, true)

	case "complete":
		if len(args) < 1 {
			fmt.Fprintln(w, "Usage: /complete <transfer-id>")
			return nil
		}
		id, ok := parseID(w, args[0])
		if !ok {
			return nil
		}
		t, err := svc.CompleteTransfer(ctx, id)
		if err != nil {
			return err
		}
		printTransfer(w, t)

	case "cancel":
		if len(args) < 1 {
			fmt.Fprintln(w, "Usage: /cancel <transfer-id> [notes]")
			return nil
		}
		id, ok := parseID(w, args[0])
		if !ok {
			return nil
		}
		t, err := svc.CancelTransfer(ctx, id, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		printTransfer(w, t)

	case "transfers":
		req := app.TransferListRequest{}
		if len(args) > 0 {
			req.Status = strings.ToLower(args[0])
		}
		result, err := svc.ListTransfers(ctx, req)
		if err != nil {
			return err
		}
		printTransfers(w, result)

	case "alerts":
		req := app.AlertListRequest{}
		if len(args) > 0 {
			req.Status = strings.ToLower(args[0])
		}
		result, err := svc.ListAlerts(ctx, req)
		if err != nil {
			return err
		}
		printAlerts(w, result.Alerts)

	case "generate":
		result, err := svc.GenerateAlerts(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d new alert(s), %d total.\n", len(result.Created), len(result.Alerts))

	case "ack", "resolve", "dismiss":
		if len(args) < 1 {
			fmt.Fprintf(w, "Usage: /%s <alert-id> [notes]\n", cmd)
			return nil
		}
		id, ok := parseID(w, args[0])
		if !ok {
			return nil
		}
		status := map[string]core.AlertStatus{
			"ack":     core.AlertAcknowledged,
			"resolve": core.AlertResolved,
			"dismiss": core.AlertDismissed,
		}[cmd]
		a, err := svc.UpdateAlertStatus(ctx, app.UpdateAlertStatusRequest{
			ID:     id,
			Status: string(status),
			Notes:  strings.Join(args[1:], " "),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Alert %d is now %s.\n", a.ID, strings.ToUpper(string(a.Status)))

	case "assess":
		result, err := svc.AssessStock(ctx)
		if err != nil {
			return err
		}
		printAssessment(w, result)

	case "dashboard":
		d, err := svc.GetDashboard(ctx)
		if err != nil {
			return err
		}
		printDashboard(w, d)

	case "export":
		if len(args) < 1 {
			fmt.Fprintln(w, "Usage: /export <file.xlsx>")
			return nil
		}
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := svc.ExportInventory(ctx, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(w, "Inventory report written to %s\n", args[0])

	case "reset":
		if err := svc.ResetData(ctx); err != nil {
			return err
		}
		fmt.Fprintln(w, "Seed data restored.")

	case "help", "h":
		printHelp(w)

	case "exit", "quit", "e", "q":
		return errExit

	default:
		fmt.Fprintf(w, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}

func parseID(w io.Writer, raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		fmt.Fprintf(w, "Invalid id: %s\n", raw)
		return 0, false
	}
	return id, true
}
