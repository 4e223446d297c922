package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"greensupply/internal/app"
)

// handleTransfer runs an interactive transfer session. With schedule set the
// transfer is recorded as pending instead of moving stock.
func handleTransfer(ctx context.Context, reader *bufio.Reader, w io.Writer, svc app.ApplicationService, schedule bool) {
	fmt.Fprintln(w, "New transfer. Type 'cancel' at any prompt to abort.")

	var req app.TransferRequest
	fields := []struct {
		prompt string
		dst    *int
	}{
		{"Product id", &req.ProductID},
		{"From warehouse id", &req.FromWarehouseID},
		{"To warehouse id", &req.ToWarehouseID},
		{"Quantity", &req.Quantity},
	}
	for _, f := range fields {
		for {
			raw, ok := prompt(reader, w, f.prompt)
			if !ok {
				fmt.Fprintln(w, "Transfer cancelled.")
				return
			}
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				fmt.Fprintln(w, "  Enter a positive whole number.")
				continue
			}
			*f.dst = n
			break
		}
	}

	by, ok := prompt(reader, w, "Initiated by")
	if !ok || by == "" {
		fmt.Fprintln(w, "Transfer cancelled.")
		return
	}
	req.InitiatedBy = by
	notes, ok := prompt(reader, w, "Notes (optional)")
	if !ok {
		fmt.Fprintln(w, "Transfer cancelled.")
		return
	}
	req.Notes = notes

	create := svc.CreateTransfer
	if schedule {
		create = svc.ScheduleTransfer
	}
	t, err := create(ctx, req)
	if err != nil {
		fmt.Fprintf(w, "[REPL] Error creating transfer: %v\n", err)
		return
	}
	printTransfer(w, t)
	if schedule {
		fmt.Fprintf(w, "Use '/complete %d' to move the stock.\n", t.ID)
	}
}

// prompt reads one trimmed line. It returns false on 'cancel' or end of input.
func prompt(reader *bufio.Reader, w io.Writer, label string) (string, bool) {
	fmt.Fprintf(w, "  %s: ", label)
	raw, err := reader.ReadString('\n')
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "cancel") {
		return "", false
	}
	if err != nil && raw == "" {
		return "", false
	}
	return raw, true
}
