package core_test

import (
	"context"
	"errors"
	"testing"

	"greensupply/internal/core"
	"greensupply/internal/store"
)

func TestTransferService_CreateTransfer_ConservesStock(t *testing.T) {
	s, ctx := setupStore(t,
		[]core.Product{product(1, 10)},
		[]core.StockEntry{
			{ID: 1, ProductID: 1, WarehouseID: 1, Quantity: 50},
			{ID: 2, ProductID: 1, WarehouseID: 2, Quantity: 5},
		})
	svc := core.NewTransferService(s, fixedClock)

	tr, err := svc.CreateTransfer(ctx, core.TransferInput{
		ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 2, Quantity: 20, InitiatedBy: "ops",
	})
	if err != nil {
		t.Fatalf("CreateTransfer failed: %v", err)
	}
	if tr.ID != 1 {
		t.Errorf("expected first transfer id 1, got %d", tr.ID)
	}
	if tr.Status != core.TransferCompleted {
		t.Errorf("expected completed, got %s", tr.Status)
	}
	if tr.CompletedAt == nil || !tr.CompletedAt.Equal(tr.CreatedAt) {
		t.Errorf("expected completedAt == createdAt, got %v / %v", tr.CompletedAt, tr.CreatedAt)
	}

	stock, _ := s.Stock(ctx)
	if got := core.TotalStock(stock, 1); got != 55 {
		t.Errorf("total stock changed: got %d, want 55", got)
	}
	if core.StockAt(stock, 1, 1) != 30 || core.StockAt(stock, 1, 2) != 25 {
		t.Errorf("unexpected stock after transfer: %+v", stock)
	}
	if len(stock) != 2 {
		t.Errorf("transfer duplicated a stock entry: %+v", stock)
	}
}

func TestTransferService_CreateTransfer_CreatesDestinationEntry(t *testing.T) {
	s, ctx := setupStore(t,
		[]core.Product{product(1, 10)},
		[]core.StockEntry{{ID: 4, ProductID: 1, WarehouseID: 1, Quantity: 10}})
	svc := core.NewTransferService(s, fixedClock)

	if _, err := svc.CreateTransfer(ctx, core.TransferInput{ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 2, Quantity: 4}); err != nil {
		t.Fatalf("CreateTransfer failed: %v", err)
	}
	stock, _ := s.Stock(ctx)
	if len(stock) != 2 {
		t.Fatalf("expected a new destination entry, got %+v", stock)
	}
	if stock[1].ID != 5 || stock[1].WarehouseID != 2 || stock[1].Quantity != 4 {
		t.Errorf("unexpected destination entry %+v", stock[1])
	}
}

func TestTransferService_CreateTransfer_MissingSourceSkipsDecrement(t *testing.T) {
	s, ctx := setupStore(t, []core.Product{product(1, 10)}, nil)
	svc := core.NewTransferService(s, fixedClock)

	if _, err := svc.CreateTransfer(ctx, core.TransferInput{ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 2, Quantity: 4}); err != nil {
		t.Fatalf("CreateTransfer failed: %v", err)
	}
	stock, _ := s.Stock(ctx)
	if got := core.TotalStock(stock, 1); got != 4 {
		t.Errorf("expected destination-only increment to 4, got %d", got)
	}
}

func TestTransferService_IDAllocation(t *testing.T) {
	s, ctx := setupStore(t, []core.Product{product(1, 10)}, nil)
	if err := s.SetTransfers(ctx, []core.Transfer{{ID: 7, Status: core.TransferCompleted}, {ID: 3, Status: core.TransferCompleted}}); err != nil {
		t.Fatalf("seed transfers: %v", err)
	}
	svc := core.NewTransferService(s, fixedClock)

	tr, err := svc.CreateTransfer(ctx, core.TransferInput{ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 2, Quantity: 1})
	if err != nil {
		t.Fatalf("CreateTransfer failed: %v", err)
	}
	if tr.ID != 8 {
		t.Errorf("expected id 8, got %d", tr.ID)
	}

	transfers, _ := s.Transfers(ctx)
	if transfers[0].ID != 8 {
		t.Errorf("expected new transfer first, got order %v", transfers)
	}

	// Counter survives the record being removed.
	if err := s.SetTransfers(ctx, transfers[1:]); err != nil {
		t.Fatalf("trim transfers: %v", err)
	}
	tr, err = svc.CreateTransfer(ctx, core.TransferInput{ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 2, Quantity: 1})
	if err != nil {
		t.Fatalf("CreateTransfer failed: %v", err)
	}
	if tr.ID != 9 {
		t.Errorf("expected id 9 after delete, got %d", tr.ID)
	}
}

func TestTransferService_Validation(t *testing.T) {
	s, ctx := setupStore(t, []core.Product{product(1, 10)}, nil)
	svc := core.NewTransferService(s, fixedClock)

	tests := []struct {
		name string
		in   core.TransferInput
		want error
	}{
		{"zero quantity", core.TransferInput{ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 2}, core.ErrValidation},
		{"negative quantity", core.TransferInput{ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 2, Quantity: -3}, core.ErrValidation},
		{"same warehouse", core.TransferInput{ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 1, Quantity: 3}, core.ErrValidation},
		{"unknown product", core.TransferInput{ProductID: 9, FromWarehouseID: 1, ToWarehouseID: 2, Quantity: 3}, core.ErrNotFound},
		{"unknown warehouse", core.TransferInput{ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 8, Quantity: 3}, core.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateTransfer(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	transfers, _ := s.Transfers(ctx)
	if len(transfers) != 0 {
		t.Errorf("rejected transfers were recorded: %+v", transfers)
	}
}

func TestTransferService_ScheduleCompleteCancel(t *testing.T) {
	s, ctx := setupStore(t,
		[]core.Product{product(1, 10)},
		[]core.StockEntry{{ID: 1, ProductID: 1, WarehouseID: 1, Quantity: 10}})
	svc := core.NewTransferService(s, fixedClock)

	pending, err := svc.ScheduleTransfer(ctx, core.TransferInput{ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 2, Quantity: 6})
	if err != nil {
		t.Fatalf("ScheduleTransfer failed: %v", err)
	}
	if pending.Status != core.TransferPending || pending.CompletedAt != nil {
		t.Fatalf("expected pending transfer, got %+v", pending)
	}
	stock, _ := s.Stock(ctx)
	if core.StockAt(stock, 1, 1) != 10 {
		t.Errorf("scheduling moved stock")
	}

	done, err := svc.CompleteTransfer(ctx, pending.ID)
	if err != nil {
		t.Fatalf("CompleteTransfer failed: %v", err)
	}
	if done.Status != core.TransferCompleted || done.CompletedAt == nil {
		t.Errorf("expected completed with stamp, got %+v", done)
	}
	stock, _ = s.Stock(ctx)
	if core.StockAt(stock, 1, 1) != 4 || core.StockAt(stock, 1, 2) != 6 {
		t.Errorf("unexpected stock after completion: %+v", stock)
	}

	if _, err := svc.CompleteTransfer(ctx, pending.ID); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition completing twice, got %v", err)
	}
	if _, err := svc.CancelTransfer(ctx, pending.ID, ""); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition cancelling completed, got %v", err)
	}

	other, err := svc.ScheduleTransfer(ctx, core.TransferInput{ProductID: 1, FromWarehouseID: 2, ToWarehouseID: 1, Quantity: 1})
	if err != nil {
		t.Fatalf("ScheduleTransfer failed: %v", err)
	}
	cancelled, err := svc.CancelTransfer(ctx, other.ID, "not needed")
	if err != nil {
		t.Fatalf("CancelTransfer failed: %v", err)
	}
	if cancelled.Status != core.TransferCancelled || cancelled.CancelledAt == nil || cancelled.Notes != "not needed" {
		t.Errorf("unexpected cancelled transfer %+v", cancelled)
	}

	if _, err := svc.CompleteTransfer(ctx, 404); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	list, err := svc.ListTransfers(ctx, core.TransferFilter{Status: core.TransferCancelled})
	if err != nil {
		t.Fatalf("ListTransfers failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != other.ID {
		t.Errorf("status filter returned %+v", list)
	}
	list, _ = svc.ListTransfers(ctx, core.TransferFilter{WarehouseID: 2})
	if len(list) != 2 || list[0].ID != other.ID {
		t.Errorf("warehouse filter should match both directions most recent first, got %+v", list)
	}
}

// failingTransfers rejects every transfer save.
type failingTransfers struct {
	*store.Store
}

var errTransfersDown = errors.New("transfers unavailable")

func (failingTransfers) SetTransfers(context.Context, []core.Transfer) error {
	return errTransfersDown
}

func TestTransferService_CreateTransfer_SaveOrder(t *testing.T) {
	s, ctx := setupStore(t,
		[]core.Product{product(1, 10)},
		[]core.StockEntry{{ID: 1, ProductID: 1, WarehouseID: 1, Quantity: 50}})
	svc := core.NewTransferService(failingTransfers{s}, fixedClock)

	_, err := svc.CreateTransfer(ctx, core.TransferInput{ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 2, Quantity: 10})
	if !errors.Is(err, errTransfersDown) {
		t.Fatalf("expected the transfer save error, got %v", err)
	}

	stock, _ := s.Stock(ctx)
	if core.StockAt(stock, 1, 1) != 40 || core.StockAt(stock, 1, 2) != 10 {
		t.Errorf("stock is written before the transfer list, got %+v", stock)
	}
	transfers, _ := s.Transfers(ctx)
	if len(transfers) != 0 {
		t.Errorf("expected no transfer recorded, got %+v", transfers)
	}
	last, err := s.LastID(ctx, core.CollectionTransfers)
	if err != nil {
		t.Fatalf("LastID failed: %v", err)
	}
	if last != 0 {
		t.Errorf("transfer id counter advanced to %d", last)
	}

	tr, err := core.NewTransferService(s, fixedClock).CreateTransfer(ctx, core.TransferInput{ProductID: 1, FromWarehouseID: 1, ToWarehouseID: 2, Quantity: 1})
	if err != nil {
		t.Fatalf("CreateTransfer failed: %v", err)
	}
	if tr.ID != 1 {
		t.Errorf("expected id 1 after the failed save, got %d", tr.ID)
	}
}
