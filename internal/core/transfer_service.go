package core

import (
	"context"
	"fmt"
	"strings"
)

// TransferInput describes a movement of one product between two warehouses.
type TransferInput struct {
	ProductID       int
	FromWarehouseID int
	ToWarehouseID   int
	Quantity        int
	InitiatedBy     string
	Notes           string
}

// TransferFilter narrows ListTransfers. Zero fields match everything; a warehouse
// matches as either source or destination.
type TransferFilter struct {
	ProductID   int
	WarehouseID int
	Status      TransferStatus
}

// TransferService executes and records warehouse-to-warehouse stock movements.
type TransferService interface {
	// CreateTransfer moves stock immediately and records a completed transfer.
	// A source warehouse without a stock entry for the product is not decremented.
	CreateTransfer(ctx context.Context, in TransferInput) (*Transfer, error)
	// ScheduleTransfer records a pending transfer without touching stock.
	ScheduleTransfer(ctx context.Context, in TransferInput) (*Transfer, error)
	// CompleteTransfer moves the stock of a pending transfer and marks it completed.
	CompleteTransfer(ctx context.Context, id int) (*Transfer, error)
	// CancelTransfer marks a pending transfer cancelled. Stock is not touched.
	CancelTransfer(ctx context.Context, id int, notes string) (*Transfer, error)
	// ListTransfers returns transfers most recent first.
	ListTransfers(ctx context.Context, filter TransferFilter) ([]Transfer, error)
}

type transferService struct {
	store EntityStore
	now   Clock
}

// NewTransferService returns a TransferService backed by store. A nil clock uses UTC wall time.
func NewTransferService(store EntityStore, clock Clock) TransferService {
	if clock == nil {
		clock = systemClock
	}
	return &transferService{store: store, now: clock}
}

func (s *transferService) CreateTransfer(ctx context.Context, in TransferInput) (*Transfer, error) {
	return s.record(ctx, in, true)
}

func (s *transferService) ScheduleTransfer(ctx context.Context, in TransferInput) (*Transfer, error) {
	return s.record(ctx, in, false)
}

func (s *transferService) record(ctx context.Context, in TransferInput, execute bool) (*Transfer, error) {
	if err := s.validate(ctx, in.ProductID, in.FromWarehouseID, in.ToWarehouseID, in.Quantity); err != nil {
		return nil, err
	}

	transfers, err := s.store.Transfers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transfers: %w", err)
	}
	ids, err := newIDAllocator(ctx, s.store, CollectionTransfers, maxID(transfers, transferKey))
	if err != nil {
		return nil, err
	}

	now := s.now()
	t := Transfer{
		ID:              ids.Next(),
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		InitiatedBy:     strings.TrimSpace(in.InitiatedBy),
		Status:          TransferPending,
		Notes:           in.Notes,
		CreatedAt:       now,
	}

	// Stock is saved before the transfer list and the collections share no transaction.
	// If the transfer save fails the movement stays applied with no record, and the
	// id counter is not advanced.
	if execute {
		if err := s.moveStock(ctx, t); err != nil {
			return nil, err
		}
		t.Status = TransferCompleted
		t.CompletedAt = &now
	}

	if err := s.store.SetTransfers(ctx, append([]Transfer{t}, transfers...)); err != nil {
		return nil, fmt.Errorf("failed to save transfers: %w", err)
	}
	if err := ids.Commit(ctx); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *transferService) CompleteTransfer(ctx context.Context, id int) (*Transfer, error) {
	return s.transition(ctx, id, TransferCompleted, "")
}

func (s *transferService) CancelTransfer(ctx context.Context, id int, notes string) (*Transfer, error) {
	return s.transition(ctx, id, TransferCancelled, notes)
}

func (s *transferService) transition(ctx context.Context, id int, to TransferStatus, notes string) (*Transfer, error) {
	transfers, err := s.store.Transfers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transfers: %w", err)
	}
	i := -1
	for j, t := range transfers {
		if t.ID == id {
			i = j
			break
		}
	}
	if i < 0 {
		return nil, fmt.Errorf("transfer %d: %w", id, ErrNotFound)
	}

	t := transfers[i]
	if t.Status != TransferPending {
		return nil, fmt.Errorf("transfer %d is %s, cannot become %s: %w", id, t.Status, to, ErrInvalidTransition)
	}

	now := s.now()
	switch to {
	case TransferCompleted:
		if err := s.validate(ctx, t.ProductID, t.FromWarehouseID, t.ToWarehouseID, t.Quantity); err != nil {
			return nil, err
		}
		if err := s.moveStock(ctx, t); err != nil {
			return nil, err
		}
		t.CompletedAt = &now
	case TransferCancelled:
		t.CancelledAt = &now
	}
	t.Status = to
	if notes != "" {
		t.Notes = notes
	}

	transfers[i] = t
	if err := s.store.SetTransfers(ctx, transfers); err != nil {
		return nil, fmt.Errorf("failed to save transfers: %w", err)
	}
	return &t, nil
}

func (s *transferService) ListTransfers(ctx context.Context, filter TransferFilter) ([]Transfer, error) {
	transfers, err := s.store.Transfers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transfers: %w", err)
	}
	out := make([]Transfer, 0, len(transfers))
	for _, t := range transfers {
		if filter.ProductID != 0 && t.ProductID != filter.ProductID {
			continue
		}
		if filter.WarehouseID != 0 && t.FromWarehouseID != filter.WarehouseID && t.ToWarehouseID != filter.WarehouseID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// validate rejects malformed movements and references to unknown products or warehouses.
func (s *transferService) validate(ctx context.Context, productID, fromID, toID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrValidation, qty)
	}
	if fromID == toID {
		return fmt.Errorf("%w: source and destination warehouse are both %d", ErrValidation, fromID)
	}

	products, err := s.store.Products(ctx)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	if indexOfProduct(products, productID) < 0 {
		return fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	warehouses, err := s.store.Warehouses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load warehouses: %w", err)
	}
	for _, id := range []int{fromID, toID} {
		if indexOfWarehouse(warehouses, id) < 0 {
			return fmt.Errorf("warehouse %d: %w", id, ErrNotFound)
		}
	}
	return nil
}

// moveStock decrements the source entry if one exists and increments or creates the
// destination entry, then persists the stock collection.
func (s *transferService) moveStock(ctx context.Context, t Transfer) error {
	stock, err := s.store.Stock(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stock: %w", err)
	}
	ids, err := newIDAllocator(ctx, s.store, CollectionStock, maxID(stock, stockKey))
	if err != nil {
		return err
	}

	if i := findStockEntry(stock, t.ProductID, t.FromWarehouseID); i >= 0 {
		stock[i].Quantity -= t.Quantity
	}
	if i := findStockEntry(stock, t.ProductID, t.ToWarehouseID); i >= 0 {
		stock[i].Quantity += t.Quantity
	} else {
		stock = append(stock, StockEntry{
			ID:          ids.Next(),
			ProductID:   t.ProductID,
			WarehouseID: t.ToWarehouseID,
			Quantity:    t.Quantity,
		})
	}

	if err := s.store.SetStock(ctx, stock); err != nil {
		return fmt.Errorf("failed to save stock: %w", err)
	}
	return ids.Commit(ctx)
}
