package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"

	"greensupply/internal/core"
)

// Snapshot is the complete state of the five collections.
type Snapshot struct {
	Products   []core.Product    `json:"products"`
	Warehouses []core.Warehouse  `json:"warehouses"`
	Stock      []core.StockEntry `json:"stock"`
	Transfers  []core.Transfer   `json:"transfers"`
	Alerts     []core.Alert      `json:"alerts"`
}

//go:embed seed.json
var seedJSON []byte

// SeedData returns a fresh copy of the built-in demo data.
func SeedData() (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(seedJSON, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}
	return &snap, nil
}

// Take reads every collection from es.
func Take(ctx context.Context, es core.EntityStore) (*Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.Products, err = es.Products(ctx); err != nil {
		return nil, err
	}
	if snap.Warehouses, err = es.Warehouses(ctx); err != nil {
		return nil, err
	}
	if snap.Stock, err = es.Stock(ctx); err != nil {
		return nil, err
	}
	if snap.Transfers, err = es.Transfers(ctx); err != nil {
		return nil, err
	}
	if snap.Alerts, err = es.Alerts(ctx); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Seed writes the built-in data into collections that have never been written.
// With force set, every collection and id counter is replaced.
func Seed(ctx context.Context, s *Store, force bool) error {
	snap, err := SeedData()
	if err != nil {
		return err
	}
	if force {
		if err := s.Clear(ctx); err != nil {
			return err
		}
	}

	writers := map[core.Collection]func() error{
		core.CollectionProducts:   func() error { return s.SetProducts(ctx, snap.Products) },
		core.CollectionWarehouses: func() error { return s.SetWarehouses(ctx, snap.Warehouses) },
		core.CollectionStock:      func() error { return s.SetStock(ctx, snap.Stock) },
		core.CollectionTransfers:  func() error { return s.SetTransfers(ctx, snap.Transfers) },
		core.CollectionAlerts:     func() error { return s.SetAlerts(ctx, snap.Alerts) },
	}
	for _, c := range core.Collections {
		empty, err := s.Empty(ctx, c)
		if err != nil {
			return err
		}
		if !empty {
			continue
		}
		if err := writers[c](); err != nil {
			return err
		}
		log.Printf("seeded %s", c)
	}
	return nil
}
