// restore-seed is a one-shot tool to restore the demo data in the configured store.
// Run it when the catalog or stock has been accidentally wiped or corrupted.
// Every collection and id counter is replaced.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"
	"log"

	"greensupply/internal/app"
	"greensupply/internal/config"
	"greensupply/internal/store"
)

func main() {
	cfg := config.Load()
	cfg.SeedOnStart = false

	ctx := context.Background()
	es, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	log.Printf("Restoring seed data into %s store...", cfg.StoreBackend)
	if err := store.Seed(ctx, es, true); err != nil {
		closeStore()
		log.Fatalf("Failed to restore seed data: %v", err)
	}

	snap, err := store.Take(ctx, es)
	if err != nil {
		closeStore()
		log.Fatalf("Failed to read back store: %v", err)
	}
	log.Printf("Seed restored: %d products, %d warehouses, %d stock entries, %d transfers, %d alerts.",
		len(snap.Products), len(snap.Warehouses), len(snap.Stock), len(snap.Transfers), len(snap.Alerts))
}
