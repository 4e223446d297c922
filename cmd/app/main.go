package main

import (
	"bufio"
	"context"
	"errors"
	"log"
	"os"

	"greensupply/internal/adapters/cli"
	"greensupply/internal/adapters/repl"
	"greensupply/internal/app"
	"greensupply/internal/config"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	es, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to open store: %v", err)
	}
	defer closeStore()

	svc := app.NewAppService(es, app.OptionsFromConfig(cfg))

	if len(os.Args) > 1 {
		if err := cli.Run(ctx, svc, os.Args[1:], os.Stdout); err != nil {
			closeStore()
			if errors.Is(err, cli.ErrUsage) {
				log.Fatal(err)
			}
			log.Fatalf("Command failed: %v", err)
		}
		return
	}

	repl.Run(ctx, svc, bufio.NewReader(os.Stdin), os.Stdout)
}
