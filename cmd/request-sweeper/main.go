package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/43bits/mess-calender-gec/internal/app"
	"github.com/43bits/mess-calender-gec/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}
	if cfg.DBDriver == config.DriverMemory {
		log.Fatal("❌ request sweeper needs a shared store, DB_DRIVER=memory has nothing to sweep")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ startup: %v", err)
	}
	defer a.Close()

	log.Println("🧹 Request sweeper starting. Press Ctrl+C to stop.")
	a.RunSweeper(ctx, cfg.SweepInterval)
}
