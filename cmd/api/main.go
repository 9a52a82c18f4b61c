package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/43bits/mess-calender-gec/internal/app"
	"github.com/43bits/mess-calender-gec/internal/config"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}

	// amounts go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── SERVICES ─────────────────────────
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ startup: %v", err)
	}
	defer a.Close()

	// ───────────────────────── START ─────────────────────────
	r := a.Router()
	log.Printf("🚀 Server running on %s (store: %s)", cfg.Addr(), cfg.DBDriver)
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal(err)
	}
}
