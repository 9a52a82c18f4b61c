package app

import (
	"context"
	"log"
	"time"
)

// SweepOnce drops every approved request. Their effect already lives in the
// ledger, so only the audit rows go.
func (a *App) SweepOnce(ctx context.Context) (int, error) {
	return a.Requests.ClearApproved(ctx, SystemAdmin)
}

// RunSweeper calls SweepOnce on every tick until ctx is done.
func (a *App) RunSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	log.Printf("[SWEEPER] clearing approved requests every %s", every)
	for {
		select {
		case <-ctx.Done():
			log.Println("[SWEEPER] stopped")
			return
		case <-ticker.C:
			n, err := a.SweepOnce(ctx)
			if err != nil {
				log.Printf("[SWEEPER] sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[SWEEPER] cleared %d approved requests", n)
			}
		}
	}
}
