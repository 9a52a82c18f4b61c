package app

import (
	"context"
	"testing"
	"time"

	"github.com/43bits/mess-calender-gec/internal/config"
	"github.com/43bits/mess-calender-gec/internal/core"
	"github.com/43bits/mess-calender-gec/internal/requests"
)

func TestSweepOnce_RemovesOnlyApproved(t *testing.T) {
	a := newTestApp(t, config.DriverMemory)
	ctx := context.Background()
	resident := core.Caller{ID: "u1", Role: core.RoleStudent}
	veg := "veg"

	first, err := a.Requests.Submit(ctx, resident, requests.SubmitInput{Meal: "lunch", Date: "2025-03-10", Reason: "exam", Type: &veg})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Requests.Submit(ctx, resident, requests.SubmitInput{Meal: "dinner", Date: "2025-03-10", Reason: "exam", Type: &veg}); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Requests.Approve(ctx, SystemAdmin, first.ID); err != nil {
		t.Fatal(err)
	}

	n, err := a.SweepOnce(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 swept, got %d", n)
	}

	left, err := a.Requests.ListForOwner(ctx, resident, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || left[0].Status != requests.StatusPending {
		t.Fatalf("expected the pending request to remain, got %+v", left)
	}
}

func TestRunSweeper_StopsWithContext(t *testing.T) {
	a := newTestApp(t, config.DriverMemory)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		a.RunSweeper(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
