package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCachedAdSpend(t *testing.T) {
	calls := 0
	src := AdSpendFunc(func(_ context.Context, userID string) (int64, error) {
		calls++
		if userID == "broken" {
			return 0, errors.New("ads api unavailable")
		}
		return int64(calls) * 100, nil
	})
	c := NewCachedAdSpend(src, time.Minute)
	ctx := context.Background()

	first, err := c.AdSpendCents(ctx, "u1")
	if err != nil || first != 100 {
		t.Fatalf("first = %d, %v", first, err)
	}
	if again, _ := c.AdSpendCents(ctx, "u1"); again != 100 || calls != 1 {
		t.Errorf("cached value = %d after %d calls, want 100 after 1", again, calls)
	}

	c.Invalidate("u1")
	if fresh, _ := c.AdSpendCents(ctx, "u1"); fresh != 200 {
		t.Errorf("after invalidate = %d, want 200", fresh)
	}

	before := calls
	for i := 0; i < 2; i++ {
		if _, err := c.AdSpendCents(ctx, "broken"); err == nil {
			t.Fatal("expected error")
		}
	}
	if calls != before+2 {
		t.Errorf("errors were cached: %d calls, want %d", calls, before+2)
	}
}

func TestStats_AdSpend(t *testing.T) {
	store := NewMemoryStore()
	svc, err := NewService(store, testConfig(), StaticAdSpend(500))
	if err != nil {
		t.Fatal(err)
	}
	svc.SetClock(func() time.Time { return testNow })
	ctx := context.Background()

	importCSV(t, svc, "u1", salesHeader+"A1,\"20,00\",10/06/2024,Caneca,,\n")

	rep, err := svc.Stats(ctx, "u1", WindowToday, nil)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if rep.AdSpendCents != 500 || rep.TotalExpenses != 500 || rep.NetProfit != 1500 {
		t.Errorf("report = %+v", rep)
	}

	override := int64(0)
	rep, err = svc.Stats(ctx, "u1", WindowToday, &override)
	if err != nil {
		t.Fatal(err)
	}
	if rep.TotalExpenses != 0 || rep.ROIPercent != nil {
		t.Errorf("override ignored: %+v", rep)
	}

	failing := AdSpendFunc(func(context.Context, string) (int64, error) {
		return 0, errors.New("ads api unavailable")
	})
	svc2, _ := NewService(store, testConfig(), failing)
	if _, err := svc2.Stats(ctx, "u1", WindowAll, nil); err == nil {
		t.Error("ad spend failure should fail the report")
	}
}
