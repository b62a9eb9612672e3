package core

import (
	"context"
	"testing"
	"time"
)

func TestPruneAuditLog(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	for _, age := range []int{200, 91, 10, 0} {
		store.InsertAuditEntry(ctx, AuditEntry{
			ID:        "e",
			UserID:    "u1",
			Action:    ActionUpload,
			CreatedAt: testNow.AddDate(0, 0, -age),
		})
	}

	n, err := svc.PruneAuditLog(ctx, 90)
	if err != nil {
		t.Fatalf("PruneAuditLog: %v", err)
	}
	if n != 2 {
		t.Errorf("pruned %d entries, want 2", n)
	}

	left, _ := svc.AuditLog(ctx, "u1", 0)
	if len(left) != 2 {
		t.Errorf("kept %d entries, want 2", len(left))
	}
}

func TestStartAuditRetention_StopsOnCancel(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.StartAuditRetention(ctx, RetentionConfig{RetentionDays: 1, CheckInterval: time.Hour})
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("retention loop did not stop after cancel")
	}
}

func TestRetentionConfigDefaults(t *testing.T) {
	cfg := RetentionConfig{}.withDefaults()
	if cfg.RetentionDays != 90 || cfg.CheckInterval != 24*time.Hour {
		t.Errorf("defaults = %+v", cfg)
	}
}
