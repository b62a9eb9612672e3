package core

// scheduler.go runs background maintenance. The only job today is audit
// retention: entries older than the retention window are deleted on startup
// and then once per check interval. A failed run is logged and retried on the
// next tick; it never stops the application.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig controls the audit retention job. Zero values fall back to
// the defaults.
type RetentionConfig struct {
	RetentionDays int           // Days of audit history to keep (default: 90)
	CheckInterval time.Duration // How often to run (default: 24h)
}

const (
	defaultRetentionDays  = 90
	defaultRetentionCheck = 24 * time.Hour
)

func (c RetentionConfig) withDefaults() RetentionConfig {
	if c.RetentionDays <= 0 {
		c.RetentionDays = defaultRetentionDays
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = defaultRetentionCheck
	}
	return c
}

// StartAuditRetention blocks, pruning the audit log until ctx is cancelled.
// Run it in its own goroutine.
func (s *Service) StartAuditRetention(ctx context.Context, cfg RetentionConfig) {
	cfg = cfg.withDefaults()
	slog.Info("audit retention started",
		"retention_days", cfg.RetentionDays,
		"interval", cfg.CheckInterval.String(),
	)

	s.PruneAuditLog(ctx, cfg.RetentionDays)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("audit retention stopped")
			return
		case <-ticker.C:
			s.PruneAuditLog(ctx, cfg.RetentionDays)
		}
	}
}

// PruneAuditLog deletes audit entries older than retentionDays and returns
// how many were removed.
func (s *Service) PruneAuditLog(ctx context.Context, retentionDays int) (int64, error) {
	start := time.Now()
	cutoff := s.now().AddDate(0, 0, -retentionDays)

	n, err := s.store.PurgeAuditEntries(ctx, cutoff)
	if err != nil {
		slog.Error("audit prune failed", "error", err)
		return 0, err
	}
	slog.Info("pruned audit log",
		"entries_deleted", n,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return n, nil
}
