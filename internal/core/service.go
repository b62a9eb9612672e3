package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/InstaDash/internal/config"
)

// Service provides the business logic for sales ingestion and reporting.
type Service struct {
	store   Store
	adSpend AdSpendSource
	limiter *UploadLimiter

	uploadCfg       config.UploadConfig
	defaultEncoding Encoding

	now func() time.Time
}

// NewService wires a Service around a store. adSpend may be nil, in which
// case external spend is always zero unless a request overrides it.
func NewService(store Store, cfg *config.Config, adSpend AdSpendSource) (*Service, error) {
	if store == nil {
		return nil, errors.New("core: nil store")
	}
	if cfg == nil {
		return nil, errors.New("core: nil config")
	}

	enc, err := ParseEncoding(cfg.Upload.Encoding)
	if err != nil {
		return nil, fmt.Errorf("upload encoding: %w", err)
	}
	if adSpend == nil {
		adSpend = StaticAdSpend(0)
	}

	return &Service{
		store:           store,
		adSpend:         adSpend,
		limiter:         NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		uploadCfg:       cfg.Upload,
		defaultEncoding: enc,
		now:             time.Now,
	}, nil
}

// SetClock replaces the service's time source. Used by tests to pin windows
// and batch timestamps.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Now returns the service's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// Ping checks the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// UploadLimiterStatus reports current upload slot usage.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// ListBatches returns the user's uploads, newest first.
func (s *Service) ListBatches(ctx context.Context, userID string) ([]UploadBatch, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	return s.store.ListBatches(ctx, userID)
}

// DeleteBatch removes every sale written by one upload. Rows from other
// batches are untouched, including rows whose order id was later re-uploaded
// under a different batch.
func (s *Service) DeleteBatch(ctx context.Context, userID, batchID string) (int64, error) {
	if userID == "" {
		return 0, ErrMissingUser
	}
	if batchID == "" {
		return 0, fmt.Errorf("batch id: %w", ErrNotFound)
	}

	n, err := s.store.DeleteBatch(ctx, userID, batchID)
	if err != nil {
		return 0, fmt.Errorf("delete batch %s: %w", batchID, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("batch %s: %w", batchID, ErrNotFound)
	}

	s.LogAudit(ctx, AuditLogParams{
		Action:       ActionBatchDelete,
		UserID:       userID,
		BatchID:      batchID,
		RowsAffected: int(n),
	})
	return n, nil
}
