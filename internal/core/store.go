package core

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist for the user.
var ErrNotFound = errors.New("record not found")

// SalesStore persists normalized sales.
type SalesStore interface {
	// UpsertSales writes rows keyed by (user, order id), replacing any
	// existing row with the same key.
	UpsertSales(ctx context.Context, sales []Sale) (int64, error)
	// DeleteBatch removes every row of one upload in a single statement.
	DeleteBatch(ctx context.Context, userID, batchID string) (int64, error)
	// QuerySales returns matching rows ordered by order date descending,
	// then order id.
	QuerySales(ctx context.Context, userID string, f SalesFilter) ([]Sale, error)
	ListBatches(ctx context.Context, userID string) ([]UploadBatch, error)
	ExistingOrderIDs(ctx context.Context, userID string, orderIDs []string) (map[string]bool, error)
}

// ExpenseStore persists manual expenses.
type ExpenseStore interface {
	InsertExpense(ctx context.Context, e Expense) error
	ListExpenses(ctx context.Context, userID string, r DateRange) ([]Expense, error)
	DeleteExpense(ctx context.Context, userID, id string) (int64, error)
}

// CampaignStore persists campaign sheets, their expenses and tracked links.
type CampaignStore interface {
	// UpsertCampaignSheet creates the sheet for (user, sub id) or updates
	// its title, returning the stored sheet.
	UpsertCampaignSheet(ctx context.Context, sheet CampaignSheet) (CampaignSheet, error)
	GetCampaignSheet(ctx context.Context, userID, subID string) (CampaignSheet, error)
	ListCampaignSheets(ctx context.Context, userID string) ([]CampaignSheet, error)
	InsertCampaignExpense(ctx context.Context, e CampaignExpense) error
	ListCampaignExpenses(ctx context.Context, sheetID string) ([]CampaignExpense, error)
	DeleteCampaignExpense(ctx context.Context, sheetID, id string) (int64, error)
	InsertTrackedLink(ctx context.Context, l TrackedLink) error
	ListTrackedLinks(ctx context.Context, userID string) ([]TrackedLink, error)
}

// AuditStore persists audit entries.
type AuditStore interface {
	InsertAuditEntry(ctx context.Context, e AuditEntry) error
	ListAuditEntries(ctx context.Context, userID string, limit int) ([]AuditEntry, error)
	// PurgeAuditEntries deletes entries created before the cutoff.
	PurgeAuditEntries(ctx context.Context, before time.Time) (int64, error)
}

// Store is everything the service needs from persistence.
type Store interface {
	SalesStore
	ExpenseStore
	CampaignStore
	AuditStore
	Ping(ctx context.Context) error
}
