package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Sale struct {
	UserID       string
	OrderID      string
	SubID        pgtype.Text
	ProductName  string
	RevenueCents int64
	Clicks       int64
	OrderDate    pgtype.Date
	Source       string
	BatchID      string
	UploadedAt   pgtype.Timestamptz
}

type UploadBatch struct {
	BatchID    string
	UploadedAt pgtype.Timestamptz
	RowCount   int64
}

type Expense struct {
	ID          pgtype.UUID
	UserID      string
	AmountCents int64
	ExpenseDate pgtype.Date
	Description pgtype.Text
	Category    pgtype.Text
	CreatedAt   pgtype.Timestamptz
}

type CampaignSheet struct {
	ID        pgtype.UUID
	UserID    string
	SubID     string
	Title     string
	CreatedAt pgtype.Timestamptz
}

type CampaignExpense struct {
	ID          pgtype.UUID
	SheetID     pgtype.UUID
	AmountCents int64
	ExpenseDate pgtype.Date
	IsManual    bool
	CreatedAt   pgtype.Timestamptz
}

type TrackedLink struct {
	ID          pgtype.UUID
	UserID      string
	OriginalUrl string
	TrackedUrl  string
	SubID       pgtype.Text
	CreatedAt   pgtype.Timestamptz
}

type AuditLog struct {
	ID           pgtype.UUID
	Action       string
	Severity     string
	UserID       string
	BatchID      pgtype.Text
	FileName     pgtype.Text
	RowsAffected int32
	IpAddress    pgtype.Text
	UserAgent    pgtype.Text
	Reason       pgtype.Text
	CreatedAt    pgtype.Timestamptz
}
