package core

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	db "github.com/JonMunkholm/InstaDash/internal/database"
)

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	q    *db.Queries
}

// NewPostgresStore returns a Store backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, q: db.New(pool)}
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// UpsertSales sends all rows in one pgx batch inside a transaction, so a
// chunk is written entirely or not at all.
func (p *PostgresStore) UpsertSales(ctx context.Context, sales []Sale) (int64, error) {
	if len(sales) == 0 {
		return 0, nil
	}

	args := make([]db.UpsertSaleParams, len(sales))
	for i, s := range sales {
		args[i] = db.UpsertSaleParams{
			UserID:       s.UserID,
			OrderID:      s.OrderID,
			SubID:        ToPgTextPtr(s.SubID),
			ProductName:  s.ProductName,
			RevenueCents: s.RevenueCents,
			Clicks:       s.Clicks,
			OrderDate:    ToPgDate(s.OrderDate),
			Source:       string(s.Source),
			BatchID:      s.BatchID,
			UploadedAt:   ToPgTimestamptz(s.UploadedAt),
		}
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	n, err := p.q.WithTx(tx).UpsertSales(ctx, args)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

func (p *PostgresStore) DeleteBatch(ctx context.Context, userID, batchID string) (int64, error) {
	return p.q.DeleteSalesByBatch(ctx, db.DeleteSalesByBatchParams{UserID: userID, BatchID: batchID})
}

func (p *PostgresStore) QuerySales(ctx context.Context, userID string, f SalesFilter) ([]Sale, error) {
	rows, err := p.q.ListSales(ctx, db.ListSalesParams{
		UserID:   userID,
		FromDate: ToPgDatePtr(f.From),
		ToDate:   ToPgDatePtr(f.To),
		SubID:    ToPgTextPtr(f.SubID),
		Search:   ToPgText(f.Search),
	})
	if err != nil {
		return nil, err
	}

	out := make([]Sale, len(rows))
	for i, r := range rows {
		out[i] = Sale{
			UserID:       r.UserID,
			OrderID:      r.OrderID,
			SubID:        PgTextPtr(r.SubID),
			ProductName:  r.ProductName,
			RevenueCents: r.RevenueCents,
			Clicks:       r.Clicks,
			OrderDate:    r.OrderDate.Time,
			Source:       Source(r.Source),
			BatchID:      r.BatchID,
			UploadedAt:   r.UploadedAt.Time,
		}
	}
	return out, nil
}

func (p *PostgresStore) ListBatches(ctx context.Context, userID string) ([]UploadBatch, error) {
	rows, err := p.q.ListUploadBatches(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]UploadBatch, len(rows))
	for i, r := range rows {
		out[i] = UploadBatch{BatchID: r.BatchID, UploadedAt: r.UploadedAt.Time, Count: r.RowCount}
	}
	return out, nil
}

func (p *PostgresStore) ExistingOrderIDs(ctx context.Context, userID string, orderIDs []string) (map[string]bool, error) {
	found := make(map[string]bool)
	if len(orderIDs) == 0 {
		return found, nil
	}
	ids, err := p.q.ExistingOrderIDs(ctx, db.ExistingOrderIDsParams{UserID: userID, OrderIds: orderIDs})
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}

func (p *PostgresStore) InsertExpense(ctx context.Context, e Expense) error {
	return p.q.InsertExpense(ctx, db.InsertExpenseParams{
		ID:          ToPgUUID(e.ID),
		UserID:      e.UserID,
		AmountCents: e.AmountCents,
		ExpenseDate: ToPgDate(e.Date),
		Description: ToPgText(e.Description),
		Category:    ToPgText(e.Category),
		CreatedAt:   ToPgTimestamptz(e.CreatedAt),
	})
}

func (p *PostgresStore) ListExpenses(ctx context.Context, userID string, r DateRange) ([]Expense, error) {
	rows, err := p.q.ListExpenses(ctx, db.ListExpensesParams{
		UserID:   userID,
		FromDate: ToPgDatePtr(r.From),
		ToDate:   ToPgDatePtr(r.To),
	})
	if err != nil {
		return nil, err
	}

	out := make([]Expense, len(rows))
	for i, row := range rows {
		out[i] = Expense{
			ID:          PgUUIDToString(row.ID),
			UserID:      row.UserID,
			AmountCents: row.AmountCents,
			Date:        row.ExpenseDate.Time,
			Description: row.Description.String,
			Category:    row.Category.String,
			CreatedAt:   row.CreatedAt.Time,
		}
	}
	return out, nil
}

func (p *PostgresStore) DeleteExpense(ctx context.Context, userID, id string) (int64, error) {
	return p.q.DeleteExpense(ctx, db.DeleteExpenseParams{UserID: userID, ID: ToPgUUID(id)})
}

func campaignSheetFromRow(r db.CampaignSheet) CampaignSheet {
	return CampaignSheet{
		ID:        PgUUIDToString(r.ID),
		UserID:    r.UserID,
		SubID:     r.SubID,
		Title:     r.Title,
		CreatedAt: r.CreatedAt.Time,
	}
}

func (p *PostgresStore) UpsertCampaignSheet(ctx context.Context, sheet CampaignSheet) (CampaignSheet, error) {
	row, err := p.q.UpsertCampaignSheet(ctx, db.UpsertCampaignSheetParams{
		ID:        ToPgUUID(sheet.ID),
		UserID:    sheet.UserID,
		SubID:     sheet.SubID,
		Title:     sheet.Title,
		CreatedAt: ToPgTimestamptz(sheet.CreatedAt),
	})
	if err != nil {
		return CampaignSheet{}, err
	}
	return campaignSheetFromRow(row), nil
}

func (p *PostgresStore) GetCampaignSheet(ctx context.Context, userID, subID string) (CampaignSheet, error) {
	row, err := p.q.GetCampaignSheetBySubID(ctx, db.GetCampaignSheetBySubIDParams{UserID: userID, SubID: subID})
	if errors.Is(err, pgx.ErrNoRows) {
		return CampaignSheet{}, ErrNotFound
	}
	if err != nil {
		return CampaignSheet{}, err
	}
	return campaignSheetFromRow(row), nil
}

func (p *PostgresStore) ListCampaignSheets(ctx context.Context, userID string) ([]CampaignSheet, error) {
	rows, err := p.q.ListCampaignSheets(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]CampaignSheet, len(rows))
	for i, r := range rows {
		out[i] = campaignSheetFromRow(r)
	}
	return out, nil
}

func (p *PostgresStore) InsertCampaignExpense(ctx context.Context, e CampaignExpense) error {
	return p.q.InsertCampaignExpense(ctx, db.InsertCampaignExpenseParams{
		ID:          ToPgUUID(e.ID),
		SheetID:     ToPgUUID(e.SheetID),
		AmountCents: e.AmountCents,
		ExpenseDate: ToPgDate(e.Date),
		IsManual:    e.Manual,
		CreatedAt:   ToPgTimestamptz(e.CreatedAt),
	})
}

func (p *PostgresStore) ListCampaignExpenses(ctx context.Context, sheetID string) ([]CampaignExpense, error) {
	rows, err := p.q.ListCampaignExpenses(ctx, ToPgUUID(sheetID))
	if err != nil {
		return nil, err
	}
	out := make([]CampaignExpense, len(rows))
	for i, r := range rows {
		out[i] = CampaignExpense{
			ID:          PgUUIDToString(r.ID),
			SheetID:     PgUUIDToString(r.SheetID),
			AmountCents: r.AmountCents,
			Date:        r.ExpenseDate.Time,
			Manual:      r.IsManual,
			CreatedAt:   r.CreatedAt.Time,
		}
	}
	return out, nil
}

func (p *PostgresStore) DeleteCampaignExpense(ctx context.Context, sheetID, id string) (int64, error) {
	return p.q.DeleteCampaignExpense(ctx, db.DeleteCampaignExpenseParams{
		SheetID: ToPgUUID(sheetID),
		ID:      ToPgUUID(id),
	})
}

func (p *PostgresStore) InsertTrackedLink(ctx context.Context, l TrackedLink) error {
	return p.q.InsertTrackedLink(ctx, db.InsertTrackedLinkParams{
		ID:          ToPgUUID(l.ID),
		UserID:      l.UserID,
		OriginalUrl: l.OriginalURL,
		TrackedUrl:  l.TrackedURL,
		SubID:       ToPgTextPtr(l.SubID),
		CreatedAt:   ToPgTimestamptz(l.CreatedAt),
	})
}

func (p *PostgresStore) ListTrackedLinks(ctx context.Context, userID string) ([]TrackedLink, error) {
	rows, err := p.q.ListTrackedLinks(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]TrackedLink, len(rows))
	for i, r := range rows {
		out[i] = TrackedLink{
			ID:          PgUUIDToString(r.ID),
			UserID:      r.UserID,
			OriginalURL: r.OriginalUrl,
			TrackedURL:  r.TrackedUrl,
			SubID:       PgTextPtr(r.SubID),
			CreatedAt:   r.CreatedAt.Time,
		}
	}
	return out, nil
}

func (p *PostgresStore) InsertAuditEntry(ctx context.Context, e AuditEntry) error {
	return p.q.InsertAuditLog(ctx, db.InsertAuditLogParams{
		ID:           ToPgUUID(e.ID),
		Action:       string(e.Action),
		Severity:     string(e.Severity),
		UserID:       e.UserID,
		BatchID:      ToPgText(e.BatchID),
		FileName:     ToPgText(e.FileName),
		RowsAffected: int32(e.RowsAffected),
		IpAddress:    ToPgText(e.IPAddress),
		UserAgent:    ToPgText(e.UserAgent),
		Reason:       ToPgText(e.Reason),
		CreatedAt:    ToPgTimestamptz(e.CreatedAt),
	})
}

func (p *PostgresStore) ListAuditEntries(ctx context.Context, userID string, limit int) ([]AuditEntry, error) {
	rows, err := p.q.ListAuditLog(ctx, db.ListAuditLogParams{UserID: userID, Limit: int32(limit)})
	if err != nil {
		return nil, err
	}
	out := make([]AuditEntry, len(rows))
	for i, r := range rows {
		out[i] = AuditEntry{
			ID:           PgUUIDToString(r.ID),
			Action:       AuditAction(r.Action),
			Severity:     AuditSeverity(r.Severity),
			UserID:       r.UserID,
			BatchID:      r.BatchID.String,
			FileName:     r.FileName.String,
			RowsAffected: int(r.RowsAffected),
			IPAddress:    r.IpAddress.String,
			UserAgent:    r.UserAgent.String,
			Reason:       r.Reason.String,
			CreatedAt:    r.CreatedAt.Time,
		}
	}
	return out, nil
}

func (p *PostgresStore) PurgeAuditEntries(ctx context.Context, before time.Time) (int64, error) {
	return p.q.PurgeAuditLog(ctx, ToPgTimestamptz(before))
}
