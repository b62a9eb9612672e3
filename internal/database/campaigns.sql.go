package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const upsertCampaignSheet = `
INSERT INTO campaign_sheets (id, user_id, sub_id, title, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, sub_id) DO UPDATE SET title = EXCLUDED.title
RETURNING id, user_id, sub_id, title, created_at
`

type UpsertCampaignSheetParams struct {
	ID        pgtype.UUID
	UserID    string
	SubID     string
	Title     string
	CreatedAt pgtype.Timestamptz
}

func (q *Queries) UpsertCampaignSheet(ctx context.Context, arg UpsertCampaignSheetParams) (CampaignSheet, error) {
	row := q.db.QueryRow(ctx, upsertCampaignSheet, arg.ID, arg.UserID, arg.SubID, arg.Title, arg.CreatedAt)
	var i CampaignSheet
	err := row.Scan(&i.ID, &i.UserID, &i.SubID, &i.Title, &i.CreatedAt)
	return i, err
}

const getCampaignSheetBySubID = `
SELECT id, user_id, sub_id, title, created_at
FROM campaign_sheets
WHERE user_id = $1 AND sub_id = $2
`

type GetCampaignSheetBySubIDParams struct {
	UserID string
	SubID  string
}

func (q *Queries) GetCampaignSheetBySubID(ctx context.Context, arg GetCampaignSheetBySubIDParams) (CampaignSheet, error) {
	row := q.db.QueryRow(ctx, getCampaignSheetBySubID, arg.UserID, arg.SubID)
	var i CampaignSheet
	err := row.Scan(&i.ID, &i.UserID, &i.SubID, &i.Title, &i.CreatedAt)
	return i, err
}

const listCampaignSheets = `
SELECT id, user_id, sub_id, title, created_at
FROM campaign_sheets
WHERE user_id = $1
ORDER BY created_at DESC, sub_id
`

func (q *Queries) ListCampaignSheets(ctx context.Context, userID string) ([]CampaignSheet, error) {
	rows, err := q.db.Query(ctx, listCampaignSheets, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CampaignSheet
	for rows.Next() {
		var i CampaignSheet
		if err := rows.Scan(&i.ID, &i.UserID, &i.SubID, &i.Title, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertCampaignExpense = `
INSERT INTO campaign_expenses (id, sheet_id, amount_cents, expense_date, is_manual, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type InsertCampaignExpenseParams struct {
	ID          pgtype.UUID
	SheetID     pgtype.UUID
	AmountCents int64
	ExpenseDate pgtype.Date
	IsManual    bool
	CreatedAt   pgtype.Timestamptz
}

func (q *Queries) InsertCampaignExpense(ctx context.Context, arg InsertCampaignExpenseParams) error {
	_, err := q.db.Exec(ctx, insertCampaignExpense,
		arg.ID, arg.SheetID, arg.AmountCents, arg.ExpenseDate, arg.IsManual, arg.CreatedAt,
	)
	return err
}

const listCampaignExpenses = `
SELECT id, sheet_id, amount_cents, expense_date, is_manual, created_at
FROM campaign_expenses
WHERE sheet_id = $1
ORDER BY expense_date DESC, created_at DESC
`

func (q *Queries) ListCampaignExpenses(ctx context.Context, sheetID pgtype.UUID) ([]CampaignExpense, error) {
	rows, err := q.db.Query(ctx, listCampaignExpenses, sheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CampaignExpense
	for rows.Next() {
		var i CampaignExpense
		if err := rows.Scan(&i.ID, &i.SheetID, &i.AmountCents, &i.ExpenseDate, &i.IsManual, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteCampaignExpense = `
DELETE FROM campaign_expenses WHERE sheet_id = $1 AND id = $2
`

type DeleteCampaignExpenseParams struct {
	SheetID pgtype.UUID
	ID      pgtype.UUID
}

func (q *Queries) DeleteCampaignExpense(ctx context.Context, arg DeleteCampaignExpenseParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCampaignExpense, arg.SheetID, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const insertTrackedLink = `
INSERT INTO tracked_links (id, user_id, original_url, tracked_url, sub_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type InsertTrackedLinkParams struct {
	ID          pgtype.UUID
	UserID      string
	OriginalUrl string
	TrackedUrl  string
	SubID       pgtype.Text
	CreatedAt   pgtype.Timestamptz
}

func (q *Queries) InsertTrackedLink(ctx context.Context, arg InsertTrackedLinkParams) error {
	_, err := q.db.Exec(ctx, insertTrackedLink,
		arg.ID, arg.UserID, arg.OriginalUrl, arg.TrackedUrl, arg.SubID, arg.CreatedAt,
	)
	return err
}

const listTrackedLinks = `
SELECT id, user_id, original_url, tracked_url, sub_id, created_at
FROM tracked_links
WHERE user_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListTrackedLinks(ctx context.Context, userID string) ([]TrackedLink, error) {
	rows, err := q.db.Query(ctx, listTrackedLinks, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TrackedLink
	for rows.Next() {
		var i TrackedLink
		if err := rows.Scan(&i.ID, &i.UserID, &i.OriginalUrl, &i.TrackedUrl, &i.SubID, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
