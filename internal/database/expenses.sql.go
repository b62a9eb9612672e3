package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertExpense = `
INSERT INTO expenses (id, user_id, amount_cents, expense_date, description, category, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type InsertExpenseParams struct {
	ID          pgtype.UUID
	UserID      string
	AmountCents int64
	ExpenseDate pgtype.Date
	Description pgtype.Text
	Category    pgtype.Text
	CreatedAt   pgtype.Timestamptz
}

func (q *Queries) InsertExpense(ctx context.Context, arg InsertExpenseParams) error {
	_, err := q.db.Exec(ctx, insertExpense,
		arg.ID, arg.UserID, arg.AmountCents, arg.ExpenseDate,
		arg.Description, arg.Category, arg.CreatedAt,
	)
	return err
}

const listExpenses = `
SELECT id, user_id, amount_cents, expense_date, description, category, created_at
FROM expenses
WHERE user_id = $1
  AND ($2::date IS NULL OR expense_date >= $2::date)
  AND ($3::date IS NULL OR expense_date <= $3::date)
ORDER BY expense_date DESC, created_at DESC
`

type ListExpensesParams struct {
	UserID   string
	FromDate pgtype.Date
	ToDate   pgtype.Date
}

func (q *Queries) ListExpenses(ctx context.Context, arg ListExpensesParams) ([]Expense, error) {
	rows, err := q.db.Query(ctx, listExpenses, arg.UserID, arg.FromDate, arg.ToDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Expense
	for rows.Next() {
		var i Expense
		if err := rows.Scan(
			&i.ID, &i.UserID, &i.AmountCents, &i.ExpenseDate,
			&i.Description, &i.Category, &i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteExpense = `
DELETE FROM expenses WHERE user_id = $1 AND id = $2
`

type DeleteExpenseParams struct {
	UserID string
	ID     pgtype.UUID
}

func (q *Queries) DeleteExpense(ctx context.Context, arg DeleteExpenseParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteExpense, arg.UserID, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
