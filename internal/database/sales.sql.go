package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const upsertSale = `
INSERT INTO sales (
    user_id, order_id, sub_id, product_name, revenue_cents,
    clicks, order_date, source, batch_id, uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (user_id, order_id) DO UPDATE SET
    sub_id        = EXCLUDED.sub_id,
    product_name  = EXCLUDED.product_name,
    revenue_cents = EXCLUDED.revenue_cents,
    clicks        = EXCLUDED.clicks,
    order_date    = EXCLUDED.order_date,
    source        = EXCLUDED.source,
    batch_id      = EXCLUDED.batch_id,
    uploaded_at   = EXCLUDED.uploaded_at
`

type UpsertSaleParams struct {
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

// UpsertSales queues one upsert per row and sends them in a single batch.
// It returns the number of rows written.
func (q *Queries) UpsertSales(ctx context.Context, args []UpsertSaleParams) (int64, error) {
	if len(args) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, a := range args {
		batch.Queue(upsertSale,
			a.UserID, a.OrderID, a.SubID, a.ProductName, a.RevenueCents,
			a.Clicks, a.OrderDate, a.Source, a.BatchID, a.UploadedAt,
		)
	}

	br := q.db.SendBatch(ctx, batch)
	var written int64
	for i := range args {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return written, fmt.Errorf("upsert order %q: %w", args[i].OrderID, err)
		}
		written += tag.RowsAffected()
	}
	if err := br.Close(); err != nil {
		return written, err
	}
	return written, nil
}

const deleteSalesByBatch = `
DELETE FROM sales WHERE user_id = $1 AND batch_id = $2
`

type DeleteSalesByBatchParams struct {
	UserID  string
	BatchID string
}

func (q *Queries) DeleteSalesByBatch(ctx context.Context, arg DeleteSalesByBatchParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteSalesByBatch, arg.UserID, arg.BatchID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listSales = `
SELECT user_id, order_id, sub_id, product_name, revenue_cents,
       clicks, order_date, source, batch_id, uploaded_at
FROM sales
WHERE user_id = $1
  AND ($2::date IS NULL OR order_date >= $2::date)
  AND ($3::date IS NULL OR order_date <= $3::date)
  AND ($4::text IS NULL OR sub_id = $4::text)
  AND ($5::text IS NULL
       OR strpos(lower(product_name), lower($5::text)) > 0
       OR strpos(lower(order_id), lower($5::text)) > 0
       OR strpos(lower(coalesce(sub_id, '')), lower($5::text)) > 0)
ORDER BY order_date DESC, order_id
`

type ListSalesParams struct {
	UserID   string
	FromDate pgtype.Date
	ToDate   pgtype.Date
	SubID    pgtype.Text
	Search   pgtype.Text
}

func (q *Queries) ListSales(ctx context.Context, arg ListSalesParams) ([]Sale, error) {
	rows, err := q.db.Query(ctx, listSales, arg.UserID, arg.FromDate, arg.ToDate, arg.SubID, arg.Search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Sale
	for rows.Next() {
		var i Sale
		if err := rows.Scan(
			&i.UserID, &i.OrderID, &i.SubID, &i.ProductName, &i.RevenueCents,
			&i.Clicks, &i.OrderDate, &i.Source, &i.BatchID, &i.UploadedAt,
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

const listUploadBatches = `
SELECT batch_id, MIN(uploaded_at)::timestamptz AS uploaded_at, COUNT(*) AS row_count
FROM sales
WHERE user_id = $1
GROUP BY batch_id
ORDER BY uploaded_at DESC, batch_id
`

func (q *Queries) ListUploadBatches(ctx context.Context, userID string) ([]UploadBatch, error) {
	rows, err := q.db.Query(ctx, listUploadBatches, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []UploadBatch
	for rows.Next() {
		var i UploadBatch
		if err := rows.Scan(&i.BatchID, &i.UploadedAt, &i.RowCount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const existingOrderIDs = `
SELECT order_id FROM sales WHERE user_id = $1 AND order_id = ANY($2::text[])
`

type ExistingOrderIDsParams struct {
	UserID   string
	OrderIds []string
}

func (q *Queries) ExistingOrderIDs(ctx context.Context, arg ExistingOrderIDsParams) ([]string, error) {
	rows, err := q.db.Query(ctx, existingOrderIDs, arg.UserID, arg.OrderIds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []string
	for rows.Next() {
		var orderID string
		if err := rows.Scan(&orderID); err != nil {
			return nil, err
		}
		items = append(items, orderID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
