package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertAuditLog = `
INSERT INTO audit_log (
    id, action, severity, user_id, batch_id, file_name,
    rows_affected, ip_address, user_agent, reason, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

type InsertAuditLogParams struct {
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

func (q *Queries) InsertAuditLog(ctx context.Context, arg InsertAuditLogParams) error {
	_, err := q.db.Exec(ctx, insertAuditLog,
		arg.ID, arg.Action, arg.Severity, arg.UserID, arg.BatchID, arg.FileName,
		arg.RowsAffected, arg.IpAddress, arg.UserAgent, arg.Reason, arg.CreatedAt,
	)
	return err
}

const listAuditLog = `
SELECT id, action, severity, user_id, batch_id, file_name,
       rows_affected, ip_address, user_agent, reason, created_at
FROM audit_log
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`

type ListAuditLogParams struct {
	UserID string
	Limit  int32
}

func (q *Queries) ListAuditLog(ctx context.Context, arg ListAuditLogParams) ([]AuditLog, error) {
	rows, err := q.db.Query(ctx, listAuditLog, arg.UserID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []AuditLog
	for rows.Next() {
		var i AuditLog
		if err := rows.Scan(
			&i.ID, &i.Action, &i.Severity, &i.UserID, &i.BatchID, &i.FileName,
			&i.RowsAffected, &i.IpAddress, &i.UserAgent, &i.Reason, &i.CreatedAt,
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

const purgeAuditLog = `
DELETE FROM audit_log
WHERE created_at < $1
`

func (q *Queries) PurgeAuditLog(ctx context.Context, before pgtype.Timestamptz) (int64, error) {
	result, err := q.db.Exec(ctx, purgeAuditLog, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
