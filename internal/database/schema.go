package database

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates any missing tables and indexes. Every statement is
// idempotent so it is safe to run on each start.
func Migrate(ctx context.Context, db DBTX) error {
	// No arguments, so pgx sends this over the simple protocol and the
	// multi-statement script runs in one round trip.
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
