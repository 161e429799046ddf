// Package schema owns the DDL for the verification tables and applies it at
// startup when a database is configured.
package schema

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var ddl string

// Apply creates the verification tables if they do not exist.
func Apply(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("apply verification schema: %w", err)
	}
	return nil
}
