package postgres

import (
	"context"
	"fmt"
)

const migration001Up = `
-- Migration: Create programs table
-- Version: 001

CREATE TABLE IF NOT EXISTS programs (
    name TEXT PRIMARY KEY,
    snapshot JSONB NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT snapshot_has_goal CHECK ((snapshot->>'credit_goal')::numeric > 0)
);
`

// migrations lists all migrations in order.
var migrations = []string{
	migration001Up,
}

// Migrate applies all migrations. Statements are idempotent, so running
// against an up-to-date schema is a no-op.
func Migrate(ctx context.Context, conn *Connection) error {
	for i, m := range migrations {
		if _, err := conn.Exec(ctx, m); err != nil {
			return fmt.Errorf("postgres: migration %03d failed: %w", i+1, err)
		}
	}
	return nil
}
