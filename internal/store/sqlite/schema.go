package sqlite

import (
	"context"
	"fmt"
	"strings"
)

// schemaVersion is recorded in PRAGMA user_version once the DDL has run.
const schemaVersion = 1

const snapshotsDDL = `
	CREATE TABLE IF NOT EXISTS snapshots (
		player_id            TEXT PRIMARY KEY,
		name                 TEXT NOT NULL DEFAULT '',
		party                TEXT NOT NULL DEFAULT '',
		state                TEXT NOT NULL DEFAULT '',
		tier                 INTEGER NOT NULL DEFAULT 1,
		title                TEXT NOT NULL DEFAULT '',
		turn                 INTEGER NOT NULL DEFAULT 0,
		turns_until_election INTEGER,
		approval             REAL,
		law_chaos            INTEGER NOT NULL DEFAULT 0,
		good_evil            INTEGER NOT NULL DEFAULT 0,
		party_positions      TEXT NOT NULL DEFAULT '{}',
		chaos_mode           INTEGER NOT NULL DEFAULT 0,
		updated_at           TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_updated ON snapshots (updated_at);
	`

// EnsureSchema creates the snapshots table. Databases already at
// schemaVersion are left alone.
func (c *Client) EnsureSchema(ctx context.Context) error {
	var current int
	if err := c.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if current >= schemaVersion {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(snapshotsDDL) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}
