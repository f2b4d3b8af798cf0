package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS snapshots (
    player_id            TEXT PRIMARY KEY,
    name                 TEXT NOT NULL DEFAULT '',
    party                TEXT NOT NULL DEFAULT '',
    state                TEXT NOT NULL DEFAULT '',
    tier                 INTEGER NOT NULL DEFAULT 1,
    title                TEXT NOT NULL DEFAULT '',
    turn                 INTEGER NOT NULL DEFAULT 0,
    turns_until_election INTEGER,
    approval             DOUBLE PRECISION,
    law_chaos            INTEGER NOT NULL DEFAULT 0,
    good_evil            INTEGER NOT NULL DEFAULT 0,
    party_positions      JSONB NOT NULL DEFAULT '{}',
    chaos_mode           BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_snapshots_updated ON snapshots (updated_at);
`
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
