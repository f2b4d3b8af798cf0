package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"headliner/internal/gamestate"
	"headliner/internal/store"
)

func (c *Client) SaveSnapshot(ctx context.Context, snap *gamestate.Snapshot) error {
	row, err := store.RowFromSnapshot(snap)
	if err != nil {
		return err
	}

	query := `
INSERT INTO snapshots (
    player_id, name, party, state, tier, title, turn, turns_until_election,
    approval, law_chaos, good_evil, party_positions, chaos_mode, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb, $13, now())
ON CONFLICT (player_id) DO UPDATE SET
    name = EXCLUDED.name,
    party = EXCLUDED.party,
    state = EXCLUDED.state,
    tier = EXCLUDED.tier,
    title = EXCLUDED.title,
    turn = EXCLUDED.turn,
    turns_until_election = EXCLUDED.turns_until_election,
    approval = EXCLUDED.approval,
    law_chaos = EXCLUDED.law_chaos,
    good_evil = EXCLUDED.good_evil,
    party_positions = EXCLUDED.party_positions,
    chaos_mode = EXCLUDED.chaos_mode,
    updated_at = now()
`
	_, err = c.pool.Exec(ctx, query,
		row.PlayerID, row.Name, row.Party, row.State, row.Tier, row.Title, row.Turn, row.ElectionIn,
		row.Approval, row.LawChaos, row.GoodEvil, string(row.PartyPositions), row.ChaosMode,
	)
	if err != nil {
		return fmt.Errorf("saving snapshot %s: %w", row.PlayerID, err)
	}
	return nil
}

func (c *Client) LoadSnapshot(ctx context.Context, playerID string) (*gamestate.Snapshot, error) {
	query := `
SELECT player_id, name, party, state, tier, title, turn, turns_until_election,
       approval, law_chaos, good_evil, party_positions::text, chaos_mode
FROM snapshots WHERE player_id = $1
`
	var row store.Row
	var positions string
	err := c.pool.QueryRow(ctx, query, playerID).Scan(
		&row.PlayerID, &row.Name, &row.Party, &row.State, &row.Tier, &row.Title, &row.Turn, &row.ElectionIn,
		&row.Approval, &row.LawChaos, &row.GoodEvil, &positions, &row.ChaosMode,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", playerID, err)
	}
	row.PartyPositions = []byte(positions)
	return row.Snapshot()
}

func (c *Client) ListSnapshots(ctx context.Context) ([]store.SnapshotSummary, error) {
	query := `
SELECT player_id, name, title, tier, turn, updated_at
FROM snapshots
ORDER BY player_id ASC
`
	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	summaries := make([]store.SnapshotSummary, 0)
	for rows.Next() {
		var s store.SnapshotSummary
		if err := rows.Scan(&s.PlayerID, &s.Name, &s.Title, &s.Tier, &s.Turn, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return summaries, nil
}

func (c *Client) DeleteSnapshot(ctx context.Context, playerID string) (bool, error) {
	tag, err := c.pool.Exec(ctx, `DELETE FROM snapshots WHERE player_id = $1`, playerID)
	if err != nil {
		return false, fmt.Errorf("deleting snapshot %s: %w", playerID, err)
	}
	return tag.RowsAffected() > 0, nil
}
