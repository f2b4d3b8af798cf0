package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"headliner/internal/gamestate"
	"headliner/internal/store"
)

const timeLayout = "2006-01-02T15:04:05Z"

func (c *Client) SaveSnapshot(ctx context.Context, snap *gamestate.Snapshot) error {
	row, err := store.RowFromSnapshot(snap)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO snapshots (
		player_id, name, party, state, tier, title, turn, turns_until_election,
		approval, law_chaos, good_evil, party_positions, chaos_mode, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(player_id) DO UPDATE SET
		name = excluded.name,
		party = excluded.party,
		state = excluded.state,
		tier = excluded.tier,
		title = excluded.title,
		turn = excluded.turn,
		turns_until_election = excluded.turns_until_election,
		approval = excluded.approval,
		law_chaos = excluded.law_chaos,
		good_evil = excluded.good_evil,
		party_positions = excluded.party_positions,
		chaos_mode = excluded.chaos_mode,
		updated_at = excluded.updated_at
	`

	var electionIn sql.NullInt64
	if row.ElectionIn != nil {
		electionIn = sql.NullInt64{Int64: int64(*row.ElectionIn), Valid: true}
	}
	var approval sql.NullFloat64
	if row.Approval != nil {
		approval = sql.NullFloat64{Float64: *row.Approval, Valid: true}
	}

	_, err = c.db.ExecContext(ctx, query,
		row.PlayerID, row.Name, row.Party, row.State, row.Tier, row.Title, row.Turn, electionIn,
		approval, row.LawChaos, row.GoodEvil, string(row.PartyPositions), boolToInt(row.ChaosMode),
		time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot %s: %w", row.PlayerID, err)
	}
	return nil
}

func (c *Client) LoadSnapshot(ctx context.Context, playerID string) (*gamestate.Snapshot, error) {
	query := `
	SELECT player_id, name, party, state, tier, title, turn, turns_until_election,
	       approval, law_chaos, good_evil, party_positions, chaos_mode
	FROM snapshots WHERE player_id = ?
	`

	var row store.Row
	var electionIn sql.NullInt64
	var approval sql.NullFloat64
	var positions string
	var chaos int
	err := c.db.QueryRowContext(ctx, query, playerID).Scan(
		&row.PlayerID, &row.Name, &row.Party, &row.State, &row.Tier, &row.Title, &row.Turn, &electionIn,
		&approval, &row.LawChaos, &row.GoodEvil, &positions, &chaos,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", playerID, err)
	}

	if electionIn.Valid {
		v := int(electionIn.Int64)
		row.ElectionIn = &v
	}
	if approval.Valid {
		v := approval.Float64
		row.Approval = &v
	}
	row.PartyPositions = []byte(positions)
	row.ChaosMode = chaos != 0
	return row.Snapshot()
}

func (c *Client) ListSnapshots(ctx context.Context) ([]store.SnapshotSummary, error) {
	query := `
	SELECT player_id, name, title, tier, turn, updated_at
	FROM snapshots
	ORDER BY player_id ASC
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	summaries := make([]store.SnapshotSummary, 0)
	for rows.Next() {
		var s store.SnapshotSummary
		var updated string
		if err := rows.Scan(&s.PlayerID, &s.Name, &s.Title, &s.Tier, &s.Turn, &updated); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		if t, err := time.Parse(timeLayout, updated); err == nil {
			s.UpdatedAt = t
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}

	return summaries, nil
}

func (c *Client) DeleteSnapshot(ctx context.Context, playerID string) (bool, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM snapshots WHERE player_id = ?`, playerID)
	if err != nil {
		return false, fmt.Errorf("deleting snapshot %s: %w", playerID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting snapshot %s: %w", playerID, err)
	}
	return n > 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
