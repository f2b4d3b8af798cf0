// Package store persists game-state snapshots so the CLI and the MCP server
// can process news against a saved player.
package store

import (
	"context"
	"errors"

	"headliner/internal/gamestate"
)

var ErrMissingPlayerID = errors.New("snapshot player_id is required")

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	SaveSnapshot(ctx context.Context, snap *gamestate.Snapshot) error
	// LoadSnapshot returns nil, nil when the player has no snapshot.
	LoadSnapshot(ctx context.Context, playerID string) (*gamestate.Snapshot, error)
	ListSnapshots(ctx context.Context) ([]SnapshotSummary, error)
	DeleteSnapshot(ctx context.Context, playerID string) (bool, error)
}
