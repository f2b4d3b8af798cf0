package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"headliner/internal/gamestate"
)

type SnapshotSummary struct {
	PlayerID  string    `json:"player_id"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Tier      int       `json:"tier"`
	Turn      int       `json:"turn"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Row is the column form of a snapshot shared by the SQL backends.
type Row struct {
	PlayerID       string
	Name           string
	Party          string
	State          string
	Tier           int
	Title          string
	Turn           int
	ElectionIn     *int
	Approval       *float64
	LawChaos       int
	GoodEvil       int
	PartyPositions []byte
	ChaosMode      bool
}

func RowFromSnapshot(snap *gamestate.Snapshot) (Row, error) {
	if snap == nil || strings.TrimSpace(snap.PlayerID) == "" {
		return Row{}, ErrMissingPlayerID
	}
	if err := snap.Validate(); err != nil {
		return Row{}, fmt.Errorf("invalid snapshot: %w", err)
	}
	positions := snap.PartyPositions
	if positions == nil {
		positions = map[string]string{}
	}
	encoded, err := json.Marshal(positions)
	if err != nil {
		return Row{}, fmt.Errorf("marshaling party positions: %w", err)
	}
	return Row{
		PlayerID:       strings.TrimSpace(snap.PlayerID),
		Name:           snap.Name,
		Party:          snap.Party,
		State:          snap.State,
		Tier:           snap.Tier,
		Title:          snap.Title,
		Turn:           snap.Turn,
		ElectionIn:     snap.ElectionIn,
		Approval:       snap.Approval,
		LawChaos:       snap.Alignment.LawChaos,
		GoodEvil:       snap.Alignment.GoodEvil,
		PartyPositions: encoded,
		ChaosMode:      snap.ChaosMode,
	}, nil
}

func (r Row) Snapshot() (*gamestate.Snapshot, error) {
	snap := &gamestate.Snapshot{
		PlayerID:   r.PlayerID,
		Name:       r.Name,
		Party:      r.Party,
		State:      r.State,
		Tier:       r.Tier,
		Title:      r.Title,
		Turn:       r.Turn,
		ElectionIn: r.ElectionIn,
		Approval:   r.Approval,
		Alignment:  gamestate.Alignment{LawChaos: r.LawChaos, GoodEvil: r.GoodEvil},
		ChaosMode:  r.ChaosMode,
	}
	if len(r.PartyPositions) > 0 {
		if err := json.Unmarshal(r.PartyPositions, &snap.PartyPositions); err != nil {
			return nil, fmt.Errorf("unmarshaling party positions: %w", err)
		}
	}
	return snap, nil
}
