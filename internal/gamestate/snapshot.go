package gamestate

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var _ Provider = (*Snapshot)(nil)

// Snapshot is a frozen copy of the player's situation. A nil or zero Snapshot
// answers with the defaults.
type Snapshot struct {
	PlayerID       string            `yaml:"player_id" json:"player_id"`
	Name           string            `yaml:"name" json:"name"`
	Party          string            `yaml:"party" json:"party"`
	State          string            `yaml:"state" json:"state"`
	Tier           int               `yaml:"tier" json:"tier"`
	Title          string            `yaml:"title" json:"title"`
	Turn           int               `yaml:"turn" json:"turn"`
	ElectionIn     *int              `yaml:"turns_until_election" json:"turns_until_election,omitempty"`
	Approval       *float64          `yaml:"approval" json:"approval,omitempty"`
	Alignment      Alignment         `yaml:"alignment" json:"alignment"`
	PartyPositions map[string]string `yaml:"party_positions" json:"party_positions"`
	ChaosMode      bool              `yaml:"chaos_mode" json:"chaos_mode"`
}

func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading game state: %w", err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("loading game state: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("loading game state: %w", err)
	}
	return &snap, nil
}

func (s *Snapshot) Validate() error {
	if s.Tier != 0 && (s.Tier < MinTier || s.Tier > MaxTier) {
		return fmt.Errorf("tier must be between %d and %d, got %d", MinTier, MaxTier, s.Tier)
	}
	if s.Alignment.LawChaos < -100 || s.Alignment.LawChaos > 100 {
		return fmt.Errorf("law_chaos alignment out of range: %d", s.Alignment.LawChaos)
	}
	if s.Alignment.GoodEvil < -100 || s.Alignment.GoodEvil > 100 {
		return fmt.Errorf("good_evil alignment out of range: %d", s.Alignment.GoodEvil)
	}
	if s.ElectionIn != nil && *s.ElectionIn < 0 {
		return fmt.Errorf("turns_until_election must not be negative, got %d", *s.ElectionIn)
	}
	if s.Approval != nil && (*s.Approval < 0 || *s.Approval > 100) {
		return fmt.Errorf("approval out of range: %v", *s.Approval)
	}
	return nil
}

func (s *Snapshot) OfficeTier() int {
	if s == nil || s.Tier == 0 {
		return DefaultTier
	}
	return ClampTier(s.Tier)
}

func (s *Snapshot) OfficeTitle() string {
	if s == nil || strings.TrimSpace(s.Title) == "" {
		return DefaultTitle
	}
	return s.Title
}

func (s *Snapshot) PlayerName() string {
	if s == nil {
		return ""
	}
	return s.Name
}

func (s *Snapshot) PlayerParty() string {
	if s == nil {
		return ""
	}
	return s.Party
}

func (s *Snapshot) PlayerState() string {
	if s == nil {
		return ""
	}
	return s.State
}

func (s *Snapshot) CurrentTurn() int {
	if s == nil || s.Turn < 0 {
		return 0
	}
	return s.Turn
}

// TurnsUntilElection returns -1 when no election is scheduled. Zero means the
// election falls on the current turn.
func (s *Snapshot) TurnsUntilElection() int {
	if s == nil || s.ElectionIn == nil || *s.ElectionIn < 0 {
		return -1
	}
	return *s.ElectionIn
}

func (s *Snapshot) PlayerApproval() float64 {
	if s == nil || s.Approval == nil {
		return DefaultApproval
	}
	return *s.Approval
}

func (s *Snapshot) PlayerAlignment() Alignment {
	if s == nil {
		return Alignment{}
	}
	return s.Alignment
}

func (s *Snapshot) PartyPositionText(category string) string {
	if s == nil {
		return ""
	}
	if text, ok := s.PartyPositions[category]; ok {
		return text
	}
	for _, key := range slices.Sorted(maps.Keys(s.PartyPositions)) {
		if strings.EqualFold(key, category) {
			return s.PartyPositions[key]
		}
	}
	return ""
}

func (s *Snapshot) ChaosModeEnabled() bool {
	return s != nil && s.ChaosMode
}
