// Package gamestate defines the read-only view of the running game that the
// engine consults for player and office context.
package gamestate

import "strings"

const (
	DefaultTier     = 1
	DefaultTitle    = "Citizen"
	DefaultApproval = 50.0
	MinTier         = 1
	MaxTier         = 5
)

type Alignment struct {
	LawChaos int `json:"law_chaos" yaml:"law_chaos"`
	GoodEvil int `json:"good_evil" yaml:"good_evil"`
}

// Provider is implemented by the game loop. Every method must return a safe
// default when no player exists yet.
type Provider interface {
	OfficeTier() int
	OfficeTitle() string
	PlayerName() string
	PlayerParty() string
	PlayerState() string
	CurrentTurn() int
	TurnsUntilElection() int
	PlayerApproval() float64
	PlayerAlignment() Alignment
	PartyPositionText(category string) string
	ChaosModeEnabled() bool
}

// ClampTier keeps a tier inside 1..5.
func ClampTier(tier int) int {
	if tier < MinTier {
		return MinTier
	}
	if tier > MaxTier {
		return MaxTier
	}
	return tier
}

type Lean string

const (
	LeanLeft   Lean = "left"
	LeanCenter Lean = "center"
	LeanRight  Lean = "right"
)

// PartyLean guesses which side of the partisan split a party sits on.
func PartyLean(party string) Lean {
	p := strings.ToLower(party)
	switch {
	case containsAny(p, "democrat", "progressive", "labour", "labor", "green", "social", "left"):
		return LeanLeft
	case containsAny(p, "republican", "conservative", "libertarian", "tory", "right"):
		return LeanRight
	default:
		return LeanCenter
	}
}

func containsAny(s string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
