package pipeline

import (
	"encoding/binary"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"headliner/internal/event"
	"headliner/internal/news"
)

const (
	fallbackExpiration = 10
	FallbackTag        = "fallback"
)

// FallbackEvent builds the generic event used when no template applies.
// Text is copied from the item unchanged.
func FallbackEvent(item news.Item, turn int, rng *rand.Rand) event.GameEvent {
	return event.GameEvent{
		ID:              fallbackID(rng),
		Kind:            event.KindPolicyPressure,
		Urgency:         event.UrgencyDeveloping,
		SourceNewsID:    item.ID,
		Headline:        item.Headline,
		Description:     item.Summary,
		CreatedTurn:     turn,
		ExpirationTurn:  turn + fallbackExpiration,
		ResponseOptions: fallbackOptions(),
		ResponseHistory: []event.ResponseRecord{},
		Category:        item.PrimaryCategory,
		Tags:            []string{FallbackTag},
		Effects: event.ScaledEffects{
			Trust: round2(item.OverallSentiment * 0.1),
			Media: item.ImpactScore,
		},
	}
}

func fallbackOptions() []event.ResponseOption {
	return []event.ResponseOption{
		{
			ID:                 "acknowledge",
			Label:              "Acknowledge",
			Description:        "Make a brief statement on the story.",
			SuccessProbability: 1.0,
			Available:          true,
			SuccessText:        "You acknowledge the story.",
			FailureText:        "You acknowledge the story.",
		},
		{
			ID:                 "ignore",
			Label:              "Ignore",
			Description:        "Let the story pass without comment.",
			SuccessProbability: 1.0,
			Available:          true,
			SuccessText:        "The story passes.",
			FailureText:        "The story passes.",
		},
	}
}

func fallbackID(rng *rand.Rand) string {
	if rng == nil {
		return uuid.NewString()
	}
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], rng.Uint64())
	binary.LittleEndian.PutUint64(b[8:], rng.Uint64())
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		return uuid.NewString()
	}
	id[6] = (id[6] & 0x0f) | 0x40
	id[8] = (id[8] & 0x3f) | 0x80
	return id.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
