package event

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind    = errors.New("unknown event kind")
	ErrUnknownUrgency = errors.New("unknown urgency")
)

type Kind string

const (
	KindCrisis         Kind = "crisis"
	KindPolicyPressure Kind = "policy-pressure"
	KindOpportunity    Kind = "opportunity"
	KindScandalTrigger Kind = "scandal-trigger"
	KindInformational  Kind = "informational"
)

func ParseKind(value string) (Kind, error) {
	switch kind := Kind(value); kind {
	case KindCrisis, KindPolicyPressure, KindOpportunity, KindScandalTrigger, KindInformational:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, value)
	}
}

type Urgency string

const (
	UrgencyBreaking      Urgency = "breaking"
	UrgencyUrgent        Urgency = "urgent"
	UrgencyDeveloping    Urgency = "developing"
	UrgencyInformational Urgency = "informational"
)

func ParseUrgency(value string) (Urgency, error) {
	switch urgency := Urgency(value); urgency {
	case UrgencyBreaking, UrgencyUrgent, UrgencyDeveloping, UrgencyInformational:
		return urgency, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownUrgency, value)
	}
}

// GameEvent is the record handed to the game loop. The engine keeps no
// reference to it once returned.
type GameEvent struct {
	ID               string            `json:"id"`
	Kind             Kind              `json:"kind"`
	Urgency          Urgency           `json:"urgency"`
	SourceNewsID     string            `json:"source_news_id"`
	Headline         string            `json:"headline"`
	Description      string            `json:"description"`
	Context          string            `json:"context"`
	TemplateID       string            `json:"template_id,omitempty"`
	MatchScore       float64           `json:"match_score"`
	CreatedTurn      int               `json:"created_turn"`
	ExpirationTurn   int               `json:"expiration_turn"`
	DeadlineTurn     *int              `json:"deadline_turn,omitempty"`
	EscalationStages []EscalationStage `json:"escalation_stages,omitempty"`
	CurrentStage     int               `json:"current_stage"`
	ResponseOptions  []ResponseOption  `json:"response_options"`
	ResponseHistory  []ResponseRecord  `json:"response_history"`
	Category         string            `json:"category"`
	Tags             []string          `json:"tags"`
	Effects          ScaledEffects     `json:"effects"`
	ChaosModeOnly    bool              `json:"chaos_mode_only"`
}

type EscalationStage struct {
	Name       string  `json:"name"`
	Turns      int     `json:"turns"`
	Multiplier float64 `json:"multiplier"`
}

// ScaledEffects holds the numeric consequences of an event after tier,
// impact and stakes scaling.
type ScaledEffects struct {
	Trust        float64            `json:"trust"`
	Capital      float64            `json:"capital"`
	Funds        float64            `json:"funds"`
	Media        float64            `json:"media"`
	PartyLoyalty float64            `json:"party_loyalty"`
	VoterBlocs   map[string]float64 `json:"voter_blocs,omitempty"`
}

type ResponseRecord struct {
	Turn     int    `json:"turn"`
	OptionID string `json:"option_id"`
	Success  bool   `json:"success"`
	Outcome  string `json:"outcome"`
}

// CurrentEscalation returns the active stage of a crisis ladder.
func (e *GameEvent) CurrentEscalation() (EscalationStage, bool) {
	if len(e.EscalationStages) == 0 {
		return EscalationStage{}, false
	}
	if e.CurrentStage < 0 || e.CurrentStage >= len(e.EscalationStages) {
		return EscalationStage{}, false
	}
	return e.EscalationStages[e.CurrentStage], true
}

// Advance moves a crisis one stage up its ladder. It reports false when the
// event has no ladder or is already at its final stage.
func (e *GameEvent) Advance() bool {
	if len(e.EscalationStages) == 0 {
		return false
	}
	if e.CurrentStage >= len(e.EscalationStages)-1 {
		return false
	}
	e.CurrentStage++
	return true
}

func (e *GameEvent) Expired(turn int) bool {
	return turn >= e.ExpirationTurn
}

func (e *GameEvent) Option(id string) (ResponseOption, bool) {
	for _, option := range e.ResponseOptions {
		if option.ID == id {
			return option, true
		}
	}
	return ResponseOption{}, false
}

func (e *GameEvent) RecordResponse(turn int, optionID string, success bool) error {
	option, ok := e.Option(optionID)
	if !ok {
		return fmt.Errorf("unknown response option: %s", optionID)
	}
	outcome := option.FailureText
	if success {
		outcome = option.SuccessText
	}
	e.ResponseHistory = append(e.ResponseHistory, ResponseRecord{
		Turn:     turn,
		OptionID: optionID,
		Success:  success,
		Outcome:  outcome,
	})
	return nil
}
