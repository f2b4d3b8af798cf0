package synth

import (
	"encoding/binary"
	"log/slog"
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/google/uuid"

	"headliner/internal/event"
	"headliner/internal/gamestate"
	"headliner/internal/match"
	"headliner/internal/news"
	"headliner/internal/templates"
)

type Config struct {
	HighStakesImpact float64
	HighStakesTurns  int
}

func DefaultConfig() Config {
	return Config{HighStakesImpact: 8, HighStakesTurns: 8}
}

var escalationLadder = []event.EscalationStage{
	{Name: "Initial Response", Turns: 3, Multiplier: 1.0},
	{Name: "Escalation", Turns: 3, Multiplier: 1.5},
	{Name: "Critical", Turns: 2, Multiplier: 2.0},
	{Name: "Resolution", Turns: 0, Multiplier: 2.5},
}

var scandalWords = []string{
	"scandal", "indictment", "indicted", "investigation", "misconduct",
	"corruption", "fraud", "bribery", "embezzlement",
}

// Synthesizer turns a resolved match into a GameEvent. All randomness comes
// from the *rand.Rand passed to Synthesize.
type Synthesizer struct {
	state  gamestate.Provider
	cfg    Config
	logger *slog.Logger
}

func New(state gamestate.Provider, cfg Config, logger *slog.Logger) *Synthesizer {
	if state == nil {
		state = (*gamestate.Snapshot)(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{state: state, cfg: cfg, logger: logger}
}

func (s *Synthesizer) Synthesize(item news.Item, result match.Result, rng *rand.Rand) event.GameEvent {
	tmpl := result.Template
	kind := FinalKind(tmpl.Kind, item)
	urgency := tmpl.Urgency
	if kind == event.KindScandalTrigger {
		urgency = event.UrgencyBreaking
	}

	turn := s.state.CurrentTurn()
	ev := event.GameEvent{
		ID:              newID(rng),
		Kind:            kind,
		Urgency:         urgency,
		SourceNewsID:    item.ID,
		Headline:        result.Headline,
		Description:     result.Description,
		Context:         result.Context,
		TemplateID:      tmpl.ID,
		MatchScore:      roundTo(result.Score, 3),
		CreatedTurn:     turn,
		ExpirationTurn:  turn + ExpirationOffset(urgency),
		ResponseHistory: []event.ResponseRecord{},
		Category:        tmpl.Category,
		Tags:            eventTags(tmpl, result),
		Effects:         s.scaleEffects(tmpl, item, kind, rng),
		ChaosModeOnly:   tmpl.ChaosOnly(),
	}
	if offset, ok := DeadlineOffset(kind, urgency); ok {
		deadline := turn + offset
		ev.DeadlineTurn = &deadline
	}
	if kind == event.KindCrisis {
		ev.EscalationStages = append([]event.EscalationStage(nil), escalationLadder...)
		ev.CurrentStage = 0
	}
	ev.ResponseOptions = responseOptions(kind, tmpl, s.state.PlayerAlignment(), s.state.ChaosModeEnabled())

	if kind != tmpl.Kind {
		s.logger.Debug("event kind overridden", "item", item.ID, "template", tmpl.ID, "from", tmpl.Kind, "to", kind)
	}
	return ev
}

// FinalKind applies the per-item overrides to a template's default kind.
func FinalKind(defaultKind event.Kind, item news.Item) event.Kind {
	switch {
	case item.ImpactScore >= 7 && item.ControversyScore >= 0.6:
		return event.KindCrisis
	case item.OverallSentiment > 30 && item.PoliticalRelevance >= 0.5:
		return event.KindOpportunity
	case mentionsScandal(item):
		return event.KindScandalTrigger
	default:
		return defaultKind
	}
}

func mentionsScandal(item news.Item) bool {
	text := strings.ToLower(item.Headline + " " + item.Summary)
	for _, word := range scandalWords {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

func ExpirationOffset(urgency event.Urgency) int {
	switch urgency {
	case event.UrgencyBreaking:
		return 5
	case event.UrgencyUrgent:
		return 10
	case event.UrgencyDeveloping:
		return 20
	case event.UrgencyInformational:
		return 30
	default:
		return 15
	}
}

// DeadlineOffset reports the turns until a decision is due. Informational
// events have no deadline.
func DeadlineOffset(kind event.Kind, urgency event.Urgency) (int, bool) {
	switch kind {
	case event.KindInformational:
		return 0, false
	case event.KindScandalTrigger:
		return 2, true
	case event.KindOpportunity:
		return 5, true
	}
	switch urgency {
	case event.UrgencyBreaking:
		return 2, true
	case event.UrgencyUrgent:
		return 5, true
	case event.UrgencyDeveloping:
		return 10, true
	default:
		return 15, true
	}
}

func (s *Synthesizer) highStakes(item news.Item) bool {
	if s.cfg.HighStakesImpact > 0 && item.ImpactScore >= s.cfg.HighStakesImpact {
		return true
	}
	turns := s.state.TurnsUntilElection()
	return turns >= 0 && turns <= s.cfg.HighStakesTurns
}

func (s *Synthesizer) scaleEffects(tmpl *templates.Template, item news.Item, kind event.Kind, rng *rand.Rand) event.ScaledEffects {
	factor := tmpl.TierScaling.At(s.state.OfficeTier()) * (item.ImpactScore / 5)
	if s.highStakes(item) {
		factor *= 1.5
	}
	positiveOnly := kind == event.KindOpportunity

	scale := func(r templates.Range) float64 {
		v := roll(r, rng)
		if positiveOnly && v < 0 {
			v = 0
		}
		return roundTo(v*factor, 2)
	}

	effects := event.ScaledEffects{
		Trust:        scale(tmpl.Effects.Trust),
		Capital:      scale(tmpl.Effects.Capital),
		Funds:        scale(tmpl.Effects.Funds),
		Media:        scale(tmpl.Effects.Media),
		PartyLoyalty: scale(tmpl.Effects.PartyLoyalty),
	}
	if len(tmpl.Effects.VoterBlocs) > 0 {
		effects.VoterBlocs = make(map[string]float64, len(tmpl.Effects.VoterBlocs))
		for _, bloc := range slices.Sorted(maps.Keys(tmpl.Effects.VoterBlocs)) {
			effects.VoterBlocs[bloc] = scale(tmpl.Effects.VoterBlocs[bloc])
		}
	}
	return effects
}

// roll draws uniformly from [min, max]. An inverted range is read low to high.
func roll(r templates.Range, rng *rand.Rand) float64 {
	lo, hi := r.Min, r.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

func eventTags(tmpl *templates.Template, result match.Result) []string {
	tags := append([]string{}, tmpl.Tags...)
	if result.Fallback {
		tags = append(tags, "fallback-template")
	}
	return tags
}

func newID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(randReader{rng: rng})
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

type randReader struct {
	rng *rand.Rand
}

func (r randReader) Read(p []byte) (int, error) {
	var buf [8]byte
	for i := 0; i < len(p); i += 8 {
		binary.LittleEndian.PutUint64(buf[:], r.rng.Uint64())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}

func roundTo(v float64, prec int) float64 {
	p := math.Pow10(prec)
	return math.Round(v*p) / p
}
