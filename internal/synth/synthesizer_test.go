package synth

import (
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"

	"headliner/internal/event"
	"headliner/internal/gamestate"
	"headliner/internal/match"
	"headliner/internal/news"
	"headliner/internal/resolve"
	"headliner/internal/templates"
)

func testTemplate(kind event.Kind, urgency event.Urgency) templates.Template {
	return templates.Template{
		ID:          "test-" + string(kind),
		Category:    "DomesticLegislation",
		Kind:        kind,
		Urgency:     urgency,
		Headline:    resolve.Tokenize("{bill} reaches the floor"),
		Description: resolve.Tokenize("Lawmakers debate {bill}."),
		TierScaling: templates.FlatCurve,
		Effects: templates.Effects{
			Trust:   templates.Range{Min: 2, Max: 2},
			Capital: templates.Range{Min: -3, Max: 3},
			VoterBlocs: map[string]templates.Range{
				"workers": {Min: -2, Max: 4},
			},
		},
		Tags: []string{"legislation"},
	}
}

func quietItem() news.Item {
	return news.Item{
		ID:               "n1",
		Headline:         "Budget bill reaches the floor",
		Summary:          "Debate begins next week.",
		PrimaryCategory:  "DomesticLegislation",
		ImpactScore:      5,
		ControversyScore: 0.3,
	}
}

func turns(n int) *int { return &n }

func synthesize(t *testing.T, state gamestate.Provider, tmpl templates.Template, item news.Item, seed uint64) event.GameEvent {
	t.Helper()
	s := New(state, DefaultConfig(), nil)
	result := match.NewResult(
		match.Selection{Template: &tmpl, Score: 0.71234},
		resolve.Resolution{Values: map[string]string{"bill": "the Budget Act"}},
	)
	return s.Synthesize(item, result, rand.New(rand.NewPCG(seed, seed+1)))
}

func TestSynthesize_PolicyEvent(t *testing.T) {
	tmpl := testTemplate(event.KindPolicyPressure, event.UrgencyDeveloping)
	ev := synthesize(t, &gamestate.Snapshot{Tier: 3, Turn: 12}, tmpl, quietItem(), 1)

	if ev.Kind != event.KindPolicyPressure || ev.Urgency != event.UrgencyDeveloping {
		t.Fatalf("unexpected kind/urgency %s/%s", ev.Kind, ev.Urgency)
	}
	if ev.Headline != "the Budget Act reaches the floor" {
		t.Fatalf("unexpected headline %q", ev.Headline)
	}
	if ev.TemplateID != tmpl.ID || ev.SourceNewsID != "n1" {
		t.Fatalf("unexpected ids: template=%s source=%s", ev.TemplateID, ev.SourceNewsID)
	}
	if ev.MatchScore != 0.712 {
		t.Fatalf("expected rounded match score, got %v", ev.MatchScore)
	}
	if ev.CreatedTurn != 12 || ev.ExpirationTurn != 32 {
		t.Fatalf("unexpected turns %d..%d", ev.CreatedTurn, ev.ExpirationTurn)
	}
	if ev.DeadlineTurn == nil || *ev.DeadlineTurn != 22 {
		t.Fatalf("expected deadline turn 22, got %v", ev.DeadlineTurn)
	}
	if len(ev.EscalationStages) != 0 {
		t.Fatalf("expected no escalation for policy events")
	}
	if ev.Effects.Trust != 2 {
		t.Fatalf("expected trust 2 at factor 1, got %v", ev.Effects.Trust)
	}
	if ev.Effects.Capital < -3 || ev.Effects.Capital > 3 {
		t.Fatalf("capital %v outside range", ev.Effects.Capital)
	}
	if _, ok := ev.Effects.VoterBlocs["workers"]; !ok {
		t.Fatalf("expected voter bloc effects")
	}
	if ev.ResponseHistory == nil || len(ev.ResponseHistory) != 0 {
		t.Fatalf("expected empty, non-nil response history")
	}
	if len(ev.ID) != 36 {
		t.Fatalf("expected uuid id, got %q", ev.ID)
	}
}

func TestSynthesize_CrisisEscalates(t *testing.T) {
	tmpl := testTemplate(event.KindCrisis, event.UrgencyUrgent)
	ev := synthesize(t, nil, tmpl, quietItem(), 1)

	if len(ev.EscalationStages) != 4 || ev.CurrentStage != 0 {
		t.Fatalf("expected four stage ladder at stage 0, got %+v", ev.EscalationStages)
	}
	stage, ok := ev.CurrentEscalation()
	if !ok || stage.Name != "Initial Response" || stage.Multiplier != 1.0 {
		t.Fatalf("unexpected first stage %+v", stage)
	}
	if ev.DeadlineTurn == nil || *ev.DeadlineTurn != 5 {
		t.Fatalf("expected urgent deadline of 5, got %v", ev.DeadlineTurn)
	}
	if ev.ExpirationTurn != 10 {
		t.Fatalf("expected urgent expiration 10, got %d", ev.ExpirationTurn)
	}
}

func TestSynthesize_ScandalForcesBreaking(t *testing.T) {
	tmpl := testTemplate(event.KindPolicyPressure, event.UrgencyDeveloping)
	item := quietItem()
	item.Summary = "An investigation into bribery widens."

	ev := synthesize(t, nil, tmpl, item, 1)
	if ev.Kind != event.KindScandalTrigger || ev.Urgency != event.UrgencyBreaking {
		t.Fatalf("expected breaking scandal, got %s/%s", ev.Kind, ev.Urgency)
	}
	if ev.DeadlineTurn == nil || *ev.DeadlineTurn != 2 {
		t.Fatalf("expected scandal deadline 2, got %v", ev.DeadlineTurn)
	}
	if ev.ExpirationTurn != 5 {
		t.Fatalf("expected breaking expiration 5, got %d", ev.ExpirationTurn)
	}
}

func TestSynthesize_InformationalHasNoDeadline(t *testing.T) {
	tmpl := testTemplate(event.KindInformational, event.UrgencyInformational)
	ev := synthesize(t, nil, tmpl, quietItem(), 1)
	if ev.DeadlineTurn != nil {
		t.Fatalf("expected no deadline, got %d", *ev.DeadlineTurn)
	}
	if ev.ExpirationTurn != 30 {
		t.Fatalf("expected expiration 30, got %d", ev.ExpirationTurn)
	}
}

func TestSynthesize_ChaosOptions(t *testing.T) {
	tests := []struct {
		kind       event.Kind
		calm       int
		chaosCount int
	}{
		{event.KindCrisis, 6, 1},
		{event.KindPolicyPressure, 4, 1},
		{event.KindOpportunity, 3, 1},
		{event.KindScandalTrigger, 5, 1},
		{event.KindInformational, 2, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			tmpl := testTemplate(tt.kind, event.UrgencyDeveloping)

			calm := synthesize(t, nil, tmpl, quietItem(), 1)
			if calm.Kind != tt.kind {
				t.Fatalf("expected kind %s, got %s", tt.kind, calm.Kind)
			}
			if got := countChaosOptions(calm); got != 0 {
				t.Fatalf("expected no chaos options with chaos mode off, got %d", got)
			}
			if len(calm.ResponseOptions) != tt.calm {
				t.Fatalf("expected %d options, got %d", tt.calm, len(calm.ResponseOptions))
			}

			chaos := synthesize(t, &gamestate.Snapshot{ChaosMode: true}, tmpl, quietItem(), 1)
			if got := countChaosOptions(chaos); got != tt.chaosCount {
				t.Fatalf("expected %d chaos options with chaos mode on, got %d", tt.chaosCount, got)
			}
			if len(chaos.ResponseOptions) != tt.calm+tt.chaosCount {
				t.Fatalf("expected %d options, got %d", tt.calm+tt.chaosCount, len(chaos.ResponseOptions))
			}
		})
	}

	chaos := synthesize(t, &gamestate.Snapshot{ChaosMode: true}, testTemplate(event.KindPolicyPressure, event.UrgencyDeveloping), quietItem(), 1)
	if _, ok := chaos.Option("outrageous_counterproposal"); !ok {
		t.Fatalf("expected outrageous_counterproposal with chaos mode on")
	}
}

func countChaosOptions(ev event.GameEvent) int {
	n := 0
	for _, option := range ev.ResponseOptions {
		if option.ChaosModeOnly {
			n++
		}
	}
	return n
}

func TestSynthesize_AlignmentAvailability(t *testing.T) {
	tmpl := testTemplate(event.KindCrisis, event.UrgencyUrgent)
	state := &gamestate.Snapshot{Alignment: gamestate.Alignment{GoodEvil: 60}}
	ev := synthesize(t, state, tmpl, quietItem(), 1)

	transparency, ok := ev.Option("full_transparency")
	if !ok || !transparency.Available || transparency.RequiredAlignment == nil {
		t.Fatalf("expected full_transparency available, got %+v", transparency)
	}
	deflect, ok := ev.Option("deflect_blame")
	if !ok || deflect.Available {
		t.Fatalf("expected deflect_blame present but unavailable, got %+v", deflect)
	}
	if delegate, _ := ev.Option("delegate"); !delegate.Available {
		t.Fatalf("expected unrestricted options available")
	}
}

func TestSynthesize_OpportunityEffectsNonNegative(t *testing.T) {
	tmpl := testTemplate(event.KindOpportunity, event.UrgencyDeveloping)
	tmpl.Effects.Trust = templates.Range{Min: -10, Max: -1}
	for seed := uint64(1); seed <= 50; seed++ {
		ev := synthesize(t, nil, tmpl, quietItem(), seed)
		if ev.Effects.Trust != 0 {
			t.Fatalf("seed %d: expected negative trust clipped to 0, got %v", seed, ev.Effects.Trust)
		}
		if ev.Effects.Capital < 0 || ev.Effects.VoterBlocs["workers"] < 0 {
			t.Fatalf("seed %d: negative opportunity effect %+v", seed, ev.Effects)
		}
	}
}

func TestSynthesize_HighStakesScaling(t *testing.T) {
	tmpl := testTemplate(event.KindPolicyPressure, event.UrgencyDeveloping)
	tests := []struct {
		name   string
		state  *gamestate.Snapshot
		impact float64
		want   float64
	}{
		{"baseline", nil, 5, 2},
		{"high impact", nil, 8, 2 * 1.6 * 1.5},
		{"election close", &gamestate.Snapshot{ElectionIn: turns(3)}, 5, 3},
		{"election this turn", &gamestate.Snapshot{ElectionIn: turns(0)}, 5, 3},
		{"election far", &gamestate.Snapshot{ElectionIn: turns(20)}, 5, 2},
		{"no election", &gamestate.Snapshot{}, 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := quietItem()
			item.ImpactScore = tt.impact
			ev := synthesize(t, tt.state, tmpl, item, 1)
			if ev.Effects.Trust != tt.want {
				t.Fatalf("expected trust %v, got %v", tt.want, ev.Effects.Trust)
			}
		})
	}
}

func TestSynthesize_TierScaling(t *testing.T) {
	tmpl := testTemplate(event.KindPolicyPressure, event.UrgencyDeveloping)
	tmpl.TierScaling = templates.TierCurve{0.5, 1, 1, 1, 2}

	local := synthesize(t, &gamestate.Snapshot{Tier: 1}, tmpl, quietItem(), 1)
	national := synthesize(t, &gamestate.Snapshot{Tier: 5}, tmpl, quietItem(), 1)
	if local.Effects.Trust != 1 || national.Effects.Trust != 4 {
		t.Fatalf("expected tier scaled trust 1 and 4, got %v and %v", local.Effects.Trust, national.Effects.Trust)
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	tmpl := testTemplate(event.KindPolicyPressure, event.UrgencyDeveloping)
	a := synthesize(t, nil, tmpl, quietItem(), 42)
	b := synthesize(t, nil, tmpl, quietItem(), 42)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical events for the same seed")
	}
	c := synthesize(t, nil, tmpl, quietItem(), 43)
	if a.ID == c.ID {
		t.Fatalf("expected different ids for different seeds")
	}
}

func TestSynthesize_FallbackTag(t *testing.T) {
	tmpl := testTemplate(event.KindPolicyPressure, event.UrgencyDeveloping)
	s := New(nil, DefaultConfig(), nil)
	result := match.NewResult(match.Selection{Template: &tmpl, Fallback: true}, resolve.Resolution{})
	ev := s.Synthesize(quietItem(), result, rand.New(rand.NewPCG(1, 2)))
	if !slices.Contains(ev.Tags, "fallback-template") || !slices.Contains(ev.Tags, "legislation") {
		t.Fatalf("unexpected tags %v", ev.Tags)
	}
	if slices.Contains(tmpl.Tags, "fallback-template") {
		t.Fatalf("template tags must not be modified")
	}
}

func TestFinalKind(t *testing.T) {
	tests := []struct {
		name string
		item news.Item
		want event.Kind
	}{
		{"default", news.Item{ImpactScore: 5}, event.KindInformational},
		{"crisis", news.Item{ImpactScore: 7, ControversyScore: 0.6}, event.KindCrisis},
		{"opportunity", news.Item{OverallSentiment: 40, PoliticalRelevance: 0.5}, event.KindOpportunity},
		{"opportunity needs relevance", news.Item{OverallSentiment: 40, PoliticalRelevance: 0.2}, event.KindInformational},
		{"scandal", news.Item{Headline: "Mayor indicted"}, event.KindScandalTrigger},
		{"crisis beats scandal", news.Item{Headline: "Fraud scandal", ImpactScore: 9, ControversyScore: 0.9}, event.KindCrisis},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FinalKind(event.KindInformational, tt.item); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestBlocDeltas(t *testing.T) {
	tmpl := testTemplate(event.KindPolicyPressure, event.UrgencyDeveloping)
	got := blocDeltas(&tmpl, 0.5)
	if got["workers"] != 1.5 {
		t.Fatalf("expected 1.5, got %v", got["workers"])
	}
	if blocDeltas(&tmpl, 0) != nil {
		t.Fatalf("expected nil deltas for zero factor")
	}
}
