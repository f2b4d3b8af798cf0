package resolve

import (
	"testing"

	"headliner/internal/gamestate"
	"headliner/internal/news"
)

func sampleItem() news.Item {
	return news.Item{
		ID:              "n1",
		Headline:        "Senate passes Clean Water Act",
		Summary:         "Lawmakers approved the measure on Tuesday. The law will require new filtration standards.",
		SourceID:        "wire",
		PrimaryCategory: "DomesticLegislation",
		PartisanSplit:   news.PartisanSplit{Left: 0.6, Center: 0.3, Right: 0.1},
		Entities: news.Entities{
			People: []news.Entity{
				{Name: "Jo Hale", Type: "politician", Role: "sponsor"},
				{Name: "Ray Bent", Type: "politician", Role: "opponent", Attributes: map[string]string{"State": "Utah"}},
				{Name: "Ann Lee", Type: "activist"},
			},
			Legislation: []news.Entity{{Name: "Clean Water Act", Type: "legislation", Subtype: "environmental"}},
		},
	}
}

func TestResolver_Lookup(t *testing.T) {
	approval := 60.0
	state := &gamestate.Snapshot{
		Name:           "Dana Reyes",
		Party:          "Green Party",
		State:          "Oregon",
		Tier:           3,
		Title:          "Governor",
		Approval:       &approval,
		Alignment:      gamestate.Alignment{GoodEvil: 50},
		PartyPositions: map[string]string{"DomesticLegislation": "protect clean water"},
	}
	r := NewResolver(state, nil)
	item := sampleItem()

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"entities.legislation[0].name", "Clean Water Act", true},
		{"entities.legislation.subtype", "environmental", true},
		{"entities.people[role=opponent].name", "Ray Bent", true},
		{"entities.people[type=politician][1]", "Ray Bent", true},
		{"entities.people[9].name", "Ann Lee", true},
		{"entities.people[role=opponent].state", "Utah", true},
		{"entities.people[role=judge].name", "", false},
		{"entities.events[0].name", "", false},
		{"content.headline", "Senate passes Clean Water Act", true},
		{"content.source", "wire", true},
		{"content.category", "domestic legislation", true},
		{"content.effect", "the law will require new filtration standards", true},
		{"content.cause", "recent developments in domestic legislation", true},
		{"content.url", "", false},
		{"context.party_position", "protect clean water", true},
		{"context.party_stance", "Green Party is broadly supportive", true},
		{"context.expected_action", "take a principled public stand", true},
		{"context.player_relevance", "As Governor, your constituents in Oregon are watching closely.", true},
		{"context.office_title", "Governor", true},
		{"context.player_name", "Dana Reyes", true},
		{"context.unknown", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := r.Lookup(item, MustCompile(tt.path))
			if ok != tt.ok || got != tt.want {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tt.want, tt.ok, got, ok)
			}
		})
	}
}

func TestResolver_AttributeCaseCollision(t *testing.T) {
	r := NewResolver(nil, nil)
	item := news.Item{Entities: news.Entities{People: []news.Entity{{
		Name: "Jo Hale",
		Attributes: map[string]string{
			"District": "Fourth",
			"DISTRICT": "Ninth",
			"disTRICT": "Second",
		},
	}}}}
	path := MustCompile("entities.people[0].district")
	for range 50 {
		got, ok := r.Lookup(item, path)
		if !ok || got != "Ninth" {
			t.Fatalf("expected the first key in sorted order to win, got (%q, %v)", got, ok)
		}
	}
}

func TestResolver_NoPlayer(t *testing.T) {
	r := NewResolver(nil, nil)
	item := sampleItem()

	if got, ok := r.Lookup(item, MustCompile("context.party_stance")); ok {
		t.Fatalf("expected no stance without a party, got %q", got)
	}
	got, ok := r.Lookup(item, MustCompile("context.office_title"))
	if !ok || got != gamestate.DefaultTitle {
		t.Fatalf("expected default title, got %q", got)
	}
	got, _ = r.Lookup(item, MustCompile("context.player_relevance"))
	if got != "Neighbours in your area want to know where you stand." {
		t.Fatalf("unexpected relevance %q", got)
	}
}

func TestResolver_RequiredFallback(t *testing.T) {
	r := NewResolver(nil, nil)
	item := sampleItem()
	item.Entities.Legislation = nil

	res := r.Resolve(item, []Variable{
		{Name: "bill", Path: MustCompile("entities.legislation[0].name"), Fallback: "the new bill", Required: true},
		{Name: "sponsor", Path: MustCompile("entities.people[role=sponsor].name"), Fallback: "a lawmaker"},
		{Name: "url", Path: MustCompile("content.url"), Fallback: "", Required: false},
	})

	if res.Values["bill"] != "the new bill" {
		t.Fatalf("expected fallback, got %q", res.Values["bill"])
	}
	if res.Values["sponsor"] != "Jo Hale" {
		t.Fatalf("expected sponsor, got %q", res.Values["sponsor"])
	}
	if v, ok := res.Values["url"]; !ok || v != "" {
		t.Fatalf("expected empty url fallback present, got %q %v", v, ok)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Variable != "bill" {
		t.Fatalf("expected one warning for bill, got %+v", res.Warnings)
	}
}

func TestPartyStance(t *testing.T) {
	split := news.PartisanSplit{Left: 0.2, Center: 0.35, Right: 0.5}
	tests := []struct {
		party string
		want  string
	}{
		{"Democratic Party", "Democratic Party is largely opposed"},
		{"Republican Party", "Republican Party is broadly supportive"},
		{"Unity Movement", "Unity Movement is divided"},
	}
	for _, tt := range tests {
		if got := partyStance(tt.party, split); got != tt.want {
			t.Fatalf("%s: expected %q, got %q", tt.party, tt.want, got)
		}
	}
}

func TestHumanizeCategory(t *testing.T) {
	tests := map[string]string{
		"DomesticLegislation": "domestic legislation",
		"ForeignPolicy":       "foreign policy",
		"civil_rights":        "civil rights",
		"Economy":             "economy",
		"":                    "",
	}
	for in, want := range tests {
		if got := HumanizeCategory(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}
