package resolve

import (
	"errors"
	"reflect"
	"testing"

	"headliner/internal/news"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Path
	}{
		{
			name: "indexed entity",
			raw:  "entities.legislation[0].name",
			want: Path{Root: RootEntities, Bucket: news.BucketLegislation, Property: "name"},
		},
		{
			name: "default property",
			raw:  "entities.people[2]",
			want: Path{Root: RootEntities, Bucket: news.BucketPeople, Index: 2, Property: "name"},
		},
		{
			name: "filters then index",
			raw:  `entities.people[type=politician][role="sponsor"][1].subtype`,
			want: Path{
				Root:     RootEntities,
				Bucket:   news.BucketPeople,
				Filters:  []Filter{{Key: "type", Value: "politician"}, {Key: "role", Value: "sponsor"}},
				Index:    1,
				Property: "subtype",
			},
		},
		{
			name: "attribute property",
			raw:  "entities.organizations.ticker",
			want: Path{Root: RootEntities, Bucket: news.BucketOrganizations, Property: "ticker"},
		},
		{
			name: "content field",
			raw:  "content.headline",
			want: Path{Root: RootContent, Field: "headline"},
		},
		{
			name: "context field is case insensitive",
			raw:  "Context.Party_Position",
			want: Path{Root: RootContext, Field: "party_position"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.raw)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			got.raw = ""
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestCompile_Malformed(t *testing.T) {
	tests := []string{
		"",
		"entities",
		"entities.",
		"entities.vehicles[0]",
		"entities.people[x]",
		"entities.people[-1]",
		"entities.people[0][type=x]",
		"entities.people[color=red]",
		"entities.people[type=]",
		"entities.people[0",
		"entities.people[0]name",
		"content.headline.extra",
		"weather.today",
	}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := Compile(raw)
			if !errors.Is(err, ErrMalformedPath) {
				t.Fatalf("expected ErrMalformedPath for %q, got %v", raw, err)
			}
		})
	}
}

func TestPath_String(t *testing.T) {
	path := MustCompile("  entities.people[0].name ")
	if path.String() != "entities.people[0].name" {
		t.Fatalf("unexpected string %q", path.String())
	}
}

func TestMustCompile_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustCompile("nope")
}
