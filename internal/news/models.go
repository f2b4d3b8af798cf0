package news

import "time"

type Temporal string

const (
	TemporalBreaking   Temporal = "breaking"
	TemporalDeveloping Temporal = "developing"
	TemporalOngoing    Temporal = "ongoing"
	TemporalHistorical Temporal = "historical"
)

// Item is a pre-processed news fact. Entity and sentiment extraction happen
// upstream; the engine only reads these values.
type Item struct {
	ID       string `json:"id"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	FullText string `json:"full_text"`
	SourceID string `json:"source_id"`
	URL      string `json:"url"`

	PublishedAt time.Time `json:"published_at"`
	FetchedAt   time.Time `json:"fetched_at"`

	SourceBias        float64 `json:"source_bias"`
	SourceCredibility float64 `json:"source_credibility"`

	PrimaryCategory     string   `json:"primary_category"`
	SecondaryCategories []string `json:"secondary_categories"`
	CategoryConfidence  float64  `json:"category_confidence"`

	Entities Entities `json:"entities"`

	OverallSentiment float64            `json:"overall_sentiment"`
	EntitySentiment  map[string]float64 `json:"entity_sentiment"`
	ControversyScore float64            `json:"controversy_score"`
	PartisanSplit    PartisanSplit      `json:"partisan_split"`

	PoliticalRelevance     float64  `json:"political_relevance"`
	ImpactScore            float64  `json:"impact_score"`
	TemporalClassification Temporal `json:"temporal_classification"`
}

type PartisanSplit struct {
	Left   float64 `json:"left"`
	Center float64 `json:"center"`
	Right  float64 `json:"right"`
}

type Entity struct {
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	Subtype    string            `json:"subtype"`
	Relevance  float64           `json:"relevance"`
	Role       string            `json:"role"`
	Attributes map[string]string `json:"attributes"`
}

type Entities struct {
	People        []Entity `json:"people"`
	Organizations []Entity `json:"organizations"`
	Locations     []Entity `json:"locations"`
	Legislation   []Entity `json:"legislation"`
	Events        []Entity `json:"events"`
}

type Bucket string

const (
	BucketPeople        Bucket = "people"
	BucketOrganizations Bucket = "organizations"
	BucketLocations     Bucket = "locations"
	BucketLegislation   Bucket = "legislation"
	BucketEvents        Bucket = "events"
)

var Buckets = []Bucket{BucketPeople, BucketOrganizations, BucketLocations, BucketLegislation, BucketEvents}

// Bucket returns the entities stored under name. Unknown names report false.
func (e Entities) Bucket(name Bucket) ([]Entity, bool) {
	switch name {
	case BucketPeople:
		return e.People, true
	case BucketOrganizations:
		return e.Organizations, true
	case BucketLocations:
		return e.Locations, true
	case BucketLegislation:
		return e.Legislation, true
	case BucketEvents:
		return e.Events, true
	default:
		return nil, false
	}
}

func (e Entities) All() []Entity {
	all := make([]Entity, 0, len(e.People)+len(e.Organizations)+len(e.Locations)+len(e.Legislation)+len(e.Events))
	all = append(all, e.People...)
	all = append(all, e.Organizations...)
	all = append(all, e.Locations...)
	all = append(all, e.Legislation...)
	all = append(all, e.Events...)
	return all
}

// BucketForType maps a required entity type such as "person" or "legislation"
// to the bucket holding it.
func BucketForType(entityType string) (Bucket, bool) {
	switch entityType {
	case "person", "people", "politician":
		return BucketPeople, true
	case "organization", "organizations", "org", "party", "agency":
		return BucketOrganizations, true
	case "location", "locations", "place":
		return BucketLocations, true
	case "legislation", "bill", "law":
		return BucketLegislation, true
	case "event", "events":
		return BucketEvents, true
	default:
		return "", false
	}
}

// Categories returns the primary category followed by at most limit
// secondary categories.
func (i Item) Categories(limit int) []string {
	categories := []string{i.PrimaryCategory}
	for idx, category := range i.SecondaryCategories {
		if idx >= limit {
			break
		}
		categories = append(categories, category)
	}
	return categories
}

// AgeHours is the time since publication at now, never negative.
func (i Item) AgeHours(now time.Time) float64 {
	if i.PublishedAt.IsZero() {
		return 0
	}
	hours := now.Sub(i.PublishedAt).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}
