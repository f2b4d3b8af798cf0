package news

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrNoItems = errors.New("no news items found")

// ReadFile decodes a JSON file holding either a single item or an array.
func ReadFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading news file: %w", err)
	}
	items, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("reading news file %s: %w", path, err)
	}
	return items, nil
}

func Decode(data []byte) ([]Item, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrNoItems
	}

	var items []Item
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	} else {
		var item Item
		if err := json.Unmarshal(trimmed, &item); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
		items = []Item{item}
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	for i := range items {
		normalize(&items[i])
		if items[i].ID == "" {
			return nil, fmt.Errorf("item %d has no id", i)
		}
	}
	return items, nil
}

func normalize(item *Item) {
	item.ID = strings.TrimSpace(item.ID)
	item.Headline = strings.TrimSpace(item.Headline)
	item.Summary = strings.TrimSpace(item.Summary)
	item.PrimaryCategory = strings.TrimSpace(item.PrimaryCategory)
	item.SecondaryCategories = dedupeStrings(item.SecondaryCategories, item.PrimaryCategory)

	item.SourceBias = clamp(item.SourceBias, -1, 1)
	item.SourceCredibility = clamp(item.SourceCredibility, 0, 1)
	item.CategoryConfidence = clamp(item.CategoryConfidence, 0, 1)
	item.OverallSentiment = clamp(item.OverallSentiment, -100, 100)
	item.ControversyScore = clamp(item.ControversyScore, 0, 1)
	item.PoliticalRelevance = clamp(item.PoliticalRelevance, 0, 1)
	if item.ImpactScore == 0 {
		item.ImpactScore = 1
	}
	item.ImpactScore = clamp(item.ImpactScore, 1, 10)

	for _, bucket := range []*[]Entity{
		&item.Entities.People,
		&item.Entities.Organizations,
		&item.Entities.Locations,
		&item.Entities.Legislation,
		&item.Entities.Events,
	} {
		kept := (*bucket)[:0]
		for _, entity := range *bucket {
			entity.Name = strings.TrimSpace(entity.Name)
			if entity.Name == "" {
				continue
			}
			entity.Relevance = clamp(entity.Relevance, 0, 1)
			kept = append(kept, entity)
		}
		*bucket = kept
	}
}

func dedupeStrings(values []string, skip string) []string {
	if len(values) == 0 {
		return values
	}
	seen := map[string]struct{}{strings.ToLower(skip): {}}
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
