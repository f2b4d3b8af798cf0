package match

import (
	"math"
	"strings"
	"unicode"

	"headliner/internal/event"
	"headliner/internal/news"
	"headliner/internal/templates"
)

// Breakdown records how a template's score was reached.
type Breakdown struct {
	Entity        float64 `json:"entity"`
	Sentiment     float64 `json:"sentiment"`
	Office        float64 `json:"office"`
	Controversy   float64 `json:"controversy"`
	Recency       float64 `json:"recency"`
	Base          float64 `json:"base"`
	KeywordBonus  float64 `json:"keyword_bonus"`
	ImpactPenalty float64 `json:"impact_penalty"`
	Final         float64 `json:"final"`
}

const neutralEntityScore = 0.75

func entityScore(tmpl *templates.Template, item news.Item) float64 {
	if len(tmpl.RequiredEntities) == 0 {
		return neutralEntityScore
	}

	all := item.Entities.All()
	matched := 0
	var relevance float64
	for _, required := range tmpl.RequiredEntities {
		best, ok := bestRelevance(required, item.Entities, all)
		if !ok {
			continue
		}
		matched++
		relevance += best
	}
	if matched == 0 {
		return 0.2
	}

	ratio := float64(matched) / float64(len(tmpl.RequiredEntities))
	avg := relevance / float64(matched)
	return clamp01(0.7*ratio + 0.3*avg)
}

func bestRelevance(required string, entities news.Entities, all []news.Entity) (float64, bool) {
	best := -1.0
	if bucket, ok := news.BucketForType(required); ok {
		inBucket, _ := entities.Bucket(bucket)
		for _, entity := range inBucket {
			best = math.Max(best, entity.Relevance)
		}
	}
	for _, entity := range all {
		if strings.EqualFold(entity.Type, required) || strings.EqualFold(entity.Subtype, required) {
			best = math.Max(best, entity.Relevance)
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

func sentimentScore(kind event.Kind, item news.Item) float64 {
	s := (item.OverallSentiment + 100) / 200
	c := item.ControversyScore
	switch kind {
	case event.KindCrisis:
		return clamp01(0.6*(1-s) + 0.4*c)
	case event.KindOpportunity:
		return clamp01(0.8*s + 0.2*(1-c))
	case event.KindScandalTrigger:
		return clamp01(0.5*(1-s) + 0.5*c)
	default:
		return clamp01(0.5 + 0.3*c)
	}
}

func officeScore(multiplier float64) float64 {
	m := multiplier
	switch {
	case m < 0.2:
		return 0.2
	case m < 0.5:
		return clamp01(0.4 + (m - 0.2))
	case m <= 1.5:
		return clamp01(0.7 + 0.3*(1-math.Abs(1-m)))
	default:
		return clamp01(0.8 - 0.2*(m-1.5))
	}
}

func controversyScore(n, t float64) float64 {
	switch {
	case n < 0.5*t:
		return clamp01(0.3 + 0.4*(n/t))
	case n >= t:
		return clamp01(0.8 + 0.2*(1-math.Abs(n-t)))
	default:
		return clamp01(0.6 + 0.2*((n-0.5*t)/(0.5*t)))
	}
}

func recencyScore(hours float64) float64 {
	switch {
	case hours < 6:
		return 1.0
	case hours < 24:
		return lerp(1.0, 0.85, (hours-6)/18)
	case hours < 72:
		return lerp(0.85, 0.6, (hours-24)/48)
	case hours < 168:
		return lerp(0.6, 0.35, (hours-72)/96)
	default:
		return 0.25
	}
}

func keywordMatches(keywords []string, item news.Item) keywordHits {
	if len(keywords) == 0 {
		return keywordHits{}
	}
	body := strings.ToLower(item.Headline + " " + item.Summary + " " + item.FullText)
	headline := strings.ToLower(item.Headline)
	bodyWords := wordSet(body)
	headlineWords := wordSet(headline)

	var inBody, inHeadline int
	for _, keyword := range keywords {
		if containsKeyword(body, bodyWords, keyword) {
			inBody++
		}
		if containsKeyword(headline, headlineWords, keyword) {
			inHeadline++
		}
	}
	total := float64(len(keywords))
	return keywordHits{
		matchRatio:    float64(inBody) / total,
		headlineRatio: float64(inHeadline) / total,
	}
}

func keywordBonus(hits keywordHits, hasKeywords bool, bonusMax float64) float64 {
	if !hasKeywords {
		return 1.0
	}
	return 1 + hits.matchRatio*bonusMax + hits.headlineRatio*0.2
}

func impactPenalty(impact, minImpact float64) float64 {
	if minImpact <= 0 || impact >= minImpact {
		return 1.0
	}
	deficit := minImpact - impact
	return clamp01(1 - 0.5*deficit/minImpact)
}

func containsKeyword(text string, words map[string]struct{}, keyword string) bool {
	if strings.ContainsAny(keyword, " -") {
		return strings.Contains(text, keyword)
	}
	if _, ok := words[keyword]; ok {
		return true
	}
	_, ok := words[keyword+"s"]
	return ok
}

func wordSet(text string) map[string]struct{} {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
