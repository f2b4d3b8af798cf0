package match

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"headliner/internal/gamestate"
	"headliner/internal/news"
	"headliner/internal/templates"
)

// ErrNoTemplates means no category of the item has any template.
var ErrNoTemplates = errors.New("no templates for news categories")

// maxSecondaryCategories bounds how many secondary categories contribute
// candidates.
const maxSecondaryCategories = 2

type Candidate struct {
	Template  *templates.Template `json:"-"`
	Score     float64             `json:"score"`
	Breakdown Breakdown           `json:"breakdown"`
}

// Selection is the template picked for an item. Fallback is set when the
// category's lowest-threshold template stood in for a weak best match.
type Selection struct {
	Template  *templates.Template
	Score     float64
	Breakdown Breakdown
	Fallback  bool
	Reason    string
}

type Matcher struct {
	registry *templates.Registry
	state    gamestate.Provider
	cfg      Config
	now      func() time.Time
	logger   *slog.Logger
	cache    *keywordCache
}

type Option func(*Matcher)

func WithClock(now func() time.Time) Option {
	return func(m *Matcher) {
		m.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		m.logger = logger
	}
}

func NewMatcher(registry *templates.Registry, state gamestate.Provider, cfg Config, opts ...Option) (*Matcher, error) {
	if registry == nil {
		return nil, errors.New("matcher requires a template registry")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("matcher config: %w", err)
	}
	if state == nil {
		state = (*gamestate.Snapshot)(nil)
	}
	m := &Matcher{
		registry: registry,
		state:    state,
		cfg:      cfg,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cache = newKeywordCache(cfg.KeywordCacheTTL, m.now)
	return m, nil
}

func (m *Matcher) Config() Config {
	return m.cfg
}

// Candidates gathers templates for the primary category and up to two
// secondary categories, deduplicated by id. Chaos-only templates are left out
// unless chaos mode is on.
func (m *Matcher) Candidates(item news.Item) []*templates.Template {
	var out []*templates.Template
	seen := make(map[string]struct{})
	chaos := m.state.ChaosModeEnabled()
	for _, category := range item.Categories(maxSecondaryCategories) {
		for _, tmpl := range m.registry.TemplatesForCategory(category) {
			if _, ok := seen[tmpl.ID]; ok {
				continue
			}
			if tmpl.ChaosOnly() && !chaos {
				continue
			}
			seen[tmpl.ID] = struct{}{}
			out = append(out, tmpl)
		}
	}
	return out
}

// Score computes the weighted match of one template against an item.
func (m *Matcher) Score(tmpl *templates.Template, item news.Item) Breakdown {
	w := m.cfg.Weights
	b := Breakdown{
		Entity:      entityScore(tmpl, item),
		Sentiment:   sentimentScore(tmpl.Kind, item),
		Office:      officeScore(tmpl.TierScaling.At(m.state.OfficeTier())),
		Controversy: controversyScore(item.ControversyScore, tmpl.MinControversy),
		Recency:     recencyScore(item.AgeHours(m.now())),
	}
	b.Base = clamp01(b.Entity*w.Entity +
		b.Sentiment*w.Sentiment +
		b.Office*w.Office +
		b.Controversy*w.Controversy +
		b.Recency*w.Recency)
	b.KeywordBonus = keywordBonus(m.keywordHits(tmpl, item), len(tmpl.Keywords) > 0, m.cfg.KeywordBonusMax)
	b.ImpactPenalty = impactPenalty(item.ImpactScore, tmpl.MinImpactScore)
	b.Final = clamp01(b.Base * b.KeywordBonus * b.ImpactPenalty)
	return b
}

func (m *Matcher) keywordHits(tmpl *templates.Template, item news.Item) keywordHits {
	key := cacheKey{templateID: tmpl.ID, newsID: item.ID}
	if hits, ok := m.cache.get(key); ok {
		return hits
	}
	hits := keywordMatches(tmpl.Keywords, item)
	m.cache.put(key, hits)
	return hits
}

// Rank scores every candidate, best first. Equal scores order by id.
func (m *Matcher) Rank(item news.Item) []Candidate {
	candidates := m.Candidates(item)
	ranked := make([]Candidate, 0, len(candidates))
	for _, tmpl := range candidates {
		b := m.Score(tmpl, item)
		ranked = append(ranked, Candidate{Template: tmpl, Score: b.Final, Breakdown: b})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Template.ID < ranked[j].Template.ID
	})
	return ranked
}

// Select picks the winning template or the category fallback.
func (m *Matcher) Select(item news.Item) (Selection, error) {
	ranked := m.Rank(item)
	if len(ranked) == 0 {
		return Selection{}, fmt.Errorf("%w: %s", ErrNoTemplates, item.PrimaryCategory)
	}

	best := ranked[0]
	reason := ""
	switch {
	case belowEveryMinimum(item, ranked):
		reason = "impact below every template minimum"
	case best.Score < m.cfg.MinMatchThreshold:
		reason = fmt.Sprintf("best score %.3f below threshold %.2f", best.Score, m.cfg.MinMatchThreshold)
	default:
		return Selection{Template: best.Template, Score: best.Score, Breakdown: best.Breakdown}, nil
	}

	fallback := m.fallbackCandidate(item, ranked)
	m.logger.Debug("using fallback template",
		"item", item.ID,
		"template", fallback.Template.ID,
		"reason", reason,
	)
	return Selection{
		Template:  fallback.Template,
		Score:     m.cfg.MinMatchThreshold,
		Breakdown: fallback.Breakdown,
		Fallback:  true,
		Reason:    reason,
	}, nil
}

func belowEveryMinimum(item news.Item, ranked []Candidate) bool {
	for _, c := range ranked {
		if item.ImpactScore >= c.Template.MinImpactScore {
			return false
		}
	}
	return true
}

// fallbackCandidate returns the lowest-threshold template of the primary
// category, breaking ties on the lowest controversy minimum. When the primary
// category is empty all candidates qualify.
func (m *Matcher) fallbackCandidate(item news.Item, ranked []Candidate) Candidate {
	primary := make(map[string]struct{})
	for _, tmpl := range m.registry.TemplatesForCategory(item.PrimaryCategory) {
		primary[tmpl.ID] = struct{}{}
	}

	var pool []Candidate
	for _, c := range ranked {
		if _, ok := primary[c.Template.ID]; ok {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		pool = ranked
	}

	best := pool[0]
	for _, c := range pool[1:] {
		if lowerThreshold(c.Template, best.Template) {
			best = c
		}
	}
	return best
}

func lowerThreshold(a, b *templates.Template) bool {
	if a.MinImpactScore != b.MinImpactScore {
		return a.MinImpactScore < b.MinImpactScore
	}
	if a.MinControversy != b.MinControversy {
		return a.MinControversy < b.MinControversy
	}
	return a.ID < b.ID
}

func (m *Matcher) CacheSize() int {
	return m.cache.len()
}

func (m *Matcher) ResetCache() {
	m.cache.clear()
}
