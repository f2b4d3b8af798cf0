package resolve

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"unicode"

	"headliner/internal/gamestate"
	"headliner/internal/news"
)

// Variable fills one {name} placeholder from a compiled source path.
type Variable struct {
	Name     string
	Path     Path
	Fallback string
	Required bool
}

type Warning struct {
	Variable string
	Path     string
	Message  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (%s): %s", w.Variable, w.Path, w.Message)
}

type Resolution struct {
	Values   map[string]string
	Warnings []Warning
}

// Resolver interprets compiled paths against a news item and the game state.
type Resolver struct {
	state  gamestate.Provider
	logger *slog.Logger
}

func NewResolver(state gamestate.Provider, logger *slog.Logger) *Resolver {
	if state == nil {
		state = (*gamestate.Snapshot)(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{state: state, logger: logger}
}

func (r *Resolver) Resolve(item news.Item, vars []Variable) Resolution {
	res := Resolution{Values: make(map[string]string, len(vars))}
	for _, v := range vars {
		value, ok := r.Lookup(item, v.Path)
		if ok {
			res.Values[v.Name] = value
			continue
		}
		res.Values[v.Name] = v.Fallback
		if v.Required {
			warning := Warning{Variable: v.Name, Path: v.Path.String(), Message: "required variable unresolved, using fallback"}
			res.Warnings = append(res.Warnings, warning)
			r.logger.Warn("unresolved required variable",
				"item", item.ID,
				"variable", v.Name,
				"path", v.Path.String(),
				"fallback", v.Fallback,
			)
		}
	}
	return res
}

// Lookup evaluates a single path. Empty results count as unresolved.
func (r *Resolver) Lookup(item news.Item, path Path) (string, bool) {
	var value string
	switch path.Root {
	case RootEntities:
		value = lookupEntity(item, path)
	case RootContent:
		value = lookupContent(item, path.Field)
	case RootContext:
		value = r.lookupContext(item, path.Field)
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func lookupEntity(item news.Item, path Path) string {
	entities, ok := item.Entities.Bucket(path.Bucket)
	if !ok {
		return ""
	}
	matched := entities[:0:0]
	for _, entity := range entities {
		if matchesFilters(entity, path.Filters) {
			matched = append(matched, entity)
		}
	}
	if len(matched) == 0 {
		return ""
	}
	index := path.Index
	if index >= len(matched) {
		index = len(matched) - 1
	}
	return entityProperty(matched[index], path.Property)
}

func matchesFilters(entity news.Entity, filters []Filter) bool {
	for _, filter := range filters {
		var actual string
		switch filter.Key {
		case "type":
			actual = entity.Type
		case "role":
			actual = entity.Role
		}
		if !strings.EqualFold(actual, filter.Value) {
			return false
		}
	}
	return true
}

func entityProperty(entity news.Entity, property string) string {
	switch property {
	case "", "name":
		return entity.Name
	case "type":
		return entity.Type
	case "subtype":
		return entity.Subtype
	case "role":
		return entity.Role
	}
	if value, ok := entity.Attributes[property]; ok {
		return value
	}
	for _, key := range slices.Sorted(maps.Keys(entity.Attributes)) {
		if strings.EqualFold(key, property) {
			return entity.Attributes[key]
		}
	}
	return ""
}

func lookupContent(item news.Item, field string) string {
	switch field {
	case "headline":
		return item.Headline
	case "summary":
		return item.Summary
	case "source":
		return item.SourceID
	case "url":
		return item.URL
	case "text", "full_text":
		return item.FullText
	case "category":
		return HumanizeCategory(item.PrimaryCategory)
	case "effect", "impact":
		return extractEffect(item.Summary)
	case "cause", "reason":
		return extractCause(item)
	}
	return ""
}

var actionWords = []string{
	"will", "would", "could", "may", "might", "must", "should", "can",
	"expected", "threatens", "aims", "plans", "requires", "forces",
	"cuts", "raises", "bans", "allows", "expands", "ends",
}

// extractEffect picks the first summary sentence that reads like an outcome.
func extractEffect(summary string) string {
	for _, sentence := range splitSentences(summary) {
		for _, word := range strings.FieldsFunc(strings.ToLower(sentence), notLetter) {
			if containsWord(actionWords, word) {
				return lowerFirst(strings.TrimRight(sentence, ".!?"))
			}
		}
	}
	return ""
}

func extractCause(item news.Item) string {
	if category := HumanizeCategory(item.PrimaryCategory); category != "" {
		return "recent developments in " + category
	}
	return "recent developments"
}

func (r *Resolver) lookupContext(item news.Item, field string) string {
	switch field {
	case "party_position":
		return r.state.PartyPositionText(item.PrimaryCategory)
	case "party_stance":
		return partyStance(r.state.PlayerParty(), item.PartisanSplit)
	case "expected_action":
		return expectedAction(r.state.PlayerAlignment())
	case "player_relevance":
		return playerRelevance(r.state.OfficeTier(), r.state.OfficeTitle(), r.state.PlayerState())
	case "office_title":
		return r.state.OfficeTitle()
	case "player_name":
		return r.state.PlayerName()
	case "player_party":
		return r.state.PlayerParty()
	case "player_state":
		return r.state.PlayerState()
	}
	return ""
}

func partyStance(party string, split news.PartisanSplit) string {
	if strings.TrimSpace(party) == "" {
		return ""
	}
	var share float64
	switch gamestate.PartyLean(party) {
	case gamestate.LeanLeft:
		share = split.Left
	case gamestate.LeanRight:
		share = split.Right
	default:
		share = split.Center
	}
	switch {
	case share >= 0.45:
		return party + " is broadly supportive"
	case share <= 0.25:
		return party + " is largely opposed"
	default:
		return party + " is divided"
	}
}

func expectedAction(a gamestate.Alignment) string {
	switch {
	case a.GoodEvil >= 30:
		return "take a principled public stand"
	case a.GoodEvil <= -30:
		return "turn the situation to your advantage"
	case a.LawChaos >= 30:
		return "work through the proper channels"
	case a.LawChaos <= -30:
		return "shake up the usual process"
	default:
		return "weigh your options carefully"
	}
}

func playerRelevance(tier int, title, state string) string {
	where := state
	if where == "" {
		where = "your area"
	}
	switch gamestate.ClampTier(tier) {
	case 1:
		return fmt.Sprintf("Neighbours in %s want to know where you stand.", where)
	case 2:
		return fmt.Sprintf("As %s, local voters in %s expect a response.", title, where)
	case 3:
		return fmt.Sprintf("As %s, your constituents in %s are watching closely.", title, where)
	case 4:
		return fmt.Sprintf("As %s, all of %s will judge your response.", title, where)
	default:
		return fmt.Sprintf("As %s, the whole nation is waiting for your response.", title)
	}
}

// HumanizeCategory turns "DomesticLegislation" into "domestic legislation".
func HumanizeCategory(category string) string {
	var b strings.Builder
	for i, r := range category {
		if r == '_' || r == '-' {
			b.WriteByte(' ')
			continue
		}
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func containsWord(words []string, target string) bool {
	for _, w := range words {
		if w == target {
			return true
		}
	}
	return false
}

func notLetter(r rune) bool {
	return !unicode.IsLetter(r)
}

func lowerFirst(s string) string {
	runes := []rune(s)
	if len(runes) < 2 || !unicode.IsUpper(runes[0]) || unicode.IsUpper(runes[1]) {
		return s
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
