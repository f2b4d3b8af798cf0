package templates

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"headliner/internal/event"
	"headliner/internal/gamestate"
	"headliner/internal/resolve"
)

// Template is a read-only rule describing how one kind of news becomes an
// event. Text patterns and variable paths are compiled when loaded.
type Template struct {
	ID       string
	Category string
	Kind     event.Kind
	Urgency  event.Urgency

	Headline    resolve.Pattern
	Description resolve.Pattern
	Context     resolve.Pattern
	Variables   []resolve.Variable

	MinImpactScore   float64
	MinControversy   float64
	RequiredEntities []string
	Keywords         []string
	TierScaling      TierCurve
	Effects          Effects
	Tags             []string

	SourceFile string
}

const ChaosOnlyTag = "chaos-only"

// TierCurve holds the multiplier for office tiers 1 through 5.
type TierCurve [5]float64

var FlatCurve = TierCurve{1, 1, 1, 1, 1}

func (c TierCurve) At(tier int) float64 {
	return c[gamestate.ClampTier(tier)-1]
}

type Range struct {
	Min float64
	Max float64
}

func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	var values []float64
	if err := node.Decode(&values); err != nil {
		return fmt.Errorf("range must be a [min, max] pair: %w", err)
	}
	if len(values) != 2 {
		return fmt.Errorf("range must have exactly two values, got %d", len(values))
	}
	r.Min, r.Max = values[0], values[1]
	return nil
}

func (r Range) MarshalYAML() (any, error) {
	return []float64{r.Min, r.Max}, nil
}

func (r Range) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Effects are the base effect ranges before scaling.
type Effects struct {
	Trust        Range            `yaml:"trust"`
	Capital      Range            `yaml:"capital"`
	Funds        Range            `yaml:"funds"`
	Media        Range            `yaml:"media"`
	PartyLoyalty Range            `yaml:"party_loyalty"`
	VoterBlocs   map[string]Range `yaml:"voter_blocs"`
}

// Placeholders lists every placeholder used by the three text patterns.
func (t *Template) Placeholders() []string {
	var names []string
	seen := make(map[string]struct{})
	for _, pattern := range []resolve.Pattern{t.Headline, t.Description, t.Context} {
		for _, name := range pattern.Placeholders() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// ChaosOnly marks templates that only fire while chaos mode is on.
func (t *Template) ChaosOnly() bool {
	return t.HasTag(ChaosOnlyTag)
}

func (t *Template) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if strings.EqualFold(existing, tag) {
			return true
		}
	}
	return false
}
