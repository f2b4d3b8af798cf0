package templates

import (
	"errors"
	"fmt"
	"strings"

	"headliner/internal/event"
	"headliner/internal/parser"
	"headliner/internal/resolve"
)

var (
	ErrInvalidTemplate = errors.New("invalid template")
	ErrTierScaling     = errors.New("tier_scaling needs one value per office tier")
)

type definition struct {
	ID               string        `yaml:"id"`
	Category         string        `yaml:"category"`
	Kind             string        `yaml:"kind"`
	Urgency          string        `yaml:"urgency"`
	Headline         string        `yaml:"headline"`
	Description      string        `yaml:"description"`
	Context          string        `yaml:"context"`
	Variables        []variableDef `yaml:"variables"`
	MinImpact        float64       `yaml:"min_impact"`
	MinControversy   float64       `yaml:"min_controversy"`
	RequiredEntities []string      `yaml:"required_entities"`
	Keywords         []string      `yaml:"keywords"`
	TierScaling      []float64     `yaml:"tier_scaling"`
	Effects          Effects       `yaml:"effects"`
	Tags             []string      `yaml:"tags"`
}

type variableDef struct {
	Name     string `yaml:"name"`
	Source   string `yaml:"source"`
	Fallback string `yaml:"fallback"`
	Required bool   `yaml:"required"`
}

// FromDocument builds a Template from a parsed template file. The markdown
// body is the description pattern unless the frontmatter sets one.
func FromDocument(doc *parser.Document) (Template, error) {
	var def definition
	if err := doc.Decode(&def); err != nil {
		return Template{}, fmt.Errorf("%w %s: %w", ErrInvalidTemplate, doc.ID, err)
	}
	if strings.TrimSpace(def.Description) == "" {
		def.Description = doc.Body
	}
	tmpl, err := compile(def)
	if err != nil {
		return Template{}, fmt.Errorf("%w %s: %w", ErrInvalidTemplate, doc.ID, err)
	}
	tmpl.SourceFile = doc.SourceFile
	return tmpl, nil
}

func compile(def definition) (Template, error) {
	tmpl := Template{
		ID:             strings.TrimSpace(def.ID),
		Category:       strings.TrimSpace(def.Category),
		Headline:       resolve.Tokenize(def.Headline),
		Description:    resolve.Tokenize(strings.TrimSpace(def.Description)),
		Context:        resolve.Tokenize(def.Context),
		MinImpactScore: def.MinImpact,
		MinControversy: def.MinControversy,
		Effects:        def.Effects,
		TierScaling:    FlatCurve,
	}
	if tmpl.ID == "" {
		return Template{}, errors.New("id is required")
	}
	if tmpl.Category == "" {
		return Template{}, errors.New("category is required")
	}
	if strings.TrimSpace(def.Headline) == "" {
		return Template{}, errors.New("headline is required")
	}

	kind, err := event.ParseKind(strings.TrimSpace(def.Kind))
	if err != nil {
		return Template{}, err
	}
	tmpl.Kind = kind

	tmpl.Urgency = event.UrgencyDeveloping
	if strings.TrimSpace(def.Urgency) != "" {
		urgency, err := event.ParseUrgency(strings.TrimSpace(def.Urgency))
		if err != nil {
			return Template{}, err
		}
		tmpl.Urgency = urgency
	}

	if tmpl.MinImpactScore == 0 {
		tmpl.MinImpactScore = 1
	}

	if len(def.TierScaling) > 0 {
		if len(def.TierScaling) != len(tmpl.TierScaling) {
			return Template{}, fmt.Errorf("%w: got %d of %d", ErrTierScaling, len(def.TierScaling), len(tmpl.TierScaling))
		}
		copy(tmpl.TierScaling[:], def.TierScaling)
	}

	seen := make(map[string]struct{})
	for i, v := range def.Variables {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return Template{}, fmt.Errorf("variable %d name is required", i)
		}
		if _, ok := seen[name]; ok {
			return Template{}, fmt.Errorf("duplicate variable: %s", name)
		}
		seen[name] = struct{}{}
		path, err := resolve.Compile(v.Source)
		if err != nil {
			return Template{}, fmt.Errorf("variable %s: %w", name, err)
		}
		tmpl.Variables = append(tmpl.Variables, resolve.Variable{
			Name:     name,
			Path:     path,
			Fallback: v.Fallback,
			Required: v.Required,
		})
	}

	tmpl.RequiredEntities = normalizeList(def.RequiredEntities)
	tmpl.Keywords = normalizeList(def.Keywords)
	tmpl.Tags = def.Tags
	return tmpl, nil
}

func normalizeList(values []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
