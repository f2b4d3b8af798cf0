package validate

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"headliner/internal/event"
	"headliner/internal/parser"
	"headliner/internal/resolve"
	"headliner/internal/templates"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeInvalidTemplate     = "invalid_template"
	codeUnknownKind         = "unknown_kind"
	codeUnknownUrgency      = "unknown_urgency"
	codeMalformedPath       = "malformed_path"
	codeTierScaling         = "tier_scaling_length"
	codeInvertedRange       = "inverted_range"
	codeImpactOutOfRange    = "min_impact_out_of_range"
	codeControversyRange    = "min_controversy_out_of_range"
	codeDuplicateID         = "duplicate_id"
	codeUnmappedPlaceholder = "unmapped_placeholder"
	codeUnusedVariable      = "unused_variable"
	codeSingleTemplate      = "single_template_category"
)

type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Template string   `json:"template,omitempty"`
	FilePath string   `json:"file_path,omitempty"`
}

type Report struct {
	Templates int     `json:"templates"`
	Issues    []Issue `json:"issues"`
}

func (r *Report) Errors() int {
	return r.count(SeverityError)
}

func (r *Report) Warnings() int {
	return r.count(SeverityWarn)
}

func (r *Report) count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// Run checks a set of template documents. Documents that fail to compile are
// reported and left out of the set-level checks.
func Run(docs []*parser.Document) (*Report, error) {
	if docs == nil {
		return nil, fmt.Errorf("template documents are required")
	}

	issues := make([]Issue, 0)
	compiled := make([]templates.Template, 0, len(docs))
	for _, doc := range docs {
		tmpl, err := templates.FromDocument(doc)
		if err != nil {
			issues = append(issues, compileIssue(doc, err))
			continue
		}
		compiled = append(compiled, tmpl)
	}

	for i := range compiled {
		issues = append(issues, validateRanges(&compiled[i])...)
		issues = append(issues, validatePlaceholders(&compiled[i])...)
	}
	issues = append(issues, validateDuplicateIDs(compiled)...)
	issues = append(issues, validateCategories(compiled)...)

	return &Report{Templates: len(docs), Issues: issues}, nil
}

func compileIssue(doc *parser.Document, err error) Issue {
	code := codeInvalidTemplate
	switch {
	case errors.Is(err, event.ErrUnknownKind):
		code = codeUnknownKind
	case errors.Is(err, event.ErrUnknownUrgency):
		code = codeUnknownUrgency
	case errors.Is(err, resolve.ErrMalformedPath):
		code = codeMalformedPath
	case errors.Is(err, templates.ErrTierScaling):
		code = codeTierScaling
	}
	return Issue{
		Severity: SeverityError,
		Code:     code,
		Message:  err.Error(),
		Template: doc.ID,
		FilePath: doc.SourceFile,
	}
}

func validateRanges(tmpl *templates.Template) []Issue {
	var issues []Issue
	add := func(severity Severity, code, message string) {
		issues = append(issues, Issue{
			Severity: severity,
			Code:     code,
			Message:  message,
			Template: tmpl.ID,
			FilePath: tmpl.SourceFile,
		})
	}

	if tmpl.MinImpactScore < 1 || tmpl.MinImpactScore > 10 {
		add(SeverityError, codeImpactOutOfRange, fmt.Sprintf("min_impact %.2f outside [1, 10]", tmpl.MinImpactScore))
	}
	if tmpl.MinControversy < 0 || tmpl.MinControversy > 1 {
		add(SeverityError, codeControversyRange, fmt.Sprintf("min_controversy %.2f outside [0, 1]", tmpl.MinControversy))
	}

	e := tmpl.Effects
	named := []struct {
		name string
		r    templates.Range
	}{
		{"trust", e.Trust},
		{"capital", e.Capital},
		{"funds", e.Funds},
		{"media", e.Media},
		{"party_loyalty", e.PartyLoyalty},
	}
	for _, bloc := range sortedKeys(e.VoterBlocs) {
		named = append(named, struct {
			name string
			r    templates.Range
		}{"voter_blocs." + bloc, e.VoterBlocs[bloc]})
	}
	for _, n := range named {
		if n.r.Min > n.r.Max {
			add(SeverityError, codeInvertedRange, fmt.Sprintf("effect %s has min %.2f above max %.2f", n.name, n.r.Min, n.r.Max))
		}
	}
	return issues
}

func validatePlaceholders(tmpl *templates.Template) []Issue {
	var issues []Issue
	mapped := make(map[string]struct{}, len(tmpl.Variables))
	for _, v := range tmpl.Variables {
		mapped[v.Name] = struct{}{}
	}
	used := make(map[string]struct{})
	for _, name := range tmpl.Placeholders() {
		used[name] = struct{}{}
		if _, ok := mapped[name]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeUnmappedPlaceholder,
				Message:  fmt.Sprintf("placeholder {%s} has no variable mapping and renders empty", name),
				Template: tmpl.ID,
				FilePath: tmpl.SourceFile,
			})
		}
	}
	for _, v := range tmpl.Variables {
		if _, ok := used[v.Name]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeUnusedVariable,
				Message:  fmt.Sprintf("variable %s is never used in the text", v.Name),
				Template: tmpl.ID,
				FilePath: tmpl.SourceFile,
			})
		}
	}
	return issues
}

func validateDuplicateIDs(compiled []templates.Template) []Issue {
	byID := make(map[string][]string)
	for _, tmpl := range compiled {
		byID[tmpl.ID] = append(byID[tmpl.ID], tmpl.SourceFile)
	}
	var issues []Issue
	for _, id := range sortedKeys(byID) {
		files := byID[id]
		if len(files) < 2 {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeDuplicateID,
			Message:  fmt.Sprintf("template id defined %d times: %v", len(files), files),
			Template: id,
			FilePath: files[1],
		})
	}
	return issues
}

func validateCategories(compiled []templates.Template) []Issue {
	byCategory := make(map[string][]string)
	for _, tmpl := range compiled {
		byCategory[tmpl.Category] = append(byCategory[tmpl.Category], tmpl.ID)
	}
	var issues []Issue
	for _, category := range sortedKeys(byCategory) {
		ids := slices.Compact(slices.Sorted(slices.Values(byCategory[category])))
		if len(ids) != 1 {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeSingleTemplate,
			Message:  fmt.Sprintf("category %s has a single template, so no ranking happens", category),
			Template: ids[0],
		})
	}
	return issues
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
