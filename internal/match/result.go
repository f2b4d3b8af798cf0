package match

import (
	"headliner/internal/resolve"
	"headliner/internal/templates"
)

// Result is a selection with its variables resolved and text rendered.
type Result struct {
	Template    *templates.Template
	Score       float64
	Breakdown   Breakdown
	Fallback    bool
	Reason      string
	Variables   map[string]string
	Warnings    []resolve.Warning
	Headline    string
	Description string
	Context     string
}

func NewResult(sel Selection, res resolve.Resolution) Result {
	tmpl := sel.Template
	return Result{
		Template:    tmpl,
		Score:       sel.Score,
		Breakdown:   sel.Breakdown,
		Fallback:    sel.Fallback,
		Reason:      sel.Reason,
		Variables:   res.Values,
		Warnings:    res.Warnings,
		Headline:    tmpl.Headline.Render(res.Values),
		Description: tmpl.Description.Render(res.Values),
		Context:     tmpl.Context.Render(res.Values),
	}
}
