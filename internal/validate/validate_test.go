package validate

import (
	"testing"

	"headliner/internal/parser"
	"headliner/internal/templates"
)

const validTemplate = `---
id: economy-jobs
category: Economy
kind: opportunity
headline: "{agency} reports job gains"
variables:
  - { name: agency, source: "entities.organizations[0].name", fallback: "The Labor Department" }
---
Payrolls grew last month.
`

const companionTemplate = `---
id: economy-other
category: Economy
kind: informational
headline: Markets steady
---
`

func TestRun_CleanSet(t *testing.T) {
	report := runDocs(t, validTemplate, companionTemplate)
	if len(report.Issues) != 0 {
		t.Fatalf("expected no issues, got %+v", report.Issues)
	}
	if report.Templates != 2 {
		t.Fatalf("expected 2 templates, got %d", report.Templates)
	}
}

func TestRun_CompileErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code string
	}{
		{
			name: "unknown kind",
			doc:  "---\nid: bad-kind\ncategory: Economy\nkind: riot\nheadline: X\n---\n",
			code: codeUnknownKind,
		},
		{
			name: "unknown urgency",
			doc:  "---\nid: bad-urgency\ncategory: Economy\nkind: crisis\nurgency: whenever\nheadline: X\n---\n",
			code: codeUnknownUrgency,
		},
		{
			name: "malformed path",
			doc:  "---\nid: bad-path\ncategory: Economy\nkind: crisis\nheadline: \"{x}\"\nvariables:\n  - { name: x, source: \"entities.people[abc].name\" }\n---\n",
			code: codeMalformedPath,
		},
		{
			name: "short tier curve",
			doc:  "---\nid: bad-tiers\ncategory: Economy\nkind: crisis\nheadline: X\ntier_scaling: [1, 2, 3]\n---\n",
			code: codeTierScaling,
		},
		{
			name: "missing headline",
			doc:  "---\nid: no-headline\ncategory: Economy\nkind: crisis\n---\n",
			code: codeInvalidTemplate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := runDocs(t, tt.doc)
			issue, ok := findIssue(report.Issues, tt.code)
			if !ok {
				t.Fatalf("expected %s issue, got %+v", tt.code, report.Issues)
			}
			if issue.Severity != SeverityError {
				t.Fatalf("expected error severity, got %s", issue.Severity)
			}
		})
	}
}

func TestRun_RangeChecks(t *testing.T) {
	doc := `---
id: ranges
category: Economy
kind: crisis
headline: X
min_impact: 12
min_controversy: 1.5
effects:
  trust: [5, -5]
  voter_blocs:
    workers: [3, 1]
---
`
	report := runDocs(t, doc, companionTemplate)
	for _, code := range []string{codeImpactOutOfRange, codeControversyRange, codeInvertedRange} {
		if _, ok := findIssue(report.Issues, code); !ok {
			t.Fatalf("expected %s issue, got %+v", code, report.Issues)
		}
	}
	inverted := 0
	for _, issue := range report.Issues {
		if issue.Code == codeInvertedRange {
			inverted++
		}
	}
	if inverted != 2 {
		t.Fatalf("expected 2 inverted ranges, got %d", inverted)
	}
}

func TestRun_PlaceholderWarnings(t *testing.T) {
	doc := `---
id: placeholders
category: Economy
kind: crisis
headline: "{missing} moves markets"
variables:
  - { name: unused, source: "content.headline" }
---
`
	report := runDocs(t, doc, companionTemplate)
	for _, code := range []string{codeUnmappedPlaceholder, codeUnusedVariable} {
		issue, ok := findIssue(report.Issues, code)
		if !ok {
			t.Fatalf("expected %s issue, got %+v", code, report.Issues)
		}
		if issue.Severity != SeverityWarn {
			t.Fatalf("expected warning severity for %s", code)
		}
	}
	if report.Errors() != 0 {
		t.Fatalf("expected no errors, got %d", report.Errors())
	}
}

func TestRun_DuplicateIDsAndSingleCategory(t *testing.T) {
	lonely := "---\nid: lonely\ncategory: Justice\nkind: crisis\nheadline: X\n---\n"
	report := runDocs(t, validTemplate, validTemplate, lonely)
	if _, ok := findIssue(report.Issues, codeDuplicateID); !ok {
		t.Fatalf("expected duplicate id issue, got %+v", report.Issues)
	}
	issue, ok := findIssue(report.Issues, codeSingleTemplate)
	if !ok {
		t.Fatalf("expected single template warning, got %+v", report.Issues)
	}
	if issue.Template != "lonely" {
		t.Fatalf("expected warning for lonely, got %s", issue.Template)
	}
}

func TestRun_BuiltinSetHasNoErrors(t *testing.T) {
	docs, err := templates.BuiltinDocuments()
	if err != nil {
		t.Fatalf("builtin documents: %v", err)
	}
	report, err := Run(docs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Errors() != 0 {
		t.Fatalf("expected builtin templates to validate, got %+v", report.Issues)
	}
}

func TestRun_NilDocuments(t *testing.T) {
	if _, err := Run(nil); err == nil {
		t.Fatalf("expected error for nil documents")
	}
}

func runDocs(t *testing.T, contents ...string) *Report {
	t.Helper()
	docs := make([]*parser.Document, 0, len(contents))
	for i, c := range contents {
		doc, err := parser.Parse([]byte(c))
		if err != nil {
			t.Fatalf("parse doc %d: %v", i, err)
		}
		docs = append(docs, doc)
	}
	report, err := Run(docs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return report
}

func findIssue(issues []Issue, code string) (Issue, bool) {
	for _, issue := range issues {
		if issue.Code == code {
			return issue, true
		}
	}
	return Issue{}, false
}
