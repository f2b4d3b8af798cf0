package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"headliner/internal/event"
	"headliner/internal/match"
	"headliner/internal/news"
	"headliner/internal/pipeline"
	"headliner/internal/templates"
)

type ProcessNewsInput struct {
	News string `json:"news" jsonschema:"a news item as JSON, or a JSON array of items"`
}

type ScoreNewsInput struct {
	News  string `json:"news" jsonschema:"a single news item as JSON"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum candidates to return"`
}

type ListTemplatesInput struct {
	Category string `json:"category,omitempty" jsonschema:"restrict to a news category"`
	Tag      string `json:"tag,omitempty" jsonschema:"restrict to templates carrying this tag"`
}

type GetTemplateInput struct {
	ID string `json:"id" jsonschema:"template id"`
}

type PipelineStatsInput struct {
	Reset bool `json:"reset,omitempty" jsonschema:"clear the counters after reading them"`
}

type ProcessNewsOutput struct {
	Events []event.GameEvent `json:"events"`
}

type CandidateOutput struct {
	Template  string          `json:"template"`
	Category  string          `json:"category"`
	Score     float64         `json:"score"`
	Breakdown match.Breakdown `json:"breakdown"`
}

type ScoreNewsOutput struct {
	NewsID     string            `json:"news_id"`
	Candidates []CandidateOutput `json:"candidates"`
}

type TemplateSummaryOutput struct {
	ID             string   `json:"id"`
	Category       string   `json:"category"`
	Kind           string   `json:"kind"`
	Urgency        string   `json:"urgency"`
	MinImpact      float64  `json:"min_impact"`
	MinControversy float64  `json:"min_controversy"`
	Tags           []string `json:"tags"`
}

type VariableOutput struct {
	Name     string `json:"name"`
	Source   string `json:"source"`
	Fallback string `json:"fallback,omitempty"`
	Required bool   `json:"required,omitempty"`
}

type TemplateOutput struct {
	TemplateSummaryOutput
	Headline         string           `json:"headline"`
	Description      string           `json:"description"`
	Context          string           `json:"context,omitempty"`
	RequiredEntities []string         `json:"required_entities"`
	Keywords         []string         `json:"keywords"`
	TierScaling      []float64        `json:"tier_scaling"`
	Variables        []VariableOutput `json:"variables"`
	SourceFile       string           `json:"source_file,omitempty"`
}

type ListTemplatesOutput struct {
	Templates []TemplateSummaryOutput `json:"templates"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "process_news",
		Description: "Turn analyzed news items into playable game events",
	}, s.handleProcessNews)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "score_news",
		Description: "Explain how each candidate template scores against a news item",
	}, s.handleScoreNews)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_templates",
		Description: "List event templates with optional filters",
	}, s.handleListTemplates)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_template",
		Description: "Retrieve a template with its patterns and variable mappings",
	}, s.handleGetTemplate)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "pipeline_stats",
		Description: "Report processing counters and mean processing time",
	}, s.handlePipelineStats)
}

func (s *Server) handleProcessNews(ctx context.Context, req *sdk.CallToolRequest, input ProcessNewsInput) (*sdk.CallToolResult, ProcessNewsOutput, error) {
	if strings.TrimSpace(input.News) == "" {
		return nil, ProcessNewsOutput{}, fmt.Errorf("news is required")
	}
	items, err := news.Decode([]byte(input.News))
	if err != nil {
		return nil, ProcessNewsOutput{}, err
	}
	return nil, ProcessNewsOutput{Events: s.engine.ProcessBatch(items)}, nil
}

func (s *Server) handleScoreNews(ctx context.Context, req *sdk.CallToolRequest, input ScoreNewsInput) (*sdk.CallToolResult, ScoreNewsOutput, error) {
	if strings.TrimSpace(input.News) == "" {
		return nil, ScoreNewsOutput{}, fmt.Errorf("news is required")
	}
	items, err := news.Decode([]byte(input.News))
	if err != nil {
		return nil, ScoreNewsOutput{}, err
	}
	if len(items) != 1 {
		return nil, ScoreNewsOutput{}, fmt.Errorf("score_news takes exactly one item, got %d", len(items))
	}

	ranked := s.engine.Rank(items[0])
	if input.Limit > 0 && len(ranked) > input.Limit {
		ranked = ranked[:input.Limit]
	}
	output := make([]CandidateOutput, 0, len(ranked))
	for _, c := range ranked {
		output = append(output, CandidateOutput{
			Template:  c.Template.ID,
			Category:  c.Template.Category,
			Score:     c.Score,
			Breakdown: c.Breakdown,
		})
	}
	return nil, ScoreNewsOutput{NewsID: items[0].ID, Candidates: output}, nil
}

func (s *Server) handleListTemplates(ctx context.Context, req *sdk.CallToolRequest, input ListTemplatesInput) (*sdk.CallToolResult, ListTemplatesOutput, error) {
	output := make([]TemplateSummaryOutput, 0)
	for _, tmpl := range s.templates.All() {
		if input.Category != "" && !strings.EqualFold(tmpl.Category, input.Category) {
			continue
		}
		if input.Tag != "" && !tmpl.HasTag(input.Tag) {
			continue
		}
		output = append(output, templateSummaryOutput(tmpl))
	}
	return nil, ListTemplatesOutput{Templates: output}, nil
}

func (s *Server) handleGetTemplate(ctx context.Context, req *sdk.CallToolRequest, input GetTemplateInput) (*sdk.CallToolResult, TemplateOutput, error) {
	if input.ID == "" {
		return nil, TemplateOutput{}, fmt.Errorf("id is required")
	}
	tmpl, ok := s.templates.TemplateByID(input.ID)
	if !ok {
		return nil, TemplateOutput{}, fmt.Errorf("template not found")
	}
	return nil, templateOutput(tmpl), nil
}

func (s *Server) handlePipelineStats(ctx context.Context, req *sdk.CallToolRequest, input PipelineStatsInput) (*sdk.CallToolResult, pipeline.Stats, error) {
	stats := s.engine.Stats()
	if input.Reset {
		s.engine.ResetStats()
	}
	return nil, stats, nil
}

func templateSummaryOutput(tmpl *templates.Template) TemplateSummaryOutput {
	return TemplateSummaryOutput{
		ID:             tmpl.ID,
		Category:       tmpl.Category,
		Kind:           string(tmpl.Kind),
		Urgency:        string(tmpl.Urgency),
		MinImpact:      tmpl.MinImpactScore,
		MinControversy: tmpl.MinControversy,
		Tags:           append([]string{}, tmpl.Tags...),
	}
}

func templateOutput(tmpl *templates.Template) TemplateOutput {
	vars := make([]VariableOutput, 0, len(tmpl.Variables))
	for _, v := range tmpl.Variables {
		vars = append(vars, VariableOutput{
			Name:     v.Name,
			Source:   v.Path.String(),
			Fallback: v.Fallback,
			Required: v.Required,
		})
	}
	return TemplateOutput{
		TemplateSummaryOutput: templateSummaryOutput(tmpl),
		Headline:              tmpl.Headline.String(),
		Description:           tmpl.Description.String(),
		Context:               tmpl.Context.String(),
		RequiredEntities:      append([]string{}, tmpl.RequiredEntities...),
		Keywords:              append([]string{}, tmpl.Keywords...),
		TierScaling:           append([]float64{}, tmpl.TierScaling[:]...),
		Variables:             vars,
		SourceFile:            tmpl.SourceFile,
	}
}
