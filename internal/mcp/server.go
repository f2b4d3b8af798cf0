package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"headliner/internal/event"
	"headliner/internal/match"
	"headliner/internal/news"
	"headliner/internal/pipeline"
	"headliner/internal/templates"
)

// Engine is the slice of the pipeline the tools drive.
type Engine interface {
	ProcessBatch(items []news.Item) []event.GameEvent
	Rank(item news.Item) []match.Candidate
	Stats() pipeline.Stats
	ResetStats()
}

type TemplateSource interface {
	All() []*templates.Template
	TemplateByID(id string) (*templates.Template, bool)
}

type Server struct {
	engine    Engine
	templates TemplateSource
	mcp       *sdk.Server
}

func NewServer(engine Engine, source TemplateSource, version string) *Server {
	s := &Server{
		engine:    engine,
		templates: source,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "headliner",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
