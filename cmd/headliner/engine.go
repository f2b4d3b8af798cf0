package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"headliner/internal/config"
	"headliner/internal/gamestate"
	"headliner/internal/match"
	"headliner/internal/pipeline"
	"headliner/internal/resolve"
	"headliner/internal/synth"
	"headliner/internal/templates"
)

// engineFlags choose where the player snapshot comes from. A snapshot file
// wins over a stored player, which wins over the configured game_state file.
type engineFlags struct {
	stateFile string
	player    string
	seed      uint64
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.stateFile, "state", "", "Game-state snapshot YAML file")
	cmd.Flags().StringVar(&f.player, "player", "", "Load the stored snapshot for this player id")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Random seed for effect rolls (overrides config)")
}

type engine struct {
	cfg      *config.ProjectConfig
	registry *templates.Registry
	pipeline *pipeline.Pipeline
	state    *gamestate.Snapshot
}

func loadRegistry(cfg *config.ProjectConfig, logger *slog.Logger) (*templates.Registry, error) {
	registry := templates.NewRegistry(templates.Sources(cfg.Templates.Builtin, cfg.Templates.Paths, cfg.Templates.Exclude, logger))
	if err := registry.Build(); err != nil {
		return nil, err
	}
	if len(registry.All()) == 0 {
		return nil, fmt.Errorf("no templates loaded")
	}
	return registry, nil
}

func loadState(ctx context.Context, cfg *config.ProjectConfig, ef engineFlags) (*gamestate.Snapshot, error) {
	switch {
	case ef.stateFile != "":
		return gamestate.LoadSnapshot(ef.stateFile)
	case ef.player != "":
		db, err := openStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer db.Close(ctx)
		snap, err := db.LoadSnapshot(ctx, ef.player)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			return nil, fmt.Errorf("no snapshot stored for player %q", ef.player)
		}
		return snap, nil
	case cfg.GameState != "":
		return gamestate.LoadSnapshot(cfg.GameState)
	default:
		return nil, nil
	}
}

func buildEngine(ctx context.Context, flags *rootFlags, ef engineFlags) (*engine, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if ef.seed != 0 {
		cfg.Synthesis.Seed = ef.seed
	}
	logger := slog.Default()

	registry, err := loadRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}
	state, err := loadState(ctx, cfg, ef)
	if err != nil {
		return nil, err
	}

	matcher, err := match.NewMatcher(registry, state, cfg.MatchConfig(), match.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	p, err := pipeline.NewPipeline(
		matcher,
		resolve.NewResolver(state, logger),
		synth.New(state, cfg.SynthConfig(), logger),
		state,
		cfg.PipelineOptions(logger),
	)
	if err != nil {
		return nil, err
	}
	return &engine{cfg: cfg, registry: registry, pipeline: p, state: state}, nil
}
