package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"headliner/internal/match"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		path := writeTempConfig(t, `version: 1
templates:
  paths: [./templates]
  exclude: [./templates/drafts]
scoring:
  min_match_threshold: 0.5
  keyword_cache_ttl: 5m
synthesis:
  seed: 42
pipeline:
  workers: 8
  process_budget: 100ms
game_state: state.yaml
`)
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		dir := filepath.Dir(path)
		if !cfg.Templates.Builtin {
			t.Fatalf("expected builtin templates enabled by default")
		}
		if got := cfg.Templates.Paths[0]; got != filepath.Join(dir, "templates") {
			t.Fatalf("expected resolved template path, got %q", got)
		}
		if cfg.GameState != filepath.Join(dir, "state.yaml") {
			t.Fatalf("expected resolved game state path, got %q", cfg.GameState)
		}
		if cfg.Scoring.MinMatchThreshold != 0.5 {
			t.Fatalf("expected threshold 0.5, got %v", cfg.Scoring.MinMatchThreshold)
		}
		if cfg.Scoring.KeywordCacheTTL != 5*time.Minute {
			t.Fatalf("expected ttl 5m, got %v", cfg.Scoring.KeywordCacheTTL)
		}
		if cfg.Scoring.Weights != match.DefaultWeights() {
			t.Fatalf("expected default weights, got %+v", cfg.Scoring.Weights)
		}
		if cfg.Synthesis.Seed != 42 || cfg.Pipeline.Workers != 8 {
			t.Fatalf("unexpected synthesis/pipeline config: %+v %+v", cfg.Synthesis, cfg.Pipeline)
		}
		if cfg.Pipeline.ProcessBudget != 100*time.Millisecond {
			t.Fatalf("expected budget 100ms, got %v", cfg.Pipeline.ProcessBudget)
		}
	})

	t.Run("weights must sum to one", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nscoring:\n  weights: {entity: 0.5, sentiment: 0.5, office: 0.5, controversy: 0, recency: 0}\n")
		_, err := LoadProjectConfig(path)
		if !errors.Is(err, match.ErrInvalidWeights) {
			t.Fatalf("expected ErrInvalidWeights, got %v", err)
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeTempConfig(t, "version: 2\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("no template source", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\ntemplates:\n  builtin: false\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("zero workers", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\npipeline:\n  workers: 0\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("threshold out of range", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nscoring:\n  min_match_threshold: 1.5\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempConfig(t, "version: [\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("HEADLINER_WORKERS", "")
	os.Unsetenv("HEADLINER_WORKERS")
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile))
	if err != nil {
		t.Fatalf("expected defaults, got %v", err)
	}
	if cfg.Version != 1 || !cfg.Templates.Builtin {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HEADLINER_GAME_STATE", "")
	os.Unsetenv("HEADLINER_GAME_STATE")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("HEADLINER_GAME_STATE=/tmp/player.yaml\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("HEADLINER_GAME_STATE") })

	cfg, err := Load(filepath.Join(dir, DefaultFile))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GameState != "/tmp/player.yaml" {
		t.Fatalf("expected game state from .env, got %q", cfg.GameState)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(cfg, map[string]string{
		"HEADLINER_DATABASE_DSN":        "postgres://localhost/headliner",
		"HEADLINER_SEED":                "7",
		"HEADLINER_WORKERS":             "2",
		"HEADLINER_MIN_MATCH_THRESHOLD": "0.25",
	})
	if err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Database.DSN != "postgres://localhost/headliner" {
		t.Fatalf("unexpected dsn %q", cfg.Database.DSN)
	}
	if cfg.Synthesis.Seed != 7 || cfg.Pipeline.Workers != 2 || cfg.Scoring.MinMatchThreshold != 0.25 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}

	t.Run("unset variables keep values", func(t *testing.T) {
		cfg := Default()
		if err := ApplyEnv(cfg, map[string]string{}); err != nil {
			t.Fatalf("apply env: %v", err)
		}
		if cfg.Pipeline.Workers != 4 {
			t.Fatalf("expected default workers, got %d", cfg.Pipeline.Workers)
		}
	})

	t.Run("bad number", func(t *testing.T) {
		if err := ApplyEnv(Default(), map[string]string{"HEADLINER_WORKERS": "many"}); err == nil {
			t.Fatalf("expected parse error")
		}
	})
}

func TestProjectConfig_Conversions(t *testing.T) {
	cfg := Default()
	cfg.Synthesis.Seed = 99
	if err := cfg.MatchConfig().Validate(); err != nil {
		t.Fatalf("default match config invalid: %v", err)
	}
	if got := cfg.SynthConfig(); got.HighStakesImpact != 8 || got.HighStakesTurns != 8 {
		t.Fatalf("unexpected synth config: %+v", got)
	}
	opts := cfg.PipelineOptions(nil)
	if opts.Seed != 99 || opts.Workers != 4 || opts.Budget != 250*time.Millisecond {
		t.Fatalf("unexpected pipeline options: %+v", opts)
	}
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
