package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"headliner/internal/match"
	"headliner/internal/pipeline"
	"headliner/internal/synth"
)

const (
	DefaultFile = "headliner.yaml"
	EnvPrefix   = "HEADLINER_"
)

type ProjectConfig struct {
	Version   int             `yaml:"version"`
	Templates TemplatesConfig `yaml:"templates"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Synthesis SynthesisConfig `yaml:"synthesis"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Database  DatabaseConfig  `yaml:"database"`
	GameState string          `yaml:"game_state"`
}

type TemplatesConfig struct {
	Builtin bool     `yaml:"builtin"`
	Paths   []string `yaml:"paths"`
	Exclude []string `yaml:"exclude"`
}

type ScoringConfig struct {
	Weights           match.Weights `yaml:"weights"`
	MinMatchThreshold float64       `yaml:"min_match_threshold"`
	KeywordBonusMax   float64       `yaml:"keyword_bonus_max"`
	KeywordCacheTTL   time.Duration `yaml:"keyword_cache_ttl"`
}

type SynthesisConfig struct {
	Seed             uint64  `yaml:"seed"`
	HighStakesImpact float64 `yaml:"high_stakes_impact"`
	HighStakesTurns  int     `yaml:"high_stakes_turns"`
}

type PipelineConfig struct {
	Workers       int           `yaml:"workers"`
	ProcessBudget time.Duration `yaml:"process_budget"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type envOverrides struct {
	DatabaseDSN       *string  `env:"DATABASE_DSN"`
	Seed              *uint64  `env:"SEED"`
	Workers           *int     `env:"WORKERS"`
	MinMatchThreshold *float64 `env:"MIN_MATCH_THRESHOLD"`
	GameState         *string  `env:"GAME_STATE"`
}

func Default() *ProjectConfig {
	mc := match.DefaultConfig()
	sc := synth.DefaultConfig()
	return &ProjectConfig{
		Version:   1,
		Templates: TemplatesConfig{Builtin: true},
		Scoring: ScoringConfig{
			Weights:           mc.Weights,
			MinMatchThreshold: mc.MinMatchThreshold,
			KeywordBonusMax:   mc.KeywordBonusMax,
			KeywordCacheTTL:   mc.KeywordCacheTTL,
		},
		Synthesis: SynthesisConfig{
			HighStakesImpact: sc.HighStakesImpact,
			HighStakesTurns:  sc.HighStakesTurns,
		},
		Pipeline: PipelineConfig{
			Workers:       4,
			ProcessBudget: 250 * time.Millisecond,
		},
		Database: DatabaseConfig{DSN: "sqlite://headliner.db"},
	}
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	cfg.resolvePaths(filepath.Dir(path))

	if err := validateProjectConfig(cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return cfg, nil
}

// Load reads the project file when it exists, falling back to defaults, then
// applies a sibling .env file and HEADLINER_ environment overrides.
func Load(path string) (*ProjectConfig, error) {
	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		cfg, err = LoadProjectConfig(path)
		if err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading project config: %w", err)
	} else {
		slog.Debug("project config not found, using defaults", "path", path)
	}

	dotenv := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(dotenv); err == nil {
		if err := godotenv.Load(dotenv); err != nil {
			return nil, fmt.Errorf("loading %s: %w", dotenv, err)
		}
	}

	if err := ApplyEnv(cfg, nil); err != nil {
		return nil, err
	}
	if err := validateProjectConfig(cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from HEADLINER_ variables. A nil environ reads the
// process environment.
func ApplyEnv(cfg *ProjectConfig, environ map[string]string) error {
	var o envOverrides
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return fmt.Errorf("reading environment overrides: %w", err)
	}
	if o.DatabaseDSN != nil {
		cfg.Database.DSN = *o.DatabaseDSN
	}
	if o.Seed != nil {
		cfg.Synthesis.Seed = *o.Seed
	}
	if o.Workers != nil {
		cfg.Pipeline.Workers = *o.Workers
	}
	if o.MinMatchThreshold != nil {
		cfg.Scoring.MinMatchThreshold = *o.MinMatchThreshold
	}
	if o.GameState != nil {
		cfg.GameState = *o.GameState
	}
	return nil
}

func (c *ProjectConfig) resolvePaths(base string) {
	for i, p := range c.Templates.Paths {
		c.Templates.Paths[i] = resolvePath(base, p)
	}
	for i, p := range c.Templates.Exclude {
		c.Templates.Exclude[i] = resolvePath(base, p)
	}
	if c.GameState != "" {
		c.GameState = resolvePath(base, c.GameState)
	}
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func (c *ProjectConfig) MatchConfig() match.Config {
	return match.Config{
		Weights:           c.Scoring.Weights,
		MinMatchThreshold: c.Scoring.MinMatchThreshold,
		KeywordBonusMax:   c.Scoring.KeywordBonusMax,
		KeywordCacheTTL:   c.Scoring.KeywordCacheTTL,
	}
}

func (c *ProjectConfig) SynthConfig() synth.Config {
	return synth.Config{
		HighStakesImpact: c.Synthesis.HighStakesImpact,
		HighStakesTurns:  c.Synthesis.HighStakesTurns,
	}
}

func (c *ProjectConfig) PipelineOptions(logger *slog.Logger) pipeline.Options {
	return pipeline.Options{
		Seed:    c.Synthesis.Seed,
		Workers: c.Pipeline.Workers,
		Budget:  c.Pipeline.ProcessBudget,
		Logger:  logger,
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if !cfg.Templates.Builtin && len(cfg.Templates.Paths) == 0 {
		return fmt.Errorf("templates: builtin disabled and no paths configured")
	}
	for i, p := range cfg.Templates.Paths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("templates path %d is empty", i)
		}
	}
	if err := cfg.MatchConfig().Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if cfg.Synthesis.HighStakesImpact < 1 || cfg.Synthesis.HighStakesImpact > 10 {
		return fmt.Errorf("synthesis: high_stakes_impact %v outside [1,10]", cfg.Synthesis.HighStakesImpact)
	}
	if cfg.Synthesis.HighStakesTurns < 0 {
		return fmt.Errorf("synthesis: high_stakes_turns must not be negative")
	}
	if cfg.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline: workers must be at least 1")
	}
	if cfg.Pipeline.ProcessBudget < 0 {
		return fmt.Errorf("pipeline: process_budget must not be negative")
	}
	return nil
}
