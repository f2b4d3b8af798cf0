package match

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrInvalidWeights = errors.New("invalid scoring weights")

// Weights combine the five component scores. They must sum to 1.
type Weights struct {
	Entity      float64 `yaml:"entity" json:"entity"`
	Sentiment   float64 `yaml:"sentiment" json:"sentiment"`
	Office      float64 `yaml:"office" json:"office"`
	Controversy float64 `yaml:"controversy" json:"controversy"`
	Recency     float64 `yaml:"recency" json:"recency"`
}

func DefaultWeights() Weights {
	return Weights{
		Entity:      0.30,
		Sentiment:   0.20,
		Office:      0.25,
		Controversy: 0.15,
		Recency:     0.10,
	}
}

const weightTolerance = 1e-6

func (w Weights) Sum() float64 {
	return w.Entity + w.Sentiment + w.Office + w.Controversy + w.Recency
}

func (w Weights) Validate() error {
	named := []struct {
		name  string
		value float64
	}{
		{"entity", w.Entity},
		{"sentiment", w.Sentiment},
		{"office", w.Office},
		{"controversy", w.Controversy},
		{"recency", w.Recency},
	}
	for _, n := range named {
		if n.value < 0 || n.value > 1 || math.IsNaN(n.value) {
			return fmt.Errorf("%w: %s weight %v outside [0,1]", ErrInvalidWeights, n.name, n.value)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1.0", ErrInvalidWeights, sum)
	}
	return nil
}

type Config struct {
	Weights           Weights
	MinMatchThreshold float64
	KeywordBonusMax   float64
	KeywordCacheTTL   time.Duration
}

func DefaultConfig() Config {
	return Config{
		Weights:           DefaultWeights(),
		MinMatchThreshold: 0.4,
		KeywordBonusMax:   0.5,
		KeywordCacheTTL:   30 * time.Minute,
	}
}

func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.MinMatchThreshold < 0 || c.MinMatchThreshold > 1 {
		return fmt.Errorf("min match threshold %v outside [0,1]", c.MinMatchThreshold)
	}
	if c.KeywordBonusMax < 0 {
		return fmt.Errorf("keyword bonus max must not be negative, got %v", c.KeywordBonusMax)
	}
	if c.KeywordCacheTTL < 0 {
		return fmt.Errorf("keyword cache ttl must not be negative, got %v", c.KeywordCacheTTL)
	}
	return nil
}
