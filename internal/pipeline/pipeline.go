package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"headliner/internal/event"
	"headliner/internal/gamestate"
	"headliner/internal/match"
	"headliner/internal/news"
	"headliner/internal/resolve"
	"headliner/internal/synth"
)

type Options struct {
	// Seed fixes the random stream behind effect rolls and event ids. Zero
	// seeds from the clock.
	Seed    uint64
	Workers int
	// Budget is the processing time above which a call is logged as slow.
	Budget time.Duration
	Logger *slog.Logger
}

// Pipeline turns news items into game events. Every call returns exactly one
// event per item; failures degrade to a generic fallback event.
type Pipeline struct {
	matcher  *match.Matcher
	resolver *resolve.Resolver
	synth    *synth.Synthesizer
	state    gamestate.Provider
	workers  int
	budget   time.Duration
	logger   *slog.Logger

	seedMu sync.Mutex
	seeder *rand.Rand

	stats statsRecorder
}

func NewPipeline(matcher *match.Matcher, resolver *resolve.Resolver, synthesizer *synth.Synthesizer, state gamestate.Provider, opts Options) (*Pipeline, error) {
	if matcher == nil {
		return nil, errors.New("pipeline requires a matcher")
	}
	if resolver == nil {
		return nil, errors.New("pipeline requires a resolver")
	}
	if synthesizer == nil {
		return nil, errors.New("pipeline requires a synthesizer")
	}
	if state == nil {
		state = (*gamestate.Snapshot)(nil)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Pipeline{
		matcher:  matcher,
		resolver: resolver,
		synth:    synthesizer,
		state:    state,
		workers:  opts.Workers,
		budget:   opts.Budget,
		logger:   opts.Logger,
		seeder:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Process converts one item. It never fails and never panics.
func (p *Pipeline) Process(item news.Item) event.GameEvent {
	return p.processWith(item, p.nextRand())
}

// ProcessBatch converts items concurrently and returns one event per item in
// input order. Random streams are assigned in input order, so a fixed seed
// gives the same events regardless of scheduling.
func (p *Pipeline) ProcessBatch(items []news.Item) []event.GameEvent {
	events := make([]event.GameEvent, len(items))
	if len(items) == 0 {
		return events
	}
	rngs := make([]*rand.Rand, len(items))
	for i := range items {
		rngs[i] = p.nextRand()
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := range items {
		g.Go(func() error {
			events[i] = p.processWith(items[i], rngs[i])
			return nil
		})
	}
	_ = g.Wait()
	return events
}

func (p *Pipeline) processWith(item news.Item, rng *rand.Rand) event.GameEvent {
	start := time.Now()
	ev, outcome := p.run(item, rng)
	elapsed := time.Since(start)

	p.stats.record(outcome, elapsed)
	if p.budget > 0 && elapsed > p.budget {
		p.logger.Warn("news item processing exceeded budget",
			"item", item.ID,
			"elapsed", elapsed,
			"budget", p.budget,
		)
	}
	return ev
}

type outcome struct {
	matched          bool
	templateFallback bool
	failure          string
	warnings         int
}

func (p *Pipeline) run(item news.Item, rng *rand.Rand) (ev event.GameEvent, out outcome) {
	defer func() {
		if r := recover(); r != nil {
			reason := fmt.Sprintf("panic: %v", r)
			p.logger.Error("recovered while processing news item", "item", item.ID, "reason", reason)
			ev = FallbackEvent(item, p.state.CurrentTurn(), rng)
			out = outcome{failure: reason}
		}
	}()

	sel, err := p.matcher.Select(item)
	if err != nil {
		p.logger.Info("no template matched, using fallback event", "item", item.ID, "reason", err)
		return FallbackEvent(item, p.state.CurrentTurn(), rng), outcome{failure: err.Error()}
	}

	res := p.resolver.Resolve(item, sel.Template.Variables)
	result := match.NewResult(sel, res)
	ev = p.synth.Synthesize(item, result, rng)

	p.logger.Debug("news item processed",
		"item", item.ID,
		"template", sel.Template.ID,
		"score", sel.Score,
		"fallback_template", sel.Fallback,
		"kind", ev.Kind,
	)
	return ev, outcome{matched: true, templateFallback: sel.Fallback, warnings: len(res.Warnings)}
}

func (p *Pipeline) nextRand() *rand.Rand {
	p.seedMu.Lock()
	a, b := p.seeder.Uint64(), p.seeder.Uint64()
	p.seedMu.Unlock()
	return rand.New(rand.NewPCG(a, b))
}

// Rank explains how every candidate template scored against item.
func (p *Pipeline) Rank(item news.Item) []match.Candidate {
	return p.matcher.Rank(item)
}

func (p *Pipeline) Stats() Stats {
	return p.stats.snapshot()
}

func (p *Pipeline) ResetStats() {
	p.stats.reset()
}
