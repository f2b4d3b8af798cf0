package pipeline

import (
	"sync"
	"time"
)

type Stats struct {
	Processed         int           `json:"processed"`
	Succeeded         int           `json:"succeeded"`
	FallbackEvents    int           `json:"fallback_events"`
	FallbackTemplates int           `json:"fallback_templates"`
	VariableWarnings  int           `json:"variable_warnings"`
	MeanDuration      time.Duration `json:"mean_duration"`
	LastFailure       string        `json:"last_failure,omitempty"`
}

type statsRecorder struct {
	mu    sync.Mutex
	stats Stats
	mean  float64
}

func (r *statsRecorder) record(out outcome, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.Processed++
	r.mean += (float64(elapsed) - r.mean) / float64(r.stats.Processed)
	r.stats.MeanDuration = time.Duration(r.mean)
	r.stats.VariableWarnings += out.warnings

	if !out.matched {
		r.stats.FallbackEvents++
		r.stats.LastFailure = out.failure
		return
	}
	r.stats.Succeeded++
	if out.templateFallback {
		r.stats.FallbackTemplates++
	}
}

func (r *statsRecorder) snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *statsRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = Stats{}
	r.mean = 0
}
