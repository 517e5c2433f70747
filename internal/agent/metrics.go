package agent

import (
	"sync"
	"time"
)

// Metrics aggregates execution counters for one agent.
type Metrics struct {
	Executions int           `json:"executions"`
	TotalTime  time.Duration `json:"total_time"`
	Errors     int           `json:"errors"`
}

// MetricsRegistry collects per-agent execution metrics across a pipeline run.
// Safe for concurrent use; parallel composer tasks record into it from
// multiple goroutines.
type MetricsRegistry struct {
	mu      sync.Mutex
	byAgent map[string]*Metrics
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{byAgent: make(map[string]*Metrics)}
}

// Record adds one execution to the agent's counters.
func (r *MetricsRegistry) Record(agent string, elapsed time.Duration, failed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byAgent[agent]
	if !ok {
		m = &Metrics{}
		r.byAgent[agent] = m
	}

	m.Executions++
	m.TotalTime += elapsed
	if failed {
		m.Errors++
	}
}

// Snapshot returns a copy of all per-agent metrics.
func (r *MetricsRegistry) Snapshot() map[string]Metrics {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]Metrics, len(r.byAgent))
	for name, m := range r.byAgent {
		out[name] = *m
	}
	return out
}
