package worker

import (
	"fmt"
	"log/slog"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/agent"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/bus"
)

// Deps carries the shared collaborators injected into every worker.
type Deps struct {
	Bus     bus.Bus
	Metrics *agent.MetricsRegistry
	Logger  *slog.Logger
}

// options expands the deps into worker options, with any extras appended.
func (d Deps) options(extra ...agent.WorkerOption) []agent.WorkerOption {
	opts := []agent.WorkerOption{
		agent.WithBus(d.Bus),
		agent.WithMetrics(d.Metrics),
	}
	if d.Logger != nil {
		opts = append(opts, agent.WithLogger(d.Logger))
	}
	return append(opts, extra...)
}

// stringInput reads a string value from a worker input map.
func stringInput(input map[string]any, key string) string {
	s, _ := input[key].(string)
	return s
}

// intInput reads an integer value, tolerating float64 from JSON decoding.
func intInput(input map[string]any, key string) int {
	switch v := input[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// requireDestination extracts the destination or errors.
func requireDestination(input map[string]any) (string, error) {
	dest := stringInput(input, "destination")
	if dest == "" {
		return "", fmt.Errorf("input missing destination")
	}
	return dest, nil
}
