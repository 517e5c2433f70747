package composer

import (
	"time"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/agent"
)

// Status is the terminal status of a composer run.
type Status string

const (
	// StatusCompleted means every step reached a terminal result.
	StatusCompleted Status = "completed"

	// StatusAborted means a critical step failed and later steps never ran.
	StatusAborted Status = "aborted"
)

// StepTiming records how long one step took and how it ended.
type StepTiming struct {
	Name    string             `json:"name"`
	Status  agent.ResultStatus `json:"status"`
	Elapsed time.Duration      `json:"elapsed"`
}

// SequentialResult is the outcome of a Sequential.Run call.
// Aborts are a result variant, not an error: the caller inspects Status and
// FailedAt to decide recovery without exception-style control flow.
type SequentialResult struct {
	Status   Status           `json:"status"`
	Context  ExecutionContext `json:"context"`
	Timings  []StepTiming     `json:"timings"`
	FailedAt string           `json:"failed_at,omitempty"`
}

// Aborted reports whether the run stopped at a critical step failure.
func (r *SequentialResult) Aborted() bool {
	return r.Status == StatusAborted
}

// ParallelResult is the outcome of a Parallel.Run call. Individual task
// failures do not fail the composite; they are present in PerTask for the
// caller to interpret.
type ParallelResult struct {
	PerTask            map[string]agent.Result `json:"per_task"`
	Succeeded          int                     `json:"succeeded"`
	Failed             int                     `json:"failed"`
	WallClock          time.Duration           `json:"wall_clock"`
	SequentialEstimate time.Duration           `json:"sequential_estimate"`

	// Speedup is SequentialEstimate / WallClock: how much faster the join
	// completed than running the same tasks back to back would have.
	Speedup float64 `json:"speedup"`
}
