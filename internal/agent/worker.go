package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/bus"
)

// Agent is the uniform execution contract every worker implements.
// Implementations must catch their own internal errors and return them as a
// failure Result rather than panicking or hanging: a composer join barrier
// relies on every agent returning.
type Agent interface {
	// Name returns the unique agent name used for metrics and bus routing.
	Name() string

	// Execute runs the agent against a structured input map and returns a
	// structured Result. Execute must honor ctx cancellation by returning a
	// failure Result promptly.
	Execute(ctx context.Context, input map[string]any) Result
}

// ExecuteFunc is the domain body of a worker: structured input in, structured
// data out. Returning data alongside an error yields a partial result;
// returning only an error yields a failure.
type ExecuteFunc func(ctx context.Context, input map[string]any) (map[string]any, error)

// AfterHook runs after every execution, success or failure. Workers use it to
// emit bus notifications when a result implies another agent should be
// informed (for example severe weather findings notify the document step).
// The bus argument is nil when the worker was built without one.
type AfterHook func(ctx context.Context, b bus.Bus, input map[string]any, res *Result)

// Worker wraps an ExecuteFunc with the uniform lifecycle: timing capture,
// panic recovery, metrics recording, and the always-invoked after hook.
type Worker struct {
	name    string
	fn      ExecuteFunc
	logger  *slog.Logger
	bus     bus.Bus
	metrics *MetricsRegistry
	after   AfterHook
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithLogger sets the structured logger for lifecycle logging.
func WithLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithBus attaches a message bus the worker can emit to from its after hook.
func WithBus(b bus.Bus) WorkerOption {
	return func(w *Worker) {
		w.bus = b
	}
}

// WithMetrics attaches a registry that records per-agent execution metrics.
func WithMetrics(m *MetricsRegistry) WorkerOption {
	return func(w *Worker) {
		w.metrics = m
	}
}

// WithAfterHook sets a hook invoked after every execution, even on failure.
func WithAfterHook(hook AfterHook) WorkerOption {
	return func(w *Worker) {
		w.after = hook
	}
}

// New creates a Worker with the given name and execution body.
func New(name string, fn ExecuteFunc, opts ...WorkerOption) *Worker {
	w := &Worker{
		name:   name,
		fn:     fn,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Name returns the worker's agent name.
func (w *Worker) Name() string {
	return w.name
}

// Bus returns the attached message bus, or nil.
func (w *Worker) Bus() bus.Bus {
	return w.bus
}

// Execute runs the lifecycle around the worker body:
//
//	beforeExecute -> body (panic-safe) -> afterExecute
//
// beforeExecute and afterExecute always run, including when the body panics
// or the context is already cancelled, so timing and metrics capture never
// has gaps.
func (w *Worker) Execute(ctx context.Context, input map[string]any) (res Result) {
	res = NewResult()
	w.beforeExecute(ctx, input)

	defer func() {
		if r := recover(); r != nil {
			res.Fail(fmt.Sprintf("agent %s panicked: %v", w.name, r))
		}
		w.afterExecute(ctx, input, &res)
	}()

	if err := ctx.Err(); err != nil {
		res.Fail(fmt.Sprintf("context done before execution: %v", err))
		return res
	}

	data, err := w.fn(ctx, input)
	switch {
	case err == nil:
		res.Complete(data)
	case len(data) > 0:
		res.CompletePartial(data, err.Error())
	default:
		res.Fail(err.Error())
	}

	return res
}

func (w *Worker) beforeExecute(ctx context.Context, input map[string]any) {
	w.logger.DebugContext(ctx, "agent execution starting",
		"agent", w.name,
		"input_keys", len(input),
	)
}

func (w *Worker) afterExecute(ctx context.Context, input map[string]any, res *Result) {
	if res.CompletedAt.IsZero() {
		// Body returned without finishing the result; treat as failure.
		res.Fail(fmt.Sprintf("agent %s returned an unfinished result", w.name))
	}

	if w.metrics != nil {
		w.metrics.Record(w.name, res.Elapsed, res.Failed())
	}

	w.logger.DebugContext(ctx, "agent execution finished",
		"agent", w.name,
		"status", res.Status,
		"elapsed", res.Elapsed,
	)

	if w.after != nil {
		w.after(ctx, w.bus, input, res)
	}
}

// Ensure Worker implements Agent at compile time.
var _ Agent = (*Worker)(nil)
