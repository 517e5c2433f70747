package composer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/agent"
)

// Step is one entry in a sequential pipeline. Critical steps abort the run on
// failure; non-critical failures are recorded as warnings and skipped over.
type Step struct {
	Name      string
	Agent     agent.Agent
	Critical  bool
	Overrides map[string]any
}

// settings holds shared composer configuration.
type settings struct {
	logger      *slog.Logger
	tracer      trace.Tracer
	maxParallel int
}

// Option is a functional option shared by the composers.
type Option func(*settings)

// WithLogger sets the structured logger used for run and step logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer enables tracing spans around composer runs and steps.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *settings) {
		s.tracer = tracer
	}
}

// WithMaxParallel bounds concurrent task execution in the parallel composer.
func WithMaxParallel(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxParallel = n
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:      slog.Default(),
		maxParallel: 10,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Sequential runs an ordered list of steps, threading an accumulated context
// from each step into the next. It is strictly single-threaded: the state
// machine is pending -> running(i) -> aborted | completed, with the only
// abort transition being a critical step failure.
type Sequential struct {
	settings
}

// NewSequential creates a sequential composer.
func NewSequential(opts ...Option) *Sequential {
	return &Sequential{settings: newSettings(opts)}
}

// Run executes the steps in order against an accumulating context.
//
// Each step's input is the current context merged with the step's overrides.
// Successful (or partial) step data is merged back under the step's name.
// A failed critical step aborts immediately: the result carries the partial
// context for steps 1..k-1 plus a failure marker for step k, and steps
// k+1..n are never invoked. A failed non-critical step adds a warning and
// execution continues.
func (c *Sequential) Run(ctx context.Context, steps []Step, initial map[string]any) *SequentialResult {
	var span trace.Span
	if c.tracer != nil {
		ctx, span = c.tracer.Start(ctx, "composer.sequential.run",
			trace.WithAttributes(attribute.Int("composer.step_count", len(steps))),
		)
		defer span.End()
	}

	ec := NewExecutionContext(initial)
	result := &SequentialResult{
		Status:  StatusCompleted,
		Context: ec,
		Timings: make([]StepTiming, 0, len(steps)),
	}

	for i, step := range steps {
		select {
		case <-ctx.Done():
			c.logger.WarnContext(ctx, "sequential run cancelled",
				"step", step.Name,
				"reason", ctx.Err(),
			)
			ec.MergeStep(step.Name, map[string]any{
				"failed": true,
				"errors": []string{fmt.Sprintf("cancelled: %v", ctx.Err())},
			})
			result.Status = StatusAborted
			result.FailedAt = step.Name
			return result
		default:
		}

		c.logger.InfoContext(ctx, "sequential step starting",
			"step", step.Name,
			"position", i+1,
			"of", len(steps),
			"critical", step.Critical,
		)

		res := step.Agent.Execute(ctx, ec.BuildInput(step.Overrides))
		result.Timings = append(result.Timings, StepTiming{
			Name:    step.Name,
			Status:  res.Status,
			Elapsed: res.Elapsed,
		})

		if res.Failed() {
			if step.Critical {
				c.logger.ErrorContext(ctx, "critical step failed, aborting run",
					"step", step.Name,
					"errors", res.Errors,
				)
				ec.MergeStep(step.Name, map[string]any{
					"failed": true,
					"errors": res.Errors,
				})
				result.Status = StatusAborted
				result.FailedAt = step.Name
				return result
			}

			warning := fmt.Sprintf("step %s failed: %s", step.Name, strings.Join(res.Errors, "; "))
			c.logger.WarnContext(ctx, "non-critical step failed, continuing",
				"step", step.Name,
				"errors", res.Errors,
			)
			ec.AddWarning(warning)
			continue
		}

		ec.MergeStep(step.Name, res.Data)
		if res.Status == agent.ResultStatusPartial {
			ec.AddWarning(fmt.Sprintf("step %s completed partially: %s", step.Name, strings.Join(res.Errors, "; ")))
		}
	}

	return result
}
