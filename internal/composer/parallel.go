package composer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/agent"
)

// Task is one entry in a parallel fan-out. Tasks must be independent: they
// all receive the same shared input and no context is threaded between them.
// Names should be unique within one run; tasks that share a name are keyed
// "name#2", "name#3", ... in the composite so no result is lost.
type Task struct {
	Name  string
	Agent agent.Agent
}

// Parallel runs independent tasks concurrently with a single join barrier.
// There is no short-circuit: the join waits for every task regardless of
// individual failures, and exactly one Result per submitted task appears in
// the composite. Concurrency is bounded by a semaphore.
type Parallel struct {
	settings
}

// NewParallel creates a parallel composer.
func NewParallel(opts ...Option) *Parallel {
	return &Parallel{settings: newSettings(opts)}
}

// Run launches all tasks against the same shared input and joins them.
//
// The composite carries per-task results, a succeeded/failed tally, and the
// speedup metric: the sum of per-task elapsed times divided by the observed
// wall-clock time of the join. A task that panics is recorded as a failure
// result rather than being dropped, so the join barrier never loses a task.
func (c *Parallel) Run(ctx context.Context, tasks []Task, sharedInput map[string]any) *ParallelResult {
	var span trace.Span
	if c.tracer != nil {
		ctx, span = c.tracer.Start(ctx, "composer.parallel.run",
			trace.WithAttributes(attribute.Int("composer.task_count", len(tasks))),
		)
		defer span.End()
	}

	c.logger.InfoContext(ctx, "parallel fan-out starting",
		"tasks", len(tasks),
		"max_parallel", c.maxParallel,
	)

	start := time.Now()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		perTask = make(map[string]agent.Result, len(tasks))
	)

	sem := make(chan struct{}, c.maxParallel)

	// Result keys are task names, disambiguated up front so two tasks that
	// share a name cannot collapse into one composite entry.
	keys := make([]string, len(tasks))
	seen := make(map[string]int, len(tasks))
	for i, t := range tasks {
		key := t.Name
		if n := seen[t.Name]; n > 0 {
			key = fmt.Sprintf("%s#%d", t.Name, n+1)
		}
		seen[t.Name]++
		keys[i] = key
	}

	for i, task := range tasks {
		wg.Add(1)
		sem <- struct{}{}

		go func(t Task, key string) {
			defer wg.Done()
			defer func() { <-sem }()

			res := c.runTask(ctx, t, sharedInput)

			mu.Lock()
			perTask[key] = res
			mu.Unlock()
		}(task, keys[i])
	}

	wg.Wait()

	result := &ParallelResult{
		PerTask:   perTask,
		WallClock: time.Since(start),
	}

	for _, res := range perTask {
		result.SequentialEstimate += res.Elapsed
		if res.Failed() {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}

	if result.WallClock > 0 {
		result.Speedup = float64(result.SequentialEstimate) / float64(result.WallClock)
	}

	c.logger.InfoContext(ctx, "parallel join complete",
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"wall_clock", result.WallClock,
		"speedup", fmt.Sprintf("%.2f", result.Speedup),
	)

	return result
}

// runTask executes one task, converting a panicking agent into a failure
// result so the join still receives an entry for it.
func (c *Parallel) runTask(ctx context.Context, t Task, sharedInput map[string]any) (res agent.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = agent.NewResult()
			res.Fail(fmt.Sprintf("task %s panicked: %v", t.Name, r))
		}
	}()

	return t.Agent.Execute(ctx, sharedInput)
}
