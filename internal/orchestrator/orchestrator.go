// Package orchestrator drives the full planning pipeline: sequential
// research, a parallel estimate fan-out, the budget checkpoint, the optional
// cost-optimization loop with per-strategy approvals, and final assembly.
// Human checkpoints halt the pipeline with a resume token; Resume picks the
// run back up with the human's decision.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/agent"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/budget"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/bus"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/composer"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/llm"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/optimizer"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/trip"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/types"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/worker"
)

// Pipeline defaults.
const (
	DefaultMaxIterations = 5
	DefaultMaxParallel   = 4
)

// FallbackCosts are the assumptions used when an estimate task fails: the
// pipeline degrades to a rough plan instead of aborting over one provider.
type FallbackCosts struct {
	Flights    float64 `json:"flights" yaml:"flights"`
	Hotels     float64 `json:"hotels" yaml:"hotels"`
	Cars       float64 `json:"cars" yaml:"cars"`
	Activities float64 `json:"activities" yaml:"activities"`
}

// DefaultFallbackCosts returns conservative per-trip cost assumptions.
func DefaultFallbackCosts() FallbackCosts {
	return FallbackCosts{
		Flights:    800,
		Hotels:     520,
		Cars:       180,
		Activities: 240,
	}
}

// Config carries the orchestrator's tunable business parameters.
type Config struct {
	Thresholds    budget.Thresholds `json:"thresholds" yaml:"thresholds"`
	MaxIterations int               `json:"max_iterations" yaml:"max_iterations"`
	MaxParallel   int               `json:"max_parallel" yaml:"max_parallel"`
	Fallbacks     FallbackCosts     `json:"fallbacks" yaml:"fallbacks"`
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Thresholds:    budget.DefaultThresholds(),
		MaxIterations: DefaultMaxIterations,
		MaxParallel:   DefaultMaxParallel,
		Fallbacks:     DefaultFallbackCosts(),
	}
}

func (c Config) withDefaults() Config {
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.MaxParallel <= 0 {
		c.MaxParallel = DefaultMaxParallel
	}
	if c.Fallbacks == (FallbackCosts{}) {
		c.Fallbacks = DefaultFallbackCosts()
	}
	return c
}

// Orchestrator owns the worker fleet, the message bus, and the composers,
// and drives queries through the pipeline phases.
type Orchestrator struct {
	cfg       Config
	logger    *slog.Logger
	tracer    trace.Tracer
	completer llm.Completer

	bus      *bus.InMemoryBus
	metrics  *agent.MetricsRegistry
	seq      *composer.Sequential
	par      *composer.Parallel
	optim    *optimizer.Optimizer
	assessor *budget.Assessor

	research  []composer.Step
	estimates []composer.Task
	assembly  []composer.Step

	runs *registry
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger shared by the pipeline components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer enables tracing spans around pipeline runs.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = tracer
	}
}

// WithCompleter supplies the language-model completer used for activity
// narratives. Without one, workers fall back to deterministic summaries.
func WithCompleter(c llm.Completer) Option {
	return func(o *Orchestrator) {
		o.completer = c
	}
}

// New assembles the orchestrator: an in-memory bus with a critical-message
// interceptor, the metrics registry, the worker fleet, and the composers.
func New(cfg Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg.withDefaults(),
		logger: slog.Default(),
		runs:   newRegistry(),
	}
	for _, opt := range opts {
		opt(o)
	}

	o.bus = bus.NewInMemoryBus(bus.WithInterceptor(o.interceptMessage))
	for _, msgType := range []bus.MessageType{
		bus.MessageSecurityAlert,
		bus.MessageWeatherAdvisory,
		bus.MessageBudgetUpdate,
		bus.MessageTravelBlocked,
		bus.MessageCustom,
	} {
		o.bus.RegisterHandler(worker.AgentOrchestrator, msgType, o.handleMessage)
	}
	o.metrics = agent.NewMetricsRegistry()
	o.assessor = budget.NewAssessor(o.cfg.Thresholds)
	o.optim = optimizer.New(optimizer.WithLogger(o.logger))

	composerOpts := []composer.Option{
		composer.WithLogger(o.logger),
		composer.WithMaxParallel(o.cfg.MaxParallel),
	}
	if o.tracer != nil {
		composerOpts = append(composerOpts, composer.WithTracer(o.tracer))
	}
	o.seq = composer.NewSequential(composerOpts...)
	o.par = composer.NewParallel(composerOpts...)

	deps := worker.Deps{Bus: o.bus, Metrics: o.metrics, Logger: o.logger}

	o.research = []composer.Step{
		{Name: worker.AgentWeather, Agent: worker.NewWeather(deps)},
		{Name: worker.AgentAdvisory, Agent: worker.NewAdvisory(deps), Critical: true},
		{Name: worker.AgentVisa, Agent: worker.NewVisa(deps), Critical: true},
		{Name: worker.AgentCurrency, Agent: worker.NewCurrency(deps)},
	}
	o.estimates = []composer.Task{
		{Name: worker.AgentFlights, Agent: worker.NewFlights(deps)},
		{Name: worker.AgentHotels, Agent: worker.NewHotels(deps)},
		{Name: worker.AgentCars, Agent: worker.NewCars(deps)},
		{Name: worker.AgentActivities, Agent: worker.NewActivities(deps, o.completer)},
	}
	o.assembly = []composer.Step{
		{Name: worker.AgentItinerary, Agent: worker.NewItinerary(deps), Critical: true},
		{Name: worker.AgentDocuments, Agent: worker.NewDocuments(deps)},
	}

	return o
}

// Bus exposes the pipeline's message bus, primarily so external collaborators
// can inject advisories.
func (o *Orchestrator) Bus() bus.Bus {
	return o.bus
}

// Metrics returns a point-in-time snapshot of per-agent execution metrics.
func (o *Orchestrator) Metrics() map[string]agent.Metrics {
	return o.metrics.Snapshot()
}

// interceptMessage watches bus traffic for critical-priority messages and
// marks every live run for abort at its next phase boundary. The interceptor
// sees sends to any recipient; the orchestrator's own mailbox is additionally
// dispatched through registered handlers at each boundary.
func (o *Orchestrator) interceptMessage(msg bus.Message) {
	if msg.Priority != bus.PriorityCritical {
		return
	}
	o.logger.Warn("critical message intercepted",
		"from", msg.From,
		"to", msg.To,
		"type", msg.Type,
	)
	o.runs.markAll(msg)
}

// handleMessage is the registered handler for every message type addressed
// to the orchestrator. Critical messages mark live runs for abort; everything
// else is acknowledged and logged.
func (o *Orchestrator) handleMessage(ctx context.Context, msg bus.Message) bus.HandlerResult {
	if msg.Priority == bus.PriorityCritical {
		o.runs.markAll(msg)
	} else {
		o.logger.InfoContext(ctx, "orchestrator message acknowledged",
			"from", msg.From,
			"type", msg.Type,
			"priority", msg.Priority,
		)
	}
	return bus.HandlerResult{MessageID: msg.ID, Handled: true}
}

// checkCritical dispatches the orchestrator's queued messages through the
// registered handlers and reports the critical message recorded against the
// run, if any.
func (o *Orchestrator) checkCritical(ctx context.Context, r *run) *bus.Message {
	o.bus.ProcessMessages(ctx, worker.AgentOrchestrator)
	return r.takeCritical()
}

// Run starts a new pipeline run for the query.
//
// The outcome is completed, halted at a checkpoint, or aborted; an error
// return means the call itself was invalid, never that the pipeline failed.
func (o *Orchestrator) Run(ctx context.Context, query trip.Query) (*Outcome, error) {
	if err := query.Validate(); err != nil {
		return nil, types.WrapError(types.ORCH_INVALID_QUERY, "query rejected", err)
	}

	if o.tracer != nil {
		var span trace.Span
		ctx, span = o.tracer.Start(ctx, "orchestrator.run",
			trace.WithAttributes(attribute.String("trip.destination", query.Destination)),
		)
		defer span.End()
	}

	r := newRun(query)
	o.runs.add(r)

	o.logger.InfoContext(ctx, "pipeline run starting",
		"run_id", r.id,
		"destination", query.Destination,
		"budget", query.Budget,
	)

	return o.runResearch(ctx, r)
}

// Resume continues a halted run with the human's decision. The token is
// single-use: a successful Resume that halts again issues a fresh one.
func (o *Orchestrator) Resume(ctx context.Context, token string, decision Decision) (*Outcome, error) {
	r := o.runs.lookup(token)
	if r == nil {
		return nil, types.NewError(types.ORCH_INVALID_RESUME_TOKEN, "no halted run matches the resume token")
	}

	if msg := o.checkCritical(ctx, r); msg != nil {
		return o.abortOnMessage(ctx, r, *msg), nil
	}

	o.logger.InfoContext(ctx, "pipeline resuming",
		"run_id", r.id,
		"stage", r.stage,
		"choice", decision.Choice,
	)

	switch r.stage {
	case stageSuggestions:
		switch decision.Choice {
		case ChoiceProceed:
			return o.runEstimates(ctx, r)
		case ChoiceCancel:
			return o.cancelRun(ctx, r, decision), nil
		}

	case stageBudget:
		switch decision.Choice {
		case ChoiceProceed:
			return o.runAssembly(ctx, r)
		case ChoiceAdjust:
			o.startOptimizer(r)
			return o.awaitOptimizer(ctx, r)
		case ChoiceCancel:
			return o.cancelRun(ctx, r, decision), nil
		}

	case stageApproval:
		if decision.Choice == ChoiceApprove || decision.Choice == ChoiceReject {
			verdict := optimizer.Decision{
				Approved:   decision.Choice == ChoiceApprove,
				ApprovedBy: optimizer.ApproverHuman,
				ApproverID: decision.ApproverID,
				Reason:     decision.Reason,
				DecidedAt:  time.Now(),
			}
			select {
			case r.decisionCh <- verdict:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return o.awaitOptimizer(ctx, r)
		}
	}

	return nil, types.NewError(types.ORCH_INVALID_DECISION,
		fmt.Sprintf("choice %q is not valid at the %s checkpoint", decision.Choice, r.stage))
}

// runResearch executes the sequential research phase and either halts at the
// suggestions checkpoint or proceeds to estimates.
func (o *Orchestrator) runResearch(ctx context.Context, r *run) (*Outcome, error) {
	res := o.seq.Run(ctx, o.research, r.query.ToInput())
	r.research = res.Context
	r.timings = append(r.timings, res.Timings...)

	if msg := o.checkCritical(ctx, r); msg != nil {
		return o.abortOnMessage(ctx, r, *msg), nil
	}
	if res.Status == composer.StatusAborted {
		return o.abortOnStep(ctx, r, res), nil
	}

	r.highlights = collectHighlights(res.Context, r.query)
	if len(r.highlights) > 0 {
		return o.halt(ctx, r, stageSuggestions, &Checkpoint{
			Kind:       CheckpointSuggestions,
			Highlights: r.highlights,
		}), nil
	}

	return o.runEstimates(ctx, r)
}

// runEstimates fans out the booking estimate tasks, folds the results into a
// booking composition, and applies the budget checkpoint.
func (o *Orchestrator) runEstimates(ctx context.Context, r *run) (*Outcome, error) {
	res := o.par.Run(ctx, o.estimates, r.research.BuildInput(nil))
	r.speedup = res.Speedup

	if msg := o.checkCritical(ctx, r); msg != nil {
		// In-flight estimates have already joined; their results are
		// discarded along with the run.
		return o.abortOnMessage(ctx, r, *msg), nil
	}

	r.forward = r.research.Clone()
	for name, taskRes := range res.PerTask {
		r.timings = append(r.timings, composer.StepTiming{
			Name:    name,
			Status:  taskRes.Status,
			Elapsed: taskRes.Elapsed,
		})
		if taskRes.Failed() {
			r.forward.AddWarning(fmt.Sprintf("estimate %s failed, using fallback assumption", name))
			continue
		}
		r.forward.MergeStep(name, taskRes.Data)
	}

	r.bookings = o.bookingsFrom(res.PerTask, r.query)
	r.assessment = o.assessor.Assess(r.query.Budget, r.bookings.Components())

	o.logger.InfoContext(ctx, "budget assessed",
		"run_id", r.id,
		"scenario", r.assessment.Scenario,
		"estimated_total", r.assessment.EstimatedTotal,
		"user_budget", r.assessment.UserBudget,
	)

	if r.assessment.NeedsUserInput() {
		return o.halt(ctx, r, stageBudget, &Checkpoint{
			Kind:       CheckpointBudget,
			Assessment: &r.assessment,
		}), nil
	}

	return o.runAssembly(ctx, r)
}

// bookingsFrom converts the per-task estimate results into the booking
// composition, substituting fallback assumptions for failed tasks.
func (o *Orchestrator) bookingsFrom(perTask map[string]agent.Result, query trip.Query) trip.Bookings {
	b := trip.Bookings{
		HotelTier:     trip.HotelTierComfort,
		FlightCabin:   trip.CabinPremium,
		ActivityCount: query.Nights + 1,
	}

	if res, ok := perTask[worker.AgentFlights]; ok && !res.Failed() {
		b.FlightCost, _ = res.Data["cost"].(float64)
		if cabin, ok := res.Data["cabin"].(string); ok && cabin != "" {
			b.FlightCabin = trip.Cabin(cabin)
		}
	} else {
		b.FlightCost = o.cfg.Fallbacks.Flights
	}

	if res, ok := perTask[worker.AgentHotels]; ok && !res.Failed() {
		b.HotelCost, _ = res.Data["cost"].(float64)
		if tier, ok := res.Data["tier"].(string); ok && tier != "" {
			b.HotelTier = trip.HotelTier(tier)
		}
	} else {
		b.HotelCost = o.cfg.Fallbacks.Hotels
	}

	if res, ok := perTask[worker.AgentCars]; ok && !res.Failed() {
		b.CarCost, _ = res.Data["cost"].(float64)
		b.HasCar, _ = res.Data["booked"].(bool)
	} else {
		b.CarCost = o.cfg.Fallbacks.Cars
		b.HasCar = o.cfg.Fallbacks.Cars > 0
	}

	if res, ok := perTask[worker.AgentActivities]; ok && !res.Failed() {
		b.ActivitiesCost, _ = res.Data["cost"].(float64)
		if count, ok := res.Data["count"].(int); ok && count > 0 {
			b.ActivityCount = count
		}
	} else {
		b.ActivitiesCost = o.cfg.Fallbacks.Activities
	}

	return b
}

// startOptimizer launches the cost-reduction loop in its own goroutine. The
// approval gate is the async boundary: each proposal crosses to the halted
// checkpoint, and the loop stays blocked until Resume delivers a verdict.
func (o *Orchestrator) startOptimizer(r *run) {
	strategies := trip.CostStrategies(r.bookings)
	initial := optimizer.NewState(r.bookings.Total(), r.query.Budget, o.cfg.MaxIterations, strategies)

	gate := func(ctx context.Context, proposal optimizer.Proposal) (optimizer.Decision, error) {
		select {
		case r.proposalCh <- proposal:
		case <-ctx.Done():
			return optimizer.Decision{}, ctx.Err()
		}
		select {
		case verdict := <-r.decisionCh:
			return verdict, nil
		case <-ctx.Done():
			return optimizer.Decision{}, ctx.Err()
		}
	}

	go func() {
		state, err := o.optim.Optimize(r.lifeCtx, initial, strategies, gate)
		r.doneCh <- optimizerOutcome{state: state, err: err}
	}()
}

// awaitOptimizer blocks until the loop either proposes another strategy (halt
// at the approval checkpoint) or terminates (carry the report into assembly).
func (o *Orchestrator) awaitOptimizer(ctx context.Context, r *run) (*Outcome, error) {
	select {
	case proposal := <-r.proposalCh:
		return o.halt(ctx, r, stageApproval, &Checkpoint{
			Kind:       CheckpointApproval,
			Assessment: &r.assessment,
			Proposal:   &proposal,
		}), nil

	case out := <-r.doneCh:
		if out.err != nil {
			return o.abort(ctx, r, &AbortInfo{
				Agent:          worker.AgentOrchestrator,
				Reason:         fmt.Sprintf("optimization failed: %v", out.err),
				PartialContext: r.forward.BuildInput(nil),
			}), nil
		}
		r.optimization = &out.state
		// Reassess against the optimized total so the final report is
		// internally consistent.
		r.assessment = o.assessor.Assess(r.query.Budget, []float64{out.state.CurrentCost})
		return o.runAssembly(ctx, r)

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// runAssembly executes the final sequential phase and builds the report.
func (o *Orchestrator) runAssembly(ctx context.Context, r *run) (*Outcome, error) {
	if r.forward == nil {
		r.forward = r.research.Clone()
	}

	res := o.seq.Run(ctx, o.assembly, r.forward.BuildInput(nil))
	r.timings = append(r.timings, res.Timings...)

	if msg := o.checkCritical(ctx, r); msg != nil {
		return o.abortOnMessage(ctx, r, *msg), nil
	}
	if res.Status == composer.StatusAborted {
		return o.abortOnStep(ctx, r, res), nil
	}

	itinerary, _ := res.Context.StepData(worker.AgentItinerary)["itinerary"].(trip.Itinerary)
	checklist, _ := res.Context.StepData(worker.AgentDocuments)["checklist"].([]string)

	report := &FinalReport{
		Query:      r.query,
		Itinerary:  itinerary,
		Checklist:  checklist,
		Bookings:   r.bookings,
		Assessment: r.assessment,
		Warnings:   res.Context.Warnings(),
		Speedup:    r.speedup,
		Timings:    r.timings,
	}
	if r.optimization != nil {
		report.Optimization = &OptimizationSummary{
			Phase:        r.optimization.Phase,
			FinalCost:    r.optimization.CurrentCost,
			TotalSavings: r.optimization.TotalSavings(),
			Applied:      r.optimization.Applied,
		}
	}

	o.runs.remove(r)
	o.logger.InfoContext(ctx, "pipeline run completed",
		"run_id", r.id,
		"destination", r.query.Destination,
		"estimated_total", r.assessment.EstimatedTotal,
		"warnings", len(report.Warnings),
	)

	return &Outcome{Status: OutcomeCompleted, Report: report}, nil
}

// halt parks the run at a checkpoint and returns the halted outcome with a
// freshly minted resume token.
func (o *Orchestrator) halt(ctx context.Context, r *run, s stage, cp *Checkpoint) *Outcome {
	cp.ResumeToken = o.runs.park(r, s)

	o.logger.InfoContext(ctx, "pipeline halted at checkpoint",
		"run_id", r.id,
		"checkpoint", cp.Kind,
	)

	return &Outcome{Status: OutcomeHalted, Checkpoint: cp}
}

// abort retires the run and returns the aborted outcome.
func (o *Orchestrator) abort(ctx context.Context, r *run, info *AbortInfo) *Outcome {
	o.runs.remove(r)

	o.logger.WarnContext(ctx, "pipeline run aborted",
		"run_id", r.id,
		"agent", info.Agent,
		"reason", info.Reason,
	)

	return &Outcome{Status: OutcomeAborted, Abort: info}
}

// abortOnMessage aborts the run in response to a critical-priority message,
// carrying the triggering message verbatim.
func (o *Orchestrator) abortOnMessage(ctx context.Context, r *run, msg bus.Message) *Outcome {
	reason := fmt.Sprintf("critical %s message from %s", msg.Type, msg.From)
	if blocked, ok := msg.Payload.(bus.TravelBlockedPayload); ok {
		reason = fmt.Sprintf("travel to %s blocked: %s", blocked.Destination, blocked.Reason)
	}

	var partial map[string]any
	if r.research != nil {
		partial = r.research.BuildInput(nil)
	}

	return o.abort(ctx, r, &AbortInfo{
		Agent:          msg.From,
		Reason:         reason,
		Message:        &msg,
		PartialContext: partial,
	})
}

// abortOnStep aborts the run after a critical step failure, surfacing the
// failing step's error marker and the partial context.
func (o *Orchestrator) abortOnStep(ctx context.Context, r *run, res *composer.SequentialResult) *Outcome {
	reason := fmt.Sprintf("critical step %s failed", res.FailedAt)
	if marker := res.Context.StepData(res.FailedAt); marker != nil {
		if errs, ok := marker["errors"].([]string); ok && len(errs) > 0 {
			reason = fmt.Sprintf("critical step %s failed: %s", res.FailedAt, errs[0])
		}
	}

	return o.abort(ctx, r, &AbortInfo{
		Agent:          res.FailedAt,
		Reason:         reason,
		PartialContext: res.Context.BuildInput(nil),
	})
}

// cancelRun retires a halted run at the user's request.
func (o *Orchestrator) cancelRun(ctx context.Context, r *run, decision Decision) *Outcome {
	reason := "cancelled at checkpoint"
	if decision.Reason != "" {
		reason = fmt.Sprintf("cancelled at checkpoint: %s", decision.Reason)
	}

	return o.abort(ctx, r, &AbortInfo{
		Agent:          worker.AgentOrchestrator,
		Reason:         reason,
		PartialContext: r.research.BuildInput(nil),
	})
}

// collectHighlights distills the research context into the traveler-facing
// notes surfaced at the suggestions checkpoint. An empty list means nothing
// needs attention and the pipeline proceeds without halting.
func collectHighlights(ec composer.ExecutionContext, query trip.Query) []string {
	var highlights []string

	if weather := ec.StepData(worker.AgentWeather); weather != nil {
		if severity, _ := weather["severity"].(string); severity == "severe" {
			forecast, _ := weather["forecast"].(string)
			highlights = append(highlights,
				fmt.Sprintf("Severe weather reported for %s: %s", query.Destination, forecast))
		}
	}

	if advisory := ec.StepData(worker.AgentAdvisory); advisory != nil {
		if level, _ := advisory["level"].(int); level >= 2 {
			note, _ := advisory["note"].(string)
			highlights = append(highlights,
				fmt.Sprintf("Travel advisory level %d for %s: %s", level, query.Destination, note))
		}
	}

	if visa := ec.StepData(worker.AgentVisa); visa != nil {
		if required, _ := visa["required"].(bool); required {
			guidance, _ := visa["guidance"].(string)
			highlights = append(highlights, fmt.Sprintf("Visa required: %s", guidance))
		}
	}

	return highlights
}
