package orchestrator

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/budget"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/bus"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/optimizer"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/trip"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/types"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/worker"
)

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(DefaultConfig(), WithLogger(logger))
}

func testQuery(destination string, budgetAmount float64) trip.Query {
	return trip.Query{
		Destination: destination,
		Origin:      "Berlin",
		StartDate:   time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		Nights:      4,
		Travelers:   2,
		Budget:      budgetAmount,
		Currency:    "EUR",
	}
}

// Kyoto from Berlin, 4 nights, 2 travelers:
// flights 650*1.45*2 = 1885, hotels 140*4 = 560, cars 55*4 = 220,
// activities 40*4*2 = 320, total 2985.
const kyotoTotal = 2985.0

func TestRunCompletesWithReasonableBudget(t *testing.T) {
	o := newTestOrchestrator(t)

	outcome, err := o.Run(context.Background(), testQuery("Kyoto", 4000))
	require.NoError(t, err)
	require.Equal(t, OutcomeCompleted, outcome.Status)
	require.NotNil(t, outcome.Report)

	report := outcome.Report
	assert.InDelta(t, kyotoTotal, report.Bookings.Total(), 0.01)
	assert.Equal(t, budget.ScenarioReasonable, report.Assessment.Scenario)
	assert.Equal(t, budget.StatusProceed, report.Assessment.Status)
	assert.Nil(t, report.Optimization)

	// 4 nights means arrival day plus 4 more.
	assert.Equal(t, "Kyoto", report.Itinerary.Destination)
	assert.Len(t, report.Itinerary.Days, 5)
	assert.Contains(t, report.Checklist, "Passport")

	// Research, estimates, and assembly all contribute timings.
	assert.Len(t, report.Timings, 10)
	assert.Greater(t, report.Speedup, 0.0)
}

func TestRunRecordsMetricsPerAgent(t *testing.T) {
	o := newTestOrchestrator(t)

	_, err := o.Run(context.Background(), testQuery("Kyoto", 4000))
	require.NoError(t, err)

	metrics := o.Metrics()
	for _, name := range []string{
		worker.AgentWeather, worker.AgentAdvisory, worker.AgentVisa,
		worker.AgentFlights, worker.AgentHotels, worker.AgentItinerary,
	} {
		m, ok := metrics[name]
		require.True(t, ok, "missing metrics for %s", name)
		assert.Equal(t, 1, m.Executions)
		assert.Zero(t, m.Errors)
	}
}

func TestRunRejectsInvalidQuery(t *testing.T) {
	o := newTestOrchestrator(t)

	query := testQuery("Kyoto", 4000)
	query.Destination = ""

	outcome, err := o.Run(context.Background(), query)
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, types.ORCH_INVALID_QUERY, types.CodeOf(err))
}

func TestRunHaltsAtSuggestionsCheckpoint(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()

	// Reykjavik reports severe weather and an elevated advisory level.
	outcome, err := o.Run(ctx, testQuery("Reykjavik", 3200))
	require.NoError(t, err)
	require.Equal(t, OutcomeHalted, outcome.Status)
	require.NotNil(t, outcome.Checkpoint)

	cp := outcome.Checkpoint
	assert.Equal(t, CheckpointSuggestions, cp.Kind)
	assert.NotEmpty(t, cp.ResumeToken)
	require.Len(t, cp.Highlights, 2)
	assert.Contains(t, cp.Highlights[0], "Severe weather")
	assert.Contains(t, cp.Highlights[1], "advisory level 2")
	assert.Equal(t, []Choice{ChoiceProceed, ChoiceCancel}, cp.Choices())

	resumed, err := o.Resume(ctx, cp.ResumeToken, Decision{Choice: ChoiceProceed})
	require.NoError(t, err)
	require.Equal(t, OutcomeCompleted, resumed.Status)

	// The severe-weather advisory sent over the bus during research lands
	// in the final checklist.
	assert.Contains(t, resumed.Report.Checklist, "Weather gear (severe conditions reported)")
}

func TestRunAbortsOnTravelBlockedMessage(t *testing.T) {
	o := newTestOrchestrator(t)

	// Sanaa carries a do-not-travel advisory; the advisory worker emits a
	// critical message to the orchestrator.
	outcome, err := o.Run(context.Background(), testQuery("Sanaa", 3000))
	require.NoError(t, err)
	require.Equal(t, OutcomeAborted, outcome.Status)
	require.NotNil(t, outcome.Abort)

	abort := outcome.Abort
	assert.Equal(t, worker.AgentAdvisory, abort.Agent)
	assert.Contains(t, abort.Reason, "do not travel")
	require.NotNil(t, abort.Message)
	assert.Equal(t, bus.MessageTravelBlocked, abort.Message.Type)
	assert.Equal(t, bus.PriorityCritical, abort.Message.Priority)
	assert.NotEmpty(t, abort.PartialContext)
}

func TestResumeDispatchesQueuedCriticalMessage(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()

	outcome, err := o.Run(ctx, testQuery("Kyoto", 1800))
	require.NoError(t, err)
	require.Equal(t, OutcomeHalted, outcome.Status)

	// A critical alert lands in the orchestrator's mailbox while the run is
	// parked at the budget checkpoint.
	alert := bus.NewMessage(worker.AgentAdvisory, worker.AgentOrchestrator, bus.SecurityAlertPayload{
		Destination: "Kyoto",
		Severity:    "critical",
		Details:     "airport closed until further notice",
	}).WithPriority(bus.PriorityCritical)
	require.NoError(t, o.Bus().Send(alert))

	resumed, err := o.Resume(ctx, outcome.Checkpoint.ResumeToken, Decision{Choice: ChoiceProceed})
	require.NoError(t, err)
	require.Equal(t, OutcomeAborted, resumed.Status)
	assert.Equal(t, worker.AgentAdvisory, resumed.Abort.Agent)
	require.NotNil(t, resumed.Abort.Message)
	assert.Equal(t, bus.MessageSecurityAlert, resumed.Abort.Message.Type)

	// The mailbox was drained through the registered handler, not just
	// observed in flight.
	assert.Empty(t, o.Bus().Receive(worker.AgentOrchestrator, bus.Filter{}))
}

func TestResumeRejectsUnknownToken(t *testing.T) {
	o := newTestOrchestrator(t)

	outcome, err := o.Resume(context.Background(), "not-a-token", Decision{Choice: ChoiceProceed})
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, types.ORCH_INVALID_RESUME_TOKEN, types.CodeOf(err))
}

func TestResumeRejectsInvalidChoiceAndKeepsRunHalted(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()

	outcome, err := o.Run(ctx, testQuery("Reykjavik", 3200))
	require.NoError(t, err)
	require.Equal(t, OutcomeHalted, outcome.Status)
	token := outcome.Checkpoint.ResumeToken

	// Adjust is a budget-checkpoint choice, not a suggestions one.
	_, err = o.Resume(ctx, token, Decision{Choice: ChoiceAdjust})
	require.Error(t, err)
	assert.Equal(t, types.ORCH_INVALID_DECISION, types.CodeOf(err))

	// The token survives the invalid attempt.
	resumed, err := o.Resume(ctx, token, Decision{Choice: ChoiceProceed})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, resumed.Status)
}

func TestSuggestionsCheckpointCancelAbortsRun(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()

	outcome, err := o.Run(ctx, testQuery("Reykjavik", 3200))
	require.NoError(t, err)
	require.Equal(t, OutcomeHalted, outcome.Status)
	token := outcome.Checkpoint.ResumeToken

	cancelled, err := o.Resume(ctx, token, Decision{Choice: ChoiceCancel, Reason: "weather looks rough"})
	require.NoError(t, err)
	require.Equal(t, OutcomeAborted, cancelled.Status)
	assert.Contains(t, cancelled.Abort.Reason, "weather looks rough")

	// The token was consumed by the cancellation.
	_, err = o.Resume(ctx, token, Decision{Choice: ChoiceProceed})
	require.Error(t, err)
	assert.Equal(t, types.ORCH_INVALID_RESUME_TOKEN, types.CodeOf(err))
}

func TestBudgetCheckpointTooLow(t *testing.T) {
	o := newTestOrchestrator(t)

	// 2985 estimated against 1800: over the 1.5x overrun threshold.
	outcome, err := o.Run(context.Background(), testQuery("Kyoto", 1800))
	require.NoError(t, err)
	require.Equal(t, OutcomeHalted, outcome.Status)

	cp := outcome.Checkpoint
	assert.Equal(t, CheckpointBudget, cp.Kind)
	require.NotNil(t, cp.Assessment)
	assert.Equal(t, budget.ScenarioTooLow, cp.Assessment.Scenario)
	assert.InDelta(t, kyotoTotal, cp.Assessment.EstimatedTotal, 0.01)
	assert.InDelta(t, kyotoTotal-1800, cp.Assessment.Delta, 0.01)
	assert.Equal(t, []Choice{ChoiceProceed, ChoiceAdjust, ChoiceCancel}, cp.Choices())
}

func TestBudgetCheckpointExcessProceeds(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()

	// 10000 against 2985 estimated: over the 2x surplus threshold.
	outcome, err := o.Run(ctx, testQuery("Kyoto", 10000))
	require.NoError(t, err)
	require.Equal(t, OutcomeHalted, outcome.Status)
	require.Equal(t, budget.ScenarioExcess, outcome.Checkpoint.Assessment.Scenario)

	resumed, err := o.Resume(ctx, outcome.Checkpoint.ResumeToken, Decision{Choice: ChoiceProceed})
	require.NoError(t, err)
	require.Equal(t, OutcomeCompleted, resumed.Status)
	assert.Nil(t, resumed.Report.Optimization)
}

// approveUntilDone drives the optimizer approval loop to completion,
// collecting the proposed strategy IDs along the way.
func approveUntilDone(t *testing.T, o *Orchestrator, outcome *Outcome) (*Outcome, []string) {
	t.Helper()
	ctx := context.Background()

	var proposed []string
	for outcome.Status == OutcomeHalted && outcome.Checkpoint.Kind == CheckpointApproval {
		proposed = append(proposed, outcome.Checkpoint.Proposal.StrategyID)

		var err error
		outcome, err = o.Resume(ctx, outcome.Checkpoint.ResumeToken, Decision{
			Choice:     ChoiceApprove,
			ApproverID: "traveler-1",
		})
		require.NoError(t, err)
	}
	return outcome, proposed
}

func TestAdjustRunsOptimizerToBudget(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()

	outcome, err := o.Run(ctx, testQuery("Kyoto", 1800))
	require.NoError(t, err)
	require.Equal(t, OutcomeHalted, outcome.Status)

	outcome, err = o.Resume(ctx, outcome.Checkpoint.ResumeToken, Decision{Choice: ChoiceAdjust})
	require.NoError(t, err)
	require.Equal(t, OutcomeHalted, outcome.Status)
	require.Equal(t, CheckpointApproval, outcome.Checkpoint.Kind)

	// The first proposal is the least disruptive ranked strategy.
	first := outcome.Checkpoint.Proposal
	assert.Equal(t, trip.StrategyDropCar, first.StrategyID)
	assert.InDelta(t, 220.0, first.Savings, 0.01)
	assert.InDelta(t, kyotoTotal, first.CurrentCost, 0.01)

	final, proposed := approveUntilDone(t, o, outcome)
	require.Equal(t, OutcomeCompleted, final.Status)

	// All five strategies in rank order: 2985 - 220 - 168 - 366.75 - 128
	// - 471.25 = 1631, under the 1800 target on the last iteration.
	assert.Equal(t, []string{
		trip.StrategyDropCar,
		trip.StrategyDowngradeHotel,
		trip.StrategyShiftDates,
		trip.StrategyTrimActivities,
		trip.StrategyEconomyFlights,
	}, proposed)

	opt := final.Report.Optimization
	require.NotNil(t, opt)
	assert.Equal(t, optimizer.PhaseDone, opt.Phase)
	assert.InDelta(t, 1631.0, opt.FinalCost, 0.01)
	assert.InDelta(t, 1354.0, opt.TotalSavings, 0.01)
	require.Len(t, opt.Applied, 5)
	assert.Equal(t, optimizer.ApproverHuman, opt.Applied[0].ApprovedBy)

	// The report's assessment reflects the optimized total.
	assert.InDelta(t, 1631.0, final.Report.Assessment.EstimatedTotal, 0.01)
	assert.Equal(t, budget.ScenarioReasonable, final.Report.Assessment.Scenario)
}

func TestAdjustRejectionSkipsStrategyForRun(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()

	outcome, err := o.Run(ctx, testQuery("Kyoto", 1800))
	require.NoError(t, err)
	outcome, err = o.Resume(ctx, outcome.Checkpoint.ResumeToken, Decision{Choice: ChoiceAdjust})
	require.NoError(t, err)
	require.Equal(t, trip.StrategyDropCar, outcome.Checkpoint.Proposal.StrategyID)

	// Reject the car drop; the optimizer moves to the next ranked strategy
	// without consuming an iteration.
	outcome, err = o.Resume(ctx, outcome.Checkpoint.ResumeToken, Decision{
		Choice: ChoiceReject,
		Reason: "need the car for day trips",
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeHalted, outcome.Status)
	next := outcome.Checkpoint.Proposal
	assert.Equal(t, trip.StrategyDowngradeHotel, next.StrategyID)
	assert.Equal(t, 0, next.Iteration)

	final, proposed := approveUntilDone(t, o, outcome)
	require.Equal(t, OutcomeCompleted, final.Status)
	assert.Equal(t, []string{
		trip.StrategyDowngradeHotel,
		trip.StrategyShiftDates,
		trip.StrategyTrimActivities,
		trip.StrategyEconomyFlights,
	}, proposed)

	// Without the car savings the run exhausts its strategies above budget:
	// 2985 - 168 - 366.75 - 128 - 471.25 = 1851.
	opt := final.Report.Optimization
	require.NotNil(t, opt)
	assert.Equal(t, optimizer.PhaseExhausted, opt.Phase)
	assert.InDelta(t, 1851.0, opt.FinalCost, 0.01)
	require.Len(t, opt.Applied, 4)
}

func TestResumeTokenRotatesAcrossCheckpoints(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()

	outcome, err := o.Run(ctx, testQuery("Kyoto", 1800))
	require.NoError(t, err)
	budgetToken := outcome.Checkpoint.ResumeToken

	outcome, err = o.Resume(ctx, budgetToken, Decision{Choice: ChoiceAdjust})
	require.NoError(t, err)
	require.Equal(t, OutcomeHalted, outcome.Status)
	assert.NotEqual(t, budgetToken, outcome.Checkpoint.ResumeToken)

	// The budget-checkpoint token no longer resolves.
	_, err = o.Resume(ctx, budgetToken, Decision{Choice: ChoiceProceed})
	require.Error(t, err)
	assert.Equal(t, types.ORCH_INVALID_RESUME_TOKEN, types.CodeOf(err))
}

func TestBudgetCheckpointCancelAbortsRun(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()

	outcome, err := o.Run(ctx, testQuery("Kyoto", 1800))
	require.NoError(t, err)
	require.Equal(t, OutcomeHalted, outcome.Status)

	cancelled, err := o.Resume(ctx, outcome.Checkpoint.ResumeToken, Decision{Choice: ChoiceCancel})
	require.NoError(t, err)
	require.Equal(t, OutcomeAborted, cancelled.Status)
	assert.Contains(t, cancelled.Abort.Reason, "cancelled")
}
