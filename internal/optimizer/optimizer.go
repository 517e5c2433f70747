// Package optimizer implements the iterative cost-reduction loop: apply
// ranked strategies one at a time, pausing for approval before each, until
// the target budget is met, the strategy set is exhausted, or the iteration
// cap is reached.
package optimizer

import (
	"context"
	"log/slog"
	"time"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/types"
)

// Strategy is one ranked cost-reduction option. Implementations are
// constructed against the current booking composition, so viability closes
// over what was actually booked (removing a rental car is not viable when no
// car was booked).
type Strategy interface {
	// ID returns the stable strategy identifier.
	ID() string

	// Description returns a short human-readable summary for approval prompts.
	Description() string

	// Viable reports whether the strategy can be applied to the current state.
	Viable(s State) bool

	// Estimate computes the cost after applying the strategy, without
	// committing anything.
	Estimate(s State) (newCost, savings float64)
}

// Optimizer runs the cost-reduction loop. Strictly single-threaded within one
// run; the only blocking point is the approval gate.
type Optimizer struct {
	logger *slog.Logger
}

// OptimizerOption configures an Optimizer.
type OptimizerOption func(*Optimizer)

// WithLogger sets the structured logger for iteration logging.
func WithLogger(logger *slog.Logger) OptimizerOption {
	return func(o *Optimizer) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an Optimizer.
func New(opts ...OptimizerOption) *Optimizer {
	o := &Optimizer{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize runs the loop to a terminal phase and returns the final state as
// the authoritative optimization report.
//
// Per iteration: select the highest-ranked viable remaining strategy,
// estimate its effect without committing, and ask the gate. A rejected
// strategy is set aside for the rest of this run and the next-ranked one is
// tried. An approved strategy is committed: cost updated (never upward), a
// record appended, the iteration counter incremented.
//
// Termination: done when the cost reaches the target; exhausted when no
// viable strategy remains above budget; capped when the iteration cap is hit
// while still over budget. A gate error or context cancellation returns the
// state as-is alongside the error.
func (o *Optimizer) Optimize(ctx context.Context, initial State, ranked []Strategy, gate Gate) (State, error) {
	state := initial
	if state.Remaining == nil {
		state.Remaining = make(map[string]bool)
	}

	if state.OnBudget() {
		state.Phase = PhaseDone
		return state, nil
	}

	if gate == nil {
		return state, types.NewError(types.OPTIMIZER_INVALID_STATE, "approval gate is required")
	}

	// Strategies rejected during this run; they stay in Remaining because a
	// later run may propose them again.
	rejected := make(map[string]bool)

	for !state.OnBudget() && state.Iteration < state.MaxIterations {
		if err := ctx.Err(); err != nil {
			return state, types.WrapError(types.OPTIMIZER_GATE_FAILED, "optimization cancelled", err)
		}

		state.Phase = PhaseSelecting
		strategy := o.selectStrategy(state, ranked, rejected)
		if strategy == nil {
			o.logger.InfoContext(ctx, "no viable strategies remain",
				"current_cost", state.CurrentCost,
				"target_budget", state.TargetBudget,
				"applied", len(state.Applied),
			)
			state.Phase = PhaseExhausted
			return state, nil
		}

		newCost, savings := strategy.Estimate(state)
		if newCost > state.CurrentCost {
			// A strategy may never increase cost.
			newCost = state.CurrentCost
			savings = 0
		}

		proposal := Proposal{
			StrategyID:  strategy.ID(),
			Description: strategy.Description(),
			CurrentCost: state.CurrentCost,
			NewCost:     newCost,
			Savings:     savings,
			Iteration:   state.Iteration,
		}

		state.Phase = PhasePendingApproval
		decision, err := gate(ctx, proposal)
		if err != nil {
			return state, types.WrapError(types.OPTIMIZER_GATE_FAILED, "approval gate failed", err)
		}

		if !decision.Approved {
			o.logger.InfoContext(ctx, "strategy rejected",
				"strategy", strategy.ID(),
				"reason", decision.Reason,
			)
			rejected[strategy.ID()] = true
			continue
		}

		state.Phase = PhaseApplying
		state.CurrentCost = newCost
		state.Applied = append(state.Applied, StrategyRecord{
			StrategyID:  strategy.ID(),
			Description: strategy.Description(),
			Savings:     savings,
			ApprovedBy:  decision.ApprovedBy,
			AppliedAt:   time.Now(),
		})
		delete(state.Remaining, strategy.ID())
		state.Iteration++

		o.logger.InfoContext(ctx, "strategy applied",
			"strategy", strategy.ID(),
			"savings", savings,
			"current_cost", state.CurrentCost,
			"iteration", state.Iteration,
		)
	}

	if state.OnBudget() {
		state.Phase = PhaseDone
	} else {
		state.Phase = PhaseCapped
	}

	return state, nil
}

// selectStrategy returns the highest-ranked strategy that is still remaining,
// not rejected in this run, viable, and actually saves something.
func (o *Optimizer) selectStrategy(state State, ranked []Strategy, rejected map[string]bool) Strategy {
	for _, s := range ranked {
		if !state.Remaining[s.ID()] || rejected[s.ID()] {
			continue
		}
		if !s.Viable(state) {
			continue
		}
		if _, savings := s.Estimate(state); savings <= 0 {
			continue
		}
		return s
	}
	return nil
}
