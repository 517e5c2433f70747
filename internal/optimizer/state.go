package optimizer

import (
	"time"
)

// Phase tracks where the optimizer is in its state machine.
type Phase string

const (
	PhaseReady           Phase = "ready"
	PhaseSelecting       Phase = "selecting"
	PhasePendingApproval Phase = "pending_approval"
	PhaseApplying        Phase = "applying"

	// Terminal phases.
	PhaseDone      Phase = "done"      // cost reached the target budget
	PhaseExhausted Phase = "exhausted" // no viable strategies remain above budget
	PhaseCapped    Phase = "capped"    // iteration cap hit while still over budget
)

// Terminal reports whether the phase ends the optimization loop.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseExhausted || p == PhaseCapped
}

// ApproverKind distinguishes automatic policy approvals from human ones.
type ApproverKind string

const (
	ApproverAuto  ApproverKind = "auto"
	ApproverHuman ApproverKind = "human"
)

// StrategyRecord is the audit entry for one applied cost-reduction strategy.
// The ordered record list supports audit and undo.
type StrategyRecord struct {
	StrategyID  string       `json:"strategy_id"`
	Description string       `json:"description"`
	Savings     float64      `json:"savings"`
	ApprovedBy  ApproverKind `json:"approved_by"`
	AppliedAt   time.Time    `json:"applied_at"`
}

// State is the authoritative report of an optimization run. It is created at
// optimizer start, mutated once per accepted iteration, and returned when the
// loop terminates.
//
// Invariants: Iteration never exceeds MaxIterations; CurrentCost is
// monotonically non-increasing across applied strategies; a strategy present
// in Applied has been removed from Remaining.
type State struct {
	CurrentCost   float64          `json:"current_cost"`
	TargetBudget  float64          `json:"target_budget"`
	Iteration     int              `json:"iteration"`
	MaxIterations int              `json:"max_iterations"`
	Applied       []StrategyRecord `json:"applied"`
	Remaining     map[string]bool  `json:"remaining"`
	Phase         Phase            `json:"phase"`
}

// NewState creates the initial optimization state with every ranked strategy
// still available.
func NewState(currentCost, targetBudget float64, maxIterations int, strategies []Strategy) State {
	remaining := make(map[string]bool, len(strategies))
	for _, s := range strategies {
		remaining[s.ID()] = true
	}

	return State{
		CurrentCost:   currentCost,
		TargetBudget:  targetBudget,
		MaxIterations: maxIterations,
		Remaining:     remaining,
		Phase:         PhaseReady,
	}
}

// OnBudget reports whether the current cost estimate meets the target.
func (s State) OnBudget() bool {
	return s.CurrentCost <= s.TargetBudget
}

// TotalSavings sums the savings of every applied strategy.
func (s State) TotalSavings() float64 {
	var total float64
	for _, r := range s.Applied {
		total += r.Savings
	}
	return total
}
