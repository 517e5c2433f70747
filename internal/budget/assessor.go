// Package budget classifies an estimated trip cost against a stated budget.
//
// The assessment is a pure decision on a single ratio axis: no hysteresis, no
// memory of prior assessments. The orchestrator halts the pipeline whenever an
// assessment needs user input and resumes only once a decision arrives.
package budget

// Scenario classifies the relationship between estimated cost and budget.
type Scenario string

const (
	// ScenarioTooLow means the estimate exceeds the budget by more than the
	// overrun threshold: the stated budget cannot cover the trip.
	ScenarioTooLow Scenario = "too_low"

	// ScenarioExcess means the budget exceeds the estimate by more than the
	// surplus threshold: there is substantial headroom to upgrade.
	ScenarioExcess Scenario = "excess"

	// ScenarioReasonable means estimate and budget are in sensible balance.
	ScenarioReasonable Scenario = "reasonable"
)

// Status indicates whether the pipeline may continue past the checkpoint.
type Status string

const (
	StatusProceed        Status = "proceed"
	StatusNeedsUserInput Status = "needs_user_input"
)

// Assessment is the derived, never-persisted outcome of one checkpoint
// evaluation. It is recomputed whenever booking estimates change.
type Assessment struct {
	Scenario       Scenario `json:"scenario"`
	EstimatedTotal float64  `json:"estimated_total"`
	UserBudget     float64  `json:"user_budget"`

	// Delta is EstimatedTotal - UserBudget: positive when over budget.
	Delta float64 `json:"delta"`

	Status Status `json:"status"`
}

// NeedsUserInput reports whether the checkpoint requires a human decision.
func (a Assessment) NeedsUserInput() bool {
	return a.Status == StatusNeedsUserInput
}

// Thresholds are tunable business constants, not algorithmic invariants.
// They came with the product unchanged and carry no stated derivation.
type Thresholds struct {
	// OverrunRatio flags a budget as too low when
	// estimatedTotal > userBudget * OverrunRatio.
	OverrunRatio float64 `yaml:"overrun_ratio"`

	// SurplusRatio flags a budget as excessive when
	// userBudget > estimatedTotal * SurplusRatio.
	SurplusRatio float64 `yaml:"surplus_ratio"`
}

// Default threshold ratios.
const (
	DefaultOverrunRatio = 1.5
	DefaultSurplusRatio = 2.0
)

// DefaultThresholds returns the standard threshold configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OverrunRatio: DefaultOverrunRatio,
		SurplusRatio: DefaultSurplusRatio,
	}
}

// Assessor evaluates cost estimates against a user budget.
type Assessor struct {
	thresholds Thresholds
}

// NewAssessor creates an assessor with the given thresholds. Zero-valued
// thresholds fall back to the defaults.
func NewAssessor(thresholds Thresholds) *Assessor {
	if thresholds.OverrunRatio <= 0 {
		thresholds.OverrunRatio = DefaultOverrunRatio
	}
	if thresholds.SurplusRatio <= 0 {
		thresholds.SurplusRatio = DefaultSurplusRatio
	}
	return &Assessor{thresholds: thresholds}
}

// Assess sums the cost components and classifies the total against the
// budget. Deterministic and idempotent: identical inputs always produce an
// identical assessment. An estimate exactly equal to the budget is
// reasonable.
func (a *Assessor) Assess(userBudget float64, costComponents []float64) Assessment {
	var total float64
	for _, c := range costComponents {
		total += c
	}

	assessment := Assessment{
		EstimatedTotal: total,
		UserBudget:     userBudget,
		Delta:          total - userBudget,
	}

	switch {
	case total > userBudget*a.thresholds.OverrunRatio:
		assessment.Scenario = ScenarioTooLow
		assessment.Status = StatusNeedsUserInput
	case userBudget > total*a.thresholds.SurplusRatio:
		assessment.Scenario = ScenarioExcess
		assessment.Status = StatusNeedsUserInput
	default:
		assessment.Scenario = ScenarioReasonable
		assessment.Status = StatusProceed
	}

	return assessment
}
