package orchestrator

import (
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/budget"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/bus"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/composer"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/optimizer"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/trip"
)

// OutcomeStatus classifies how a Run or Resume call ended.
type OutcomeStatus string

const (
	// OutcomeCompleted means the pipeline ran to the final report.
	OutcomeCompleted OutcomeStatus = "completed"

	// OutcomeHalted means the pipeline paused at a human checkpoint and can
	// be resumed with the checkpoint's token.
	OutcomeHalted OutcomeStatus = "halted"

	// OutcomeAborted means the run stopped for good: a critical step failed,
	// a critical-priority message arrived, or the user cancelled.
	OutcomeAborted OutcomeStatus = "aborted"
)

// Outcome is the single return shape of the orchestrator entry points.
// Exactly one of Report, Checkpoint, or Abort is set, matching Status.
// Aborts and halts are result variants, not errors: an error return from
// Run or Resume indicates misuse (invalid query, unknown token), never a
// pipeline-level failure.
type Outcome struct {
	Status     OutcomeStatus `json:"status"`
	Report     *FinalReport  `json:"report,omitempty"`
	Checkpoint *Checkpoint   `json:"checkpoint,omitempty"`
	Abort      *AbortInfo    `json:"abort,omitempty"`
}

// CheckpointKind identifies which human checkpoint halted the pipeline.
type CheckpointKind string

const (
	// CheckpointSuggestions surfaces research highlights before any booking
	// estimates are requested.
	CheckpointSuggestions CheckpointKind = "suggestions"

	// CheckpointBudget surfaces a budget assessment that needs a decision.
	CheckpointBudget CheckpointKind = "budget"

	// CheckpointApproval surfaces one cost-reduction proposal awaiting
	// approval inside the optimizer loop.
	CheckpointApproval CheckpointKind = "approval"
)

// Checkpoint is the payload of a halted outcome: what the human needs to see,
// plus the opaque token that resumes the run.
type Checkpoint struct {
	Kind        CheckpointKind      `json:"kind"`
	ResumeToken string              `json:"resume_token"`
	Assessment  *budget.Assessment  `json:"assessment,omitempty"`
	Highlights  []string            `json:"highlights,omitempty"`
	Proposal    *optimizer.Proposal `json:"proposal,omitempty"`
}

// Choices returns the resuming decisions valid for this checkpoint.
func (c *Checkpoint) Choices() []Choice {
	switch c.Kind {
	case CheckpointSuggestions:
		return []Choice{ChoiceProceed, ChoiceCancel}
	case CheckpointBudget:
		return []Choice{ChoiceProceed, ChoiceAdjust, ChoiceCancel}
	case CheckpointApproval:
		return []Choice{ChoiceApprove, ChoiceReject}
	default:
		return nil
	}
}

// AbortInfo explains an aborted run: the originating agent, a human-readable
// reason, the triggering message verbatim when one exists, and whatever
// partial context had been gathered.
type AbortInfo struct {
	Agent          string         `json:"agent"`
	Reason         string         `json:"reason"`
	Message        *bus.Message   `json:"message,omitempty"`
	PartialContext map[string]any `json:"partial_context,omitempty"`
}

// Choice is a resuming decision for a halted checkpoint.
type Choice string

const (
	ChoiceProceed Choice = "proceed" // continue past the checkpoint as-is
	ChoiceAdjust  Choice = "adjust"  // enter the cost optimizer (budget checkpoint only)
	ChoiceCancel  Choice = "cancel"  // abandon the run
	ChoiceApprove Choice = "approve" // approve the pending strategy proposal
	ChoiceReject  Choice = "reject"  // reject the pending strategy proposal
)

// Decision is the human input that resumes a halted run.
type Decision struct {
	Choice     Choice `json:"choice"`
	ApproverID string `json:"approver_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// OptimizationSummary condenses the optimizer report for the final output.
type OptimizationSummary struct {
	Phase        optimizer.Phase            `json:"phase"`
	FinalCost    float64                    `json:"final_cost"`
	TotalSavings float64                    `json:"total_savings"`
	Applied      []optimizer.StrategyRecord `json:"applied"`
}

// FinalReport is the completed plan returned when every phase finishes.
type FinalReport struct {
	Query        trip.Query            `json:"query"`
	Itinerary    trip.Itinerary        `json:"itinerary"`
	Checklist    []string              `json:"checklist"`
	Bookings     trip.Bookings         `json:"bookings"`
	Assessment   budget.Assessment     `json:"assessment"`
	Optimization *OptimizationSummary  `json:"optimization,omitempty"`
	Warnings     []string              `json:"warnings,omitempty"`
	Speedup      float64               `json:"speedup"`
	Timings      []composer.StepTiming `json:"timings,omitempty"`
}
