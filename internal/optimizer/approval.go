package optimizer

import (
	"context"
	"time"
)

// Proposal describes one cost-reduction strategy awaiting approval, with
// enough context for the approver to decide without consulting anything else.
type Proposal struct {
	StrategyID  string  `json:"strategy_id"`
	Description string  `json:"description"`
	CurrentCost float64 `json:"current_cost"`
	NewCost     float64 `json:"new_cost"`
	Savings     float64 `json:"savings"`
	Iteration   int     `json:"iteration"`
}

// Decision is the approver's verdict on a proposal.
type Decision struct {
	Approved   bool         `json:"approved"`
	ApprovedBy ApproverKind `json:"approved_by"`
	ApproverID string       `json:"approver_id,omitempty"`
	Reason     string       `json:"reason,omitempty"`
	DecidedAt  time.Time    `json:"decided_at"`
}

// Gate is the optimizer's suspension point: the loop blocks in this call
// until a decision is returned. Callers implement it as an async boundary —
// surfacing the proposal to a human and resolving the call out-of-band — or
// as an auto-approval policy. A Gate error aborts the run.
type Gate func(ctx context.Context, proposal Proposal) (Decision, error)

// AutoApproveGate approves every proposal. Useful for non-interactive runs
// and tests.
func AutoApproveGate(ctx context.Context, proposal Proposal) (Decision, error) {
	return Decision{
		Approved:   true,
		ApprovedBy: ApproverAuto,
		DecidedAt:  time.Now(),
	}, nil
}
