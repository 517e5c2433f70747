package agent

import (
	"time"
)

// ResultStatus represents the outcome classification of one agent execution.
type ResultStatus string

const (
	ResultStatusSuccess ResultStatus = "success"
	ResultStatusPartial ResultStatus = "partial"
	ResultStatusFailure ResultStatus = "failure"
)

// Result is the uniform outcome of a single agent execution.
// Agents never propagate raw errors past their boundary; internal failures are
// translated into a Result with failure status so composers can apply one
// recovery policy. A Result is created once per invocation and not mutated
// after the agent returns it.
type Result struct {
	Status      ResultStatus   `json:"status"`
	Data        map[string]any `json:"data,omitempty"`
	Errors      []string       `json:"errors,omitempty"`
	Elapsed     time.Duration  `json:"elapsed"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
}

// NewResult creates a Result with the start timestamp set.
func NewResult() Result {
	return Result{
		Data:      make(map[string]any),
		Metadata:  make(map[string]any),
		StartedAt: time.Now(),
	}
}

// Complete marks the result successful with the given data.
func (r *Result) Complete(data map[string]any) {
	r.Status = ResultStatusSuccess
	if data != nil {
		r.Data = data
	}
	r.finish()
}

// CompletePartial marks the result partial: some data was produced alongside
// one or more errors.
func (r *Result) CompletePartial(data map[string]any, errs ...string) {
	r.Status = ResultStatusPartial
	if data != nil {
		r.Data = data
	}
	r.Errors = append(r.Errors, errs...)
	r.finish()
}

// Fail marks the result failed. Data is left empty or partial per the
// contract: failure implies no authoritative data.
func (r *Result) Fail(errs ...string) {
	r.Status = ResultStatusFailure
	r.Errors = append(r.Errors, errs...)
	r.finish()
}

// Failed reports whether the execution produced no usable outcome.
func (r *Result) Failed() bool {
	return r.Status == ResultStatusFailure
}

func (r *Result) finish() {
	r.CompletedAt = time.Now()
	r.Elapsed = r.CompletedAt.Sub(r.StartedAt)
	if r.Elapsed < 0 {
		r.Elapsed = 0
	}
}
