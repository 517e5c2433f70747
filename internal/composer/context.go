package composer

// WarningsKey is the ExecutionContext key under which non-critical step
// failures are recorded.
const WarningsKey = "warnings"

// ExecutionContext is the mutable accumulator shared within one sequential
// run. Keys are step names; values are that step's result data. The context
// is owned exclusively by the running composer and discarded at run end
// unless the caller copies it forward into the next phase.
type ExecutionContext map[string]any

// NewExecutionContext creates a context seeded with a copy of the initial
// input so later merges never mutate caller-owned maps.
func NewExecutionContext(initial map[string]any) ExecutionContext {
	ec := make(ExecutionContext, len(initial))
	for k, v := range initial {
		ec[k] = v
	}
	return ec
}

// MergeStep records a step's result data under the step's name.
func (ec ExecutionContext) MergeStep(name string, data map[string]any) {
	ec[name] = data
}

// StepData returns the data recorded for a step, or nil if the step has not
// run or recorded nothing.
func (ec ExecutionContext) StepData(name string) map[string]any {
	data, _ := ec[name].(map[string]any)
	return data
}

// AddWarning appends a warning produced by a non-critical step failure.
func (ec ExecutionContext) AddWarning(warning string) {
	ec[WarningsKey] = append(ec.Warnings(), warning)
}

// Warnings returns the warnings accumulated so far.
func (ec ExecutionContext) Warnings() []string {
	warnings, _ := ec[WarningsKey].([]string)
	return warnings
}

// BuildInput merges the context with step-specific overrides into a fresh
// input map. Overrides win on key collisions.
func (ec ExecutionContext) BuildInput(overrides map[string]any) map[string]any {
	input := make(map[string]any, len(ec)+len(overrides))
	for k, v := range ec {
		input[k] = v
	}
	for k, v := range overrides {
		input[k] = v
	}
	return input
}

// Clone returns a shallow copy of the context. Step data maps are shared;
// callers that need isolation must copy values themselves.
func (ec ExecutionContext) Clone() ExecutionContext {
	out := make(ExecutionContext, len(ec))
	for k, v := range ec {
		out[k] = v
	}
	return out
}
