package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for planner errors.
type ErrorCode string

// Message bus error codes
const (
	BUS_CLOSED          ErrorCode = "BUS_CLOSED"
	BUS_INVALID_MESSAGE ErrorCode = "BUS_INVALID_MESSAGE"
	BUS_SELF_SEND       ErrorCode = "BUS_SELF_SEND"
)

// Agent error codes
const (
	AGENT_EXECUTION_FAILED ErrorCode = "AGENT_EXECUTION_FAILED"
	AGENT_PANIC            ErrorCode = "AGENT_PANIC"
	AGENT_TIMEOUT          ErrorCode = "AGENT_TIMEOUT"
	AGENT_NOT_FOUND        ErrorCode = "AGENT_NOT_FOUND"
)

// Composer error codes
const (
	COMPOSE_CRITICAL_STEP_FAILED ErrorCode = "COMPOSE_CRITICAL_STEP_FAILED"
	COMPOSE_CANCELLED            ErrorCode = "COMPOSE_CANCELLED"
	COMPOSE_NO_STEPS             ErrorCode = "COMPOSE_NO_STEPS"
)

// Budget checkpoint error codes
const (
	BUDGET_INVALID_INPUT ErrorCode = "BUDGET_INVALID_INPUT"
)

// Optimizer error codes
const (
	OPTIMIZER_GATE_FAILED   ErrorCode = "OPTIMIZER_GATE_FAILED"
	OPTIMIZER_INVALID_STATE ErrorCode = "OPTIMIZER_INVALID_STATE"
	OPTIMIZER_NO_STRATEGIES ErrorCode = "OPTIMIZER_NO_STRATEGIES"
)

// Orchestrator error codes
const (
	ORCH_CRITICAL_ABORT       ErrorCode = "ORCH_CRITICAL_ABORT"
	ORCH_INVALID_RESUME_TOKEN ErrorCode = "ORCH_INVALID_RESUME_TOKEN"
	ORCH_INVALID_DECISION     ErrorCode = "ORCH_INVALID_DECISION"
	ORCH_INVALID_QUERY        ErrorCode = "ORCH_INVALID_QUERY"
	ORCH_NOT_HALTED           ErrorCode = "ORCH_NOT_HALTED"
	ORCH_PHASE_FAILED         ErrorCode = "ORCH_PHASE_FAILED"
)

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// PlannerError represents a structured error with error code, message, and
// optional cause. It supports error wrapping and retryability hints.
type PlannerError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
// Format: "[CODE] message" or "[CODE] message: cause" if a cause exists.
func (e *PlannerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain inspection.
func (e *PlannerError) Unwrap() error {
	return e.Cause
}

// Is matches errors by code, enabling errors.Is against sentinel codes.
func (e *PlannerError) Is(target error) bool {
	var perr *PlannerError
	if errors.As(target, &perr) {
		return e.Code == perr.Code
	}
	return false
}

// NewError creates a non-retryable PlannerError with the given code and message.
func NewError(code ErrorCode, message string) *PlannerError {
	return &PlannerError{
		Code:    code,
		Message: message,
	}
}

// NewRetryableError creates a retryable PlannerError. Use for transient
// failures that may succeed on a later attempt.
func NewRetryableError(code ErrorCode, message string) *PlannerError {
	return &PlannerError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// WrapError creates a non-retryable PlannerError wrapping an existing error.
func WrapError(code ErrorCode, message string, cause error) *PlannerError {
	return &PlannerError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf extracts the ErrorCode from err if it is a PlannerError anywhere in
// its chain; otherwise it returns the empty code.
func CodeOf(err error) ErrorCode {
	var perr *PlannerError
	if errors.As(err, &perr) {
		return perr.Code
	}
	return ""
}

// IsRetryable reports whether err carries a retryable PlannerError.
func IsRetryable(err error) bool {
	var perr *PlannerError
	if errors.As(err, &perr) {
		return perr.Retryable
	}
	return false
}
