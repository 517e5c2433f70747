package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlannerErrorFormat(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := NewError(AGENT_EXECUTION_FAILED, "weather lookup failed")
		assert.Equal(t, "[AGENT_EXECUTION_FAILED] weather lookup failed", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := fmt.Errorf("connection refused")
		err := WrapError(AGENT_EXECUTION_FAILED, "weather lookup failed", cause)
		assert.Equal(t, "[AGENT_EXECUTION_FAILED] weather lookup failed: connection refused", err.Error())
	})
}

func TestPlannerErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := WrapError(ORCH_PHASE_FAILED, "research phase", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestPlannerErrorIsMatchesByCode(t *testing.T) {
	a := NewError(ORCH_CRITICAL_ABORT, "travel blocked")
	b := NewError(ORCH_CRITICAL_ABORT, "different message")
	c := NewError(ORCH_NOT_HALTED, "travel blocked")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewError(BUS_CLOSED, "closed"))

	assert.Equal(t, BUS_CLOSED, CodeOf(wrapped))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewRetryableError(AGENT_TIMEOUT, "slow upstream")))
	assert.False(t, IsRetryable(NewError(AGENT_TIMEOUT, "slow upstream")))
	assert.False(t, IsRetryable(errors.New("plain")))
}
