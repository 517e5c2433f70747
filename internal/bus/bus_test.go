package bus

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/types"
)

func TestSendValidation(t *testing.T) {
	b := NewInMemoryBus()

	t.Run("rejects self-send", func(t *testing.T) {
		msg := NewMessage("weather", "weather", WeatherAdvisoryPayload{Destination: "Oslo"})
		err := b.Send(msg)
		require.Error(t, err)
		assert.Equal(t, types.BUS_SELF_SEND, types.CodeOf(err))
	})

	t.Run("rejects missing payload", func(t *testing.T) {
		err := b.Send(Message{ID: types.NewID(), From: "a", To: "b", Type: MessageCustom})
		require.Error(t, err)
		assert.Equal(t, types.BUS_INVALID_MESSAGE, types.CodeOf(err))
	})

	t.Run("queues for unknown recipient", func(t *testing.T) {
		msg := NewMessage("weather", "documents", WeatherAdvisoryPayload{Destination: "Oslo"})
		require.NoError(t, b.Send(msg))
		assert.Equal(t, 1, b.QueueDepth("documents"))
	})
}

func TestReceiveIsIdempotentUntilDrained(t *testing.T) {
	b := NewInMemoryBus()
	msg := NewMessage("advisory", "orchestrator", SecurityAlertPayload{Destination: "Lima", Severity: "moderate"})
	require.NoError(t, b.Send(msg))

	// Receive does not acknowledge: the message stays retrievable.
	first := b.Receive("orchestrator", Filter{})
	second := b.Receive("orchestrator", Filter{})
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.False(t, first[0].Acknowledged)

	// Drain acknowledges exactly once.
	drained := b.Drain("orchestrator", Filter{})
	require.Len(t, drained, 1)
	assert.True(t, drained[0].Acknowledged)

	assert.Empty(t, b.Receive("orchestrator", Filter{}))
	assert.Empty(t, b.Drain("orchestrator", Filter{}))
	assert.Equal(t, 0, b.QueueDepth("orchestrator"))
}

func TestFilterMatching(t *testing.T) {
	b := NewInMemoryBus()
	require.NoError(t, b.Send(NewMessage("weather", "orchestrator", WeatherAdvisoryPayload{Destination: "Reykjavik"})))
	require.NoError(t, b.Send(NewMessage("advisory", "orchestrator",
		TravelBlockedPayload{Destination: "Reykjavik", Reason: "volcanic ash"}).WithPriority(PriorityCritical)))

	t.Run("by type", func(t *testing.T) {
		got := b.Receive("orchestrator", Filter{Types: []MessageType{MessageTravelBlocked}})
		require.Len(t, got, 1)
		assert.Equal(t, MessageTravelBlocked, got[0].Type)
	})

	t.Run("by minimum priority", func(t *testing.T) {
		got := b.Receive("orchestrator", Filter{MinPriority: PriorityHigh})
		require.Len(t, got, 1)
		assert.Equal(t, PriorityCritical, got[0].Priority)
	})

	t.Run("by sender", func(t *testing.T) {
		got := b.Receive("orchestrator", Filter{From: "weather"})
		require.Len(t, got, 1)
		assert.Equal(t, "weather", got[0].From)
	})
}

func TestArrivalOrderPreservedUnderConcurrentSenders(t *testing.T) {
	b := NewInMemoryBus()

	var wg sync.WaitGroup
	const senders = 8
	const perSender = 25

	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(sender int) {
			defer wg.Done()
			from := fmt.Sprintf("agent-%d", sender)
			for j := 0; j < perSender; j++ {
				msg := NewMessage(from, "orchestrator", CustomPayload{Fields: map[string]any{"seq": j}})
				assert.NoError(t, b.Send(msg))
			}
		}(i)
	}
	wg.Wait()

	got := b.Drain("orchestrator", Filter{})
	require.Len(t, got, senders*perSender)

	// Per-sender ordering must hold even though interleaving is arbitrary.
	lastSeq := make(map[string]int)
	for _, m := range got {
		seq := m.Payload.(CustomPayload).Fields["seq"].(int)
		if prev, ok := lastSeq[m.From]; ok {
			assert.Greater(t, seq, prev, "messages from %s out of order", m.From)
		}
		lastSeq[m.From] = seq
	}
}

func TestProcessMessagesDispatchesToHandlers(t *testing.T) {
	b := NewInMemoryBus()

	var handled []string
	b.RegisterHandler("documents", MessageWeatherAdvisory, func(ctx context.Context, msg Message) HandlerResult {
		payload := msg.Payload.(WeatherAdvisoryPayload)
		handled = append(handled, payload.Destination)
		return HandlerResult{MessageID: msg.ID, Handled: true}
	})

	require.NoError(t, b.Send(NewMessage("weather", "documents", WeatherAdvisoryPayload{Destination: "Tromso", Severity: "severe"})))
	require.NoError(t, b.Send(NewMessage("budget", "documents", BudgetUpdatePayload{EstimatedTotal: 1350})))

	results := b.ProcessMessages(context.Background(), "documents")
	require.Len(t, results, 2)
	assert.True(t, results[0].Handled)
	assert.False(t, results[1].Handled, "message without a handler is acknowledged but unhandled")
	assert.Equal(t, []string{"Tromso"}, handled)
	assert.Equal(t, 0, b.QueueDepth("documents"))
}

func TestInterceptorSeesEverySend(t *testing.T) {
	var critical []Message
	b := NewInMemoryBus(WithInterceptor(func(msg Message) {
		if msg.Priority == PriorityCritical {
			critical = append(critical, msg)
		}
	}))

	require.NoError(t, b.Send(NewMessage("weather", "documents", WeatherAdvisoryPayload{Destination: "Oslo"})))
	require.NoError(t, b.Send(NewMessage("advisory", "documents",
		TravelBlockedPayload{Destination: "Oslo", Reason: "border closed"}).WithPriority(PriorityCritical)))

	require.Len(t, critical, 1)
	assert.Equal(t, MessageTravelBlocked, critical[0].Type)
}

func TestClosedBusRejectsSend(t *testing.T) {
	b := NewInMemoryBus()
	require.NoError(t, b.Close())
	require.NoError(t, b.Close(), "close is idempotent")

	err := b.Send(NewMessage("a", "b", CustomPayload{}))
	require.Error(t, err)
	assert.Equal(t, types.BUS_CLOSED, types.CodeOf(err))
}
