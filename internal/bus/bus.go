package bus

import (
	"context"
	"sync"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/types"
)

// Bus routes typed messages between named agents within a single process.
//
// Delivery model:
//   - Send appends to an in-memory per-recipient queue keyed by Message.To.
//   - Receive returns matching messages without acknowledging them; an
//     unacknowledged message remains retrievable across calls.
//   - Drain returns matching messages and marks them acknowledged; an
//     acknowledged message is never returned again but is retained for audit.
//   - Sending to an unknown recipient is not an error: the message waits in
//     the recipient's queue until that agent first polls.
//
// There is no network transport and no persistence; queues live for the
// process lifetime only. All methods are safe for concurrent use, and appends
// are serialized per recipient so arrival order is preserved.
type Bus interface {
	// Send validates and enqueues a message for its recipient.
	// Returns an error only for invalid messages or a closed bus.
	Send(msg Message) error

	// Receive returns a copy of every unacknowledged message for the agent
	// that matches the filter, in arrival order, without acknowledging them.
	Receive(agent string, filter Filter) []Message

	// Drain returns matching unacknowledged messages for the agent in
	// arrival order and marks them acknowledged.
	Drain(agent string, filter Filter) []Message

	// RegisterHandler installs a handler for a message type addressed to the
	// agent. ProcessMessages dispatches drained messages to these handlers.
	RegisterHandler(agent string, msgType MessageType, handler Handler)

	// ProcessMessages drains the agent's queue and invokes registered
	// handlers for each message. Messages with no matching handler are still
	// acknowledged. Returns one HandlerResult per drained message.
	ProcessMessages(ctx context.Context, agent string) []HandlerResult

	// Close shuts down the bus. After Close, Send returns an error.
	Close() error
}

// Handler processes a single message dispatched by ProcessMessages.
type Handler func(ctx context.Context, msg Message) HandlerResult

// HandlerResult reports the outcome of handling one message.
type HandlerResult struct {
	MessageID types.ID
	Handled   bool
	Err       error
}

// Interceptor observes every message at send time, before it is queued.
// The orchestrator uses an interceptor to react to critical-priority
// messages regardless of their recipient.
type Interceptor func(msg Message)

// InMemoryBus implements Bus with per-recipient FIFO queues guarded by a
// single mutex. Messages are retained (marked, never deleted) so a completed
// run can be audited.
type InMemoryBus struct {
	mu          sync.Mutex
	queues      map[string][]*Message
	handlers    map[string]map[MessageType]Handler
	interceptor Interceptor
	closed      bool
}

// Option configures an InMemoryBus.
type Option func(*InMemoryBus)

// WithInterceptor installs a hook invoked synchronously on every successful
// Send. The hook must not call back into the bus.
func WithInterceptor(fn Interceptor) Option {
	return func(b *InMemoryBus) {
		if fn != nil {
			b.interceptor = fn
		}
	}
}

// NewInMemoryBus creates an empty in-memory message bus.
func NewInMemoryBus(opts ...Option) *InMemoryBus {
	b := &InMemoryBus{
		queues:   make(map[string][]*Message),
		handlers: make(map[string]map[MessageType]Handler),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Send validates and enqueues a message for its recipient.
func (b *InMemoryBus) Send(msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return types.NewError(types.BUS_CLOSED, "bus is closed")
	}

	stored := msg
	stored.Acknowledged = false
	b.queues[msg.To] = append(b.queues[msg.To], &stored)
	interceptor := b.interceptor
	b.mu.Unlock()

	if interceptor != nil {
		interceptor(msg)
	}

	return nil
}

// Receive returns copies of unacknowledged matching messages without
// acknowledging them. Repeated calls return the same messages until they are
// drained.
func (b *InMemoryBus) Receive(agent string, filter Filter) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Message
	for _, m := range b.queues[agent] {
		if m.Acknowledged || !filter.Matches(*m) {
			continue
		}
		out = append(out, *m)
	}
	return out
}

// Drain returns unacknowledged matching messages and marks them acknowledged.
func (b *InMemoryBus) Drain(agent string, filter Filter) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Message
	for _, m := range b.queues[agent] {
		if m.Acknowledged || !filter.Matches(*m) {
			continue
		}
		m.Acknowledged = true
		copied := *m
		out = append(out, copied)
	}
	return out
}

// RegisterHandler installs a handler for a message type addressed to agent.
// Registering again for the same agent and type replaces the handler.
func (b *InMemoryBus) RegisterHandler(agent string, msgType MessageType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[agent] == nil {
		b.handlers[agent] = make(map[MessageType]Handler)
	}
	b.handlers[agent][msgType] = handler
}

// ProcessMessages drains the agent's queue and dispatches each message to its
// registered handler, if any.
func (b *InMemoryBus) ProcessMessages(ctx context.Context, agent string) []HandlerResult {
	msgs := b.Drain(agent, Filter{})
	if len(msgs) == 0 {
		return nil
	}

	b.mu.Lock()
	handlers := b.handlers[agent]
	b.mu.Unlock()

	results := make([]HandlerResult, 0, len(msgs))
	for _, msg := range msgs {
		handler, ok := handlers[msg.Type]
		if !ok {
			results = append(results, HandlerResult{MessageID: msg.ID, Handled: false})
			continue
		}
		results = append(results, handler(ctx, msg))
	}
	return results
}

// QueueDepth returns the number of unacknowledged messages waiting for an
// agent. Useful for monitoring and tests.
func (b *InMemoryBus) QueueDepth(agent string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, m := range b.queues[agent] {
		if !m.Acknowledged {
			n++
		}
	}
	return n
}

// Close shuts down the bus. Close is idempotent.
func (b *InMemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Ensure InMemoryBus implements Bus at compile time.
var _ Bus = (*InMemoryBus)(nil)
