package bus

import (
	"time"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/types"
)

// MessageType identifies the kind of notification carried by a message.
type MessageType string

const (
	MessageSecurityAlert   MessageType = "security.alert"
	MessageWeatherAdvisory MessageType = "weather.advisory"
	MessageBudgetUpdate    MessageType = "budget.update"
	MessageTravelBlocked   MessageType = "travel.blocked"
	MessageCustom          MessageType = "custom"
)

// String returns the string representation of the message type.
func (t MessageType) String() string {
	return string(t)
}

// Priority indicates how urgently a message should be handled.
// Critical-priority messages abort the current pipeline run.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// rank orders priorities for filter comparisons. Unknown values rank lowest.
func (p Priority) rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityNormal:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether p is at or above the given priority.
func (p Priority) AtLeast(min Priority) bool {
	return p.rank() >= min.rank()
}

// Payload is the typed content of a message. Each message kind has its own
// payload struct; CustomPayload covers ad-hoc notifications. Forward-compatible
// extension fields live in each payload's Extra map.
type Payload interface {
	// Kind returns the message type this payload belongs to.
	Kind() MessageType
}

// SecurityAlertPayload reports a safety concern for a destination.
type SecurityAlertPayload struct {
	Destination string         `json:"destination"`
	Severity    string         `json:"severity"`
	Details     string         `json:"details"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// Kind implements Payload.
func (SecurityAlertPayload) Kind() MessageType { return MessageSecurityAlert }

// WeatherAdvisoryPayload reports adverse weather conditions that downstream
// steps (packing lists, document assembly) should account for.
type WeatherAdvisoryPayload struct {
	Destination string         `json:"destination"`
	Conditions  string         `json:"conditions"`
	Severity    string         `json:"severity"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// Kind implements Payload.
func (WeatherAdvisoryPayload) Kind() MessageType { return MessageWeatherAdvisory }

// BudgetUpdatePayload carries a revised cost estimate.
type BudgetUpdatePayload struct {
	EstimatedTotal float64        `json:"estimated_total"`
	UserBudget     float64        `json:"user_budget"`
	Note           string         `json:"note,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// Kind implements Payload.
func (BudgetUpdatePayload) Kind() MessageType { return MessageBudgetUpdate }

// TravelBlockedPayload signals that travel to the destination is not possible
// (visa refusal, do-not-travel advisory). Senders should use critical priority.
type TravelBlockedPayload struct {
	Destination string         `json:"destination"`
	Reason      string         `json:"reason"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// Kind implements Payload.
func (TravelBlockedPayload) Kind() MessageType { return MessageTravelBlocked }

// CustomPayload is a free-form payload for notifications that do not fit a
// dedicated kind.
type CustomPayload struct {
	Fields map[string]any `json:"fields,omitempty"`
}

// Kind implements Payload.
func (CustomPayload) Kind() MessageType { return MessageCustom }

// Message is an immutable notification routed between named agents.
// Only the Acknowledged flag changes after creation, and only false to true.
type Message struct {
	ID           types.ID    `json:"id"`
	From         string      `json:"from"`
	To           string      `json:"to"`
	Type         MessageType `json:"type"`
	Priority     Priority    `json:"priority"`
	Payload      Payload     `json:"payload"`
	CreatedAt    time.Time   `json:"created_at"`
	Acknowledged bool        `json:"acknowledged"`
}

// NewMessage creates a message from one agent to another. The message type is
// derived from the payload. Priority defaults to normal.
func NewMessage(from, to string, payload Payload) Message {
	return Message{
		ID:        types.NewID(),
		From:      from,
		To:        to,
		Type:      payload.Kind(),
		Priority:  PriorityNormal,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}

// WithPriority returns a copy of the message with the given priority.
func (m Message) WithPriority(p Priority) Message {
	m.Priority = p
	return m
}

// Validate checks message invariants before it enters a queue.
func (m Message) Validate() error {
	if m.From == "" || m.To == "" {
		return types.NewError(types.BUS_INVALID_MESSAGE, "message requires both sender and recipient")
	}
	if m.From == m.To {
		return types.NewError(types.BUS_SELF_SEND, "message sender and recipient must differ")
	}
	if m.Payload == nil {
		return types.NewError(types.BUS_INVALID_MESSAGE, "message requires a payload")
	}
	return nil
}

// Filter selects messages during receive and drain operations.
// Zero-value fields match everything.
type Filter struct {
	// Types restricts matches to the listed message types.
	Types []MessageType

	// From restricts matches to messages from a specific sender.
	From string

	// MinPriority restricts matches to messages at or above this priority.
	MinPriority Priority
}

// Matches reports whether the message satisfies all set filter criteria.
func (f Filter) Matches(m Message) bool {
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if m.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.From != "" && m.From != f.From {
		return false
	}

	if f.MinPriority != "" && !m.Priority.AtLeast(f.MinPriority) {
		return false
	}

	return true
}
