package agent

import "time"

// EventKind classifies a thinking event.
type EventKind string

const (
	// EventModelThought is assistant text emitted alongside tool calls.
	EventModelThought EventKind = "model_thought"
	// EventToolCall marks the start of one tool invocation.
	EventToolCall EventKind = "tool_call"
	// EventToolResult carries a successful tool outcome.
	EventToolResult EventKind = "tool_result"
	// EventToolError carries a failed tool outcome.
	EventToolError EventKind = "tool_error"
	// EventFinalAnswer terminates a run, normally or not.
	EventFinalAnswer EventKind = "final_answer"
)

// Metadata keys attached to thinking events.
const (
	MetaTool     = "tool"
	MetaCallID   = "call_id"
	MetaDuration = "duration"
	MetaReason   = "reason"
)

// Reasons carried under MetaReason on abnormal final answers.
const (
	ReasonBudgetExhausted = "budget_exhausted"
	ReasonCancelled       = "cancelled"
)

// ThinkingEvent is one observable step of a run.
type ThinkingEvent struct {
	Kind      EventKind
	Content   string
	Metadata  map[string]string
	EmittedAt time.Time
}

// Observer receives thinking events as the run produces them. Callbacks
// run synchronously on the orchestration goroutine and must not block.
type Observer interface {
	OnThinking(event ThinkingEvent)
}
