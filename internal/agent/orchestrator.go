package agent

import (
	"errors"
	"time"
)

// RunState is the terminal or in-flight phase of a run.
type RunState string

const (
	StateAwaitingModel  RunState = "awaiting_model"
	StateModelResponded RunState = "model_responded"
	StateExecutingTools RunState = "executing_tools"
	StateDone           RunState = "done"
	StateAborted        RunState = "aborted"
)

// DefaultMaxIterations bounds the reason/act loop when no limit is
// configured.
const DefaultMaxIterations = 10

// eventContentLimit caps tool result content on events; full content
// still reaches the model through history.
const eventContentLimit = 500

// ErrBudgetExceeded reports a run stopped because the iteration budget
// ran out before the model produced a final answer.
var ErrBudgetExceeded = errors.New("iteration budget exceeded")

// Orchestrator drives the reason/act loop: ask the provider, execute
// any requested tools, fold the results back into history, repeat.
type Orchestrator struct {
	Provider      Provider
	Invoker       ToolInvoker
	Tools         []ToolDescriptor
	System        string
	Bus           *Bus
	MaxIterations int

	// Clock stamps event times; nil means time.Now.
	Clock func() time.Time
}

// RunResult is everything a completed run produced.
type RunResult struct {
	FinalText  string
	State      RunState
	Events     []ThinkingEvent
	History    []Message
	Iterations int
}
