package agent

import (
	"context"
	"fmt"
	"time"
)

const (
	budgetNotice    = "I could not complete the task within the allowed number of steps."
	cancelledNotice = "The run was cancelled before it could complete."
)

// Run executes the reason/act loop starting from the given history. The
// last message of initial is expected to be the user's turn. The budget
// is checked before every inference call, so MaxIterations of 1 allows
// exactly one model round.
func (o *Orchestrator) Run(ctx context.Context, initial []Message) (RunResult, error) {
	maxIterations := o.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	acc := &runAccumulator{history: initial, state: StateAwaitingModel, clock: o.Clock}

	for {
		if acc.iterations >= maxIterations {
			acc.emit(o.Bus, ThinkingEvent{
				Kind:     EventFinalAnswer,
				Content:  budgetNotice,
				Metadata: map[string]string{MetaReason: ReasonBudgetExhausted},
			})
			acc.state = StateAborted
			result := acc.result()
			result.FinalText = budgetNotice
			return result, ErrBudgetExceeded
		}
		if err := ctx.Err(); err != nil {
			return acc.cancel(o.Bus), err
		}

		acc.state = StateAwaitingModel
		response, err := o.Provider.Complete(ctx, Prompt{
			System:   o.System,
			Messages: acc.history,
			Tools:    o.Tools,
		})
		if err != nil {
			if ctx.Err() != nil {
				return acc.cancel(o.Bus), ctx.Err()
			}
			acc.state = StateAborted
			return acc.result(), fmt.Errorf("inference: %w", err)
		}
		acc.state = StateModelResponded
		acc.history = append(acc.history, Message{
			Role:      RoleAssistant,
			Text:      response.Text,
			ToolCalls: response.ToolCalls,
		})

		if len(response.ToolCalls) == 0 {
			acc.emit(o.Bus, ThinkingEvent{Kind: EventFinalAnswer, Content: response.Text})
			acc.state = StateDone
			result := acc.result()
			result.FinalText = response.Text
			return result, nil
		}

		if response.Text != "" {
			acc.emit(o.Bus, ThinkingEvent{Kind: EventModelThought, Content: response.Text})
		}

		acc.state = StateExecutingTools
		for _, call := range response.ToolCalls {
			if err := ctx.Err(); err != nil {
				return acc.cancel(o.Bus), err
			}
			acc.emit(o.Bus, ThinkingEvent{
				Kind:     EventToolCall,
				Content:  call.Args.String(),
				Metadata: map[string]string{MetaTool: call.Name, MetaCallID: call.ID},
			})
			result := o.Invoker.Invoke(ctx, call)
			acc.history = append(acc.history, toolMessage(result))
			acc.emit(o.Bus, toolEvent(result))
		}
		acc.iterations++
	}
}

type runAccumulator struct {
	history    []Message
	events     []ThinkingEvent
	iterations int
	state      RunState
	clock      func() time.Time
}

func (a *runAccumulator) result() RunResult {
	return RunResult{
		State:      a.state,
		Events:     a.events,
		History:    a.history,
		Iterations: a.iterations,
	}
}

func (a *runAccumulator) emit(bus *Bus, event ThinkingEvent) {
	now := time.Now
	if a.clock != nil {
		now = a.clock
	}
	event.EmittedAt = now()
	a.events = append(a.events, event)
	if bus != nil {
		bus.Emit(event)
	}
}

func (a *runAccumulator) cancel(bus *Bus) RunResult {
	a.emit(bus, ThinkingEvent{
		Kind:     EventFinalAnswer,
		Content:  cancelledNotice,
		Metadata: map[string]string{MetaReason: ReasonCancelled},
	})
	a.state = StateAborted
	result := a.result()
	result.FinalText = cancelledNotice
	return result
}

func toolMessage(result ToolResult) Message {
	text := result.Content
	if result.IsError {
		text = "Error: " + text
	}
	return Message{Role: RoleTool, Text: text, ToolCallID: result.CallID}
}

func toolEvent(result ToolResult) ThinkingEvent {
	metadata := map[string]string{
		MetaTool:     result.Tool,
		MetaCallID:   result.CallID,
		MetaDuration: result.Duration.String(),
	}
	if result.IsError {
		return ThinkingEvent{Kind: EventToolError, Content: result.Content, Metadata: metadata}
	}
	return ThinkingEvent{
		Kind:     EventToolResult,
		Content:  truncateContent(result.Content, eventContentLimit),
		Metadata: metadata,
	}
}

func truncateContent(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "…"
}
