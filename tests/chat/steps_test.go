package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cucumber/godog"

	"sage/internal/agent"
)

// featureState holds scenario state for conversation loop features.
type featureState struct {
	provider *featureProvider
	invoker  *featureInvoker
	budget   int
	answer   string
	runErr   error
	events   []agent.ThinkingEvent
}

// InitializeScenario wires feature steps to the state.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &featureState{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		*state = featureState{
			provider: &featureProvider{},
			invoker:  &featureInvoker{results: map[string]string{}},
		}
		return ctx, nil
	})

	ctx.Step(`^a model that requests "([^"]+)" and then answers "([^"]+)"$`, state.modelRequestsThenAnswers)
	ctx.Step(`^a model that always requests "([^"]+)"$`, state.modelAlwaysRequests)
	ctx.Step(`^a tool "([^"]+)" that returns "([^"]+)"$`, state.toolReturns)
	ctx.Step(`^no tool named "([^"]+)" exists$`, state.noToolExists)
	ctx.Step(`^the iteration budget is (\d+)$`, state.iterationBudgetIs)
	ctx.Step(`^I ask "([^"]+)"$`, state.iAsk)
	ctx.Step(`^the answer is "([^"]+)"$`, state.theAnswerIs)
	ctx.Step(`^the emitted events are:$`, state.theEmittedEventsAre)
	ctx.Step(`^the run is aborted for "([^"]+)"$`, state.theRunIsAbortedFor)
	ctx.Step(`^the model was called (\d+) times$`, state.theModelWasCalled)
	ctx.Step(`^a "([^"]+)" event was emitted$`, state.anEventWasEmitted)
	ctx.Step(`^the model saw the tool failure in its next prompt$`, state.modelSawToolFailure)
}

func (s *featureState) modelRequestsThenAnswers(tool, answer string) error {
	s.provider.responses = []agent.Response{
		{ToolCalls: []agent.ToolCall{{ID: "call-1", Name: tool, Args: agent.ToolCallArgs{}}}},
		{Text: answer},
	}
	return nil
}

func (s *featureState) modelAlwaysRequests(tool string) error {
	s.provider.repeat = &agent.Response{
		ToolCalls: []agent.ToolCall{{ID: "call-loop", Name: tool, Args: agent.ToolCallArgs{}}},
	}
	return nil
}

func (s *featureState) toolReturns(tool, content string) error {
	s.invoker.results[tool] = content
	return nil
}

func (s *featureState) noToolExists(tool string) error {
	delete(s.invoker.results, tool)
	return nil
}

func (s *featureState) iterationBudgetIs(budget int) error {
	s.budget = budget
	return nil
}

func (s *featureState) iAsk(question string) error {
	bus := agent.NewBus(nil)
	bus.Register(&collector{state: s})
	orchestrator := &agent.Orchestrator{
		Provider:      s.provider,
		Invoker:       s.invoker,
		Bus:           bus,
		MaxIterations: s.budget,
	}
	session := agent.NewSession(orchestrator, 0)
	s.answer, s.runErr = session.Ask(context.Background(), question)
	return nil
}

func (s *featureState) theAnswerIs(want string) error {
	if s.runErr != nil {
		return fmt.Errorf("run failed: %w", s.runErr)
	}
	if s.answer != want {
		return fmt.Errorf("answer = %q, want %q", s.answer, want)
	}
	return nil
}

func (s *featureState) theEmittedEventsAre(table *godog.Table) error {
	want := make([]string, 0, len(table.Rows))
	for i, row := range table.Rows {
		if i == 0 && row.Cells[0].Value == "kind" {
			continue
		}
		want = append(want, row.Cells[0].Value)
	}
	if len(s.events) != len(want) {
		return fmt.Errorf("emitted %d events, want %d: %v", len(s.events), len(want), kinds(s.events))
	}
	for i, kind := range want {
		if string(s.events[i].Kind) != kind {
			return fmt.Errorf("event %d = %s, want %s", i, s.events[i].Kind, kind)
		}
	}
	return nil
}

func (s *featureState) theRunIsAbortedFor(reason string) error {
	if !errors.Is(s.runErr, agent.ErrBudgetExceeded) {
		return fmt.Errorf("run error = %v, want budget exhaustion", s.runErr)
	}
	if len(s.events) == 0 {
		return fmt.Errorf("no events emitted")
	}
	last := s.events[len(s.events)-1]
	if last.Kind != agent.EventFinalAnswer {
		return fmt.Errorf("last event = %s, want final_answer", last.Kind)
	}
	if last.Metadata[agent.MetaReason] != reason {
		return fmt.Errorf("reason = %q, want %q", last.Metadata[agent.MetaReason], reason)
	}
	return nil
}

func (s *featureState) theModelWasCalled(times int) error {
	if got := len(s.provider.prompts); got != times {
		return fmt.Errorf("model called %d times, want %d", got, times)
	}
	return nil
}

func (s *featureState) anEventWasEmitted(kind string) error {
	for _, event := range s.events {
		if string(event.Kind) == kind {
			return nil
		}
	}
	return fmt.Errorf("no %s event in %v", kind, kinds(s.events))
}

func (s *featureState) modelSawToolFailure() error {
	if len(s.provider.prompts) < 2 {
		return fmt.Errorf("model called %d times, want at least 2", len(s.provider.prompts))
	}
	messages := s.provider.prompts[1].Messages
	last := messages[len(messages)-1]
	if last.Role != agent.RoleTool {
		return fmt.Errorf("last message role = %s, want tool", last.Role)
	}
	if !strings.HasPrefix(last.Text, "Error: ") {
		return fmt.Errorf("tool failure text = %q, want Error: prefix", last.Text)
	}
	return nil
}

func kinds(events []agent.ThinkingEvent) []string {
	out := make([]string, 0, len(events))
	for _, event := range events {
		out = append(out, string(event.Kind))
	}
	return out
}

// collector records events for assertions.
type collector struct {
	mu    sync.Mutex
	state *featureState
}

func (c *collector) OnThinking(event agent.ThinkingEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.events = append(c.state.events, event)
}

// featureProvider replays scripted responses or repeats one forever.
type featureProvider struct {
	responses []agent.Response
	repeat    *agent.Response
	prompts   []agent.Prompt
}

func (p *featureProvider) Complete(ctx context.Context, prompt agent.Prompt) (agent.Response, error) {
	p.prompts = append(p.prompts, prompt)
	if p.repeat != nil {
		return *p.repeat, nil
	}
	if len(p.responses) == 0 {
		return agent.Response{}, errors.New("no scripted response left")
	}
	next := p.responses[0]
	p.responses = p.responses[1:]
	return next, nil
}

// featureInvoker resolves tools from a fixed table; unknown tools are
// error results.
type featureInvoker struct {
	results map[string]string
}

func (inv *featureInvoker) Invoke(ctx context.Context, call agent.ToolCall) agent.ToolResult {
	content, ok := inv.results[call.Name]
	if !ok {
		return agent.ToolResult{
			CallID:  call.ID,
			Tool:    call.Name,
			Content: fmt.Sprintf("unknown tool %q", call.Name),
			IsError: true,
		}
	}
	return agent.ToolResult{CallID: call.ID, Tool: call.Name, Content: content}
}
