package agent

import (
	"context"
	"slices"
	"sync"
)

// DefaultHistoryTurns bounds how many user turns of history a session
// keeps when no limit is configured.
const DefaultHistoryTurns = 20

// Session owns conversation history across runs. Concurrent Ask calls on
// the same session are serialized; independent conversations should use
// independent sessions.
type Session struct {
	mu           sync.Mutex
	orchestrator *Orchestrator
	history      []Message
	maxTurns     int
}

// NewSession wraps an orchestrator with persistent, bounded history.
// maxTurns caps history at the most recent user turns, including the
// turn being asked.
func NewSession(orchestrator *Orchestrator, maxTurns int) *Session {
	if maxTurns <= 0 {
		maxTurns = DefaultHistoryTurns
	}
	return &Session{orchestrator: orchestrator, maxTurns: maxTurns}
}

// Ask runs one orchestration for the user text and returns the final
// answer. On a budget abort the budget notice is returned alongside
// ErrBudgetExceeded; the accumulated history is kept either way.
func (s *Session) Ask(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = BoundHistory(s.history, s.maxTurns-1)
	initial := append(slices.Clone(s.history), Message{Role: RoleUser, Text: text})
	result, err := s.orchestrator.Run(ctx, initial)
	if len(result.History) > 0 {
		s.history = result.History
	} else {
		s.history = initial
	}
	return result.FinalText, err
}

// History returns a copy of the accumulated history.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// Clear drops all accumulated history.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// BoundHistory keeps at most turns most recent user turns, cutting only
// at user-message boundaries so an assistant tool call is never split
// from its tool-role result.
func BoundHistory(history []Message, turns int) []Message {
	if turns <= 0 {
		return nil
	}
	starts := make([]int, 0, len(history))
	for i, msg := range history {
		if msg.Role == RoleUser {
			starts = append(starts, i)
		}
	}
	if len(starts) <= turns {
		return history
	}
	return slices.Clone(history[starts[len(starts)-turns]:])
}
