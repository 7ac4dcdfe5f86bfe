package live

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sage/internal/agent"
)

// Model renders the run transcript using Bubble Tea.
type Model struct {
	entries  []entry
	spinner  spinner.Model
	events   <-chan agent.ThinkingEvent
	noColor  bool
	finished bool
	started  time.Time
}

type entry struct {
	kind    agent.EventKind
	heading string
	body    string
}

// Options configures the live UI model.
type Options struct {
	NoColor bool
}

// NewModel constructs a transcript model for an event stream.
func NewModel(events <-chan agent.ThinkingEvent, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	if !opts.NoColor {
		s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	}
	return Model{
		spinner: s,
		events:  events,
		noColor: opts.NoColor,
		started: time.Now(),
	}
}

// Init starts the spinner and waits for the first event.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

// Update consumes run events and spinner ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case eventMsg:
		m.entries = append(m.entries, entryFor(typed.event))
		if typed.event.Kind == agent.EventFinalAnswer {
			m.finished = true
		}
		return m, waitForEvent(m.events)
	case quitMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(typed)
		return m, cmd
	}
	return m, nil
}

// View renders the transcript followed by a status line.
func (m Model) View() string {
	styles := stylesFor(m.noColor)
	lines := make([]string, 0, len(m.entries)+1)
	for _, e := range m.entries {
		block := styles.heading(e.kind).Render(e.heading)
		if e.body != "" {
			block = lipgloss.JoinVertical(lipgloss.Left, block, styles.body.Render(e.body))
		}
		lines = append(lines, block)
	}
	if !m.finished {
		lines = append(lines, m.spinner.View()+" thinking…")
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

type eventMsg struct {
	event agent.ThinkingEvent
}

type quitMsg struct{}

// waitForEvent blocks until a run event is available.
func waitForEvent(events <-chan agent.ThinkingEvent) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return quitMsg{}
		}
		event, ok := <-events
		if !ok {
			return quitMsg{}
		}
		return eventMsg{event: event}
	}
}

func entryFor(event agent.ThinkingEvent) entry {
	heading := headingFor(event)
	return entry{kind: event.Kind, heading: heading, body: event.Content}
}

func headingFor(event agent.ThinkingEvent) string {
	switch event.Kind {
	case agent.EventModelThought:
		return "thinking"
	case agent.EventToolCall:
		return "calling " + event.Metadata[agent.MetaTool]
	case agent.EventToolResult:
		return "result from " + event.Metadata[agent.MetaTool]
	case agent.EventToolError:
		return "error from " + event.Metadata[agent.MetaTool]
	case agent.EventFinalAnswer:
		return "answer"
	default:
		return string(event.Kind)
	}
}
