package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"sage/internal/agent"
)

// Controller runs the live transcript UI and implements agent.Observer.
type Controller struct {
	events    chan agent.ThinkingEvent
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

// Start launches a live UI controller that writes to stdout. The UI
// renders inline rather than in the alternate screen so the transcript
// survives after exit.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan agent.ThinkingEvent, 256)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithInput(nil))
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// OnThinking forwards a run event to the UI without blocking the run.
func (c *Controller) OnThinking(event agent.ThinkingEvent) {
	if c == nil {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}

// Close signals the UI to stop once queued events are drained.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}
