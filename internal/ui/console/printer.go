package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"sage/internal/agent"
)

const contentRule = "----------------------------------------"

// Printer renders thinking events as a styled plain-text transcript.
// It implements agent.Observer and is safe for use alongside other
// observers on the same bus.
type Printer struct {
	mu      sync.Mutex
	w       io.Writer
	palette palette
}

// NewPrinter builds a printer for w. Styling follows the usual color
// environment conventions and is forced off by noColor.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	return &Printer{w: w, palette: paletteFor(w, noColor)}
}

// OnThinking implements agent.Observer.
func (p *Printer) OnThinking(event agent.ThinkingEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	heading, style := p.heading(event)
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.palette.apply(style, heading))
	if event.Content == "" {
		return
	}
	fmt.Fprintln(p.w, p.palette.apply(styleDim, contentRule))
	fmt.Fprintln(p.w, strings.TrimRight(event.Content, "\n"))
	fmt.Fprintln(p.w, p.palette.apply(styleDim, contentRule))
}

func (p *Printer) heading(event agent.ThinkingEvent) (string, headingStyle) {
	switch event.Kind {
	case agent.EventModelThought:
		return "[THINKING]", styleHeadingThought
	case agent.EventToolCall:
		return fmt.Sprintf("[TOOL CALL: %s]", event.Metadata[agent.MetaTool]), styleHeadingToolCall
	case agent.EventToolResult:
		return "[TOOL RESULT]", styleHeadingToolResult
	case agent.EventToolError:
		return "[TOOL ERROR]", styleHeadingError
	case agent.EventFinalAnswer:
		return "[ANSWER]", styleHeadingAnswer
	default:
		return fmt.Sprintf("[%s]", strings.ToUpper(string(event.Kind))), styleDefault
	}
}
